package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type LessonRepository struct {
	DB *gorm.DB
}

func NewLessonRepository(db *gorm.DB) *LessonRepository {
	return &LessonRepository{DB: db}
}

func (r *LessonRepository) Create(lesson *model.Lesson) error {
	return r.DB.Create(lesson).Error
}

func (r *LessonRepository) FindByID(id uint) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.First(&lesson, id).Error
	return &lesson, err
}

// FindByIDWithQuiz 课时详情，附带测验（若存在，仅测验本体不含题目）
func (r *LessonRepository) FindByIDWithQuiz(id uint) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.Preload("Quiz").First(&lesson, id).Error
	return &lesson, err
}

func (r *LessonRepository) FindByModule(moduleID uint) ([]model.Lesson, error) {
	var lessons []model.Lesson
	err := r.DB.Where("module_id = ?", moduleID).Order("id asc").Find(&lessons).Error
	return lessons, err
}

func (r *LessonRepository) Update(lesson *model.Lesson) error {
	return r.DB.Save(lesson).Error
}

// Delete 删除课时及其测验结构
func (r *LessonRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := deleteQuizByLesson(tx, id); err != nil {
			return err
		}
		return tx.Unscoped().Delete(&model.Lesson{}, id).Error
	})
}
