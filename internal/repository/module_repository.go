package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type ModuleRepository struct {
	DB *gorm.DB
}

func NewModuleRepository(db *gorm.DB) *ModuleRepository {
	return &ModuleRepository{DB: db}
}

func (r *ModuleRepository) Create(module *model.Module) error {
	return r.DB.Create(module).Error
}

func (r *ModuleRepository) FindByID(id uint) (*model.Module, error) {
	var module model.Module
	err := r.DB.First(&module, id).Error
	return &module, err
}

func (r *ModuleRepository) FindAll() ([]model.Module, error) {
	var modules []model.Module
	err := r.DB.Order("id asc").Find(&modules).Error
	return modules, err
}

func (r *ModuleRepository) Update(module *model.Module) error {
	return r.DB.Save(module).Error
}

// Delete 删除模块及其下所有课时、测验结构
func (r *ModuleRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var lessonIDs []uint
		if err := tx.Model(&model.Lesson{}).Where("module_id = ?", id).Pluck("id", &lessonIDs).Error; err != nil {
			return err
		}

		for _, lessonID := range lessonIDs {
			if err := deleteQuizByLesson(tx, lessonID); err != nil {
				return err
			}
		}

		if len(lessonIDs) > 0 {
			if err := tx.Unscoped().Where("module_id = ?", id).Delete(&model.Lesson{}).Error; err != nil {
				return err
			}
		}

		return tx.Unscoped().Delete(&model.Module{}, id).Error
	})
}
