package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

// deleteQuizByLesson 级联删除课时的测验结构（选项 -> 题目 -> 测验）。
// 物理删除：软删除残留会继续占用 quizzes.lesson_id 的唯一索引，
// 导致整体替换时新测验无法落库。
func deleteQuizByLesson(tx *gorm.DB, lessonID uint) error {
	var quiz model.Quiz
	err := tx.Where("lesson_id = ?", lessonID).First(&quiz).Error
	if err == gorm.ErrRecordNotFound {
		return nil
	}
	if err != nil {
		return err
	}
	return deleteQuizCascade(tx, quiz.ID)
}

func deleteQuizCascade(tx *gorm.DB, quizID uint) error {
	var questionIDs []uint
	if err := tx.Model(&model.Question{}).Where("quiz_id = ?", quizID).Pluck("id", &questionIDs).Error; err != nil {
		return err
	}

	if len(questionIDs) > 0 {
		if err := tx.Unscoped().Where("question_id IN ?", questionIDs).Delete(&model.Answer{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("quiz_id = ?", quizID).Delete(&model.Question{}).Error; err != nil {
			return err
		}
	}

	return tx.Unscoped().Delete(&model.Quiz{}, quizID).Error
}

// Replace 整体替换课时的测验：先级联删除旧结构，再按入参顺序重建。
// 删除与重建在同一事务内，读者不会看到半成品测验。
func (r *QuizRepository) Replace(lessonID uint, quiz *model.Quiz) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := deleteQuizByLesson(tx, lessonID); err != nil {
			return err
		}

		questions := quiz.Questions
		quiz.Questions = nil
		quiz.LessonID = lessonID

		if err := tx.Create(quiz).Error; err != nil {
			return err
		}

		// 逐条创建，自增主键顺序即展示与计分顺序
		for i := range questions {
			answers := questions[i].Answers
			questions[i].Answers = nil
			questions[i].QuizID = quiz.ID

			if err := tx.Create(&questions[i]).Error; err != nil {
				return err
			}

			for j := range answers {
				answers[j].QuestionID = questions[i].ID
				if err := tx.Create(&answers[j]).Error; err != nil {
					return err
				}
			}
			questions[i].Answers = answers
		}

		quiz.Questions = questions
		return nil
	})
}

// FindByIDWithContent 按插入顺序加载测验的题目与选项
func (r *QuizRepository) FindByIDWithContent(id uint) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.DB.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("questions.id asc")
		}).
		Preload("Questions.Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("answers.id asc")
		}).
		First(&quiz, id).Error
	return &quiz, err
}

func (r *QuizRepository) FindByLessonID(lessonID uint) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.DB.Where("lesson_id = ?", lessonID).First(&quiz).Error
	return &quiz, err
}

func (r *QuizRepository) FindAnswerByID(id uint) (*model.Answer, error) {
	var answer model.Answer
	err := r.DB.First(&answer, id).Error
	return &answer, err
}

// Delete 删除测验及其题目、选项
func (r *QuizRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var quiz model.Quiz
		if err := tx.First(&quiz, id).Error; err != nil {
			return err
		}
		return deleteQuizCascade(tx, quiz.ID)
	})
}
