package repository

import (
	"lms_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserAnswerRepository struct {
	DB *gorm.DB
}

func NewUserAnswerRepository(db *gorm.DB) *UserAnswerRepository {
	return &UserAnswerRepository{DB: db}
}

// RecordSubmission 在单个事务内落库一次提交的全部选择并统计答对数。
// 同一 (user, answer) 的记录借助唯一索引 + ON CONFLICT DO NOTHING 至多落一行，
// 重复提交不产生新行；无论记录是否新建，选项的正确性都计入本次得分。
// 任何选项 id 未知时整个事务回滚，返回 gorm.ErrRecordNotFound。
func (r *UserAnswerRepository) RecordSubmission(userID uint, answerIDs []uint) (int, error) {
	score := 0

	err := r.DB.Transaction(func(tx *gorm.DB) error {
		for _, answerID := range answerIDs {
			var answer model.Answer
			if err := tx.First(&answer, answerID).Error; err != nil {
				return err
			}

			ua := model.UserAnswer{UserID: userID, AnswerID: answerID}
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&ua).Error; err != nil {
				return err
			}

			if answer.IsCorrect {
				score++
			}
		}
		return nil
	})

	if err != nil {
		return 0, err
	}
	return score, nil
}

// FindSelected 返回用户在给定选项集合中已选中的选项 id
func (r *UserAnswerRepository) FindSelected(userID uint, answerIDs []uint) ([]uint, error) {
	if len(answerIDs) == 0 {
		return nil, nil
	}

	var selected []uint
	err := r.DB.Model(&model.UserAnswer{}).
		Where("user_id = ? AND answer_id IN ?", userID, answerIDs).
		Order("answer_id asc").
		Pluck("answer_id", &selected).Error
	return selected, err
}

func (r *UserAnswerRepository) CountByUserAndAnswers(userID uint, answerIDs []uint) (int64, error) {
	if len(answerIDs) == 0 {
		return 0, nil
	}

	var count int64
	err := r.DB.Model(&model.UserAnswer{}).
		Where("user_id = ? AND answer_id IN ?", userID, answerIDs).
		Count(&count).Error
	return count, err
}
