package model

// Answer 选项。正确性是选项本身的属性，与任何提交无关。
// swagger:model Answer
type Answer struct {
	BaseModel
	Text       string `gorm:"type:text;not null" json:"text"`
	IsCorrect  bool   `gorm:"default:false" json:"isCorrect"`
	QuestionID uint   `gorm:"index;type:bigint unsigned" json:"questionId"`
}

func (Answer) TableName() string {
	return "answers"
}
