package model

// Question 测验题目，插入顺序即展示与计分顺序
// swagger:model Question
type Question struct {
	BaseModel
	Text    string   `gorm:"type:text;not null" json:"text"`
	QuizID  uint     `gorm:"index;type:bigint unsigned" json:"quizId"`
	Answers []Answer `gorm:"foreignKey:QuestionID" json:"answers,omitempty"`
}

func (Question) TableName() string {
	return "questions"
}
