package model

// Quiz 课时测验。一个课时至多拥有一个测验，整体替换时旧结构被级联删除。
// swagger:model Quiz
type Quiz struct {
	BaseModel
	Title     string     `gorm:"size:255;not null" json:"title"`
	LessonID  uint       `gorm:"uniqueIndex;type:bigint unsigned" json:"lessonId"`
	Questions []Question `gorm:"foreignKey:QuizID" json:"questions,omitempty"`
}

func (Quiz) TableName() string {
	return "quizzes"
}
