package model

// Lesson 课时，最多关联一个测验
// swagger:model Lesson
type Lesson struct {
	BaseModel
	Topic    string `gorm:"size:255;not null" json:"topic"`
	Content  string `gorm:"type:longtext" json:"content"` // 编辑器产出的 HTML 正文
	ModuleID uint   `gorm:"index;type:bigint unsigned" json:"moduleId"`
	Quiz     *Quiz  `gorm:"foreignKey:LessonID" json:"quiz,omitempty"`
}

func (Lesson) TableName() string {
	return "lessons"
}
