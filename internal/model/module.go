package model

// DefaultCoverImage 未上传封面时使用的默认图片
const DefaultCoverImage = "default_course.jpg"

// Module 课程模块，组织若干课时
// swagger:model Module
type Module struct {
	BaseModel
	Name        string   `gorm:"size:255;not null" json:"name"`
	Description string   `gorm:"type:text" json:"description"`
	ImagePath   string   `gorm:"size:255;default:'default_course.jpg'" json:"imagePath"`
	Lessons     []Lesson `gorm:"foreignKey:ModuleID" json:"lessons,omitempty"`
}

func (Module) TableName() string {
	return "modules"
}
