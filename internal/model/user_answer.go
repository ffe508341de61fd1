package model

// UserAnswer 用户对某个选项的选择记录，是答题与计分的唯一持久化依据。
// (user_id, answer_id) 上的唯一索引在持久层兜底幂等：并发重试下
// 先查后插并不原子，靠该约束保证同一选择不会落两行。
type UserAnswer struct {
	BaseModel
	UserID   uint `gorm:"not null;uniqueIndex:idx_user_answer;type:bigint unsigned" json:"userId"`
	AnswerID uint `gorm:"not null;uniqueIndex:idx_user_answer;type:bigint unsigned" json:"answerId"`
}

func (UserAnswer) TableName() string {
	return "user_answers"
}
