package util

import "errors"

var (
	ErrUserNotFound     = errors.New("用户不存在")
	ErrEmailRegistered  = errors.New("该邮箱已被注册")
	ErrPermissionDenied = errors.New("permission denied")
	ErrModuleNotFound   = errors.New("module not found")
	ErrLessonNotFound   = errors.New("lesson not found")
	ErrQuizNotFound     = errors.New("quiz not found")
	ErrAnswerNotFound   = errors.New("answer not found")
)
