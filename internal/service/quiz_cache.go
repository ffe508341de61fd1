package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"lms_backend/internal/model"
)

// 测验结构只在重建/删除时变化，读多写少，适合旁路缓存。
// 答题状态与用户相关，不进缓存。

const quizCacheTTL = 10 * time.Minute

func quizCacheKey(quizID uint) string {
	return fmt.Sprintf("quiz:%d", quizID)
}

func (s *QuizService) getCachedQuiz(quizID uint) (*model.Quiz, bool) {
	if s.Redis == nil {
		return nil, false
	}

	data, err := s.Redis.Get(context.Background(), quizCacheKey(quizID)).Bytes()
	if err != nil {
		return nil, false
	}

	var quiz model.Quiz
	if err := json.Unmarshal(data, &quiz); err != nil {
		return nil, false
	}
	return &quiz, true
}

func (s *QuizService) setCachedQuiz(quiz *model.Quiz) {
	if s.Redis == nil {
		return
	}

	data, err := json.Marshal(quiz)
	if err != nil {
		return
	}
	s.Redis.Set(context.Background(), quizCacheKey(quiz.ID), data, quizCacheTTL)
}

func (s *QuizService) invalidateQuizCache(quizID uint) {
	if s.Redis == nil {
		return
	}
	s.Redis.Del(context.Background(), quizCacheKey(quizID))
}
