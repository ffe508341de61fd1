package service

import (
	"errors"
	"math"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

type QuizService struct {
	Repo           *repository.QuizRepository
	UserAnswerRepo *repository.UserAnswerRepository
	LessonRepo     *repository.LessonRepository
	Redis          *redis.Client
}

func NewQuizService(repo *repository.QuizRepository, uaRepo *repository.UserAnswerRepository, lessonRepo *repository.LessonRepository, rdb *redis.Client) *QuizService {
	return &QuizService{
		Repo:           repo,
		UserAnswerRepo: uaRepo,
		LessonRepo:     lessonRepo,
		Redis:          rdb,
	}
}

type QuizAnswerReq struct {
	Text      string `json:"text" binding:"required"`
	IsCorrect *bool  `json:"is_correct" binding:"required"`
}

type QuizQuestionReq struct {
	Text    string          `json:"text" binding:"required"`
	Answers []QuizAnswerReq `json:"answers" binding:"dive"`
}

type QuizReq struct {
	Title     string            `json:"title" binding:"required"`
	Questions []QuizQuestionReq `json:"questions" binding:"dive"`
}

// ReplaceQuiz 整体替换课时的测验。旧测验（如有）连同题目、选项一并删除，
// 再按提交顺序重建，删除与重建在同一事务内完成。
func (s *QuizService) ReplaceQuiz(lessonID uint, req QuizReq) (*model.Quiz, error) {
	if _, err := s.LessonRepo.FindByID(lessonID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}

	quiz := &model.Quiz{Title: req.Title}
	for _, qReq := range req.Questions {
		question := model.Question{Text: qReq.Text}
		for _, aReq := range qReq.Answers {
			question.Answers = append(question.Answers, model.Answer{
				Text:      aReq.Text,
				IsCorrect: *aReq.IsCorrect,
			})
		}
		quiz.Questions = append(quiz.Questions, question)
	}

	oldQuiz, err := s.Repo.FindByLessonID(lessonID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err := s.Repo.Replace(lessonID, quiz); err != nil {
		return nil, err
	}

	if oldQuiz != nil && oldQuiz.ID != 0 {
		s.invalidateQuizCache(oldQuiz.ID)
	}
	return quiz, nil
}

// GetQuiz 加载测验及其题目、选项（插入顺序），结构可被 Redis 缓存
func (s *QuizService) GetQuiz(quizID uint) (*model.Quiz, error) {
	if quiz, ok := s.getCachedQuiz(quizID); ok {
		return quiz, nil
	}

	quiz, err := s.Repo.FindByIDWithContent(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}

	s.setCachedQuiz(quiz)
	return quiz, nil
}

func (s *QuizService) DeleteQuiz(quizID uint) (uint, error) {
	quiz, err := s.Repo.FindByIDWithContent(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, util.ErrQuizNotFound
		}
		return 0, err
	}

	if err := s.Repo.Delete(quizID); err != nil {
		return 0, err
	}

	s.invalidateQuizCache(quizID)
	return quiz.LessonID, nil
}

type SubmitResult struct {
	Score      int `json:"score"`
	Total      int `json:"total"`
	Percentage int `json:"percentage"`
}

// SubmitAnswers 落库一名用户对一份测验的选择并计分。
// selections 为 题目id -> 选项id；逐对处理，顺序无关。
// 分母取测验当前题目总数而非提交对数，缺答题按答错计。
// 同一选择重复提交幂等：不落重复行，得分不变。
func (s *QuizService) SubmitAnswers(userID, quizID uint, selections map[uint]uint) (*SubmitResult, error) {
	quiz, err := s.GetQuiz(quizID)
	if err != nil {
		return nil, err
	}

	total := len(quiz.Questions)

	answerIDs := make([]uint, 0, len(selections))
	for _, answerID := range selections {
		answerIDs = append(answerIDs, answerID)
	}

	score, err := s.UserAnswerRepo.RecordSubmission(userID, answerIDs)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAnswerNotFound
		}
		return nil, err
	}

	return &SubmitResult{
		Score:      score,
		Total:      total,
		Percentage: scorePercentage(score, total),
	}, nil
}

type AttemptState struct {
	SelectedAnswerIDs []uint `json:"selectedAnswerIds"`
	AlreadyTaken      bool   `json:"alreadyTaken"`
	Score             int    `json:"score"`
	Total             int    `json:"total"`
	Percentage        int    `json:"percentage"`
}

// GetAttemptState 还原用户在一份测验上的答题状态。
// 没有独立的"答题记录"实体：只要该测验任一选项存在 (user, answer) 行，
// 即视为已作答，得分由被选中选项的正确性推导。
func (s *QuizService) GetAttemptState(userID uint, quiz *model.Quiz) (*AttemptState, error) {
	allAnswerIDs := make([]uint, 0)
	for _, question := range quiz.Questions {
		for _, answer := range question.Answers {
			allAnswerIDs = append(allAnswerIDs, answer.ID)
		}
	}

	selected, err := s.UserAnswerRepo.FindSelected(userID, allAnswerIDs)
	if err != nil {
		return nil, err
	}

	selectedSet := make(map[uint]bool, len(selected))
	for _, id := range selected {
		selectedSet[id] = true
	}

	state := &AttemptState{
		SelectedAnswerIDs: make([]uint, 0),
		Total:             len(quiz.Questions),
	}

	for _, question := range quiz.Questions {
		for _, answer := range question.Answers {
			if !selectedSet[answer.ID] {
				continue
			}
			state.SelectedAnswerIDs = append(state.SelectedAnswerIDs, answer.ID)
			state.AlreadyTaken = true
			if answer.IsCorrect {
				state.Score++
			}
		}
	}

	state.Percentage = scorePercentage(state.Score, state.Total)
	return state, nil
}

// scorePercentage 四舍五入的百分比，零题测验记 0 而不是除零
func scorePercentage(score, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(score) / float64(total) * 100))
}
