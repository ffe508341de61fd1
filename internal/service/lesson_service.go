package service

import (
	"errors"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"

	"gorm.io/gorm"
)

type LessonService struct {
	Repo       *repository.LessonRepository
	ModuleRepo *repository.ModuleRepository
}

func NewLessonService(repo *repository.LessonRepository, moduleRepo *repository.ModuleRepository) *LessonService {
	return &LessonService{Repo: repo, ModuleRepo: moduleRepo}
}

type LessonReq struct {
	Topic   string `json:"topic" binding:"required"`
	Content string `json:"content"`
}

func (s *LessonService) CreateLesson(moduleID uint, req LessonReq) (*model.Lesson, error) {
	if _, err := s.ModuleRepo.FindByID(moduleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrModuleNotFound
		}
		return nil, err
	}

	lesson := &model.Lesson{
		Topic:    req.Topic,
		Content:  req.Content,
		ModuleID: moduleID,
	}
	if err := s.Repo.Create(lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

func (s *LessonService) GetLesson(id uint) (*model.Lesson, error) {
	lesson, err := s.Repo.FindByIDWithQuiz(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}
	return lesson, nil
}

func (s *LessonService) GetLessonsByModule(moduleID uint) ([]model.Lesson, error) {
	if _, err := s.ModuleRepo.FindByID(moduleID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrModuleNotFound
		}
		return nil, err
	}
	return s.Repo.FindByModule(moduleID)
}

func (s *LessonService) UpdateLesson(id uint, req LessonReq) (*model.Lesson, error) {
	lesson, err := s.Repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}

	lesson.Topic = req.Topic
	lesson.Content = req.Content

	if err := s.Repo.Update(lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

func (s *LessonService) DeleteLesson(id uint) (uint, error) {
	lesson, err := s.Repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, util.ErrLessonNotFound
		}
		return 0, err
	}

	if err := s.Repo.Delete(id); err != nil {
		return 0, err
	}
	return lesson.ModuleID, nil
}
