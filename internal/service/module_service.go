package service

import (
	"context"
	"errors"

	"lms_backend/internal/model"
	"lms_backend/internal/repository"
	"lms_backend/internal/util"

	"gorm.io/gorm"
)

type ModuleService struct {
	Repo    *repository.ModuleRepository
	Storage *StorageService
}

func NewModuleService(repo *repository.ModuleRepository, storage *StorageService) *ModuleService {
	return &ModuleService{Repo: repo, Storage: storage}
}

type ModuleReq struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

func (s *ModuleService) CreateModule(req ModuleReq, imagePath string) (*model.Module, error) {
	if imagePath == "" {
		imagePath = model.DefaultCoverImage
	}

	module := &model.Module{
		Name:        req.Name,
		Description: req.Description,
		ImagePath:   imagePath,
	}
	if err := s.Repo.Create(module); err != nil {
		return nil, err
	}
	return module, nil
}

func (s *ModuleService) GetModules() ([]model.Module, error) {
	return s.Repo.FindAll()
}

func (s *ModuleService) GetModule(id uint) (*model.Module, error) {
	module, err := s.Repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrModuleNotFound
		}
		return nil, err
	}
	return module, nil
}

func (s *ModuleService) UpdateModule(id uint, req ModuleReq, imagePath string) (*model.Module, error) {
	module, err := s.GetModule(id)
	if err != nil {
		return nil, err
	}

	module.Name = req.Name
	module.Description = req.Description
	if imagePath != "" {
		s.removeCover(module.ImagePath)
		module.ImagePath = imagePath
	}

	if err := s.Repo.Update(module); err != nil {
		return nil, err
	}
	return module, nil
}

func (s *ModuleService) DeleteModule(id uint) error {
	module, err := s.GetModule(id)
	if err != nil {
		return err
	}

	if err := s.Repo.Delete(id); err != nil {
		return err
	}

	s.removeCover(module.ImagePath)
	return nil
}

// UpdateCover 仅替换封面，不动名称与描述
func (s *ModuleService) UpdateCover(id uint, imagePath string) (*model.Module, error) {
	module, err := s.GetModule(id)
	if err != nil {
		return nil, err
	}

	s.removeCover(module.ImagePath)
	module.ImagePath = imagePath

	if err := s.Repo.Update(module); err != nil {
		return nil, err
	}
	return module, nil
}

// removeCover 清理已替换/已删除模块的封面文件，默认封面是共享的不动
func (s *ModuleService) removeCover(imagePath string) {
	if imagePath == "" || imagePath == model.DefaultCoverImage {
		return
	}
	_ = s.Storage.Delete(context.Background(), imagePath)
}
