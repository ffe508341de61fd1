package controller

import (
	"errors"
	"path/filepath"
	"strconv"

	"lms_backend/internal/model"
	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ModuleController struct {
	Service *service.ModuleService
	Storage *service.StorageService
}

func NewModuleController(svc *service.ModuleService, storage *service.StorageService) *ModuleController {
	return &ModuleController{Service: svc, Storage: storage}
}

// @Summary 获取模块列表
// @Tags 模块管理
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/modules [get]
func (c *ModuleController) GetModules(ctx *gin.Context) {
	modules, err := c.Service.GetModules()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, modules)
}

// @Summary 创建模块
// @Tags 模块管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.ModuleReq true "模块信息"
// @Success 201 {object} util.Response
// @Router /api/admin/modules [post]
func (c *ModuleController) CreateModule(ctx *gin.Context) {
	var req service.ModuleReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	module, err := c.Service.CreateModule(req, "")
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Created(ctx, module)
}

// @Summary 更新模块
// @Tags 模块管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "模块ID"
// @Param body body service.ModuleReq true "模块信息"
// @Success 200 {object} util.Response
// @Router /api/admin/modules/{id} [put]
func (c *ModuleController) UpdateModule(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid module id")
		return
	}

	var req service.ModuleReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	module, err := c.Service.UpdateModule(uint(id), req, "")
	if err != nil {
		if errors.Is(err, util.ErrModuleNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, module)
}

// @Summary 删除模块
// @Description 级联删除模块下的课时与测验
// @Tags 模块管理
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "模块ID"
// @Success 200 {object} util.Response
// @Router /api/admin/modules/{id} [delete]
func (c *ModuleController) DeleteModule(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid module id")
		return
	}

	if err := c.Service.DeleteModule(uint(id)); err != nil {
		if errors.Is(err, util.ErrModuleNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"deleted": id})
}

// @Summary 上传模块封面
// @Tags 模块管理
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "模块ID"
// @Param image formData file true "封面图片"
// @Success 200 {object} util.Response
// @Router /api/admin/modules/{id}/cover [post]
func (c *ModuleController) UploadCover(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid module id")
		return
	}

	fileHeader, err := ctx.FormFile("image")
	if err != nil {
		util.BadRequest(ctx, "image file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	// 随机化文件名，避免覆盖与路径注入
	filename := "modules/" + model.GenerateUUID() + filepath.Ext(fileHeader.Filename)
	contentType := fileHeader.Header.Get("Content-Type")

	url, err := c.Storage.Upload(ctx.Request.Context(), filename, file, fileHeader.Size, contentType)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	module, err := c.Service.UpdateCover(uint(id), filename)
	if err != nil {
		if errors.Is(err, util.ErrModuleNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"imagePath": module.ImagePath, "url": url})
}
