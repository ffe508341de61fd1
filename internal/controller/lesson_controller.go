package controller

import (
	"errors"
	"strconv"

	"lms_backend/internal/service"
	"lms_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LessonController struct {
	Service *service.LessonService
}

func NewLessonController(svc *service.LessonService) *LessonController {
	return &LessonController{Service: svc}
}

// @Summary 获取模块下的课时列表
// @Tags 课时管理
// @Produce json
// @Param id path int true "模块ID"
// @Success 200 {object} util.Response
// @Router /api/modules/{id}/lessons [get]
func (c *LessonController) GetLessonsByModule(ctx *gin.Context) {
	moduleID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid module id")
		return
	}

	lessons, err := c.Service.GetLessonsByModule(uint(moduleID))
	if err != nil {
		if errors.Is(err, util.ErrModuleNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, lessons)
}

// @Summary 获取课时详情
// @Description 返回课时正文，附带测验（若存在）
// @Tags 课时管理
// @Produce json
// @Param id path int true "课时ID"
// @Success 200 {object} util.Response
// @Router /api/lessons/{id} [get]
func (c *LessonController) GetLesson(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid lesson id")
		return
	}

	lesson, err := c.Service.GetLesson(uint(id))
	if err != nil {
		if errors.Is(err, util.ErrLessonNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, lesson)
}

// @Summary 创建课时
// @Tags 课时管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "模块ID"
// @Param body body service.LessonReq true "课时信息"
// @Success 201 {object} util.Response
// @Router /api/admin/modules/{id}/lessons [post]
func (c *LessonController) CreateLesson(ctx *gin.Context) {
	moduleID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid module id")
		return
	}

	var req service.LessonReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lesson, err := c.Service.CreateLesson(uint(moduleID), req)
	if err != nil {
		if errors.Is(err, util.ErrModuleNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, lesson)
}

// @Summary 更新课时
// @Tags 课时管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "课时ID"
// @Param body body service.LessonReq true "课时信息"
// @Success 200 {object} util.Response
// @Router /api/admin/lessons/{id} [put]
func (c *LessonController) UpdateLesson(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid lesson id")
		return
	}

	var req service.LessonReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lesson, err := c.Service.UpdateLesson(uint(id), req)
	if err != nil {
		if errors.Is(err, util.ErrLessonNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, lesson)
}

// @Summary 删除课时
// @Description 级联删除课时的测验结构
// @Tags 课时管理
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "课时ID"
// @Success 200 {object} util.Response
// @Router /api/admin/lessons/{id} [delete]
func (c *LessonController) DeleteLesson(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid lesson id")
		return
	}

	moduleID, err := c.Service.DeleteLesson(uint(id))
	if err != nil {
		if errors.Is(err, util.ErrLessonNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"deleted": id, "moduleId": moduleID})
}
