package controller

import (
	"errors"
	"strconv"

	"lms_backend/internal/service"
	"lms_backend/internal/util"
	"lms_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	Service *service.QuizService
}

func NewQuizController(svc *service.QuizService) *QuizController {
	return &QuizController{Service: svc}
}

// @Summary 保存课时测验
// @Description 整体替换课时的测验结构（标题、题目、选项），旧结构被级联删除
// @Tags 测验模块
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "课时ID"
// @Param body body service.QuizReq true "测验内容"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 404 {object} util.Response "课时不存在"
// @Router /api/admin/lessons/{id}/quiz [put]
func (c *QuizController) ReplaceQuiz(ctx *gin.Context) {
	lessonID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid lesson id")
		return
	}

	var req service.QuizReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz, err := c.Service.ReplaceQuiz(uint(lessonID), req)
	if err != nil {
		if errors.Is(err, util.ErrLessonNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"id": quiz.ID})
}

// @Summary 获取测验
// @Description 返回测验的题目与选项（插入顺序），并附当前用户的答题状态
// @Tags 测验模块
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "测验ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "测验不存在"
// @Router /api/quizzes/{id} [get]
func (c *QuizController) GetQuiz(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	quizID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid quiz id")
		return
	}

	quiz, err := c.Service.GetQuiz(uint(quizID))
	if err != nil {
		if errors.Is(err, util.ErrQuizNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	state, err := c.Service.GetAttemptState(user.UserID, quiz)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"quiz":              quiz,
		"alreadyTaken":      state.AlreadyTaken,
		"selectedAnswerIds": state.SelectedAnswerIDs,
		"score":             state.Score,
		"total":             state.Total,
		"percentage":        state.Percentage,
	})
}

type SubmitAnswersRequest struct {
	// 题目ID -> 选中的选项ID
	Answers map[uint]uint `json:"answers" binding:"required"`
}

// @Summary 提交测验答案
// @Description 保存当前用户的选择并计分，同一选择重复提交不会重复入库
// @Tags 测验模块
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "测验ID"
// @Param body body SubmitAnswersRequest true "答案映射"
// @Success 200 {object} util.Response{data=service.SubmitResult}
// @Failure 404 {object} util.Response "测验或选项不存在"
// @Router /api/quizzes/{id}/submit [post]
func (c *QuizController) SubmitAnswers(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	quizID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid quiz id")
		return
	}

	var req SubmitAnswersRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.Service.SubmitAnswers(user.UserID, uint(quizID), req.Answers)
	if err != nil {
		monitoring.QuizSubmissionCounter.WithLabelValues("error").Inc()
		if errors.Is(err, util.ErrQuizNotFound) || errors.Is(err, util.ErrAnswerNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	monitoring.QuizSubmissionCounter.WithLabelValues("ok").Inc()
	util.Success(ctx, result)
}

// @Summary 删除测验
// @Description 级联删除测验及其题目、选项
// @Tags 测验模块
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "测验ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "测验不存在"
// @Router /api/admin/quizzes/{id} [delete]
func (c *QuizController) DeleteQuiz(ctx *gin.Context) {
	quizID, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid quiz id")
		return
	}

	lessonID, err := c.Service.DeleteQuiz(uint(quizID))
	if err != nil {
		if errors.Is(err, util.ErrQuizNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"deleted": quizID, "lessonId": lessonID})
}
