package app

import (
	"lms_backend/docs"
	"lms_backend/internal/config"
	"lms_backend/internal/middleware"
	"lms_backend/internal/model"
	"lms_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)

		// 内容浏览对游客开放
		public.GET("/modules", c.module.GetModules)
		public.GET("/modules/:id/lessons", c.lesson.GetLessonsByModule)
		public.GET("/lessons/:id", c.lesson.GetLesson)
	}

	// 2. 需要登录的路由：答题必须知道当前用户
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		authGroup.GET("/quizzes/:id", c.quiz.GetQuiz)
		authGroup.POST("/quizzes/:id/submit", c.quiz.SubmitAnswers)
	}

	// 3. 管理端路由
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.RoleMiddleware(model.Admin))
	{
		admin.POST("/modules", c.module.CreateModule)
		admin.PUT("/modules/:id", c.module.UpdateModule)
		admin.DELETE("/modules/:id", c.module.DeleteModule)
		admin.POST("/modules/:id/cover", c.module.UploadCover)

		admin.POST("/modules/:id/lessons", c.lesson.CreateLesson)
		admin.PUT("/lessons/:id", c.lesson.UpdateLesson)
		admin.DELETE("/lessons/:id", c.lesson.DeleteLesson)

		admin.PUT("/lessons/:id/quiz", c.quiz.ReplaceQuiz)
		admin.DELETE("/quizzes/:id", c.quiz.DeleteQuiz)
	}
}
