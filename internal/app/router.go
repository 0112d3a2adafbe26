package app

import (
	"ai_tutor_backend/docs"
	"ai_tutor_backend/internal/config"
	"ai_tutor_backend/internal/middleware"
	"ai_tutor_backend/pkg/monitoring"

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
		public.POST("/auth/signup", c.auth.Signup)
		public.POST("/auth/signin", c.auth.Signin)
	}

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		course := authGroup.Group("/course")
		{
			course.POST("/generate", c.course.Generate)
			course.GET("/list", c.course.List)
			course.GET("/:id", c.course.Detail)
			course.GET("/:id/status", c.course.Status)
			course.POST("/:id/resume", c.course.Resume)
		}

		authGroup.GET("/chapters/:chapterId/notes", c.chapter.Notes)

		authGroup.POST("/chat", c.chat.Chat)
		authGroup.GET("/doubts/:chapterId", c.chat.Doubts)

		homework := authGroup.Group("/homework")
		{
			homework.GET("/:chapterId", c.homework.List)
			homework.POST("/:chapterId", c.homework.Submit)
			homework.POST("/generate/:chapterId", c.homework.Generate)
		}

		authGroup.PUT("/progress/:chapterId", c.progress.Record)
		authGroup.GET("/user/profile", c.user.Profile)
	}
}
