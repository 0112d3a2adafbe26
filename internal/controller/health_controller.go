package controller

import (
	"ai_tutor_backend/internal/service"
	"ai_tutor_backend/internal/util"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HealthController struct {
	DB        *gorm.DB
	Generator service.ContentGenerator
	Videos    service.VideoFinder
}

func NewHealthController(db *gorm.DB, generator service.ContentGenerator, videos service.VideoFinder) *HealthController {
	return &HealthController{DB: db, Generator: generator, Videos: videos}
}

func availability(ok bool) string {
	if ok {
		return "configured"
	}
	return "not configured"
}

// @Summary 健康检查
// @Description 检查数据库连接及外部服务配置
// @Tags 系统
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} util.ErrorResponse
// @Router /api/health [get]
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	sqlDB, err := c.DB.DB()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	if err := sqlDB.PingContext(ctx.Request.Context()); err != nil {
		util.Error(ctx, http.StatusServiceUnavailable, "Database unavailable")
		return
	}

	util.Success(ctx, gin.H{
		"status": "ok",
		"components": gin.H{
			"database":    "up",
			"ai":          availability(c.Generator != nil),
			"videoSearch": availability(c.Videos != nil),
		},
	})
}
