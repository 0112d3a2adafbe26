package controller

import (
	"ai_tutor_backend/internal/middleware"
	"ai_tutor_backend/internal/service"
	"ai_tutor_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	ProgressService *service.ProgressService
}

func NewProgressController(progressService *service.ProgressService) *ProgressController {
	return &ProgressController{ProgressService: progressService}
}

// RecordStudyRequest 学习记录
// swagger:model RecordStudyRequest
type RecordStudyRequest struct {
	TimeSpentMinutes int     `json:"timeSpentMinutes" binding:"gte=0"`
	Notes            *string `json:"notes"`
}

// Record godoc
// @Summary 记录学习时长和笔记
// @Tags 进度
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   chapterId path int true "章节 ID"
// @Param   body body RecordStudyRequest true "学习记录"
// @Success 200 {object} map[string]interface{} "progress"
// @Failure 400 {object} util.ErrorResponse
// @Failure 404 {object} util.ErrorResponse
// @Router /api/progress/{chapterId} [put]
func (c *ProgressController) Record(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}
	chapterID, ok := chapterIDParam(ctx)
	if !ok {
		return
	}

	var req RecordStudyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "timeSpentMinutes must not be negative")
		return
	}

	progress, err := c.ProgressService.RecordStudy(userID, chapterID, req.TimeSpentMinutes, req.Notes)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"progress": progress})
}
