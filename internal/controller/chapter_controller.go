package controller

import (
	"ai_tutor_backend/internal/middleware"
	"ai_tutor_backend/internal/service"
	"ai_tutor_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ChapterController struct {
	ChapterService *service.ChapterService
}

func NewChapterController(chapterService *service.ChapterService) *ChapterController {
	return &ChapterController{ChapterService: chapterService}
}

// Notes godoc
// @Summary 章节笔记
// @Description 已生成时直接返回，否则现场生成
// @Tags 章节
// @Produce  json
// @Security ApiKeyAuth
// @Param   chapterId path int true "章节 ID"
// @Success 200 {object} map[string]interface{} "notes, cached"
// @Failure 404 {object} util.ErrorResponse
// @Failure 503 {object} util.ErrorResponse "AI 服务未配置"
// @Router /api/chapters/{chapterId}/notes [get]
func (c *ChapterController) Notes(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}
	chapterID := util.MustParseUint(ctx.Param("chapterId"))
	if chapterID == 0 {
		util.BadRequest(ctx, "Invalid chapter id")
		return
	}

	notes, cached, err := c.ChapterService.GetNotes(ctx.Request.Context(), userID, chapterID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"notes": notes, "cached": cached})
}
