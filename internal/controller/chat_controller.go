package controller

import (
	"ai_tutor_backend/internal/middleware"
	"ai_tutor_backend/internal/service"
	"ai_tutor_backend/internal/util"
	"time"

	"github.com/gin-gonic/gin"
)

type ChatController struct {
	ChatService *service.ChatService
}

func NewChatController(chatService *service.ChatService) *ChatController {
	return &ChatController{ChatService: chatService}
}

// ChatRequest 答疑请求
// swagger:model ChatRequest
type ChatRequest struct {
	Message             string             `json:"message"`
	ChapterTitle        string             `json:"chapterTitle"`
	ChapterNotes        string             `json:"chapterNotes"`
	ChapterID           uint               `json:"chapterId"`
	ConversationHistory []service.ChatTurn `json:"conversationHistory"`
}

// Chat godoc
// @Summary AI 答疑
// @Description 基于章节笔记回答问题，提供 chapterId 时记录为疑问
// @Tags 答疑
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body ChatRequest true "问题"
// @Success 200 {object} map[string]interface{} "response, timestamp"
// @Failure 400 {object} util.ErrorResponse
// @Failure 503 {object} util.ErrorResponse "AI 服务未配置"
// @Router /api/chat [post]
func (c *ChatController) Chat(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	var req ChatRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "Message and chapter title are required")
		return
	}

	answer, err := c.ChatService.Ask(ctx.Request.Context(), userID, service.ChatInput{
		Message:      req.Message,
		ChapterTitle: req.ChapterTitle,
		ChapterNotes: req.ChapterNotes,
		ChapterID:    req.ChapterID,
		History:      req.ConversationHistory,
	})
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"response":  answer,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// Doubts godoc
// @Summary 章节疑问记录
// @Description 最近 20 条，最新的在前
// @Tags 答疑
// @Produce  json
// @Security ApiKeyAuth
// @Param   chapterId path int true "章节 ID"
// @Success 200 {object} map[string]interface{} "doubts, count"
// @Failure 404 {object} util.ErrorResponse
// @Router /api/doubts/{chapterId} [get]
func (c *ChatController) Doubts(ctx *gin.Context) {
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

	doubts, err := c.ChatService.ListDoubts(userID, chapterID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"doubts": doubts, "count": len(doubts)})
}
