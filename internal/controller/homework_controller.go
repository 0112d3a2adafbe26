package controller

import (
	"ai_tutor_backend/internal/middleware"
	"ai_tutor_backend/internal/service"
	"ai_tutor_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type HomeworkController struct {
	HomeworkService *service.HomeworkService
}

func NewHomeworkController(homeworkService *service.HomeworkService) *HomeworkController {
	return &HomeworkController{HomeworkService: homeworkService}
}

// SubmitHomeworkRequest 提交答案或请求提示
// swagger:model SubmitHomeworkRequest
type SubmitHomeworkRequest struct {
	ProblemID     uint   `json:"problemId" binding:"required"`
	Solution      string `json:"solution"`
	SolutionImage string `json:"solutionImage"`
	RequestHint   bool   `json:"requestHint"`
}

func chapterIDParam(ctx *gin.Context) (uint, bool) {
	id := util.MustParseUint(ctx.Param("chapterId"))
	if id == 0 {
		util.BadRequest(ctx, "Invalid chapter id")
		return 0, false
	}
	return id, true
}

// List godoc
// @Summary 章节作业
// @Description 题目、当前用户作答状态及章节进度
// @Tags 作业
// @Produce  json
// @Security ApiKeyAuth
// @Param   chapterId path int true "章节 ID"
// @Success 200 {object} map[string]interface{} "problems, progress"
// @Failure 404 {object} util.ErrorResponse
// @Router /api/homework/{chapterId} [get]
func (c *HomeworkController) List(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}
	chapterID, ok := chapterIDParam(ctx)
	if !ok {
		return
	}

	list, err := c.HomeworkService.List(userID, chapterID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"problems": list.Problems, "progress": list.Progress})
}

// Submit godoc
// @Summary 提交作业
// @Description requestHint 为 true 时只返回提示，否则评分并记录提交
// @Tags 作业
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   chapterId path int true "章节 ID"
// @Param   body body SubmitHomeworkRequest true "答案"
// @Success 200 {object} map[string]interface{} "isCorrect, feedback, suggestions, attempts"
// @Failure 400 {object} util.ErrorResponse
// @Failure 404 {object} util.ErrorResponse
// @Failure 503 {object} util.ErrorResponse "AI 服务未配置"
// @Router /api/homework/{chapterId} [post]
func (c *HomeworkController) Submit(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}
	chapterID, ok := chapterIDParam(ctx)
	if !ok {
		return
	}

	var req SubmitHomeworkRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "problemId is required")
		return
	}

	if req.RequestHint {
		hint, err := c.HomeworkService.Hint(ctx.Request.Context(), userID, chapterID, req.ProblemID)
		if err != nil {
			util.HandleError(ctx, err)
			return
		}
		util.Success(ctx, gin.H{"hint": hint, "isHint": true})
		return
	}

	outcome, err := c.HomeworkService.Grade(ctx.Request.Context(), userID, chapterID, service.SubmissionInput{
		ProblemID:     req.ProblemID,
		Solution:      req.Solution,
		SolutionImage: req.SolutionImage,
	})
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{
		"isCorrect":   outcome.IsCorrect,
		"feedback":    outcome.Feedback,
		"suggestions": outcome.Suggestions,
		"attempts":    outcome.Attempts,
	})
}

// Generate godoc
// @Summary 按需生成作业
// @Description 章节已有题目时直接返回已有题目
// @Tags 作业
// @Produce  json
// @Security ApiKeyAuth
// @Param   chapterId path int true "章节 ID"
// @Success 200 {object} map[string]interface{} "message, problemsCount, problems"
// @Failure 404 {object} util.ErrorResponse
// @Failure 503 {object} util.ErrorResponse "AI 服务未配置"
// @Router /api/homework/generate/{chapterId} [post]
func (c *HomeworkController) Generate(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}
	chapterID, ok := chapterIDParam(ctx)
	if !ok {
		return
	}

	result, err := c.HomeworkService.GenerateOnDemand(ctx.Request.Context(), userID, chapterID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	message := "Homework generated successfully"
	if !result.Created {
		message = "Homework already exists for this chapter"
	}
	util.Success(ctx, gin.H{
		"message":       message,
		"problemsCount": len(result.Problems),
		"problems":      result.Problems,
	})
}
