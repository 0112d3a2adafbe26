package controller

import (
	"ai_tutor_backend/internal/middleware"
	"ai_tutor_backend/internal/service"
	"ai_tutor_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	CourseService *service.CourseService
}

func NewCourseController(courseService *service.CourseService) *CourseController {
	return &CourseController{CourseService: courseService}
}

// GenerateCourseRequest 课程生成请求
// swagger:model GenerateCourseRequest
type GenerateCourseRequest struct {
	Topic         string `json:"topic"`
	Difficulty    string `json:"difficulty"`
	Duration      int    `json:"duration"`
	Category      string `json:"category"`
	Language      string `json:"language"`
	IncludeVideos *bool  `json:"includeVideos"`
}

// Generate godoc
// @Summary 生成课程
// @Description 同步生成大纲和第一章，其余章节在后台生成
// @Tags 课程
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body GenerateCourseRequest true "课程参数"
// @Success 201 {object} map[string]interface{} "course"
// @Failure 400 {object} util.ErrorResponse
// @Failure 503 {object} util.ErrorResponse "AI 服务未配置"
// @Router /api/course/generate [post]
func (c *CourseController) Generate(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	var req GenerateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "Topic, difficulty, and duration are required")
		return
	}

	course, err := c.CourseService.StartCourseGeneration(ctx.Request.Context(), userID, service.GenerateCourseInput{
		Topic:         req.Topic,
		Difficulty:    req.Difficulty,
		Duration:      req.Duration,
		Category:      req.Category,
		Language:      req.Language,
		IncludeVideos: req.IncludeVideos,
	})
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Created(ctx, gin.H{
		"message": "Course generation started",
		"course":  course,
	})
}

// List godoc
// @Summary 课程列表
// @Tags 课程
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} map[string]interface{} "courses, totalCourses"
// @Router /api/course/list [get]
func (c *CourseController) List(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	courses, err := c.CourseService.ListCourses(userID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{
		"courses":      courses,
		"totalCourses": len(courses),
	})
}

// Detail godoc
// @Summary 课程详情
// @Description 章节、视频、知识点及当前用户的学习和作业进度
// @Tags 课程
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "课程 ID"
// @Success 200 {object} map[string]interface{} "course"
// @Failure 404 {object} util.ErrorResponse
// @Router /api/course/{id} [get]
func (c *CourseController) Detail(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}
	courseID := util.MustParseUint(ctx.Param("id"))
	if courseID == 0 {
		util.BadRequest(ctx, "Invalid course id")
		return
	}

	detail, err := c.CourseService.GetCourseDetail(userID, courseID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"course": detail})
}

// Status godoc
// @Summary 课程生成状态
// @Tags 课程
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "课程 ID"
// @Success 200 {object} map[string]interface{} "status"
// @Failure 404 {object} util.ErrorResponse
// @Router /api/course/{id}/status [get]
func (c *CourseController) Status(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}
	courseID := util.MustParseUint(ctx.Param("id"))
	if courseID == 0 {
		util.BadRequest(ctx, "Invalid course id")
		return
	}

	status, err := c.CourseService.GetStatus(userID, courseID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"status": status})
}

// Resume godoc
// @Summary 恢复课程生成
// @Tags 课程
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "课程 ID"
// @Success 200 {object} map[string]interface{} "status"
// @Failure 400 {object} util.ErrorResponse "课程不可恢复"
// @Failure 409 {object} util.ErrorResponse "生成任务正在运行"
// @Router /api/course/{id}/resume [post]
func (c *CourseController) Resume(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}
	courseID := util.MustParseUint(ctx.Param("id"))
	if courseID == 0 {
		util.BadRequest(ctx, "Invalid course id")
		return
	}

	status, err := c.CourseService.ResumeGeneration(ctx.Request.Context(), userID, courseID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{
		"message": "Course generation resumed",
		"status":  status,
	})
}
