package controller

import (
	"ai_tutor_backend/internal/middleware"
	"ai_tutor_backend/internal/service"
	"ai_tutor_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserService *service.UserService
}

func NewUserController(userService *service.UserService) *UserController {
	return &UserController{UserService: userService}
}

// Profile godoc
// @Summary 个人资料
// @Description 用户信息、课程统计及课程列表
// @Tags 用户
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} map[string]interface{} "user, stats, courses"
// @Failure 404 {object} util.ErrorResponse
// @Router /api/user/profile [get]
func (c *UserController) Profile(ctx *gin.Context) {
	userID, ok := middleware.CurrentUserID(ctx)
	if !ok {
		util.Unauthorized(ctx)
		return
	}

	profile, err := c.UserService.GetProfile(userID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{
		"user":    profile.User,
		"stats":   profile.Stats,
		"courses": profile.Courses,
	})
}
