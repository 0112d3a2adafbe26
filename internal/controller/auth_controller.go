package controller

import (
	"ai_tutor_backend/internal/service"
	"ai_tutor_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{AuthService: authService}
}

// SignupRequest 注册请求
// swagger:model SignupRequest
type SignupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// SigninRequest 登录请求
// swagger:model SigninRequest
type SigninRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Signup godoc
// @Summary 注册
// @Description 创建账号并返回 token
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body SignupRequest true "注册信息"
// @Success 201 {object} map[string]interface{} "user, token"
// @Failure 400 {object} util.ErrorResponse "参数错误或邮箱已注册"
// @Failure 500 {object} util.ErrorResponse "服务器内部错误"
// @Router /api/auth/signup [post]
func (c *AuthController) Signup(ctx *gin.Context) {
	var req SignupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "Name, email and a password of at least 6 characters are required")
		return
	}

	user, token, err := c.AuthService.Register(req.Name, req.Email, req.Password)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Created(ctx, gin.H{
		"message": "User created successfully",
		"user":    user,
		"token":   token,
	})
}

// Signin godoc
// @Summary 登录
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body SigninRequest true "登录信息"
// @Success 200 {object} map[string]interface{} "user, token"
// @Failure 400 {object} util.ErrorResponse "参数错误"
// @Failure 401 {object} util.ErrorResponse "邮箱或密码错误"
// @Router /api/auth/signin [post]
func (c *AuthController) Signin(ctx *gin.Context) {
	var req SigninRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "Email and password are required")
		return
	}

	user, token, err := c.AuthService.Login(req.Email, req.Password)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"message": "Login successful",
		"user":    user,
		"token":   token,
	})
}
