package controller

import (
	"technicia_backend/internal/service"
	"technicia_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{AuthService: authService}
}

// RegisterStudent godoc
// @Summary Register a student account
// @Description Creates the account with an empty student profile and returns a signed token
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   body body service.RegisterStudentRequest true "Registration info"
// @Success 201 {object} util.Response{data=service.AuthResult}
// @Failure 400 {object} util.Response "Email already registered or invalid input"
// @Router /api/v1/auth/register/student [post]
func (c *AuthController) RegisterStudent(ctx *gin.Context) {
	var req service.RegisterStudentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.AuthService.RegisterStudent(req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Created(ctx, result)
}

// RegisterEducator godoc
// @Summary Register an educator account
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   body body service.RegisterEducatorRequest true "Registration info"
// @Success 201 {object} util.Response{data=service.AuthResult}
// @Failure 400 {object} util.Response
// @Router /api/v1/auth/register/educator [post]
func (c *AuthController) RegisterEducator(ctx *gin.Context) {
	var req service.RegisterEducatorRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.AuthService.RegisterEducator(req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Created(ctx, result)
}

// RegisterCompany godoc
// @Summary Register a company account
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   body body service.RegisterCompanyRequest true "Registration info"
// @Success 201 {object} util.Response{data=service.AuthResult}
// @Failure 400 {object} util.Response
// @Router /api/v1/auth/register/company [post]
func (c *AuthController) RegisterCompany(ctx *gin.Context) {
	var req service.RegisterCompanyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.AuthService.RegisterCompany(req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Created(ctx, result)
}

// Login godoc
// @Summary Log in
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   body body service.LoginRequest true "Credentials"
// @Success 200 {object} util.Response{data=service.AuthResult}
// @Failure 403 {object} util.Response "Incorrect email or password"
// @Router /api/v1/auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req service.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.AuthService.Login(req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, result)
}
