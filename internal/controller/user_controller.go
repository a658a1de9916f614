package controller

import (
	"technicia_backend/internal/service"
	"technicia_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type UserController struct {
	UserService *service.UserService
}

func NewUserController(userService *service.UserService) *UserController {
	return &UserController{UserService: userService}
}

// GetMe godoc
// @Summary Current account
// @Tags users
// @Produce  json
// @Success 200 {object} util.Response{data=model.User}
// @Security BearerAuth
// @Router /api/v1/users/me [get]
func (c *UserController) GetMe(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	user, err := c.UserService.GetMe(claims.UserID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, user)
}

// GetStudentProfile godoc
// @Summary Current student profile
// @Tags users
// @Produce  json
// @Success 200 {object} util.Response{data=model.StudentProfile}
// @Security BearerAuth
// @Router /api/v1/users/me/profile [get]
func (c *UserController) GetStudentProfile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	profile, err := c.UserService.GetStudentProfile(claims.UserID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, profile)
}

// UpdateStudentProfile godoc
// @Summary Update the student profile
// @Description Patches the profile and recomputes the completion percentage
// @Tags users
// @Accept  json
// @Produce  json
// @Param   body body service.UpdateStudentProfileRequest true "Fields to update"
// @Success 200 {object} util.Response{data=model.StudentProfile}
// @Security BearerAuth
// @Router /api/v1/users/me/profile [put]
func (c *UserController) UpdateStudentProfile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req service.UpdateStudentProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	profile, err := c.UserService.UpdateStudentProfile(claims.UserID, req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, profile)
}

// UploadProfilePicture godoc
// @Summary Upload a profile picture
// @Description The stored photo doubles as the proctoring reference image
// @Tags users
// @Accept  multipart/form-data
// @Produce  json
// @Param   file formData file true "Image file (JPEG, PNG, or WebP)"
// @Success 200 {object} util.Response{data=object}
// @Failure 400 {object} util.Response
// @Security BearerAuth
// @Router /api/v1/users/me/profile-picture [post]
func (c *UserController) UploadProfilePicture(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}
	if !allowedImageType(file.Header.Get("Content-Type")) {
		util.BadRequest(ctx, "Unsupported image type; use JPEG, PNG, or WebP")
		return
	}

	url, err := c.UserService.UploadProfilePicture(claims, file)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"profilePictureUrl": url})
}

func allowedImageType(contentType string) bool {
	for _, allowed := range util.AllowedImageTypes {
		if contentType == allowed {
			return true
		}
	}
	return false
}
