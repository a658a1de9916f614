package controller

import (
	"technicia_backend/internal/service"
	"technicia_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type StudentController struct {
	ResumeService *service.ResumeService
}

func NewStudentController(resumeService *service.ResumeService) *StudentController {
	return &StudentController{ResumeService: resumeService}
}

// UploadResume godoc
// @Summary Upload and parse a resume
// @Description Stores the file, extracts text, and suggests skills from the master list
// @Tags students
// @Accept  multipart/form-data
// @Produce  json
// @Param   file formData file true "Resume (PDF, DOCX, or TXT)"
// @Success 200 {object} util.Response{data=service.ResumeUploadResult}
// @Failure 400 {object} util.Response "Unsupported format or oversized file"
// @Security BearerAuth
// @Router /api/v1/students/me/resume [post]
func (c *StudentController) UploadResume(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	result, err := c.ResumeService.UploadResume(ctx.Request.Context(), claims, file)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, result)
}
