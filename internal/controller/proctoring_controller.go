package controller

import (
	"technicia_backend/internal/model"
	"technicia_backend/internal/service"
	"technicia_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProctoringController struct {
	ProctoringService *service.ProctoringService
}

func NewProctoringController(proctoringService *service.ProctoringService) *ProctoringController {
	return &ProctoringController{ProctoringService: proctoringService}
}

// ReportViolation godoc
// @Summary Report a proctoring violation
// @Description Appends to the session's violation trail and returns the running total
// @Tags proctoring
// @Accept  json
// @Produce  json
// @Param   id path string true "Session id"
// @Param   body body service.ReportViolationRequest true "Violation"
// @Success 200 {object} util.Response{data=service.ViolationSummary}
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response "Session not in progress"
// @Security BearerAuth
// @Router /api/v1/proctoring/sessions/{id}/violations [post]
func (c *ProctoringController) ReportViolation(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req service.ReportViolationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	summary, err := c.ProctoringService.ReportViolation(claims, ctx.Param("id"), req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, summary)
}

// ReportTabSwitch godoc
// @Summary Shorthand for reporting a tab switch
// @Tags proctoring
// @Produce  json
// @Param   id path string true "Session id"
// @Success 200 {object} util.Response{data=service.ViolationSummary}
// @Security BearerAuth
// @Router /api/v1/proctoring/sessions/{id}/tab-switch [post]
func (c *ProctoringController) ReportTabSwitch(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	summary, err := c.ProctoringService.ReportViolation(claims, ctx.Param("id"), service.ReportViolationRequest{
		ViolationType: model.ViolationTabSwitch,
		Severity:      model.SeverityMedium,
	})
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, summary)
}

// ListViolations godoc
// @Summary Violation trail for a session
// @Tags proctoring
// @Produce  json
// @Param   id path string true "Session id"
// @Success 200 {object} util.Response{data=service.ViolationSummary}
// @Failure 404 {object} util.Response
// @Security BearerAuth
// @Router /api/v1/proctoring/sessions/{id}/violations [get]
func (c *ProctoringController) ListViolations(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	summary, err := c.ProctoringService.ListViolations(claims, ctx.Param("id"))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, summary)
}

// GetStats godoc
// @Summary Proctoring stats for a session
// @Description Violation counts by type and severity plus face-check aggregates
// @Tags proctoring
// @Produce  json
// @Param   id path string true "Session id"
// @Success 200 {object} util.Response{data=service.SessionStats}
// @Failure 404 {object} util.Response
// @Security BearerAuth
// @Router /api/v1/proctoring/sessions/{id}/stats [get]
func (c *ProctoringController) GetStats(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	stats, err := c.ProctoringService.Stats(claims, ctx.Param("id"))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}

// VerifyFace godoc
// @Summary Verify a webcam capture against the profile photo
// @Tags proctoring
// @Accept  multipart/form-data
// @Produce  json
// @Param   id path string true "Session id"
// @Param   capture formData file true "Webcam capture"
// @Success 200 {object} util.Response{data=service.FaceVerifyResult}
// @Failure 404 {object} util.Response
// @Security BearerAuth
// @Router /api/v1/proctoring/sessions/{id}/verify-face [post]
func (c *ProctoringController) VerifyFace(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var captureSize int64
	if file, err := ctx.FormFile("capture"); err == nil {
		captureSize = file.Size
	}

	result, err := c.ProctoringService.VerifyFace(claims, ctx.Param("id"), captureSize)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, result)
}
