package controller

import (
	"strconv"

	"technicia_backend/internal/service"
	"technicia_backend/internal/util"
	"technicia_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

type TestController struct {
	TestService *service.TestService
}

func NewTestController(testService *service.TestService) *TestController {
	return &TestController{TestService: testService}
}

type CreateSessionRequest struct {
	SkillID     string `json:"skillId" binding:"required"`
	IsProctored bool   `json:"isProctored"`
}

// CreateSession godoc
// @Summary Create a test session
// @Description Samples 30 random questions for the skill and reserves one of the 3 allowed attempts
// @Tags tests
// @Accept  json
// @Produce  json
// @Param   body body CreateSessionRequest true "Skill and proctoring mode"
// @Success 201 {object} util.Response{data=service.CreateSessionResult}
// @Failure 400 {object} util.Response "Unclaimed skill, missing photo, attempt cap, or small pool"
// @Failure 403 {object} util.Response "Caller is not a student"
// @Security BearerAuth
// @Router /api/v1/tests/sessions [post]
func (c *TestController) CreateSession(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req CreateSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.TestService.CreateSession(claims, req.SkillID, req.IsProctored)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	monitoring.TestSessionsCreated.WithLabelValues(strconv.FormatBool(req.IsProctored)).Inc()
	util.Created(ctx, result)
}

// StartSession godoc
// @Summary Start a test session
// @Tags tests
// @Produce  json
// @Param   id path string true "Session id"
// @Success 200 {object} util.Response{data=service.StartSessionResult}
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response "Already started or completed"
// @Security BearerAuth
// @Router /api/v1/tests/sessions/{id}/start [post]
func (c *TestController) StartSession(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	result, err := c.TestService.StartSession(claims, ctx.Param("id"))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// GetQuestions godoc
// @Summary Session questions
// @Description Returns the fixed question set in order, without correct answers
// @Tags tests
// @Produce  json
// @Param   id path string true "Session id"
// @Success 200 {object} util.Response{data=[]model.SanitizedQuestion}
// @Failure 404 {object} util.Response
// @Security BearerAuth
// @Router /api/v1/tests/sessions/{id}/questions [get]
func (c *TestController) GetQuestions(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	questions, err := c.TestService.ListSessionQuestions(claims, ctx.Param("id"))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, questions)
}

// SubmitAnswer godoc
// @Summary Submit or revise one answer
// @Description MCQ answers are graded immediately; resubmission overwrites while the session is in progress
// @Tags tests
// @Accept  json
// @Produce  json
// @Param   id path string true "Session id"
// @Param   body body service.SubmitAnswerRequest true "Answer"
// @Success 200 {object} util.Response{data=service.AnswerResult}
// @Failure 404 {object} util.Response "Session or question not found, or question not in session"
// @Failure 409 {object} util.Response "Session not in progress"
// @Security BearerAuth
// @Router /api/v1/tests/sessions/{id}/answers [post]
func (c *TestController) SubmitAnswer(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req service.SubmitAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.TestService.SubmitAnswer(claims, ctx.Param("id"), req)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

type SubmitTestRequest struct {
	ForceSubmit bool `json:"forceSubmit"`
}

// SubmitTest godoc
// @Summary Submit the test for scoring
// @Description Finalizes the session, scores it, and verifies the skill on a pass
// @Tags tests
// @Accept  json
// @Produce  json
// @Param   id path string true "Session id"
// @Param   body body SubmitTestRequest false "Submission flags"
// @Success 200 {object} util.Response{data=service.TestResult}
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response "Already submitted"
// @Security BearerAuth
// @Router /api/v1/tests/sessions/{id}/submit [post]
func (c *TestController) SubmitTest(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req SubmitTestRequest
	if err := ctx.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.TestService.SubmitTest(claims, ctx.Param("id"), req.ForceSubmit)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}

	monitoring.TestSessionsCompleted.WithLabelValues(string(result.VerificationStatus)).Inc()
	util.Success(ctx, result)
}

// GetResult godoc
// @Summary Result of a completed session
// @Tags tests
// @Produce  json
// @Param   id path string true "Session id"
// @Success 200 {object} util.Response{data=service.TestResult}
// @Failure 404 {object} util.Response
// @Failure 409 {object} util.Response "Not yet completed"
// @Security BearerAuth
// @Router /api/v1/tests/sessions/{id}/result [get]
func (c *TestController) GetResult(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	result, err := c.TestService.GetResult(claims, ctx.Param("id"))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// GetHistory godoc
// @Summary The caller's completed tests, newest first
// @Tags tests
// @Produce  json
// @Success 200 {object} util.Response{data=[]service.TestResult}
// @Security BearerAuth
// @Router /api/v1/tests/history [get]
func (c *TestController) GetHistory(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	results, err := c.TestService.History(claims)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, results)
}
