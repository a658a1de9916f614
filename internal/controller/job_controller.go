package controller

import (
	"technicia_backend/internal/service"
	"technicia_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type JobController struct {
	JobService *service.JobService
}

func NewJobController(jobService *service.JobService) *JobController {
	return &JobController{JobService: jobService}
}

// ListJobs godoc
// @Summary List job postings
// @Tags jobs
// @Produce  json
// @Success 200 {object} util.Response{data=[]service.Job}
// @Router /api/v1/jobs [get]
func (c *JobController) ListJobs(ctx *gin.Context) {
	util.Success(ctx, c.JobService.ListJobs())
}

// Recommend godoc
// @Summary Job recommendations for the caller
// @Description Scores postings against claimed skills; required skills weigh 70%, preferred 30%
// @Tags jobs
// @Produce  json
// @Success 200 {object} util.Response{data=[]service.JobMatch}
// @Failure 403 {object} util.Response "Caller is not a student"
// @Security BearerAuth
// @Router /api/v1/jobs/recommendations [get]
func (c *JobController) Recommend(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	matches, err := c.JobService.Recommend(claims)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, matches)
}
