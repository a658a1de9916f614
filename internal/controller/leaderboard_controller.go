package controller

import (
	"technicia_backend/internal/service"
	"technicia_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LeaderboardController struct {
	LeaderboardService *service.LeaderboardService
}

func NewLeaderboardController(leaderboardService *service.LeaderboardService) *LeaderboardController {
	return &LeaderboardController{LeaderboardService: leaderboardService}
}

// BySkill godoc
// @Summary Leaderboard for one skill
// @Description Best completed-test percentage per student, dense-ranked
// @Tags leaderboard
// @Produce  json
// @Param   skillId path string true "Skill id"
// @Success 200 {object} util.Response{data=service.Leaderboard}
// @Failure 404 {object} util.Response
// @Router /api/v1/leaderboard/skills/{skillId} [get]
func (c *LeaderboardController) BySkill(ctx *gin.Context) {
	board, err := c.LeaderboardService.BySkill(ctx.Request.Context(), ctx.Param("skillId"))
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, board)
}

// Global godoc
// @Summary Leaderboard across all skills
// @Tags leaderboard
// @Produce  json
// @Success 200 {object} util.Response{data=service.Leaderboard}
// @Router /api/v1/leaderboard [get]
func (c *LeaderboardController) Global(ctx *gin.Context) {
	board, err := c.LeaderboardService.Global(ctx.Request.Context())
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, board)
}
