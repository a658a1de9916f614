package controller

import (
	"technicia_backend/internal/service"
	"technicia_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SkillController struct {
	SkillService *service.SkillService
}

func NewSkillController(skillService *service.SkillService) *SkillController {
	return &SkillController{SkillService: skillService}
}

// ListSkills godoc
// @Summary List the skill master catalog
// @Tags skills
// @Produce  json
// @Success 200 {object} util.Response{data=[]model.Skill}
// @Router /api/v1/skills [get]
func (c *SkillController) ListSkills(ctx *gin.Context) {
	skills, err := c.SkillService.ListSkills()
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, skills)
}

type ClaimSkillsRequest struct {
	Skills []service.ClaimSkillRequest `json:"skills" binding:"required,dive"`
}

// ClaimSkills godoc
// @Summary Claim skills
// @Description Records self-assessed proficiency; claims start Unverified
// @Tags skills
// @Accept  json
// @Produce  json
// @Param   body body ClaimSkillsRequest true "Skills to claim"
// @Success 200 {object} util.Response{data=[]repository.UserSkillRow}
// @Failure 400 {object} util.Response
// @Security BearerAuth
// @Router /api/v1/skills/claims [post]
func (c *SkillController) ClaimSkills(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	var req ClaimSkillsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	rows, err := c.SkillService.ClaimSkills(claims, req.Skills)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, rows)
}

// ListMyClaims godoc
// @Summary List the caller's skill claims
// @Tags skills
// @Produce  json
// @Success 200 {object} util.Response{data=[]repository.UserSkillRow}
// @Security BearerAuth
// @Router /api/v1/skills/claims [get]
func (c *SkillController) ListMyClaims(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	rows, err := c.SkillService.ListClaims(claims.UserID)
	if err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, rows)
}

// RemoveClaim godoc
// @Summary Remove a skill claim
// @Tags skills
// @Produce  json
// @Param   id path string true "User skill id"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Security BearerAuth
// @Router /api/v1/skills/claims/{id} [delete]
func (c *SkillController) RemoveClaim(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if err := c.SkillService.RemoveClaim(claims, ctx.Param("id")); err != nil {
		util.HandleServiceError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
