package service

import (
	"errors"

	"technicia_backend/internal/model"
	"technicia_backend/internal/repository"
	"technicia_backend/internal/util"

	"gorm.io/gorm"
)

type SkillService struct {
	Skills *repository.SkillRepository
}

func NewSkillService(skills *repository.SkillRepository) *SkillService {
	return &SkillService{Skills: skills}
}

func (s *SkillService) ListSkills() ([]model.Skill, error) {
	skills, err := s.Skills.ListAll()
	if err != nil {
		return nil, util.Internal("failed to list skills", err)
	}
	return skills, nil
}

type ClaimSkillRequest struct {
	SkillID           string   `json:"skillId" binding:"required"`
	ProficiencyLevel  string   `json:"proficiencyLevel" binding:"required,oneof=Beginner Intermediate Advanced Expert"`
	YearsOfExperience *float64 `json:"yearsOfExperience"`
}

// ClaimSkills records the student's self-assessment against the master list.
// Re-claiming a skill refreshes proficiency but never resets an earned
// verification.
func (s *SkillService) ClaimSkills(claims *util.Claims, reqs []ClaimSkillRequest) ([]repository.UserSkillRow, error) {
	if claims.Role != model.Student {
		return nil, util.ErrStudentsOnly
	}
	if len(reqs) == 0 {
		return nil, util.PreconditionFailed("At least one skill is required")
	}

	rows := make([]model.UserSkill, 0, len(reqs))
	for _, req := range reqs {
		if _, err := s.Skills.FindByID(req.SkillID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, util.ErrSkillNotFound
			}
			return nil, util.Internal("failed to check skill", err)
		}
		rows = append(rows, model.UserSkill{
			UserID:             claims.UserID,
			SkillID:            req.SkillID,
			ProficiencyLevel:   req.ProficiencyLevel,
			YearsOfExperience:  req.YearsOfExperience,
			VerificationStatus: model.Unverified,
		})
	}

	if err := s.Skills.UpsertClaims(rows); err != nil {
		return nil, util.Internal("failed to save skill claims", err)
	}

	return s.ListClaims(claims.UserID)
}

func (s *SkillService) ListClaims(userID string) ([]repository.UserSkillRow, error) {
	rows, err := s.Skills.ListClaims(userID)
	if err != nil {
		return nil, util.Internal("failed to list skill claims", err)
	}
	return rows, nil
}

// RemoveClaim deletes one of the caller's own claims.
func (s *SkillService) RemoveClaim(claims *util.Claims, userSkillID string) error {
	claim, err := s.Skills.FindClaimByID(userSkillID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.NotFoundErr("Skill claim not found")
		}
		return util.Internal("failed to fetch skill claim", err)
	}
	if claim.UserID != claims.UserID {
		// Reported as absent; claim ids are not probeable.
		return util.NotFoundErr("Skill claim not found")
	}
	if err := s.Skills.DeleteClaim(userSkillID); err != nil {
		return util.Internal("failed to delete skill claim", err)
	}
	return nil
}
