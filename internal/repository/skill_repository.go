package repository

import (
	"technicia_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SkillRepository struct {
	DB *gorm.DB
}

func NewSkillRepository(db *gorm.DB) *SkillRepository {
	return &SkillRepository{DB: db}
}

func (r *SkillRepository) ListAll() ([]model.Skill, error) {
	var skills []model.Skill
	err := r.DB.Order("name asc").Find(&skills).Error
	return skills, err
}

func (r *SkillRepository) FindByID(id string) (*model.Skill, error) {
	var skill model.Skill
	err := r.DB.First(&skill, "id = ?", id).Error
	return &skill, err
}

func (r *SkillRepository) FindByNameLike(name string) (*model.Skill, error) {
	var skill model.Skill
	err := r.DB.Where("name LIKE ?", "%"+name+"%").First(&skill).Error
	return &skill, err
}

// UserSkillRow is a claim joined with its master skill record.
type UserSkillRow struct {
	model.UserSkill
	SkillName     string `json:"skillName"`
	SkillCategory string `json:"skillCategory"`
}

func (r *SkillRepository) ListClaims(userID string) ([]UserSkillRow, error) {
	var rows []UserSkillRow
	err := r.DB.Table("user_skills us").
		Select("us.*, sm.name as skill_name, sm.category as skill_category").
		Joins("JOIN skills_master sm ON sm.id = us.skill_id").
		Where("us.user_id = ? AND us.deleted_at IS NULL", userID).
		Scan(&rows).Error
	return rows, err
}

func (r *SkillRepository) FindClaim(userID, skillID string) (*model.UserSkill, error) {
	var claim model.UserSkill
	err := r.DB.Where("user_id = ? AND skill_id = ?", userID, skillID).First(&claim).Error
	return &claim, err
}

func (r *SkillRepository) FindClaimByID(userSkillID string) (*model.UserSkill, error) {
	var claim model.UserSkill
	err := r.DB.First(&claim, "id = ?", userSkillID).Error
	return &claim, err
}

// UpsertClaims inserts or refreshes claims keyed on (user_id, skill_id).
// Verification status is not touched on conflict; passing a test must stay the
// only path to Verified.
func (r *SkillRepository) UpsertClaims(claims []model.UserSkill) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "skill_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"proficiency_level", "years_of_experience", "updated_at"}),
	}).Create(&claims).Error
}

func (r *SkillRepository) DeleteClaim(userSkillID string) error {
	return r.DB.Delete(&model.UserSkill{}, "id = ?", userSkillID).Error
}

func (r *SkillRepository) SetClaimVerification(userID, skillID string, status model.VerificationStatus) error {
	return r.DB.Model(&model.UserSkill{}).
		Where("user_id = ? AND skill_id = ?", userID, skillID).
		Update("verification_status", status).Error
}
