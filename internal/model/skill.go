package model

type VerificationStatus string

const (
	Unverified VerificationStatus = "Unverified"
	Verified   VerificationStatus = "Verified"
	Failed     VerificationStatus = "Failed"
)

// Skill is admin-curated reference data, read-only to the rest of the system.
//
// swagger:model Skill
type Skill struct {
	UUIDBase
	Name     string `gorm:"size:100;uniqueIndex;not null" json:"skillName"`
	Category string `gorm:"size:100;index" json:"skillCategory"`
}

func (Skill) TableName() string {
	return "skills_master"
}

// UserSkill records a student's self-claimed proficiency in a skill. The claim
// stays Unverified until a passing test session flips it to Verified.
//
// swagger:model UserSkill
type UserSkill struct {
	UUIDBase
	UserID             string             `gorm:"type:varchar(36);not null;uniqueIndex:idx_user_skill" json:"userId"`
	SkillID            string             `gorm:"type:varchar(36);not null;uniqueIndex:idx_user_skill" json:"skillId"`
	ProficiencyLevel   string             `gorm:"size:20;not null" json:"proficiencyLevel"`
	YearsOfExperience  *float64           `json:"yearsOfExperience,omitempty"`
	VerificationStatus VerificationStatus `gorm:"size:20;default:'Unverified'" json:"verificationStatus"`
}

func (UserSkill) TableName() string {
	return "user_skills"
}
