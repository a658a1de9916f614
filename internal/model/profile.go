package model

import (
	"encoding/json"
	"time"
)

type ProfileVerification string

const (
	ProfileVerified ProfileVerification = "Verified"
	ProfilePending  ProfileVerification = "Pending"
	ProfileRejected ProfileVerification = "Rejected"
)

// swagger:model StudentProfile
type StudentProfile struct {
	UUIDBase
	StudentID           string          `gorm:"uniqueIndex;type:varchar(36);not null" json:"studentId"`
	FirstName           string          `gorm:"size:100;not null" json:"firstName"`
	LastName            string          `gorm:"size:100;not null" json:"lastName"`
	DateOfBirth         *time.Time      `json:"dateOfBirth,omitempty"`
	Gender              string          `gorm:"size:50" json:"gender,omitempty"`
	PhoneNumber         string          `gorm:"size:20" json:"phoneNumber,omitempty"`
	Address             json.RawMessage `gorm:"type:json" json:"address,omitempty"`
	Bio                 string          `gorm:"type:text" json:"bio,omitempty"`
	CurrentEducation    string          `gorm:"size:50" json:"currentEducationLevel,omitempty"`
	CareerGoals         string          `gorm:"type:text" json:"careerGoals,omitempty"`
	PreferredIndustries json.RawMessage `gorm:"type:json" json:"preferredIndustries,omitempty"`
	EducationHistory    json.RawMessage `gorm:"type:json" json:"educationHistory,omitempty"`
	WorkExperience      json.RawMessage `gorm:"type:json" json:"workExperience,omitempty"`
	LinkedinProfile     string          `gorm:"size:255" json:"linkedinProfile,omitempty"`
	GithubProfile       string          `gorm:"size:255" json:"githubProfile,omitempty"`
	PortfolioURL        string          `gorm:"size:255" json:"portfolioUrl,omitempty"`
	ResumeURL           string          `gorm:"size:500" json:"resumeUrl,omitempty"`
	ProfilePictureURL   string          `gorm:"size:500" json:"profilePictureUrl,omitempty"`
}

func (StudentProfile) TableName() string {
	return "student_profiles"
}

// swagger:model EducatorProfile
type EducatorProfile struct {
	UUIDBase
	EducatorID         string              `gorm:"uniqueIndex;type:varchar(36);not null" json:"educatorId"`
	FirstName          string              `gorm:"size:100;not null" json:"firstName"`
	LastName           string              `gorm:"size:100;not null" json:"lastName"`
	Institution        string              `gorm:"size:255" json:"institution,omitempty"`
	Designation        string              `gorm:"size:100" json:"designation,omitempty"`
	ProfilePictureURL  string              `gorm:"size:500" json:"profilePictureUrl,omitempty"`
	VerificationStatus ProfileVerification `gorm:"size:20;default:'Pending'" json:"verificationStatus"`
}

func (EducatorProfile) TableName() string {
	return "educator_profiles"
}

// swagger:model CompanyProfile
type CompanyProfile struct {
	UUIDBase
	CompanyID            string              `gorm:"uniqueIndex;type:varchar(36);not null" json:"companyId"`
	CompanyName          string              `gorm:"size:255;not null" json:"companyName"`
	RecruiterContactName string              `gorm:"size:100" json:"recruiterContactName"`
	Industry             string              `gorm:"size:100" json:"industry,omitempty"`
	CompanySize          string              `gorm:"size:20" json:"companySize,omitempty"`
	Website              string              `gorm:"size:255" json:"website,omitempty"`
	ProfilePictureURL    string              `gorm:"size:500" json:"profilePictureUrl,omitempty"`
	VerificationStatus   ProfileVerification `gorm:"size:20;default:'Pending'" json:"verificationStatus"`
}

func (CompanyProfile) TableName() string {
	return "company_profiles"
}
