package model

import (
	"time"
)

type UserRole string

const (
	Student  UserRole = "Student"
	Educator UserRole = "Educator"
	Company  UserRole = "Company"
)

type AccountStatus string

const (
	AccountActive              AccountStatus = "Active"
	AccountSuspended           AccountStatus = "Suspended"
	AccountPendingVerification AccountStatus = "Pending_Verification"
)

// swagger:model User
type User struct {
	UUIDBase
	Email             string        `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash      string        `gorm:"size:100;not null" json:"-"`
	Role              UserRole      `gorm:"size:20;not null;index" json:"role"`
	AccountStatus     AccountStatus `gorm:"size:30;default:'Pending_Verification'" json:"accountStatus"`
	ProfileCompletion int           `gorm:"default:25" json:"profileCompletionPercentage"`
	LastLoginAt       *time.Time    `json:"lastLoginAt,omitempty"`
}

func (User) TableName() string {
	return "users"
}
