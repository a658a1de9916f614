package model

import (
	"encoding/json"
	"time"
)

type ViolationType string

const (
	ViolationTabSwitch      ViolationType = "TabSwitch"
	ViolationMultipleFaces  ViolationType = "MultipleFaces"
	ViolationNoFace         ViolationType = "NoFace"
	ViolationFaceNotMatched ViolationType = "FaceNotMatched"
)

type ViolationSeverity string

const (
	SeverityLow    ViolationSeverity = "Low"
	SeverityMedium ViolationSeverity = "Medium"
	SeverityHigh   ViolationSeverity = "High"
)

// ViolationRecord is append-only; rows are never mutated or deleted.
//
// swagger:model ViolationRecord
type ViolationRecord struct {
	UUIDBase
	SessionID     string            `gorm:"type:varchar(36);not null;index" json:"sessionId"`
	UserID        string            `gorm:"type:varchar(36);not null" json:"userId"`
	ViolationType ViolationType     `gorm:"size:30;not null" json:"violationType"`
	Severity      ViolationSeverity `gorm:"size:10;not null" json:"severity"`
	Details       json.RawMessage   `gorm:"type:json" json:"details,omitempty"`
	OccurredAt    time.Time         `json:"occurredAt"`
}

func (ViolationRecord) TableName() string {
	return "proctoring_violations"
}

// swagger:model FaceVerificationLog
type FaceVerificationLog struct {
	UUIDBase
	SessionID  string    `gorm:"type:varchar(36);not null;index" json:"sessionId"`
	UserID     string    `gorm:"type:varchar(36);not null" json:"userId"`
	Verified   bool      `json:"verified"`
	Confidence float64   `json:"confidence"`
	Error      string    `gorm:"size:255" json:"error,omitempty"`
	CapturedAt time.Time `json:"capturedAt"`
}

func (FaceVerificationLog) TableName() string {
	return "face_verification_logs"
}
