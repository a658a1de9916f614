package model

import "time"

type TestStatus string

const (
	TestNotStarted TestStatus = "NotStarted"
	TestInProgress TestStatus = "InProgress"
	TestCompleted  TestStatus = "Completed"
	TestAbandoned  TestStatus = "Abandoned"
)

// TestSession is one student's attempt at a skill's question set. Transitions are
// linear and single-use: NotStarted -> InProgress -> Completed. Sessions left
// InProgress past their time budget are aged out to Abandoned by a background job.
//
// swagger:model TestSession
type TestSession struct {
	UUIDBase
	UserID             string             `gorm:"type:varchar(36);not null;index:idx_session_user_skill" json:"userId"`
	SkillID            string             `gorm:"type:varchar(36);not null;index:idx_session_user_skill" json:"skillId"`
	IsProctored        bool               `gorm:"default:true" json:"isProctored"`
	Status             TestStatus         `gorm:"size:20;default:'NotStarted';index" json:"status"`
	TotalQuestions     int                `gorm:"not null" json:"totalQuestions"`
	TotalScore         int                `gorm:"not null" json:"totalScore"`
	ObtainedScore      *int               `json:"obtainedScore,omitempty"`
	Percentage         *float64           `json:"percentage,omitempty"`
	VerificationStatus VerificationStatus `gorm:"size:20;default:'Unverified'" json:"verificationStatus"`
	StartedAt          *time.Time         `json:"startedAt,omitempty"`
	CompletedAt        *time.Time         `json:"completedAt,omitempty"`
}

func (TestSession) TableName() string {
	return "test_sessions"
}

// SessionQuestion pins the sampled question set of a session, in presentation
// order. Written once at session creation, immutable afterwards.
type SessionQuestion struct {
	UUIDBase
	SessionID     string `gorm:"type:varchar(36);not null;uniqueIndex:idx_session_question" json:"sessionId"`
	QuestionID    string `gorm:"type:varchar(36);not null;uniqueIndex:idx_session_question" json:"questionId"`
	QuestionOrder int    `gorm:"not null" json:"questionOrder"`
}

func (SessionQuestion) TableName() string {
	return "session_questions"
}

// Answer holds the latest submission for a (session, question) pair; resubmission
// before completion overwrites in place. IsCorrect stays nil for question types
// that need manual grading.
//
// swagger:model Answer
type Answer struct {
	UUIDBase
	SessionID        string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_answer_session_question" json:"sessionId"`
	QuestionID       string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_answer_session_question" json:"questionId"`
	UserID           string    `gorm:"type:varchar(36);not null;index" json:"userId"`
	Answer           string    `gorm:"type:text" json:"answer"`
	IsCorrect        *bool     `json:"isCorrect"`
	PointsEarned     int       `gorm:"default:0" json:"pointsEarned"`
	TimeTakenSeconds int       `gorm:"default:0" json:"timeTakenSeconds"`
	SubmittedAt      time.Time `json:"submittedAt"`
}

func (Answer) TableName() string {
	return "test_answers"
}
