package model

import "encoding/json"

type QuestionType string

const (
	QuestionMCQ         QuestionType = "MCQ"
	QuestionCoding      QuestionType = "Coding"
	QuestionShortAnswer QuestionType = "ShortAnswer"
)

type DifficultyLevel string

const (
	DifficultyEasy   DifficultyLevel = "Easy"
	DifficultyMedium DifficultyLevel = "Medium"
	DifficultyHard   DifficultyLevel = "Hard"
)

// Question belongs to the question bank. Rows are created by import tooling and
// never mutated here. CorrectAnswer must not reach clients; SanitizedQuestion is
// the only shape handed out during a session.
//
// swagger:model Question
type Question struct {
	UUIDBase
	SkillID          string          `gorm:"type:varchar(36);not null;index" json:"skillId"`
	QuestionType     QuestionType    `gorm:"size:20;not null" json:"questionType"`
	DifficultyLevel  DifficultyLevel `gorm:"size:10;not null" json:"difficultyLevel"`
	QuestionText     string          `gorm:"type:text;not null" json:"questionText"`
	Options          json.RawMessage `gorm:"type:json" json:"options,omitempty"`
	CorrectAnswer    string          `gorm:"type:text" json:"-"`
	Points           int             `gorm:"default:1" json:"points"`
	TimeLimitSeconds *int            `json:"timeLimitSeconds,omitempty"`
}

func (Question) TableName() string {
	return "test_questions"
}

// SanitizedQuestion is a Question with the correct answer stripped, plus the
// position it occupies in a particular session.
type SanitizedQuestion struct {
	QuestionID       string          `json:"questionId"`
	SkillID          string          `json:"skillId"`
	QuestionType     QuestionType    `json:"questionType"`
	DifficultyLevel  DifficultyLevel `json:"difficultyLevel"`
	QuestionText     string          `json:"questionText"`
	Options          json.RawMessage `json:"options,omitempty"`
	Points           int             `json:"points"`
	TimeLimitSeconds *int            `json:"timeLimitSeconds,omitempty"`
	QuestionOrder    int             `json:"questionOrder"`
}

func (q *Question) Sanitized(order int) SanitizedQuestion {
	return SanitizedQuestion{
		QuestionID:       q.ID,
		SkillID:          q.SkillID,
		QuestionType:     q.QuestionType,
		DifficultyLevel:  q.DifficultyLevel,
		QuestionText:     q.QuestionText,
		Options:          q.Options,
		Points:           q.Points,
		TimeLimitSeconds: q.TimeLimitSeconds,
		QuestionOrder:    order,
	}
}
