package util

import (
	"errors"
	"fmt"
)

// ErrorKind classifies every failure the services surface. Controllers map kinds
// to HTTP statuses in exactly one place (HandleServiceError).
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindForbidden
	KindPreconditionFailed
	KindNotFound
	KindConflict
)

// AppError carries a kind plus a user-actionable message. Ownership failures are
// reported as NotFound on purpose, so callers cannot probe for other users'
// sessions.
type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func Forbidden(msg string) error {
	return &AppError{Kind: KindForbidden, Message: msg}
}

func PreconditionFailed(msg string) error {
	return &AppError{Kind: KindPreconditionFailed, Message: msg}
}

func NotFoundErr(msg string) error {
	return &AppError{Kind: KindNotFound, Message: msg}
}

func Conflict(msg string) error {
	return &AppError{Kind: KindConflict, Message: msg}
}

func Internal(msg string, err error) error {
	return &AppError{Kind: KindInternal, Message: msg, Err: err}
}

// KindOf returns the classification of err, defaulting to Internal for anything
// that is not an AppError (unexpected collaborator failures propagate as-is).
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

var (
	ErrEmailRegistered     = PreconditionFailed("Email already registered")
	ErrInvalidCredentials  = Forbidden("Incorrect email or password")
	ErrStudentsOnly        = Forbidden("Only students can perform this action")
	ErrSessionNotFound     = NotFoundErr("Test session not found")
	ErrQuestionNotFound    = NotFoundErr("Question not found")
	ErrSkillNotFound       = NotFoundErr("Skill not found")
	ErrSkillNotClaimed     = PreconditionFailed("You must claim this skill before taking the test")
	ErrPhotoRequired       = PreconditionFailed("Profile picture required for proctored tests. Please upload your photo first.")
	ErrAttemptCapReached   = PreconditionFailed("Maximum 3 attempts allowed per skill")
	ErrNotEnoughQuestions  = PreconditionFailed("Not enough questions available for this skill (need 30)")
	ErrSessionNotStartable = Conflict("Test session already started or completed")
	ErrSessionNotActive    = Conflict("Test session is not in progress")
	ErrSessionAbandoned    = Conflict("Test session was abandoned after its time expired")
	ErrAlreadySubmitted    = Conflict("Test already submitted")
	ErrNotYetCompleted     = Conflict("Test not yet completed")
)
