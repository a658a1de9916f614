package service

import (
	"encoding/json"
	"errors"
	"time"

	"technicia_backend/internal/model"
	"technicia_backend/internal/repository"
	"technicia_backend/internal/util"

	"gorm.io/gorm"
)

// ProctoringService records integrity events during proctored sessions. It
// never fails the session itself; the test engine reads the violation count at
// submission and applies the override there.
type ProctoringService struct {
	Sessions   *repository.SessionRepository
	Violations *repository.ViolationRepository
	Profiles   *repository.ProfileRepository
}

func NewProctoringService(sessions *repository.SessionRepository, violations *repository.ViolationRepository, profiles *repository.ProfileRepository) *ProctoringService {
	return &ProctoringService{Sessions: sessions, Violations: violations, Profiles: profiles}
}

type ReportViolationRequest struct {
	ViolationType model.ViolationType     `json:"violationType" binding:"required,oneof=TabSwitch MultipleFaces NoFace FaceNotMatched"`
	Severity      model.ViolationSeverity `json:"severity" binding:"required,oneof=Low Medium High"`
	Details       json.RawMessage         `json:"details"`
}

type ViolationSummary struct {
	SessionID      string                  `json:"sessionId"`
	TotalCount     int                     `json:"totalCount"`
	RemainingSlack int                     `json:"remainingSlack"`
	Violations     []model.ViolationRecord `json:"violations"`
}

// ReportViolation appends one violation to an active proctored session and
// returns the running total so the client can warn the candidate.
func (s *ProctoringService) ReportViolation(claims *util.Claims, sessionID string, req ReportViolationRequest) (*ViolationSummary, error) {
	session, err := s.findProctoredSession(sessionID, claims.UserID)
	if err != nil {
		return nil, err
	}
	if session.Status != model.TestInProgress {
		return nil, util.ErrSessionNotActive
	}

	record := &model.ViolationRecord{
		SessionID:     sessionID,
		UserID:        claims.UserID,
		ViolationType: req.ViolationType,
		Severity:      req.Severity,
		Details:       req.Details,
		OccurredAt:    time.Now(),
	}
	if err := s.Violations.Append(record); err != nil {
		return nil, util.Internal("failed to record violation", err)
	}

	return s.summarize(sessionID)
}

// ListViolations returns the session's violation trail.
func (s *ProctoringService) ListViolations(claims *util.Claims, sessionID string) (*ViolationSummary, error) {
	if _, err := s.findProctoredSession(sessionID, claims.UserID); err != nil {
		return nil, err
	}
	return s.summarize(sessionID)
}

type FaceVerifyResult struct {
	Verified   bool    `json:"verified"`
	Confidence float64 `json:"confidence"`
	Message    string  `json:"message,omitempty"`
}

// VerifyFace compares a webcam capture against the stored profile picture.
// Until a real recognition backend is wired in, any capture with a profile
// picture on file verifies with a fixed confidence; the attempt is logged
// either way so sessions remain auditable.
func (s *ProctoringService) VerifyFace(claims *util.Claims, sessionID string, captureSize int64) (*FaceVerifyResult, error) {
	if _, err := s.findProctoredSession(sessionID, claims.UserID); err != nil {
		return nil, err
	}

	result := &FaceVerifyResult{}
	profile, err := s.Profiles.FindStudent(claims.UserID)
	switch {
	case err != nil || profile.ProfilePictureURL == "":
		result.Message = "No reference photo on file"
	case captureSize == 0:
		result.Message = "Empty capture"
	default:
		result.Verified = true
		result.Confidence = 0.95
	}

	logEntry := &model.FaceVerificationLog{
		SessionID:  sessionID,
		UserID:     claims.UserID,
		Verified:   result.Verified,
		Confidence: result.Confidence,
		Error:      result.Message,
		CapturedAt: time.Now(),
	}
	if err := s.Violations.AppendFaceLog(logEntry); err != nil {
		return nil, util.Internal("failed to log face verification", err)
	}

	if !result.Verified {
		details, _ := json.Marshal(map[string]string{"reason": result.Message})
		record := &model.ViolationRecord{
			SessionID:     sessionID,
			UserID:        claims.UserID,
			ViolationType: model.ViolationFaceNotMatched,
			Severity:      model.SeverityHigh,
			Details:       details,
			OccurredAt:    time.Now(),
		}
		if err := s.Violations.Append(record); err != nil {
			return nil, util.Internal("failed to record violation", err)
		}
	}

	return result, nil
}

type SessionStats struct {
	SessionID         string                          `json:"sessionId"`
	TotalViolations   int                             `json:"totalViolations"`
	ByType            map[model.ViolationType]int     `json:"byType"`
	BySeverity        map[model.ViolationSeverity]int `json:"bySeverity"`
	FaceChecks        int                             `json:"faceChecks"`
	FaceChecksPassed  int                             `json:"faceChecksPassed"`
	AverageConfidence float64                         `json:"averageConfidence"`
}

// Stats aggregates the session's violation trail and face-check history.
func (s *ProctoringService) Stats(claims *util.Claims, sessionID string) (*SessionStats, error) {
	if _, err := s.findProctoredSession(sessionID, claims.UserID); err != nil {
		return nil, err
	}

	violations, err := s.Violations.ListBySession(sessionID)
	if err != nil {
		return nil, util.Internal("failed to list violations", err)
	}
	faceLogs, err := s.Violations.ListFaceLogs(sessionID)
	if err != nil {
		return nil, util.Internal("failed to list face logs", err)
	}

	stats := &SessionStats{
		SessionID:       sessionID,
		TotalViolations: len(violations),
		ByType:          make(map[model.ViolationType]int),
		BySeverity:      make(map[model.ViolationSeverity]int),
		FaceChecks:      len(faceLogs),
	}
	for _, v := range violations {
		stats.ByType[v.ViolationType]++
		stats.BySeverity[v.Severity]++
	}
	var confidenceSum float64
	for _, l := range faceLogs {
		if l.Verified {
			stats.FaceChecksPassed++
		}
		confidenceSum += l.Confidence
	}
	if len(faceLogs) > 0 {
		stats.AverageConfidence = confidenceSum / float64(len(faceLogs))
	}
	return stats, nil
}

func (s *ProctoringService) findProctoredSession(sessionID, userID string) (*model.TestSession, error) {
	session, err := s.Sessions.FindByIDAndUser(sessionID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSessionNotFound
		}
		return nil, util.Internal("failed to fetch test session", err)
	}
	if !session.IsProctored {
		return nil, util.PreconditionFailed("Session is not proctored")
	}
	return session, nil
}

func (s *ProctoringService) summarize(sessionID string) (*ViolationSummary, error) {
	violations, err := s.Violations.ListBySession(sessionID)
	if err != nil {
		return nil, util.Internal("failed to list violations", err)
	}
	remaining := util.MaxProctoringViolations - len(violations)
	if remaining < 0 {
		remaining = 0
	}
	return &ViolationSummary{
		SessionID:      sessionID,
		TotalCount:     len(violations),
		RemainingSlack: remaining,
		Violations:     violations,
	}, nil
}
