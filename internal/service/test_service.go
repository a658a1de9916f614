package service

import (
	"errors"
	"math"
	"math/rand"
	"strings"
	"time"

	"technicia_backend/internal/model"
	"technicia_backend/internal/repository"
	"technicia_backend/internal/util"

	"gorm.io/gorm"
)

// TestService owns the test-session lifecycle: question sampling, attempt
// limiting, answer grading, and score/verification aggregation at submission.
// All state lives in the store; the service itself is stateless per request.
type TestService struct {
	Sessions   *repository.SessionRepository
	Questions  *repository.QuestionRepository
	Answers    *repository.AnswerRepository
	Violations *repository.ViolationRepository
	Skills     *repository.SkillRepository
	Profiles   *repository.ProfileRepository
}

func NewTestService(
	sessions *repository.SessionRepository,
	questions *repository.QuestionRepository,
	answers *repository.AnswerRepository,
	violations *repository.ViolationRepository,
	skills *repository.SkillRepository,
	profiles *repository.ProfileRepository,
) *TestService {
	return &TestService{
		Sessions:   sessions,
		Questions:  questions,
		Answers:    answers,
		Violations: violations,
		Skills:     skills,
		Profiles:   profiles,
	}
}

type CreateSessionResult struct {
	SessionID       string `json:"sessionId"`
	TotalQuestions  int    `json:"totalQuestions"`
	DurationMinutes int    `json:"durationMinutes"`
	TotalScore      int    `json:"totalScore"`
	AttemptNumber   int    `json:"attemptNumber"`
}

// CreateSession draws a flat uniform sample of 30 questions from the skill's
// pool (no stratification by difficulty or type), fixes their order, and
// persists the session as NotStarted. Preconditions, in the order checked:
// caller is a student, the skill is claimed, a profile photo exists when
// proctoring is requested, fewer than 3 prior attempts, and a big enough pool.
func (s *TestService) CreateSession(claims *util.Claims, skillID string, isProctored bool) (*CreateSessionResult, error) {
	if claims.Role != model.Student {
		return nil, util.ErrStudentsOnly
	}

	if _, err := s.Skills.FindClaim(claims.UserID, skillID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSkillNotClaimed
		}
		return nil, util.Internal("failed to check skill claim", err)
	}

	if isProctored {
		profile, err := s.Profiles.FindStudent(claims.UserID)
		if err != nil || profile.ProfilePictureURL == "" {
			return nil, util.ErrPhotoRequired
		}
	}

	attempts, err := s.Sessions.CountAttempts(claims.UserID, skillID)
	if err != nil {
		return nil, util.Internal("failed to count attempts", err)
	}
	if attempts >= util.MaxAttemptsPerSkill {
		return nil, util.ErrAttemptCapReached
	}

	pool, err := s.Questions.FindBySkill(skillID)
	if err != nil {
		return nil, util.Internal("failed to fetch question pool", err)
	}
	if len(pool) < util.TotalQuestionsPerTest {
		return nil, util.ErrNotEnoughQuestions
	}

	sampled := sampleQuestions(pool, util.TotalQuestionsPerTest)

	totalScore := 0
	for _, q := range sampled {
		totalScore += q.Points
	}

	session := &model.TestSession{
		UserID:             claims.UserID,
		SkillID:            skillID,
		IsProctored:        isProctored,
		Status:             model.TestNotStarted,
		TotalQuestions:     util.TotalQuestionsPerTest,
		TotalScore:         totalScore,
		VerificationStatus: model.Unverified,
	}

	mappings := make([]model.SessionQuestion, len(sampled))
	for i, q := range sampled {
		mappings[i] = model.SessionQuestion{
			QuestionID:    q.ID,
			QuestionOrder: i + 1,
		}
	}

	if err := s.Sessions.CreateWithQuestions(session, mappings); err != nil {
		return nil, util.Internal("failed to create test session", err)
	}

	return &CreateSessionResult{
		SessionID:       session.ID,
		TotalQuestions:  util.TotalQuestionsPerTest,
		DurationMinutes: util.TestDurationMinutes,
		TotalScore:      totalScore,
		AttemptNumber:   int(attempts) + 1,
	}, nil
}

// sampleQuestions draws n questions uniformly at random without replacement,
// in shuffled order. The sampled order is the canonical presentation order.
func sampleQuestions(pool []model.Question, n int) []model.Question {
	perm := rand.Perm(len(pool))
	sampled := make([]model.Question, n)
	for i := 0; i < n; i++ {
		sampled[i] = pool[perm[i]]
	}
	return sampled
}

type StartSessionResult struct {
	SessionID       string    `json:"sessionId"`
	StartedAt       time.Time `json:"startedAt"`
	DurationMinutes int       `json:"durationMinutes"`
}

// StartSession transitions NotStarted -> InProgress and declares the time
// budget. The budget is advisory; the server enforces no deadline at
// submission time.
func (s *TestService) StartSession(claims *util.Claims, sessionID string) (*StartSessionResult, error) {
	session, err := s.findOwnedSession(sessionID, claims.UserID)
	if err != nil {
		return nil, err
	}

	if session.Status != model.TestNotStarted {
		return nil, util.ErrSessionNotStartable
	}

	startedAt := time.Now()
	ok, err := s.Sessions.Start(sessionID, startedAt)
	if err != nil {
		return nil, util.Internal("failed to start test session", err)
	}
	if !ok {
		// Lost the transition race to a concurrent start.
		return nil, util.ErrSessionNotStartable
	}

	return &StartSessionResult{
		SessionID:       sessionID,
		StartedAt:       startedAt,
		DurationMinutes: util.TestDurationMinutes,
	}, nil
}

// ListSessionQuestions returns the fixed question set in presentation order,
// with correct answers stripped. Ownership is the only gate; any status may
// re-fetch and must see the same set and order.
func (s *TestService) ListSessionQuestions(claims *util.Claims, sessionID string) ([]model.SanitizedQuestion, error) {
	if _, err := s.findOwnedSession(sessionID, claims.UserID); err != nil {
		return nil, err
	}

	rows, err := s.Sessions.ListQuestions(sessionID)
	if err != nil {
		return nil, util.Internal("failed to fetch session questions", err)
	}
	if len(rows) == 0 {
		return nil, util.NotFoundErr("No questions found for this session")
	}

	questions := make([]model.SanitizedQuestion, len(rows))
	for i, row := range rows {
		questions[i] = row.Question.Sanitized(row.QuestionOrder)
	}
	return questions, nil
}

type SubmitAnswerRequest struct {
	QuestionID       string `json:"questionId" binding:"required"`
	Answer           string `json:"answer"`
	TimeTakenSeconds int    `json:"timeTakenSeconds"`
}

type AnswerResult struct {
	QuestionID   string `json:"questionId"`
	IsCorrect    *bool  `json:"isCorrect"`
	PointsEarned int    `json:"pointsEarned"`
}

// SubmitAnswer grades and upserts the answer for one question. MCQ answers are
// compared by exact trimmed, case-sensitive string equality; Coding and
// ShortAnswer are never auto-graded (correctness nil, zero points pending
// review). Resubmitting before the session completes overwrites the prior row.
func (s *TestService) SubmitAnswer(claims *util.Claims, sessionID string, req SubmitAnswerRequest) (*AnswerResult, error) {
	session, err := s.findOwnedSession(sessionID, claims.UserID)
	if err != nil {
		return nil, err
	}

	if session.Status != model.TestInProgress {
		return nil, util.ErrSessionNotActive
	}

	member, err := s.Sessions.HasQuestion(sessionID, req.QuestionID)
	if err != nil {
		return nil, util.Internal("failed to check session membership", err)
	}
	if !member {
		return nil, util.NotFoundErr("Question is not part of this test session")
	}

	question, err := s.Questions.FindByID(req.QuestionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuestionNotFound
		}
		return nil, util.Internal("failed to fetch question", err)
	}

	var isCorrect *bool
	pointsEarned := 0
	if question.QuestionType == model.QuestionMCQ {
		correct := strings.TrimSpace(req.Answer) == strings.TrimSpace(question.CorrectAnswer)
		isCorrect = &correct
		if correct {
			pointsEarned = question.Points
		}
	}

	answer := &model.Answer{
		SessionID:        sessionID,
		QuestionID:       req.QuestionID,
		UserID:           claims.UserID,
		Answer:           req.Answer,
		IsCorrect:        isCorrect,
		PointsEarned:     pointsEarned,
		TimeTakenSeconds: req.TimeTakenSeconds,
		SubmittedAt:      time.Now(),
	}

	applied, err := s.Answers.UpsertForActive(answer)
	if err != nil {
		return nil, util.Internal("failed to save answer", err)
	}
	if !applied {
		// The session completed or was abandoned between the status check
		// above and the write.
		return nil, util.ErrSessionNotActive
	}

	return &AnswerResult{
		QuestionID:   req.QuestionID,
		IsCorrect:    isCorrect,
		PointsEarned: pointsEarned,
	}, nil
}

type TestResult struct {
	SessionID            string                   `json:"sessionId"`
	UserID               string                   `json:"userId"`
	SkillID              string                   `json:"skillId"`
	SkillName            string                   `json:"skillName"`
	TotalQuestions       int                      `json:"totalQuestions"`
	CorrectAnswers       int                      `json:"correctAnswers"`
	ObtainedScore        int                      `json:"obtainedScore"`
	TotalScore           int                      `json:"totalScore"`
	Percentage           float64                  `json:"percentage"`
	Status               model.TestStatus         `json:"status"`
	VerificationStatus   model.VerificationStatus `json:"verificationStatus"`
	StartedAt            *time.Time               `json:"startedAt"`
	CompletedAt          *time.Time               `json:"completedAt"`
	DurationMinutes      int                      `json:"durationMinutes"`
	ProctoringViolations int                      `json:"proctoringViolations"`
}

// SubmitTest finalizes the session: sums earned points, derives the
// percentage, decides verification (score threshold first, then the
// proctoring override: more than 5 violations on a proctored session fails it
// regardless of score), and marks the skill claim Verified on a pass.
//
// forceSubmit is accepted for client symmetry; timeout-triggered and manual
// submissions are handled identically.
func (s *TestService) SubmitTest(claims *util.Claims, sessionID string, forceSubmit bool) (*TestResult, error) {
	session, err := s.findOwnedSession(sessionID, claims.UserID)
	if err != nil {
		return nil, err
	}

	switch session.Status {
	case model.TestCompleted:
		return nil, util.ErrAlreadySubmitted
	case model.TestAbandoned:
		return nil, util.ErrSessionAbandoned
	}

	// Flip the status before reading answers. Once the transition commits no
	// further answer can land, so the score below covers the final set.
	completedAt := time.Now()
	ok, err := s.Sessions.Complete(session.ID, completedAt)
	if err != nil {
		return nil, util.Internal("failed to complete test session", err)
	}
	if !ok {
		// A concurrent submission or the reaper got there first.
		return nil, util.ErrAlreadySubmitted
	}

	answers, err := s.Answers.ListBySession(sessionID)
	if err != nil {
		return nil, util.Internal("failed to fetch answers", err)
	}

	obtainedScore := 0
	correctAnswers := 0
	for _, a := range answers {
		obtainedScore += a.PointsEarned
		if a.IsCorrect != nil && *a.IsCorrect {
			correctAnswers++
		}
	}

	percentage := 0.0
	if session.TotalScore > 0 {
		percentage = float64(obtainedScore) / float64(session.TotalScore) * 100
	}

	verificationStatus := model.Failed
	if percentage >= util.PassingPercentage {
		verificationStatus = model.Verified
	}

	violationCount, err := s.Violations.CountBySession(sessionID)
	if err != nil {
		return nil, util.Internal("failed to count violations", err)
	}

	// Proctoring override: too many violations fail the session no matter the
	// score.
	if session.IsProctored && violationCount > util.MaxProctoringViolations {
		verificationStatus = model.Failed
	}

	session.CompletedAt = &completedAt
	session.ObtainedScore = &obtainedScore
	session.Percentage = &percentage
	session.VerificationStatus = verificationStatus

	if err := s.Sessions.SaveResult(session); err != nil {
		return nil, util.Internal("failed to save test result", err)
	}

	if verificationStatus == model.Verified {
		if err := s.Skills.SetClaimVerification(claims.UserID, session.SkillID, model.Verified); err != nil {
			return nil, util.Internal("failed to update skill verification", err)
		}
	}

	session.Status = model.TestCompleted
	return s.buildResult(session, correctAnswers, int(violationCount)), nil
}

// GetResult returns the result snapshot of a Completed session.
func (s *TestService) GetResult(claims *util.Claims, sessionID string) (*TestResult, error) {
	session, err := s.findOwnedSession(sessionID, claims.UserID)
	if err != nil {
		return nil, err
	}

	if session.Status != model.TestCompleted {
		return nil, util.ErrNotYetCompleted
	}

	correct, err := s.Answers.CountCorrect(sessionID)
	if err != nil {
		return nil, util.Internal("failed to count correct answers", err)
	}

	violations, err := s.Violations.CountBySession(sessionID)
	if err != nil {
		return nil, util.Internal("failed to count violations", err)
	}

	return s.buildResult(session, int(correct), int(violations)), nil
}

// History lists the caller's completed sessions, newest first.
func (s *TestService) History(claims *util.Claims) ([]TestResult, error) {
	sessions, err := s.Sessions.ListByUser(claims.UserID)
	if err != nil {
		return nil, util.Internal("failed to fetch sessions", err)
	}

	results := make([]TestResult, 0, len(sessions))
	for i := range sessions {
		session := &sessions[i]
		if session.Status != model.TestCompleted {
			continue
		}

		correct, err := s.Answers.CountCorrect(session.ID)
		if err != nil {
			return nil, util.Internal("failed to count correct answers", err)
		}
		violations, err := s.Violations.CountBySession(session.ID)
		if err != nil {
			return nil, util.Internal("failed to count violations", err)
		}

		results = append(results, *s.buildResult(session, int(correct), int(violations)))
	}
	return results, nil
}

// AbandonExpired reaps InProgress sessions whose time budget plus grace has
// elapsed. Called from the background scheduler, never from a request path.
func (s *TestService) AbandonExpired() (int64, error) {
	cutoff := time.Now().Add(-time.Duration(util.TestDurationMinutes+util.AbandonGraceMinutes) * time.Minute)
	return s.Sessions.AbandonStale(cutoff)
}

func (s *TestService) findOwnedSession(sessionID, userID string) (*model.TestSession, error) {
	session, err := s.Sessions.FindByIDAndUser(sessionID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Not-owned reads as absent so session ids cannot be probed.
			return nil, util.ErrSessionNotFound
		}
		return nil, util.Internal("failed to fetch test session", err)
	}
	return session, nil
}

func (s *TestService) buildResult(session *model.TestSession, correctAnswers, violationCount int) *TestResult {
	skillName := "Unknown"
	if skill, err := s.Skills.FindByID(session.SkillID); err == nil {
		skillName = skill.Name
	}

	obtained := 0
	if session.ObtainedScore != nil {
		obtained = *session.ObtainedScore
	}
	percentage := 0.0
	if session.Percentage != nil {
		percentage = *session.Percentage
	}

	duration := 0
	if session.StartedAt != nil && session.CompletedAt != nil {
		duration = int(math.Floor(session.CompletedAt.Sub(*session.StartedAt).Minutes()))
	}

	return &TestResult{
		SessionID:            session.ID,
		UserID:               session.UserID,
		SkillID:              session.SkillID,
		SkillName:            skillName,
		TotalQuestions:       session.TotalQuestions,
		CorrectAnswers:       correctAnswers,
		ObtainedScore:        obtained,
		TotalScore:           session.TotalScore,
		Percentage:           math.Round(percentage*100) / 100,
		Status:               session.Status,
		VerificationStatus:   session.VerificationStatus,
		StartedAt:            session.StartedAt,
		CompletedAt:          session.CompletedAt,
		DurationMinutes:      duration,
		ProctoringViolations: violationCount,
	}
}
