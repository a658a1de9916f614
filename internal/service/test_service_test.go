package service

import (
	"fmt"
	"testing"
	"time"

	"technicia_backend/internal/model"
	"technicia_backend/internal/repository"
	"technicia_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type engineFixture struct {
	db      *gorm.DB
	svc     *TestService
	skills  *repository.SkillRepository
	student *model.User
	skill   *model.Skill
}

func newEngineFixture(t *testing.T) *engineFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.StudentProfile{},
		&model.Skill{},
		&model.UserSkill{},
		&model.Question{},
		&model.TestSession{},
		&model.SessionQuestion{},
		&model.Answer{},
		&model.ViolationRecord{},
		&model.FaceVerificationLog{},
	))

	sessions := repository.NewSessionRepository(db)
	questions := repository.NewQuestionRepository(db)
	answers := repository.NewAnswerRepository(db)
	violations := repository.NewViolationRepository(db)
	skills := repository.NewSkillRepository(db)
	profiles := repository.NewProfileRepository(db)

	f := &engineFixture{
		db:     db,
		svc:    NewTestService(sessions, questions, answers, violations, skills, profiles),
		skills: skills,
	}

	f.student = &model.User{Email: "student@example.com", PasswordHash: "x", Role: model.Student}
	require.NoError(t, db.Create(f.student).Error)
	require.NoError(t, db.Create(&model.StudentProfile{
		StudentID: f.student.ID,
		FirstName: "Ada",
		LastName:  "Lovelace",
	}).Error)

	f.skill = &model.Skill{Name: "Python", Category: "Programming"}
	require.NoError(t, db.Create(f.skill).Error)

	return f
}

func (f *engineFixture) claims() *util.Claims {
	return &util.Claims{UserID: f.student.ID, Role: model.Student, Email: f.student.Email}
}

func (f *engineFixture) claimSkill(t *testing.T) {
	t.Helper()
	require.NoError(t, f.db.Create(&model.UserSkill{
		UserID:           f.student.ID,
		SkillID:          f.skill.ID,
		ProficiencyLevel: "Intermediate",
	}).Error)
}

// seedQuestions fills the bank with n one-point MCQs whose correct answer is
// always "A".
func (f *engineFixture) seedQuestions(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, f.db.Create(&model.Question{
			SkillID:         f.skill.ID,
			QuestionType:    model.QuestionMCQ,
			DifficultyLevel: model.DifficultyEasy,
			QuestionText:    fmt.Sprintf("Question %d", i+1),
			CorrectAnswer:   "A",
			Points:          1,
		}).Error)
	}
}

func (f *engineFixture) setPhoto(t *testing.T) {
	t.Helper()
	require.NoError(t, f.db.Model(&model.StudentProfile{}).
		Where("student_id = ?", f.student.ID).
		Update("profile_picture_url", "/uploads/profile-pictures/ada.png").Error)
}

// startedSession creates and starts a non-proctored session, returning its id
// and questions.
func (f *engineFixture) startedSession(t *testing.T) (string, []model.SanitizedQuestion) {
	t.Helper()
	created, err := f.svc.CreateSession(f.claims(), f.skill.ID, false)
	require.NoError(t, err)
	_, err = f.svc.StartSession(f.claims(), created.SessionID)
	require.NoError(t, err)
	questions, err := f.svc.ListSessionQuestions(f.claims(), created.SessionID)
	require.NoError(t, err)
	return created.SessionID, questions
}

func TestCreateSessionSamplesThirtyDistinctQuestions(t *testing.T) {
	f := newEngineFixture(t)
	f.claimSkill(t)
	f.seedQuestions(t, 50)

	result, err := f.svc.CreateSession(f.claims(), f.skill.ID, false)
	require.NoError(t, err)

	assert.Equal(t, 30, result.TotalQuestions)
	assert.Equal(t, 45, result.DurationMinutes)
	assert.Equal(t, 30, result.TotalScore)
	assert.Equal(t, 1, result.AttemptNumber)

	var mappings []model.SessionQuestion
	require.NoError(t, f.db.Where("session_id = ?", result.SessionID).Find(&mappings).Error)
	require.Len(t, mappings, 30)

	seen := make(map[string]bool)
	orders := make(map[int]bool)
	for _, m := range mappings {
		assert.False(t, seen[m.QuestionID], "question sampled twice")
		seen[m.QuestionID] = true
		orders[m.QuestionOrder] = true
	}
	for i := 1; i <= 30; i++ {
		assert.True(t, orders[i], "missing order %d", i)
	}
}

func TestCreateSessionRequiresStudentRole(t *testing.T) {
	f := newEngineFixture(t)

	_, err := f.svc.CreateSession(&util.Claims{UserID: f.student.ID, Role: model.Educator}, f.skill.ID, false)
	assert.ErrorIs(t, err, util.ErrStudentsOnly)
}

func TestCreateSessionRequiresClaimedSkill(t *testing.T) {
	f := newEngineFixture(t)
	f.seedQuestions(t, 30)

	_, err := f.svc.CreateSession(f.claims(), f.skill.ID, false)
	assert.ErrorIs(t, err, util.ErrSkillNotClaimed)
}

func TestCreateSessionProctoredRequiresPhoto(t *testing.T) {
	f := newEngineFixture(t)
	f.claimSkill(t)
	f.seedQuestions(t, 30)

	_, err := f.svc.CreateSession(f.claims(), f.skill.ID, true)
	assert.ErrorIs(t, err, util.ErrPhotoRequired)

	f.setPhoto(t)
	result, err := f.svc.CreateSession(f.claims(), f.skill.ID, true)
	require.NoError(t, err)
	assert.NotEmpty(t, result.SessionID)
}

func TestCreateSessionEnforcesAttemptCap(t *testing.T) {
	f := newEngineFixture(t)
	f.claimSkill(t)
	f.seedQuestions(t, 30)

	for i := 1; i <= 3; i++ {
		result, err := f.svc.CreateSession(f.claims(), f.skill.ID, false)
		require.NoError(t, err)
		assert.Equal(t, i, result.AttemptNumber)
	}

	_, err := f.svc.CreateSession(f.claims(), f.skill.ID, false)
	assert.ErrorIs(t, err, util.ErrAttemptCapReached)
}

func TestCreateSessionRequiresFullPool(t *testing.T) {
	f := newEngineFixture(t)
	f.claimSkill(t)
	f.seedQuestions(t, 29)

	_, err := f.svc.CreateSession(f.claims(), f.skill.ID, false)
	assert.ErrorIs(t, err, util.ErrNotEnoughQuestions)
}

func TestStartSessionTransitionsOnce(t *testing.T) {
	f := newEngineFixture(t)
	f.claimSkill(t)
	f.seedQuestions(t, 30)

	created, err := f.svc.CreateSession(f.claims(), f.skill.ID, false)
	require.NoError(t, err)

	started, err := f.svc.StartSession(f.claims(), created.SessionID)
	require.NoError(t, err)
	assert.Equal(t, 45, started.DurationMinutes)
	assert.False(t, started.StartedAt.IsZero())

	_, err = f.svc.StartSession(f.claims(), created.SessionID)
	assert.ErrorIs(t, err, util.ErrSessionNotStartable)
}

func TestQuestionsAreSanitizedAndStable(t *testing.T) {
	f := newEngineFixture(t)
	f.claimSkill(t)
	f.seedQuestions(t, 40)

	created, err := f.svc.CreateSession(f.claims(), f.skill.ID, false)
	require.NoError(t, err)

	first, err := f.svc.ListSessionQuestions(f.claims(), created.SessionID)
	require.NoError(t, err)
	require.Len(t, first, 30)

	for i, q := range first {
		assert.Equal(t, i+1, q.QuestionOrder)
		assert.NotEmpty(t, q.QuestionText)
	}

	// Re-fetch returns the same set in the same order.
	second, err := f.svc.ListSessionQuestions(f.claims(), created.SessionID)
	require.NoError(t, err)
	require.Len(t, second, 30)
	for i := range first {
		assert.Equal(t, first[i].QuestionID, second[i].QuestionID)
	}
}

func TestSubmitAnswerGradesMCQ(t *testing.T) {
	f := newEngineFixture(t)
	f.claimSkill(t)
	f.seedQuestions(t, 30)
	sessionID, questions := f.startedSession(t)

	// Whitespace is trimmed before comparison.
	result, err := f.svc.SubmitAnswer(f.claims(), sessionID, SubmitAnswerRequest{
		QuestionID: questions[0].QuestionID,
		Answer:     "  A  ",
	})
	require.NoError(t, err)
	require.NotNil(t, result.IsCorrect)
	assert.True(t, *result.IsCorrect)
	assert.Equal(t, 1, result.PointsEarned)

	// Comparison is case-sensitive.
	result, err = f.svc.SubmitAnswer(f.claims(), sessionID, SubmitAnswerRequest{
		QuestionID: questions[1].QuestionID,
		Answer:     "a",
	})
	require.NoError(t, err)
	require.NotNil(t, result.IsCorrect)
	assert.False(t, *result.IsCorrect)
	assert.Equal(t, 0, result.PointsEarned)
}

func TestSubmitAnswerLeavesManualTypesUngraded(t *testing.T) {
	f := newEngineFixture(t)
	f.claimSkill(t)
	f.seedQuestions(t, 30)

	sessionID, questions := f.startedSession(t)

	// Turn the first sampled question into a Coding question so membership is
	// guaranteed.
	require.NoError(t, f.db.Model(&model.Question{}).
		Where("id = ?", questions[0].QuestionID).
		Update("question_type", model.QuestionCoding).Error)

	result, err := f.svc.SubmitAnswer(f.claims(), sessionID, SubmitAnswerRequest{
		QuestionID: questions[0].QuestionID,
		Answer:     "func push() {}",
	})
	require.NoError(t, err)
	assert.Nil(t, result.IsCorrect)
	assert.Equal(t, 0, result.PointsEarned)
}

func TestSubmitAnswerRejectsQuestionOutsideSession(t *testing.T) {
	f := newEngineFixture(t)
	f.claimSkill(t)
	f.seedQuestions(t, 30)
	sessionID, _ := f.startedSession(t)

	outsider := &model.Question{
		SkillID:         f.skill.ID,
		QuestionType:    model.QuestionMCQ,
		DifficultyLevel: model.DifficultyEasy,
		QuestionText:    "Not sampled",
		CorrectAnswer:   "A",
		Points:          1,
	}
	require.NoError(t, f.db.Create(outsider).Error)

	_, err := f.svc.SubmitAnswer(f.claims(), sessionID, SubmitAnswerRequest{
		QuestionID: outsider.ID,
		Answer:     "A",
	})
	require.Error(t, err)
	assert.Equal(t, util.KindNotFound, util.KindOf(err))
}

func TestSubmitAnswerRequiresActiveSession(t *testing.T) {
	f := newEngineFixture(t)
	f.claimSkill(t)
	f.seedQuestions(t, 30)

	created, err := f.svc.CreateSession(f.claims(), f.skill.ID, false)
	require.NoError(t, err)

	_, err = f.svc.SubmitAnswer(f.claims(), created.SessionID, SubmitAnswerRequest{
		QuestionID: "whatever",
		Answer:     "A",
	})
	assert.ErrorIs(t, err, util.ErrSessionNotActive)
}

func TestSubmitAnswerResubmissionOverwrites(t *testing.T) {
	f := newEngineFixture(t)
	f.claimSkill(t)
	f.seedQuestions(t, 30)
	sessionID, questions := f.startedSession(t)

	_, err := f.svc.SubmitAnswer(f.claims(), sessionID, SubmitAnswerRequest{
		QuestionID: questions[0].QuestionID,
		Answer:     "B",
	})
	require.NoError(t, err)

	result, err := f.svc.SubmitAnswer(f.claims(), sessionID, SubmitAnswerRequest{
		QuestionID: questions[0].QuestionID,
		Answer:     "A",
	})
	require.NoError(t, err)
	assert.True(t, *result.IsCorrect)

	var count int64
	require.NoError(t, f.db.Model(&model.Answer{}).
		Where("session_id = ? AND question_id = ?", sessionID, questions[0].QuestionID).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var stored model.Answer
	require.NoError(t, f.db.Where("session_id = ? AND question_id = ?", sessionID, questions[0].QuestionID).
		First(&stored).Error)
	assert.Equal(t, "A", stored.Answer)
	assert.Equal(t, 1, stored.PointsEarned)
}

func answerN(t *testing.T, f *engineFixture, sessionID string, questions []model.SanitizedQuestion, correct int) {
	t.Helper()
	for i, q := range questions {
		answer := "A"
		if i >= correct {
			answer = "B"
		}
		_, err := f.svc.SubmitAnswer(f.claims(), sessionID, SubmitAnswerRequest{
			QuestionID: q.QuestionID,
			Answer:     answer,
		})
		require.NoError(t, err)
	}
}

func TestSubmitTestAtThresholdVerifies(t *testing.T) {
	f := newEngineFixture(t)
	f.claimSkill(t)
	f.seedQuestions(t, 30)
	sessionID, questions := f.startedSession(t)

	// 21 of 30 one-point questions is exactly 70%.
	answerN(t, f, sessionID, questions, 21)

	result, err := f.svc.SubmitTest(f.claims(), sessionID, false)
	require.NoError(t, err)

	assert.Equal(t, 21, result.ObtainedScore)
	assert.Equal(t, 30, result.TotalScore)
	assert.Equal(t, 21, result.CorrectAnswers)
	assert.InDelta(t, 70.0, result.Percentage, 0.001)
	assert.Equal(t, model.Verified, result.VerificationStatus)
	assert.Equal(t, model.TestCompleted, result.Status)
	assert.Equal(t, "Python", result.SkillName)

	claim, err := f.skills.FindClaim(f.student.ID, f.skill.ID)
	require.NoError(t, err)
	assert.Equal(t, model.Verified, claim.VerificationStatus)
}

func TestSubmitTestBelowThresholdFails(t *testing.T) {
	f := newEngineFixture(t)
	f.claimSkill(t)
	f.seedQuestions(t, 30)
	sessionID, questions := f.startedSession(t)

	answerN(t, f, sessionID, questions, 20)

	result, err := f.svc.SubmitTest(f.claims(), sessionID, false)
	require.NoError(t, err)

	assert.InDelta(t, 66.67, result.Percentage, 0.01)
	assert.Equal(t, model.Failed, result.VerificationStatus)

	claim, err := f.skills.FindClaim(f.student.ID, f.skill.ID)
	require.NoError(t, err)
	assert.Equal(t, model.Unverified, claim.VerificationStatus)
}

func TestSubmitTestViolationOverride(t *testing.T) {
	f := newEngineFixture(t)
	f.claimSkill(t)
	f.setPhoto(t)
	f.seedQuestions(t, 30)

	created, err := f.svc.CreateSession(f.claims(), f.skill.ID, true)
	require.NoError(t, err)
	_, err = f.svc.StartSession(f.claims(), created.SessionID)
	require.NoError(t, err)
	questions, err := f.svc.ListSessionQuestions(f.claims(), created.SessionID)
	require.NoError(t, err)

	answerN(t, f, created.SessionID, questions, 30)

	// 6 violations is past the allowed 5; a perfect score cannot save it.
	for i := 0; i < 6; i++ {
		require.NoError(t, f.db.Create(&model.ViolationRecord{
			SessionID:     created.SessionID,
			UserID:        f.student.ID,
			ViolationType: model.ViolationTabSwitch,
			Severity:      model.SeverityMedium,
			OccurredAt:    time.Now(),
		}).Error)
	}

	result, err := f.svc.SubmitTest(f.claims(), created.SessionID, false)
	require.NoError(t, err)

	assert.InDelta(t, 100.0, result.Percentage, 0.001)
	assert.Equal(t, model.Failed, result.VerificationStatus)
	assert.Equal(t, 6, result.ProctoringViolations)

	claim, err := f.skills.FindClaim(f.student.ID, f.skill.ID)
	require.NoError(t, err)
	assert.Equal(t, model.Unverified, claim.VerificationStatus)
}

func TestSubmitTestViolationsIgnoredWhenNotProctored(t *testing.T) {
	f := newEngineFixture(t)
	f.claimSkill(t)
	f.seedQuestions(t, 30)
	sessionID, questions := f.startedSession(t)

	answerN(t, f, sessionID, questions, 30)

	for i := 0; i < 10; i++ {
		require.NoError(t, f.db.Create(&model.ViolationRecord{
			SessionID:     sessionID,
			UserID:        f.student.ID,
			ViolationType: model.ViolationTabSwitch,
			Severity:      model.SeverityLow,
			OccurredAt:    time.Now(),
		}).Error)
	}

	result, err := f.svc.SubmitTest(f.claims(), sessionID, false)
	require.NoError(t, err)
	assert.Equal(t, model.Verified, result.VerificationStatus)
}

func TestSubmitTestOnlyOnce(t *testing.T) {
	f := newEngineFixture(t)
	f.claimSkill(t)
	f.seedQuestions(t, 30)
	sessionID, questions := f.startedSession(t)

	answerN(t, f, sessionID, questions, 25)

	_, err := f.svc.SubmitTest(f.claims(), sessionID, false)
	require.NoError(t, err)

	_, err = f.svc.SubmitTest(f.claims(), sessionID, false)
	assert.ErrorIs(t, err, util.ErrAlreadySubmitted)
}

func TestLateAnswerCannotLandAfterCompletion(t *testing.T) {
	f := newEngineFixture(t)
	f.claimSkill(t)
	f.seedQuestions(t, 30)
	sessionID, questions := f.startedSession(t)

	// Answer 20 of 30 and leave the rest untouched.
	for _, q := range questions[:20] {
		_, err := f.svc.SubmitAnswer(f.claims(), sessionID, SubmitAnswerRequest{
			QuestionID: q.QuestionID,
			Answer:     "A",
		})
		require.NoError(t, err)
	}

	result, err := f.svc.SubmitTest(f.claims(), sessionID, false)
	require.NoError(t, err)
	require.Equal(t, 20, result.ObtainedScore)

	// An answer that passed the service status check before the completion
	// committed reaches the repository last. Its guarded write must bounce off
	// the flipped status instead of mutating a finished session.
	applied, err := f.svc.Answers.UpsertForActive(&model.Answer{
		SessionID:   sessionID,
		QuestionID:  questions[25].QuestionID,
		UserID:      f.student.ID,
		Answer:      "A",
		SubmittedAt: time.Now(),
	})
	require.NoError(t, err)
	assert.False(t, applied)

	var count int64
	require.NoError(t, f.db.Model(&model.Answer{}).
		Where("session_id = ? AND question_id = ?", sessionID, questions[25].QuestionID).
		Count(&count).Error)
	assert.Zero(t, count)

	fetched, err := f.svc.GetResult(f.claims(), sessionID)
	require.NoError(t, err)
	assert.Equal(t, 20, fetched.ObtainedScore)
}

func TestSubmitTestRejectsAbandonedSession(t *testing.T) {
	f := newEngineFixture(t)
	f.claimSkill(t)
	f.seedQuestions(t, 30)
	sessionID, questions := f.startedSession(t)

	answerN(t, f, sessionID, questions, 30)

	stale := time.Now().Add(-2 * time.Hour)
	require.NoError(t, f.db.Model(&model.TestSession{}).
		Where("id = ?", sessionID).
		Update("started_at", stale).Error)
	_, err := f.svc.AbandonExpired()
	require.NoError(t, err)

	_, err = f.svc.SubmitTest(f.claims(), sessionID, false)
	assert.ErrorIs(t, err, util.ErrSessionAbandoned)

	// Abandoned is terminal; the session never reaches Completed.
	var session model.TestSession
	require.NoError(t, f.db.First(&session, "id = ?", sessionID).Error)
	assert.Equal(t, model.TestAbandoned, session.Status)
	assert.Nil(t, session.CompletedAt)
}

func TestGetResultRequiresCompletion(t *testing.T) {
	f := newEngineFixture(t)
	f.claimSkill(t)
	f.seedQuestions(t, 30)
	sessionID, _ := f.startedSession(t)

	_, err := f.svc.GetResult(f.claims(), sessionID)
	assert.ErrorIs(t, err, util.ErrNotYetCompleted)
}

func TestGetResultMatchesSubmission(t *testing.T) {
	f := newEngineFixture(t)
	f.claimSkill(t)
	f.seedQuestions(t, 30)
	sessionID, questions := f.startedSession(t)

	answerN(t, f, sessionID, questions, 24)

	submitted, err := f.svc.SubmitTest(f.claims(), sessionID, false)
	require.NoError(t, err)

	fetched, err := f.svc.GetResult(f.claims(), sessionID)
	require.NoError(t, err)

	assert.Equal(t, submitted.ObtainedScore, fetched.ObtainedScore)
	assert.Equal(t, submitted.Percentage, fetched.Percentage)
	assert.Equal(t, submitted.VerificationStatus, fetched.VerificationStatus)
	assert.Equal(t, submitted.CorrectAnswers, fetched.CorrectAnswers)
}

func TestSessionOwnershipReadsAsNotFound(t *testing.T) {
	f := newEngineFixture(t)
	f.claimSkill(t)
	f.seedQuestions(t, 30)
	sessionID, _ := f.startedSession(t)

	other := &util.Claims{UserID: "someone-else", Role: model.Student}

	_, err := f.svc.StartSession(other, sessionID)
	assert.ErrorIs(t, err, util.ErrSessionNotFound)

	_, err = f.svc.ListSessionQuestions(other, sessionID)
	assert.ErrorIs(t, err, util.ErrSessionNotFound)

	_, err = f.svc.SubmitTest(other, sessionID, false)
	assert.ErrorIs(t, err, util.ErrSessionNotFound)
}

func TestHistoryListsOnlyCompleted(t *testing.T) {
	f := newEngineFixture(t)
	f.claimSkill(t)
	f.seedQuestions(t, 30)

	sessionID, questions := f.startedSession(t)
	answerN(t, f, sessionID, questions, 22)
	_, err := f.svc.SubmitTest(f.claims(), sessionID, false)
	require.NoError(t, err)

	// A second, unfinished attempt must not appear.
	_, err = f.svc.CreateSession(f.claims(), f.skill.ID, false)
	require.NoError(t, err)

	history, err := f.svc.History(f.claims())
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, sessionID, history[0].SessionID)
}

func TestAbandonExpiredReapsStaleSessions(t *testing.T) {
	f := newEngineFixture(t)
	f.claimSkill(t)
	f.seedQuestions(t, 30)
	sessionID, _ := f.startedSession(t)

	stale := time.Now().Add(-2 * time.Hour)
	require.NoError(t, f.db.Model(&model.TestSession{}).
		Where("id = ?", sessionID).
		Update("started_at", stale).Error)

	reaped, err := f.svc.AbandonExpired()
	require.NoError(t, err)
	assert.Equal(t, int64(1), reaped)

	var session model.TestSession
	require.NoError(t, f.db.First(&session, "id = ?", sessionID).Error)
	assert.Equal(t, model.TestAbandoned, session.Status)

	// Abandoned sessions still count toward the attempt cap.
	for i := 0; i < 2; i++ {
		_, err := f.svc.CreateSession(f.claims(), f.skill.ID, false)
		require.NoError(t, err)
	}
	_, err = f.svc.CreateSession(f.claims(), f.skill.ID, false)
	assert.ErrorIs(t, err, util.ErrAttemptCapReached)
}
