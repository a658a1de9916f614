package repository

import (
	"time"

	"technicia_backend/internal/model"

	"gorm.io/gorm"
)

type SessionRepository struct {
	DB *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{DB: db}
}

// CreateWithQuestions persists the session and its ordered question mapping in
// one transaction, so a mapping failure cannot leave an orphaned session behind.
func (r *SessionRepository) CreateWithQuestions(session *model.TestSession, questions []model.SessionQuestion) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(session).Error; err != nil {
			return err
		}
		for i := range questions {
			questions[i].SessionID = session.ID
		}
		return tx.Create(&questions).Error
	})
}

// FindByIDAndUser scopes the lookup to the owning user; a session that exists
// but belongs to someone else behaves as if absent.
func (r *SessionRepository) FindByIDAndUser(sessionID, userID string) (*model.TestSession, error) {
	var session model.TestSession
	err := r.DB.Where("id = ? AND user_id = ?", sessionID, userID).First(&session).Error
	return &session, err
}

// CountAttempts counts a user's sessions for a skill regardless of status.
func (r *SessionRepository) CountAttempts(userID, skillID string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.TestSession{}).
		Where("user_id = ? AND skill_id = ?", userID, skillID).
		Count(&count).Error
	return count, err
}

// Start flips NotStarted to InProgress. The status predicate in the WHERE
// clause makes the transition race-safe: a second concurrent start sees zero
// rows affected.
func (r *SessionRepository) Start(sessionID string, startedAt time.Time) (bool, error) {
	res := r.DB.Model(&model.TestSession{}).
		Where("id = ? AND status = ?", sessionID, model.TestNotStarted).
		Updates(map[string]interface{}{
			"status":     model.TestInProgress,
			"started_at": startedAt,
		})
	return res.RowsAffected > 0, res.Error
}

// Complete flips the session to Completed, guarded on it still being open.
// Returns false when a concurrent submission or the reaper won the race. The
// transition is deliberately separate from the score write: once it commits,
// AnswerRepository.UpsertForActive rejects further answers, so the caller's
// score read afterwards sees the final answer set.
func (r *SessionRepository) Complete(sessionID string, completedAt time.Time) (bool, error) {
	open := []model.TestStatus{model.TestNotStarted, model.TestInProgress}
	res := r.DB.Model(&model.TestSession{}).
		Where("id = ? AND status IN ?", sessionID, open).
		Updates(map[string]interface{}{
			"status":       model.TestCompleted,
			"completed_at": completedAt,
		})
	return res.RowsAffected > 0, res.Error
}

// SaveResult writes the computed score fields of a completed session.
func (r *SessionRepository) SaveResult(session *model.TestSession) error {
	return r.DB.Model(&model.TestSession{}).
		Where("id = ?", session.ID).
		Updates(map[string]interface{}{
			"obtained_score":      session.ObtainedScore,
			"percentage":          session.Percentage,
			"verification_status": session.VerificationStatus,
		}).Error
}

// SessionQuestionRow is a session slot joined with its bank question.
type SessionQuestionRow struct {
	model.Question
	QuestionOrder int
}

func (r *SessionRepository) ListQuestions(sessionID string) ([]SessionQuestionRow, error) {
	var rows []SessionQuestionRow
	err := r.DB.Table("session_questions sq").
		Select("q.*, sq.question_order").
		Joins("JOIN test_questions q ON q.id = sq.question_id").
		Where("sq.session_id = ?", sessionID).
		Order("sq.question_order asc").
		Scan(&rows).Error
	return rows, err
}

// HasQuestion reports whether the question was sampled into the session.
func (r *SessionRepository) HasQuestion(sessionID, questionID string) (bool, error) {
	var count int64
	err := r.DB.Model(&model.SessionQuestion{}).
		Where("session_id = ? AND question_id = ?", sessionID, questionID).
		Count(&count).Error
	return count > 0, err
}

func (r *SessionRepository) ListByUser(userID string) ([]model.TestSession, error) {
	var sessions []model.TestSession
	err := r.DB.Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&sessions).Error
	return sessions, err
}

// ListCompletedBySkill feeds the leaderboard.
func (r *SessionRepository) ListCompletedBySkill(skillID string) ([]model.TestSession, error) {
	var sessions []model.TestSession
	err := r.DB.Where("skill_id = ? AND status = ?", skillID, model.TestCompleted).
		Find(&sessions).Error
	return sessions, err
}

func (r *SessionRepository) ListCompleted() ([]model.TestSession, error) {
	var sessions []model.TestSession
	err := r.DB.Where("status = ?", model.TestCompleted).Find(&sessions).Error
	return sessions, err
}

// AbandonStale ages out InProgress sessions whose deadline (start + budget +
// grace) has passed. Returns how many were reaped.
func (r *SessionRepository) AbandonStale(cutoff time.Time) (int64, error) {
	res := r.DB.Model(&model.TestSession{}).
		Where("status = ? AND started_at < ?", model.TestInProgress, cutoff).
		Update("status", model.TestAbandoned)
	return res.RowsAffected, res.Error
}
