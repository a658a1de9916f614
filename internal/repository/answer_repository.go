package repository

import (
	"time"

	"technicia_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AnswerRepository struct {
	DB *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) *AnswerRepository {
	return &AnswerRepository{DB: db}
}

// UpsertForActive keeps at most one row per (session, question); resubmission
// replaces value, correctness, points and timing with the latest. The write
// only lands while the session is still In_Progress: a guarded touch on the
// session row takes its lock and checks the status in one statement, so an
// answer racing a concurrent completion either commits before the status
// flips (and gets scored) or returns false. Never write answers through any
// other path.
func (r *AnswerRepository) UpsertForActive(answer *model.Answer) (bool, error) {
	applied := false
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.TestSession{}).
			Where("id = ? AND status = ?", answer.SessionID, model.TestInProgress).
			Update("updated_at", time.Now())
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		applied = true
		return tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "session_id"}, {Name: "question_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"answer", "is_correct", "points_earned", "time_taken_seconds", "submitted_at", "updated_at",
			}),
		}).Create(answer).Error
	})
	return applied, err
}

func (r *AnswerRepository) ListBySession(sessionID string) ([]model.Answer, error) {
	var answers []model.Answer
	err := r.DB.Where("session_id = ?", sessionID).Find(&answers).Error
	return answers, err
}

func (r *AnswerRepository) CountCorrect(sessionID string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Answer{}).
		Where("session_id = ? AND is_correct = ?", sessionID, true).
		Count(&count).Error
	return count, err
}
