package repository

import (
	"technicia_backend/internal/model"

	"gorm.io/gorm"
)

// ViolationRepository is the proctoring ledger: violations are appended and
// counted, never edited.
type ViolationRepository struct {
	DB *gorm.DB
}

func NewViolationRepository(db *gorm.DB) *ViolationRepository {
	return &ViolationRepository{DB: db}
}

func (r *ViolationRepository) Append(v *model.ViolationRecord) error {
	return r.DB.Create(v).Error
}

func (r *ViolationRepository) CountBySession(sessionID string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.ViolationRecord{}).
		Where("session_id = ?", sessionID).
		Count(&count).Error
	return count, err
}

func (r *ViolationRepository) ListBySession(sessionID string) ([]model.ViolationRecord, error) {
	var violations []model.ViolationRecord
	err := r.DB.Where("session_id = ?", sessionID).
		Order("occurred_at asc").
		Find(&violations).Error
	return violations, err
}

func (r *ViolationRepository) AppendFaceLog(log *model.FaceVerificationLog) error {
	return r.DB.Create(log).Error
}

func (r *ViolationRepository) ListFaceLogs(sessionID string) ([]model.FaceVerificationLog, error) {
	var logs []model.FaceVerificationLog
	err := r.DB.Where("session_id = ?", sessionID).Find(&logs).Error
	return logs, err
}
