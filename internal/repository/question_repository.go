package repository

import (
	"technicia_backend/internal/model"

	"gorm.io/gorm"
)

// QuestionRepository reads the question bank. The bank is populated by import
// tooling; nothing here writes to it.
type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

func (r *QuestionRepository) FindBySkill(skillID string) ([]model.Question, error) {
	var questions []model.Question
	err := r.DB.Where("skill_id = ?", skillID).Find(&questions).Error
	return questions, err
}

func (r *QuestionRepository) CountBySkill(skillID string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Question{}).Where("skill_id = ?", skillID).Count(&count).Error
	return count, err
}

func (r *QuestionRepository) FindByID(id string) (*model.Question, error) {
	var question model.Question
	err := r.DB.First(&question, "id = ?", id).Error
	return &question, err
}
