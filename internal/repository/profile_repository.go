package repository

import (
	"technicia_backend/internal/model"

	"gorm.io/gorm"
)

type ProfileRepository struct {
	DB *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{DB: db}
}

func (r *ProfileRepository) CreateStudent(profile *model.StudentProfile) error {
	return r.DB.Create(profile).Error
}

func (r *ProfileRepository) FindStudent(studentID string) (*model.StudentProfile, error) {
	var profile model.StudentProfile
	err := r.DB.Where("student_id = ?", studentID).First(&profile).Error
	return &profile, err
}

func (r *ProfileRepository) FindStudents(studentIDs []string) ([]model.StudentProfile, error) {
	var profiles []model.StudentProfile
	err := r.DB.Where("student_id IN ?", studentIDs).Find(&profiles).Error
	return profiles, err
}

func (r *ProfileRepository) UpdateStudent(profile *model.StudentProfile) error {
	return r.DB.Save(profile).Error
}

func (r *ProfileRepository) CreateEducator(profile *model.EducatorProfile) error {
	return r.DB.Create(profile).Error
}

func (r *ProfileRepository) FindEducator(educatorID string) (*model.EducatorProfile, error) {
	var profile model.EducatorProfile
	err := r.DB.Where("educator_id = ?", educatorID).First(&profile).Error
	return &profile, err
}

func (r *ProfileRepository) CreateCompany(profile *model.CompanyProfile) error {
	return r.DB.Create(profile).Error
}

func (r *ProfileRepository) FindCompany(companyID string) (*model.CompanyProfile, error) {
	var profile model.CompanyProfile
	err := r.DB.Where("company_id = ?", companyID).First(&profile).Error
	return &profile, err
}

// SetPictureURL writes the uploaded picture URL on whichever profile table
// matches the user's role.
func (r *ProfileRepository) SetPictureURL(role model.UserRole, userID, url string) error {
	switch role {
	case model.Student:
		return r.DB.Model(&model.StudentProfile{}).
			Where("student_id = ?", userID).
			Update("profile_picture_url", url).Error
	case model.Educator:
		return r.DB.Model(&model.EducatorProfile{}).
			Where("educator_id = ?", userID).
			Update("profile_picture_url", url).Error
	case model.Company:
		return r.DB.Model(&model.CompanyProfile{}).
			Where("company_id = ?", userID).
			Update("profile_picture_url", url).Error
	}
	return nil
}
