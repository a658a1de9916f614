package repository

import (
	"technicia_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

// CreateWithProfile inserts the account and its role profile in one
// transaction. A failed profile insert must not strand a user row behind the
// email unique index, which would block the address from ever registering
// again. The profile is built via callback because its foreign key needs the
// generated user ID.
func (r *UserRepository) CreateWithProfile(user *model.User, profileFor func(userID string) interface{}) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		return tx.Create(profileFor(user.ID)).Error
	})
}

func (r *UserRepository) FindByID(id string) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, "id = ?", id).Error
	return &user, err
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("email = ?", email).First(&user).Error
	return &user, err
}

func (r *UserRepository) FindByIDs(ids []string) ([]model.User, error) {
	var users []model.User
	err := r.DB.Where("id IN ?", ids).Find(&users).Error
	return users, err
}

func (r *UserRepository) Update(user *model.User) error {
	return r.DB.Save(user).Error
}

func (r *UserRepository) UpdateLastLogin(userID string) error {
	return r.DB.Model(&model.User{}).
		Where("id = ?", userID).
		Update("last_login_at", time.Now()).
		Error
}

func (r *UserRepository) UpdateProfileCompletion(userID string, percentage int) error {
	return r.DB.Model(&model.User{}).
		Where("id = ?", userID).
		Update("profile_completion", percentage).
		Error
}
