package service

import (
	"errors"
	"time"

	"technicia_backend/internal/config"
	"technicia_backend/internal/model"
	"technicia_backend/internal/repository"
	"technicia_backend/internal/util"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	Users  *repository.UserRepository
	Config *config.Config
}

func NewAuthService(users *repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{Users: users, Config: cfg}
}

type RegisterStudentRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
	Phone     string `json:"phone"`
}

type RegisterEducatorRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	FirstName   string `json:"firstName" binding:"required"`
	LastName    string `json:"lastName" binding:"required"`
	Institution string `json:"institution" binding:"required"`
	Designation string `json:"designation"`
}

type RegisterCompanyRequest struct {
	Email                string `json:"email" binding:"required,email"`
	Password             string `json:"password" binding:"required,min=8"`
	CompanyName          string `json:"companyName" binding:"required"`
	Industry             string `json:"industry"`
	RecruiterContactName string `json:"recruiterContactName"`
}

type AuthResult struct {
	Token     string         `json:"token"`
	UserID    string         `json:"userId"`
	Email     string         `json:"email"`
	Role      model.UserRole `json:"role"`
	ExpiresAt time.Time      `json:"expiresAt"`
}

// RegisterStudent creates the account and its empty student profile in one
// transaction, then issues a token so the client lands signed in. Atomicity
// matters here: a user row surviving a failed profile insert would
// permanently block the email from registering again.
func (s *AuthService) RegisterStudent(req RegisterStudentRequest) (*AuthResult, error) {
	user, err := s.newUser(req.Email, req.Password, model.Student)
	if err != nil {
		return nil, err
	}

	err = s.Users.CreateWithProfile(user, func(userID string) interface{} {
		return &model.StudentProfile{
			StudentID:   userID,
			FirstName:   req.FirstName,
			LastName:    req.LastName,
			PhoneNumber: req.Phone,
		}
	})
	if err != nil {
		return nil, util.Internal("failed to create student account", err)
	}

	return s.issueToken(user)
}

func (s *AuthService) RegisterEducator(req RegisterEducatorRequest) (*AuthResult, error) {
	user, err := s.newUser(req.Email, req.Password, model.Educator)
	if err != nil {
		return nil, err
	}

	err = s.Users.CreateWithProfile(user, func(userID string) interface{} {
		return &model.EducatorProfile{
			EducatorID:  userID,
			FirstName:   req.FirstName,
			LastName:    req.LastName,
			Institution: req.Institution,
			Designation: req.Designation,
		}
	})
	if err != nil {
		return nil, util.Internal("failed to create educator account", err)
	}

	return s.issueToken(user)
}

func (s *AuthService) RegisterCompany(req RegisterCompanyRequest) (*AuthResult, error) {
	user, err := s.newUser(req.Email, req.Password, model.Company)
	if err != nil {
		return nil, err
	}

	err = s.Users.CreateWithProfile(user, func(userID string) interface{} {
		return &model.CompanyProfile{
			CompanyID:            userID,
			CompanyName:          req.CompanyName,
			Industry:             req.Industry,
			RecruiterContactName: req.RecruiterContactName,
		}
	})
	if err != nil {
		return nil, util.Internal("failed to create company account", err)
	}

	return s.issueToken(user)
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login verifies credentials and records the login time. Unknown email and
// wrong password return the same error so accounts cannot be enumerated.
func (s *AuthService) Login(req LoginRequest) (*AuthResult, error) {
	user, err := s.Users.FindByEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrInvalidCredentials
		}
		return nil, util.Internal("failed to fetch user", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, util.ErrInvalidCredentials
	}

	if err := s.Users.UpdateLastLogin(user.ID); err != nil {
		return nil, util.Internal("failed to record login", err)
	}

	return s.issueToken(user)
}

// newUser validates the email is free and hashes the password. It does not
// persist anything; the caller inserts the user together with its profile.
func (s *AuthService) newUser(email, password string, role model.UserRole) (*model.User, error) {
	if _, err := s.Users.FindByEmail(email); err == nil {
		return nil, util.ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.Internal("failed to check email", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, util.Internal("failed to hash password", err)
	}

	return &model.User{
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}, nil
}

func (s *AuthService) issueToken(user *model.User) (*AuthResult, error) {
	token, err := util.GenerateJWT(user, s.Config.JWT.Secret, s.Config.JWT.ExpireTime)
	if err != nil {
		return nil, util.Internal("failed to generate token", err)
	}
	return &AuthResult{
		Token:     token,
		UserID:    user.ID,
		Email:     user.Email,
		Role:      user.Role,
		ExpiresAt: time.Now().Add(s.Config.JWT.ExpireTime),
	}, nil
}
