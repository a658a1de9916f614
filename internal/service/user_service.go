package service

import (
	"encoding/json"
	"errors"
	"mime/multipart"

	"technicia_backend/internal/model"
	"technicia_backend/internal/repository"
	"technicia_backend/internal/util"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type UserService struct {
	Users    *repository.UserRepository
	Profiles *repository.ProfileRepository
	Storage  *StorageService
}

func NewUserService(users *repository.UserRepository, profiles *repository.ProfileRepository, storage *StorageService) *UserService {
	return &UserService{Users: users, Profiles: profiles, Storage: storage}
}

func (s *UserService) GetMe(userID string) (*model.User, error) {
	user, err := s.Users.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFoundErr("User not found")
		}
		return nil, util.Internal("failed to fetch user", err)
	}
	return user, nil
}

func (s *UserService) GetStudentProfile(userID string) (*model.StudentProfile, error) {
	profile, err := s.Profiles.FindStudent(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NotFoundErr("Student profile not found")
		}
		return nil, util.Internal("failed to fetch profile", err)
	}
	return profile, nil
}

type UpdateStudentProfileRequest struct {
	FirstName           string          `json:"firstName"`
	LastName            string          `json:"lastName"`
	Gender              string          `json:"gender"`
	PhoneNumber         string          `json:"phoneNumber"`
	Bio                 string          `json:"bio"`
	CurrentEducation    string          `json:"currentEducationLevel"`
	CareerGoals         string          `json:"careerGoals"`
	Address             json.RawMessage `json:"address"`
	PreferredIndustries json.RawMessage `json:"preferredIndustries"`
	EducationHistory    json.RawMessage `json:"educationHistory"`
	WorkExperience      json.RawMessage `json:"workExperience"`
	LinkedinProfile     string          `json:"linkedinProfile"`
	GithubProfile       string          `json:"githubProfile"`
	PortfolioURL        string          `json:"portfolioUrl"`
}

// UpdateStudentProfile applies the patch and recomputes the completion
// percentage stored on the account.
func (s *UserService) UpdateStudentProfile(userID string, req UpdateStudentProfileRequest) (*model.StudentProfile, error) {
	profile, err := s.GetStudentProfile(userID)
	if err != nil {
		return nil, err
	}

	applyIfSet := func(dst *string, src string) {
		if src != "" {
			*dst = src
		}
	}
	applyIfSet(&profile.FirstName, req.FirstName)
	applyIfSet(&profile.LastName, req.LastName)
	applyIfSet(&profile.Gender, req.Gender)
	applyIfSet(&profile.PhoneNumber, req.PhoneNumber)
	applyIfSet(&profile.Bio, req.Bio)
	applyIfSet(&profile.CurrentEducation, req.CurrentEducation)
	applyIfSet(&profile.CareerGoals, req.CareerGoals)
	applyIfSet(&profile.LinkedinProfile, req.LinkedinProfile)
	applyIfSet(&profile.GithubProfile, req.GithubProfile)
	applyIfSet(&profile.PortfolioURL, req.PortfolioURL)
	if req.Address != nil {
		profile.Address = req.Address
	}
	if req.PreferredIndustries != nil {
		profile.PreferredIndustries = req.PreferredIndustries
	}
	if req.EducationHistory != nil {
		profile.EducationHistory = req.EducationHistory
	}
	if req.WorkExperience != nil {
		profile.WorkExperience = req.WorkExperience
	}

	if err := s.Profiles.UpdateStudent(profile); err != nil {
		return nil, util.Internal("failed to update profile", err)
	}

	completion := ProfileCompletion(profile)
	if err := s.Users.UpdateProfileCompletion(userID, completion); err != nil {
		return nil, util.Internal("failed to update profile completion", err)
	}

	return profile, nil
}

// ProfileCompletion scores a student profile out of 100. Registration alone is
// worth 25; the rest accrues per filled section.
func ProfileCompletion(p *model.StudentProfile) int {
	completion := 25

	if p.PhoneNumber != "" && p.Bio != "" {
		completion += 15
	}
	if p.CurrentEducation != "" || len(p.EducationHistory) > 0 {
		completion += 15
	}
	if p.CareerGoals != "" || len(p.PreferredIndustries) > 0 {
		completion += 10
	}
	if len(p.WorkExperience) > 0 {
		completion += 10
	}
	if p.ResumeURL != "" {
		completion += 15
	}
	if p.ProfilePictureURL != "" {
		completion += 10
	}

	if completion > 100 {
		completion = 100
	}
	return completion
}

// UploadProfilePicture stores the image and records its URL on the caller's
// profile. The stored photo is also the reference image for proctored tests.
func (s *UserService) UploadProfilePicture(claims *util.Claims, file *multipart.FileHeader) (string, error) {
	if file.Size > util.MaxProfilePictureBytes {
		return "", util.PreconditionFailed("Image exceeds the maximum allowed size")
	}

	url, err := s.Storage.SaveUpload(file, "profile-pictures")
	if err != nil {
		return "", util.Internal("failed to store image", err)
	}

	if err := s.Profiles.SetPictureURL(claims.Role, claims.UserID, url); err != nil {
		return "", util.Internal("failed to record picture URL", err)
	}

	if claims.Role == model.Student {
		// Completion is derived state, recomputed on every profile write; a
		// failed refresh must not undo a stored picture.
		if profile, err := s.Profiles.FindStudent(claims.UserID); err == nil {
			if err := s.Users.UpdateProfileCompletion(claims.UserID, ProfileCompletion(profile)); err != nil {
				zap.L().Warn("failed to refresh profile completion", zap.String("user_id", claims.UserID), zap.Error(err))
			}
		}
	}

	return url, nil
}
