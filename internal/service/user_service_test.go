package service

import (
	"encoding/json"
	"testing"

	"technicia_backend/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestProfileCompletionAccrual(t *testing.T) {
	p := &model.StudentProfile{FirstName: "Ada", LastName: "Lovelace"}
	assert.Equal(t, 25, ProfileCompletion(p), "registration alone is worth 25")

	p.PhoneNumber = "555-0100"
	p.Bio = "Aspiring engineer"
	assert.Equal(t, 40, ProfileCompletion(p))

	p.CurrentEducation = "Bachelors"
	assert.Equal(t, 55, ProfileCompletion(p))

	p.CareerGoals = "Backend engineering"
	assert.Equal(t, 65, ProfileCompletion(p))

	p.WorkExperience = json.RawMessage(`[{"company":"Acme"}]`)
	assert.Equal(t, 75, ProfileCompletion(p))

	p.ResumeURL = "/uploads/resumes/ada.pdf"
	assert.Equal(t, 90, ProfileCompletion(p))

	p.ProfilePictureURL = "/uploads/profile-pictures/ada.png"
	assert.Equal(t, 100, ProfileCompletion(p))
}

func TestProfileCompletionCapsAtHundred(t *testing.T) {
	p := &model.StudentProfile{
		FirstName:           "Ada",
		LastName:            "Lovelace",
		PhoneNumber:         "555-0100",
		Bio:                 "Bio",
		CurrentEducation:    "Masters",
		EducationHistory:    json.RawMessage(`[{}]`),
		CareerGoals:         "Goals",
		PreferredIndustries: json.RawMessage(`["Tech"]`),
		WorkExperience:      json.RawMessage(`[{}]`),
		ResumeURL:           "/r.pdf",
		ProfilePictureURL:   "/p.png",
	}
	assert.Equal(t, 100, ProfileCompletion(p))
}
