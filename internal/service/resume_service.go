package service

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"technicia_backend/internal/model"
	"technicia_backend/internal/repository"
	"technicia_backend/internal/util"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

// ResumeService runs the upload -> extract -> AI-parse -> skill-suggestion
// pipeline for student resumes.
type ResumeService struct {
	Profiles *repository.ProfileRepository
	Users    *repository.UserRepository
	Skills   *repository.SkillRepository
	Storage  *StorageService
	AI       *AIService
}

func NewResumeService(profiles *repository.ProfileRepository, users *repository.UserRepository, skills *repository.SkillRepository, storage *StorageService, ai *AIService) *ResumeService {
	return &ResumeService{Profiles: profiles, Users: users, Skills: skills, Storage: storage, AI: ai}
}

type ResumeUploadResult struct {
	ResumeURL       string        `json:"resumeUrl"`
	Parsed          *ParsedResume `json:"parsed,omitempty"`
	SuggestedSkills []model.Skill `json:"suggestedSkills"`
	ParseError      string        `json:"parseError,omitempty"`
}

// UploadResume stores the file, extracts its text, and asks the AI endpoint
// for a structured read. Storage always succeeds or fails the whole call;
// extraction and parsing failures degrade to an uploaded-but-unparsed resume.
func (s *ResumeService) UploadResume(ctx context.Context, claims *util.Claims, file *multipart.FileHeader) (*ResumeUploadResult, error) {
	if claims.Role != model.Student {
		return nil, util.ErrStudentsOnly
	}
	if file.Size > util.MaxResumeBytes {
		return nil, util.PreconditionFailed("Resume exceeds the maximum allowed size")
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedResumeExt(ext) {
		return nil, util.PreconditionFailed("Unsupported resume format; use PDF, DOCX, or TXT")
	}

	src, err := file.Open()
	if err != nil {
		return nil, util.Internal("failed to open upload", err)
	}
	data, err := io.ReadAll(src)
	src.Close()
	if err != nil {
		return nil, util.Internal("failed to read upload", err)
	}

	url, err := s.Storage.SaveUpload(file, "resumes")
	if err != nil {
		return nil, util.Internal("failed to store resume", err)
	}

	profile, err := s.Profiles.FindStudent(claims.UserID)
	if err != nil {
		return nil, util.NotFoundErr("Student profile not found")
	}
	profile.ResumeURL = url
	if err := s.Profiles.UpdateStudent(profile); err != nil {
		return nil, util.Internal("failed to record resume URL", err)
	}
	// Completion is derived state, recomputed on every profile write; a failed
	// refresh must not undo a stored resume.
	if err := s.Users.UpdateProfileCompletion(claims.UserID, ProfileCompletion(profile)); err != nil {
		zap.L().Warn("failed to refresh profile completion", zap.String("user_id", claims.UserID), zap.Error(err))
	}

	result := &ResumeUploadResult{ResumeURL: url, SuggestedSkills: []model.Skill{}}

	text, err := ExtractText(data, ext)
	if err != nil {
		zap.L().Warn("resume text extraction failed", zap.String("user_id", claims.UserID), zap.Error(err))
		result.ParseError = "Could not extract text from the resume"
		return result, nil
	}

	parsed, err := s.AI.ParseResume(ctx, text)
	if err != nil {
		zap.L().Warn("resume AI parsing failed", zap.String("user_id", claims.UserID), zap.Error(err))
		result.ParseError = "Could not parse the resume"
		return result, nil
	}

	result.Parsed = parsed
	result.SuggestedSkills = s.matchSkills(parsed.Skills)
	return result, nil
}

// matchSkills maps free-text skill names from the resume onto the master
// list. Unknown skills are dropped; students claim only curated skills.
func (s *ResumeService) matchSkills(names []string) []model.Skill {
	matched := make([]model.Skill, 0, len(names))
	seen := make(map[string]bool)
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		skill, err := s.Skills.FindByNameLike(name)
		if err != nil || seen[skill.ID] {
			continue
		}
		seen[skill.ID] = true
		matched = append(matched, *skill)
	}
	return matched
}

func allowedResumeExt(ext string) bool {
	for _, allowed := range util.AllowedResumeExts {
		if ext == allowed {
			return true
		}
	}
	return false
}

// ExtractText pulls plain text out of a resume file by extension.
func ExtractText(data []byte, ext string) (string, error) {
	switch ext {
	case ".pdf":
		return extractPDF(data)
	case ".docx":
		return extractDOCX(data)
	case ".txt":
		return string(data), nil
	}
	return "", fmt.Errorf("unsupported extension %q", ext)
}

func extractPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	content, err := reader.GetPlainText()
	if err != nil {
		return "", err
	}
	if _, err := buf.ReadFrom(content); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// extractDOCX reads word/document.xml from the zip container and keeps only
// character data, inserting newlines at paragraph boundaries.
func extractDOCX(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var doc io.ReadCloser
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			doc, err = f.Open()
			if err != nil {
				return "", err
			}
			break
		}
	}
	if doc == nil {
		return "", fmt.Errorf("document.xml not found in docx")
	}
	defer doc.Close()

	var buf strings.Builder
	decoder := xml.NewDecoder(doc)
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf.Write(t)
		case xml.EndElement:
			if t.Name.Local == "p" {
				buf.WriteString("\n")
			}
		}
	}
	return buf.String(), nil
}
