package service

import (
	"encoding/json"
	"math"
	"os"
	"sort"
	"strings"

	"technicia_backend/internal/model"
	"technicia_backend/internal/repository"
	"technicia_backend/internal/util"

	"go.uber.org/zap"
)

// Job is one posting from the static catalog. Postings are curated offline and
// shipped as a JSON file; there is no write path.
type Job struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Company         string   `json:"company"`
	Location        string   `json:"location"`
	EmploymentType  string   `json:"employmentType"`
	SalaryRange     string   `json:"salaryRange"`
	Description     string   `json:"description"`
	RequiredSkills  []string `json:"requiredSkills"`
	PreferredSkills []string `json:"preferredSkills"`
}

type JobService struct {
	Skills  *repository.SkillRepository
	catalog []Job
}

// NewJobService loads the catalog once at startup. A missing or malformed
// catalog is not fatal; the job endpoints just serve an empty list.
func NewJobService(skills *repository.SkillRepository, catalogPath string) *JobService {
	s := &JobService{Skills: skills}

	data, err := os.ReadFile(catalogPath)
	if err != nil {
		zap.L().Warn("job catalog not loaded", zap.String("path", catalogPath), zap.Error(err))
		return s
	}
	if err := json.Unmarshal(data, &s.catalog); err != nil {
		zap.L().Warn("job catalog is malformed", zap.String("path", catalogPath), zap.Error(err))
	}
	return s
}

func (s *JobService) ListJobs() []Job {
	return s.catalog
}

type JobMatch struct {
	Job           Job      `json:"job"`
	MatchScore    float64  `json:"matchScore"`
	MatchedSkills []string `json:"matchedSkills"`
}

// Recommend scores every posting against the student's claimed skills.
// Required skills carry 70% of the score, preferred 30%, with
// case-insensitive substring matching in both directions. Postings with no
// overlap are dropped.
func (s *JobService) Recommend(claims *util.Claims) ([]JobMatch, error) {
	if claims.Role != model.Student {
		return nil, util.ErrStudentsOnly
	}

	rows, err := s.Skills.ListClaims(claims.UserID)
	if err != nil {
		return nil, util.Internal("failed to list skill claims", err)
	}
	studentSkills := make([]string, len(rows))
	for i, row := range rows {
		studentSkills[i] = row.SkillName
	}

	matches := make([]JobMatch, 0, len(s.catalog))
	for _, job := range s.catalog {
		requiredHits, matched := matchSkillNames(studentSkills, job.RequiredSkills)
		preferredHits, preferredMatched := matchSkillNames(studentSkills, job.PreferredSkills)
		matched = append(matched, preferredMatched...)

		score := 0.0
		if len(job.RequiredSkills) > 0 {
			score += float64(requiredHits) / float64(len(job.RequiredSkills)) * 70
		}
		if len(job.PreferredSkills) > 0 {
			score += float64(preferredHits) / float64(len(job.PreferredSkills)) * 30
		}
		if score == 0 {
			continue
		}

		matches = append(matches, JobMatch{
			Job:           job,
			MatchScore:    math.Round(score*100) / 100,
			MatchedSkills: matched,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].MatchScore > matches[j].MatchScore
	})
	return matches, nil
}

// matchSkillNames counts job skills covered by the student's claims. A claim
// covers a job skill when either name contains the other, ignoring case.
func matchSkillNames(studentSkills, jobSkills []string) (int, []string) {
	hits := 0
	var matched []string
	for _, jobSkill := range jobSkills {
		js := strings.ToLower(strings.TrimSpace(jobSkill))
		if js == "" {
			continue
		}
		for _, studentSkill := range studentSkills {
			ss := strings.ToLower(strings.TrimSpace(studentSkill))
			if ss == "" {
				continue
			}
			if strings.Contains(js, ss) || strings.Contains(ss, js) {
				hits++
				matched = append(matched, jobSkill)
				break
			}
		}
	}
	return hits, matched
}
