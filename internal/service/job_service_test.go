package service

import (
	"os"
	"path/filepath"
	"testing"

	"technicia_backend/internal/model"
	"technicia_backend/internal/repository"
	"technicia_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const testCatalog = `[
  {
    "id": "j1",
    "title": "Backend Developer",
    "company": "Acme",
    "requiredSkills": ["Python", "SQL"],
    "preferredSkills": ["Machine Learning"]
  },
  {
    "id": "j2",
    "title": "Frontend Engineer",
    "company": "Acme",
    "requiredSkills": ["React"],
    "preferredSkills": []
  },
  {
    "id": "j3",
    "title": "Embedded Engineer",
    "company": "Acme",
    "requiredSkills": ["C++"],
    "preferredSkills": []
  }
]`

func newJobFixture(t *testing.T, claimedSkills []string) *JobService {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Skill{}, &model.UserSkill{}))

	for _, name := range claimedSkills {
		skill := &model.Skill{Name: name, Category: "Test"}
		require.NoError(t, db.Create(skill).Error)
		require.NoError(t, db.Create(&model.UserSkill{
			UserID:           "u1",
			SkillID:          skill.ID,
			ProficiencyLevel: "Intermediate",
		}).Error)
	}

	path := filepath.Join(t.TempDir(), "jobs.json")
	require.NoError(t, os.WriteFile(path, []byte(testCatalog), 0644))

	return NewJobService(repository.NewSkillRepository(db), path)
}

func TestRecommendWeighsRequiredOverPreferred(t *testing.T) {
	svc := newJobFixture(t, []string{"Python", "SQL", "React"})

	matches, err := svc.Recommend(studentClaims("u1"))
	require.NoError(t, err)
	require.Len(t, matches, 2)

	// Full required coverage is worth 70; the unclaimed preferred skill on j1
	// adds nothing.
	scores := map[string]float64{}
	for _, m := range matches {
		scores[m.Job.ID] = m.MatchScore
	}
	assert.InDelta(t, 70.0, scores["j1"], 0.001)
	assert.InDelta(t, 70.0, scores["j2"], 0.001)
	_, present := scores["j3"]
	assert.False(t, present, "jobs with no overlap are dropped")
}

func TestRecommendPartialAndPreferred(t *testing.T) {
	svc := newJobFixture(t, []string{"Python", "Machine Learning"})

	matches, err := svc.Recommend(studentClaims("u1"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	// One of two required (35) plus the only preferred (30).
	assert.Equal(t, "j1", matches[0].Job.ID)
	assert.InDelta(t, 65.0, matches[0].MatchScore, 0.001)
	assert.ElementsMatch(t, []string{"Python", "Machine Learning"}, matches[0].MatchedSkills)
}

func TestRecommendMatchingIsCaseInsensitive(t *testing.T) {
	svc := newJobFixture(t, []string{"react"})

	matches, err := svc.Recommend(studentClaims("u1"))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "j2", matches[0].Job.ID)
}

func TestRecommendStudentsOnly(t *testing.T) {
	svc := newJobFixture(t, nil)

	_, err := svc.Recommend(&util.Claims{UserID: "c1", Role: model.Company})
	assert.ErrorIs(t, err, util.ErrStudentsOnly)
}

func TestMissingCatalogServesEmptyList(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Skill{}, &model.UserSkill{}))

	svc := NewJobService(repository.NewSkillRepository(db), "/nonexistent/jobs.json")
	assert.Empty(t, svc.ListJobs())
}
