package service

import (
	"context"
	"testing"
	"time"

	"technicia_backend/internal/model"
	"technicia_backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// The leaderboard tests run without Redis; caching is skipped and every call
// reads the database directly.
func newLeaderboardFixture(t *testing.T) (*LeaderboardService, *gorm.DB, *model.Skill) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.Skill{},
		&model.StudentProfile{},
		&model.TestSession{},
	))

	skill := &model.Skill{Name: "SQL", Category: "Data"}
	require.NoError(t, db.Create(skill).Error)

	svc := NewLeaderboardService(
		repository.NewSessionRepository(db),
		repository.NewSkillRepository(db),
		repository.NewProfileRepository(db),
		nil,
	)
	return svc, db, skill
}

func completedSession(t *testing.T, db *gorm.DB, userID, skillID string, percentage float64) {
	t.Helper()
	now := time.Now()
	obtained := int(percentage * 30 / 100)
	require.NoError(t, db.Create(&model.TestSession{
		UserID:             userID,
		SkillID:            skillID,
		Status:             model.TestCompleted,
		TotalQuestions:     30,
		TotalScore:         30,
		ObtainedScore:      &obtained,
		Percentage:         &percentage,
		VerificationStatus: model.Verified,
		StartedAt:          &now,
		CompletedAt:        &now,
	}).Error)
}

func TestLeaderboardRanksBestScorePerUser(t *testing.T) {
	svc, db, skill := newLeaderboardFixture(t)

	require.NoError(t, db.Create(&model.StudentProfile{StudentID: "u1", FirstName: "Ada", LastName: "Lovelace"}).Error)
	require.NoError(t, db.Create(&model.StudentProfile{StudentID: "u2", FirstName: "Grace", LastName: "Hopper"}).Error)

	completedSession(t, db, "u1", skill.ID, 60)
	completedSession(t, db, "u1", skill.ID, 90)
	completedSession(t, db, "u2", skill.ID, 80)

	board, err := svc.BySkill(context.Background(), skill.ID)
	require.NoError(t, err)
	require.Len(t, board.Entries, 2)

	assert.Equal(t, "u1", board.Entries[0].UserID)
	assert.Equal(t, 1, board.Entries[0].Rank)
	assert.InDelta(t, 90.0, board.Entries[0].BestPercentage, 0.001)
	assert.Equal(t, 2, board.Entries[0].TestsTaken)
	assert.Equal(t, "Ada Lovelace", board.Entries[0].DisplayName)

	assert.Equal(t, "u2", board.Entries[1].UserID)
	assert.Equal(t, 2, board.Entries[1].Rank)
}

func TestLeaderboardTiesShareRank(t *testing.T) {
	svc, db, skill := newLeaderboardFixture(t)

	completedSession(t, db, "u1", skill.ID, 85)
	completedSession(t, db, "u2", skill.ID, 85)
	completedSession(t, db, "u3", skill.ID, 70)

	board, err := svc.BySkill(context.Background(), skill.ID)
	require.NoError(t, err)
	require.Len(t, board.Entries, 3)

	assert.Equal(t, 1, board.Entries[0].Rank)
	assert.Equal(t, 1, board.Entries[1].Rank)
	assert.Equal(t, 3, board.Entries[2].Rank)
}

func TestGlobalBoardSpansSkills(t *testing.T) {
	svc, db, skill := newLeaderboardFixture(t)

	other := &model.Skill{Name: "Java", Category: "Programming"}
	require.NoError(t, db.Create(other).Error)

	completedSession(t, db, "u1", skill.ID, 75)
	completedSession(t, db, "u1", other.ID, 95)

	board, err := svc.Global(context.Background())
	require.NoError(t, err)
	require.Len(t, board.Entries, 1)
	assert.InDelta(t, 95.0, board.Entries[0].BestPercentage, 0.001)
	assert.Equal(t, 2, board.Entries[0].TestsTaken)
	assert.Equal(t, "Anonymous", board.Entries[0].DisplayName)
}
