package service

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"technicia_backend/internal/model"
	"technicia_backend/internal/repository"
	"technicia_backend/internal/util"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const leaderboardCacheTTL = 5 * time.Minute

// LeaderboardService ranks students by their best completed-test percentage,
// per skill or globally. Boards are cached in Redis; the cache is a pure
// read-through and the database stays the source of truth.
type LeaderboardService struct {
	Sessions *repository.SessionRepository
	Skills   *repository.SkillRepository
	Profiles *repository.ProfileRepository
	Redis    *redis.Client
}

func NewLeaderboardService(sessions *repository.SessionRepository, skills *repository.SkillRepository, profiles *repository.ProfileRepository, rdb *redis.Client) *LeaderboardService {
	return &LeaderboardService{Sessions: sessions, Skills: skills, Profiles: profiles, Redis: rdb}
}

type LeaderboardEntry struct {
	Rank           int     `json:"rank"`
	UserID         string  `json:"userId"`
	DisplayName    string  `json:"displayName"`
	BestPercentage float64 `json:"bestPercentage"`
	TestsTaken     int     `json:"testsTaken"`
}

type Leaderboard struct {
	SkillID   string             `json:"skillId,omitempty"`
	SkillName string             `json:"skillName,omitempty"`
	Entries   []LeaderboardEntry `json:"entries"`
	CachedAt  time.Time          `json:"cachedAt"`
}

// BySkill returns the board for one skill, serving from cache when fresh.
func (s *LeaderboardService) BySkill(ctx context.Context, skillID string) (*Leaderboard, error) {
	skill, err := s.Skills.FindByID(skillID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSkillNotFound
		}
		return nil, util.Internal("failed to fetch skill", err)
	}

	cacheKey := "leaderboard:skill:" + skillID
	if board := s.fromCache(ctx, cacheKey); board != nil {
		return board, nil
	}

	sessions, err := s.Sessions.ListCompletedBySkill(skillID)
	if err != nil {
		return nil, util.Internal("failed to fetch completed sessions", err)
	}

	board := &Leaderboard{SkillID: skillID, SkillName: skill.Name, CachedAt: time.Now()}
	board.Entries, err = s.rank(sessions)
	if err != nil {
		return nil, err
	}

	s.toCache(ctx, cacheKey, board)
	return board, nil
}

// Global returns the board across all skills.
func (s *LeaderboardService) Global(ctx context.Context) (*Leaderboard, error) {
	cacheKey := "leaderboard:global"
	if board := s.fromCache(ctx, cacheKey); board != nil {
		return board, nil
	}

	sessions, err := s.Sessions.ListCompleted()
	if err != nil {
		return nil, util.Internal("failed to fetch completed sessions", err)
	}

	board := &Leaderboard{CachedAt: time.Now()}
	board.Entries, err = s.rank(sessions)
	if err != nil {
		return nil, err
	}

	s.toCache(ctx, cacheKey, board)
	return board, nil
}

// RefreshAll rebuilds the cached boards. Run from the scheduler so hot boards
// rarely pay the rebuild cost on a request.
func (s *LeaderboardService) RefreshAll(ctx context.Context) error {
	if err := s.Redis.Del(ctx, "leaderboard:global").Err(); err != nil && err != redis.Nil {
		return err
	}
	if _, err := s.Global(ctx); err != nil {
		return err
	}

	skills, err := s.Skills.ListAll()
	if err != nil {
		return err
	}
	for _, skill := range skills {
		key := "leaderboard:skill:" + skill.ID
		if err := s.Redis.Del(ctx, key).Err(); err != nil && err != redis.Nil {
			return err
		}
		if _, err := s.BySkill(ctx, skill.ID); err != nil {
			return err
		}
	}
	return nil
}

// rank folds sessions into one best-score entry per user and assigns dense
// ranks (ties share a rank).
func (s *LeaderboardService) rank(sessions []model.TestSession) ([]LeaderboardEntry, error) {
	type agg struct {
		best  float64
		taken int
	}
	byUser := make(map[string]*agg)
	for _, session := range sessions {
		if session.Percentage == nil {
			continue
		}
		a, ok := byUser[session.UserID]
		if !ok {
			a = &agg{}
			byUser[session.UserID] = a
		}
		a.taken++
		if *session.Percentage > a.best {
			a.best = *session.Percentage
		}
	}

	userIDs := make([]string, 0, len(byUser))
	for id := range byUser {
		userIDs = append(userIDs, id)
	}

	names := make(map[string]string)
	if len(userIDs) > 0 {
		profiles, err := s.Profiles.FindStudents(userIDs)
		if err != nil {
			return nil, util.Internal("failed to fetch profiles", err)
		}
		for _, p := range profiles {
			names[p.StudentID] = p.FirstName + " " + p.LastName
		}
	}

	entries := make([]LeaderboardEntry, 0, len(byUser))
	for id, a := range byUser {
		name := names[id]
		if name == "" {
			name = "Anonymous"
		}
		entries = append(entries, LeaderboardEntry{
			UserID:         id,
			DisplayName:    name,
			BestPercentage: a.best,
			TestsTaken:     a.taken,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].BestPercentage > entries[j].BestPercentage
	})
	rank := 0
	var prev float64 = -1
	for i := range entries {
		if entries[i].BestPercentage != prev {
			rank = i + 1
			prev = entries[i].BestPercentage
		}
		entries[i].Rank = rank
	}
	return entries, nil
}

func (s *LeaderboardService) fromCache(ctx context.Context, key string) *Leaderboard {
	if s.Redis == nil {
		return nil
	}
	data, err := s.Redis.Get(ctx, key).Bytes()
	if err != nil {
		return nil
	}
	var board Leaderboard
	if err := json.Unmarshal(data, &board); err != nil {
		return nil
	}
	return &board
}

func (s *LeaderboardService) toCache(ctx context.Context, key string, board *Leaderboard) {
	if s.Redis == nil {
		return
	}
	data, err := json.Marshal(board)
	if err != nil {
		return
	}
	if err := s.Redis.Set(ctx, key, data, leaderboardCacheTTL).Err(); err != nil {
		zap.L().Warn("leaderboard cache write failed", zap.String("key", key), zap.Error(err))
	}
}
