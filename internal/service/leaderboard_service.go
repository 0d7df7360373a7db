package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/quizhub/quizhub-api/internal/config"
	"github.com/quizhub/quizhub-api/internal/model"
	"github.com/quizhub/quizhub-api/internal/repository"
	"github.com/redis/go-redis/v9"
)

// LeaderboardService reads rankings. The global board lives in a Redis sorted
// set maintained by the leaderboard worker; per-quiz boards are computed from
// stored results, with a Redis mirror for the live stream.
type LeaderboardService struct {
	quizzes *repository.QuizRepository
	users   *repository.UserRepository
	rdb     *redis.Client
	size    int
}

// NewLeaderboardService creates a new LeaderboardService. size caps how many
// entries Redis-backed reads return.
func NewLeaderboardService(quizzes *repository.QuizRepository, users *repository.UserRepository, rdb *redis.Client, size int) *LeaderboardService {
	return &LeaderboardService{quizzes: quizzes, users: users, rdb: rdb, size: size}
}

// Global returns the top cumulative scorers across all quizzes.
func (s *LeaderboardService) Global(ctx context.Context) ([]model.LeaderboardEntry, error) {
	return s.readBoard(ctx, config.CacheKey.GlobalLeaderboardKey())
}

// Quiz returns a page of the per-quiz leaderboard from stored results: each
// user's best attempt, ties broken by the faster time.
func (s *LeaderboardService) Quiz(ctx context.Context, quizID uuid.UUID, page, perPage int) ([]model.LeaderboardEntry, int64, error) {
	if _, err := s.quizzes.GetByID(ctx, quizID); err != nil {
		return nil, 0, ErrQuizNotFound
	}
	return s.quizzes.QuizLeaderboard(ctx, quizID, page, perPage)
}

// VerifyQuiz checks that a quiz exists before a board is streamed for it.
func (s *LeaderboardService) VerifyQuiz(ctx context.Context, quizID uuid.UUID) error {
	if _, err := s.quizzes.GetByID(ctx, quizID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrQuizNotFound
		}
		return err
	}
	return nil
}

// QuizTop returns the live per-quiz board from the worker-maintained Redis
// mirror, for the streaming endpoint. Cheap enough to poll every few seconds.
func (s *LeaderboardService) QuizTop(ctx context.Context, quizID uuid.UUID) ([]model.LeaderboardEntry, error) {
	return s.readBoard(ctx, config.CacheKey.QuizLeaderboardKey(quizID.String()))
}

// readBoard pulls a sorted set and hydrates usernames in one batch lookup.
func (s *LeaderboardService) readBoard(ctx context.Context, key string) ([]model.LeaderboardEntry, error) {
	members, err := s.rdb.ZRevRangeWithScores(ctx, key, 0, int64(s.size-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("read leaderboard %s: %w", key, err)
	}

	ids := make([]int, 0, len(members))
	for _, m := range members {
		id, err := strconv.Atoi(fmt.Sprint(m.Member))
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	names, err := s.users.UsernamesByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("resolve usernames: %w", err)
	}

	entries := make([]model.LeaderboardEntry, 0, len(members))
	for _, m := range members {
		id, err := strconv.Atoi(fmt.Sprint(m.Member))
		if err != nil {
			continue
		}
		entries = append(entries, model.LeaderboardEntry{
			Rank:     len(entries) + 1,
			UserID:   id,
			Username: names[id],
			Score:    m.Score,
		})
	}
	return entries, nil
}
