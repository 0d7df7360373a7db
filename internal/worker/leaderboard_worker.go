package worker

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/quizhub/quizhub-api/internal/config"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	BoardBatchSize    = 50
	BoardBatchTimeout = 2 * time.Second
	BoardPollTimeout  = 1 * time.Second
)

// LeaderboardWorker drains the score queue and maintains the Redis leaderboard
// sorted sets: cumulative score per user on the global board, best score per
// user on each quiz board.
type LeaderboardWorker struct {
	rdb *redis.Client
	log zerolog.Logger
}

func NewLeaderboardWorker(rdb *redis.Client, log zerolog.Logger) *LeaderboardWorker {
	return &LeaderboardWorker{
		rdb: rdb,
		log: log.With().Str("component", "leaderboard_worker").Logger(),
	}
}

type boardPayload struct {
	UserID             int     `json:"user_id"`
	QuizID             string  `json:"quiz_id"`
	Score              float64 `json:"score"`
	TimeElapsedSeconds int     `json:"time_elapsed_seconds"`
}

// ----------------------------------------------------------------
// Worker loop with batching
// ----------------------------------------------------------------

func (w *LeaderboardWorker) Start(ctx context.Context) {
	w.log.Info().Msg("LeaderboardWorker started")

	batch := make([]*boardPayload, 0, BoardBatchSize)
	lastFlush := time.Now()

	for {
		// Should flush?
		if len(batch) > 0 &&
			(len(batch) >= BoardBatchSize || time.Since(lastFlush) >= BoardBatchTimeout) {

			w.flushSafe(ctx, batch)
			batch = batch[:0]
			lastFlush = time.Now()
		}

		select {
		case <-ctx.Done():
			w.log.Info().Msg("Shutdown requested. Flushing remaining batch...")
			w.flushSafe(context.Background(), batch)
			return

		default:
			item, err := w.rdb.BLPop(ctx, BoardPollTimeout, config.WorkerKey.LeaderboardQueue).Result()
			if err != nil {
				if err != redis.Nil && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}

			if len(item) < 2 {
				continue
			}

			var p boardPayload
			if err := json.Unmarshal([]byte(item[1]), &p); err != nil {
				w.log.Error().Err(err).Msg("Invalid JSON payload")
				continue
			}

			batch = append(batch, &p)
		}
	}
}

// ----------------------------------------------------------------
// Batch apply with per-item requeue fallback
// ----------------------------------------------------------------

func (w *LeaderboardWorker) flushSafe(ctx context.Context, batch []*boardPayload) {
	for _, p := range batch {
		if err := w.apply(ctx, p); err != nil {
			w.log.Error().Err(err).
				Int("user_id", p.UserID).
				Str("quiz_id", p.QuizID).
				Msg("leaderboard update failed — requeueing")
			raw, _ := json.Marshal(p)
			if err := w.rdb.RPush(ctx, config.WorkerKey.LeaderboardQueue, raw).Err(); err != nil {
				w.log.Error().Err(err).
					Int("user_id", p.UserID).
					Str("quiz_id", p.QuizID).
					Msg("requeue failed, score update lost")
			}
		}
	}
}

// apply folds one score into both boards. The global board accumulates every
// attempt; the quiz board keeps only the user's best score, so the read comes
// before the write.
func (w *LeaderboardWorker) apply(ctx context.Context, p *boardPayload) error {
	member := strconv.Itoa(p.UserID)

	if err := w.rdb.ZIncrBy(ctx, config.CacheKey.GlobalLeaderboardKey(), p.Score, member).Err(); err != nil {
		return err
	}

	quizKey := config.CacheKey.QuizLeaderboardKey(p.QuizID)
	current, err := w.rdb.ZScore(ctx, quizKey, member).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	if errors.Is(err, redis.Nil) || p.Score > current {
		return w.rdb.ZAdd(ctx, quizKey, redis.Z{Score: p.Score, Member: member}).Err()
	}
	return nil
}
