package worker

import (
	"bytes"
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/quizhub/quizhub-api/internal/config"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWorker(t *testing.T) (*LeaderboardWorker, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewLeaderboardWorker(rdb, zerolog.Nop()), rdb
}

func TestApplyAccumulatesGlobalBoard(t *testing.T) {
	w, rdb := newTestWorker(t)
	ctx := context.Background()

	require.NoError(t, w.apply(ctx, &boardPayload{UserID: 1, QuizID: "quiz-a", Score: 80}))
	require.NoError(t, w.apply(ctx, &boardPayload{UserID: 1, QuizID: "quiz-b", Score: 50}))
	require.NoError(t, w.apply(ctx, &boardPayload{UserID: 2, QuizID: "quiz-a", Score: 90}))

	score, err := rdb.ZScore(ctx, config.CacheKey.GlobalLeaderboardKey(), "1").Result()
	require.NoError(t, err)
	assert.Equal(t, 130.0, score, "global board sums every attempt")

	score, err = rdb.ZScore(ctx, config.CacheKey.GlobalLeaderboardKey(), "2").Result()
	require.NoError(t, err)
	assert.Equal(t, 90.0, score)
}

func TestApplyKeepsBestQuizScore(t *testing.T) {
	w, rdb := newTestWorker(t)
	ctx := context.Background()
	key := config.CacheKey.QuizLeaderboardKey("quiz-a")

	require.NoError(t, w.apply(ctx, &boardPayload{UserID: 1, QuizID: "quiz-a", Score: 60}))
	require.NoError(t, w.apply(ctx, &boardPayload{UserID: 1, QuizID: "quiz-a", Score: 90}))
	require.NoError(t, w.apply(ctx, &boardPayload{UserID: 1, QuizID: "quiz-a", Score: 70}))

	score, err := rdb.ZScore(ctx, key, "1").Result()
	require.NoError(t, err)
	assert.Equal(t, 90.0, score, "a worse retake never lowers the quiz board")
}

func TestFlushSafeOrdersBoard(t *testing.T) {
	w, rdb := newTestWorker(t)
	ctx := context.Background()

	w.flushSafe(ctx, []*boardPayload{
		{UserID: 1, QuizID: "quiz-a", Score: 40},
		{UserID: 2, QuizID: "quiz-a", Score: 100},
		{UserID: 3, QuizID: "quiz-a", Score: 70},
	})

	members, err := rdb.ZRevRangeWithScores(ctx, config.CacheKey.QuizLeaderboardKey("quiz-a"), 0, -1).Result()
	require.NoError(t, err)
	require.Len(t, members, 3)
	assert.Equal(t, "2", members[0].Member)
	assert.Equal(t, "3", members[1].Member)
	assert.Equal(t, "1", members[2].Member)
}

func TestFlushSafeLogsLostPayloads(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	var buf bytes.Buffer
	w := NewLeaderboardWorker(rdb, zerolog.New(&buf))

	// Kill Redis so both the apply and the requeue fail.
	mr.Close()

	w.flushSafe(context.Background(), []*boardPayload{
		{UserID: 1, QuizID: "quiz-a", Score: 50},
	})

	assert.Contains(t, buf.String(), "requeue failed", "a dropped payload must leave a trace")
}
