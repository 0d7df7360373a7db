package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// GlobalLeaderboardKey returns the sorted-set key holding accumulated points
// across all quizzes.
func (r *CacheKeyStruct) GlobalLeaderboardKey() string {
	return "leaderboard:global"
}

// QuizLeaderboardKey returns the sorted-set key holding each user's best score
// for one quiz.
func (r *CacheKeyStruct) QuizLeaderboardKey(quizID string) string {
	return fmt.Sprintf("quiz:%s:leaderboard", quizID)
}

// QuizPaperKey returns the cache key for a quiz's taker-facing payload.
func (r *CacheKeyStruct) QuizPaperKey(quizID string) string {
	return fmt.Sprintf("quiz:%s:paper", quizID)
}

var CacheKey = NewCacheKeyStruct()
