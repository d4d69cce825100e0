package redis

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shrimpsizemoose/semla/internal/models"
)

// TestRedisStore runs against a live server when SEMLA_TEST_REDIS_URL is set
func TestRedisStore(t *testing.T) {
	url := os.Getenv("SEMLA_TEST_REDIS_URL")
	if url == "" {
		t.Skip("SEMLA_TEST_REDIS_URL not set")
	}

	s, err := NewRedisStore(url)
	require.NoError(t, err)
	defer s.Close()

	s.redis.Del(context.Background(), "semla:redistest")

	got, err := s.GetTime("redistest", 1)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, s.PutTime(models.Submission{Task: "redistest", Week: 1, Time: 0.125}))
	require.NoError(t, s.PutFeedback(models.Feedback{Task: "redistest", Week: 1, Points: 2}))

	got, err = s.GetTime("redistest", 1)
	require.NoError(t, err)
	assert.Equal(t, 0.125, *got)

	fb, err := s.GetFeedback("redistest", 1)
	require.NoError(t, err)
	assert.Equal(t, 2, *fb)
}

func TestNewRedisStore_BadURL(t *testing.T) {
	_, err := NewRedisStore("not a url")
	assert.ErrorContains(t, err, "failed to parse redis URL")
}
