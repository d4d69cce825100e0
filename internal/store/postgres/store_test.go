package postgres

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shrimpsizemoose/semla/internal/models"
)

func TestNumberPlaceholders(t *testing.T) {
	in := "SELECT seconds FROM submissions WHERE task = ? AND week = ?"
	assert.Equal(t, "SELECT seconds FROM submissions WHERE task = $1 AND week = $2", numberPlaceholders(in))
	assert.Equal(t, "SELECT 1", numberPlaceholders("SELECT 1"))
}

// TestPostgresStore runs against a live database when SEMLA_TEST_POSTGRES_DSN is set
func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("SEMLA_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("SEMLA_TEST_POSTGRES_DSN not set")
	}

	s, err := NewPostgresStore(dsn)
	require.NoError(t, err, "Failed to create store")
	defer s.Close()

	_, err = s.DB.Exec("DELETE FROM submissions WHERE task = 'pgtest'")
	require.NoError(t, err)

	require.NoError(t, s.PutTime(models.Submission{Task: "pgtest", Week: 2, Time: 3.5}))
	require.NoError(t, s.PutTime(models.Submission{Task: "pgtest", Week: 2, Time: 2.5}))

	got, err := s.GetTime("pgtest", 2)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 2.5, *got)

	missing, err := s.GetFeedback("pgtest", 2)
	require.NoError(t, err)
	assert.Nil(t, missing)
}
