package sqlite

import (
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shrimpsizemoose/semla/internal/models"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) (*SQLiteStore, func()) {
	s, err := NewSQLiteStore(":memory:")
	require.NoError(t, err, "Failed to create store")

	cleanup := func() {
		err := s.Close()
		require.NoError(t, err, "Failed to close database")
	}

	return s, cleanup
}

func TestMain(m *testing.M) {
	log.Println("Starting SQLite store tests...")
	code := m.Run()
	log.Println("Finished SQLite store tests")
	os.Exit(code)
}

func TestSubmissionOperations(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()

	t.Run("get missing submission", func(t *testing.T) {
		got, err := s.GetTime("is", 1)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("create submission", func(t *testing.T) {
		err := s.PutTime(models.Submission{Task: "is", Week: 1, Time: 1.25})
		require.NoError(t, err, "Failed to store submission")

		got, err := s.GetTime("is", 1)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, 1.25, *got)
	})

	t.Run("replace submission", func(t *testing.T) {
		err := s.PutTime(models.Submission{Task: "is", Week: 1, Time: 0.75})
		require.NoError(t, err)

		got, err := s.GetTime("is", 1)
		require.NoError(t, err)
		assert.Equal(t, 0.75, *got)
	})

	t.Run("weeks are independent", func(t *testing.T) {
		got, err := s.GetTime("is", 2)
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestFeedbackOperations(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, s.PutFeedback(models.Feedback{Task: "is", Week: 3, Points: 2}))
	require.NoError(t, s.PutFeedback(models.Feedback{Task: "is", Week: 3, Points: 1}))

	got, err := s.GetFeedback("is", 3)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 1, *got)

	got, err = s.GetFeedback("mf", 3)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMigrationsAreRepeatable(t *testing.T) {
	s, cleanup := setupTestDB(t)
	defer cleanup()

	assert.NoError(t, s.ApplyMigrations(translateToSQLite))
}

func TestTranslateToSQLite(t *testing.T) {
	out := translateToSQLite("seconds DOUBLE PRECISION NOT NULL, task VARCHAR(32)")
	assert.Equal(t, "seconds REAL NOT NULL, task TEXT", out)
}
