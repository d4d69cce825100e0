package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shrimpsizemoose/semla/internal/models"
)

const testConfig = `
[course]
year = 2024
start_week = 15
weeks = 6

[store]
dsn = "%STORE%"

[bench]
timeout = "10s"
dir = "%DIR%"

[[tasks]]
id = "is"
max_points = [5, 3]
due_week = 3
thresholds = [1.0, 1.5, 2.0, 2.5, 3.0]
command = ["sh", "-c", "echo 1.2"]
test_command = ["sh", "-c", "exit 0"]

[[tasks]]
id = "report"
report = true
max_points = [2]
due_week = 6
`

func writeConfig(t *testing.T, content string) string {
	dir := t.TempDir()
	content = strings.ReplaceAll(content, "%STORE%", filepath.Join(dir, "submissions"))
	content = strings.ReplaceAll(content, "%DIR%", dir)
	path := filepath.Join(dir, "grader.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	config, err := LoadConfig(writeConfig(t, testConfig))
	require.NoError(t, err)

	assert.Equal(t, 2024, config.Course.Year)
	assert.Equal(t, 15, config.Course.StartWeek)
	require.Len(t, config.Course.Tasks, 2)

	task, ok := config.Course.Task("is")
	require.True(t, ok)
	assert.Equal(t, []int{5, 3}, task.MaxPoints)
	assert.Equal(t, []string{"sh", "-c", "exit 0"}, task.TestCommand)
	assert.Equal(t, []string{"sh", "-c", "echo 1.2"}, task.Command)

	timeout, err := config.BenchTimeout()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, timeout)

	today, err := config.Today()
	require.NoError(t, err)
	assert.True(t, today.IsZero())

	assert.Equal(t, defaultServerPort, config.Server.Port)
}

func TestLoadConfig_Env(t *testing.T) {
	t.Setenv(envStoreDSN, "sqlite::memory:")
	t.Setenv(envToday, "2024-04-24")

	config, err := LoadConfig(writeConfig(t, testConfig))
	require.NoError(t, err)
	assert.Equal(t, "sqlite::memory:", config.Store.DSN)

	today, err := config.Today()
	require.NoError(t, err)
	assert.Equal(t, 24, today.Day())
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
		assert.ErrorContains(t, err, "error reading config file")
	})

	t.Run("broken toml", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, "[course\nyear = "))
		assert.Error(t, err)
	})

	t.Run("threshold count mismatch", func(t *testing.T) {
		broken := strings.ReplaceAll(testConfig, "thresholds = [1.0, 1.5, 2.0, 2.5, 3.0]", "thresholds = [1.0, 1.5]")
		_, err := LoadConfig(writeConfig(t, broken))
		assert.ErrorIs(t, err, models.ErrInvalidConfig)
	})

	t.Run("bad bench timeout", func(t *testing.T) {
		broken := strings.ReplaceAll(testConfig, `timeout = "10s"`, `timeout = "ten"`)
		_, err := LoadConfig(writeConfig(t, broken))
		assert.ErrorIs(t, err, models.ErrInvalidConfig)
	})

	t.Run("late ceiling above on-time ceiling", func(t *testing.T) {
		broken := strings.ReplaceAll(testConfig, "max_points = [5, 3]", "max_points = [3, 5]")
		_, err := LoadConfig(writeConfig(t, broken))
		assert.ErrorIs(t, err, models.ErrInvalidConfig)
	})

	t.Run("bad pinned date", func(t *testing.T) {
		t.Setenv(envToday, "24.04.2024")
		_, err := LoadConfig(writeConfig(t, testConfig))
		assert.ErrorIs(t, err, models.ErrInvalidConfig)
	})
}
