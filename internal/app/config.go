package app

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/semla/internal/models"
)

const (
	envStoreDSN = "SEMLA_STORE_DSN"
	envToday    = "SEMLA_TODAY"

	dateFormat = "2006-01-02"

	defaultStoreDSN     = "submissions"
	defaultBenchTimeout = time.Minute
	defaultServerPort   = ":8080"
)

type Config struct {
	Course models.Course `toml:"course"`
	Tasks  []models.Task `toml:"tasks"`

	Store struct {
		DSN string `toml:"dsn"`
	} `toml:"store"`

	Bench struct {
		Timeout string `toml:"timeout"`
		Dir     string `toml:"dir"`
	} `toml:"bench"`

	Metrics struct {
		Textfile string `toml:"textfile"`
	} `toml:"metrics"`

	Server struct {
		Port string `toml:"port"`
	} `toml:"server"`

	Clock struct {
		// Today pins the current date, YYYY-MM-DD. Empty means the real date.
		Today string `toml:"today"`
	} `toml:"clock"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf(
			"error reading config file %s\n> Error: %w\n> Content:\n%s",
			path,
			err,
			string(data),
		)
	}

	if err := config.applyEnv(); err != nil {
		return nil, err
	}
	if err := config.finalize(); err != nil {
		return nil, err
	}

	logger.Debug.Printf("Loaded course config: %+v", config.Course)

	return &config, nil
}

// applyEnv lets a .env file or the environment override store and clock settings.
func (c *Config) applyEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("error reading .env: %w", err)
	}
	if dsn := os.Getenv(envStoreDSN); dsn != "" {
		c.Store.DSN = dsn
	}
	if today := os.Getenv(envToday); today != "" {
		c.Clock.Today = today
	}
	return nil
}

// finalize fills defaults and validates everything that must hold before grading.
func (c *Config) finalize() error {
	if c.Store.DSN == "" {
		c.Store.DSN = defaultStoreDSN
	}
	if c.Server.Port == "" {
		c.Server.Port = defaultServerPort
	}

	c.Course.Tasks = c.Tasks
	if err := c.Course.Validate(); err != nil {
		return err
	}

	if _, err := c.BenchTimeout(); err != nil {
		return err
	}
	if _, err := c.Today(); err != nil {
		return err
	}
	return nil
}

func (c *Config) BenchTimeout() (time.Duration, error) {
	if c.Bench.Timeout == "" {
		return defaultBenchTimeout, nil
	}
	d, err := time.ParseDuration(c.Bench.Timeout)
	if err != nil {
		return 0, fmt.Errorf("%w: bench timeout %q: %v", models.ErrInvalidConfig, c.Bench.Timeout, err)
	}
	return d, nil
}

// Today returns the pinned date, or the zero time when the real clock should be used.
func (c *Config) Today() (time.Time, error) {
	if c.Clock.Today == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(dateFormat, c.Clock.Today, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: today %q (use YYYY-MM-DD): %v", models.ErrInvalidConfig, c.Clock.Today, err)
	}
	return t, nil
}
