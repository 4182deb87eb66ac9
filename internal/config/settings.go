package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Settings holds the runtime configuration resolved from the environment.
// CLI flags override individual fields after loading.
type Settings struct {
	MilestonesPath  string
	ProfilePath     string
	BirthDate       time.Time
	SourceURL       string
	SourceUser      string
	Port            string
	Language        string
	RefreshInterval time.Duration
}

// LoadDotEnv loads variables from the given .env files (or ./.env) into the
// process environment. A missing file is not an error; existing variables win.
func LoadDotEnv(files ...string) {
	_ = godotenv.Load(files...)
}

// LoadSettings builds Settings from an environment lookup function.
// Passing os.Getenv is the production path; tests pass a map lookup.
func LoadSettings(getenv func(string) string) (Settings, error) {
	s := Settings{
		MilestonesPath:  DefaultMilestones,
		BirthDate:       DefaultBirthDate(),
		Port:            DefaultPort,
		Language:        DefaultLanguage,
		RefreshInterval: DefaultRefreshMin * time.Minute,
	}

	if v := strings.TrimSpace(getenv(EnvMilestones)); v != "" {
		s.MilestonesPath = v
	}
	s.ProfilePath = strings.TrimSpace(getenv(EnvProfile))
	s.SourceURL = strings.TrimSpace(getenv(EnvSourceURL))
	s.SourceUser = strings.TrimSpace(getenv(EnvSourceUser))

	if v := strings.TrimSpace(getenv(EnvBirthDate)); v != "" {
		birth, err := time.Parse(DateFormatKey, v)
		if err != nil {
			return Settings{}, fmt.Errorf("%s: %w", ErrBirthDate, err)
		}
		s.BirthDate = birth
	}

	if v := strings.TrimSpace(getenv(EnvPort)); v != "" {
		if err := ValidatePort(v); err != nil {
			return Settings{}, err
		}
		s.Port = v
	}

	if v := strings.TrimSpace(getenv(EnvLang)); v != "" {
		s.Language = strings.ToLower(v)
	}

	if v := strings.TrimSpace(getenv(EnvRefreshMin)); v != "" {
		minutes, err := strconv.Atoi(v)
		if err != nil || minutes <= 0 {
			return Settings{}, fmt.Errorf("%s: %q", ErrRefreshInterval, v)
		}
		s.RefreshInterval = time.Duration(minutes) * time.Minute
	}

	return s, nil
}

// SourceMode reports whether milestones come from a remote URL or the local file.
func (s Settings) SourceMode() string {
	if s.SourceURL != "" {
		return SourceModeWeb
	}
	return SourceModeLocal
}

// ValidatePort checks that the value is a usable TCP port number.
func ValidatePort(port string) error {
	if port == "" {
		return errors.New(ErrPortRequired)
	}
	n, err := strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("%s: %q", ErrPortNumber, port)
	}
	if n < MinPort || n > MaxPort {
		return fmt.Errorf("%s: %d", ErrPortRange, n)
	}
	return nil
}
