package engine

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/emersion/go-vcard"
	"github.com/tartampluch/go-weeks/internal/config"
)

// Profile identifies whose timeline is generated.
type Profile struct {
	Name      string    `json:"name"`
	BirthDate time.Time `json:"birthDate"`
}

// DefaultProfile uses the configured birth date.
func DefaultProfile(birth time.Time) Profile {
	return Profile{Name: config.DefaultProfileName, BirthDate: birth}
}

// LoadProfile reads the first vCard in the file at path.
func LoadProfile(path string) (Profile, error) {
	f, err := os.Open(path)
	if err != nil {
		return Profile{}, fmt.Errorf("%s: %w", config.ErrProfileRead, err)
	}
	defer func() { _ = f.Close() }()

	return ParseProfile(f)
}

// ParseProfile extracts the name and birth date of the first vCard in r.
// The BDAY must carry a year; "--MM-DD" forms cannot anchor a timeline.
func ParseProfile(r io.Reader) (Profile, error) {
	card, err := vcard.NewDecoder(r).Decode()
	if err != nil {
		return Profile{}, fmt.Errorf("%s: %w", config.ErrProfileRead, err)
	}

	bday := card.Get(config.VCardBDAY)
	if bday == nil || bday.Value == "" {
		return Profile{}, errors.New(config.ErrProfileBirthday)
	}
	birth, err := parseBirthDate(bday.Value)
	if err != nil {
		return Profile{}, fmt.Errorf("%s: %w", config.ErrProfileBirthday, err)
	}

	// Name Strategy: FN (Formatted) > N (Structured) > Fallback
	name := config.DefaultProfileName
	if fn := card.Get(config.VCardFN); fn != nil && fn.Value != "" {
		name = fn.Value
	} else if n := card.Name(); n != nil {
		if joined := strings.TrimSpace(n.GivenName + " " + n.FamilyName); joined != "" {
			name = joined
		}
	}

	slog.Debug(config.MsgProfileLoaded,
		config.LogKeyComponent, config.CompLoader,
		config.LogKeyName, name,
		config.LogKeyDOB, birth.Format(config.DateFormatFullDash))

	return Profile{Name: name, BirthDate: birth}, nil
}

// parseBirthDate accepts the year-bearing vCard date layouts and returns a
// UTC midnight civil date.
func parseBirthDate(value string) (time.Time, error) {
	formats := []string{
		config.DateFormatFullDash,
		config.DateFormatFullBasic,
		config.DateFormatRFC3339,
		config.DateFormatFullT,
	}

	for _, f := range formats {
		if t, err := time.Parse(f, value); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("%s: %q", config.ErrDateParse, value)
}
