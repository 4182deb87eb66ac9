package render_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-weeks/internal/config"
)

// usedKeys are the translation keys referenced from code.
var usedKeys = []string{
	config.TKeyTitle,
	config.TKeyWeeksLived,
	config.TKeyWeeksRemaining,
	config.TKeyPercentLived,
	config.TKeyCurrentAge,
	config.TKeyLegendFuture,
	config.TKeyWeekDate,
	config.TKeyWeekIndex,
	config.TKeyNoEvents,
	config.TKeyFormatDate,
}

// TestI18nIntegrity checks every supported locale file defines exactly the
// keys the code uses.
func TestI18nIntegrity(t *testing.T) {
	for _, lang := range config.SupportedLanguages {
		t.Run(lang, func(t *testing.T) {
			content, err := os.ReadFile(filepath.Join("locales", "active."+lang+".json"))
			require.NoError(t, err)

			var messages map[string]string
			require.NoError(t, json.Unmarshal(content, &messages), "locale must be a flat JSON object")

			for _, key := range usedKeys {
				assert.NotEmptyf(t, messages[key], "key %q missing in %s", key, lang)
			}
			assert.Len(t, messages, len(usedKeys), "locale %s has orphan keys", lang)
		})
	}
}
