package render_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-weeks/internal/config"
	"github.com/tartampluch/go-weeks/internal/render"
)

func TestNewTranslator_DetectsLocales(t *testing.T) {
	tr, err := render.NewTranslator("")
	require.NoError(t, err)

	assert.Equal(t, config.DefaultLanguage, tr.Lang)
	assert.ElementsMatch(t, config.SupportedLanguages, tr.Languages)
}

func TestTranslator_English(t *testing.T) {
	tr, err := render.NewTranslator("en")
	require.NoError(t, err)

	assert.Equal(t, "Life in Weeks", tr.Msg(config.TKeyTitle, nil))
	assert.Equal(t, "5,200", tr.Number(5200))
	assert.Equal(t, "33.5", tr.Percent(33.46))
	assert.Equal(t, "January 1, 2015", tr.Date(time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "Week 12", tr.Msg(config.TKeyWeekIndex, map[string]any{"Index": 12}))
}

func TestTranslator_French(t *testing.T) {
	tr, err := render.NewTranslator("fr")
	require.NoError(t, err)

	assert.Equal(t, "Une vie en semaines", tr.Msg(config.TKeyTitle, nil))
	assert.Equal(t, "01/01/2015", tr.Date(time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.NotEqual(t, "5,200", tr.Number(5200), "French does not group with commas")
}

func TestTranslator_Fallbacks(t *testing.T) {
	tr, err := render.NewTranslator("de")
	require.NoError(t, err)
	assert.Equal(t, "Life in Weeks", tr.Msg(config.TKeyTitle, nil), "unknown languages fall back to English")

	assert.Equal(t, "no_such_key", tr.Msg("no_such_key", nil))

	var nilTr *render.Translator
	assert.Equal(t, config.TKeyTitle, nilTr.Msg(config.TKeyTitle, nil))
}
