package render

import (
	"embed"
	"log/slog"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/tartampluch/go-weeks/internal/config"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed locales/*.json
var localeFS embed.FS

const (
	localeDir    = "locales"
	localePrefix = "active."
	localeSuffix = ".json"
)

// Translator resolves labels and formats numbers and dates for one language.
type Translator struct {
	Lang      string
	Languages []string // Locales found in the embedded bundle.

	bundle    *i18n.Bundle
	localizer *i18n.Localizer
	printer   *message.Printer
}

// NewTranslator loads the embedded locales and selects lang. Unknown
// languages fall back to English for labels.
func NewTranslator(lang string) (*Translator, error) {
	if lang == "" {
		lang = config.DefaultLanguage
	}

	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir(localeDir)
	if err != nil {
		slog.Error(config.ErrLocalesAccess,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyError, err,
		)
		return nil, err
	}

	var detected []string
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, localePrefix) || !strings.HasSuffix(name, localeSuffix) {
			slog.Debug(config.MsgLocaleSkip,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		code := strings.TrimSuffix(strings.TrimPrefix(name, localePrefix), localeSuffix)
		if code == "" {
			slog.Warn(config.MsgLocaleBadName,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
			)
			continue
		}

		if _, err := bundle.LoadMessageFileFS(localeFS, localeDir+"/"+name); err != nil {
			slog.Error(config.ErrLocaleLoad,
				config.LogKeyComponent, config.CompI18n,
				config.LogKeyFile, name,
				config.LogKeyError, err,
			)
			continue
		}
		detected = append(detected, code)
		slog.Debug(config.MsgLocaleLoaded,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyLang, code,
		)
	}

	tag := language.Make(lang)
	return &Translator{
		Lang:      lang,
		Languages: detected,
		bundle:    bundle,
		localizer: i18n.NewLocalizer(bundle, lang),
		printer:   message.NewPrinter(tag),
	}, nil
}

// defaultTranslator is used when callers pass no Translator.
func defaultTranslator() *Translator {
	t, err := NewTranslator(config.DefaultLanguage)
	if err != nil {
		return &Translator{Lang: config.DefaultLanguage, printer: message.NewPrinter(language.English)}
	}
	return t
}

// Msg translates key, substituting data into the template. Missing keys
// return the key itself.
func (t *Translator) Msg(key string, data map[string]any) string {
	if t == nil || t.localizer == nil {
		return key
	}
	msg, err := t.localizer.Localize(&i18n.LocalizeConfig{
		MessageID:    key,
		TemplateData: data,
	})
	if err != nil {
		slog.Debug(config.MsgTransMissing,
			config.LogKeyComponent, config.CompI18n,
			config.LogKeyKey, key,
			config.LogKeyError, err,
		)
		return key
	}
	return msg
}

// Number groups digits the way the language does ("5,200" in English).
func (t *Translator) Number(n int) string {
	return t.printer.Sprintf("%d", n)
}

// Percent renders a one-decimal value with the language's separator.
func (t *Translator) Percent(v float64) string {
	return t.printer.Sprintf(config.FormatPercent, v)
}

// Date renders d with the language's long date layout.
func (t *Translator) Date(d time.Time) string {
	layout := t.Msg(config.TKeyFormatDate, nil)
	if layout == config.TKeyFormatDate {
		layout = config.DateFormatLong
	}
	return d.Format(layout)
}
