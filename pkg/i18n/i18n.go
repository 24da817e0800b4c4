// Package i18n holds the fixed reply strings for each supported language.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/tinyland-inc/tgrelay/pkg/logger"
	"github.com/tinyland-inc/tgrelay/pkg/relay"
)

const DefaultLang = "ru"

//go:embed locales/*.json
var localeFS embed.FS

type Localizer struct {
	catalogs    map[string]relay.Messages
	defaultLang string
}

func NewLocalizer(defaultLang string) (*Localizer, error) {
	if defaultLang == "" {
		defaultLang = DefaultLang
	}

	l := &Localizer{
		catalogs:    make(map[string]relay.Messages),
		defaultLang: strings.ToLower(defaultLang),
	}
	if err := l.load(); err != nil {
		return nil, err
	}
	if _, ok := l.catalogs[l.defaultLang]; !ok {
		return nil, fmt.Errorf("unsupported language %q (available: %s)",
			defaultLang, strings.Join(l.Languages(), ", "))
	}
	return l, nil
}

func (l *Localizer) load() error {
	files, err := localeFS.ReadDir("locales")
	if err != nil {
		return fmt.Errorf("reading locales: %w", err)
	}

	for _, f := range files {
		lang := strings.TrimSuffix(f.Name(), ".json")
		content, err := localeFS.ReadFile(path.Join("locales", f.Name()))
		if err != nil {
			return fmt.Errorf("reading locale %s: %w", lang, err)
		}

		var msgs relay.Messages
		if err := json.Unmarshal(content, &msgs); err != nil {
			return fmt.Errorf("parsing locale %s: %w", lang, err)
		}
		l.catalogs[lang] = msgs
		logger.DebugCF("i18n", "Loaded language", map[string]any{"lang": lang})
	}
	return nil
}

// Messages returns the catalog for lang, falling back to the default
// language and then to the built-in strings for any missing entry.
func (l *Localizer) Messages(lang string) relay.Messages {
	msgs, ok := l.catalogs[strings.ToLower(lang)]
	if !ok {
		msgs = l.catalogs[l.defaultLang]
	}
	return msgs.WithDefaults()
}

func (l *Localizer) Languages() []string {
	langs := make([]string, 0, len(l.catalogs))
	for lang := range l.catalogs {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}
