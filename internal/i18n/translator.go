// Package i18n looks up translated strings for the supported languages.
package i18n

import (
	"chebyshev-board/internal/domain"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var locales embed.FS

// Translator resolves message ids for a language tag, falling back to the default language.
// It is safe for concurrent use.
type Translator struct {
	bundle    *i18n.Bundle
	matcher   language.Matcher
	supported []string
	def       string
}

// New loads the embedded message files. defaultLang must be one of them.
func New(defaultLang string) (*Translator, error) {
	defTag, err := language.Parse(defaultLang)
	if err != nil {
		return nil, fmt.Errorf("new translator: parse default language %q: %w", defaultLang, err)
	}

	bundle := i18n.NewBundle(defTag)
	bundle.RegisterUnmarshalFunc("yaml", yaml.Unmarshal)

	files, err := fs.Glob(locales, "locales/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("new translator: list locales: %w", err)
	}
	for _, f := range files {
		if _, err := bundle.LoadMessageFileFS(locales, f); err != nil {
			return nil, fmt.Errorf("new translator: load %s: %w", path.Base(f), err)
		}
	}

	def := defTag.String()
	others := make([]string, 0, len(files))
	found := false
	for _, f := range files {
		name := strings.TrimSuffix(path.Base(f), path.Ext(f))
		if name == def {
			found = true
			continue
		}
		others = append(others, name)
	}
	if !found {
		return nil, fmt.Errorf("new translator: default language %q has no message file", def)
	}
	sort.Strings(others)

	// Default first: the matcher falls back to its first entry.
	supported := append([]string{def}, others...)
	tags := make([]language.Tag, 0, len(supported))
	for _, s := range supported {
		tags = append(tags, language.MustParse(s))
	}

	return &Translator{
		bundle:    bundle,
		matcher:   language.NewMatcher(tags),
		supported: supported,
		def:       def,
	}, nil
}

func (t *Translator) Default() string { return t.def }

// Supported returns the supported language codes, default first.
func (t *Translator) Supported() []string {
	out := make([]string, len(t.supported))
	copy(out, t.supported)
	return out
}

// Match picks the best supported language for an Accept-Language style list
// ("es-AR,es;q=0.9,en;q=0.5") or a single tag. Unparseable or unsupported input
// yields the default language.
func (t *Translator) Match(accept string) string {
	tags, _, err := language.ParseAcceptLanguage(accept)
	if err != nil || len(tags) == 0 {
		return t.def
	}

	_, idx, conf := t.matcher.Match(tags...)
	if conf == language.No {
		return t.def
	}
	return t.supported[idx]
}

// Translate renders messageID in lang with the given template data.
// A message missing in every language renders as its id.
func (t *Translator) Translate(lang, messageID string, data any) string {
	return t.localize(lang, &i18n.LocalizeConfig{MessageID: messageID, TemplateData: data})
}

// TranslateCount is Translate for messages with plural forms; count selects the form.
func (t *Translator) TranslateCount(lang, messageID string, count int, data any) string {
	return t.localize(lang, &i18n.LocalizeConfig{MessageID: messageID, TemplateData: data, PluralCount: count})
}

func (t *Translator) localize(lang string, lc *i18n.LocalizeConfig) string {
	loc := i18n.NewLocalizer(t.bundle, t.Match(lang), t.def)

	// go-i18n returns usable text alongside an error when it falls back to the
	// default language or to the "other" plural form.
	s, _ := loc.Localize(lc)
	if s == "" {
		return lc.MessageID
	}
	return s
}

// DirectionLabel returns the translated name of a compass direction.
func (t *Translator) DirectionLabel(lang string, d domain.Direction) string {
	return t.Translate(lang, "direction."+d.String(), nil)
}
