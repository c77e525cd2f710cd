package i18n

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/text/language"
)

// DefaultLanguage is used when no default language option is given.
const DefaultLanguage = "en"

// Translator looks up message templates by language and dotted key and
// fills in %{name} placeholders. It is safe for concurrent use.
type Translator struct {
	mu            sync.RWMutex
	adapter       TranslationAdapter
	translations  map[string]map[string]any
	defaultLang   string
	fallbackToKey bool
	logMissing    bool
	logger        *slog.Logger
}

// NewTranslator loads translations from adapter.
func NewTranslator(ctx context.Context, adapter TranslationAdapter, opts ...Option) (*Translator, error) {
	if adapter == nil {
		return nil, ErrNilAdapter
	}

	t := &Translator{
		adapter:       adapter,
		defaultLang:   DefaultLanguage,
		fallbackToKey: true,
		logger:        slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}

	if err := t.Reload(ctx); err != nil {
		return nil, err
	}
	return t, nil
}

// Reload replaces the loaded translations with a fresh copy from the adapter.
// On error the previous translations stay in place.
func (t *Translator) Reload(ctx context.Context) error {
	trans, err := t.adapter.Load(ctx)
	if err != nil {
		return err
	}
	for lang, m := range trans {
		if lang == "" {
			return ErrEmptyLanguage
		}
		if m == nil {
			return fmt.Errorf("%w: %s has no messages", ErrFailedToParse, lang)
		}
	}

	t.mu.Lock()
	t.translations = trans
	t.mu.Unlock()

	t.logger.LogAttrs(ctx, slog.LevelDebug, "translations loaded",
		slog.Any("languages", t.SupportedLanguages()),
	)
	return nil
}

// SupportedLanguages returns the loaded language codes, sorted.
func (t *Translator) SupportedLanguages() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()

	langs := make([]string, 0, len(t.translations))
	for lang := range t.translations {
		langs = append(langs, lang)
	}
	slices.Sort(langs)
	return langs
}

// HasTranslation reports whether lang itself has a message for key.
func (t *Translator) HasTranslation(lang, key string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	_, ok := lookup(t.translations[lang], key)
	return ok
}

// T translates key for lang, filling placeholders from name, value pairs in
// args. The lookup tries lang, then its base language ("pt" for "pt-BR"),
// then the default language. When all miss the interpolated key is returned,
// or "" if fallback to key is disabled.
//
//	// en: {welcome: "Hello, %{name}!"}
//	tr.T("en-GB", "welcome", "name", "John") // "Hello, John!"
func (t *Translator) T(lang, key string, args ...string) string {
	if s, ok := t.find(lang, key); ok {
		return interpolate(s, args)
	}
	return t.missing(lang, key, args)
}

// Td is T with an explicit fallback template instead of the key.
func (t *Translator) Td(lang, key, fallback string, args ...string) string {
	if s, ok := t.find(lang, key); ok {
		return interpolate(s, args)
	}
	return interpolate(fallback, args)
}

// N translates a pluralized key. The form is picked from n: key.zero (then
// key.other) for 0, key.one for 1, key.other otherwise, and key itself last.
// A "count" parameter holding n is added unless args has one.
func (t *Translator) N(lang, key string, n int, args ...string) string {
	if !hasParam(args, "count") {
		args = append(slices.Clone(args), "count", strconv.Itoa(n))
	}

	var forms []string
	switch n {
	case 0:
		forms = []string{".zero", ".other"}
	case 1:
		forms = []string{".one"}
	default:
		forms = []string{".other"}
	}
	for _, f := range append(forms, "") {
		if s, ok := t.find(lang, key+f); ok {
			return interpolate(s, args)
		}
	}
	return t.missing(lang, key, args)
}

// Tc translates key for the locale stored in ctx with SetLocale.
func (t *Translator) Tc(ctx context.Context, key string, args ...string) string {
	return t.T(GetLocale(ctx), key, args...)
}

// Nc is N for the locale stored in ctx.
func (t *Translator) Nc(ctx context.Context, key string, n int, args ...string) string {
	return t.N(GetLocale(ctx), key, n, args...)
}

func (t *Translator) find(lang, key string) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for _, l := range t.candidates(lang) {
		v, ok := lookup(t.translations[l], key)
		if !ok {
			continue
		}
		switch s := v.(type) {
		case string:
			return s, true
		case fmt.Stringer:
			return s.String(), true
		}
	}
	return "", false
}

// candidates lists the languages tried for lang: lang itself, its
// canonical BCP 47 form, its base language and the default language.
func (t *Translator) candidates(lang string) []string {
	out := make([]string, 0, 4)
	add := func(l string) {
		if l != "" && !slices.Contains(out, l) {
			out = append(out, l)
		}
	}

	add(lang)
	if tag, err := language.Parse(lang); err == nil {
		add(tag.String())
		if base, conf := tag.Base(); conf != language.No {
			add(base.String())
		}
	} else if base, _, ok := strings.Cut(strings.ReplaceAll(lang, "_", "-"), "-"); ok {
		add(base)
	}
	add(t.defaultLang)
	return out
}

func (t *Translator) missing(lang, key string, args []string) string {
	if t.logMissing {
		t.logger.Warn("translation not found", slog.String("lang", lang), slog.String("key", key))
	}
	if t.fallbackToKey {
		return interpolate(key, args)
	}
	return ""
}

// lookup walks m along the dot separated parts of key.
func lookup(m map[string]any, key string) (any, bool) {
	if m == nil {
		return nil, false
	}
	if v, ok := m[key]; ok {
		return v, true
	}

	var cur any = m
	for part := range strings.SplitSeq(key, ".") {
		switch node := cur.(type) {
		case map[string]any:
			v, ok := node[part]
			if !ok {
				return nil, false
			}
			cur = v
		case map[any]any:
			v, ok := node[part]
			if !ok {
				return nil, false
			}
			cur = v
		default:
			return nil, false
		}
	}
	return cur, true
}

var paramRegex = regexp.MustCompile(`%\{([^}]+)\}`)

func interpolate(tmpl string, args []string) string {
	if len(args) < 2 || !strings.Contains(tmpl, "%{") {
		return tmpl
	}
	params := make(map[string]string, len(args)/2)
	for i := 0; i+1 < len(args); i += 2 {
		params[args[i]] = args[i+1]
	}
	return paramRegex.ReplaceAllStringFunc(tmpl, func(match string) string {
		if v, ok := params[match[2:len(match)-1]]; ok {
			return v
		}
		return match
	})
}

func hasParam(args []string, name string) bool {
	for i := 0; i+1 < len(args); i += 2 {
		if args[i] == name {
			return true
		}
	}
	return false
}
