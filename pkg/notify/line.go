package notify

import (
	"regexp"

	"github.com/dmitrymomot/usernotify/pkg/sanitizer"
)

// Translator expands a template key for a locale. Parameters are passed as
// name, value pairs and referenced in templates as %{name}.
// *i18n.Translator satisfies this interface.
type Translator interface {
	T(lang, key string, args ...string) string
}

// Param is a named template parameter.
type Param struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Line is a single translatable sentence: a template key plus its parameters.
type Line struct {
	Template string  `json:"template"`
	Params   []Param `json:"params,omitempty"`
}

// NewLine creates a Line from a template and name, value pairs. Values are
// passed through sanitizer.EscapeMarkdown; a trailing name without a value is
// dropped.
func NewLine(template string, kv ...string) Line {
	l := Line{Template: template}
	for i := 0; i+1 < len(kv); i += 2 {
		l.Params = append(l.Params, Param{Name: kv[i], Value: sanitizer.EscapeMarkdown(kv[i+1])})
	}
	return l
}

// IsZero reports whether the line has no template.
func (l Line) IsZero() bool {
	return l.Template == ""
}

// Format renders the line for locale. When tr is nil or returns an empty
// string the template itself is used as the text.
func (l Line) Format(tr Translator, locale string) string {
	args := l.args()
	if tr != nil {
		if s := tr.T(locale, l.Template, args...); s != "" {
			return s
		}
	}
	return interpolate(l.Template, l.Params)
}

func (l Line) args() []string {
	args := make([]string, 0, len(l.Params)*2)
	for _, p := range l.Params {
		args = append(args, p.Name, p.Value)
	}
	return args
}

var placeholderRegex = regexp.MustCompile(`%\{([^}]+)\}`)

// interpolate replaces %{name} placeholders; unknown placeholders are kept.
func interpolate(tmpl string, params []Param) string {
	if len(params) == 0 {
		return tmpl
	}
	return placeholderRegex.ReplaceAllStringFunc(tmpl, func(match string) string {
		name := match[2 : len(match)-1]
		for _, p := range params {
			if p.Name == name {
				return p.Value
			}
		}
		return match
	})
}
