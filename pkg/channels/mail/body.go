package mail

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/usernotify/pkg/notify"
)

// Body renders env as a complete HTML document. Text is escaped and action
// URLs pass through templ's URL sanitizer.
func Body(env *notify.Envelope) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var sb strings.Builder
		sb.WriteString(`<!DOCTYPE html><html lang="`)
		sb.WriteString(templ.EscapeString(env.Locale))
		sb.WriteString(`"><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>`)
		sb.WriteString(templ.EscapeString(env.Subject))
		sb.WriteString(`</title></head><body><div class="content">`)
		if env.Title != "" {
			sb.WriteString(`<h1>`)
			sb.WriteString(templ.EscapeString(env.Title))
			sb.WriteString(`</h1>`)
		}
		for _, b := range env.Blocks {
			writeBlock(&sb, b)
		}
		sb.WriteString(`</div></body></html>`)

		_, err := io.WriteString(w, sb.String())
		return err
	})
}

func writeBlock(sb *strings.Builder, b notify.Block) {
	if b.Kind == notify.BlockAction {
		sb.WriteString(`<p class="action"><a class="button" href="`)
		sb.WriteString(templ.EscapeString(string(templ.URL(b.URL))))
		sb.WriteString(`">`)
		sb.WriteString(templ.EscapeString(b.Text()))
		sb.WriteString(`</a></p>`)
		return
	}

	if b.Component != notify.ComponentNone {
		sb.WriteString(`<div class="`)
		sb.WriteString(templ.EscapeString(string(b.Component)))
		sb.WriteString(`">`)
	}
	if b.Glue {
		escaped := make([]string, len(b.Lines))
		for i, l := range b.Lines {
			escaped[i] = templ.EscapeString(l)
		}
		sb.WriteString(`<p>`)
		sb.WriteString(strings.Join(escaped, `<br>`))
		sb.WriteString(`</p>`)
	} else {
		for _, l := range b.Lines {
			sb.WriteString(`<p>`)
			sb.WriteString(templ.EscapeString(l))
			sb.WriteString(`</p>`)
		}
	}
	if b.Component != notify.ComponentNone {
		sb.WriteString(`</div>`)
	}
}
