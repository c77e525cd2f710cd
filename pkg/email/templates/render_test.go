package templates_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/usernotify/pkg/email/templates"
)

func TestRender(t *testing.T) {
	t.Parallel()

	html, err := templates.Render(context.Background(), templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, "<p>"+templ.EscapeString("a < b")+"</p>")
		return err
	}))
	require.NoError(t, err)
	assert.Equal(t, "<p>a &lt; b</p>", html)

	boom := errors.New("boom")
	_, err = templates.Render(context.Background(), templ.ComponentFunc(func(context.Context, io.Writer) error { return boom }))
	assert.ErrorIs(t, err, boom)
}
