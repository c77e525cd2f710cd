package mail_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/usernotify/pkg/channels/mail"
	"github.com/dmitrymomot/usernotify/pkg/email"
	"github.com/dmitrymomot/usernotify/pkg/email/templates"
	"github.com/dmitrymomot/usernotify/pkg/notify"
)

type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendEmail(ctx context.Context, params email.SendEmailParams) error {
	return m.Called(ctx, params).Error(0)
}

func envelope() *notify.Envelope {
	return &notify.Envelope{
		ID:        "e1",
		Recipient: notify.Recipient{ID: "u1", Name: "Ann", Email: "ann@example.com"},
		Type:      "password_changed",
		Channel:   mail.ChannelID,
		Locale:    "en",
		Subject:   "Password changed",
		Title:     "Your password was changed",
		Blocks: []notify.Block{
			{Kind: notify.BlockText, Glue: true, Lines: []string{"Hello Ann,", "your password <was> changed."}},
			{Kind: notify.BlockText, Component: notify.ComponentSubcopy, Lines: []string{"Not you?"}},
			{Kind: notify.BlockAction, Lines: []string{"Reset password"}, URL: "https://example.com/reset?a=1&b=2"},
		},
	}
}

func TestBody(t *testing.T) {
	t.Parallel()

	html, err := templates.Render(context.Background(), mail.Body(envelope()))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(html, `<!DOCTYPE html><html lang="en">`))
	assert.Contains(t, html, `<title>Password changed</title>`)
	assert.Contains(t, html, `<h1>Your password was changed</h1>`)
	assert.Contains(t, html, `<p>Hello Ann,<br>your password &lt;was&gt; changed.</p>`)
	assert.Contains(t, html, `<div class="subcopy"><p>Not you?</p></div>`)
	assert.Contains(t, html, `<a class="button" href="https://example.com/reset?a=1&amp;b=2">Reset password</a>`)
}

func TestBody_UnsafeURL(t *testing.T) {
	t.Parallel()

	env := &notify.Envelope{Blocks: []notify.Block{
		{Kind: notify.BlockAction, Lines: []string{"Click"}, URL: "javascript:alert(1)"},
	}}
	html, err := templates.Render(context.Background(), mail.Body(env))
	require.NoError(t, err)
	assert.NotContains(t, html, "javascript:")
	assert.Contains(t, html, "about:invalid")
}

func TestHandler_Send(t *testing.T) {
	t.Parallel()

	t.Run("sends html and text parts", func(t *testing.T) {
		t.Parallel()

		sender := &MockEmailSender{}
		sender.On("SendEmail", mock.Anything, mock.MatchedBy(func(p email.SendEmailParams) bool {
			return p.SendTo == "ann@example.com" &&
				p.Subject == "Password changed" &&
				p.Tag == "password_changed" &&
				strings.Contains(p.BodyHTML, "<h1>Your password was changed</h1>") &&
				p.BodyText == "Hello Ann,\nyour password <was> changed.\n\nNot you?\n\nReset password: https://example.com/reset?a=1&b=2"
		})).Return(nil)

		require.NoError(t, mail.New(sender).Send(context.Background(), envelope()))
		sender.AssertExpectations(t)
	})

	t.Run("recipient without address", func(t *testing.T) {
		t.Parallel()

		sender := &MockEmailSender{}
		env := envelope()
		env.Recipient.Email = ""

		err := mail.New(sender).Send(context.Background(), env)
		assert.ErrorIs(t, err, mail.ErrNoAddress)
		sender.AssertNotCalled(t, "SendEmail", mock.Anything, mock.Anything)
	})

	t.Run("provider error", func(t *testing.T) {
		t.Parallel()

		sender := &MockEmailSender{}
		sender.On("SendEmail", mock.Anything, mock.Anything).Return(email.ErrFailedToSendEmail)

		err := mail.New(sender).Send(context.Background(), envelope())
		assert.ErrorIs(t, err, email.ErrFailedToSendEmail)
	})

	t.Run("custom template", func(t *testing.T) {
		t.Parallel()

		sender := &MockEmailSender{}
		sender.On("SendEmail", mock.Anything, mock.MatchedBy(func(p email.SendEmailParams) bool {
			return p.BodyHTML == "<p>custom</p>"
		})).Return(nil)

		h := mail.New(sender, mail.WithTemplate(func(*notify.Envelope) templ.Component {
			return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
				_, err := io.WriteString(w, "<p>custom</p>")
				return err
			})
		}))
		require.NoError(t, h.Send(context.Background(), envelope()))
		sender.AssertExpectations(t)
	})

	t.Run("template error", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("boom")
		h := mail.New(&MockEmailSender{}, mail.WithTemplate(func(*notify.Envelope) templ.Component {
			return templ.ComponentFunc(func(context.Context, io.Writer) error { return boom })
		}))
		assert.ErrorIs(t, h.Send(context.Background(), envelope()), boom)
	})
}

func TestHandler_ChannelAndMiddleware(t *testing.T) {
	t.Parallel()

	sender := &MockEmailSender{}
	var skipped []string
	skipUnverified := func(next notify.SendFunc) notify.SendFunc {
		return func(ctx context.Context, env *notify.Envelope) error {
			if strings.HasSuffix(env.Recipient.Email, "@unverified.test") {
				skipped = append(skipped, env.Recipient.ID)
				return nil
			}
			return next(ctx, env)
		}
	}

	h := mail.New(sender, mail.WithQueue("mail"), mail.WithMiddleware(skipUnverified))
	ch := h.Channel()
	assert.Equal(t, mail.ChannelID, ch.ID)
	assert.Equal(t, "mail", ch.QueueName())

	env := envelope()
	env.Recipient.Email = "bob@unverified.test"
	require.NoError(t, notify.Deliver(context.Background(), h, env))
	assert.Equal(t, []string{"u1"}, skipped)
	sender.AssertNotCalled(t, "SendEmail", mock.Anything, mock.Anything)
}
