package email_test

import (
	"context"
	"errors"
	"testing"

	"github.com/mrz1836/postmark"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/usernotify/pkg/email"
)

type MockPostmark struct {
	mock.Mock
}

func (m *MockPostmark) SendEmail(ctx context.Context, e postmark.Email) (postmark.EmailResponse, error) {
	args := m.Called(ctx, e)
	return args.Get(0).(postmark.EmailResponse), args.Error(1)
}

func postmarkConfig() email.Config {
	return email.Config{
		PostmarkServerToken:  "server",
		PostmarkAccountToken: "account",
		SenderEmail:          "noreply@example.com",
		SupportEmail:         "support@example.com",
	}
}

func TestNewPostmarkClient(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		modify func(c *email.Config)
		errMsg string
	}{
		{name: "valid", modify: func(c *email.Config) {}},
		{name: "no server token", modify: func(c *email.Config) { c.PostmarkServerToken = "" }, errMsg: "PostmarkServerToken"},
		{name: "no account token", modify: func(c *email.Config) { c.PostmarkAccountToken = "" }, errMsg: "PostmarkAccountToken"},
		{name: "bad sender", modify: func(c *email.Config) { c.SenderEmail = "nope" }, errMsg: "SenderEmail"},
		{name: "bad support", modify: func(c *email.Config) { c.SupportEmail = "" }, errMsg: "SupportEmail"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := postmarkConfig()
			tt.modify(&cfg)
			client, err := email.NewPostmarkClient(cfg)
			if tt.errMsg == "" {
				require.NoError(t, err)
				assert.NotNil(t, client)
				return
			}
			assert.Nil(t, client)
			assert.ErrorIs(t, err, email.ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}

	assert.Panics(t, func() { email.MustNewPostmarkClient(email.Config{}) })
}

func TestPostmarkSender_SendEmail(t *testing.T) {
	t.Parallel()

	t.Run("maps params", func(t *testing.T) {
		t.Parallel()

		api := &MockPostmark{}
		api.On("SendEmail", mock.Anything, mock.MatchedBy(func(e postmark.Email) bool {
			return e.From == "noreply@example.com" &&
				e.ReplyTo == "support@example.com" &&
				e.To == "user@example.com" &&
				e.TextBody == "plain" &&
				e.TrackOpens
		})).Return(postmark.EmailResponse{}, nil)

		sender, err := email.NewPostmarkSender(api, postmarkConfig())
		require.NoError(t, err)

		p := validParams()
		p.BodyText = "plain"
		require.NoError(t, sender.SendEmail(context.Background(), p))
		api.AssertExpectations(t)
	})

	t.Run("api error", func(t *testing.T) {
		t.Parallel()

		api := &MockPostmark{}
		api.On("SendEmail", mock.Anything, mock.Anything).Return(postmark.EmailResponse{}, errors.New("timeout"))

		sender, err := email.NewPostmarkSender(api, postmarkConfig())
		require.NoError(t, err)
		assert.ErrorIs(t, sender.SendEmail(context.Background(), validParams()), email.ErrFailedToSendEmail)
	})

	t.Run("error code in response", func(t *testing.T) {
		t.Parallel()

		api := &MockPostmark{}
		api.On("SendEmail", mock.Anything, mock.Anything).Return(postmark.EmailResponse{ErrorCode: 406, Message: "inactive recipient"}, nil)

		sender, err := email.NewPostmarkSender(api, postmarkConfig())
		require.NoError(t, err)
		err = sender.SendEmail(context.Background(), validParams())
		assert.ErrorIs(t, err, email.ErrFailedToSendEmail)
		assert.Contains(t, err.Error(), "406")
	})

	t.Run("invalid params never reach the api", func(t *testing.T) {
		t.Parallel()

		api := &MockPostmark{}
		sender, err := email.NewPostmarkSender(api, postmarkConfig())
		require.NoError(t, err)
		assert.ErrorIs(t, sender.SendEmail(context.Background(), email.SendEmailParams{}), email.ErrInvalidParams)
		api.AssertNotCalled(t, "SendEmail", mock.Anything, mock.Anything)
	})
}
