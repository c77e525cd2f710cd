package email

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/ses"

	"github.com/dmitrymomot/usernotify/pkg/awsconf"
)

// Provider names an email backend.
type Provider string

const (
	ProviderPostmark Provider = "postmark"
	ProviderSES      Provider = "ses"
	ProviderDev      Provider = "dev"
)

// Config selects and configures the email backend.
type Config struct {
	Provider             Provider `env:"EMAIL_PROVIDER" envDefault:"dev"`
	PostmarkServerToken  string   `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string   `env:"POSTMARK_ACCOUNT_TOKEN"`
	SenderEmail          string   `env:"SENDER_EMAIL,required"`
	SupportEmail         string   `env:"SUPPORT_EMAIL,required"`
	// DevDir is where the dev provider writes messages.
	DevDir string         `env:"EMAIL_DEV_DIR" envDefault:"./tmp/emails"`
	AWS    awsconf.Config `envPrefix:"EMAIL_"`
}

func (c Config) validateAddresses() error {
	if !ValidAddress(c.SenderEmail) {
		return fmt.Errorf("%w: SenderEmail must be a valid email address", ErrInvalidConfig)
	}
	if !ValidAddress(c.SupportEmail) {
		return fmt.Errorf("%w: SupportEmail must be a valid email address", ErrInvalidConfig)
	}
	return nil
}

// NewSender builds the sender selected by cfg.Provider.
func NewSender(ctx context.Context, cfg Config) (EmailSender, error) {
	switch cfg.Provider {
	case ProviderPostmark:
		return NewPostmarkClient(cfg)
	case ProviderSES:
		awsCfg, err := awsconf.Load(ctx, cfg.AWS)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		return NewSESSender(ses.NewFromConfig(awsCfg), cfg)
	case ProviderDev, "":
		return NewDevSender(cfg.DevDir), nil
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", ErrInvalidConfig, cfg.Provider)
	}
}
