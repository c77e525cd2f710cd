package awsconf

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
)

var (
	ErrMissingRegion      = errors.New("awsconf: region is required")
	ErrFailedToLoadConfig = errors.New("awsconf: failed to load AWS config")
)

// Config holds the AWS settings shared by the SES and SNS clients.
// Static keys are optional; without them the default credential chain is used.
type Config struct {
	Region          string `env:"AWS_REGION" envDefault:"us-east-1"`
	AccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	SecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`
	// Endpoint points the clients at an AWS compatible service, e.g. LocalStack.
	Endpoint string `env:"AWS_ENDPOINT_URL"`
}

// Option adds a config.LoadOptions modifier.
type Option func(*[]func(*config.LoadOptions) error)

// WithHTTPClient sets the HTTP client used by the SDK.
func WithHTTPClient(c *http.Client) Option {
	return func(opts *[]func(*config.LoadOptions) error) {
		if c != nil {
			*opts = append(*opts, config.WithHTTPClient(c))
		}
	}
}

// WithLoadOption appends a raw SDK load option.
func WithLoadOption(o func(*config.LoadOptions) error) Option {
	return func(opts *[]func(*config.LoadOptions) error) {
		*opts = append(*opts, o)
	}
}

// LoadOptions translates cfg into SDK load options.
func LoadOptions(cfg Config, opts ...Option) []func(*config.LoadOptions) error {
	out := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		out = append(out, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	if cfg.Endpoint != "" {
		out = append(out, config.WithBaseEndpoint(cfg.Endpoint))
	}
	for _, opt := range opts {
		opt(&out)
	}
	return out
}

// Load builds an aws.Config from cfg.
func Load(ctx context.Context, cfg Config, opts ...Option) (aws.Config, error) {
	if cfg.Region == "" {
		return aws.Config{}, ErrMissingRegion
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, LoadOptions(cfg, opts...)...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("%w: %v", ErrFailedToLoadConfig, err)
	}
	return awsCfg, nil
}
