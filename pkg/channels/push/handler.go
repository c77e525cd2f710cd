package push

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/aws/smithy-go"

	"github.com/dmitrymomot/usernotify/pkg/awsconf"
	"github.com/dmitrymomot/usernotify/pkg/logger"
	"github.com/dmitrymomot/usernotify/pkg/notify"
	"github.com/dmitrymomot/usernotify/pkg/sanitizer"
)

// ChannelID is the conventional identifier of the push channel.
const ChannelID notify.ChannelID = "push"

const (
	// maxSubjectLength is the SNS limit for the Subject field.
	maxSubjectLength = 100
	// maxMessageLength keeps the body within mobile platform payload limits.
	maxMessageLength = 2000
)

var (
	// ErrNoTarget is returned when the user has no registered device endpoint.
	ErrNoTarget = errors.New("push: recipient has no push target")
	// ErrEndpointDisabled is returned when SNS reports the device endpoint
	// as disabled, typically after the app was uninstalled.
	ErrEndpointDisabled = errors.New("push: endpoint disabled")
	// ErrPublishFailed wraps any other SNS publish error.
	ErrPublishFailed = errors.New("push: failed to publish message")
	// ErrInvalidOptions is returned by New when a required dependency is
	// missing.
	ErrInvalidOptions = errors.New("push: invalid options")
)

// cleanSubject turns a rendered subject into a single plain-text line that
// fits the SNS Subject field.
var cleanSubject = sanitizer.Compose(
	sanitizer.StripHTML,
	sanitizer.SingleLine,
	func(s string) string { return sanitizer.MaxLength(s, maxSubjectLength) },
)

// SNSAPI is the part of *sns.Client used by the handler.
type SNSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// TargetResolver returns the SNS endpoint or topic ARN a user's push
// notifications go to, or "" when there is none.
type TargetResolver interface {
	PushTarget(ctx context.Context, userID string) (string, error)
}

// TargetResolverFunc adapts a function to TargetResolver.
type TargetResolverFunc func(ctx context.Context, userID string) (string, error)

func (f TargetResolverFunc) PushTarget(ctx context.Context, userID string) (string, error) {
	return f(ctx, userID)
}

// UserIDPlaceholder is replaced with the recipient's ID by TemplateResolver.
const UserIDPlaceholder = "{user_id}"

// TemplateResolver builds the target from tmpl by substituting
// UserIDPlaceholder, e.g. "arn:aws:sns:eu-west-1:123:endpoint/APNS/app/{user_id}".
// An empty tmpl resolves every user to "", so sends fail with ErrNoTarget.
func TemplateResolver(tmpl string) TargetResolver {
	return TargetResolverFunc(func(_ context.Context, userID string) (string, error) {
		if tmpl == "" || userID == "" {
			return "", nil
		}
		return strings.ReplaceAll(tmpl, UserIDPlaceholder, userID), nil
	})
}

// Config configures the SNS client.
type Config struct {
	AWS            awsconf.Config `envPrefix:"PUSH_"`
	Queue          string         `env:"PUSH_QUEUE" envDefault:"push"`
	TargetTemplate string         `env:"PUSH_TARGET_TEMPLATE"`
}

// NewSNSClient creates an SNS client from cfg.
func NewSNSClient(ctx context.Context, cfg Config, opts ...awsconf.Option) (*sns.Client, error) {
	awsCfg, err := awsconf.Load(ctx, cfg.AWS, opts...)
	if err != nil {
		return nil, err
	}
	return sns.NewFromConfig(awsCfg), nil
}

// Handler publishes envelopes to SNS mobile endpoints.
type Handler struct {
	notify.HandlerBase
	client  SNSAPI
	targets TargetResolver
	logger  *slog.Logger
}

// Option configures a Handler.
type Option func(*Handler)

// WithQueue delivers pushes through the named queue.
func WithQueue(name string) Option {
	return func(h *Handler) {
		h.QueueName = name
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.logger = l
		}
	}
}

// New creates a push channel handler.
func New(client SNSAPI, targets TargetResolver, opts ...Option) (*Handler, error) {
	if client == nil || targets == nil {
		return nil, fmt.Errorf("%w: client and target resolver are required", ErrInvalidOptions)
	}
	h := &Handler{client: client, targets: targets, logger: slog.Default()}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

// Channel returns the catalog entry for this handler.
func (h *Handler) Channel() notify.Channel {
	return notify.Channel{ID: ChannelID, Title: "Push", Handler: h}
}

// Send publishes the plain-text body with the subject as a single line.
func (h *Handler) Send(ctx context.Context, env *notify.Envelope) error {
	target, err := h.targets.PushTarget(ctx, env.Recipient.ID)
	if err != nil {
		return fmt.Errorf("resolve push target: %w", err)
	}
	if target == "" {
		return ErrNoTarget
	}

	subject := cleanSubject(env.Subject)
	input := &sns.PublishInput{
		TargetArn: aws.String(target),
		Message:   aws.String(sanitizer.MaxLength(env.PlainText(), maxMessageLength)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"notification_type": {DataType: aws.String("String"), StringValue: aws.String(string(env.Type))},
		},
	}
	if subject != "" {
		input.Subject = aws.String(subject)
	}

	out, err := h.client.Publish(ctx, input)
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "EndpointDisabled" {
			return errors.Join(ErrEndpointDisabled, err)
		}
		return errors.Join(ErrPublishFailed, err)
	}

	h.logger.LogAttrs(ctx, slog.LevelDebug, "push notification published",
		logger.MessageID(aws.ToString(out.MessageId)),
		logger.UserID(env.Recipient.ID),
		logger.NotificationType(string(env.Type)),
	)
	return nil
}
