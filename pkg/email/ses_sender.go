package email

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// SESAPI is the part of *ses.Client used by the sender.
type SESAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type sesSender struct {
	client SESAPI
	config Config
}

// NewSESSender creates an Amazon SES backed email sender.
func NewSESSender(client SESAPI, cfg Config) (EmailSender, error) {
	if client == nil {
		return nil, fmt.Errorf("%w: ses client is nil", ErrInvalidConfig)
	}
	if err := cfg.validateAddresses(); err != nil {
		return nil, err
	}
	return &sesSender{client: client, config: cfg}, nil
}

// SendEmail implements EmailSender. The tag is sent as the "tag" message tag.
func (s *sesSender) SendEmail(ctx context.Context, params SendEmailParams) error {
	if err := params.Validate(); err != nil {
		return err
	}

	body := &types.Body{Html: &types.Content{Data: aws.String(params.BodyHTML), Charset: aws.String("UTF-8")}}
	if params.BodyText != "" {
		body.Text = &types.Content{Data: aws.String(params.BodyText), Charset: aws.String("UTF-8")}
	}

	input := &ses.SendEmailInput{
		Source:           aws.String(s.config.SenderEmail),
		ReplyToAddresses: []string{s.config.SupportEmail},
		Destination:      &types.Destination{ToAddresses: []string{params.SendTo}},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(params.Subject), Charset: aws.String("UTF-8")},
			Body:    body,
		},
	}
	if params.Tag != "" {
		input.Tags = []types.MessageTag{{Name: aws.String("tag"), Value: aws.String(params.Tag)}}
	}

	if _, err := s.client.SendEmail(ctx, input); err != nil {
		return errors.Join(ErrFailedToSendEmail, err)
	}
	return nil
}
