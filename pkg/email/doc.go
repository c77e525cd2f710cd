// Package email sends transactional email through Postmark, Amazon SES or,
// during development, a directory on disk.
//
// All senders implement EmailSender and validate SendEmailParams before
// talking to the provider. NewSender picks one from Config:
//
//	var cfg email.Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
//	sender, err := email.NewSender(ctx, cfg)
//
// Provider failures are wrapped with ErrFailedToSendEmail, bad input with
// ErrInvalidParams and bad configuration with ErrInvalidConfig.
package email
