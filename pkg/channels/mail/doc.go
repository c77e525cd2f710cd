// Package mail is the email notification channel.
//
// The handler renders an envelope to HTML with Body (or a custom templ
// component), adds the plain-text rendering as the text part and hands the
// message to an email.EmailSender: Postmark, SES or the development file
// sender.
//
//	sender, err := email.NewSender(ctx, cfg.Email)
//	if err != nil {
//		return err
//	}
//	catalog.RegisterChannels(mail.New(sender, mail.WithQueue("mail")).Channel())
package mail
