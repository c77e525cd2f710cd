// Package push is the mobile push notification channel backed by Amazon SNS.
//
// A TargetResolver maps users to their SNS platform endpoint (or topic) ARN.
// Without a device registry, TemplateResolver builds the ARN from
// Config.TargetTemplate.
// The envelope is published as plain text, truncated to fit mobile payload
// limits, with the notification type as a message attribute.
//
//	client, err := push.NewSNSClient(ctx, cfg.Push)
//	if err != nil {
//		return err
//	}
//	h, err := push.New(client, devices, push.WithQueue(cfg.Push.Queue))
//	if err != nil {
//		return err
//	}
//	catalog.RegisterChannels(h.Channel())
package push
