// Package opensearch creates OpenSearch clients from environment
// configuration and exposes a cluster health check.
//
// The client is used by the log-event notification channel to index
// delivery events into Config.EventsIndex.
//
//	var cfg opensearch.Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
//	client, err := opensearch.New(ctx, cfg)
//	if err != nil {
//		// errors.Is(err, opensearch.ErrHealthcheckFailed)
//	}
//	sink := logevent.NewOpenSearchSink(client, cfg.EventsIndex)
//
// MaxRetries and DisableRetry map directly to the opensearch-go client.
package opensearch
