package logevent

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/opensearch-project/opensearch-go/v2"
	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"

	"github.com/dmitrymomot/usernotify/pkg/logger"
)

// ErrIndexFailed is returned when OpenSearch rejects or cannot receive an event.
var ErrIndexFailed = errors.New("logevent: failed to index event")

// Sink stores audit events.
type Sink interface {
	Write(ctx context.Context, ev Event) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, ev Event) error

func (f SinkFunc) Write(ctx context.Context, ev Event) error { return f(ctx, ev) }

// SlogSink writes events as structured log records at info level.
type SlogSink struct {
	Logger *slog.Logger
}

// Write implements Sink.
func (s SlogSink) Write(ctx context.Context, ev Event) error {
	l := s.Logger
	if l == nil {
		l = slog.Default()
	}

	props := make([]slog.Attr, 0, len(ev.Properties))
	for k, v := range ev.Properties {
		props = append(props, slog.String(k, v))
	}
	l.LogAttrs(ctx, slog.LevelInfo, "notification event",
		logger.Event(ev.Name),
		logger.MessageID(ev.ID),
		logger.UserID(ev.UserID),
		logger.NotificationType(ev.Type),
		slog.Bool("test", ev.Test),
		logger.Group("properties", props...),
	)
	return nil
}

// OpenSearchSink indexes events as documents keyed by event ID, so a
// retried delivery overwrites instead of duplicating.
type OpenSearchSink struct {
	client *opensearch.Client
	index  string
}

// NewOpenSearchSink creates a sink writing to index.
func NewOpenSearchSink(client *opensearch.Client, index string) *OpenSearchSink {
	return &OpenSearchSink{client: client, index: index}
}

// Write implements Sink.
func (s *OpenSearchSink) Write(ctx context.Context, ev Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	res, err := opensearchapi.IndexRequest{
		Index:      s.index,
		DocumentID: ev.ID,
		Body:       bytes.NewReader(body),
	}.Do(ctx, s.client)
	if err != nil {
		return errors.Join(ErrIndexFailed, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return errors.Join(ErrIndexFailed, fmt.Errorf("status %s", res.Status()))
	}
	return nil
}
