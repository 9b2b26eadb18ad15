// Package analytics delivers fire-and-forget product events. Sinks never
// block the caller and never report failures back.
package analytics

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// LogSink writes events to a structured logger.
type LogSink struct {
	log *slog.Logger
}

func NewLogSink(log *slog.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Track(ctx context.Context, event string, props map[string]any) {
	s.log.InfoContext(ctx, "analytics event", "event", event, "properties", props)
}

// RedisStreamSink appends events to a Redis stream with XADD.
type RedisStreamSink struct {
	client  *goredis.Client
	stream  string
	maxLen  int64
	timeout time.Duration
	log     *slog.Logger
	wg      sync.WaitGroup
}

func NewRedisStreamSink(client *goredis.Client, stream string, log *slog.Logger) *RedisStreamSink {
	if stream == "" {
		stream = "netch:analytics"
	}
	return &RedisStreamSink{
		client:  client,
		stream:  stream,
		maxLen:  100000,
		timeout: 2 * time.Second,
		log:     log,
	}
}

func (s *RedisStreamSink) Track(ctx context.Context, event string, props map[string]any) {
	payload, err := json.Marshal(props)
	if err != nil {
		s.log.Warn("analytics: encode properties", "event", event, "error", err)
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		// detached from the request; the event outlives it
		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()

		err := s.client.XAdd(sendCtx, &goredis.XAddArgs{
			Stream: s.stream,
			MaxLen: s.maxLen,
			Approx: true,
			Values: map[string]any{
				"event":      event,
				"properties": string(payload),
				"ts":         time.Now().UTC().Format(time.RFC3339Nano),
			},
		}).Err()
		if err != nil {
			s.log.Warn("analytics: xadd failed", "event", event, "stream", s.stream, "error", err)
		}
	}()
}

// Flush waits for in-flight sends; used on shutdown.
func (s *RedisStreamSink) Flush() {
	s.wg.Wait()
}

// NopSink drops everything.
type NopSink struct{}

func (NopSink) Track(context.Context, string, map[string]any) {}
