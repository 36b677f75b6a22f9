// Package dispatch routes batch payloads to their channel topics and shields
// callers from publish failures via the dead-letter fallback.
package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ajayykmr/notification-service-go/internal/models"
)

// SyncProducer captures the subset of producer behaviour the dispatcher needs.
type SyncProducer interface {
	PublishSync(topic string, key []byte, headers map[string][]byte, payload []byte) error
}

// Topics enumerates the destination topics, one per channel plus the bulk
// overflow topic and the dead-letter topic.
type Topics struct {
	Email    string
	SMS      string
	WhatsApp string
	Bulk     string
	DLQ      string
}

// ForChannel returns the topic for the channel, falling back to the bulk
// overflow topic for anything unrecognised.
func (t Topics) ForChannel(ch models.Channel) string {
	switch ch {
	case models.ChannelEmail:
		return t.Email
	case models.ChannelSMS:
		return t.SMS
	case models.ChannelWhatsApp:
		return t.WhatsApp
	}
	return t.Bulk
}

// Option customises the dispatcher during construction.
type Option func(*Dispatcher)

// WithClock overrides the clock used for keys and DLQ timestamps (tests).
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) {
		if now != nil {
			d.now = now
		}
	}
}

// Dispatcher publishes batch payloads. It holds no batch-specific state and
// is safe to call concurrently from many orchestrator invocations; the only
// shared resource is the underlying producer connection. Publish never
// propagates an error past its boundary: failures are redirected to the
// dead-letter topic and surfaced as a boolean.
type Dispatcher struct {
	producer   SyncProducer
	topics     Topics
	logger     zerolog.Logger
	now        func() time.Time
	producerID string
}

// NewDispatcher constructs a Dispatcher.
func NewDispatcher(prod SyncProducer, topics Topics, logger zerolog.Logger, opts ...Option) (*Dispatcher, error) {
	if prod == nil {
		return nil, errors.New("dispatch: producer dependency is required")
	}
	if topics.DLQ == "" {
		return nil, errors.New("dispatch: dead-letter topic is required")
	}
	if reflect.ValueOf(logger).IsZero() {
		logger = zerolog.Nop()
	}

	d := &Dispatcher{
		producer:   prod,
		topics:     topics,
		logger:     logger.With().Str("component", "dispatcher").Logger(),
		now:        time.Now,
		producerID: uuid.NewString(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d, nil
}

// Publish routes the payload to its channel topic and waits for broker
// acknowledgement. When key is empty a coarse hour-bucketed key is derived
// from the channel, matching the legacy partitioning of existing consumers.
// On any publish-level failure, including a done context, the payload is
// redirected to the dead-letter topic and Publish returns false.
func (d *Dispatcher) Publish(ctx context.Context, payload models.BatchPayload, key string) bool {
	if payload == nil {
		d.logger.Error().Msg("publish called with nil payload")
		return false
	}

	if err := ctx.Err(); err != nil {
		d.logger.Warn().Err(err).
			Str("batch_id", payload.Batch()).
			Msg("publish aborted, redirecting to dead-letter topic")
		d.deadLetter(payload, err)
		return false
	}

	ch := payload.Channel()
	topic := d.topics.ForChannel(ch)
	if key == "" {
		key = fmt.Sprintf("%s_%s", ch, d.now().Format("20060102_15"))
	}

	payload.SetKafkaMetadata(models.KafkaMetadata{
		SentAt:      d.now(),
		ProducerID:  d.producerID,
		Topic:       topic,
		ServiceType: ch,
	})

	data, err := json.Marshal(payload)
	if err != nil {
		d.logger.Error().Err(err).
			Str("channel", string(ch)).
			Str("batch_id", payload.Batch()).
			Msg("payload serialization failed")
		d.deadLetter(payload, err)
		return false
	}

	headers := map[string][]byte{
		"content-type": []byte("application/json"),
	}

	if err := d.producer.PublishSync(topic, []byte(key), headers, data); err != nil {
		d.logger.Error().Err(err).
			Str("topic", topic).
			Str("batch_id", payload.Batch()).
			Str("correlation_id", payload.Correlation()).
			Msg("publish failed, redirecting to dead-letter topic")
		d.deadLetter(payload, err)
		return false
	}

	d.logger.Info().
		Str("topic", topic).
		Str("key", key).
		Str("batch_id", payload.Batch()).
		Msg("batch published")
	return true
}

// deadLetter writes the failed payload to the DLQ topic with error context.
// A DLQ write failure is logged and swallowed: the caller already sees the
// publish as failed.
func (d *Dispatcher) deadLetter(payload models.BatchPayload, cause error) {
	record := models.DLQRecord{
		OriginalPayload: payload,
		ServiceType:     payload.Channel(),
		Error:           cause.Error(),
		FailedAt:        d.now(),
		RetryCount:      0,
	}

	data, err := json.Marshal(record)
	if err != nil {
		d.logger.Error().Err(err).
			Str("batch_id", payload.Batch()).
			Msg("failed to marshal dead-letter record")
		return
	}

	key := fmt.Sprintf("dlq_%s_%d", payload.Channel(), d.now().Unix())
	if err := d.producer.PublishSync(d.topics.DLQ, []byte(key), nil, data); err != nil {
		d.logger.Error().Err(err).
			Str("batch_id", payload.Batch()).
			Msg("failed to write dead-letter record")
		return
	}

	d.logger.Warn().
		Str("channel", string(payload.Channel())).
		Str("batch_id", payload.Batch()).
		Msg("batch redirected to dead-letter topic")
}
