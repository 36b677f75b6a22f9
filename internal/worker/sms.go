package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/ajayykmr/notification-service-go/internal/models"
	"github.com/ajayykmr/notification-service-go/internal/sender"
)

// SMSProcessor processes SMS batch payloads, pacing sends with the payload's
// rate-limit hint. The limiter delays the start of every send after the
// first, so a batch never ends with a trailing delay.
type SMSProcessor struct {
	sender sender.SMSSender
	logger zerolog.Logger
}

// NewSMSProcessor constructs an SMS batch processor.
func NewSMSProcessor(s sender.SMSSender, logger zerolog.Logger) (*SMSProcessor, error) {
	if s == nil {
		return nil, errors.New("sms processor: sender dependency is required")
	}
	if reflect.ValueOf(logger).IsZero() {
		logger = zerolog.Nop()
	}
	return &SMSProcessor{
		sender: s,
		logger: logger.With().Str("component", "sms_processor").Logger(),
	}, nil
}

// Channel returns the channel this processor serves.
func (p *SMSProcessor) Channel() models.Channel { return models.ChannelSMS }

// ProcessBatch decodes and delivers one SMS batch.
func (p *SMSProcessor) ProcessBatch(ctx context.Context, raw []byte) (models.DispatchResult, error) {
	var payload models.SMSBatchPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return models.DispatchResult{}, fmt.Errorf("sms processor: decode batch payload: %w", err)
	}

	ratePerSec := payload.RateLimitPerSecond
	if ratePerSec <= 0 {
		ratePerSec = models.DefaultSMSRatePerSecond
	}
	limiter := rate.NewLimiter(rate.Limit(ratePerSec), 1)

	log := p.logger.With().
		Str("batch_id", payload.BatchID).
		Str("correlation_id", payload.CorrelationID).
		Logger()
	log.Info().
		Int("recipients", len(payload.Recipients)).
		Int("rate_per_second", ratePerSec).
		Msg("processing sms batch")

	var result models.DispatchResult

	for _, rec := range payload.Recipients {
		if err := limiter.Wait(ctx); err != nil {
			return result, err
		}

		message := rec.PersonalizedMessage
		if message == "" && payload.SMSContent != nil {
			message = payload.SMSContent.Message
		}

		msg := sender.SMSMessage{
			Phone:   rec.Phone,
			Message: message,
		}
		if payload.SMSContent != nil {
			msg.SenderID = payload.SMSContent.SenderID
		}

		if err := p.sender.SendSMS(ctx, msg); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return result, err
			}
			log.Error().Err(err).Str("phone", rec.Phone).Msg("sms send failed")
			result.Failed++
			continue
		}
		result.Success++
	}

	log.Info().Int("success", result.Success).Int("failed", result.Failed).Msg("sms batch processed")
	return result, nil
}
