package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"

	"github.com/rs/zerolog"

	"github.com/ajayykmr/notification-service-go/internal/models"
	"github.com/ajayykmr/notification-service-go/internal/sender"
)

// EmailProcessor processes email batch payloads. BCC batches collapse into a
// single send call covering every recipient; otherwise each recipient gets an
// individual send with no artificial delay.
type EmailProcessor struct {
	sender sender.EmailSender
	logger zerolog.Logger
}

// NewEmailProcessor constructs an email batch processor.
func NewEmailProcessor(s sender.EmailSender, logger zerolog.Logger) (*EmailProcessor, error) {
	if s == nil {
		return nil, errors.New("email processor: sender dependency is required")
	}
	if reflect.ValueOf(logger).IsZero() {
		logger = zerolog.Nop()
	}
	return &EmailProcessor{
		sender: s,
		logger: logger.With().Str("component", "email_processor").Logger(),
	}, nil
}

// Channel returns the channel this processor serves.
func (p *EmailProcessor) Channel() models.Channel { return models.ChannelEmail }

// ProcessBatch decodes and delivers one email batch.
func (p *EmailProcessor) ProcessBatch(ctx context.Context, raw []byte) (models.DispatchResult, error) {
	var payload models.EmailBatchPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return models.DispatchResult{}, fmt.Errorf("email processor: decode batch payload: %w", err)
	}

	log := p.logger.With().
		Str("batch_id", payload.BatchID).
		Str("correlation_id", payload.CorrelationID).
		Logger()
	log.Info().Int("recipients", len(payload.Recipients)).Msg("processing email batch")

	var result models.DispatchResult

	if payload.EmailContent != nil && payload.EmailContent.UseBCC {
		if err := p.sendBCC(ctx, &payload); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return result, err
			}
			log.Error().Err(err).Int("recipients", len(payload.Recipients)).Msg("bcc email send failed")
			result.Failed = len(payload.Recipients)
		} else {
			result.Success = len(payload.Recipients)
		}
		return result, nil
	}

	for _, rec := range payload.Recipients {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if err := p.sendOne(ctx, rec, &payload); err != nil {
			log.Error().Err(err).Str("email", rec.Email).Msg("email send failed")
			result.Failed++
			continue
		}
		result.Success++
	}

	log.Info().Int("success", result.Success).Int("failed", result.Failed).Msg("email batch processed")
	return result, nil
}

func (p *EmailProcessor) sendBCC(ctx context.Context, payload *models.EmailBatchPayload) error {
	to := make([]string, 0, len(payload.Recipients))
	for _, rec := range payload.Recipients {
		if rec.Email != "" {
			to = append(to, rec.Email)
		}
	}

	msg := sender.EmailMessage{
		To:     to,
		UseBCC: true,
	}
	if c := payload.EmailContent; c != nil {
		msg.Subject = c.Subject
		msg.HTMLBody = c.HTMLBody
		msg.TextBody = c.TextBody
	}
	return p.sender.SendEmail(ctx, msg)
}

func (p *EmailProcessor) sendOne(ctx context.Context, rec models.EmailRecipient, payload *models.EmailBatchPayload) error {
	msg := sender.EmailMessage{
		To:           []string{rec.Email},
		TemplateData: rec.TemplateData,
	}
	if c := payload.EmailContent; c != nil {
		msg.Subject = c.Subject
		msg.HTMLBody = c.HTMLBody
		msg.TextBody = c.TextBody
	}
	return p.sender.SendEmail(ctx, msg)
}
