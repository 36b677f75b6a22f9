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

// WhatsAppProcessor processes WhatsApp batch payloads. The WhatsApp Business
// API tolerates far less throughput than SMS gateways, so pacing is pinned to
// a conservative fixed rate regardless of what the payload asks for.
type WhatsAppProcessor struct {
	sender sender.WhatsAppSender
	logger zerolog.Logger
}

// NewWhatsAppProcessor constructs a WhatsApp batch processor.
func NewWhatsAppProcessor(s sender.WhatsAppSender, logger zerolog.Logger) (*WhatsAppProcessor, error) {
	if s == nil {
		return nil, errors.New("whatsapp processor: sender dependency is required")
	}
	if reflect.ValueOf(logger).IsZero() {
		logger = zerolog.Nop()
	}
	return &WhatsAppProcessor{
		sender: s,
		logger: logger.With().Str("component", "whatsapp_processor").Logger(),
	}, nil
}

// Channel returns the channel this processor serves.
func (p *WhatsAppProcessor) Channel() models.Channel { return models.ChannelWhatsApp }

// ProcessBatch decodes and delivers one WhatsApp batch.
func (p *WhatsAppProcessor) ProcessBatch(ctx context.Context, raw []byte) (models.DispatchResult, error) {
	var payload models.WhatsAppBatchPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return models.DispatchResult{}, fmt.Errorf("whatsapp processor: decode batch payload: %w", err)
	}

	// Fixed 5 msg/s (200ms between sends), ignoring payload hints.
	limiter := rate.NewLimiter(rate.Limit(models.DefaultWhatsAppRatePerSecond), 1)

	log := p.logger.With().
		Str("batch_id", payload.BatchID).
		Str("correlation_id", payload.CorrelationID).
		Logger()
	log.Info().Int("recipients", len(payload.Recipients)).Msg("processing whatsapp batch")

	var result models.DispatchResult

	for _, rec := range payload.Recipients {
		if err := limiter.Wait(ctx); err != nil {
			return result, err
		}

		params := rec.TemplateParameters
		if len(params) == 0 && payload.WhatsAppContent != nil {
			params = payload.WhatsAppContent.DefaultTemplateParameters
		}

		msg := sender.WhatsAppMessage{
			To:         rec.WhatsApp,
			Parameters: params,
		}
		if c := payload.WhatsAppContent; c != nil {
			msg.TemplateName = c.TemplateName
			msg.TemplateLanguage = c.TemplateLanguage
			msg.Text = c.Text
		}

		if err := p.sender.SendWhatsApp(ctx, msg); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return result, err
			}
			log.Error().Err(err).Str("whatsapp", rec.WhatsApp).Msg("whatsapp send failed")
			result.Failed++
			continue
		}
		result.Success++
	}

	log.Info().Int("success", result.Success).Int("failed", result.Failed).Msg("whatsapp batch processed")
	return result, nil
}
