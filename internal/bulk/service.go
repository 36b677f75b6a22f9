package bulk

import (
	"context"
	"errors"
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/ajayykmr/notification-service-go/internal/models"
)

// Publisher publishes one batch payload to its channel topic and reports
// whether the broker accepted it. Publish failures are handled inside the
// publisher (dead-letter fallback); the orchestrator only sees the boolean.
type Publisher interface {
	Publish(ctx context.Context, payload models.BatchPayload, key string) bool
}

// Option customises the orchestrator during construction.
type Option func(*Service)

// WithClock overrides the clock used for completion estimation (tests).
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides notification id generation (tests).
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// Service orchestrates one bulk request through classification, batch
// planning, payload building and publication. It is safe for concurrent use:
// all per-request state lives on the stack and the publisher manages its own
// internal concurrency.
type Service struct {
	publisher Publisher
	logger    zerolog.Logger
	now       func() time.Time
	newID     func() string
}

// NewService constructs the bulk orchestrator.
func NewService(publisher Publisher, logger zerolog.Logger, opts ...Option) (*Service, error) {
	if publisher == nil {
		return nil, errors.New("bulk service: publisher dependency is required")
	}
	if reflect.ValueOf(logger).IsZero() {
		logger = zerolog.Nop()
	}

	s := &Service{
		publisher: publisher,
		logger:    logger.With().Str("component", "bulk_service").Logger(),
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// ProcessBulkRequest drives one bulk request end to end and returns a
// best-effort summary. A channel whose planning or building fails contributes
// zero batches; the other channels proceed. Only request-shape problems fail
// the whole call.
func (s *Service) ProcessBulkRequest(ctx context.Context, req *models.BulkRequest) (*models.BulkSummary, error) {
	if req == nil {
		return nil, errors.New("bulk service: request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	notificationID := s.newID()
	log := s.logger.With().
		Str("notification_id", notificationID).
		Str("campaign_id", req.CampaignID).
		Logger()
	log.Info().
		Int("recipients", len(req.Recipients)).
		Int("channels", len(req.Channels)).
		Msg("processing bulk notification")

	buckets := Classify(req.Recipients, req.Channels)

	summary := &models.BulkSummary{
		NotificationID:      notificationID,
		CampaignID:          req.CampaignID,
		TotalRecipients:     len(req.Recipients),
		BatchesCreated:      make(map[models.Channel]int),
		EstimatedCost:       make(map[models.Channel]float64),
		BatchesPublished:    make(map[models.Channel]int),
		BatchesDeadLettered: make(map[models.Channel]int),
	}
	plans := make(map[models.Channel]ChannelPlan)

	for _, ch := range req.Channels {
		eligible := buckets[ch]
		if len(eligible) == 0 {
			// Validated requests normally never hit this; a channel can
			// still drain between validation and planning in scheduled
			// flows. It contributes nothing and the request proceeds.
			log.Warn().Str("channel", string(ch)).Msg("no eligible recipients, skipping channel")
			continue
		}

		payloads, err := s.planChannel(ch, eligible, req, notificationID)
		if err != nil {
			log.Error().Err(err).Str("channel", string(ch)).Msg("channel planning failed, channel contributes no batches")
			continue
		}

		summary.BatchesCreated[ch] = len(payloads)
		summary.EstimatedCost[ch] = float64(len(eligible)) * models.CostRate(ch)
		plans[ch] = ChannelPlan{Batches: len(payloads), Recipients: len(eligible)}

		for _, payload := range payloads {
			if s.publisher.Publish(ctx, payload, payload.Batch()) {
				summary.BatchesPublished[ch]++
			} else {
				summary.BatchesDeadLettered[ch]++
			}
		}

		log.Info().
			Str("channel", string(ch)).
			Int("eligible", len(eligible)).
			Int("batches", len(payloads)).
			Int("published", summary.BatchesPublished[ch]).
			Int("dead_lettered", summary.BatchesDeadLettered[ch]).
			Msg("channel dispatched")
	}

	summary.EstimatedCompletionTime = EstimateCompletion(s.now(), req.Strategy, plans, req.SpreadOverMinutes)

	return summary, nil
}

// planChannel carves one channel's eligible recipients into batches and
// builds their wire payloads.
func (s *Service) planChannel(ch models.Channel, eligible []models.Recipient, req *models.BulkRequest, notificationID string) ([]models.BatchPayload, error) {
	batches := Plan(ch, eligible, req.Content, req.Strategy)

	payloads := make([]models.BatchPayload, 0, len(batches))
	for _, batch := range batches {
		payload, err := BuildPayload(batch, req, notificationID)
		if err != nil {
			return nil, err
		}
		payloads = append(payloads, payload)
	}
	return payloads, nil
}
