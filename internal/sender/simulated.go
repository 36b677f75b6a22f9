package sender

import (
	"context"
	"reflect"
	"time"

	"github.com/rs/zerolog"
)

// Option customises the simulated sender.
type Option func(*Simulated)

// WithLatency configures the artificial latency injected before each send.
func WithLatency(d time.Duration) Option {
	return func(s *Simulated) {
		if d < 0 {
			d = 0
		}
		s.latency = d
	}
}

// Simulated implements all three channel contracts by logging a delivery line
// after a short artificial delay. It honours context cancellation so a
// stopping consumer is not held up by fake latency.
type Simulated struct {
	logger  zerolog.Logger
	latency time.Duration
}

// NewSimulated constructs a simulated sender.
func NewSimulated(logger zerolog.Logger, opts ...Option) *Simulated {
	if reflect.ValueOf(logger).IsZero() {
		logger = zerolog.Nop()
	}
	s := &Simulated{
		logger:  logger.With().Str("component", "simulated_sender").Logger(),
		latency: 50 * time.Millisecond,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// SendEmail simulates an email delivery.
func (s *Simulated) SendEmail(ctx context.Context, msg EmailMessage) error {
	if err := s.wait(ctx); err != nil {
		return err
	}
	s.logger.Info().
		Int("recipients", len(msg.To)).
		Bool("bcc", msg.UseBCC).
		Str("subject", msg.Subject).
		Msg("email sent")
	return nil
}

// SendSMS simulates an SMS delivery.
func (s *Simulated) SendSMS(ctx context.Context, msg SMSMessage) error {
	if err := s.wait(ctx); err != nil {
		return err
	}
	s.logger.Info().
		Str("phone", msg.Phone).
		Str("message", truncate(msg.Message, 50)).
		Msg("sms sent")
	return nil
}

// SendWhatsApp simulates a WhatsApp delivery.
func (s *Simulated) SendWhatsApp(ctx context.Context, msg WhatsAppMessage) error {
	if err := s.wait(ctx); err != nil {
		return err
	}
	s.logger.Info().
		Str("to", msg.To).
		Str("template", msg.TemplateName).
		Strs("parameters", msg.Parameters).
		Msg("whatsapp sent")
	return nil
}

func (s *Simulated) wait(ctx context.Context) error {
	if s.latency <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.latency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
