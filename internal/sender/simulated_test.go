package sender_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ajayykmr/notification-service-go/internal/sender"
)

func TestSimulatedSendsSucceed(t *testing.T) {
	s := sender.NewSimulated(zerolog.Nop(), sender.WithLatency(0))
	ctx := context.Background()

	if err := s.SendEmail(ctx, sender.EmailMessage{To: []string{"a@example.com"}, Subject: "hi"}); err != nil {
		t.Fatalf("SendEmail() error = %v", err)
	}
	if err := s.SendSMS(ctx, sender.SMSMessage{Phone: "+14155550001", Message: "hi"}); err != nil {
		t.Fatalf("SendSMS() error = %v", err)
	}
	if err := s.SendWhatsApp(ctx, sender.WhatsAppMessage{To: "+14155550001", TemplateName: "t"}); err != nil {
		t.Fatalf("SendWhatsApp() error = %v", err)
	}
}

func TestSimulatedHonoursCancellation(t *testing.T) {
	s := sender.NewSimulated(zerolog.Nop(), sender.WithLatency(5*time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := s.SendEmail(ctx, sender.EmailMessage{To: []string{"a@example.com"}})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if time.Since(start) > time.Second {
		t.Fatalf("cancelled send must not wait out the latency")
	}
}

func TestSimulatedAppliesLatency(t *testing.T) {
	s := sender.NewSimulated(zerolog.Nop(), sender.WithLatency(50*time.Millisecond))

	start := time.Now()
	if err := s.SendSMS(context.Background(), sender.SMSMessage{Phone: "+14155550001"}); err != nil {
		t.Fatalf("SendSMS() error = %v", err)
	}
	if elapsed := time.Since(start); elapsed < 40*time.Millisecond {
		t.Fatalf("latency was not applied, send took %v", elapsed)
	}
}
