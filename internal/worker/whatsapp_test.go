package worker_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ajayykmr/notification-service-go/internal/models"
	"github.com/ajayykmr/notification-service-go/internal/sender"
	"github.com/ajayykmr/notification-service-go/internal/worker"
)

type stubWhatsAppSender struct {
	calls   []sender.WhatsAppMessage
	failFor map[string]error
}

func (s *stubWhatsAppSender) SendWhatsApp(_ context.Context, msg sender.WhatsAppMessage) error {
	s.calls = append(s.calls, msg)
	if err, ok := s.failFor[msg.To]; ok {
		return err
	}
	return nil
}

func whatsappBatch(numbers ...string) *models.WhatsAppBatchPayload {
	recipients := make([]models.WhatsAppRecipient, 0, len(numbers))
	for _, n := range numbers {
		recipients = append(recipients, models.WhatsAppRecipient{WhatsApp: n})
	}
	return &models.WhatsAppBatchPayload{
		BatchMeta: models.BatchMeta{
			ServiceType:   models.ChannelWhatsApp,
			BatchID:       "camp_whatsapp_1",
			CorrelationID: "corr-1",
		},
		Recipients: recipients,
		WhatsAppContent: &models.WhatsAppContent{
			MessageType:               "template",
			TemplateName:              "order_update",
			TemplateLanguage:          "en",
			DefaultTemplateParameters: []string{"customer", "ACME"},
		},
	}
}

func TestWhatsAppProcessorCountsPartialFailures(t *testing.T) {
	snd := &stubWhatsAppSender{failFor: map[string]error{
		"+14155550002": errors.New("template rejected"),
	}}
	p, err := worker.NewWhatsAppProcessor(snd, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewWhatsAppProcessor() error = %v", err)
	}

	raw := marshalPayload(t, whatsappBatch("+14155550001", "+14155550002"))

	result, err := p.ProcessBatch(context.Background(), raw)
	if err != nil {
		t.Fatalf("ProcessBatch() error = %v", err)
	}
	if result.Success != 1 || result.Failed != 1 {
		t.Fatalf("result = %+v, want {Success:1 Failed:1}", result)
	}
}

func TestWhatsAppProcessorParameterFallback(t *testing.T) {
	snd := &stubWhatsAppSender{}
	p, _ := worker.NewWhatsAppProcessor(snd, zerolog.Nop())

	batch := whatsappBatch("+14155550001", "+14155550002")
	batch.Recipients[0].TemplateParameters = []string{"Ann", "ACME"}

	if _, err := p.ProcessBatch(context.Background(), marshalPayload(t, batch)); err != nil {
		t.Fatalf("ProcessBatch() error = %v", err)
	}

	if got := snd.calls[0].Parameters; len(got) != 2 || got[0] != "Ann" {
		t.Fatalf("personalized parameters must win, got %v", got)
	}
	if got := snd.calls[1].Parameters; len(got) != 2 || got[0] != "customer" {
		t.Fatalf("recipients without parameters fall back to defaults, got %v", got)
	}
	if snd.calls[0].TemplateName != "order_update" || snd.calls[0].TemplateLanguage != "en" {
		t.Fatalf("template identity must be carried, got %+v", snd.calls[0])
	}
}

func TestWhatsAppProcessorPacesAtFixedRate(t *testing.T) {
	snd := &stubWhatsAppSender{}
	p, _ := worker.NewWhatsAppProcessor(snd, zerolog.Nop())

	start := time.Now()
	if _, err := p.ProcessBatch(context.Background(), marshalPayload(t, whatsappBatch("+14155550001", "+14155550002"))); err != nil {
		t.Fatalf("ProcessBatch() error = %v", err)
	}
	elapsed := time.Since(start)

	// 5 msg/s: the second send waits ~200ms, the first is immediate.
	if elapsed < 150*time.Millisecond {
		t.Fatalf("sends were not paced: took %v", elapsed)
	}
	if elapsed > time.Second {
		t.Fatalf("pacing took too long: %v", elapsed)
	}
}

func TestWhatsAppProcessorMalformedPayload(t *testing.T) {
	p, _ := worker.NewWhatsAppProcessor(&stubWhatsAppSender{}, zerolog.Nop())
	if _, err := p.ProcessBatch(context.Background(), []byte("not json")); err == nil {
		t.Fatalf("expected error for malformed payload")
	}
}

func TestWhatsAppProcessorChannel(t *testing.T) {
	p, _ := worker.NewWhatsAppProcessor(&stubWhatsAppSender{}, zerolog.Nop())
	if p.Channel() != models.ChannelWhatsApp {
		t.Fatalf("Channel() = %q", p.Channel())
	}
}
