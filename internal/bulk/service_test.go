package bulk_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/ajayykmr/notification-service-go/internal/bulk"
	"github.com/ajayykmr/notification-service-go/internal/models"
)

type publishCall struct {
	payload models.BatchPayload
	key     string
}

type stubPublisher struct {
	calls       []publishCall
	failChannel models.Channel
}

func (p *stubPublisher) Publish(_ context.Context, payload models.BatchPayload, key string) bool {
	p.calls = append(p.calls, publishCall{payload: payload, key: key})
	return payload.Channel() != p.failChannel
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newTestService(t *testing.T, pub bulk.Publisher, opts ...bulk.Option) *bulk.Service {
	t.Helper()
	svc, err := bulk.NewService(pub, zerolog.Nop(), opts...)
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	return svc
}

func TestNewServiceRequiresPublisher(t *testing.T) {
	if _, err := bulk.NewService(nil, zerolog.Nop()); err == nil {
		t.Fatalf("expected error when publisher is missing")
	}
}

func TestProcessBulkRequestPublishesEveryBatch(t *testing.T) {
	recipients := make([]models.Recipient, 150)
	for i := range recipients {
		recipients[i] = models.Recipient{Email: fmt.Sprintf("user%03d@example.com", i)}
	}
	req := &models.BulkRequest{
		Recipients: recipients,
		Content:    models.ContentBundle{Email: &models.EmailContent{Subject: "hello", TextBody: "hi"}},
		Channels:   []models.Channel{models.ChannelEmail},
		Strategy:   models.StrategyImmediate,
		CampaignID: "launch",
	}

	pub := &stubPublisher{}
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestService(t, pub,
		bulk.WithClock(fixedClock(now)),
		bulk.WithIDGenerator(func() string { return "notif-fixed" }),
	)

	summary, err := svc.ProcessBulkRequest(context.Background(), req)
	if err != nil {
		t.Fatalf("ProcessBulkRequest() error = %v", err)
	}

	if summary.NotificationID != "notif-fixed" {
		t.Fatalf("NotificationID = %q, want generated id", summary.NotificationID)
	}
	if summary.TotalRecipients != 150 {
		t.Fatalf("TotalRecipients = %d, want 150", summary.TotalRecipients)
	}
	if summary.BatchesCreated[models.ChannelEmail] != 2 {
		t.Fatalf("BatchesCreated = %d, want 2", summary.BatchesCreated[models.ChannelEmail])
	}
	if summary.BatchesPublished[models.ChannelEmail] != 2 {
		t.Fatalf("BatchesPublished = %d, want 2", summary.BatchesPublished[models.ChannelEmail])
	}
	if summary.BatchesDeadLettered[models.ChannelEmail] != 0 {
		t.Fatalf("BatchesDeadLettered = %d, want 0", summary.BatchesDeadLettered[models.ChannelEmail])
	}

	wantCost := 150 * models.CostPerEmail
	if summary.EstimatedCost[models.ChannelEmail] != wantCost {
		t.Fatalf("EstimatedCost = %v, want %v", summary.EstimatedCost[models.ChannelEmail], wantCost)
	}

	// Immediate strategy: 2 minutes per batch.
	wantETA := now.Add(4 * time.Minute)
	if !summary.EstimatedCompletionTime.Equal(wantETA) {
		t.Fatalf("EstimatedCompletionTime = %v, want %v", summary.EstimatedCompletionTime, wantETA)
	}

	if len(pub.calls) != 2 {
		t.Fatalf("expected 2 publishes, got %d", len(pub.calls))
	}
	if pub.calls[0].key != "launch_email_1" || pub.calls[1].key != "launch_email_2" {
		t.Fatalf("publish keys must be batch ids, got %q, %q", pub.calls[0].key, pub.calls[1].key)
	}
}

func TestProcessBulkRequestFansOutAcrossChannels(t *testing.T) {
	req := &models.BulkRequest{
		Recipients: []models.Recipient{
			{Email: "a@example.com", Phone: "+14155550001"},
			{Email: "b@example.com"},
			{Phone: "+14155550002"},
		},
		Content: models.ContentBundle{
			Email: &models.EmailContent{Subject: "hello", TextBody: "hi"},
			SMS:   &models.SMSContent{Message: "hi"},
		},
		Channels: []models.Channel{models.ChannelEmail, models.ChannelSMS},
		Strategy: models.StrategyBatched,
	}

	pub := &stubPublisher{}
	svc := newTestService(t, pub)

	summary, err := svc.ProcessBulkRequest(context.Background(), req)
	if err != nil {
		t.Fatalf("ProcessBulkRequest() error = %v", err)
	}

	if summary.BatchesCreated[models.ChannelEmail] != 1 {
		t.Fatalf("email batches = %d, want 1", summary.BatchesCreated[models.ChannelEmail])
	}
	if summary.BatchesCreated[models.ChannelSMS] != 1 {
		t.Fatalf("sms batches = %d, want 1", summary.BatchesCreated[models.ChannelSMS])
	}
	if len(pub.calls) != 2 {
		t.Fatalf("expected 2 publishes, got %d", len(pub.calls))
	}

	// Costs are per eligible recipient, per channel.
	if summary.EstimatedCost[models.ChannelEmail] != 2*models.CostPerEmail {
		t.Fatalf("email cost = %v", summary.EstimatedCost[models.ChannelEmail])
	}
	if summary.EstimatedCost[models.ChannelSMS] != 2*models.CostPerSMS {
		t.Fatalf("sms cost = %v", summary.EstimatedCost[models.ChannelSMS])
	}
}

func TestProcessBulkRequestCountsDeadLetteredBatches(t *testing.T) {
	req := &models.BulkRequest{
		Recipients: []models.Recipient{
			{Email: "a@example.com", Phone: "+14155550001"},
			{Email: "b@example.com", Phone: "+14155550002"},
		},
		Content: models.ContentBundle{
			Email: &models.EmailContent{Subject: "hello", TextBody: "hi"},
			SMS:   &models.SMSContent{Message: "hi"},
		},
		Channels: []models.Channel{models.ChannelEmail, models.ChannelSMS},
	}

	pub := &stubPublisher{failChannel: models.ChannelSMS}
	svc := newTestService(t, pub)

	summary, err := svc.ProcessBulkRequest(context.Background(), req)
	if err != nil {
		t.Fatalf("ProcessBulkRequest() error = %v", err)
	}

	if summary.BatchesPublished[models.ChannelEmail] != 1 {
		t.Fatalf("email published = %d, want 1", summary.BatchesPublished[models.ChannelEmail])
	}
	if summary.BatchesDeadLettered[models.ChannelSMS] != 1 {
		t.Fatalf("sms dead-lettered = %d, want 1", summary.BatchesDeadLettered[models.ChannelSMS])
	}
	if summary.BatchesPublished[models.ChannelSMS] != 0 {
		t.Fatalf("sms published = %d, want 0", summary.BatchesPublished[models.ChannelSMS])
	}
}

func TestProcessBulkRequestRejectsInvalidRequest(t *testing.T) {
	req := &models.BulkRequest{
		Recipients: []models.Recipient{{Email: "only-one@example.com"}},
		Content:    models.ContentBundle{Email: &models.EmailContent{Subject: "hi", TextBody: "hi"}},
		Channels:   []models.Channel{models.ChannelEmail},
	}

	pub := &stubPublisher{}
	svc := newTestService(t, pub)

	_, err := svc.ProcessBulkRequest(context.Background(), req)
	if !errors.Is(err, models.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(pub.calls) != 0 {
		t.Fatalf("nothing may be published for a rejected request, got %d calls", len(pub.calls))
	}
}

func TestProcessBulkRequestNilRequest(t *testing.T) {
	svc := newTestService(t, &stubPublisher{})
	if _, err := svc.ProcessBulkRequest(context.Background(), nil); err == nil {
		t.Fatalf("expected error for nil request")
	}
}
