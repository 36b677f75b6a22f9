package bulk_test

import (
	"fmt"
	"testing"

	"github.com/ajayykmr/notification-service-go/internal/bulk"
	"github.com/ajayykmr/notification-service-go/internal/models"
)

func TestBatchSizePolicy(t *testing.T) {
	cases := []struct {
		name     string
		channel  models.Channel
		content  models.ContentBundle
		strategy models.ProcessingStrategy
		want     int
	}{
		{
			name:    "email default",
			channel: models.ChannelEmail,
			content: models.ContentBundle{Email: &models.EmailContent{Subject: "hi"}},
			want:    100,
		},
		{
			name:    "email configured",
			channel: models.ChannelEmail,
			content: models.ContentBundle{Email: &models.EmailContent{BatchSize: 250}},
			want:    250,
		},
		{
			name:    "email bcc overrides configured size",
			channel: models.ChannelEmail,
			content: models.ContentBundle{Email: &models.EmailContent{UseBCC: true, BatchSize: 10}},
			want:    500,
		},
		{
			name:    "sms default",
			channel: models.ChannelSMS,
			content: models.ContentBundle{SMS: &models.SMSContent{Message: "hi"}},
			want:    50,
		},
		{
			name:     "sms rate limited cap",
			channel:  models.ChannelSMS,
			content:  models.ContentBundle{SMS: &models.SMSContent{BatchSize: 50}},
			strategy: models.StrategyRateLimited,
			want:     25,
		},
		{
			name:     "sms rate limited below cap keeps configured size",
			channel:  models.ChannelSMS,
			content:  models.ContentBundle{SMS: &models.SMSContent{BatchSize: 15}},
			strategy: models.StrategyRateLimited,
			want:     15,
		},
		{
			name:    "whatsapp default",
			channel: models.ChannelWhatsApp,
			content: models.ContentBundle{WhatsApp: &models.WhatsAppContent{Text: "hi"}},
			want:    20,
		},
		{
			name:     "whatsapp rate limited cap",
			channel:  models.ChannelWhatsApp,
			content:  models.ContentBundle{WhatsApp: &models.WhatsAppContent{BatchSize: 40}},
			strategy: models.StrategyRateLimited,
			want:     10,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := bulk.BatchSize(tc.channel, tc.content, tc.strategy)
			if got != tc.want {
				t.Fatalf("BatchSize() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestPlanSplitsIntoOrderedBatches(t *testing.T) {
	recipients := make([]models.Recipient, 150)
	for i := range recipients {
		recipients[i] = models.Recipient{Email: fmt.Sprintf("user%03d@example.com", i)}
	}
	content := models.ContentBundle{Email: &models.EmailContent{Subject: "hello"}}

	batches := bulk.Plan(models.ChannelEmail, recipients, content, models.StrategyImmediate)

	if len(batches) != 2 {
		t.Fatalf("expected 2 batches for 150 recipients at size 100, got %d", len(batches))
	}
	if batches[0].Number != 1 || batches[1].Number != 2 {
		t.Fatalf("batch numbers must be 1-indexed and sequential: %d, %d", batches[0].Number, batches[1].Number)
	}
	for _, b := range batches {
		if b.Total != 2 {
			t.Fatalf("every batch must carry total=2, got %d", b.Total)
		}
	}
	if len(batches[0].Recipients) != 100 || len(batches[1].Recipients) != 50 {
		t.Fatalf("unexpected batch sizes: %d, %d", len(batches[0].Recipients), len(batches[1].Recipients))
	}
	if batches[1].Recipients[0].Email != "user100@example.com" {
		t.Fatalf("second batch must continue where the first ends, got %q", batches[1].Recipients[0].Email)
	}
}

func TestPlanCoversEveryRecipientExactlyOnce(t *testing.T) {
	recipients := make([]models.Recipient, 45)
	for i := range recipients {
		recipients[i] = models.Recipient{WhatsApp: fmt.Sprintf("+1415555%04d", i)}
	}
	content := models.ContentBundle{WhatsApp: &models.WhatsAppContent{Text: "hi"}}

	batches := bulk.Plan(models.ChannelWhatsApp, recipients, content, models.StrategyBatched)

	if len(batches) != 3 {
		t.Fatalf("expected 3 batches for 45 recipients at size 20, got %d", len(batches))
	}

	total := 0
	seen := map[string]bool{}
	for _, b := range batches {
		total += len(b.Recipients)
		for _, r := range b.Recipients {
			if seen[r.WhatsApp] {
				t.Fatalf("recipient %q assigned twice", r.WhatsApp)
			}
			seen[r.WhatsApp] = true
		}
	}
	if total != len(recipients) {
		t.Fatalf("batches cover %d recipients, want %d", total, len(recipients))
	}
}

func TestPlanEmptyInput(t *testing.T) {
	content := models.ContentBundle{SMS: &models.SMSContent{Message: "hi"}}
	if got := bulk.Plan(models.ChannelSMS, nil, content, models.StrategyImmediate); got != nil {
		t.Fatalf("expected nil plan for no recipients, got %d batches", len(got))
	}
}

func TestPlanExactMultiple(t *testing.T) {
	recipients := make([]models.Recipient, 100)
	for i := range recipients {
		recipients[i] = models.Recipient{Phone: fmt.Sprintf("+1415555%04d", i)}
	}
	content := models.ContentBundle{SMS: &models.SMSContent{Message: "hi"}}

	batches := bulk.Plan(models.ChannelSMS, recipients, content, models.StrategyImmediate)

	if len(batches) != 2 {
		t.Fatalf("expected 2 batches for 100 recipients at size 50, got %d", len(batches))
	}
	if len(batches[1].Recipients) != 50 {
		t.Fatalf("last batch should be full, got %d", len(batches[1].Recipients))
	}
}
