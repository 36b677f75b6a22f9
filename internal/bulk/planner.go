package bulk

import "github.com/ajayykmr/notification-service-go/internal/models"

// RecipientBatch is a contiguous, ordered slice of one channel's eligible
// recipients. Batches are created by the planner, consumed exactly once by
// the payload builder and never mutated afterwards.
type RecipientBatch struct {
	Channel    models.Channel
	Number     int // 1-indexed in slice order
	Total      int
	Recipients []models.Recipient
}

// BatchSize selects the batch size for a channel given its content and the
// processing strategy.
//
// Email with BCC enabled uses a fixed large size regardless of configuration
// since a single BCC-addressed message covers the whole batch. SMS and
// WhatsApp are capped under the rate-limited strategy to keep the blast
// radius of one batch small.
func BatchSize(ch models.Channel, content models.ContentBundle, strategy models.ProcessingStrategy) int {
	switch ch {
	case models.ChannelEmail:
		if content.Email != nil && content.Email.UseBCC {
			return models.BCCBatchSize
		}
		if content.Email != nil && content.Email.BatchSize > 0 {
			return content.Email.BatchSize
		}
		return models.DefaultEmailBatchSize

	case models.ChannelSMS:
		size := models.DefaultSMSBatchSize
		if content.SMS != nil && content.SMS.BatchSize > 0 {
			size = content.SMS.BatchSize
		}
		if strategy == models.StrategyRateLimited && size > models.RateLimitedSMSBatchCap {
			size = models.RateLimitedSMSBatchCap
		}
		return size

	case models.ChannelWhatsApp:
		size := models.DefaultWhatsAppBatchSize
		if content.WhatsApp != nil && content.WhatsApp.BatchSize > 0 {
			size = content.WhatsApp.BatchSize
		}
		if strategy == models.StrategyRateLimited && size > models.RateLimitedWhatsAppBatchCap {
			size = models.RateLimitedWhatsAppBatchCap
		}
		return size
	}

	return models.DefaultBatchSize
}

// Plan slices the eligible recipients for one channel into ordered batches of
// the selected size. Recipients keep their original order; no deduplication
// is performed. total_batches is ceil(len(recipients)/size).
func Plan(ch models.Channel, recipients []models.Recipient, content models.ContentBundle, strategy models.ProcessingStrategy) []RecipientBatch {
	if len(recipients) == 0 {
		return nil
	}

	size := BatchSize(ch, content, strategy)
	total := (len(recipients) + size - 1) / size

	batches := make([]RecipientBatch, 0, total)
	for i := 0; i < len(recipients); i += size {
		end := i + size
		if end > len(recipients) {
			end = len(recipients)
		}
		batches = append(batches, RecipientBatch{
			Channel:    ch,
			Number:     (i / size) + 1,
			Total:      total,
			Recipients: recipients[i:end],
		})
	}

	return batches
}
