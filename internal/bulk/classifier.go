// Package bulk implements the bulk dispatch pipeline: recipient
// classification, batch planning, payload building, completion estimation and
// the orchestrator that drives one request through publication.
package bulk

import "github.com/ajayykmr/notification-service-go/internal/models"

// Classify partitions recipients by channel eligibility. A recipient lands in
// a channel's bucket iff it carries the contact field that channel requires,
// so one recipient may appear in several buckets. Buckets preserve the
// original recipient order. An empty bucket is valid output and simply means
// no batches will be created for that channel.
func Classify(recipients []models.Recipient, channels []models.Channel) map[models.Channel][]models.Recipient {
	buckets := make(map[models.Channel][]models.Recipient, len(channels))
	for _, ch := range channels {
		buckets[ch] = nil
	}

	for _, rec := range recipients {
		for _, ch := range channels {
			if rec.SupportsChannel(ch) {
				buckets[ch] = append(buckets[ch], rec)
			}
		}
	}

	return buckets
}
