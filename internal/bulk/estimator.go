package bulk

import (
	"time"

	"github.com/ajayykmr/notification-service-go/internal/models"
)

// ChannelPlan summarises one channel's planned workload for estimation.
type ChannelPlan struct {
	Batches    int
	Recipients int
}

// EstimateCompletion computes the expected completion time for a bulk request
// from batch counts and rate limits. It is a pure function used only for
// reporting; real delivery feedback never flows into it.
//
// Per channel: immediate costs 2 minutes per batch; rate-limited SMS drains
// at 10 msg/s and WhatsApp at 5 msg/s while other channels cost 1 minute per
// batch; batched and scheduled cost 5 minutes per batch. The estimate is the
// maximum across channels, floored at now+spread when a spread-over-minutes
// hint is present.
func EstimateCompletion(now time.Time, strategy models.ProcessingStrategy, plans map[models.Channel]ChannelPlan, spreadOverMinutes int) time.Time {
	estimate := now

	for ch, plan := range plans {
		if plan.Batches == 0 {
			continue
		}

		var channelEstimate time.Time
		switch strategy {
		case models.StrategyImmediate:
			channelEstimate = now.Add(time.Duration(plan.Batches) * 2 * time.Minute)
		case models.StrategyRateLimited:
			switch ch {
			case models.ChannelSMS:
				seconds := float64(plan.Recipients) / models.DefaultSMSRatePerSecond
				channelEstimate = now.Add(time.Duration(seconds * float64(time.Second)))
			case models.ChannelWhatsApp:
				seconds := float64(plan.Recipients) / models.DefaultWhatsAppRatePerSecond
				channelEstimate = now.Add(time.Duration(seconds * float64(time.Second)))
			default:
				channelEstimate = now.Add(time.Duration(plan.Batches) * time.Minute)
			}
		default:
			// batched or scheduled
			channelEstimate = now.Add(time.Duration(plan.Batches) * 5 * time.Minute)
		}

		if channelEstimate.After(estimate) {
			estimate = channelEstimate
		}
	}

	if spreadOverMinutes > 0 {
		floor := now.Add(time.Duration(spreadOverMinutes) * time.Minute)
		if floor.After(estimate) {
			estimate = floor
		}
	}

	return estimate
}
