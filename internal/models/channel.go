package models

// Channel identifies a notification delivery medium.
type Channel string

// Supported delivery channels.
const (
	ChannelEmail    Channel = "email"
	ChannelSMS      Channel = "sms"
	ChannelWhatsApp Channel = "whatsapp"
)

// Valid reports whether the channel is one of the supported media.
func (c Channel) Valid() bool {
	switch c {
	case ChannelEmail, ChannelSMS, ChannelWhatsApp:
		return true
	}
	return false
}

// ProcessingStrategy governs how aggressively batches are sized and timed.
type ProcessingStrategy string

// Bulk processing strategies.
const (
	StrategyImmediate   ProcessingStrategy = "immediate"
	StrategyBatched     ProcessingStrategy = "batched"
	StrategyRateLimited ProcessingStrategy = "rate_limited"
	StrategyScheduled   ProcessingStrategy = "scheduled"
)

// Priority orders notification requests relative to each other.
type Priority string

// Notification priorities.
const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Per-message cost rates in USD, used uniformly for cost reporting.
const (
	CostPerEmail    = 0.0001
	CostPerSMS      = 0.01
	CostPerWhatsApp = 0.005
)

// CostRate returns the per-message rate for the channel. Unknown channels fall
// back to the SMS rate, the most expensive of the three.
func CostRate(c Channel) float64 {
	switch c {
	case ChannelEmail:
		return CostPerEmail
	case ChannelWhatsApp:
		return CostPerWhatsApp
	default:
		return CostPerSMS
	}
}
