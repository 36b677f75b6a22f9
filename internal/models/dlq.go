package models

import "time"

// DLQRecord is the dead-letter envelope written when a payload cannot be
// published to its channel topic. The original payload is preserved verbatim
// so operators can replay it once the underlying failure is resolved.
type DLQRecord struct {
	OriginalPayload any       `json:"original_payload"`
	ServiceType     Channel   `json:"service_type"`
	Error           string    `json:"error"`
	FailedAt        time.Time `json:"failed_at"`
	RetryCount      int       `json:"retry_count"`
}
