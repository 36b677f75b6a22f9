package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/ajayykmr/notification-service-go/internal/util"
)

// Bounds on the recipient list of a bulk request.
const (
	BulkMinRecipients = 2
	BulkMaxRecipients = 10000
)

// ErrValidation marks request-shape problems detected before any batching
// occurs. Callers can classify failures with errors.Is.
var ErrValidation = errors.New("bulk request validation failed")

// BulkRequest is a validated bulk notification request. It is the single
// input to the dispatch pipeline; the HTTP layer is expected to call Validate
// before handing the request over.
type BulkRequest struct {
	Recipients []Recipient   `json:"recipients"`
	Content    ContentBundle `json:"content"`
	Channels   []Channel     `json:"channels"`

	Strategy ProcessingStrategy `json:"processing_strategy"`
	Priority Priority           `json:"priority"`

	// Scheduling hints are recorded and used for completion-time
	// estimation only; enforcement is out of scope.
	ScheduledAt       *time.Time `json:"scheduled_at,omitempty"`
	SpreadOverMinutes int        `json:"spread_over_minutes,omitempty"`

	CampaignID string         `json:"campaign_id,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// Validate checks the request shape: recipient count bounds, contact-field
// formats, per-channel content presence, channel eligibility and SMS length
// budgets. This is the authoritative validation point; the planner later
// skips empty channel buckets without re-validating.
func (r *BulkRequest) Validate() error {
	if n := len(r.Recipients); n < BulkMinRecipients {
		return fmt.Errorf("%w: bulk notifications require at least %d recipients, got %d", ErrValidation, BulkMinRecipients, n)
	} else if n > BulkMaxRecipients {
		return fmt.Errorf("%w: maximum %d recipients per bulk request, got %d", ErrValidation, BulkMaxRecipients, n)
	}

	if len(r.Channels) == 0 {
		return fmt.Errorf("%w: at least one channel is required", ErrValidation)
	}

	for i, rec := range r.Recipients {
		if !rec.HasContactInfo() {
			return fmt.Errorf("%w: recipient[%d] has no contact information", ErrValidation, i)
		}
		if rec.Email != "" {
			if _, err := util.NormalizeEmail(rec.Email); err != nil {
				return fmt.Errorf("%w: recipient[%d] email: %v", ErrValidation, i, err)
			}
		}
		if rec.Phone != "" {
			if _, err := util.NormalizeE164(rec.Phone); err != nil {
				return fmt.Errorf("%w: recipient[%d] phone: %v", ErrValidation, i, err)
			}
		}
		if rec.WhatsApp != "" {
			if _, err := util.NormalizeE164(rec.WhatsApp); err != nil {
				return fmt.Errorf("%w: recipient[%d] whatsapp: %v", ErrValidation, i, err)
			}
		}
	}

	for _, ch := range r.Channels {
		if !ch.Valid() {
			return fmt.Errorf("%w: unsupported channel %q", ErrValidation, ch)
		}
		if !r.Content.HasChannel(ch) {
			return fmt.Errorf("%w: channel %s requested without content", ErrValidation, ch)
		}
		if !r.hasEligibleRecipient(ch) {
			return fmt.Errorf("%w: no recipients have %s contact info", ErrValidation, ch)
		}
	}

	if email := r.Content.Email; email != nil {
		if email.ReplyTo != "" {
			if _, err := util.NormalizeEmail(email.ReplyTo); err != nil {
				return fmt.Errorf("%w: reply_to: %v", ErrValidation, err)
			}
		}
		if email.TemplateID != "" {
			if _, err := util.ValidateTemplateID(email.TemplateID); err != nil {
				return fmt.Errorf("%w: email template id: %v", ErrValidation, err)
			}
		}
	}

	if sms := r.Content.SMS; sms != nil {
		// The budget applies to the template before personalization.
		if err := util.EnsureMaxRunes("sms message", sms.Message, sms.MaxMessageLength()); err != nil {
			return fmt.Errorf("%w: %v", ErrValidation, err)
		}
	}

	if wa := r.Content.WhatsApp; wa != nil && wa.TemplateName != "" {
		if _, err := util.ValidateTemplateID(wa.TemplateName); err != nil {
			return fmt.Errorf("%w: whatsapp template name: %v", ErrValidation, err)
		}
	}

	return nil
}

func (r *BulkRequest) hasEligibleRecipient(ch Channel) bool {
	for _, rec := range r.Recipients {
		if rec.SupportsChannel(ch) {
			return true
		}
	}
	return false
}

// BulkSummary is the orchestrator's response: best-effort accounting of what
// was planned and published, never a statement of delivery completion.
type BulkSummary struct {
	NotificationID  string `json:"notification_id"`
	CampaignID      string `json:"campaign_id,omitempty"`
	TotalRecipients int    `json:"total_recipients"`

	BatchesCreated map[Channel]int     `json:"batches_created"`
	EstimatedCost  map[Channel]float64 `json:"estimated_cost"`

	// Publish accounting per channel: batches accepted by the broker and
	// batches redirected to the dead-letter topic.
	BatchesPublished    map[Channel]int `json:"batches_published"`
	BatchesDeadLettered map[Channel]int `json:"batches_dead_lettered"`

	EstimatedCompletionTime time.Time `json:"estimated_completion_time"`
}
