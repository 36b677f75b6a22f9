package models

import "time"

// EmailRecipient is the email projection of a bulk recipient with
// personalization already applied by the payload builder.
type EmailRecipient struct {
	Email        string         `json:"email"`
	Name         string         `json:"name,omitempty"`
	UserID       string         `json:"user_id,omitempty"`
	CustomData   map[string]any `json:"custom_data,omitempty"`
	TemplateData map[string]any `json:"template_data,omitempty"`
}

// SMSRecipient is the SMS projection of a bulk recipient.
type SMSRecipient struct {
	Phone               string         `json:"phone"`
	Name                string         `json:"name,omitempty"`
	UserID              string         `json:"user_id,omitempty"`
	CustomData          map[string]any `json:"custom_data,omitempty"`
	PersonalizedMessage string         `json:"personalized_message,omitempty"`
}

// WhatsAppRecipient is the WhatsApp projection of a bulk recipient.
type WhatsAppRecipient struct {
	WhatsApp           string         `json:"whatsapp"`
	Name               string         `json:"name,omitempty"`
	UserID             string         `json:"user_id,omitempty"`
	CustomData         map[string]any `json:"custom_data,omitempty"`
	TemplateParameters []string       `json:"template_parameters,omitempty"`
}

// KafkaMetadata is attached by the dispatcher just before publishing so
// consumers can trace where and when a payload entered the broker.
type KafkaMetadata struct {
	SentAt      time.Time `json:"sent_at"`
	ProducerID  string    `json:"producer_id"`
	Topic       string    `json:"topic"`
	ServiceType Channel   `json:"service_type"`
}

// BatchMeta carries routing and bookkeeping fields shared by every channel
// payload. Batches are immutable once built: the producer owns a payload until
// the broker accepts it, after which ownership moves to the consumer.
type BatchMeta struct {
	ServiceType    Channel            `json:"service_type"`
	NotificationID string             `json:"notification_id"`
	BatchID        string             `json:"batch_id"`
	CorrelationID  string             `json:"correlation_id"`
	Strategy       ProcessingStrategy `json:"processing_strategy"`
	Priority       Priority           `json:"priority"`
	BatchNumber    int                `json:"batch_number"`
	TotalBatches   int                `json:"total_batches"`
	Metadata       map[string]any     `json:"metadata,omitempty"`

	KafkaMetadata *KafkaMetadata `json:"kafka_metadata,omitempty"`
}

// Channel returns the channel this payload is routed to.
func (m *BatchMeta) Channel() Channel { return m.ServiceType }

// Batch returns the human-readable batch identifier.
func (m *BatchMeta) Batch() string { return m.BatchID }

// Correlation returns the per-batch correlation id.
func (m *BatchMeta) Correlation() string { return m.CorrelationID }

// SetKafkaMetadata attaches broker metadata prior to publishing.
func (m *BatchMeta) SetKafkaMetadata(km KafkaMetadata) { m.KafkaMetadata = &km }

// BatchPayload is implemented by the per-channel Kafka payloads. One topic per
// channel, one schema per topic.
type BatchPayload interface {
	Channel() Channel
	Batch() string
	Correlation() string
	SetKafkaMetadata(KafkaMetadata)
	RecipientCount() int
}

// EmailBatchPayload is the wire message for one email batch.
type EmailBatchPayload struct {
	BatchMeta
	Recipients      []EmailRecipient `json:"recipients"`
	EmailContent    *EmailContent    `json:"email_content"`
	TotalRecipients int              `json:"total_recipients"`
}

// RecipientCount returns the number of recipients in the batch.
func (p *EmailBatchPayload) RecipientCount() int { return len(p.Recipients) }

// SMSBatchPayload is the wire message for one SMS batch. The rate-limit hint
// is duplicated outside the content so consumers can pace sends without
// inspecting content internals.
type SMSBatchPayload struct {
	BatchMeta
	Recipients         []SMSRecipient `json:"recipients"`
	SMSContent         *SMSContent    `json:"sms_content"`
	RateLimitPerSecond int            `json:"rate_limit_per_second"`
}

// RecipientCount returns the number of recipients in the batch.
func (p *SMSBatchPayload) RecipientCount() int { return len(p.Recipients) }

// WhatsAppBatchPayload is the wire message for one WhatsApp batch.
type WhatsAppBatchPayload struct {
	BatchMeta
	Recipients      []WhatsAppRecipient `json:"recipients"`
	WhatsAppContent *WhatsAppContent    `json:"whatsapp_content"`
	EstimatedCost   float64             `json:"estimated_cost"`
}

// RecipientCount returns the number of recipients in the batch.
func (p *WhatsAppBatchPayload) RecipientCount() int { return len(p.Recipients) }
