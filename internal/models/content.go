package models

// Default batch sizes applied when the content omits one.
const (
	DefaultEmailBatchSize    = 100
	DefaultSMSBatchSize      = 50
	DefaultWhatsAppBatchSize = 20

	// BCCBatchSize is used for BCC email delivery regardless of the
	// configured batch size: one BCC-addressed message covers the batch.
	BCCBatchSize = 500

	// Rate-limited strategies cap SMS/WhatsApp batches to reduce the blast
	// radius of a single batch.
	RateLimitedSMSBatchCap      = 25
	RateLimitedWhatsAppBatchCap = 10

	// DefaultBatchSize applies to any channel without a specific policy.
	DefaultBatchSize = 50
)

// Default consumer-side rate limits (messages per second).
const (
	DefaultSMSRatePerSecond      = 10
	DefaultWhatsAppRatePerSecond = 5
)

// SMS character budgets before personalization substitution.
const (
	SMSMaxLengthGSM     = 160
	SMSMaxLengthUnicode = 70
)

// EmailContent describes the email rendering of a bulk notification.
type EmailContent struct {
	Subject    string `json:"subject"`
	HTMLBody   string `json:"html_body,omitempty"`
	TextBody   string `json:"text_body,omitempty"`
	SenderName string `json:"sender_name,omitempty"`
	ReplyTo    string `json:"reply_to,omitempty"`

	UseBCC                 bool `json:"use_bcc"`
	BatchSize              int  `json:"batch_size"`
	PersonalizationEnabled bool `json:"personalization_enabled"`

	TemplateID          string         `json:"template_id,omitempty"`
	DefaultTemplateData map[string]any `json:"default_template_data,omitempty"`

	Headers map[string]string `json:"headers,omitempty"`
}

// SMSContent describes the SMS rendering of a bulk notification.
type SMSContent struct {
	Message     string `json:"message"`
	SenderID    string `json:"sender_id,omitempty"`
	MessageType string `json:"message_type,omitempty"`

	BatchSize              int  `json:"batch_size"`
	RateLimitPerSecond     int  `json:"rate_limit_per_second"`
	PersonalizationEnabled bool `json:"personalization_enabled"`
	UnicodeMessage         bool `json:"unicode_message"`

	DeliveryReports       bool `json:"delivery_reports"`
	ValidityPeriodMinutes int  `json:"validity_period,omitempty"`
}

// MaxMessageLength returns the character budget for the template message.
func (c SMSContent) MaxMessageLength() int {
	if c.UnicodeMessage {
		return SMSMaxLengthUnicode
	}
	return SMSMaxLengthGSM
}

// WhatsAppContent describes the WhatsApp rendering of a bulk notification.
// Bulk sends normally use approved templates; free-form text is allowed for
// small batches.
type WhatsAppContent struct {
	MessageType string `json:"message_type,omitempty"`

	TemplateName              string   `json:"template_name,omitempty"`
	TemplateLanguage          string   `json:"template_language,omitempty"`
	DefaultTemplateParameters []string `json:"default_template_parameters,omitempty"`

	Text string `json:"text,omitempty"`

	BatchSize              int  `json:"batch_size"`
	RateLimitPerSecond     int  `json:"rate_limit_per_second"`
	PersonalizationEnabled bool `json:"personalization_enabled"`
}

// ContentBundle groups the per-channel content for a bulk request together
// with fallback content shared across channels.
type ContentBundle struct {
	Email    *EmailContent    `json:"email_content,omitempty"`
	SMS      *SMSContent      `json:"sms_content,omitempty"`
	WhatsApp *WhatsAppContent `json:"whatsapp_content,omitempty"`

	FallbackSubject string `json:"fallback_subject,omitempty"`
	FallbackMessage string `json:"fallback_message"`
}

// HasChannel reports whether the bundle carries content for the channel.
func (b ContentBundle) HasChannel(c Channel) bool {
	switch c {
	case ChannelEmail:
		return b.Email != nil
	case ChannelSMS:
		return b.SMS != nil
	case ChannelWhatsApp:
		return b.WhatsApp != nil
	}
	return false
}
