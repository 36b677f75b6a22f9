// Package sender defines the external send collaborator contracts the batch
// processors invoke per message, plus a simulated implementation used until
// real provider integrations are wired in.
package sender

import "context"

// EmailMessage is the rendered content for one email send call. For BCC
// delivery To carries every address in the batch and a single call covers
// them all.
type EmailMessage struct {
	To           []string
	UseBCC       bool
	Subject      string
	HTMLBody     string
	TextBody     string
	TemplateData map[string]any
}

// SMSMessage is the rendered content for one SMS send call.
type SMSMessage struct {
	Phone    string
	Message  string
	SenderID string
}

// WhatsAppMessage is the rendered content for one WhatsApp send call.
type WhatsAppMessage struct {
	To               string
	TemplateName     string
	TemplateLanguage string
	Parameters       []string
	Text             string
}

// EmailSender delivers rendered email content. Implementations must be safe
// to call repeatedly; idempotency is the collaborator's responsibility.
type EmailSender interface {
	SendEmail(ctx context.Context, msg EmailMessage) error
}

// SMSSender delivers rendered SMS content.
type SMSSender interface {
	SendSMS(ctx context.Context, msg SMSMessage) error
}

// WhatsAppSender delivers rendered WhatsApp content.
type WhatsAppSender interface {
	SendWhatsApp(ctx context.Context, msg WhatsAppMessage) error
}
