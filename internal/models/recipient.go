package models

// Recipient is a single target of a bulk notification. At least one contact
// field must be populated; which channels the recipient is eligible for is
// derived from the contact fields that are present.
type Recipient struct {
	Email      string         `json:"email,omitempty"`
	Phone      string         `json:"phone,omitempty"`
	WhatsApp   string         `json:"whatsapp,omitempty"`
	Name       string         `json:"name,omitempty"`
	UserID     string         `json:"user_id,omitempty"`
	CustomData map[string]any `json:"custom_data,omitempty"`
}

// SupportsChannel reports whether the recipient carries the contact field the
// channel requires.
func (r Recipient) SupportsChannel(c Channel) bool {
	switch c {
	case ChannelEmail:
		return r.Email != ""
	case ChannelSMS:
		return r.Phone != ""
	case ChannelWhatsApp:
		return r.WhatsApp != ""
	}
	return false
}

// HasContactInfo reports whether any contact field is populated.
func (r Recipient) HasContactInfo() bool {
	return r.Email != "" || r.Phone != "" || r.WhatsApp != ""
}
