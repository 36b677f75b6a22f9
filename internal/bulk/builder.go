package bulk

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ajayykmr/notification-service-go/internal/models"
)

// BuildPayload assembles the channel-specific wire payload for one batch,
// applying personalization to every recipient. Each payload receives a fresh
// correlation id; the batch id is derived from the campaign id (or "bulk"
// when absent), the channel and the 1-indexed batch number.
func BuildPayload(batch RecipientBatch, req *models.BulkRequest, notificationID string) (models.BatchPayload, error) {
	campaign := req.CampaignID
	if campaign == "" {
		campaign = "bulk"
	}

	meta := models.BatchMeta{
		ServiceType:    batch.Channel,
		NotificationID: notificationID,
		BatchID:        fmt.Sprintf("%s_%s_%d", campaign, batch.Channel, batch.Number),
		CorrelationID:  uuid.NewString(),
		Strategy:       req.Strategy,
		Priority:       req.Priority,
		BatchNumber:    batch.Number,
		TotalBatches:   batch.Total,
		Metadata:       req.Metadata,
	}
	if req.CampaignID != "" {
		meta.NotificationID = req.CampaignID
	}

	switch batch.Channel {
	case models.ChannelEmail:
		return buildEmailPayload(meta, batch, req), nil
	case models.ChannelSMS:
		return buildSMSPayload(meta, batch, req), nil
	case models.ChannelWhatsApp:
		return buildWhatsAppPayload(meta, batch, req), nil
	}

	return nil, fmt.Errorf("payload builder: unsupported channel %q", batch.Channel)
}

func buildEmailPayload(meta models.BatchMeta, batch RecipientBatch, req *models.BulkRequest) *models.EmailBatchPayload {
	content := req.Content.Email
	recipients := make([]models.EmailRecipient, 0, len(batch.Recipients))

	for _, rec := range batch.Recipients {
		er := models.EmailRecipient{
			Email:      rec.Email,
			Name:       rec.Name,
			UserID:     rec.UserID,
			CustomData: rec.CustomData,
		}
		if content != nil && content.PersonalizationEnabled {
			er.TemplateData = mergeTemplateData(content.DefaultTemplateData, rec.CustomData)
		}
		recipients = append(recipients, er)
	}

	return &models.EmailBatchPayload{
		BatchMeta:       meta,
		Recipients:      recipients,
		EmailContent:    content,
		TotalRecipients: len(req.Recipients),
	}
}

func buildSMSPayload(meta models.BatchMeta, batch RecipientBatch, req *models.BulkRequest) *models.SMSBatchPayload {
	content := req.Content.SMS
	recipients := make([]models.SMSRecipient, 0, len(batch.Recipients))

	for _, rec := range batch.Recipients {
		sr := models.SMSRecipient{
			Phone:      rec.Phone,
			Name:       rec.Name,
			UserID:     rec.UserID,
			CustomData: rec.CustomData,
		}
		if content != nil && content.PersonalizationEnabled {
			sr.PersonalizedMessage = personalizeMessage(content.Message, rec.CustomData)
		}
		recipients = append(recipients, sr)
	}

	rateLimit := models.DefaultSMSRatePerSecond
	if content != nil && content.RateLimitPerSecond > 0 {
		rateLimit = content.RateLimitPerSecond
	}

	return &models.SMSBatchPayload{
		BatchMeta:          meta,
		Recipients:         recipients,
		SMSContent:         content,
		RateLimitPerSecond: rateLimit,
	}
}

func buildWhatsAppPayload(meta models.BatchMeta, batch RecipientBatch, req *models.BulkRequest) *models.WhatsAppBatchPayload {
	content := req.Content.WhatsApp
	recipients := make([]models.WhatsAppRecipient, 0, len(batch.Recipients))

	for _, rec := range batch.Recipients {
		wr := models.WhatsAppRecipient{
			WhatsApp:   rec.WhatsApp,
			Name:       rec.Name,
			UserID:     rec.UserID,
			CustomData: rec.CustomData,
		}
		if content != nil && content.PersonalizationEnabled && len(rec.CustomData) > 0 {
			wr.TemplateParameters = buildTemplateParameters(content.DefaultTemplateParameters, rec.CustomData)
		}
		recipients = append(recipients, wr)
	}

	return &models.WhatsAppBatchPayload{
		BatchMeta:       meta,
		Recipients:      recipients,
		WhatsAppContent: content,
		EstimatedCost:   float64(len(batch.Recipients)) * models.CostPerWhatsApp,
	}
}

// mergeTemplateData overlays the recipient's personalization map on top of the
// channel defaults; recipient values win on key collision.
func mergeTemplateData(defaults, custom map[string]any) map[string]any {
	if len(defaults) == 0 && len(custom) == 0 {
		return nil
	}
	merged := make(map[string]any, len(defaults)+len(custom))
	for k, v := range defaults {
		merged[k] = v
	}
	for k, v := range custom {
		merged[k] = v
	}
	return merged
}

// personalizeMessage substitutes {key} placeholders with values from the
// recipient's personalization map. Unresolved placeholders stay verbatim.
func personalizeMessage(template string, custom map[string]any) string {
	message := template
	for key, value := range custom {
		placeholder := "{" + key + "}"
		message = strings.ReplaceAll(message, placeholder, fmt.Sprint(value))
	}
	return message
}

// buildTemplateParameters resolves {key}-shaped default parameters against the
// recipient's personalization map. Literal parameters pass through; a missing
// key leaves the placeholder text in place.
func buildTemplateParameters(defaults []string, custom map[string]any) []string {
	if len(defaults) == 0 {
		return nil
	}
	params := make([]string, 0, len(defaults))
	for _, param := range defaults {
		if strings.HasPrefix(param, "{") && strings.HasSuffix(param, "}") {
			key := param[1 : len(param)-1]
			if value, ok := custom[key]; ok {
				params = append(params, fmt.Sprint(value))
				continue
			}
		}
		params = append(params, param)
	}
	return params
}
