// internal/notify/models.go
package notify

import (
	"time"

	"leadgen/internal/models"
)

// RunResult summarizes a completed pipeline run for the operator notice.
type RunResult struct {
	RunID       string
	LeadCount   int
	SavedTo     string
	Criteria    models.SearchCriteria
	CompletedAt time.Time
}

type NotifyOutput struct {
	NotificationID string `json:"notificationId"`
	Status         string `json:"status"` // "sent", "failed", "disabled"
	SentAt         string `json:"sentAt"` // ISO 8601
}

// Email transports
const (
	TransportSES  = "ses"
	TransportSMTP = "smtp"
)

// Statuses
const (
	StatusSent     = "sent"
	StatusFailed   = "failed"
	StatusDisabled = "disabled"
)

var runCompleteTemplate = map[string]string{
	"subject": "Lead generation run {{runId}} complete",
	"body": "Lead generation finished at {{completedAt}}.\n\n" +
		"Leads generated: {{leadCount}}\n" +
		"Search: {{sizeRange}} employees, {{industry}}, {{location}}\n" +
		"Saved to: {{savedTo}}",
	"sms": "Lead generation complete: {{leadCount}} leads saved to {{savedTo}}",
}
