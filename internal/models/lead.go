// internal/models/lead.go
package models

// Lead is one fully aggregated, ready-to-review sales record for a company.
// Contacts may be empty; the message is always present (composer falls back
// to a template when generation fails).
type Lead struct {
	Company             Company       `json:"company"`
	Insights            InsightRecord `json:"insights"`
	PersonalizedMessage string        `json:"personalized_message"`
	Contacts            []Contact     `json:"contacts"`
}
