// internal/services/sheets/models.go
package sheets

import (
	"strings"
	"time"

	"leadgen/internal/models"
)

// LeadRow is the flattened representation of a lead appended to the
// spreadsheet, one cell per column.
type LeadRow struct {
	CompanyName           string `json:"company_name"`
	Website               string `json:"website"`
	EmployeeCount         int    `json:"employee_count"`
	Industry              string `json:"industry"`
	Location              string `json:"location"`
	BusinessSummary       string `json:"business_summary"`
	HardwareOpportunities string `json:"hardware_opportunities"`
	DecisionMakerHint     string `json:"decision_maker_hint"`
	ContactEmails         string `json:"contact_emails"`
	DecisionMakers        string `json:"decision_makers"`
	PersonalizedMessage   string `json:"personalized_message"`
	GeneratedAt           string `json:"generated_at"`
}

// NewLeadRow flattens a lead for spreadsheet viewing. Only contacts with an
// email address contribute to the contact columns.
func NewLeadRow(lead models.Lead, generatedAt time.Time) LeadRow {
	var emails []string
	var makers []string
	for _, contact := range lead.Contacts {
		if contact.Email == "" {
			continue
		}
		emails = append(emails, contact.Email)
		if label := contact.Label(); label != "" {
			makers = append(makers, label)
		}
	}

	return LeadRow{
		CompanyName:           lead.Company.Name,
		Website:               lead.Company.Website,
		EmployeeCount:         lead.Company.EmployeeCount,
		Industry:              lead.Company.Industry,
		Location:              lead.Company.Location,
		BusinessSummary:       lead.Insights.BusinessSummary,
		HardwareOpportunities: strings.Join(lead.Insights.HardwareOpportunity.Categories(), ", "),
		DecisionMakerHint:     lead.Insights.DecisionMakerHint,
		ContactEmails:         strings.Join(emails, ", "),
		DecisionMakers:        strings.Join(makers, ", "),
		PersonalizedMessage:   lead.PersonalizedMessage,
		GeneratedAt:           generatedAt.Format(time.RFC3339),
	}
}

type scriptRequest struct {
	Action string    `json:"action"`
	Data   []LeadRow `json:"data,omitempty"`
}

type scriptResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
