// internal/pipeline/summary.go
package pipeline

import (
	"fmt"
	"strings"

	"leadgen/internal/models"
)

// DisplayLeadsSummary logs a human-readable report of every generated lead.
func (p *Pipeline) DisplayLeadsSummary(leads []models.Lead) {
	if len(leads) == 0 {
		p.logger.Info("No leads to display", nil)
		return
	}

	p.logger.Info("LEAD GENERATION SUMMARY", nil)
	p.logger.Info(strings.Repeat("=", 60), nil)
	p.logger.Info(fmt.Sprintf("Total Leads Generated: %d", len(leads)), nil)

	for i, lead := range leads {
		p.logger.Info(fmt.Sprintf("Lead %d: %s", i+1, lead.Company.Name), nil)
		p.logger.Info(fmt.Sprintf("  Industry: %s", lead.Company.Industry), nil)
		p.logger.Info(fmt.Sprintf("  Size: %d employees", lead.Company.EmployeeCount), nil)
		p.logger.Info(fmt.Sprintf("  Website: %s", lead.Company.Website), nil)
		p.logger.Info(fmt.Sprintf("  Business: %s", lead.Insights.BusinessSummary), nil)

		if needs := lead.Insights.HardwareOpportunity.Categories(); len(needs) > 0 {
			p.logger.Info(fmt.Sprintf("  Hardware Opportunities: %s", strings.Join(needs, ", ")), nil)
		} else {
			p.logger.Info("  Hardware Opportunities: General IT needs", nil)
		}

		p.logger.Info(fmt.Sprintf("  Message Subject: %s", extractSubjectLine(lead.PersonalizedMessage)), nil)

		if len(lead.Contacts) > 0 {
			p.logger.Info("  Decision Maker Contacts:", nil)
			top := lead.Contacts
			if len(top) > 3 {
				top = top[:3]
			}
			for _, contact := range top {
				email := contact.Email
				if email == "" {
					email = "N/A"
				}
				position := contact.Position
				if position == "" {
					position = "N/A"
				}
				p.logger.Info(fmt.Sprintf("    - %s - %s (%s)", email, contact.FullName(), position), nil)
			}
		} else {
			p.logger.Info("  Decision Maker Contacts: None found", nil)
		}

		p.logger.Info(strings.Repeat("-", 40), nil)
	}
}

// extractSubjectLine pulls the subject out of a formatted email body. The
// first "Subject:" line wins; a message without one yields "N/A".
func extractSubjectLine(emailMessage string) string {
	for _, line := range strings.Split(emailMessage, "\n") {
		if strings.HasPrefix(line, "Subject:") {
			return strings.TrimSpace(strings.TrimPrefix(line, "Subject:"))
		}
	}
	return "N/A"
}
