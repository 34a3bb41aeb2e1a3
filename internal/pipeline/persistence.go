// internal/pipeline/persistence.go
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"leadgen/internal/common/errors"
	"leadgen/internal/common/metrics"
	"leadgen/internal/models"
	"leadgen/internal/services/sheets"
)

// leadFileRecord is the nested on-disk shape, one element per lead.
type leadFileRecord struct {
	Company             models.Company       `json:"company"`
	Insights            models.InsightRecord `json:"insights"`
	PersonalizedMessage string               `json:"personalized_message"`
	Contacts            []models.Contact     `json:"contacts"`
	GeneratedAt         string               `json:"generated_at"`
}

// SaveLeadsToFile persists the leads, remote first then local. The remote
// append is best effort; the local JSON snapshot is the durability guarantee
// and always runs. Returns a descriptor of where the leads ended up.
func (p *Pipeline) SaveLeadsToFile(ctx context.Context, leads []models.Lead, filename string) (string, error) {
	generatedAt := time.Now()

	sheetsSaved := false
	if p.sheets != nil && p.sheets.Enabled() {
		rows := make([]sheets.LeadRow, 0, len(leads))
		for _, lead := range leads {
			rows = append(rows, sheets.NewLeadRow(lead, generatedAt))
		}

		if err := p.sheets.AppendLeads(ctx, rows); err != nil {
			metrics.StageFailures.WithLabelValues("sheets").Inc()
			p.logger.Error("Failed to save to Google Sheets", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			sheetsSaved = true
		}
	}

	if filename == "" {
		filename = filepath.Join(p.config.Output.Dir, fmt.Sprintf("leads_%s.json", generatedAt.Format("20060102_150405")))
	}

	if err := os.MkdirAll(filepath.Dir(filename), 0o755); err != nil {
		return "", errors.NewLocalWriteFailedError(filename, err)
	}

	records := make([]leadFileRecord, 0, len(leads))
	for _, lead := range leads {
		contacts := lead.Contacts
		if contacts == nil {
			contacts = []models.Contact{}
		}
		records = append(records, leadFileRecord{
			Company:             lead.Company,
			Insights:            lead.Insights,
			PersonalizedMessage: lead.PersonalizedMessage,
			Contacts:            contacts,
			GeneratedAt:         generatedAt.Format(time.RFC3339),
		})
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return "", errors.NewLocalWriteFailedError(filename, err)
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return "", errors.NewLocalWriteFailedError(filename, err)
	}

	if sheetsSaved {
		p.logger.Info("Local backup saved", map[string]interface{}{
			"path": filename,
		})
		return "Google Sheets + Local Backup", nil
	}

	p.logger.Info("Leads saved", map[string]interface{}{
		"path": filename,
	})
	return filename, nil
}
