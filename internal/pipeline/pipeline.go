// Package pipeline orchestrates the lead enrichment flow: company discovery,
// website insights, contact lookup and personalized outreach, one company at
// a time. A failing company never aborts the batch; only the initial company
// search and the final local write can fail the run.
package pipeline

import (
	"context"
	"fmt"

	"leadgen/internal/common/config"
	"leadgen/internal/common/errors"
	"leadgen/internal/common/logger"
	"leadgen/internal/common/metrics"
	"leadgen/internal/models"
	"leadgen/internal/services/outreach"
	"leadgen/internal/services/sheets"
)

// CompanyFinder searches the company directory for matching organizations.
type CompanyFinder interface {
	SearchCompanies(ctx context.Context, criteria models.SearchCriteria) ([]models.Company, error)
}

// InsightExtractor analyzes a company website. It always returns a usable
// record, falling back internally on failure.
type InsightExtractor interface {
	Extract(ctx context.Context, website string) models.InsightRecord
}

// ContactFinder looks up decision maker contacts for a company domain.
type ContactFinder interface {
	DomainSearch(ctx context.Context, domain string) ([]models.Contact, error)
}

// MessageComposer generates the outreach message. It always returns a usable
// message, falling back internally on failure.
type MessageComposer interface {
	Generate(ctx context.Context, company models.Company, insights models.InsightRecord) outreach.Message
}

// RowAppender persists flattened lead rows to the remote sink.
type RowAppender interface {
	Enabled() bool
	AppendLeads(ctx context.Context, rows []sheets.LeadRow) error
}

// Pipeline wires the collaborating services into the enrichment flow.
type Pipeline struct {
	finder    CompanyFinder
	extractor InsightExtractor
	contacts  ContactFinder
	composer  MessageComposer
	sheets    RowAppender
	config    *config.Config
	logger    logger.Logger
}

func NewPipeline(finder CompanyFinder, extractor InsightExtractor, contacts ContactFinder, composer MessageComposer, sheetsClient RowAppender, cfg *config.Config, log logger.Logger) *Pipeline {
	return &Pipeline{
		finder:    finder,
		extractor: extractor,
		contacts:  contacts,
		composer:  composer,
		sheets:    sheetsClient,
		config:    cfg,
		logger:    log.WithFields(map[string]interface{}{"component": "pipeline"}),
	}
}

// ProcessLeads runs the full enrichment flow and returns the enriched leads
// in directory order. A company search failure is the only fatal outcome;
// zero matches is a valid empty result.
func (p *Pipeline) ProcessLeads(ctx context.Context, criteria models.SearchCriteria, maxLeads int) ([]models.Lead, error) {
	p.logger.Info("Starting lead generation pipeline", map[string]interface{}{
		"size_range": criteria.SizeRange,
		"industry":   criteria.Industry,
		"location":   criteria.Location,
	})

	companies, err := p.finder.SearchCompanies(ctx, criteria)
	if err != nil {
		metrics.StageFailures.WithLabelValues("search").Inc()
		return nil, errors.NewPipelineFailedError(err)
	}

	if len(companies) == 0 {
		p.logger.Warn("No companies found matching criteria", nil)
		return []models.Lead{}, nil
	}

	p.logger.Info("Found companies", map[string]interface{}{
		"count": len(companies),
	})

	if maxLeads > 0 && len(companies) > maxLeads {
		companies = companies[:maxLeads]
	}
	p.logger.Info("Processing top companies", map[string]interface{}{
		"count": len(companies),
	})

	leads := make([]models.Lead, 0, len(companies))
	for i, company := range companies {
		p.logger.Info("Processing company", map[string]interface{}{
			"position": fmt.Sprintf("%d/%d", i+1, len(companies)),
			"company":  company.Name,
		})

		lead, ok := p.processCompany(ctx, company)
		if !ok {
			continue
		}

		leads = append(leads, lead)
		metrics.LeadsGenerated.Inc()
		p.logger.Info("Successfully processed company", map[string]interface{}{
			"company": company.Name,
		})
	}

	p.logger.Info("Pipeline completed", map[string]interface{}{
		"leads": len(leads),
	})
	return leads, nil
}

// processCompany runs the per-company stages. It reports ok=false instead of
// failing the batch, including on panic.
func (p *Pipeline) processCompany(ctx context.Context, company models.Company) (lead models.Lead, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			metrics.CompaniesSkipped.WithLabelValues("panic").Inc()
			p.logger.Error("Company processing panicked", map[string]interface{}{
				"company": company.Name,
				"panic":   fmt.Sprintf("%v", r),
			})
			ok = false
		}
	}()

	metrics.CompaniesProcessed.Inc()

	if company.Website == "" {
		metrics.CompaniesSkipped.WithLabelValues("no_website").Inc()
		p.logger.Warn("No website found, skipping", map[string]interface{}{
			"company": company.Name,
		})
		return models.Lead{}, false
	}

	insights := p.extractor.Extract(ctx, company.Website)
	contacts := p.findContacts(ctx, company)
	message := p.composer.Generate(ctx, company, insights)

	return models.Lead{
		Company:             company,
		Insights:            insights,
		PersonalizedMessage: message.FormatEmail(p.config.Signature),
		Contacts:            contacts,
	}, true
}

// findContacts degrades any lookup failure to an empty contact list; the
// lead still goes out, just without named contacts.
func (p *Pipeline) findContacts(ctx context.Context, company models.Company) []models.Contact {
	contacts, err := p.contacts.DomainSearch(ctx, company.Website)
	if err != nil {
		metrics.StageFailures.WithLabelValues("contacts").Inc()
		p.logger.Error("Contact search failed", map[string]interface{}{
			"company": company.Name,
			"error":   err.Error(),
		})
		return []models.Contact{}
	}

	if len(contacts) > 0 {
		p.logger.Info("Found decision maker contacts", map[string]interface{}{
			"count": len(contacts),
		})
	} else {
		p.logger.Info("No decision maker contacts found", nil)
	}
	return contacts
}
