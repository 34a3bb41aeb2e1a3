// Package scraper turns a company website into a structured insight record
// for hardware sales outreach. Extraction is a total operation: any terminal
// failure produces a usable fallback record instead of an error.
package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"
	"google.golang.org/genai"

	"leadgen/internal/common/config"
	"leadgen/internal/common/errors"
	commonhttp "leadgen/internal/common/http"
	"leadgen/internal/common/logger"
	"leadgen/internal/common/metrics"
	"leadgen/internal/common/retry"
	"leadgen/internal/models"
)

// Extractor fetches website content and analyzes it with Gemini.
type Extractor struct {
	config      *config.ScraperConfig
	gemini      *config.GeminiConfig
	httpClient  *commonhttp.Client
	genaiClient *genai.Client
	logger      logger.Logger
}

func NewExtractor(ctx context.Context, scraperCfg *config.ScraperConfig, geminiCfg *config.GeminiConfig, log logger.Logger) (*Extractor, error) {
	cc := &genai.ClientConfig{
		APIKey:  geminiCfg.APIKey,
		Backend: genai.BackendGeminiAPI,
		HTTPClient: &http.Client{
			Timeout: config.GetDuration(geminiCfg.Timeout),
		},
	}
	if geminiCfg.BaseURL != "" {
		cc.HTTPOptions.BaseURL = geminiCfg.BaseURL
	}

	genaiClient, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &Extractor{
		config:      scraperCfg,
		gemini:      geminiCfg,
		httpClient:  commonhttp.NewClient(config.GetDuration(scraperCfg.Timeout)),
		genaiClient: genaiClient,
		logger:      log.WithFields(map[string]interface{}{"service": "scraper"}),
	}, nil
}

// Extract analyzes a company website and always returns a valid record.
func (e *Extractor) Extract(ctx context.Context, website string) models.InsightRecord {
	url := normalizeURL(website)

	e.logger.Info("Analyzing website", map[string]interface{}{
		"url": url,
	})

	content, err := e.fetchContent(ctx, url)
	if err != nil {
		e.logger.Error("Website fetch failed", map[string]interface{}{
			"url":   url,
			"error": err.Error(),
		})
		return e.fallbackInsights(url)
	}

	insights, err := e.analyze(ctx, content, url)
	if err != nil {
		e.logger.Error("Website analysis failed", map[string]interface{}{
			"url":   url,
			"error": err.Error(),
		})
		return e.fallbackInsights(url)
	}

	e.logger.Info("Website analysis completed", map[string]interface{}{
		"url": url,
	})
	return insights
}

func (e *Extractor) fetchContent(ctx context.Context, url string) (string, error) {
	var content string
	err := retry.Do(ctx, e.logger, "scraper.fetch", retry.DefaultPolicy, func(ctx context.Context) error {
		resp, err := e.httpClient.Get(ctx, url, map[string]string{
			"User-Agent": e.config.UserAgent,
		})
		if err != nil {
			metrics.ExternalRequests.WithLabelValues("scraper", "error").Inc()
			return errors.NewScrapeFetchFailedError(url, err)
		}

		body, err := commonhttp.ReadBody(resp)
		if err != nil {
			metrics.ExternalRequests.WithLabelValues("scraper", "error").Inc()
			return errors.NewScrapeFetchFailedError(url, err)
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			metrics.ExternalRequests.WithLabelValues("scraper", "error").Inc()
			fetchErr := errors.NewScrapeFetchFailedError(url, fmt.Errorf("status %d", resp.StatusCode))
			// Client errors are permanent; retrying a 404 never helps.
			if resp.StatusCode != http.StatusTooManyRequests && resp.StatusCode < 500 {
				return fetchErr.WithRetryable(false)
			}
			return fetchErr
		}

		doc, err := html.Parse(bytes.NewReader(body))
		if err != nil {
			metrics.ExternalRequests.WithLabelValues("scraper", "error").Inc()
			return errors.NewScrapeFetchFailedError(url, err).WithRetryable(false)
		}

		metrics.ExternalRequests.WithLabelValues("scraper", "success").Inc()
		content = truncate(collapseWhitespace(extractText(doc)), e.config.MaxContentChars)
		return nil
	})
	return content, err
}

func (e *Extractor) analyze(ctx context.Context, content, url string) (models.InsightRecord, error) {
	prompt := buildAnalysisPrompt(content, url)
	policy := retry.Policy{
		MaxAttempts:    e.gemini.MaxRetries,
		InitialBackoff: 3 * time.Second,
		MaxBackoff:     10 * time.Second,
	}

	var insights models.InsightRecord
	err := retry.Do(ctx, e.logger, "scraper.analyze", policy, func(ctx context.Context) error {
		temperature := float32(0.2)
		resp, err := e.genaiClient.Models.GenerateContent(ctx, e.gemini.Model, genai.Text(prompt), &genai.GenerateContentConfig{
			Temperature:      &temperature,
			CandidateCount:   1,
			ResponseMIMEType: "application/json",
			ResponseSchema:   insightSchema,
		})
		if err != nil {
			metrics.ExternalRequests.WithLabelValues("gemini", "error").Inc()
			analysisErr := errors.NewInsightAnalysisFailedError(err)
			if !isTransientModelError(err) {
				return analysisErr.WithRetryable(false)
			}
			return analysisErr
		}

		raw := resp.Text()
		if err := validateInsightJSON(raw); err != nil {
			metrics.ExternalRequests.WithLabelValues("gemini", "error").Inc()
			return errors.NewInsightInvalidJSONError(err.Error())
		}
		if err := json.Unmarshal([]byte(raw), &insights); err != nil {
			metrics.ExternalRequests.WithLabelValues("gemini", "error").Inc()
			return errors.NewInsightInvalidJSONError(err.Error())
		}

		metrics.ExternalRequests.WithLabelValues("gemini", "success").Inc()
		return nil
	})
	return insights, err
}

func (e *Extractor) fallbackInsights(url string) models.InsightRecord {
	metrics.StageFailures.WithLabelValues("scrape").Inc()
	e.logger.Warn("Using fallback insights", map[string]interface{}{
		"url": url,
	})
	return models.InsightRecord{
		BusinessSummary: "Company details could not be analyzed from website",
		SizeIndicator:   "unknown",
		KeyInsights: []string{
			"Website analysis was unsuccessful",
			"Manual research recommended",
			"Basic contact information may be available",
		},
		HardwareOpportunity: models.HardwareOpportunity{},
		DecisionMakerHint:   "General Manager or IT contact",
		PersonalizationHook: "Professional services company",
	}
}

func buildAnalysisPrompt(content, url string) string {
	return fmt.Sprintf(`You are a sales analyst for a hardware computer store. Analyze this company website to identify B2B sales opportunities.

Website: %s
Content: %s

Extract exactly these insights:
- business_summary: one clear sentence describing what this company does
- company_size_indicator: small/medium/large (based on mentions of employees, offices, scale)
- key_insights: 2-3 specific business insights that would help personalize a hardware sales pitch. Focus on: growth signals, tech challenges, office setup, team size, current tech stack
- hardware_opportunity: which of workstations, servers, networking, storage, peripherals they likely need
- decision_maker_hint: who likely makes IT purchasing decisions (IT Manager, CTO, Operations, etc.)
- personalization_hook: one specific detail about the company for personalized messaging

Focus on:
- Signs they might need new computers, servers, or IT equipment
- Growth indicators (hiring, expanding, new offices)
- Technology pain points or outdated systems
- Company culture/values for relationship building`, url, content)
}

// isTransientModelError reports whether a Gemini call failed in a way worth
// retrying (rate limits, server errors, network timeouts).
func isTransientModelError(err error) bool {
	var apiErr genai.APIError
	if stderrors.As(err, &apiErr) {
		return apiErr.Code == 429 || apiErr.Code/100 == 5
	}
	var ne net.Error
	if stderrors.As(err, &ne) && ne.Timeout() {
		return true
	}
	return strings.Contains(err.Error(), "context deadline exceeded")
}

func normalizeURL(website string) string {
	if !strings.HasPrefix(website, "http://") && !strings.HasPrefix(website, "https://") {
		return "https://" + website
	}
	return website
}
