// Package outreach composes personalized B2B sales emails with Gemini.
// Generation is a total operation: any terminal failure produces a usable
// template message instead of an error.
package outreach

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"

	"leadgen/internal/common/config"
	"leadgen/internal/common/errors"
	"leadgen/internal/common/logger"
	"leadgen/internal/common/metrics"
	"leadgen/internal/common/retry"
	"leadgen/internal/models"
)

// Composer turns a company and its insights into a personalized message.
type Composer struct {
	config      *config.GeminiConfig
	genaiClient *genai.Client
	logger      logger.Logger
}

func NewComposer(ctx context.Context, geminiCfg *config.GeminiConfig, log logger.Logger) (*Composer, error) {
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

	return &Composer{
		config:      geminiCfg,
		genaiClient: genaiClient,
		logger:      log.WithFields(map[string]interface{}{"service": "outreach"}),
	}, nil
}

// Generate composes an outreach message and always returns a usable one.
func (c *Composer) Generate(ctx context.Context, company models.Company, insights models.InsightRecord) Message {
	c.logger.Info("Generating outreach message", map[string]interface{}{
		"company": company.Name,
	})

	message, err := c.compose(ctx, company, insights)
	if err != nil {
		c.logger.Error("Message generation failed", map[string]interface{}{
			"company": company.Name,
			"error":   err.Error(),
		})
		return c.fallbackMessage(company, insights)
	}

	c.logger.Info("Outreach message generated", map[string]interface{}{
		"company": company.Name,
		"subject": message.SubjectLine,
	})
	return message
}

func (c *Composer) compose(ctx context.Context, company models.Company, insights models.InsightRecord) (Message, error) {
	prompt := buildMessagePrompt(company, insights)
	policy := retry.Policy{
		MaxAttempts:    c.config.MaxRetries,
		InitialBackoff: 3 * time.Second,
		MaxBackoff:     10 * time.Second,
	}

	var message Message
	err := retry.Do(ctx, c.logger, "outreach.generate", policy, func(ctx context.Context) error {
		temperature := float32(0.4)
		resp, err := c.genaiClient.Models.GenerateContent(ctx, c.config.Model, genai.Text(prompt), &genai.GenerateContentConfig{
			Temperature:      &temperature,
			CandidateCount:   1,
			ResponseMIMEType: "application/json",
			ResponseSchema:   messageSchema,
		})
		if err != nil {
			metrics.ExternalRequests.WithLabelValues("gemini", "error").Inc()
			genErr := errors.NewMessageGenerationFailedError(err)
			if !isTransientModelError(err) {
				return genErr.WithRetryable(false)
			}
			return genErr
		}

		raw := resp.Text()
		if err := validateMessageJSON(raw); err != nil {
			metrics.ExternalRequests.WithLabelValues("gemini", "error").Inc()
			return errors.NewMessageGenerationFailedError(err).WithRetryable(false)
		}
		if err := json.Unmarshal([]byte(raw), &message); err != nil {
			metrics.ExternalRequests.WithLabelValues("gemini", "error").Inc()
			return errors.NewMessageGenerationFailedError(err).WithRetryable(false)
		}

		metrics.ExternalRequests.WithLabelValues("gemini", "success").Inc()
		return nil
	})
	return message, err
}

func (c *Composer) fallbackMessage(company models.Company, insights models.InsightRecord) Message {
	metrics.StageFailures.WithLabelValues("compose").Inc()
	c.logger.Warn("Using fallback message", map[string]interface{}{
		"company": company.Name,
	})

	hint := insights.DecisionMakerHint
	if hint == "" {
		hint = "there"
	}

	return Message{
		SubjectLine:      fmt.Sprintf("Hardware Solutions for %s", company.Name),
		Greeting:         fmt.Sprintf("Hello %s,", hint),
		Opening:          fmt.Sprintf("I came across %s and was impressed by your work in %s.", company.Name, company.Industry),
		ValueProposition: "As a growing business, having reliable IT infrastructure is crucial for your continued success.",
		SpecificOffer:    "We specialize in providing businesses like yours with quality computers, servers, and networking equipment at competitive prices.",
		CallToAction:     "Would you be open to a brief 15-minute call to discuss your current IT needs?",
		Closing:          "I'd love to learn more about your business and see how we can support your technology requirements.",
	}
}

func buildMessagePrompt(company models.Company, insights models.InsightRecord) string {
	return fmt.Sprintf(`You are writing a personalized B2B sales email for a hardware computer store owner reaching out to a potential business client.

COMPANY INFORMATION:
- Company Name: %s
- Industry: %s
- Size: %d employees (%s)
- Website: %s
- Location: %s

BUSINESS INSIGHTS:
- What they do: %s
- Key insights: %s
- Decision maker: %s
- Personalization hook: %s
- Hardware opportunities: %s

Write a professional B2B outreach email with a subject line, greeting, opening, value proposition, specific offer, call to action and closing.

GUIDELINES:
- Keep it concise (under 200 words total)
- Reference specific details from their business
- Focus on business value, not technical specs
- Professional but friendly tone
- Avoid being pushy or salesy
- Include specific hardware solutions they likely need`,
		company.Name,
		company.Industry,
		company.EmployeeCount,
		insights.SizeIndicator,
		company.Website,
		company.Location,
		insights.BusinessSummary,
		strings.Join(insights.KeyInsights, ", "),
		insights.DecisionMakerHint,
		insights.PersonalizationHook,
		insights.HardwareOpportunity.NeedsSummary(),
	)
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
