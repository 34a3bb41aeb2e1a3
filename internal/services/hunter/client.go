// internal/services/hunter/client.go
package hunter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"leadgen/internal/common/config"
	"leadgen/internal/common/errors"
	commonhttp "leadgen/internal/common/http"
	"leadgen/internal/common/logger"
	"leadgen/internal/common/metrics"
	"leadgen/internal/common/retry"
	"leadgen/internal/models"
)

// Client talks to the Hunter.io contact discovery API.
type Client struct {
	config     *config.HunterConfig
	httpClient *commonhttp.Client
	limiter    *rate.Limiter
	logger     logger.Logger
}

func NewClient(cfg *config.HunterConfig, log logger.Logger) *Client {
	return &Client{
		config:     cfg,
		httpClient: commonhttp.NewClient(config.GetDuration(cfg.Timeout)),
		limiter:    rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), 1),
		logger:     log.WithFields(map[string]interface{}{"service": "hunter"}),
	}
}

func (c *Client) retryPolicy() retry.Policy {
	return retry.Policy{
		MaxAttempts:    c.config.MaxRetries,
		InitialBackoff: 2 * time.Second,
		MaxBackoff:     8 * time.Second,
	}
}

// DomainSearch finds decision-maker emails for a company domain. Errors
// propagate to the caller, which decides whether to degrade to an empty
// contact list.
func (c *Client) DomainSearch(ctx context.Context, domain string) ([]models.Contact, error) {
	clean := cleanDomain(domain)

	c.logger.Debug("Searching emails for domain", map[string]interface{}{
		"domain": clean,
	})

	var contacts []models.Contact
	err := retry.Do(ctx, c.logger, "hunter.domain_search", c.retryPolicy(), func(ctx context.Context) error {
		body, err := c.get(ctx, "/v2/domain-search", url.Values{"domain": {clean}})
		if err != nil {
			return err
		}

		var parsed domainSearchResponse
		if err := json.Unmarshal(body, &parsed); err != nil {
			return errors.NewContactLookupFailedError(clean, fmt.Errorf("failed to parse response: %w", err))
		}
		if len(parsed.Errors) > 0 {
			return errors.NewContactLookupFailedError(clean, fmt.Errorf("hunter API error: %s", parsed.Errors[0].Details))
		}

		contacts = make([]models.Contact, 0, len(parsed.Data.Emails))
		for _, entry := range parsed.Data.Emails {
			contacts = append(contacts, models.Contact{
				Email:      entry.Value,
				FirstName:  entry.FirstName,
				LastName:   entry.LastName,
				Position:   entry.Position,
				Department: entry.Department,
				Verified:   entry.Verification.Result == "deliverable",
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("Domain search completed", map[string]interface{}{
		"domain": clean,
		"emails": len(contacts),
	})
	return contacts, nil
}

// FindEmail looks up a specific person's address. A miss is not an error:
// API-level failures, absent results and 404s all return (nil, nil).
func (c *Client) FindEmail(ctx context.Context, domain, firstName, lastName string) (*models.Contact, error) {
	clean := cleanDomain(domain)

	var contact *models.Contact
	err := retry.Do(ctx, c.logger, "hunter.email_finder", c.retryPolicy(), func(ctx context.Context) error {
		params := url.Values{
			"domain":     {clean},
			"first_name": {firstName},
			"last_name":  {lastName},
		}
		body, status, err := c.getWithStatus(ctx, "/v2/email-finder", params)
		if status == http.StatusNotFound {
			return nil
		}
		if err != nil {
			return err
		}

		var parsed emailFinderResponse
		if err := json.Unmarshal(body, &parsed); err != nil {
			return errors.NewContactLookupFailedError(clean, fmt.Errorf("failed to parse response: %w", err))
		}
		if len(parsed.Errors) > 0 {
			c.logger.Warn("Email finder returned an error", map[string]interface{}{
				"domain": clean,
				"error":  parsed.Errors[0].Details,
			})
			return nil
		}
		if parsed.Data.Email == "" {
			return nil
		}

		found := models.Contact{
			Email:     parsed.Data.Email,
			FirstName: parsed.Data.FirstName,
			LastName:  parsed.Data.LastName,
			Position:  parsed.Data.Position,
			Verified:  parsed.Data.Verification.Result == "deliverable",
		}
		if found.FirstName == "" {
			found.FirstName = firstName
		}
		if found.LastName == "" {
			found.LastName = lastName
		}
		contact = &found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return contact, nil
}

// VerifyEmail checks deliverability of a single address.
func (c *Client) VerifyEmail(ctx context.Context, email string) (*Verification, error) {
	var report *Verification
	err := retry.Do(ctx, c.logger, "hunter.email_verifier", c.retryPolicy(), func(ctx context.Context) error {
		body, err := c.get(ctx, "/v2/email-verifier", url.Values{"email": {email}})
		if err != nil {
			return err
		}

		var parsed emailVerifierResponse
		if err := json.Unmarshal(body, &parsed); err != nil {
			return errors.NewContactLookupFailedError(email, fmt.Errorf("failed to parse response: %w", err))
		}
		if len(parsed.Errors) > 0 {
			return errors.NewContactLookupFailedError(email, fmt.Errorf("hunter API error: %s", parsed.Errors[0].Details))
		}

		result := parsed.Data
		result.Email = email
		report = &result
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("Email verification completed", map[string]interface{}{
		"email":  email,
		"result": report.Result,
		"score":  report.Score,
	})
	return report, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	body, _, err := c.getWithStatus(ctx, path, params)
	return body, err
}

func (c *Client) getWithStatus(ctx context.Context, path string, params url.Values) ([]byte, int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, 0, err
	}

	params.Set("api_key", c.config.APIKey)
	endpoint := c.config.BaseURL + path + "?" + params.Encode()

	resp, err := c.httpClient.Get(ctx, endpoint, nil)
	if err != nil {
		metrics.ExternalRequests.WithLabelValues("hunter", "error").Inc()
		return nil, 0, errors.NewContactLookupFailedError(path, fmt.Errorf("network error: %w", err))
	}

	body, err := commonhttp.ReadBody(resp)
	if err != nil {
		metrics.ExternalRequests.WithLabelValues("hunter", "error").Inc()
		return nil, resp.StatusCode, errors.NewContactLookupFailedError(path, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		metrics.ExternalRequests.WithLabelValues("hunter", "error").Inc()
		return body, resp.StatusCode, errors.NewContactAuthFailedError()
	case resp.StatusCode == http.StatusTooManyRequests:
		metrics.ExternalRequests.WithLabelValues("hunter", "error").Inc()
		return body, resp.StatusCode, errors.NewContactRateLimitedError()
	case resp.StatusCode == http.StatusNotFound:
		metrics.ExternalRequests.WithLabelValues("hunter", "error").Inc()
		return body, resp.StatusCode, errors.NewContactLookupFailedError(path, fmt.Errorf("status %d", resp.StatusCode))
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		metrics.ExternalRequests.WithLabelValues("hunter", "error").Inc()
		return body, resp.StatusCode, errors.NewContactLookupFailedError(path, fmt.Errorf("status %d", resp.StatusCode))
	}

	metrics.ExternalRequests.WithLabelValues("hunter", "success").Inc()
	return body, resp.StatusCode, nil
}

// cleanDomain reduces a raw website value to a bare domain.
func cleanDomain(raw string) string {
	clean := strings.TrimPrefix(raw, "https://")
	clean = strings.TrimPrefix(clean, "http://")
	clean = strings.TrimPrefix(clean, "www.")
	if idx := strings.Index(clean, "/"); idx >= 0 {
		clean = clean[:idx]
	}
	return clean
}
