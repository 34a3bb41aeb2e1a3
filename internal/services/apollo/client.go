// internal/services/apollo/client.go
package apollo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
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

// Client talks to the Apollo.io organization search API.
type Client struct {
	config     *config.ApolloConfig
	httpClient *commonhttp.Client
	limiter    *rate.Limiter
	logger     logger.Logger
}

func NewClient(cfg *config.ApolloConfig, log logger.Logger) *Client {
	return &Client{
		config:     cfg,
		httpClient: commonhttp.NewClient(config.GetDuration(cfg.Timeout)),
		limiter:    rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), 1),
		logger:     log.WithFields(map[string]interface{}{"service": "apollo"}),
	}
}

// SearchCompanies finds companies matching the criteria. Transient failures
// are retried; an invalid size range fails immediately.
func (c *Client) SearchCompanies(ctx context.Context, criteria models.SearchCriteria) ([]models.Company, error) {
	sizeRange, err := parseSizeRange(criteria.SizeRange)
	if err != nil {
		return nil, err
	}

	payload := searchRequest{
		OrganizationNumEmployeesRanges: []string{sizeRange},
		QOrganizationKeywordTags:       []string{criteria.Industry},
		Page:                           1,
		PerPage:                        c.config.PerPage,
	}
	if criteria.Location != "" {
		payload.OrganizationLocations = []string{criteria.Location}
	}

	c.logger.Info("Searching companies", map[string]interface{}{
		"size_range": criteria.SizeRange,
		"industry":   criteria.Industry,
		"location":   criteria.Location,
		"per_page":   c.config.PerPage,
	})

	policy := retry.Policy{
		MaxAttempts:    c.config.MaxRetries,
		InitialBackoff: 4 * time.Second,
		MaxBackoff:     10 * time.Second,
	}

	var companies []models.Company
	err = retry.Do(ctx, c.logger, "apollo.search", policy, func(ctx context.Context) error {
		orgs, err := c.search(ctx, payload)
		if err != nil {
			return err
		}
		companies = c.toCompanies(orgs)
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("Company search completed", map[string]interface{}{
		"count": len(companies),
	})
	return companies, nil
}

func (c *Client) search(ctx context.Context, payload searchRequest) ([]Organization, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := c.httpClient.PostJSON(ctx, c.config.BaseURL+"/api/v1/organizations/search", c.headers(), payload)
	if err != nil {
		metrics.ExternalRequests.WithLabelValues("apollo", "error").Inc()
		return nil, errors.NewDirectorySearchFailedError(err)
	}

	body, err := commonhttp.ReadBody(resp)
	if err != nil {
		metrics.ExternalRequests.WithLabelValues("apollo", "error").Inc()
		return nil, errors.NewDirectorySearchFailedError(err)
	}

	if err := classifyStatus(resp.StatusCode); err != nil {
		metrics.ExternalRequests.WithLabelValues("apollo", "error").Inc()
		return nil, err
	}

	var parsed SearchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		metrics.ExternalRequests.WithLabelValues("apollo", "error").Inc()
		return nil, errors.NewDirectorySearchFailedError(fmt.Errorf("failed to parse response: %w", err))
	}

	// A present-but-empty organizations array is a valid empty result. A
	// missing key means the API reported an error.
	if parsed.Organizations == nil {
		metrics.ExternalRequests.WithLabelValues("apollo", "error").Inc()
		msg := parsed.Error
		if msg == "" {
			msg = "Unexpected API response format"
		}
		return nil, errors.NewDirectorySearchFailedError(fmt.Errorf("apollo API error: %s", msg))
	}

	metrics.ExternalRequests.WithLabelValues("apollo", "success").Inc()
	return parsed.Organizations, nil
}

func (c *Client) toCompanies(orgs []Organization) []models.Company {
	companies := make([]models.Company, 0, len(orgs))
	for _, org := range orgs {
		if org.Name == "" {
			c.logger.Warn("Skipping company due to missing name", nil)
			continue
		}
		companies = append(companies, models.Company{
			Name:          org.Name,
			Website:       org.WebsiteURL,
			EmployeeCount: org.EstimatedNumEmployees,
			Industry:      org.Industry,
			Location:      fmt.Sprintf("%s, %s, %s", org.City, org.State, org.Country),
		})
	}
	return companies
}

// EnrichCompany fetches detailed organization data for a single domain and
// returns it as-is.
func (c *Client) EnrichCompany(ctx context.Context, domain string) (map[string]interface{}, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	resp, err := c.httpClient.PostJSON(ctx, c.config.BaseURL+"/api/v1/organizations/enrich", c.headers(), enrichRequest{Domain: domain})
	if err != nil {
		metrics.ExternalRequests.WithLabelValues("apollo", "error").Inc()
		return nil, errors.NewDirectorySearchFailedError(err)
	}

	body, err := commonhttp.ReadBody(resp)
	if err != nil {
		metrics.ExternalRequests.WithLabelValues("apollo", "error").Inc()
		return nil, errors.NewDirectorySearchFailedError(err)
	}

	if err := classifyStatus(resp.StatusCode); err != nil {
		metrics.ExternalRequests.WithLabelValues("apollo", "error").Inc()
		return nil, err
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal(body, &parsed); err != nil {
		metrics.ExternalRequests.WithLabelValues("apollo", "error").Inc()
		return nil, errors.NewDirectorySearchFailedError(fmt.Errorf("failed to parse enrichment response: %w", err))
	}

	org, ok := parsed["organization"].(map[string]interface{})
	if !ok {
		metrics.ExternalRequests.WithLabelValues("apollo", "error").Inc()
		msg, _ := parsed["error"].(string)
		if msg == "" {
			msg = "Unexpected API response format"
		}
		return nil, errors.NewDirectorySearchFailedError(fmt.Errorf("apollo API error: %s", msg))
	}

	metrics.ExternalRequests.WithLabelValues("apollo", "success").Inc()
	return org, nil
}

func (c *Client) headers() map[string]string {
	return map[string]string{
		"x-api-key": c.config.APIKey,
	}
}

func classifyStatus(status int) error {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return errors.NewDirectoryAuthFailedError(fmt.Sprintf("status %d", status))
	case status == http.StatusTooManyRequests:
		return errors.NewDirectoryRateLimitedError(fmt.Sprintf("status %d", status))
	case status < 200 || status >= 300:
		return errors.NewDirectorySearchFailedError(fmt.Errorf("unexpected status %d", status))
	}
	return nil
}

// parseSizeRange converts "min-max" to Apollo's "min,max" form.
func parseSizeRange(sizeRange string) (string, error) {
	parts := strings.Split(sizeRange, "-")
	if len(parts) != 2 {
		return "", errors.NewInvalidSizeRangeError(sizeRange)
	}
	min, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return "", errors.NewInvalidSizeRangeError(sizeRange)
	}
	max, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return "", errors.NewInvalidSizeRangeError(sizeRange)
	}
	return fmt.Sprintf("%d,%d", min, max), nil
}
