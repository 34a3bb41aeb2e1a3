// Package sheets appends generated leads to a Google Sheet through an Apps
// Script web app endpoint.
package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"leadgen/internal/common/config"
	"leadgen/internal/common/errors"
	commonhttp "leadgen/internal/common/http"
	"leadgen/internal/common/logger"
	"leadgen/internal/common/metrics"
)

// Client posts lead rows to the configured Apps Script endpoint.
type Client struct {
	config     *config.SheetsConfig
	httpClient *commonhttp.Client
	logger     logger.Logger
}

func NewClient(cfg *config.SheetsConfig, log logger.Logger) *Client {
	return &Client{
		config:     cfg,
		httpClient: commonhttp.NewClient(config.GetDuration(cfg.Timeout)),
		logger:     log.WithFields(map[string]interface{}{"service": "sheets"}),
	}
}

// Enabled reports whether an Apps Script endpoint is configured.
func (c *Client) Enabled() bool {
	return c.config.Endpoint != ""
}

// AppendLeads sends the rows to the spreadsheet. The script reports outcomes
// in the response body, so a 200 status alone is not success.
func (c *Client) AppendLeads(ctx context.Context, rows []LeadRow) error {
	if !c.Enabled() {
		return errors.NewSheetsAppendFailedError(fmt.Errorf("no endpoint configured"))
	}

	c.logger.Info("Saving leads to Google Sheets", map[string]interface{}{
		"rows": len(rows),
	})

	result, err := c.post(ctx, scriptRequest{Action: "addLeads", Data: rows})
	if err != nil {
		return err
	}

	if !result.Success {
		metrics.ExternalRequests.WithLabelValues("sheets", "error").Inc()
		message := result.Message
		if message == "" {
			message = "Unknown error"
		}
		return errors.NewSheetsAppendFailedError(fmt.Errorf("script returned error: %s", message))
	}

	metrics.ExternalRequests.WithLabelValues("sheets", "success").Inc()
	c.logger.Info("Successfully added leads to Google Sheets", map[string]interface{}{
		"rows": len(rows),
	})
	return nil
}

// TestConnection probes the endpoint with a header check, verifying the Apps
// Script deployment is reachable and responding.
func (c *Client) TestConnection(ctx context.Context) error {
	if !c.Enabled() {
		return errors.NewSheetsAppendFailedError(fmt.Errorf("no endpoint configured"))
	}

	result, err := c.post(ctx, scriptRequest{Action: "testHeaders"})
	if err != nil {
		return err
	}

	metrics.ExternalRequests.WithLabelValues("sheets", "success").Inc()
	c.logger.Info("Google Sheets endpoint responded", map[string]interface{}{
		"success": result.Success,
		"message": result.Message,
	})
	return nil
}

func (c *Client) post(ctx context.Context, payload scriptRequest) (*scriptResponse, error) {
	resp, err := c.httpClient.PostJSON(ctx, c.config.Endpoint, nil, payload)
	if err != nil {
		metrics.ExternalRequests.WithLabelValues("sheets", "error").Inc()
		return nil, errors.NewSheetsAppendFailedError(err)
	}

	body, err := commonhttp.ReadBody(resp)
	if err != nil {
		metrics.ExternalRequests.WithLabelValues("sheets", "error").Inc()
		return nil, errors.NewSheetsAppendFailedError(err)
	}

	if resp.StatusCode != http.StatusOK {
		metrics.ExternalRequests.WithLabelValues("sheets", "error").Inc()
		return nil, errors.NewSheetsAppendFailedError(fmt.Errorf("status %d: %s", resp.StatusCode, string(body)))
	}

	var result scriptResponse
	if err := json.Unmarshal(body, &result); err != nil {
		metrics.ExternalRequests.WithLabelValues("sheets", "error").Inc()
		return nil, errors.NewSheetsAppendFailedError(err)
	}

	return &result, nil
}
