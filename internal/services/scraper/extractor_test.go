// internal/services/scraper/extractor_test.go
package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadgen/internal/common/config"
	"leadgen/internal/common/logger"
	"leadgen/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

// fakeGeminiServer answers any generateContent request with the given text
// as the single candidate part.
func fakeGeminiServer(t *testing.T, requests *int, text string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if requests != nil {
			*requests++
		}
		resp := map[string]interface{}{
			"candidates": []map[string]interface{}{
				{
					"content": map[string]interface{}{
						"role": "model",
						"parts": []map[string]interface{}{
							{"text": text},
						},
					},
				},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
}

func newTestExtractor(t *testing.T, geminiURL string) *Extractor {
	scraperCfg := &config.ScraperConfig{
		Timeout:         5000,
		MaxContentChars: 6000,
		UserAgent:       "test-agent",
	}
	geminiCfg := &config.GeminiConfig{
		APIKey:     "test-key",
		Model:      "gemini-2.0-flash",
		BaseURL:    geminiURL,
		Timeout:    5000,
		MaxRetries: 1,
	}

	extractor, err := NewExtractor(context.Background(), scraperCfg, geminiCfg, logger.NewTestLogger(t))
	require.NoError(t, err)
	return extractor
}

func validInsightJSON() string {
	record := models.InsightRecord{
		BusinessSummary: "Acme builds accounting software for small firms",
		SizeIndicator:   "medium",
		KeyInsights:     []string{"Hiring aggressively", "Opening a second office"},
		HardwareOpportunity: models.HardwareOpportunity{
			Workstations: true,
			Networking:   true,
		},
		DecisionMakerHint:   "IT Manager",
		PersonalizationHook: "Recently announced expansion to Pune",
	}
	data, _ := json.Marshal(record)
	return string(data)
}

func expectedFallback() models.InsightRecord {
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

// ==========================
// Extraction Tests
// ==========================

func TestExtractor_Extract_Success(t *testing.T) {
	var gotUserAgent string
	site := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		fmt.Fprint(w, `<html><head><style>body{color:red}</style></head>
			<body><script>var x=1;</script><h1>Acme</h1><p>Accounting software</p></body></html>`)
	}))
	defer site.Close()

	gemini := fakeGeminiServer(t, nil, validInsightJSON())
	defer gemini.Close()

	extractor := newTestExtractor(t, gemini.URL)
	insights := extractor.Extract(context.Background(), site.URL)

	assert.Equal(t, "test-agent", gotUserAgent)
	assert.Equal(t, "Acme builds accounting software for small firms", insights.BusinessSummary)
	assert.Equal(t, "medium", insights.SizeIndicator)
	assert.True(t, insights.HardwareOpportunity.Workstations)
	assert.False(t, insights.HardwareOpportunity.Servers)
}

func TestExtractor_Extract_FallbackOnFetchFailure(t *testing.T) {
	site := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer site.Close()

	gemini := fakeGeminiServer(t, nil, validInsightJSON())
	defer gemini.Close()

	extractor := newTestExtractor(t, gemini.URL)
	insights := extractor.Extract(context.Background(), site.URL)

	assert.Equal(t, expectedFallback(), insights)
}

func TestExtractor_Extract_FallbackOnInvalidModelOutput(t *testing.T) {
	site := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><body>content</body></html>")
	}))
	defer site.Close()

	geminiRequests := 0
	gemini := fakeGeminiServer(t, &geminiRequests, "this is not json")
	defer gemini.Close()

	extractor := newTestExtractor(t, gemini.URL)
	insights := extractor.Extract(context.Background(), site.URL)

	assert.Equal(t, expectedFallback(), insights)
	// Malformed output is a permanent failure, not worth another model call
	assert.Equal(t, 1, geminiRequests)
}

func TestExtractor_Extract_FallbackOnMissingFields(t *testing.T) {
	site := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><body>content</body></html>")
	}))
	defer site.Close()

	gemini := fakeGeminiServer(t, nil, `{"business_summary": "only one field"}`)
	defer gemini.Close()

	extractor := newTestExtractor(t, gemini.URL)
	insights := extractor.Extract(context.Background(), site.URL)

	assert.Equal(t, expectedFallback(), insights)
}

// ==========================
// Content Helpers
// ==========================

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bare domain", "acme.com", "https://acme.com"},
		{"existing https", "https://acme.com", "https://acme.com"},
		{"existing http", "http://acme.com", "http://acme.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeURL(tt.input))
		})
	}
}

func TestCollapseWhitespace(t *testing.T) {
	input := "  Acme \n\n Corp\t\t builds   things \n"
	assert.Equal(t, "Acme Corp builds things", collapseWhitespace(input))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abcde", truncate("abcde", 10))
	assert.Equal(t, "abc...", truncate("abcdef", 3))
	assert.Equal(t, "abcdef", truncate("abcdef", 0))
}

func TestValidateInsightJSON(t *testing.T) {
	assert.NoError(t, validateInsightJSON(validInsightJSON()))
	assert.Error(t, validateInsightJSON("not json"))
	assert.Error(t, validateInsightJSON(`{"business_summary": 42}`))
	assert.Error(t, validateInsightJSON(`{"business_summary": "x"}`))
}
