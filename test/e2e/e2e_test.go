// test/e2e/e2e_test.go
package e2e

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadgen/internal/common/config"
	"leadgen/internal/common/logger"
	"leadgen/internal/models"
	"leadgen/internal/pipeline"
	"leadgen/internal/services/apollo"
	"leadgen/internal/services/hunter"
	"leadgen/internal/services/outreach"
	"leadgen/internal/services/scraper"
	"leadgen/internal/services/sheets"
)

// ==========================
// Fake External Services
// ==========================

const siteHTML = `<!DOCTYPE html>
<html>
  <head><title>Acme Manufacturing</title></head>
  <body>
    <h1>Acme Manufacturing</h1>
    <p>Precision components for industrial automation since 1998.</p>
    <p>We are opening a second plant in Pune and hiring CAD engineers.</p>
  </body>
</html>`

const insightText = `{
  "business_summary": "Acme Manufacturing builds precision components for industrial automation.",
  "company_size_indicator": "medium",
  "key_insights": ["Opening a second plant in Pune", "Hiring CAD engineers"],
  "hardware_opportunity": {"workstations": true, "servers": true, "networking": false, "storage": false, "peripherals": false},
  "decision_maker_hint": "IT Manager",
  "personalization_hook": "Their second plant opening in Pune"
}`

const messageText = `{
  "subject_line": "Workstations for your new Pune plant",
  "greeting": "Hello IT Manager,",
  "opening": "Congratulations on the second plant announcement.",
  "value_proposition": "A growing engineering team needs workstations that keep up with CAD workloads.",
  "specific_offer": "We supply CAD-grade workstations and rack servers at competitive prices.",
  "call_to_action": "Would you be open to a brief 15-minute call next week?",
  "closing": "Looking forward to supporting your expansion."
}`

// fakeEnvironment hosts httptest doubles for every external service the
// pipeline talks to. Toggles flip individual services into failure modes.
type fakeEnvironment struct {
	apollo *httptest.Server
	site   *httptest.Server
	gemini *httptest.Server
	hunter *httptest.Server
	sheets *httptest.Server

	siteDown   bool
	hunterDown bool

	sheetsPayloads []map[string]interface{}
}

func newFakeEnvironment(t *testing.T) *fakeEnvironment {
	env := &fakeEnvironment{}

	env.site = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if env.siteDown {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		io.WriteString(w, siteHTML)
	}))

	// The directory returns two matches, one of which has no website.
	env.apollo = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/organizations/search", r.URL.Path)
		require.Equal(t, "test-apollo-key", r.Header.Get("x-api-key"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"organizations": []map[string]interface{}{
				{
					"name":                    "Acme Manufacturing",
					"website_url":             env.site.URL,
					"estimated_num_employees": 240,
					"industry":                "industrial automation",
					"city":                    "Pune",
					"state":                   "Maharashtra",
					"country":                 "India",
				},
				{
					"name":                    "Ghost Traders",
					"website_url":             "",
					"estimated_num_employees": 300,
					"industry":                "trading",
					"city":                    "Mumbai",
					"state":                   "Maharashtra",
					"country":                 "India",
				},
			},
		})
	}))

	// One model endpoint serves both calls; the prompt text says which
	// payload is wanted.
	env.gemini = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		text := messageText
		if strings.Contains(string(body), "sales analyst") {
			text = insightText
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
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
		})
	}))

	env.hunter = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if env.hunterDown {
			w.WriteHeader(http.StatusInternalServerError)
			io.WriteString(w, `{"errors":[{"details":"internal error"}]}`)
			return
		}
		require.Equal(t, "/v2/domain-search", r.URL.Path)
		require.Equal(t, strings.TrimPrefix(env.site.URL, "http://"), r.URL.Query().Get("domain"))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]interface{}{
				"domain": r.URL.Query().Get("domain"),
				"emails": []map[string]interface{}{
					{
						"value":        "jane.doe@acme.com",
						"first_name":   "Jane",
						"last_name":    "Doe",
						"position":     "IT Manager",
						"department":   "it",
						"verification": map[string]interface{}{"result": "deliverable"},
					},
				},
			},
		})
	}))

	env.sheets = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		env.sheetsPayloads = append(env.sheetsPayloads, payload)
		json.NewEncoder(w).Encode(map[string]interface{}{"success": true})
	}))

	return env
}

func (env *fakeEnvironment) Close() {
	env.apollo.Close()
	env.site.Close()
	env.gemini.Close()
	env.hunter.Close()
	env.sheets.Close()
}

func testConfig(env *fakeEnvironment, outputDir string) *config.Config {
	cfg := &config.Config{}
	cfg.Apollo = config.ApolloConfig{
		BaseURL:      env.apollo.URL,
		APIKey:       "test-apollo-key",
		Timeout:      5000,
		MaxRetries:   1,
		PerPage:      25,
		RateLimitRPS: 100,
	}
	cfg.Gemini = config.GeminiConfig{
		APIKey:     "test-gemini-key",
		Model:      "gemini-2.0-flash",
		BaseURL:    env.gemini.URL,
		Timeout:    5000,
		MaxRetries: 1,
	}
	cfg.Hunter = config.HunterConfig{
		BaseURL:      env.hunter.URL,
		APIKey:       "test-hunter-key",
		Timeout:      5000,
		MaxRetries:   1,
		RateLimitRPS: 100,
	}
	cfg.Scraper = config.ScraperConfig{
		Timeout:         5000,
		MaxContentChars: 6000,
		UserAgent:       "leadgen-e2e",
	}
	cfg.Sheets = config.SheetsConfig{
		Endpoint: env.sheets.URL,
		Timeout:  5000,
	}
	cfg.Output = config.OutputConfig{Dir: outputDir}
	cfg.Signature = config.SignatureConfig{
		Name:    "Jay Arora",
		Title:   "Hardware Solutions Specialist",
		Company: "NewTech Computers",
		Phone:   "+1 (619) 200-0000",
		Email:   "jay@newtechcomputers.com",
	}
	return cfg
}

func buildPipeline(t *testing.T, cfg *config.Config) *pipeline.Pipeline {
	ctx := context.Background()
	log := logger.NewTestLogger(t)

	apolloClient := apollo.NewClient(&cfg.Apollo, log)

	extractor, err := scraper.NewExtractor(ctx, &cfg.Scraper, &cfg.Gemini, log)
	require.NoError(t, err)

	composer, err := outreach.NewComposer(ctx, &cfg.Gemini, log)
	require.NoError(t, err)

	hunterClient := hunter.NewClient(&cfg.Hunter, log)
	sheetsClient := sheets.NewClient(&cfg.Sheets, log)

	return pipeline.NewPipeline(apolloClient, extractor, hunterClient, composer, sheetsClient, cfg, log)
}

// ==========================
// End-to-End Scenarios
// ==========================

func TestFullLeadGenerationRun(t *testing.T) {
	env := newFakeEnvironment(t)
	defer env.Close()

	outputDir := t.TempDir()
	cfg := testConfig(env, outputDir)
	pipe := buildPipeline(t, cfg)

	t.Log("🚀 Running the full pipeline against fake services...")

	criteria := models.SearchCriteria{SizeRange: "201-500", Industry: "hardware", Location: "india"}
	leads, err := pipe.ProcessLeads(context.Background(), criteria, 2)
	require.NoError(t, err)

	// Two companies come back from the directory; the one without a website
	// is skipped.
	require.Len(t, leads, 1)

	lead := leads[0]
	assert.Equal(t, "Acme Manufacturing", lead.Company.Name)
	assert.Equal(t, env.site.URL, lead.Company.Website)
	assert.Equal(t, 240, lead.Company.EmployeeCount)
	assert.Equal(t, "Pune, Maharashtra, India", lead.Company.Location)

	assert.Equal(t, "Acme Manufacturing builds precision components for industrial automation.", lead.Insights.BusinessSummary)
	assert.Equal(t, "medium", lead.Insights.SizeIndicator)
	assert.True(t, lead.Insights.HardwareOpportunity.Workstations)
	assert.True(t, lead.Insights.HardwareOpportunity.Servers)

	require.Len(t, lead.Contacts, 1)
	assert.Equal(t, "jane.doe@acme.com", lead.Contacts[0].Email)
	assert.Equal(t, "IT Manager", lead.Contacts[0].Position)
	assert.True(t, lead.Contacts[0].Verified)

	assert.Contains(t, lead.PersonalizedMessage, "Subject: Workstations for your new Pune plant")
	assert.Contains(t, lead.PersonalizedMessage, "Hello IT Manager,")
	assert.Contains(t, lead.PersonalizedMessage, "Best regards,\nJay Arora")

	savedTo, err := pipe.SaveLeadsToFile(context.Background(), leads, "")
	require.NoError(t, err)
	assert.Equal(t, "Google Sheets + Local Backup", savedTo)

	// The webhook received the flattened rows.
	require.Len(t, env.sheetsPayloads, 1)
	payload := env.sheetsPayloads[0]
	assert.Equal(t, "addLeads", payload["action"])
	rows, ok := payload["data"].([]interface{})
	require.True(t, ok)
	require.Len(t, rows, 1)
	row := rows[0].(map[string]interface{})
	assert.Equal(t, "Acme Manufacturing", row["company_name"])
	assert.Equal(t, "jane.doe@acme.com", row["contact_emails"])
	assert.Equal(t, "Jane Doe (IT Manager)", row["decision_makers"])
	assert.Equal(t, "Workstations, Servers", row["hardware_opportunities"])

	// The local backup holds the nested records.
	files, err := filepath.Glob(filepath.Join(outputDir, "leads_*.json"))
	require.NoError(t, err)
	require.Len(t, files, 1)

	raw, err := os.ReadFile(files[0])
	require.NoError(t, err)

	var records []map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &records))
	require.Len(t, records, 1)
	company, ok := records[0]["company"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Acme Manufacturing", company["name"])
	assert.NotEmpty(t, records[0]["generated_at"])
	assert.NotEmpty(t, records[0]["personalized_message"])

	t.Log("✅ Full pipeline run successful")
}

func TestRunSurvivesContactOutage(t *testing.T) {
	env := newFakeEnvironment(t)
	defer env.Close()

	env.hunterDown = true

	cfg := testConfig(env, t.TempDir())
	pipe := buildPipeline(t, cfg)

	criteria := models.SearchCriteria{SizeRange: "201-500", Industry: "hardware", Location: "india"}
	leads, err := pipe.ProcessLeads(context.Background(), criteria, 10)
	require.NoError(t, err)

	// The contact directory being down costs the contact list, not the lead.
	require.Len(t, leads, 1)
	assert.Empty(t, leads[0].Contacts)
	assert.Contains(t, leads[0].PersonalizedMessage, "Subject: Workstations for your new Pune plant")
}

func TestRunFallsBackWhenSiteUnreachable(t *testing.T) {
	env := newFakeEnvironment(t)
	defer env.Close()

	env.siteDown = true

	cfg := testConfig(env, t.TempDir())
	pipe := buildPipeline(t, cfg)

	criteria := models.SearchCriteria{SizeRange: "201-500", Industry: "hardware", Location: "india"}
	leads, err := pipe.ProcessLeads(context.Background(), criteria, 10)
	require.NoError(t, err)

	// An unreachable website degrades to the fallback record; the lead is
	// still composed and delivered.
	require.Len(t, leads, 1)
	assert.Equal(t, "Company details could not be analyzed from website", leads[0].Insights.BusinessSummary)
	assert.Equal(t, "unknown", leads[0].Insights.SizeIndicator)
	require.Len(t, leads[0].Contacts, 1)
	assert.NotEmpty(t, leads[0].PersonalizedMessage)
}
