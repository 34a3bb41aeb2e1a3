// cmd/leadgen/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"leadgen/internal/common/config"
	"leadgen/internal/common/logger"
	"leadgen/internal/common/metrics"
	"leadgen/internal/models"
	"leadgen/internal/notify"
	"leadgen/internal/pipeline"
	"leadgen/internal/services/apollo"
	"leadgen/internal/services/hunter"
	"leadgen/internal/services/outreach"
	"leadgen/internal/services/scraper"
	"leadgen/internal/services/sheets"
)

var (
	sizeRange  = flag.String("size-range", "201-500", "Employee count range to search, e.g. '201-500'")
	industry   = flag.String("industry", "hardware", "Industry keyword to search for")
	location   = flag.String("location", "india", "Company location filter")
	maxLeads   = flag.Int("max-leads", 10, "Maximum number of leads to generate")
	outputFile = flag.String("output-file", "", "Local backup path (default: data/output/leads_<timestamp>.json)")

	enrichDomain = flag.String("enrich-domain", "", "Print the raw directory profile for a single domain and exit")
	checkSheets  = flag.Bool("check-sheets", false, "Probe the Google Sheets webhook and exit")
)

func main() {
	flag.Parse()

	// Bootstrap logger until the configured one is available.
	zapLog := logger.New("info", "console")

	zapLog.Info("Starting Lead Generation Automation System")
	zapLog.Info(fmt.Sprintf("Search parameters: %s employees, %s, %s", *sizeRange, *industry, *location))

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog = logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	runID := uuid.New().String()
	log := logger.NewZapAdapter(zapLog).WithFields(map[string]interface{}{
		"run_id": runID,
	})

	if cfg.Metrics.Addr != "" {
		go func() {
			http.Handle("/metrics", promhttp.Handler())
			zapLog.Info("Metrics server listening on " + cfg.Metrics.Addr)
			if err := http.ListenAndServe(cfg.Metrics.Addr, nil); err != nil {
				zapLog.Error("Metrics server failed", zap.Error(err))
			}
		}()
	}

	ctx := context.Background()

	apolloClient := apollo.NewClient(&cfg.Apollo, log)
	sheetsClient := sheets.NewClient(&cfg.Sheets, log)

	// Utility modes exit before the full pipeline is assembled.
	if *checkSheets {
		if err := sheetsClient.TestConnection(ctx); err != nil {
			zapLog.Fatal("Sheets connection check failed", zap.Error(err))
		}
		fmt.Println("Google Sheets connection OK")
		return
	}

	if *enrichDomain != "" {
		profile, err := apolloClient.EnrichCompany(ctx, *enrichDomain)
		if err != nil {
			zapLog.Fatal("Company enrichment failed", zap.Error(err))
		}
		out, _ := json.MarshalIndent(profile, "", "  ")
		fmt.Println(string(out))
		return
	}

	zapLog.Info("Initializing services...")

	extractor, err := scraper.NewExtractor(ctx, &cfg.Scraper, &cfg.Gemini, log)
	if err != nil {
		zapLog.Fatal("insight extractor init failed", zap.Error(err))
	}

	composer, err := outreach.NewComposer(ctx, &cfg.Gemini, log)
	if err != nil {
		zapLog.Fatal("outreach composer init failed", zap.Error(err))
	}

	hunterClient := hunter.NewClient(&cfg.Hunter, log)

	notifier, err := notify.NewNotifier(ctx, &cfg.Notify, log)
	if err != nil {
		zapLog.Fatal("notifier init failed", zap.Error(err))
	}

	pipe := pipeline.NewPipeline(apolloClient, extractor, hunterClient, composer, sheetsClient, cfg, log)

	criteria := models.SearchCriteria{
		SizeRange: *sizeRange,
		Industry:  *industry,
		Location:  *location,
	}

	zapLog.Info("Starting lead enrichment pipeline...")

	start := time.Now()
	leads, err := pipe.ProcessLeads(ctx, criteria, *maxLeads)
	metrics.RunDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		zapLog.Fatal("Lead generation failed", zap.Error(err))
	}

	if len(leads) == 0 {
		zapLog.Warn("No leads were generated")
		return
	}

	pipe.DisplayLeadsSummary(leads)

	filename, err := pipe.SaveLeadsToFile(ctx, leads, *outputFile)
	if err != nil {
		zapLog.Fatal("Lead generation failed", zap.Error(err))
	}

	zapLog.Info("Lead generation completed successfully!")
	zapLog.Info(fmt.Sprintf("Generated %d leads saved to: %s", len(leads), filename))

	if cfg.Notify.Enabled {
		result := notify.RunResult{
			RunID:       runID,
			LeadCount:   len(leads),
			SavedTo:     filename,
			Criteria:    criteria,
			CompletedAt: time.Now(),
		}
		if out, err := notifier.NotifyRunComplete(ctx, result); err != nil {
			log.WithError(err).Warn("Run notification failed", nil)
		} else {
			log.Info("Run notification sent", map[string]interface{}{
				"notification_id": out.NotificationID,
				"status":          out.Status,
			})
		}
	}

	fmt.Println("\nSAMPLE PERSONALIZED MESSAGE:")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Println(leads[0].PersonalizedMessage)
}
