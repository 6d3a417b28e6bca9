package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"log/slog"

	"github.com/orasis/portgen/internal/config"
	"github.com/orasis/portgen/internal/llm"
	"github.com/orasis/portgen/internal/logging"
	"github.com/orasis/portgen/internal/metrics"
	"github.com/orasis/portgen/internal/report"
	"github.com/orasis/portgen/internal/search"
	"github.com/orasis/portgen/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stdout, nil)).Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		slog.New(slog.NewJSONHandler(os.Stdout, nil)).Error("failed to init logger", "error", err)
		os.Exit(1)
	}

	logger.Info("starting portfolio report generator",
		"provider", cfg.Completion.Provider,
		"data_source", cfg.Report.DataSource,
		"on_error", cfg.Report.OnError,
		"report_date", cfg.Report.ReportDate)

	collector, err := metrics.NewPipelineCollector()
	if err != nil {
		logger.Error("failed to init metrics", "error", err)
		os.Exit(1)
	}

	if cfg.Metrics.Addr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", collector.Handler())
			logger.Info("metrics listener started", "addr", cfg.Metrics.Addr)
			if err := http.ListenAndServe(cfg.Metrics.Addr, mux); err != nil {
				logger.Error("metrics listener failed", "error", err)
			}
		}()
	}

	completer, err := llm.New(cfg.Completion, collector, logger)
	if err != nil {
		logger.Error("failed to init completion client", "error", err)
		os.Exit(1)
	}

	var searcher report.Searcher
	if cfg.Search.APIKey != "" {
		if !strings.HasPrefix(cfg.Search.APIKey, "pplx-") {
			logger.Warn("PERPLEXITY_API_KEY does not start with 'pplx-', which is the expected format")
		}
		searcher = search.NewClient(cfg.Search, collector, logger)
	} else {
		logger.Warn("PERPLEXITY_API_KEY not set, web search disabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pipeline := report.NewPipeline(report.Options{
		Completer:      completer,
		Searcher:       searcher,
		Collector:      collector,
		Report:         cfg.Report,
		SearchMaxChars: cfg.Search.MaxChars,
		Logger:         logger,
	})

	start := time.Now()
	outcome, err := pipeline.Run(ctx)
	if err != nil {
		logger.Error("report generation failed", "error", err)
		os.Exit(1)
	}

	writer, err := store.NewWriter(cfg.Output.Dir, logger)
	if err != nil {
		logger.Error("failed to prepare output directory", "error", err)
		os.Exit(1)
	}

	reportPath, err := writer.WriteReport(outcome.Markdown)
	if err != nil {
		logger.Error("failed to write report", "error", err)
		os.Exit(1)
	}

	dataPath, err := writer.WriteData(outcome.Data)
	if err != nil {
		logger.Error("failed to write portfolio data", "error", err)
		os.Exit(1)
	}

	if _, err := writer.WritePrompts(outcome.Prompts); err != nil {
		logger.Warn("failed to write prompt dump", "error", err)
	}

	if cfg.Upload.DatabaseURL != "" {
		uploadReport(ctx, cfg.Upload.DatabaseURL, outcome, logger)
	}

	fmt.Printf("Report generated successfully in %.2f seconds\n", time.Since(start).Seconds())
	fmt.Printf("Report saved to: %s\n", reportPath)
	fmt.Printf("Portfolio data saved to: %s\n", dataPath)
	printSummary(outcome)
}

// uploadReport pushes the finished run to Postgres. Failures are logged and
// never fail the run; the files on disk are the primary artifact.
func uploadReport(ctx context.Context, databaseURL string, outcome *report.Outcome, logger *slog.Logger) {
	repo, err := store.NewRepository(ctx, databaseURL, logger)
	if err != nil {
		logger.Warn("document store unavailable, skipping upload", "error", err)
		return
	}
	defer repo.Close()

	if err := repo.EnsureSchema(ctx); err != nil {
		logger.Warn("failed to ensure document store schema", "error", err)
		return
	}

	runID, err := repo.SaveReport(ctx, outcome.Markdown, outcome.Data)
	if err != nil {
		logger.Warn("failed to upload report", "error", err)
		return
	}
	logger.Info("report upload complete", "run_id", runID)
}

// printSummary mirrors the structured data onto stdout for a quick read after
// the run.
func printSummary(outcome *report.Outcome) {
	data := outcome.Data
	if data.Status != "success" {
		fmt.Printf("\nStructured data status: %s (%s)\n", data.Status, data.Message)
		return
	}

	fmt.Printf("\nPortfolio contains %d assets:\n", len(data.Assets))
	for i, asset := range data.Assets {
		if i == 5 {
			fmt.Printf("  ... and %d more assets\n", len(data.Assets)-5)
			break
		}
		fmt.Printf("  %s: %d%% - %s\n", asset.AssetName, asset.Weight, asset.Recommendation)
	}

	if len(data.Summary.ByCategory) > 0 {
		fmt.Println("\nAllocation by category:")
		for category, weight := range data.Summary.ByCategory {
			fmt.Printf("  %s: %d%%\n", category, weight)
		}
	}

	if len(data.References) > 0 {
		fmt.Printf("\nReport includes %d source references\n", len(data.References))
	}

	if len(outcome.UnparsedRows) > 0 {
		fmt.Printf("\nWarning: %d table rows could not be parsed (confidence %.2f)\n",
			len(outcome.UnparsedRows), outcome.Confidence)
	}
}
