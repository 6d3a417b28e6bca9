package report

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/orasis/portgen/internal/config"
	"github.com/orasis/portgen/internal/llm"
	"github.com/orasis/portgen/internal/models"
)

const fakeExecSummary = `## Executive Summary

Constructive outlook on trade-linked assets.

| Asset/Ticker | Position Type | Allocation % | Time Horizon | Confidence Level |
|---|---|---|---|---|
| Scorpio Tankers (STNG) | Long | 60 | Medium (3-6M) | High |
| SPDR Gold Shares (GLD) | Long | 40 | Strategic (12M+) | Low |
`

const fakeAssetList = `Scorpio Tankers (STNG) - Shipping Equity - Global - product tanker rates up 20% YoY
SPDR Gold Shares (GLD) - Commodity - Global - central bank buying at record levels`

const fakeModelJSON = "```json\n" + `{
  "status": "success",
  "data": {
    "report_date": "April 4, 2025",
    "assets": [
      {"asset_name": "Scorpio Tankers (STNG)", "category": "Shipping Equity", "region": "Global", "weight": 60, "horizon": "Medium (3-6M)", "recommendation": "Buy (Long)", "rationale": "Rates."},
      {"asset_name": "SPDR Gold Shares (GLD)", "category": "Commodity", "region": "Global", "weight": "40", "horizon": "Strategic (12M+)", "recommendation": "Buy (Long)", "rationale": "Hedge."}
    ],
    "summary": {
      "by_category": {"Shipping Equity": 60, "Commodity": 40},
      "by_region": {"Global": 100},
      "by_recommendation": {"Buy (Long)": 100}
    },
    "references": [
      {"id": "ref1", "category": "Shipping", "author": "Clarksons", "title": "Tanker Market Outlook", "publisher": "Clarksons Research", "date": "2025-03-01", "url": "https://example.com"}
    ]
  }
}` + "\n```"

// fakeCompleter answers by prompt shape; failOn makes calls whose user prompt
// contains the substring fail.
type fakeCompleter struct {
	mu     sync.Mutex
	failOn string
	calls  []string
}

func (f *fakeCompleter) Complete(_ context.Context, req llm.Request) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req.Purpose)
	f.mu.Unlock()

	if f.failOn != "" && strings.Contains(req.UserPrompt, f.failOn) {
		return "", fmt.Errorf("simulated api failure")
	}

	switch {
	case strings.Contains(req.UserPrompt, "executive summary"):
		return fakeExecSummary, nil
	case strings.Contains(req.UserPrompt, "Create a list of"):
		return fakeAssetList, nil
	case req.Purpose == "portfolio_json":
		return fakeModelJSON, nil
	default:
		return "## Section\n\nGenerated content.", nil
	}
}

type fakeSearcher struct {
	fail bool
}

func (f fakeSearcher) Search(_ context.Context, queries []string) []models.SearchResult {
	out := make([]models.SearchResult, len(queries))
	for i, q := range queries {
		if f.fail {
			out[i] = models.SearchResult{Query: q, Err: "unauthorized"}
			continue
		}
		out[i] = models.SearchResult{
			Query: q,
			Results: []models.SearchSource{{
				Title:   q,
				URL:     fmt.Sprintf("https://example.com/%d", i),
				Content: "market data point",
			}},
		}
	}
	return out
}

func testReportConfig(policy config.ErrorPolicy) config.ReportConfig {
	return config.ReportConfig{
		OnError:       policy,
		DataSource:    config.DataFromExtract,
		PositionsMin:  1,
		PositionsMax:  15,
		TargetLongPct: 80,
		AssetBatch:    2,
		ReportDate:    "April 4, 2025",
	}
}

func testPipeline(completer llm.Completer, searcher Searcher, cfg config.ReportConfig, stdin io.Reader) *Pipeline {
	return NewPipeline(Options{
		Completer:      completer,
		Searcher:       searcher,
		Report:         cfg,
		SearchMaxChars: 4000,
		Logger:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		Stdin:          stdin,
		Stdout:         io.Discard,
	})
}

func TestPipelineRunAssemblesReport(t *testing.T) {
	completer := &fakeCompleter{}
	p := testPipeline(completer, fakeSearcher{}, testReportConfig(config.PolicyContinue), nil)

	outcome, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if !strings.HasPrefix(outcome.Markdown, "# Orasis Capital Multi-Asset Portfolio – April 4, 2025") {
		t.Errorf("missing title banner, report starts with: %.80s", outcome.Markdown)
	}
	if !strings.Contains(outcome.Markdown, "```json") {
		t.Error("expected structured data appended as a fenced json block")
	}
	if outcome.Data.Status != models.StatusSuccess {
		t.Errorf("data status = %q (%s)", outcome.Data.Status, outcome.Data.Message)
	}
	if len(outcome.Data.Assets) != 2 {
		t.Errorf("extracted assets = %d, want 2", len(outcome.Data.Assets))
	}
	if len(outcome.Sections) != 10 {
		t.Errorf("sections = %d, want 10", len(outcome.Sections))
	}
	if len(outcome.Prompts) == 0 {
		t.Error("expected prompt records for the audit dump")
	}
}

func TestPipelineSectionOrder(t *testing.T) {
	completer := &fakeCompleter{}
	p := testPipeline(completer, fakeSearcher{}, testReportConfig(config.PolicyContinue), nil)

	outcome, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := []string{
		"executive_summary", "global_economy", "energy_markets", "commodities",
		"shipping", "portfolio_items", "benchmarking", "risk_assessment",
		"conclusion", "references",
	}
	for i, name := range want {
		if outcome.Sections[i].Name != name {
			t.Errorf("section[%d] = %q, want %q", i, outcome.Sections[i].Name, name)
		}
	}
}

func TestPipelineAbortPolicyStopsOnFailure(t *testing.T) {
	completer := &fakeCompleter{failOn: "Energy Markets"}
	p := testPipeline(completer, fakeSearcher{}, testReportConfig(config.PolicyAbort), nil)

	if _, err := p.Run(context.Background()); err == nil {
		t.Fatal("expected abort policy to surface the generation error")
	}
}

func TestPipelineContinuePolicyInsertsPlaceholder(t *testing.T) {
	completer := &fakeCompleter{failOn: "Energy Markets"}
	p := testPipeline(completer, fakeSearcher{}, testReportConfig(config.PolicyContinue), nil)

	outcome, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(outcome.Markdown, "Error generating content:") {
		t.Error("expected placeholder section for the failed call")
	}
	if len(outcome.Sections) != 10 {
		t.Errorf("sections = %d, want 10 despite one failure", len(outcome.Sections))
	}
}

func TestPipelineAskPolicyReadsDecision(t *testing.T) {
	// No searcher configured: the ask policy decides whether to proceed.
	completer := &fakeCompleter{}

	p := testPipeline(completer, nil, testReportConfig(config.PolicyAsk), strings.NewReader("y\n"))
	if _, err := p.Run(context.Background()); err != nil {
		t.Errorf("expected yes answer to continue the run, got %v", err)
	}

	p = testPipeline(completer, nil, testReportConfig(config.PolicyAsk), strings.NewReader("n\n"))
	if _, err := p.Run(context.Background()); err == nil {
		t.Error("expected no answer to abort the run")
	}
}

func TestPipelineMostSearchesFailedConsultsPolicy(t *testing.T) {
	completer := &fakeCompleter{}
	p := testPipeline(completer, fakeSearcher{fail: true}, testReportConfig(config.PolicyAbort), nil)

	if _, err := p.Run(context.Background()); err == nil {
		t.Fatal("expected abort when all searches fail under the abort policy")
	}

	p = testPipeline(completer, fakeSearcher{fail: true}, testReportConfig(config.PolicyContinue), nil)
	outcome, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if outcome.Data.Status != models.StatusSuccess {
		t.Errorf("run without search data should still extract, got status %q", outcome.Data.Status)
	}
}

func TestPipelineModelDataSource(t *testing.T) {
	cfg := testReportConfig(config.PolicyContinue)
	cfg.DataSource = config.DataFromModel

	completer := &fakeCompleter{}
	p := testPipeline(completer, fakeSearcher{}, cfg, nil)

	outcome, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(outcome.Data.Assets) != 2 {
		t.Fatalf("model data assets = %d, want 2", len(outcome.Data.Assets))
	}
	if outcome.Data.Assets[1].Weight != 40 {
		t.Errorf("quoted weight = %d, want 40", outcome.Data.Assets[1].Weight)
	}
	if len(outcome.Data.References) != 1 {
		t.Errorf("references = %d, want 1", len(outcome.Data.References))
	}
}

func TestParseAssetList(t *testing.T) {
	raw := `# Asset List

Asset List for the portfolio:

1. Scorpio Tankers (STNG) - Shipping Equity
2. SPDR Gold Shares (GLD) - Commodity

`
	got := parseAssetList(raw)
	if len(got) != 2 {
		t.Fatalf("parsed %d assets, want 2: %v", len(got), got)
	}
	if !strings.Contains(got[0], "STNG") {
		t.Errorf("first asset = %q", got[0])
	}
}
