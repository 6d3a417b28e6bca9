package extract

import (
	"log/slog"
	"reflect"
	"testing"

	"github.com/orasis/portgen/internal/models"
)

func testExtractor(t *testing.T) *Extractor {
	t.Helper()
	return NewExtractor(nil, slog.Default())
}

const sampleSummary = `# Orasis Capital Multi-Asset Portfolio

## Executive Summary

Markets remain constructive on trade volumes.

| Asset/Ticker | Position Type | Allocation % | Time Horizon | Confidence Level |
|--------------|---------------|--------------|--------------|------------------|
| Scorpio Tankers (STNG) | Long | 15 | Medium (3-6M) | High |
| Golden Ocean (GOGL) | Long | 10 | Long (6-12M) | Medium |
| ZIM Integrated (ZIM) | Short | 5 | Short (1-3M) | High |
| SPDR Gold Shares (GLD) | Long | 70 | Strategic (12M+) | Low |
`

func TestExtractSpecExampleRow(t *testing.T) {
	e := testExtractor(t)

	summary := `| Asset/Ticker | Position Type | Allocation % | Time Horizon | Confidence Level |
|---|---|---|---|---|
| Asset ABC | Long | 40 | Short (1-3M) | High |
`
	result := e.Extract(summary, summary, "April 4, 2025")

	if result.Report.Status != models.StatusSuccess {
		t.Fatalf("expected success status, got %q (%s)", result.Report.Status, result.Report.Message)
	}
	if len(result.Report.Assets) != 1 {
		t.Fatalf("expected 1 asset, got %d", len(result.Report.Assets))
	}

	got := result.Report.Assets[0]
	if got.AssetName != "Asset ABC" {
		t.Errorf("asset name = %q, want %q", got.AssetName, "Asset ABC")
	}
	if got.Weight != 40 {
		t.Errorf("weight = %d, want 40", got.Weight)
	}
	if got.Recommendation != "Strong Buy" {
		t.Errorf("recommendation = %q, want %q", got.Recommendation, "Strong Buy")
	}
	if got.Horizon != "Short (1-3M)" {
		t.Errorf("horizon = %q, want %q", got.Horizon, "Short (1-3M)")
	}
}

func TestExtractSkipsHeaderAndSeparatorRows(t *testing.T) {
	e := testExtractor(t)

	result := e.Extract(sampleSummary, sampleSummary, "April 4, 2025")

	if len(result.Report.Assets) != 4 {
		t.Fatalf("expected 4 assets, got %d: %+v", len(result.Report.Assets), result.Report.Assets)
	}
}

func TestExtractNonNumericWeightYieldsZero(t *testing.T) {
	e := testExtractor(t)

	summary := `| Asset/Ticker | Position Type | Allocation % | Time Horizon | Confidence Level |
|---|---|---|---|---|
| Asset XYZ | Long | TBD | Medium (3-6M) | High |
`
	result := e.Extract(summary, summary, "April 4, 2025")

	if len(result.Report.Assets) != 1 {
		t.Fatalf("expected 1 asset, got %d", len(result.Report.Assets))
	}
	if w := result.Report.Assets[0].Weight; w != 0 {
		t.Errorf("weight = %d, want 0 for non-numeric cell", w)
	}
}

func TestExtractIdempotent(t *testing.T) {
	e := testExtractor(t)

	first := e.Extract(sampleSummary, sampleSummary, "April 4, 2025")
	second := e.Extract(sampleSummary, sampleSummary, "April 4, 2025")

	if !reflect.DeepEqual(first.Report, second.Report) {
		t.Errorf("extraction is not idempotent:\nfirst:  %+v\nsecond: %+v", first.Report, second.Report)
	}
}

func TestExtractRegionSummarySumsTo100(t *testing.T) {
	e := testExtractor(t)

	result := e.Extract(sampleSummary, sampleSummary, "April 4, 2025")

	if got := sum(result.Report.Summary.ByRegion); got != 100 {
		t.Errorf("by_region total = %d, want 100 (%v)", got, result.Report.Summary.ByRegion)
	}
	if got := sum(result.Report.Summary.ByCategory); got != 100 {
		t.Errorf("by_category total = %d, want 100 (%v)", got, result.Report.Summary.ByCategory)
	}
	if got := sum(result.Report.Summary.ByRecommendation); got != 100 {
		t.Errorf("by_recommendation total = %d, want 100 (%v)", got, result.Report.Summary.ByRecommendation)
	}
}

func TestExtractFallsBackToFullCorpus(t *testing.T) {
	e := testExtractor(t)

	execSummary := "## Executive Summary\n\nNo table here.\n"
	corpus := execSummary + `
## Conclusion

| Asset/Ticker | Position Type | Allocation % | Time Horizon | Confidence Level |
|---|---|---|---|---|
| Frontline (FRO) | Long | 100 | Medium (3-6M) | High |
`
	result := e.Extract(execSummary, corpus, "April 4, 2025")

	if result.Report.Status != models.StatusSuccess {
		t.Fatalf("expected fallback rescan to succeed, got status %q", result.Report.Status)
	}
	if len(result.Report.Assets) != 1 {
		t.Fatalf("expected 1 asset from corpus fallback, got %d", len(result.Report.Assets))
	}
}

func TestExtractErrorStatusWhenNothingFound(t *testing.T) {
	e := testExtractor(t)

	result := e.Extract("no table", "no table anywhere", "April 4, 2025")

	if result.Report.Status != models.StatusError {
		t.Fatalf("expected error status, got %q", result.Report.Status)
	}
	if len(result.Report.Assets) != 0 {
		t.Errorf("expected empty asset list, got %d assets", len(result.Report.Assets))
	}
}

func TestExtractClassifiesByTickerTable(t *testing.T) {
	e := testExtractor(t)

	result := e.Extract(sampleSummary, sampleSummary, "April 4, 2025")

	for _, a := range result.Report.Assets {
		if a.AssetName == "Scorpio Tankers (STNG)" {
			if a.Category != CategoryShippingEquity {
				t.Errorf("STNG category = %q, want %q", a.Category, CategoryShippingEquity)
			}
			return
		}
	}
	t.Fatal("STNG position not found")
}

func TestExtractInjectableTickerTable(t *testing.T) {
	custom := map[string]AssetClassification{
		"ABCD": {Category: "Test Category", Region: "Test Region"},
	}
	e := NewExtractor(custom, slog.Default())

	summary := `| Asset/Ticker | Position Type | Allocation % | Time Horizon | Confidence Level |
|---|---|---|---|---|
| Sample Corp (ABCD) | Long | 100 | Medium (3-6M) | High |
`
	result := e.Extract(summary, summary, "April 4, 2025")

	if len(result.Report.Assets) != 1 {
		t.Fatalf("expected 1 asset, got %d", len(result.Report.Assets))
	}
	if got := result.Report.Assets[0].Category; got != "Test Category" {
		t.Errorf("category = %q, want injected table value", got)
	}
	if got := result.Report.Assets[0].Region; got != "Test Region" {
		t.Errorf("region = %q, want injected table value", got)
	}
}

func TestExtractHeuristicRegionInference(t *testing.T) {
	e := testExtractor(t)

	summary := `| Asset/Ticker | Position Type | Allocation % | Time Horizon | Confidence Level |
|---|---|---|---|---|
| China Large-Cap Basket | Long | 60 | Medium (3-6M) | High |
| Nikkei 225 Futures | Short | 40 | Short (1-3M) | Medium |
`
	result := e.Extract(summary, summary, "April 4, 2025")

	for _, a := range result.Report.Assets {
		if a.Region != RegionAsiaPacific {
			t.Errorf("%s region = %q, want %q", a.AssetName, a.Region, RegionAsiaPacific)
		}
	}
}

func TestExtractDefaultsToUncategorizedGlobal(t *testing.T) {
	e := testExtractor(t)

	summary := `| Asset/Ticker | Position Type | Allocation % | Time Horizon | Confidence Level |
|---|---|---|---|---|
| Mystery Holding | Long | 100 | Medium (3-6M) | High |
`
	result := e.Extract(summary, summary, "April 4, 2025")

	got := result.Report.Assets[0]
	if got.Category != CategoryUncategorized {
		t.Errorf("category = %q, want %q", got.Category, CategoryUncategorized)
	}
	if got.Region != RegionGlobal {
		t.Errorf("region = %q, want %q", got.Region, RegionGlobal)
	}
}

func TestExtractLabelledTextResolution(t *testing.T) {
	e := testExtractor(t)

	summary := `| Asset/Ticker | Position Type | Allocation % | Time Horizon | Confidence Level |
|---|---|---|---|---|
| Quantum Holdings | Long | 100 | Medium (3-6M) | High |
`
	corpus := summary + `
### Quantum Holdings

Category: Frontier Markets Fund
Region: Latin America
Rationale: Undervalued relative to book with improving cash conversion.
`
	result := e.Extract(summary, corpus, "April 4, 2025")

	got := result.Report.Assets[0]
	if got.Region != RegionLatinAmerica {
		t.Errorf("region = %q, want %q", got.Region, RegionLatinAmerica)
	}
	if got.Rationale != "Undervalued relative to book with improving cash conversion." {
		t.Errorf("rationale = %q", got.Rationale)
	}
}

func TestExtractReportsUnparsedRows(t *testing.T) {
	e := testExtractor(t)

	summary := `| Asset/Ticker | Position Type | Allocation % | Time Horizon | Confidence Level |
|---|---|---|---|---|
| Scorpio Tankers (STNG) | Long | 15 | Medium (3-6M) | High |
| Weird Asset | 15 | Medium | 2025 | 42 |
`
	result := e.Extract(summary, summary, "April 4, 2025")

	if len(result.Report.Assets) != 1 {
		t.Fatalf("expected 1 parsed asset, got %d", len(result.Report.Assets))
	}
	if len(result.UnparsedRows) != 1 {
		t.Fatalf("expected 1 unparsed row, got %d", len(result.UnparsedRows))
	}
	if result.Confidence >= 1.0 || result.Confidence <= 0.0 {
		t.Errorf("confidence = %v, want value in (0,1)", result.Confidence)
	}
}

func TestDeriveRecommendation(t *testing.T) {
	tests := []struct {
		positionType string
		confidence   string
		want         string
	}{
		{"Long", "High", "Strong Buy"},
		{"Long", "Medium", "Buy"},
		{"Long", "Moderate", "Buy"},
		{"Long", "Low", "Hold"},
		{"Short", "High", "Strong Sell"},
		{"Short", "Medium", "Sell"},
		{"Short", "Low", "Hold"},
	}

	for _, tt := range tests {
		t.Run(tt.positionType+"_"+tt.confidence, func(t *testing.T) {
			if got := deriveRecommendation(tt.positionType, tt.confidence); got != tt.want {
				t.Errorf("deriveRecommendation(%q, %q) = %q, want %q",
					tt.positionType, tt.confidence, got, tt.want)
			}
		})
	}
}

func TestParseWeight(t *testing.T) {
	tests := []struct {
		cell string
		want int
	}{
		{"40", 40},
		{" 15% ", 15},
		{"7.5", 7},
		{"n/a", 0},
		{"", 0},
		{"-5", 0},
	}

	for _, tt := range tests {
		if got := parseWeight(tt.cell); got != tt.want {
			t.Errorf("parseWeight(%q) = %d, want %d", tt.cell, got, tt.want)
		}
	}
}
