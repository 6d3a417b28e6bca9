package extract

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/orasis/portgen/internal/models"
)

// tableRowPattern matches one five-cell pipe-delimited markdown table row:
// | Asset/Ticker | Position Type | Allocation % | Time Horizon | Confidence |
var tableRowPattern = regexp.MustCompile(`(?m)^\s*\|([^|\n]+)\|([^|\n]+)\|([^|\n]+)\|([^|\n]+)\|([^|\n]+)\|\s*$`)

// headerCellPattern identifies header and separator rows to skip.
var headerCellPattern = regexp.MustCompile(`(?i)^\s*(asset|ticker|position|[-: ]+)?\s*$|asset\s*/\s*ticker`)

// tickerPattern pulls an uppercase ticker out of an asset name, e.g.
// "Scorpio Tankers (STNG)" or "STNG - Scorpio Tankers".
var tickerPattern = regexp.MustCompile(`\(([A-Z]{2,6})(?:\.[A-Z]+)?\)|^([A-Z]{2,6})\b`)

// rationalePattern finds a labelled rationale fragment in free text.
var rationalePattern = regexp.MustCompile(`(?i)rationale:?\s*([^\n]+)`)

const maxRationaleLen = 150

// Extractor scrapes the structured allocation out of generated report text.
// The ticker table is injected so the classification universe stays testable
// and swappable.
type Extractor struct {
	tickers map[string]AssetClassification
	logger  *slog.Logger
}

// Result carries the structured report plus parser diagnostics: rows the
// table regex matched but could not be turned into positions, and a
// confidence score in [0,1] reflecting how much of the table survived.
type Result struct {
	Report       models.PortfolioReport
	UnparsedRows []string
	Confidence   float64
}

// NewExtractor creates an extractor over the given ticker table. A nil table
// falls back to the built-in universe.
func NewExtractor(tickers map[string]AssetClassification, logger *slog.Logger) *Extractor {
	if tickers == nil {
		tickers = DefaultTickerTable()
	}
	return &Extractor{tickers: tickers, logger: logger}
}

// Extract builds a PortfolioReport from the executive-summary table. corpus
// is the concatenation of all generated sections and is consulted for
// labelled category/region text and rationales. Extraction never panics out:
// any internal failure yields an error-status report with an empty asset list.
func (e *Extractor) Extract(execSummary, corpus, reportDate string) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("extraction failed", "panic", r)
			result = Result{Report: errorReport(fmt.Sprintf("extraction failed: %v", r), reportDate)}
		}
	}()

	assets, unparsed := e.parseTable(execSummary, corpus)

	// Best-effort fallback: rescan the entire corpus when the executive
	// summary yields nothing.
	if len(assets) == 0 {
		e.logger.Warn("no positions found in executive summary, rescanning full corpus")
		assets, unparsed = e.parseTable(corpus, corpus)
	}

	if len(assets) == 0 {
		return Result{
			Report:       errorReport("no portfolio positions could be extracted", reportDate),
			UnparsedRows: unparsed,
		}
	}

	report := models.PortfolioReport{
		Status:     models.StatusSuccess,
		ReportDate: reportDate,
		Assets:     assets,
		Summary:    buildSummary(assets),
	}

	total := len(assets) + len(unparsed)
	confidence := float64(len(assets)) / float64(total)

	return Result{Report: report, UnparsedRows: unparsed, Confidence: confidence}
}

// parseTable applies the row pattern to text and maps each surviving row to
// an AssetPosition, resolving category/region/rationale against corpus.
func (e *Extractor) parseTable(text, corpus string) ([]models.AssetPosition, []string) {
	var assets []models.AssetPosition
	var unparsed []string

	for _, match := range tableRowPattern.FindAllStringSubmatch(text, -1) {
		cells := make([]string, 5)
		for i := 0; i < 5; i++ {
			cells[i] = strings.TrimSpace(match[i+1])
		}

		if cells[0] == "" || headerCellPattern.MatchString(cells[0]) {
			continue
		}
		// Separator rows are all dashes/colons.
		if strings.Trim(cells[0], "-: ") == "" {
			continue
		}

		position, ok := e.parseRow(cells, corpus)
		if !ok {
			unparsed = append(unparsed, strings.TrimSpace(match[0]))
			continue
		}
		assets = append(assets, position)
	}

	return assets, unparsed
}

// parseRow maps the five positional cells to an AssetPosition.
func (e *Extractor) parseRow(cells []string, corpus string) (models.AssetPosition, bool) {
	name := cells[0]
	positionType := cells[1]
	weight := parseWeight(cells[2])
	horizon := cells[3]
	confidence := cells[4]

	if name == "" {
		return models.AssetPosition{}, false
	}

	// A row whose position-type and confidence cells both look like neither
	// side of the expected vocabulary is most likely a reordered or truncated
	// table; report it instead of guessing every field.
	if !looksLikePositionType(positionType) && !looksLikeConfidence(confidence) {
		return models.AssetPosition{}, false
	}

	ticker := extractTicker(name)
	category, region := e.classify(name, ticker, corpus)

	return models.AssetPosition{
		AssetName:      name,
		Category:       category,
		Region:         region,
		Weight:         weight,
		Horizon:        horizon,
		Recommendation: deriveRecommendation(positionType, confidence),
		Rationale:      e.findRationale(name, ticker, corpus),
	}, true
}

// classify resolves category and region: ticker table first, then substring
// heuristics over the asset name, then labelled text in the corpus, then the
// default buckets.
func (e *Extractor) classify(name, ticker, corpus string) (string, string) {
	if ticker != "" {
		if c, ok := e.tickers[ticker]; ok {
			return c.Category, c.Region
		}
	}

	upper := strings.ToUpper(name)

	category := ""
	for _, h := range categoryHeuristics {
		if strings.Contains(upper, h.Substring) {
			category = h.Category
			break
		}
	}

	region := ""
	for _, h := range regionHeuristics {
		if strings.Contains(upper, h.Substring) {
			region = h.Region
			break
		}
	}

	if category == "" {
		category = findLabelledValue(corpus, name, "Category")
	}
	if region == "" {
		region = findLabelledValue(corpus, name, "Region")
	}

	return canonicalCategory(category), canonicalRegion(region)
}

// findRationale scrapes a rationale for the asset: a labelled "Rationale:"
// fragment near the asset name, the first sentence mentioning the asset, a
// static per-ticker fallback, or a generic fallback.
func (e *Extractor) findRationale(name, ticker, corpus string) string {
	if fragment := rationaleNear(corpus, name); fragment != "" {
		return truncate(fragment, maxRationaleLen)
	}
	if sentence := sentenceContaining(corpus, displayName(name)); sentence != "" {
		return truncate(sentence, maxRationaleLen)
	}
	if r, ok := tickerRationales[ticker]; ok {
		return r
	}
	return "Allocation per portfolio strategy; see full report for details."
}

// rationaleNear finds the first "Rationale: ..." fragment that appears within
// the paragraph block following the asset name.
func rationaleNear(corpus, name string) string {
	idx := strings.Index(corpus, displayName(name))
	if idx == -1 {
		return ""
	}
	window := corpus[idx:]
	if len(window) > 2000 {
		window = window[:2000]
	}
	if m := rationalePattern.FindStringSubmatch(window); len(m) > 1 {
		return strings.TrimSpace(strings.Trim(m[1], "*_ "))
	}
	return ""
}

// sentenceContaining returns the first sentence of the corpus mentioning
// needle.
func sentenceContaining(corpus, needle string) string {
	if needle == "" {
		return ""
	}
	idx := strings.Index(corpus, needle)
	if idx == -1 {
		return ""
	}

	start := strings.LastIndexAny(corpus[:idx], ".!?\n") + 1
	rest := corpus[start:]
	end := strings.IndexAny(rest, ".!?\n")
	if end == -1 {
		end = len(rest)
	} else {
		end++
	}

	sentence := strings.TrimSpace(rest[:end])
	// Table rows and headers are not sentences.
	if strings.HasPrefix(sentence, "|") || strings.HasPrefix(sentence, "#") {
		return ""
	}
	return sentence
}

// displayName strips a trailing parenthesized ticker so lookups against prose
// use the human-readable name.
func displayName(name string) string {
	if i := strings.Index(name, "("); i > 0 {
		return strings.TrimSpace(name[:i])
	}
	return name
}

// extractTicker pulls the ticker symbol out of an asset cell.
func extractTicker(name string) string {
	m := tickerPattern.FindStringSubmatch(name)
	if m == nil {
		return ""
	}
	if m[1] != "" {
		return m[1]
	}
	return m[2]
}

// parseWeight parses an integer allocation percent; non-numeric cells
// yield 0.
func parseWeight(cell string) int {
	cleaned := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(cell), "%"))
	// Tolerate decimals by truncating.
	if f, err := strconv.ParseFloat(cleaned, 64); err == nil && f >= 0 {
		return int(f)
	}
	return 0
}

// deriveRecommendation crosses position type with confidence level.
func deriveRecommendation(positionType, confidence string) string {
	short := strings.Contains(strings.ToUpper(positionType), "SHORT")
	conf := strings.ToUpper(confidence)

	switch {
	case strings.Contains(conf, "HIGH"):
		if short {
			return "Strong Sell"
		}
		return "Strong Buy"
	case strings.Contains(conf, "MEDIUM"), strings.Contains(conf, "MODERATE"):
		if short {
			return "Sell"
		}
		return "Buy"
	default:
		return "Hold"
	}
}

func looksLikePositionType(cell string) bool {
	upper := strings.ToUpper(cell)
	return strings.Contains(upper, "LONG") || strings.Contains(upper, "SHORT")
}

func looksLikeConfidence(cell string) bool {
	upper := strings.ToUpper(cell)
	for _, level := range []string{"HIGH", "MEDIUM", "MODERATE", "LOW"} {
		if strings.Contains(upper, level) {
			return true
		}
	}
	return false
}

// findLabelledValue searches the corpus near the asset name for labelled
// text like "Category: Shipping Equity" or "Region: Europe".
func findLabelledValue(corpus, name, label string) string {
	idx := strings.Index(corpus, displayName(name))
	if idx == -1 {
		return ""
	}
	window := corpus[idx:]
	if len(window) > 2000 {
		window = window[:2000]
	}

	pattern := regexp.MustCompile(`(?i)` + label + `:?\s*\*{0,2}\s*([^\n|*]+)`)
	if m := pattern.FindStringSubmatch(window); len(m) > 1 {
		return strings.TrimSpace(m[1])
	}
	return ""
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return strings.TrimSpace(s[:limit-3]) + "..."
}

func errorReport(message, reportDate string) models.PortfolioReport {
	return models.PortfolioReport{
		Status:     models.StatusError,
		Message:    message,
		ReportDate: reportDate,
		Assets:     []models.AssetPosition{},
		Summary: models.AllocationSummary{
			ByCategory:       map[string]int{},
			ByRegion:         map[string]int{},
			ByRecommendation: map[string]int{},
		},
	}
}
