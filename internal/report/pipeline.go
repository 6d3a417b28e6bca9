package report

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/orasis/portgen/internal/config"
	"github.com/orasis/portgen/internal/extract"
	"github.com/orasis/portgen/internal/llm"
	"github.com/orasis/portgen/internal/metrics"
	"github.com/orasis/portgen/internal/models"
	"github.com/orasis/portgen/internal/search"
)

// reportTitlePrefix marks an executive summary that already carries the
// report banner.
const reportTitlePrefix = "# Orasis"

// Searcher runs a batch of web-search queries and returns one result per
// query, in query order.
type Searcher interface {
	Search(ctx context.Context, queries []string) []models.SearchResult
}

// PromptRecord captures one generation call for the prompt audit dump.
type PromptRecord struct {
	Name   string
	System string
	User   string
}

// Outcome is everything one pipeline run produces.
type Outcome struct {
	Markdown     string
	Data         models.PortfolioReport
	Sections     []models.Section
	Prompts      []PromptRecord
	UnparsedRows []string
	Confidence   float64
	Runtime      time.Duration
}

// Options configures a Pipeline. Completer is required; a nil Searcher
// disables web enrichment (subject to the error policy), and a nil Extractor
// falls back to the built-in ticker universe.
type Options struct {
	Completer      llm.Completer
	Searcher       Searcher
	Extractor      *extract.Extractor
	Collector      *metrics.PipelineCollector
	Report         config.ReportConfig
	SearchMaxChars int
	Logger         *slog.Logger
	Stdin          io.Reader
	Stdout         io.Writer
}

// Pipeline orchestrates one full report generation run: upfront searches,
// section generation in fixed order, batched asset analyses, assembly, and
// structured-data production.
type Pipeline struct {
	completer      llm.Completer
	searcher       Searcher
	extractor      *extract.Extractor
	collector      *metrics.PipelineCollector
	cfg            config.ReportConfig
	searchMaxChars int
	logger         *slog.Logger
	stdin          *bufio.Reader
	stdout         io.Writer

	prompts []PromptRecord
}

// NewPipeline builds a pipeline from options, filling in defaults for the
// interactive streams and the extractor.
func NewPipeline(opts Options) *Pipeline {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Extractor == nil {
		opts.Extractor = extract.NewExtractor(nil, opts.Logger)
	}
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	return &Pipeline{
		completer:      opts.Completer,
		searcher:       opts.Searcher,
		extractor:      opts.Extractor,
		collector:      opts.Collector,
		cfg:            opts.Report,
		searchMaxChars: opts.SearchMaxChars,
		logger:         opts.Logger,
		stdin:          bufio.NewReader(opts.Stdin),
		stdout:         opts.Stdout,
	}
}

// Run executes the full pipeline and returns the assembled report.
func (p *Pipeline) Run(ctx context.Context) (*Outcome, error) {
	start := time.Now()
	reportDate := p.cfg.ReportDate

	searchContext, err := p.gatherSearchContext(ctx)
	if err != nil {
		return nil, err
	}

	leading := []sectionSpec{
		{"executive_summary", "Executive Summary", executiveSummaryPrompt(reportDate, p.cfg.PositionsMin, p.cfg.PositionsMax)},
		{"global_economy", "Global Trade & Economy", globalEconomyPrompt},
		{"energy_markets", "Energy Markets", energyMarketsPrompt},
		{"commodities", "Commodities", commoditiesPrompt},
		{"shipping", "Shipping Sectors", shippingPrompt},
	}
	trailing := []sectionSpec{
		{"benchmarking", "Performance Benchmarking", benchmarkingPrompt},
		{"risk_assessment", "Risk Assessment", riskAssessmentPrompt},
		{"conclusion", "Conclusion and Summary", conclusionPrompt},
		{"references", "References", referencesPrompt},
	}

	var sections []models.Section

	for _, spec := range leading {
		content, err := p.generateSection(ctx, spec.Name, spec.Prompt, searchContext)
		if err != nil {
			return nil, err
		}
		sections = append(sections, models.Section{Name: spec.Key, Content: content})
	}

	portfolioItems, assetList, err := p.generatePortfolioItems(ctx, searchContext)
	if err != nil {
		return nil, err
	}
	sections = append(sections, models.Section{Name: "portfolio_items", Content: portfolioItems})

	for _, spec := range trailing {
		content, err := p.generateSection(ctx, spec.Name, spec.Prompt, searchContext)
		if err != nil {
			return nil, err
		}
		sections = append(sections, models.Section{Name: spec.Key, Content: content})
	}

	// The executive summary opens the report; inject the title banner when
	// the model did not emit it.
	if !strings.HasPrefix(sections[0].Content, reportTitlePrefix) {
		sections[0].Content = fmt.Sprintf("# Orasis Capital Multi-Asset Portfolio – %s\n\n%s",
			reportDate, sections[0].Content)
	}

	parts := make([]string, 0, len(sections))
	for _, s := range sections {
		parts = append(parts, s.Content)
	}
	corpus := strings.Join(parts, "\n\n")

	outcome := &Outcome{Sections: sections, Prompts: p.prompts}

	switch p.cfg.DataSource {
	case config.DataFromModel:
		data, err := p.generateModelData(ctx, assetList, reportDate)
		if err != nil {
			p.logger.Error("structured data generation failed", "error", err)
			data = models.PortfolioReport{
				Status:     models.StatusError,
				Message:    err.Error(),
				ReportDate: reportDate,
				Assets:     []models.AssetPosition{},
			}
		}
		outcome.Data = data
	default:
		result := p.extractor.Extract(sections[0].Content, corpus, reportDate)
		outcome.Data = result.Report
		outcome.UnparsedRows = result.UnparsedRows
		outcome.Confidence = result.Confidence
		if len(result.UnparsedRows) > 0 {
			p.logger.Warn("some table rows could not be parsed",
				"unparsed", len(result.UnparsedRows),
				"confidence", result.Confidence)
		}
	}

	p.validate(outcome.Data)

	encoded, err := json.MarshalIndent(outcome.Data, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding portfolio data: %w", err)
	}
	outcome.Markdown = corpus + "\n\n```json\n" + string(encoded) + "\n```"
	outcome.Runtime = time.Since(start)

	p.logger.Info("report generated",
		"sections", len(sections),
		"assets", len(outcome.Data.Assets),
		"runtime_s", outcome.Runtime.Seconds())

	return outcome, nil
}

// gatherSearchContext runs all upfront queries and formats the usable results
// into one context block. Missing search or mostly-failed searches consult
// the error policy; an empty string means the run proceeds without current
// market data.
func (p *Pipeline) gatherSearchContext(ctx context.Context) (string, error) {
	if p.searcher == nil {
		p.logger.Warn("web search not configured, report will not include current data")
		if !p.confirmContinue("Do you want to continue without web search functionality? (y/n): ") {
			return "", fmt.Errorf("aborted: web search is not available")
		}
		return "", nil
	}

	queries := searchQueries()
	p.logger.Info("executing web searches", "queries", len(queries))
	results := p.searcher.Search(ctx, queries)

	failed := 0
	for _, r := range results {
		if !r.OK() {
			failed++
			p.logger.Warn("search query failed", "query", r.Query, "error", r.Err)
		}
	}

	if failed > len(results)/2 {
		p.logger.Error("most search queries failed", "failed", failed, "total", len(results))
		if !p.confirmContinue("Continue without web search data? (y/n): ") {
			return "", fmt.Errorf("aborted: %d of %d search queries failed", failed, len(results))
		}
		return "", nil
	}
	if failed > 0 {
		p.logger.Warn("some search queries failed", "failed", failed, "total", len(results))
	}

	formatted := search.FormatResults(results, p.searchMaxChars)
	if formatted == "" {
		p.logger.Warn("no usable search results, report will not include current data")
	}
	return formatted, nil
}

// generateSection issues one completion call. A failed call is resolved by the
// error policy: a placeholder section under continue, an interactive decision
// under ask, or an error under abort.
func (p *Pipeline) generateSection(ctx context.Context, name, prompt, searchContext string) (string, error) {
	p.logger.Info("generating section", "section", name)
	p.record(name, baseSystemPrompt, prompt)

	content, err := p.completer.Complete(ctx, llm.Request{
		Purpose:      "section",
		SystemPrompt: baseSystemPrompt,
		UserPrompt:   prompt,
		Extra:        extraMessages(searchContext),
	})
	if err != nil {
		p.logger.Error("section generation failed", "section", name, "error", err)
		if !p.confirmContinue("Do you want to continue despite this error? (y/n): ") {
			return "", fmt.Errorf("generating section %s: %w", name, err)
		}
		return sectionPlaceholder(name, err), nil
	}

	if p.collector != nil {
		p.collector.SectionGenerated()
	}
	return content, nil
}

// generatePortfolioItems produces the asset list and one analysis per asset,
// fanning out within fixed-size batches. Slots keep the asset order stable
// regardless of completion order.
func (p *Pipeline) generatePortfolioItems(ctx context.Context, searchContext string) (string, []string, error) {
	count := (p.cfg.PositionsMin + p.cfg.PositionsMax) / 2
	raw, err := p.generateSection(ctx, "Asset List", assetListPrompt(count), searchContext)
	if err != nil {
		return "", nil, err
	}

	assetList := parseAssetList(raw)
	if len(assetList) == 0 {
		p.logger.Warn("asset list call produced no parsable assets")
		return "## Portfolio Positioning & Rationale\n", nil, nil
	}
	p.logger.Info("generating asset analyses", "assets", len(assetList), "batch_size", p.cfg.AssetBatch)

	analyses := make([]string, len(assetList))
	errs := make([]error, len(assetList))

	batch := p.cfg.AssetBatch
	if batch <= 0 {
		batch = 1
	}

	for i := 0; i < len(assetList); i += batch {
		end := min(i+batch, len(assetList))
		g, gctx := errgroup.WithContext(ctx)

		for j := i; j < end; j++ {
			j := j
			prompt := assetAnalysisPrompt(assetList[j])
			p.record(fmt.Sprintf("Asset Analysis %d/%d", j+1, len(assetList)), baseSystemPrompt, prompt)

			g.Go(func() error {
				content, err := p.completer.Complete(gctx, llm.Request{
					Purpose:      "asset_analysis",
					SystemPrompt: baseSystemPrompt,
					UserPrompt:   prompt,
					Extra:        extraMessages(searchContext),
				})
				// Failures are resolved after the batch so the error policy
				// is applied sequentially, not from concurrent goroutines.
				analyses[j], errs[j] = content, err
				return nil
			})
		}
		_ = g.Wait()

		for j := i; j < end; j++ {
			if errs[j] == nil {
				if p.collector != nil {
					p.collector.SectionGenerated()
				}
				continue
			}
			p.logger.Error("asset analysis failed", "asset", assetList[j], "error", errs[j])
			if !p.confirmContinue("Do you want to continue despite this error? (y/n): ") {
				return "", nil, fmt.Errorf("analyzing asset %q: %w", assetList[j], errs[j])
			}
			analyses[j] = sectionPlaceholder(assetList[j], errs[j])
		}
		p.logger.Info("completed asset batch", "from", i+1, "to", end, "total", len(assetList))
	}

	body := "## Portfolio Positioning & Rationale\n\n" + strings.Join(analyses, "\n\n")
	return body, assetList, nil
}

// generateModelData issues the dedicated JSON-only call and parses the result.
func (p *Pipeline) generateModelData(ctx context.Context, assetList []string, reportDate string) (models.PortfolioReport, error) {
	p.logger.Info("generating structured portfolio data", "assets", len(assetList))
	prompt := portfolioJSONPrompt(assetList, reportDate)
	p.record("Portfolio JSON", jsonSystemPrompt, prompt)

	raw, err := p.completer.Complete(ctx, llm.Request{
		Purpose:      "portfolio_json",
		SystemPrompt: jsonSystemPrompt,
		UserPrompt:   prompt,
	})
	if err != nil {
		return models.PortfolioReport{}, err
	}
	return ParseModelJSON(raw)
}

// validate logs advisory warnings about the structured data. None of these
// fail the run; the numbers come from a language model and the report is
// reviewed by a human.
func (p *Pipeline) validate(data models.PortfolioReport) {
	if data.Status != models.StatusSuccess {
		return
	}

	n := len(data.Assets)
	switch {
	case n < p.cfg.PositionsMin:
		p.logger.Warn("portfolio has fewer positions than required",
			"positions", n, "min", p.cfg.PositionsMin)
	case n > p.cfg.PositionsMax:
		p.logger.Warn("portfolio exceeds the position limit",
			"positions", n, "max", p.cfg.PositionsMax)
	default:
		p.logger.Info("portfolio position count within range", "positions", n)
	}

	total := data.TotalWeight()
	if total != 100 {
		p.logger.Warn("position weights do not sum to 100", "total", total)
	}

	if total > 0 {
		longPct := data.LongWeight() * 100 / total
		if diff := longPct - p.cfg.TargetLongPct; diff > 10 || diff < -10 {
			p.logger.Warn("long/short mix deviates from target",
				"long_pct", longPct, "target", p.cfg.TargetLongPct)
		}
	}
}

// confirmContinue resolves a generation failure per the configured policy.
// Only the ask policy touches the interactive streams.
func (p *Pipeline) confirmContinue(prompt string) bool {
	switch p.cfg.OnError {
	case config.PolicyContinue:
		return true
	case config.PolicyAbort:
		return false
	}

	fmt.Fprint(p.stdout, prompt)
	line, err := p.stdin.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(line)), "y")
}

func (p *Pipeline) record(name, system, user string) {
	p.prompts = append(p.prompts, PromptRecord{Name: name, System: system, User: user})
}

func extraMessages(searchContext string) []string {
	if strings.TrimSpace(searchContext) == "" {
		return nil
	}
	return []string{searchContextPreamble + searchContext}
}

func sectionPlaceholder(name string, err error) string {
	return fmt.Sprintf("## %s\n\nError generating content: %v\n", name, err)
}

// parseAssetList splits the raw asset-list response into one entry per line,
// dropping headers and blank lines.
func parseAssetList(raw string) []string {
	var assets []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "Asset List") {
			continue
		}
		assets = append(assets, line)
	}
	return assets
}
