package store

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/orasis/portgen/internal/models"
	"github.com/orasis/portgen/internal/report"
)

const (
	reportFileName = "comprehensive_portfolio_report.md"
	dataFileName   = "comprehensive_portfolio_data.json"
)

// Writer persists run artifacts under a single output directory.
type Writer struct {
	dir    string
	logger *slog.Logger
}

// NewWriter creates the output directory if needed and returns a writer
// rooted there.
func NewWriter(dir string, logger *slog.Logger) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory %s: %w", dir, err)
	}
	return &Writer{dir: dir, logger: logger}, nil
}

// WriteReport writes the assembled markdown report and returns its path.
func (w *Writer) WriteReport(markdown string) (string, error) {
	path := filepath.Join(w.dir, reportFileName)
	if err := os.WriteFile(path, []byte(markdown), 0o644); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}
	w.logger.Info("report saved", "path", path, "bytes", len(markdown))
	return path, nil
}

// WriteData writes the structured portfolio data as indented JSON and returns
// its path.
func (w *Writer) WriteData(data models.PortfolioReport) (string, error) {
	encoded, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding portfolio data: %w", err)
	}

	path := filepath.Join(w.dir, dataFileName)
	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		return "", fmt.Errorf("writing portfolio data: %w", err)
	}
	w.logger.Info("portfolio data saved", "path", path, "assets", len(data.Assets))
	return path, nil
}

// WritePrompts dumps every prompt issued during the run into a timestamped
// markdown file for audit, and returns its path.
func (w *Writer) WritePrompts(records []report.PromptRecord) (string, error) {
	name := fmt.Sprintf("prompts_%s.md", time.Now().Format("20060102_150405"))
	path := filepath.Join(w.dir, name)

	var b []byte
	b = append(b, "# Generation Prompts\n"...)
	for _, r := range records {
		b = append(b, fmt.Sprintf("\n## %s\n\n### System\n\n%s\n\n### User\n\n%s\n", r.Name, r.System, r.User)...)
	}

	if err := os.WriteFile(path, b, 0o644); err != nil {
		return "", fmt.Errorf("writing prompt dump: %w", err)
	}
	w.logger.Info("prompt dump saved", "path", path, "prompts", len(records))
	return path, nil
}
