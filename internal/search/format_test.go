package search

import (
	"strings"
	"testing"

	"github.com/orasis/portgen/internal/models"
)

func source(title, url, content string) models.SearchSource {
	return models.SearchSource{Title: title, URL: url, Content: content, RawContent: content}
}

func TestFormatResultsOneBlockPerUniqueURL(t *testing.T) {
	results := []models.SearchResult{
		{Query: "q1", Results: []models.SearchSource{source("A", "https://a.example", "alpha")}},
		{Query: "q2", Results: []models.SearchSource{source("B", "https://b.example", "bravo")}},
		{Query: "q3", Results: []models.SearchSource{source("A updated", "https://a.example", "alpha-2")}},
	}

	out := FormatResults(results, 4000)

	if got := strings.Count(out, "URL: "); got != 2 {
		t.Fatalf("expected 2 source blocks, got %d:\n%s", got, out)
	}
	// Last write wins per duplicate URL.
	if !strings.Contains(out, "Source: A updated") {
		t.Errorf("expected duplicate URL to keep the last source, got:\n%s", out)
	}
	if strings.Contains(out, "alpha\n") && !strings.Contains(out, "alpha-2") {
		t.Errorf("expected duplicate URL content to be replaced:\n%s", out)
	}
}

func TestFormatResultsSkipsErrorsAndEmpty(t *testing.T) {
	results := []models.SearchResult{
		{Query: "failed", Err: "exception searching"},
		{Query: "empty", Results: nil},
		{Query: "blank", Results: []models.SearchSource{{URL: "https://x.example"}}},
	}

	if out := FormatResults(results, 4000); out != "" {
		t.Fatalf("expected empty output for all-invalid input, got %q", out)
	}
}

func TestFormatResultsTruncatesRawContent(t *testing.T) {
	long := strings.Repeat("x", 5000)
	results := []models.SearchResult{
		{Query: "q", Results: []models.SearchSource{{Title: "T", URL: "https://t.example", Content: "short", RawContent: long}}},
	}

	out := FormatResults(results, 4000)

	if !strings.Contains(out, "... [truncated]") {
		t.Error("expected truncation marker in output")
	}
	if strings.Contains(out, long) {
		t.Error("expected raw content to be truncated")
	}
}

func TestFormatResultsEmptyInput(t *testing.T) {
	if out := FormatResults(nil, 4000); out != "" {
		t.Fatalf("expected empty output for nil input, got %q", out)
	}
}

func TestFormatResultsPreservesInputOrder(t *testing.T) {
	results := []models.SearchResult{
		{Query: "first", Results: []models.SearchSource{source("First", "https://1.example", "one")}},
		{Query: "second", Results: []models.SearchSource{source("Second", "https://2.example", "two")}},
	}

	out := FormatResults(results, 4000)

	if strings.Index(out, "https://1.example") > strings.Index(out, "https://2.example") {
		t.Errorf("expected blocks in input order:\n%s", out)
	}
}
