package search

import (
	"fmt"
	"strings"

	"github.com/orasis/portgen/internal/models"
)

const blockSeparator = "================================================================================"

// FormatResults flattens search results into a single text block usable as
// extra prompt context. Empty and failed results are dropped, sources are
// deduplicated by URL (last write wins), and raw content is truncated to
// maxChars per source. Returns "" when no valid results remain; callers must
// treat that as "no augmentation available" and proceed.
func FormatResults(results []models.SearchResult, maxChars int) string {
	var order []string
	unique := make(map[string]models.SearchSource)

	for _, result := range results {
		if !result.OK() {
			continue
		}
		for _, source := range result.Results {
			if source.URL == "" || source.Content == "" {
				continue
			}
			if _, seen := unique[source.URL]; !seen {
				order = append(order, source.URL)
			}
			unique[source.URL] = source
		}
	}

	if len(unique) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("Content from sources:\n")
	for _, url := range order {
		source := unique[url]

		b.WriteString(blockSeparator + "\n")
		fmt.Fprintf(&b, "Source: %s\n", source.Title)
		fmt.Fprintf(&b, "URL: %s\n", source.URL)
		fmt.Fprintf(&b, "Most relevant content: %s\n", source.Content)

		raw := source.RawContent
		if maxChars > 0 && len(raw) > maxChars {
			raw = raw[:maxChars] + "... [truncated]"
		}
		if raw != "" {
			fmt.Fprintf(&b, "Full content:\n%s\n", raw)
		}

		b.WriteString(blockSeparator + "\n\n")
	}

	return b.String()
}
