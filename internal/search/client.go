package search

import (
	"context"
	"log/slog"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/sync/errgroup"

	"github.com/orasis/portgen/internal/config"
	"github.com/orasis/portgen/internal/metrics"
	"github.com/orasis/portgen/internal/models"
)

const searchSystemPrompt = "You are a search assistant that processes search queries and returns factual information about current events and data."

// Client issues web-search queries against a search-tuned completion model
// exposed through an OpenAI-compatible endpoint.
type Client struct {
	client    *openai.Client
	model     string
	collector *metrics.PipelineCollector
	logger    *slog.Logger
}

// NewClient creates a search client for the configured endpoint.
func NewClient(cfg config.SearchConfig, collector *metrics.PipelineCollector, logger *slog.Logger) *Client {
	clientConfig := openai.DefaultConfig(strings.Trim(cfg.APIKey, `"'`))
	clientConfig.BaseURL = cfg.BaseURL

	return &Client{
		client:    openai.NewClientWithConfig(clientConfig),
		model:     cfg.Model,
		collector: collector,
		logger:    logger,
	}
}

// Search issues one request per query, all concurrently. Results are returned
// in the same order as the input list; a failed query yields a result with an
// Err string and never aborts its siblings.
func (c *Client) Search(ctx context.Context, queries []string) []models.SearchResult {
	results := make([]models.SearchResult, len(queries))

	g, gctx := errgroup.WithContext(ctx)
	for i, query := range queries {
		i, query := i, query
		g.Go(func() error {
			results[i] = c.searchOne(gctx, query)
			return nil
		})
	}
	// Workers never return errors; failures live in the result slots.
	_ = g.Wait()

	return results
}

func (c *Client) searchOne(ctx context.Context, query string) models.SearchResult {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: searchSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: query},
		},
	})

	if c.collector != nil {
		c.collector.ObserveSearch(err)
	}

	if err != nil {
		c.logger.Warn("search query failed", "query", query, "error", err)
		return models.SearchResult{Query: query, Err: err.Error()}
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		c.logger.Warn("search query returned no content", "query", query)
		return models.SearchResult{Query: query, Err: "empty response"}
	}

	content := resp.Choices[0].Message.Content
	return models.SearchResult{
		Query: query,
		Results: []models.SearchSource{
			{
				Title:      "Search Result: " + query,
				URL:        "https://api.perplexity.ai/search?q=" + strings.ReplaceAll(query, " ", "+"),
				Content:    content,
				RawContent: content,
			},
		},
	}
}
