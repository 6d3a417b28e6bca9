package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	openai "github.com/sashabaranov/go-openai"

	"github.com/orasis/portgen/internal/config"
	"github.com/orasis/portgen/internal/metrics"
)

// Completer issues one completion call and returns the raw text content.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Request describes a single completion call. Extra messages carry
// pre-formatted search context appended as additional user turns.
type Request struct {
	Purpose      string // label for logging/metrics, e.g. "section", "portfolio_json"
	SystemPrompt string
	UserPrompt   string
	Extra        []string
}

// Client wraps the configured completion provider. There is no automatic
// retry: a failed call surfaces to the caller, which applies the error policy.
type Client struct {
	provider  config.Provider
	openai    *openai.Client
	anthropic *anthropic.Client
	cfg       config.CompletionConfig
	collector *metrics.PipelineCollector
	logger    *slog.Logger
}

// New creates a completion client for the configured provider.
func New(cfg config.CompletionConfig, collector *metrics.PipelineCollector, logger *slog.Logger) (*Client, error) {
	c := &Client{
		provider:  cfg.Provider,
		cfg:       cfg,
		collector: collector,
		logger:    logger,
	}

	switch cfg.Provider {
	case config.ProviderOpenAI:
		if cfg.OpenAIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is not set")
		}
		c.openai = openai.NewClient(cfg.OpenAIKey)
	case config.ProviderAnthropic:
		if cfg.AnthropicKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY is not set")
		}
		client := anthropic.NewClient(option.WithAPIKey(cfg.AnthropicKey))
		c.anthropic = &client
	default:
		return nil, fmt.Errorf("unsupported completion provider: %s", cfg.Provider)
	}

	return c, nil
}

// Complete issues one completion call against the configured model.
func (c *Client) Complete(ctx context.Context, req Request) (string, error) {
	apiCtx := ctx
	if c.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		apiCtx, cancel = context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
	}

	start := time.Now()
	var content string
	var err error

	switch c.provider {
	case config.ProviderAnthropic:
		content, err = c.completeAnthropic(apiCtx, req)
	default:
		content, err = c.completeOpenAI(apiCtx, req)
	}

	duration := time.Since(start)
	if c.collector != nil {
		c.collector.ObserveCompletion(string(c.provider), req.Purpose, duration, err)
	}

	c.logger.Info("completion call finished",
		"provider", c.provider,
		"purpose", req.Purpose,
		"duration_ms", duration.Milliseconds(),
		"success", err == nil)

	return content, err
}

func (c *Client) completeOpenAI(ctx context.Context, req Request) (string, error) {
	messages := buildMessages(req, isReasoningModel(c.cfg.OpenAIModel))

	request := openai.ChatCompletionRequest{
		Model:    c.cfg.OpenAIModel,
		Messages: messages,
	}

	if isReasoningModel(c.cfg.OpenAIModel) {
		request.ReasoningEffort = c.cfg.ReasoningEffort
	} else {
		request.Temperature = 0.7
	}

	resp, err := c.openai.CreateChatCompletion(ctx, request)
	if err != nil {
		return "", fmt.Errorf("openai api call failed: %w", err)
	}

	if c.collector != nil {
		c.collector.AddTokens(string(config.ProviderOpenAI), resp.Usage.PromptTokens, resp.Usage.CompletionTokens)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no completion choices returned from model %s", c.cfg.OpenAIModel)
	}

	content := resp.Choices[0].Message.Content
	if content == "" {
		return "", fmt.Errorf("empty response from model %s (finish_reason: %s)",
			c.cfg.OpenAIModel, resp.Choices[0].FinishReason)
	}

	return content, nil
}

func (c *Client) completeAnthropic(ctx context.Context, req Request) (string, error) {
	user := req.UserPrompt
	for _, extra := range req.Extra {
		user += "\n\n" + extra
	}

	message, err := c.anthropic.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.cfg.AnthropicModel),
		MaxTokens: 8192,
		System: []anthropic.TextBlockParam{
			{Text: req.SystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(user)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("anthropic api error: %w", err)
	}

	if c.collector != nil {
		c.collector.AddTokens(string(config.ProviderAnthropic),
			int(message.Usage.InputTokens), int(message.Usage.OutputTokens))
	}

	if len(message.Content) == 0 {
		return "", fmt.Errorf("no response from anthropic")
	}

	return message.Content[0].Text, nil
}

// buildMessages assembles the role/content list. Reasoning models (o1/o3/o4,
// gpt-5) reject system messages, so the system prompt is merged into the
// first user turn for those.
func buildMessages(req Request, reasoning bool) []openai.ChatCompletionMessage {
	var messages []openai.ChatCompletionMessage

	if reasoning {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleUser,
			Content: req.SystemPrompt + "\n\n" + req.UserPrompt,
		})
	} else {
		messages = append(messages,
			openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleSystem,
				Content: req.SystemPrompt,
			},
			openai.ChatCompletionMessage{
				Role:    openai.ChatMessageRoleUser,
				Content: req.UserPrompt,
			},
		)
	}

	for _, extra := range req.Extra {
		if strings.TrimSpace(extra) == "" {
			continue
		}
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleUser,
			Content: extra,
		})
	}

	return messages
}

// isReasoningModel detects models with restricted APIs (no system messages,
// no temperature, reasoning_effort supported).
func isReasoningModel(model string) bool {
	m := strings.ToLower(model)
	for _, prefix := range []string{"o1", "o3", "o4", "gpt-5"} {
		if strings.HasPrefix(m, prefix) {
			return true
		}
	}
	return false
}
