package llms

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/XiaoConstantine/tailor-go/pkg/core"
	errs "github.com/XiaoConstantine/tailor-go/pkg/errors"
	"github.com/XiaoConstantine/tailor-go/pkg/logging"
)

// AnthropicClient implements core.CompletionService for Anthropic's models.
type AnthropicClient struct {
	client *anthropic.Client
	*core.BaseClient
}

// ClientConfig carries provider settings shared by all clients.
type ClientConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// NewAnthropicClient creates a new AnthropicClient instance.
// An empty APIKey falls back to the ANTHROPIC_API_KEY environment variable.
func NewAnthropicClient(cfg ClientConfig) (*AnthropicClient, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return nil, errs.New(errs.InvalidInput, "API key is required")
	}

	if !isValidAnthropicModel(cfg.Model) {
		return nil, errs.WithFields(
			errs.New(errs.InvalidInput, "unsupported Anthropic model"),
			errs.Fields{"model": cfg.Model})
	}

	clientOpts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if cfg.BaseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(cfg.BaseURL))
	}

	client := anthropic.NewClient(clientOpts...)

	return &AnthropicClient{
		client:     &client,
		BaseClient: core.NewBaseClient("anthropic", cfg.Model, cfg.Timeout),
	}, nil
}

// isValidAnthropicModel checks if the model is a valid Anthropic model.
func isValidAnthropicModel(model string) bool {
	validPrefixes := []string{
		"claude-3",
		"claude-4",
		"claude-haiku",
		"claude-sonnet",
		"claude-opus",
	}

	for _, prefix := range validPrefixes {
		if strings.HasPrefix(model, prefix) {
			return true
		}
	}
	return false
}

// toParams converts a role-tagged request into SDK params. System
// messages become the request's system blocks, the rest the turn list.
func (a *AnthropicClient) toParams(req core.CompletionRequest) anthropic.MessageNewParams {
	var system []anthropic.TextBlockParam
	var turns []anthropic.MessageParam

	for _, m := range req.Messages {
		switch m.Role {
		case core.RoleSystem:
			system = append(system, anthropic.TextBlockParam{Text: m.Content})
		case core.RoleAssistant:
			turns = append(turns, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		default:
			turns = append(turns, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		}
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 8192
	}

	return anthropic.MessageNewParams{
		Model:       anthropic.Model(a.ModelID()),
		System:      system,
		Messages:    turns,
		MaxTokens:   int64(maxTokens),
		Temperature: anthropic.Float(req.Temperature),
	}
}

// Complete implements core.CompletionService.
func (a *AnthropicClient) Complete(ctx context.Context, req core.CompletionRequest) (*core.CompletionResponse, error) {
	logger := logging.GetLogger()

	callCtx, cancel := a.CallContext(ctx)
	defer cancel()

	message, err := a.client.Messages.New(callCtx, a.toParams(req))
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			logger.Error(ctx, "Anthropic API error: status code %d", apiErr.StatusCode)
		}
		code := errs.CompletionFailed
		if errors.Is(err, context.DeadlineExceeded) {
			code = errs.Timeout
		}
		return nil, errs.WithFields(
			errs.Wrap(err, code, "failed to generate response"),
			errs.Fields{
				"model":       a.ModelID(),
				"temperature": req.Temperature,
			})
	}

	if message == nil {
		return nil, errs.New(errs.CompletionFailed, "received nil response from Anthropic API")
	}

	if len(message.Content) == 0 {
		return nil, errs.New(errs.CompletionFailed, "received empty content from Anthropic API")
	}

	// Extract text from response using union type methods
	var responseText string
	if block := message.Content[0]; block.Type == "text" {
		responseText = block.Text
	}

	usage := &core.TokenInfo{
		PromptTokens:     int(message.Usage.InputTokens),
		CompletionTokens: int(message.Usage.OutputTokens),
		TotalTokens:      int(message.Usage.InputTokens + message.Usage.OutputTokens),
	}

	logger.Debug(ctx, "Anthropic response: %d prompt tokens, %d completion tokens",
		message.Usage.InputTokens, message.Usage.OutputTokens)

	return &core.CompletionResponse{Content: responseText, Usage: usage}, nil
}

// StreamComplete implements streaming using the official SDK's iterator pattern.
func (a *AnthropicClient) StreamComplete(ctx context.Context, req core.CompletionRequest, onChunk core.StreamHandler) (*core.CompletionResponse, error) {
	logger := logging.GetLogger()

	callCtx, cancel := a.CallContext(ctx)
	defer cancel()

	stream := a.client.Messages.NewStreaming(callCtx, a.toParams(req))
	defer stream.Close()

	var content strings.Builder
	var tokenInfo core.TokenInfo

	for stream.Next() {
		event := stream.Current()

		switch variant := event.AsAny().(type) {
		case anthropic.ContentBlockDeltaEvent:
			if textDelta := variant.Delta.AsTextDelta(); textDelta.Text != "" {
				content.WriteString(textDelta.Text)
				if onChunk != nil {
					onChunk(core.StreamChunk{Content: textDelta.Text})
				}
			}

		case anthropic.MessageStartEvent:
			tokenInfo.PromptTokens = int(variant.Message.Usage.InputTokens)

		case anthropic.MessageDeltaEvent:
			tokenInfo.CompletionTokens = int(variant.Usage.OutputTokens)
			tokenInfo.TotalTokens = tokenInfo.PromptTokens + tokenInfo.CompletionTokens

		case anthropic.MessageStopEvent:
			if onChunk != nil {
				onChunk(core.StreamChunk{Done: true, Usage: &tokenInfo})
			}

		case anthropic.ContentBlockStartEvent:
			// Beginning of a content block, nothing to do

		default:
			logger.Debug(ctx, "Received event type: %T", event)
		}
	}

	if err := stream.Err(); err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			logger.Error(ctx, "Anthropic streaming error: status code %d", apiErr.StatusCode)
		}
		code := errs.CompletionFailed
		if errors.Is(err, context.DeadlineExceeded) {
			code = errs.Timeout
		}
		wrapped := errs.Wrap(err, code, "streaming failed")
		if onChunk != nil {
			onChunk(core.StreamChunk{Error: wrapped})
		}
		return nil, wrapped
	}

	return &core.CompletionResponse{Content: content.String(), Usage: &tokenInfo}, nil
}
