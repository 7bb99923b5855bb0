package core

import (
	"context"
	"time"
)

// Role tags a message with its conversational origin.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is a single role-tagged message in a completion request.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// NewSystemMessage creates a system message.
func NewSystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// NewUserMessage creates a user message.
func NewUserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// NewAssistantMessage creates an assistant message.
func NewAssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// TokenInfo tracks token usage for a single completion call.
type TokenInfo struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// CompletionRequest describes one call to the completion service.
// MaxTokens of 0 means the provider default.
type CompletionRequest struct {
	Messages    []Message
	Temperature float64
	MaxTokens   int
}

// CompletionResponse is the result of a completion call.
type CompletionResponse struct {
	Content  string
	Usage    *TokenInfo
	Metadata map[string]interface{}
}

// StreamChunk represents a piece of streaming response.
type StreamChunk struct {
	Content string     // The text content of this chunk
	Done    bool       // Indicates if this is the final chunk
	Error   error      // Any error that occurred during streaming
	Usage   *TokenInfo // Optional token usage information (may be nil)
}

// StreamHandler receives chunks as they arrive. It is called from the
// streaming goroutine and must not block for long.
type StreamHandler func(chunk StreamChunk)

// CompletionService represents an interface to a text-completion provider.
// Implementations must be safe for concurrent use.
type CompletionService interface {
	// Complete produces a full response for the given request.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	// StreamComplete delivers the response incrementally through onChunk
	// and returns the same final content as Complete would.
	StreamComplete(ctx context.Context, req CompletionRequest, onChunk StreamHandler) (*CompletionResponse, error)

	// ModelID returns the underlying model identifier.
	ModelID() string

	// ProviderName returns the provider name, e.g. "anthropic".
	ProviderName() string
}

// BaseClient provides common provider metadata and the per-call timeout
// every implementation applies around its network calls.
type BaseClient struct {
	providerName string
	modelID      string
	timeout      time.Duration
}

// DefaultCallTimeout bounds a single completion call. A timeout is a
// service failure, not a soft fallback.
const DefaultCallTimeout = 90 * time.Second

// NewBaseClient creates provider metadata shared by implementations.
// A zero timeout falls back to DefaultCallTimeout.
func NewBaseClient(providerName, modelID string, timeout time.Duration) *BaseClient {
	if timeout <= 0 {
		timeout = DefaultCallTimeout
	}
	return &BaseClient{
		providerName: providerName,
		modelID:      modelID,
		timeout:      timeout,
	}
}

// ModelID returns the underlying model identifier.
func (b *BaseClient) ModelID() string {
	return b.modelID
}

// ProviderName returns the provider name.
func (b *BaseClient) ProviderName() string {
	return b.providerName
}

// CallContext derives the bounded per-call context.
func (b *BaseClient) CallContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, b.timeout)
}
