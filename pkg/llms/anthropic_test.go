package llms

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/XiaoConstantine/tailor-go/pkg/core"
)

func TestNewAnthropicClient(t *testing.T) {
	client, err := NewAnthropicClient(ClientConfig{
		APIKey:  "test-key",
		Model:   "claude-sonnet-4-5",
		Timeout: 10 * time.Second,
	})
	require.NoError(t, err)
	assert.Equal(t, "anthropic", client.ProviderName())
	assert.Equal(t, "claude-sonnet-4-5", client.ModelID())
}

func TestNewAnthropicClientInvalidModel(t *testing.T) {
	_, err := NewAnthropicClient(ClientConfig{
		APIKey: "test-key",
		Model:  "gpt-4o",
	})
	assert.Error(t, err)
}

func TestNewAnthropicClientMissingKey(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	_, err := NewAnthropicClient(ClientConfig{Model: "claude-sonnet-4-5"})
	assert.Error(t, err)
}

func TestIsValidAnthropicModel(t *testing.T) {
	assert.True(t, isValidAnthropicModel("claude-3-haiku-20240307"))
	assert.True(t, isValidAnthropicModel("claude-opus-4-1"))
	assert.False(t, isValidAnthropicModel("mistral-large"))
}

func TestToParams(t *testing.T) {
	client, err := NewAnthropicClient(ClientConfig{APIKey: "k", Model: "claude-sonnet-4-5"})
	require.NoError(t, err)

	params := client.toParams(core.CompletionRequest{
		Messages: []core.Message{
			core.NewSystemMessage("be terse"),
			core.NewUserMessage("edit this"),
			core.NewAssistantMessage("draft"),
		},
		Temperature: 0.2,
		MaxTokens:   256,
	})

	require.Len(t, params.System, 1)
	assert.Equal(t, "be terse", params.System[0].Text)
	require.Len(t, params.Messages, 2)
	assert.Equal(t, int64(256), params.MaxTokens)
	assert.Equal(t, 0.2, params.Temperature.Value)
}

func TestToParamsDefaultMaxTokens(t *testing.T) {
	client, err := NewAnthropicClient(ClientConfig{APIKey: "k", Model: "claude-sonnet-4-5"})
	require.NoError(t, err)

	params := client.toParams(core.CompletionRequest{
		Messages: []core.Message{core.NewUserMessage("hi")},
	})
	assert.Equal(t, int64(8192), params.MaxTokens)
}

func TestFactory(t *testing.T) {
	svc, err := NewCompletionService("anthropic", ClientConfig{APIKey: "k", Model: "claude-sonnet-4-5"})
	require.NoError(t, err)
	assert.Equal(t, "anthropic", svc.ProviderName())

	_, err = NewCompletionService("openai", ClientConfig{APIKey: "k", Model: "claude-sonnet-4-5"})
	assert.Error(t, err)
}
