package llms

import (
	"fmt"
	"strings"

	"github.com/XiaoConstantine/tailor-go/pkg/core"
)

// NewCompletionService creates a completion service for the given
// provider. Only Anthropic is wired today; the switch keeps the seam
// for further providers.
func NewCompletionService(provider string, cfg ClientConfig) (core.CompletionService, error) {
	switch strings.ToLower(provider) {
	case "", "anthropic":
		return NewAnthropicClient(cfg)
	default:
		return nil, fmt.Errorf("unsupported completion provider: %s", provider)
	}
}
