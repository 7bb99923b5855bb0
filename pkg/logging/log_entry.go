package logging

// LogEntry represents a structured log record with fields relevant to edit orchestration.
type LogEntry struct {
	// Standard fields
	Time     int64
	Severity Severity
	Message  string
	File     string
	Line     int
	Function string

	// Orchestration-specific fields
	ModelID    string     // The completion model being used
	DocumentID string     // Document the operation belongs to
	Attempt    int        // Orchestration attempt number, 0 when outside a loop
	TokenInfo  *TokenInfo // Token usage information
	Latency    int64      // Operation duration in milliseconds

	// General structured data
	Fields map[string]interface{}
}

// TokenInfo tracks token usage for cost and performance monitoring.
type TokenInfo struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}
