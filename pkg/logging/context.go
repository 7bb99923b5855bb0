package logging

import "context"

type contextKey int

const (
	modelIDKey contextKey = iota
	documentIDKey
	attemptKey
	tokenInfoKey
)

// WithModelID annotates the context with the completion model in use.
func WithModelID(ctx context.Context, modelID string) context.Context {
	return context.WithValue(ctx, modelIDKey, modelID)
}

// GetModelID retrieves the model ID from the context, if set.
func GetModelID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(modelIDKey).(string)
	return v, ok
}

// WithDocumentID annotates the context with the document being edited.
func WithDocumentID(ctx context.Context, documentID string) context.Context {
	return context.WithValue(ctx, documentIDKey, documentID)
}

// GetDocumentID retrieves the document ID from the context, if set.
func GetDocumentID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(documentIDKey).(string)
	return v, ok
}

// WithAttempt annotates the context with the current orchestration attempt number.
func WithAttempt(ctx context.Context, attempt int) context.Context {
	return context.WithValue(ctx, attemptKey, attempt)
}

// GetAttempt retrieves the orchestration attempt number from the context, if set.
func GetAttempt(ctx context.Context) (int, bool) {
	v, ok := ctx.Value(attemptKey).(int)
	return v, ok
}

// WithTokenInfo annotates the context with token usage from the last completion call.
func WithTokenInfo(ctx context.Context, info *TokenInfo) context.Context {
	return context.WithValue(ctx, tokenInfoKey, info)
}

// GetTokenInfo retrieves token usage from the context, if set.
func GetTokenInfo(ctx context.Context) (*TokenInfo, bool) {
	v, ok := ctx.Value(tokenInfoKey).(*TokenInfo)
	return v, ok
}
