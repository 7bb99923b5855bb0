package errors

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewError tests the basic creation of errors.
func TestNewError(t *testing.T) {
	tests := []struct {
		name    string
		code    ErrorCode
		message string
	}{
		{
			name:    "CompletionFailed",
			code:    CompletionFailed,
			message: "completion call failed",
		},
		{
			name:    "MalformedResponse",
			code:    MalformedResponse,
			message: "response was not valid JSON",
		},
		{
			name:    "StoreFailed",
			code:    StoreFailed,
			message: "could not persist preferences",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, tt.message)

			customErr, ok := err.(*Error)

			assert.True(t, ok, "should be a custom *Error")
			assert.Equal(t, tt.code, customErr.Code())
			assert.Equal(t, tt.message, customErr.Error())
			assert.Nil(t, customErr.Unwrap())
		})
	}
}

func TestWrapError(t *testing.T) {
	originalErr := stderrors.New("connection reset")

	err := Wrap(originalErr, CompletionFailed, "generate failed")
	require.NotNil(t, err)

	var customErr *Error
	require.True(t, stderrors.As(err, &customErr))
	assert.Equal(t, CompletionFailed, customErr.Code())
	assert.Equal(t, "generate failed: connection reset", customErr.Error())
	assert.Equal(t, originalErr, customErr.Unwrap())

	// Wrapping nil stays nil
	assert.Nil(t, Wrap(nil, CompletionFailed, "ignored"))
}

func TestWithFields(t *testing.T) {
	err := New(StoreFailed, "save failed")
	err = WithFields(err, Fields{"document_id": "doc-1"})

	var customErr *Error
	require.True(t, stderrors.As(err, &customErr))
	assert.Equal(t, StoreFailed, customErr.Code())
	assert.Equal(t, "doc-1", customErr.Fields()["document_id"])
	assert.Contains(t, customErr.Error(), "document_id=doc-1")

	// Fields on a plain error wrap it with Unknown
	plain := WithFields(stderrors.New("plain"), Fields{"k": 1})
	require.True(t, stderrors.As(plain, &customErr))
	assert.Equal(t, Unknown, customErr.Code())
}

func TestErrorIs(t *testing.T) {
	err := New(VersionConflict, "stale write")
	assert.True(t, stderrors.Is(err, New(VersionConflict, "anything")))
	assert.False(t, stderrors.Is(err, New(StoreFailed, "anything")))
}

func TestCheckContext(t *testing.T) {
	assert.NoError(t, CheckContext(context.Background(), "edit"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := CheckContext(ctx, "edit")
	require.Error(t, err)
	assert.Equal(t, Canceled, CodeOf(err))

	ctx2, cancel2 := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel2()
	err = CheckContext(ctx2, "edit")
	require.Error(t, err)
	assert.Equal(t, Timeout, CodeOf(err))
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, EditFailed, CodeOf(New(EditFailed, "x")))
	assert.Equal(t, Unknown, CodeOf(stderrors.New("plain")))
}
