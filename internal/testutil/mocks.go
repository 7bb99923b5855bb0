package testutil

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/XiaoConstantine/tailor-go/pkg/core"
)

// MockCompletion is a testify mock implementation of core.CompletionService.
type MockCompletion struct {
	mock.Mock
}

func (m *MockCompletion) Complete(ctx context.Context, req core.CompletionRequest) (*core.CompletionResponse, error) {
	args := m.Called(ctx, req)
	if resp, ok := args.Get(0).(*core.CompletionResponse); ok {
		return resp, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCompletion) StreamComplete(ctx context.Context, req core.CompletionRequest, onChunk core.StreamHandler) (*core.CompletionResponse, error) {
	args := m.Called(ctx, req, onChunk)
	resp, ok := args.Get(0).(*core.CompletionResponse)
	if !ok {
		return nil, args.Error(1)
	}
	if onChunk != nil {
		onChunk(core.StreamChunk{Content: resp.Content})
		onChunk(core.StreamChunk{Done: true})
	}
	return resp, args.Error(1)
}

func (m *MockCompletion) ModelID() string {
	return "mock-model"
}

func (m *MockCompletion) ProviderName() string {
	return "mock"
}

// ScriptedCompletion replays a fixed sequence of responses, recording
// every request it sees. Useful for orchestration tests where
// generate and critique calls interleave.
type ScriptedCompletion struct {
	mu        sync.Mutex
	Responses []ScriptedResponse
	Requests  []core.CompletionRequest
	index     int
}

// ScriptedResponse is one step in the script.
type ScriptedResponse struct {
	Content string
	Err     error
}

func NewScriptedCompletion(responses ...ScriptedResponse) *ScriptedCompletion {
	return &ScriptedCompletion{Responses: responses}
}

func (s *ScriptedCompletion) next(req core.CompletionRequest) (*core.CompletionResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.Requests = append(s.Requests, req)
	if s.index >= len(s.Responses) {
		return &core.CompletionResponse{Content: ""}, nil
	}
	r := s.Responses[s.index]
	s.index++
	if r.Err != nil {
		return nil, r.Err
	}
	return &core.CompletionResponse{Content: r.Content}, nil
}

func (s *ScriptedCompletion) Complete(ctx context.Context, req core.CompletionRequest) (*core.CompletionResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.next(req)
}

func (s *ScriptedCompletion) StreamComplete(ctx context.Context, req core.CompletionRequest, onChunk core.StreamHandler) (*core.CompletionResponse, error) {
	resp, err := s.Complete(ctx, req)
	if err != nil {
		return nil, err
	}
	if onChunk != nil {
		onChunk(core.StreamChunk{Content: resp.Content})
		onChunk(core.StreamChunk{Done: true})
	}
	return resp, nil
}

func (s *ScriptedCompletion) ModelID() string {
	return "scripted-model"
}

func (s *ScriptedCompletion) ProviderName() string {
	return "scripted"
}

// CallCount returns how many completion calls were made.
func (s *ScriptedCompletion) CallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Requests)
}
