package mocks

import (
	"context"
	"sync"

	"github.com/yoman-app/yoman-api/internal/generation"
)

// MockGenerator implements generation.Generator for testing.
type MockGenerator struct {
	InspirationFn func(ctx context.Context, req generation.Request) (string, error)

	// Defaults used when InspirationFn is nil.
	Text string
	Err  error

	mu       sync.Mutex
	requests []generation.Request
}

// Inspiration implements generation.Generator and records the request.
func (m *MockGenerator) Inspiration(ctx context.Context, req generation.Request) (string, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()

	if m.InspirationFn != nil {
		return m.InspirationFn(ctx, req)
	}
	return m.Text, m.Err
}

// Requests returns the requests seen so far.
func (m *MockGenerator) Requests() []generation.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]generation.Request(nil), m.requests...)
}
