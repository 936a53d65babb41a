package mock

import (
	"context"

	"github.com/veridoc/clausematch/ai"
)

// MockProvider is a test double for ai.Provider.
type MockProvider struct {
	embedder *MockEmbedder

	// HealthErr is returned by CheckHealth if set.
	// Leave nil to report a healthy service.
	HealthErr error
}

var _ ai.Provider = (*MockProvider)(nil)

// NewMockProvider creates a provider backed by a MockEmbedder.
// Returns the concrete type so tests can inject behavior and assert calls.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		embedder: NewMockEmbedder(),
	}
}

// Embedder returns the mock embedding service.
func (p *MockProvider) Embedder() ai.Embedder {
	return p.embedder
}

// GetMockEmbedder returns the concrete mock for test assertions.
func (p *MockProvider) GetMockEmbedder() *MockEmbedder {
	return p.embedder
}

// CheckHealth reports the injected health state.
func (p *MockProvider) CheckHealth(ctx context.Context) error {
	return p.HealthErr
}

// Close is a no-op.
func (p *MockProvider) Close() error {
	return nil
}
