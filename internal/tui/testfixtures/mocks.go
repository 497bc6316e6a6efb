package testfixtures

import (
	"context"
	"sync"

	"github.com/reportu/reportu/internal/intake"
)

// MockLoader serves a fixed feed to the home screen and counts loads.
type MockLoader struct {
	mu    sync.Mutex
	feed  *intake.Feed
	err   error
	calls int
}

// NewMockLoader returns a loader that always yields feed.
func NewMockLoader(feed *intake.Feed) *MockLoader {
	return &MockLoader{feed: feed}
}

// Load returns the configured feed or error.
func (m *MockLoader) Load(ctx context.Context) (*intake.Feed, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.feed, nil
}

// SetFeed replaces the feed returned by later loads.
func (m *MockLoader) SetFeed(feed *intake.Feed) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.feed = feed
}

// SetError makes later loads fail with err; nil clears it.
func (m *MockLoader) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many times Load ran.
func (m *MockLoader) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}
