package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/rccc/rccc-search/internal/models"
)

// --- MockFetcher ---

// MockFetcher is a mock implementation of search.Fetcher.
type MockFetcher struct {
	FetchFunc func(ctx context.Context, query string) (models.ResultSet, error)

	mu      sync.Mutex
	Queries []string
}

func (m *MockFetcher) Fetch(ctx context.Context, query string) (models.ResultSet, error) {
	m.mu.Lock()
	m.Queries = append(m.Queries, query)
	m.mu.Unlock()
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, query)
	}
	return nil, fmt.Errorf("Fetch not configured")
}

// Calls returns a copy of the queries received so far.
func (m *MockFetcher) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.Queries...)
}

// --- MockIndex ---

// MockIndex is a mock implementation of search.Index.
type MockIndex struct {
	SearchFunc func(ctx context.Context, query string) (models.ResultSet, error)

	mu    sync.Mutex
	calls int
}

func (m *MockIndex) Search(ctx context.Context, query string) (models.ResultSet, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query)
	}
	return nil, fmt.Errorf("Search not configured")
}

// CallCount returns how many times Search was called.
func (m *MockIndex) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// --- MockCache ---

// MockCache is an in-memory implementation of search.Cache. GetErr and
// SetErr, when set, are returned instead of touching the map.
type MockCache struct {
	mu      sync.Mutex
	Entries map[string][]byte
	GetErr  error
	SetErr  error
}

// NewMockCache creates an empty MockCache.
func NewMockCache() *MockCache {
	return &MockCache{Entries: make(map[string][]byte)}
}

func (m *MockCache) Get(ctx context.Context, query string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return nil, false, m.GetErr
	}
	data, ok := m.Entries[query]
	return data, ok, nil
}

func (m *MockCache) Set(ctx context.Context, query string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SetErr != nil {
		return m.SetErr
	}
	m.Entries[query] = data
	return nil
}

// --- MockNormalizer ---

// MockNormalizer maps runes through a fixed table, standing in for OpenCC.
type MockNormalizer struct {
	Table map[rune]rune
}

func (m MockNormalizer) Normalize(text string) string {
	out := []rune(text)
	for i, r := range out {
		if t, ok := m.Table[r]; ok {
			out[i] = t
		}
	}
	return string(out)
}

// SimplifiedToTraditional is a tiny s2t table covering the test fixtures.
func SimplifiedToTraditional() MockNormalizer {
	return MockNormalizer{Table: map[rune]rune{'爱': '愛', '约': '約', '书': '書', '讲': '講'}}
}
