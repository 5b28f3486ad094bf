package transport

import (
	"context"
	"fmt"
	"sync"
)

// MockTransport provides canned responses for testing.
type MockTransport struct {
	mu        sync.Mutex
	responses map[string]map[string]interface{}
	errs      map[string]error
	requests  []MockRequest
}

// MockRequest records one call for assertions.
type MockRequest struct {
	Path    string
	Payload interface{}
}

// NewMockTransport creates a mock transport.
func NewMockTransport() *MockTransport {
	return &MockTransport{
		responses: make(map[string]map[string]interface{}),
		errs:      make(map[string]error),
	}
}

// AddResponse registers a canned response for a path.
func (m *MockTransport) AddResponse(path string, response map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[path] = response
}

// AddError registers an error for a path.
func (m *MockTransport) AddError(path string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[path] = err
}

// Requests returns the recorded calls.
func (m *MockTransport) Requests() []MockRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockRequest, len(m.requests))
	copy(out, m.requests)
	return out
}

// PostJSON returns the canned response or error for the path.
func (m *MockTransport) PostJSON(ctx context.Context, path string, payload interface{}) (map[string]interface{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, MockRequest{Path: path, Payload: payload})

	if err, ok := m.errs[path]; ok {
		return nil, err
	}
	if resp, ok := m.responses[path]; ok {
		return resp, nil
	}
	return nil, fmt.Errorf("no mock response for %s", path)
}

// Close is a no-op.
func (m *MockTransport) Close() error { return nil }
