// Package testutil provides shared helpers for keyvault tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"time"

	"github.com/quillchat/keyvault/internal/config"
	"github.com/quillchat/keyvault/internal/events"
)

// NewTestLogger creates a silent logger for tests.
func NewTestLogger() *events.Logger {
	return events.NewTestLogger(events.ErrorLevel, "text", io.Discard)
}

// NewCaptureLogger creates a debug logger writing JSON entries into the
// returned capturer.
func NewCaptureLogger() (*events.Logger, *LogOutput) {
	capture := NewLogOutput()
	return events.NewTestLogger(events.DebugLevel, "json", capture), capture
}

// TestConfigWithDir creates a config rooted in dataDir, tuned for fast
// tests.
func TestConfigWithDir(dataDir string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Storage.DataDir = dataDir
	cfg.Storage.SessionDir = filepath.Join(dataDir, "sessions")
	cfg.Storage.DatabaseFile = filepath.Join(dataDir, "credentials.db")
	cfg.Crypto.Iterations = 10000
	cfg.Log.Level = "error"
	return cfg
}

// TestServer fakes the guest key-validation endpoint. Per-provider
// results are registered up front; unknown providers fail validation.
type TestServer struct {
	*httptest.Server

	mu      sync.RWMutex
	results map[string]keyResult
	calls   []string
}

type keyResult struct {
	success bool
	errMsg  string
}

// NewTestServer creates a validation server.
func NewTestServer() *TestServer {
	ts := &TestServer{
		results: make(map[string]keyResult),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/guest/test-key", ts.handleTestKey)

	ts.Server = httptest.NewServer(mux)
	return ts
}

// SetKeyResult registers the validation outcome for a provider.
func (ts *TestServer) SetKeyResult(provider string, success bool, errMsg string) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	ts.results[provider] = keyResult{success: success, errMsg: errMsg}
}

// Calls returns the provider ids validated so far, in order.
func (ts *TestServer) Calls() []string {
	ts.mu.RLock()
	defer ts.mu.RUnlock()

	calls := make([]string, len(ts.calls))
	copy(calls, ts.calls)
	return calls
}

func (ts *TestServer) handleTestKey(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Provider string `json:"provider"`
		IsGuest  bool   `json:"isGuest"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}

	ts.mu.Lock()
	ts.calls = append(ts.calls, req.Provider)
	result, ok := ts.results[req.Provider]
	ts.mu.Unlock()

	response := map[string]interface{}{"success": false, "error": "invalid API key"}
	if ok {
		response = map[string]interface{}{"success": result.success}
		if result.errMsg != "" {
			response["error"] = result.errMsg
		}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(response)
}

// LogEntry is one captured structured log line.
type LogEntry struct {
	Level   string    `json:"level"`
	Message string    `json:"msg"`
	Time    time.Time `json:"time"`
}

// LogOutput captures JSON log output for assertions.
type LogOutput struct {
	mu      sync.RWMutex
	raw     bytes.Buffer
	entries []LogEntry
}

// NewLogOutput creates a log capturer.
func NewLogOutput() *LogOutput {
	return &LogOutput{}
}

// Write implements io.Writer.
func (lo *LogOutput) Write(p []byte) (n int, err error) {
	lo.mu.Lock()
	defer lo.mu.Unlock()

	lo.raw.Write(p)

	var entry LogEntry
	if err := json.Unmarshal(p, &entry); err == nil {
		lo.entries = append(lo.entries, entry)
	}
	return len(p), nil
}

// Entries returns captured entries.
func (lo *LogOutput) Entries() []LogEntry {
	lo.mu.RLock()
	defer lo.mu.RUnlock()

	entries := make([]LogEntry, len(lo.entries))
	copy(entries, lo.entries)
	return entries
}

// Raw returns everything written, parsed or not.
func (lo *LogOutput) Raw() string {
	lo.mu.RLock()
	defer lo.mu.RUnlock()
	return lo.raw.String()
}

// Contains reports whether any output line contains substr.
func (lo *LogOutput) Contains(substr string) bool {
	return bytes.Contains([]byte(lo.Raw()), []byte(substr))
}
