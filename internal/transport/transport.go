package transport

import "context"

// Transport is the HTTP surface the vault uses to reach the
// key-validation endpoint. Guest calls carry no authentication token;
// the request body identifies the provider only, never key material.
type Transport interface {
	// PostJSON sends a JSON POST and returns the decoded JSON object.
	PostJSON(ctx context.Context, path string, payload interface{}) (map[string]interface{}, error)

	// Close releases resources.
	Close() error
}
