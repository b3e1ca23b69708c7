// Package remote talks to the Glotian row API: a row-oriented REST surface
// with one resource per synced table.
package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"time"
)

// ErrNotFound reports that the addressed remote row does not exist.
var ErrNotFound = errors.New("remote row not found")

// RowMeta is the minimal projection the conflict check needs.
type RowMeta struct {
	ID        string    `json:"id"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Backend is the remote contract the sync processor drains against.
type Backend interface {
	// FetchMeta returns the id and update timestamp of a row, or
	// ErrNotFound when the row does not exist.
	FetchMeta(ctx context.Context, table, id string) (*RowMeta, error)

	// Fetch returns the full row as JSON, or ErrNotFound.
	Fetch(ctx context.Context, table, id string) (json.RawMessage, error)

	// Insert creates a row.
	Insert(ctx context.Context, table string, payload json.RawMessage) error

	// Update overwrites a row by id.
	Update(ctx context.Context, table, id string, payload json.RawMessage) error

	// Delete removes a row by id.
	Delete(ctx context.Context, table, id string) error
}

// APIError is a non-2xx response from the row API.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("remote api: status %d: %s", e.StatusCode, e.Body)
}

// Retryable classifies a remote failure. Timeouts and transport errors are
// always retryable; so are 408/429 and server-side statuses. Every other
// HTTP status is permanent.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrNotFound) {
		return false
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == 408, apiErr.StatusCode == 429:
			return true
		case apiErr.StatusCode >= 500:
			return true
		default:
			return false
		}
	}

	// Context timeouts on individual calls are transient.
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	// Anything else that reached the transport and failed (connection
	// refused, DNS, reset) is worth retrying.
	return true
}
