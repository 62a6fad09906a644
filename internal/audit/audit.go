// Package audit keeps the append-only trail of business-meaningful actions.
//
// Entries live newest-first in the owning store; the sequence id is a
// monotonically increasing counter and is never reused. Independently of the
// stored trail, Emit writes a structured JSON audit line for operators.
package audit

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"officine.sn/internal/obs"
)

// Entry is one immutable audit record.
type Entry struct {
	ID         int64  `json:"id"`
	Timestamp  string `json:"timestamp"`
	UserID     string `json:"user_id,omitempty"`
	Username   string `json:"username,omitempty"`
	Action     string `json:"action"`
	EntityType string `json:"entity_type,omitempty"`
	EntityID   string `json:"entity_id,omitempty"`
	Details    string `json:"details,omitempty"`
}

// Filter narrows audit queries. Zero values match everything.
type Filter struct {
	UserID     string
	Action     string
	EntityType string
	EntityID   string
	Limit      int
	Offset     int
}

// DefaultLimit caps query results when the filter does not set one.
const DefaultLimit = 100

// Matches reports whether the entry passes the filter's field predicates.
// Limit and Offset are applied by the store, not here.
func (f Filter) Matches(e Entry) bool {
	if f.UserID != "" && e.UserID != f.UserID {
		return false
	}
	if f.Action != "" && e.Action != f.Action {
		return false
	}
	if f.EntityType != "" && e.EntityType != f.EntityType {
		return false
	}
	if f.EntityID != "" && e.EntityID != f.EntityID {
		return false
	}
	return true
}

// Recorder is the persistence contract for the audit trail.
type Recorder interface {
	// Append assigns the next sequence id and prepends the entry.
	Append(ctx context.Context, e Entry) error
	// Query returns matching entries newest-first, honoring Limit/Offset.
	Query(ctx context.Context, f Filter) ([]Entry, error)
	// Count returns the total number of entries.
	Count(ctx context.Context) (int, error)
}

type ctxKey string

const requestIDKey ctxKey = "audit_request_id"

// WithRequestID attaches the request identifier to the context for audit logging.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	requestID = strings.TrimSpace(requestID)
	if requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDFromContext extracts the audit request id from context if present.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}

// Emit writes a JSON audit line enriched with request context.
func Emit(ctx context.Context, event string, fields map[string]any) error {
	event = strings.TrimSpace(event)
	if event == "" {
		return errors.New("event name is required")
	}
	entry := map[string]any{
		"ts":    time.Now().UTC().Format(time.RFC3339Nano),
		"type":  "audit",
		"event": event,
	}
	if rid := RequestIDFromContext(ctx); rid != "" {
		entry["request_id"] = rid
	}
	if len(fields) > 0 {
		copyFields := make(map[string]any, len(fields))
		for k, v := range fields {
			copyFields[k] = v
		}
		entry["fields"] = copyFields
	} else {
		entry["fields"] = map[string]any{}
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	obs.Logger().Println(string(data))
	return nil
}
