package inspection

import "errors"

// Status is the lifecycle state of an inspection.
type Status string

const (
	StatusDraft      Status = "draft"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusValidated  Status = "validated"
	StatusArchived   Status = "archived"
)

// Statuses lists every valid status in rank order.
var Statuses = []Status{StatusDraft, StatusInProgress, StatusCompleted, StatusValidated, StatusArchived}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

var (
	// ErrNotFound signals a lookup of a non-existent inspection.
	ErrNotFound = errors.New("inspection: not found")
	// ErrInvalidStatus signals a status outside the known set.
	ErrInvalidStatus = errors.New("inspection: invalid status")
	// ErrInvalidTransition signals a status change rejected by the
	// transition table when strict transitions are enabled.
	ErrInvalidTransition = errors.New("inspection: invalid status transition")
)

// Progress is the derived counter snapshot attached to an inspection. It is
// recomputed from the full response set on every save; the counters are never
// maintained incrementally, so they cannot drift.
type Progress struct {
	Total       int `json:"total"`
	Answered    int `json:"answered"`
	Conforme    int `json:"conforme"`
	NonConforme int `json:"non_conforme"`
}

// Inspection is one checklist filled against a grid. Inspections are owned by
// the store and mutated only through commands. Unlike users, inspections are
// hard-deleted together with their responses.
type Inspection struct {
	ID              string   `json:"id"`
	GridID          string   `json:"grid_id"`
	Status          Status   `json:"status"`
	DateInspection  string   `json:"date_inspection"`
	Establishment   string   `json:"establishment"`
	InspectionType  string   `json:"inspection_type"`
	Inspectors      []string `json:"inspectors"`
	CreatedBy       string   `json:"created_by,omitempty"`
	CreatedByName   string   `json:"created_by_name,omitempty"`
	ValidatedBy     string   `json:"validated_by,omitempty"`
	ValidatedByName string   `json:"validated_by_name,omitempty"`
	ValidatedAt     string   `json:"validated_at,omitempty"`
	CreatedAt       string   `json:"created_at"`
	UpdatedAt       string   `json:"updated_at"`
	Progress        Progress `json:"progress"`
}

// Response is the recorded verdict for one criterion of one inspection.
// Conforme is tri-state: true, false, or nil for unanswered. At most one
// response exists per (inspection, criterion) pair; later saves overwrite.
type Response struct {
	CriterionID int    `json:"criterion_id"`
	Conforme    *bool  `json:"conforme"`
	Observation string `json:"observation"`
	UpdatedBy   string `json:"updated_by,omitempty"`
	UpdatedAt   string `json:"updated_at"`
}

// CreateRequest carries the fields of a new inspection. The same shape
// patches inspection metadata.
type CreateRequest struct {
	GridID         string   `json:"grid_id"`
	Establishment  string   `json:"establishment"`
	DateInspection string   `json:"date_inspection"`
	InspectionType string   `json:"inspection_type"`
	Inspectors     []string `json:"inspectors"`
}

// Filter narrows inspection listings. Zero values match everything.
type Filter struct {
	MineOnly bool
	Status   Status
}
