package inspection

import "context"

// Store describes the persistence operations required by the inspection
// lifecycle. Implementations must return ErrNotFound for absent inspections.
type Store interface {
	CreateInspection(ctx context.Context, insp Inspection) error
	Inspection(ctx context.Context, id string) (Inspection, error)
	ListInspections(ctx context.Context) ([]Inspection, error)
	// UpdateInspection replaces the stored record identified by insp.ID.
	UpdateInspection(ctx context.Context, insp Inspection) error
	// DeleteInspection removes the inspection and its whole response
	// collection. Not reversible.
	DeleteInspection(ctx context.Context, id string) error

	// Responses returns the response set ordered by criterion id.
	Responses(ctx context.Context, inspectionID string) ([]Response, error)
	// PutResponse upserts the response keyed by its criterion id.
	PutResponse(ctx context.Context, inspectionID string, r Response) error
}
