package inspection

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"officine.sn/internal/audit"
	"officine.sn/internal/auth"
	"officine.sn/internal/ids"
)

// Service implements the inspection lifecycle on top of a Store.
type Service struct {
	store  Store
	trail  audit.Recorder
	now    func() time.Time
	strict bool
}

// ServiceOption configures Service behavior.
type ServiceOption func(*Service)

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) ServiceOption {
	return func(s *Service) {
		if fn != nil {
			s.now = fn
		}
	}
}

// WithStrictTransitions guards SetStatus with the transition table instead of
// the default unconditional overwrite.
func WithStrictTransitions(strict bool) ServiceOption {
	return func(s *Service) {
		s.strict = strict
	}
}

// NewService constructs the inspection service. The audit recorder may be nil.
func NewService(store Store, trail audit.Recorder, opts ...ServiceOption) (*Service, error) {
	if store == nil {
		return nil, errors.New("inspection store is required")
	}
	svc := &Service{store: store, trail: trail, now: time.Now}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Create registers a new draft inspection with an empty response collection
// and an all-zero progress snapshot. The creator identity is stamped from the
// actor when present.
func (s *Service) Create(ctx context.Context, req CreateRequest, actor *auth.Actor) (string, error) {
	ts := auth.Timestamp(s.now())
	insp := Inspection{
		ID:             ids.New(),
		GridID:         req.GridID,
		Status:         StatusDraft,
		DateInspection: req.DateInspection,
		Establishment:  req.Establishment,
		InspectionType: req.InspectionType,
		Inspectors:     append([]string(nil), req.Inspectors...),
		CreatedAt:      ts,
		UpdatedAt:      ts,
	}
	if actor != nil {
		insp.CreatedBy = actor.ID
		insp.CreatedByName = actor.FullName
	}
	if err := s.store.CreateInspection(ctx, insp); err != nil {
		return "", err
	}

	s.record(ctx, actor, "CREATE_INSPECTION", "inspection", insp.ID,
		fmt.Sprintf("{\"grid\":%q,\"establishment\":%q}", req.GridID, req.Establishment))
	return insp.ID, nil
}

// List returns inspections matching the filter, ordered by last update
// descending. The timestamps are fixed-width, so plain string comparison
// orders them chronologically.
func (s *Service) List(ctx context.Context, f Filter, actor *auth.Actor) ([]Inspection, error) {
	all, err := s.store.ListInspections(ctx)
	if err != nil {
		return nil, err
	}
	actorID := ""
	if actor != nil {
		actorID = actor.ID
	}
	matched := make([]Inspection, 0, len(all))
	for _, insp := range all {
		if f.MineOnly && insp.CreatedBy != actorID {
			continue
		}
		if f.Status != "" && insp.Status != f.Status {
			continue
		}
		matched = append(matched, insp)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].UpdatedAt > matched[j].UpdatedAt
	})
	return matched, nil
}

// Get returns one inspection or ErrNotFound.
func (s *Service) Get(ctx context.Context, id string) (Inspection, error) {
	return s.store.Inspection(ctx, id)
}

// Responses returns the recorded responses of an inspection.
func (s *Service) Responses(ctx context.Context, id string) ([]Response, error) {
	if _, err := s.store.Inspection(ctx, id); err != nil {
		return nil, err
	}
	return s.store.Responses(ctx, id)
}

// SaveResponse upserts the response for one criterion, recomputes the whole
// progress snapshot and advances a draft inspection to in_progress. Any other
// status is left untouched.
func (s *Service) SaveResponse(ctx context.Context, inspectionID string, criterionID int, conforme *bool, observation string, actor *auth.Actor) error {
	insp, err := s.store.Inspection(ctx, inspectionID)
	if err != nil {
		return err
	}

	ts := auth.Timestamp(s.now())
	resp := Response{
		CriterionID: criterionID,
		Conforme:    conforme,
		Observation: observation,
		UpdatedAt:   ts,
	}
	if actor != nil {
		resp.UpdatedBy = actor.ID
	}
	if err := s.store.PutResponse(ctx, inspectionID, resp); err != nil {
		return err
	}

	responses, err := s.store.Responses(ctx, inspectionID)
	if err != nil {
		return err
	}
	insp.Progress = Recompute(responses)
	if insp.Status == StatusDraft {
		insp.Status = StatusInProgress
	}
	insp.UpdatedAt = ts
	if err := s.store.UpdateInspection(ctx, insp); err != nil {
		return err
	}

	verdict := "null"
	if conforme != nil {
		verdict = fmt.Sprintf("%t", *conforme)
	}
	s.record(ctx, actor, "SAVE_RESPONSE", "response",
		fmt.Sprintf("%s:%d", inspectionID, criterionID),
		fmt.Sprintf("{\"conforme\":%s,\"has_obs\":%t}", verdict, observation != ""))
	return nil
}

// Recompute derives the progress snapshot from a full response set.
func Recompute(responses []Response) Progress {
	var p Progress
	p.Total = len(responses)
	for _, r := range responses {
		if r.Conforme == nil {
			continue
		}
		p.Answered++
		if *r.Conforme {
			p.Conforme++
		} else {
			p.NonConforme++
		}
	}
	return p
}

// SetStatus overwrites the inspection status. Without strict transitions any
// status is reachable from any other; with them the transition table decides.
// Setting validated stamps the validator identity and timestamp; later status
// changes never clear a previously-set validator.
func (s *Service) SetStatus(ctx context.Context, inspectionID string, status Status, actor *auth.Actor) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	insp, err := s.store.Inspection(ctx, inspectionID)
	if err != nil {
		return err
	}
	if s.strict && !CanTransition(insp.Status, status) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, insp.Status, status)
	}

	ts := auth.Timestamp(s.now())
	insp.Status = status
	insp.UpdatedAt = ts
	if status == StatusValidated && actor != nil {
		insp.ValidatedBy = actor.ID
		insp.ValidatedByName = actor.FullName
		insp.ValidatedAt = ts
	}
	if err := s.store.UpdateInspection(ctx, insp); err != nil {
		return err
	}

	s.record(ctx, actor, "SET_STATUS_"+strings.ToUpper(string(status)), "inspection", inspectionID, "")
	return nil
}

// UpdateMeta replaces the descriptive fields of an inspection without
// touching status, responses or progress.
func (s *Service) UpdateMeta(ctx context.Context, inspectionID string, req CreateRequest, actor *auth.Actor) error {
	insp, err := s.store.Inspection(ctx, inspectionID)
	if err != nil {
		return err
	}
	insp.GridID = req.GridID
	insp.Establishment = req.Establishment
	insp.DateInspection = req.DateInspection
	insp.InspectionType = req.InspectionType
	insp.Inspectors = append([]string(nil), req.Inspectors...)
	insp.UpdatedAt = auth.Timestamp(s.now())
	if err := s.store.UpdateInspection(ctx, insp); err != nil {
		return err
	}

	s.record(ctx, actor, "UPDATE_META", "inspection", inspectionID, "")
	return nil
}

// Delete removes the inspection and its response collection. The bare
// operation appends no audit entry; callers that want one record it
// themselves.
func (s *Service) Delete(ctx context.Context, inspectionID string) error {
	return s.store.DeleteInspection(ctx, inspectionID)
}

func (s *Service) record(ctx context.Context, actor *auth.Actor, action, entityType, entityID, details string) {
	if s.trail == nil {
		return
	}
	entry := audit.Entry{
		Timestamp:  auth.Timestamp(s.now()),
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    details,
	}
	if actor != nil {
		entry.UserID = actor.ID
		entry.Username = actor.Username
	}
	_ = s.trail.Append(ctx, entry)
	_ = audit.Emit(ctx, "inspection."+strings.ToLower(action), map[string]any{
		"entity_type": entityType,
		"entity_id":   entityID,
	})
}
