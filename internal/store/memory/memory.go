// Package memory is the in-process fallback store. It keeps every collection
// behind one RWMutex and stands in for the Postgres store when no database is
// configured; both expose the same interfaces, so callers cannot tell which
// one they run against.
package memory

import (
	"context"
	"sort"
	"sync"

	"officine.sn/internal/audit"
	"officine.sn/internal/auth"
	"officine.sn/internal/ids"
	"officine.sn/internal/inspection"
)

// Default credentials of the seeded administrator account.
const (
	SeedUsername = "admin"
	SeedPassword = "admin123"
	SeedFullName = "Administrateur"
)

// Store holds every collection in memory. The zero value is not usable;
// construct with New.
type Store struct {
	mu          sync.RWMutex
	users       map[string]auth.User
	byUsername  map[string]string
	sessions    map[string]string
	inspections map[string]inspection.Inspection
	responses   map[string]map[int]inspection.Response
	trail       []audit.Entry
	seq         int64
	seeded      bool
}

// New returns an empty store. Call Seed to create the default administrator.
func New() *Store {
	s := &Store{}
	s.reset()
	return s
}

func (s *Store) reset() {
	s.users = map[string]auth.User{}
	s.byUsername = map[string]string{}
	s.sessions = map[string]string{}
	s.inspections = map[string]inspection.Inspection{}
	s.responses = map[string]map[int]inspection.Response{}
	s.trail = nil
	s.seq = 0
	s.seeded = false
}

// Reset drops every collection, including the seeded administrator.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}

// Seed creates the default administrator account when the user collection is
// empty. Calling it again is a no-op, regardless of how often.
func (s *Store) Seed(now string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seeded || len(s.users) > 0 {
		s.seeded = true
		return nil
	}
	hash, err := auth.HashPassword(SeedPassword)
	if err != nil {
		return err
	}
	admin := auth.User{
		ID:           ids.New(),
		Username:     SeedUsername,
		FullName:     SeedFullName,
		Role:         auth.RoleAdmin,
		PasswordHash: hash,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.users[admin.ID] = admin
	s.byUsername[admin.Username] = admin.ID
	s.seeded = true
	return nil
}

func (s *Store) CreateUser(_ context.Context, u auth.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.byUsername[u.Username]; taken {
		return auth.ErrConflict
	}
	s.users[u.ID] = u
	s.byUsername[u.Username] = u.ID
	return nil
}

func (s *Store) UserByID(_ context.Context, id string) (auth.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return auth.User{}, auth.ErrNotFound
	}
	return u, nil
}

func (s *Store) UserByUsername(_ context.Context, username string) (auth.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.byUsername[username]
	if !ok {
		return auth.User{}, auth.ErrNotFound
	}
	return s.users[id], nil
}

func (s *Store) ListActiveUsers(_ context.Context) ([]auth.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]auth.User, 0, len(s.users))
	for _, u := range s.users {
		if u.Active {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt < out[j].CreatedAt })
	return out, nil
}

func (s *Store) UpdateUser(_ context.Context, id string, upd auth.UserUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return auth.ErrNotFound
	}
	if upd.FullName != nil {
		u.FullName = *upd.FullName
	}
	if upd.Role != nil {
		u.Role = *upd.Role
	}
	if upd.Active != nil {
		u.Active = *upd.Active
	}
	if upd.UpdatedAt != "" {
		u.UpdatedAt = upd.UpdatedAt
	}
	s.users[id] = u
	return nil
}

func (s *Store) SetPassword(_ context.Context, id, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return auth.ErrNotFound
	}
	u.PasswordHash = passwordHash
	s.users[id] = u
	return nil
}

func (s *Store) DeactivateUser(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return auth.ErrNotFound
	}
	u.Active = false
	s.users[id] = u
	// Any open sessions of the account die with it.
	for token, userID := range s.sessions {
		if userID == id {
			delete(s.sessions, token)
		}
	}
	return nil
}

func (s *Store) PutSession(_ context.Context, token, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[token] = userID
	return nil
}

func (s *Store) DeleteSession(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}

func (s *Store) SessionUserID(_ context.Context, token string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	userID, ok := s.sessions[token]
	if !ok {
		return "", auth.ErrInvalidSession
	}
	return userID, nil
}

func (s *Store) CreateInspection(_ context.Context, insp inspection.Inspection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inspections[insp.ID] = insp
	return nil
}

func (s *Store) Inspection(_ context.Context, id string) (inspection.Inspection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	insp, ok := s.inspections[id]
	if !ok {
		return inspection.Inspection{}, inspection.ErrNotFound
	}
	return insp, nil
}

func (s *Store) ListInspections(_ context.Context) ([]inspection.Inspection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]inspection.Inspection, 0, len(s.inspections))
	for _, insp := range s.inspections {
		out = append(out, insp)
	}
	return out, nil
}

func (s *Store) UpdateInspection(_ context.Context, insp inspection.Inspection) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.inspections[insp.ID]; !ok {
		return inspection.ErrNotFound
	}
	s.inspections[insp.ID] = insp
	return nil
}

func (s *Store) DeleteInspection(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.inspections[id]; !ok {
		return inspection.ErrNotFound
	}
	delete(s.inspections, id)
	delete(s.responses, id)
	return nil
}

func (s *Store) Responses(_ context.Context, inspectionID string) ([]inspection.Response, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	byID := s.responses[inspectionID]
	out := make([]inspection.Response, 0, len(byID))
	for _, r := range byID {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CriterionID < out[j].CriterionID })
	return out, nil
}

func (s *Store) PutResponse(_ context.Context, inspectionID string, r inspection.Response) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	byID, ok := s.responses[inspectionID]
	if !ok {
		byID = map[int]inspection.Response{}
		s.responses[inspectionID] = byID
	}
	byID[r.CriterionID] = r
	return nil
}

// Append assigns the next sequence id and prepends the entry so the trail
// stays newest-first.
func (s *Store) Append(_ context.Context, e audit.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	e.ID = s.seq
	s.trail = append([]audit.Entry{e}, s.trail...)
	return nil
}

func (s *Store) Query(_ context.Context, f audit.Filter) ([]audit.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	limit := f.Limit
	if limit <= 0 {
		limit = audit.DefaultLimit
	}
	matched := make([]audit.Entry, 0, limit)
	skipped := 0
	for _, e := range s.trail {
		if !f.Matches(e) {
			continue
		}
		if skipped < f.Offset {
			skipped++
			continue
		}
		matched = append(matched, e)
		if len(matched) == limit {
			break
		}
	}
	return matched, nil
}

func (s *Store) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.trail), nil
}
