package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"officine.sn/internal/audit"
	"officine.sn/internal/ids"
)

// Service implements session issuance/validation and account management on
// top of a Store.
type Service struct {
	store Store
	trail audit.Recorder
	now   func() time.Time
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

// NewService constructs the auth service. The audit recorder may be nil, in
// which case no trail entries are written.
func NewService(store Store, trail audit.Recorder, opts ...ServiceOption) (*Service, error) {
	if store == nil {
		return nil, errors.New("auth store is required")
	}
	svc := &Service{store: store, trail: trail, now: time.Now}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Login authenticates the username/password pair against an active account.
// Both fields are required; the match is exact and case-sensitive. On success
// a fresh opaque token is bound to the user and a LOGIN entry is recorded.
func (s *Service) Login(ctx context.Context, username, password string) (Session, error) {
	if strings.TrimSpace(username) == "" {
		return Session{}, fmt.Errorf("%w: username", ErrMissingField)
	}
	if password == "" {
		return Session{}, fmt.Errorf("%w: password", ErrMissingField)
	}

	user, err := s.store.UserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, err
	}
	if !user.Active {
		return Session{}, ErrInvalidCredentials
	}
	if err := VerifyPassword(user.PasswordHash, password); err != nil {
		return Session{}, ErrInvalidCredentials
	}

	token := uuid.NewString()
	if err := s.store.PutSession(ctx, token, user.ID); err != nil {
		return Session{}, err
	}

	s.record(ctx, &user, "LOGIN", "session", token, "")
	return Session{Token: token, User: user.View()}, nil
}

// Logout removes the token binding. Removing an unknown token is not an
// error from the store's perspective; only an absent token is rejected.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return fmt.Errorf("%w: token", ErrMissingField)
	}
	if user, err := s.resolveSession(ctx, token); err == nil {
		s.record(ctx, &user, "LOGOUT", "session", token, "")
	}
	return s.store.DeleteSession(ctx, token)
}

// ValidateSession resolves the token to the public view of its user.
func (s *Service) ValidateSession(ctx context.Context, token string) (UserView, error) {
	if token == "" {
		return UserView{}, fmt.Errorf("%w: token", ErrMissingField)
	}
	user, err := s.resolveSession(ctx, token)
	if err != nil {
		return UserView{}, err
	}
	return user.View(), nil
}

func (s *Service) resolveSession(ctx context.Context, token string) (User, error) {
	userID, err := s.store.SessionUserID(ctx, token)
	if err != nil {
		return User{}, ErrInvalidSession
	}
	user, err := s.store.UserByID(ctx, userID)
	if err != nil || !user.Active {
		return User{}, ErrInvalidSession
	}
	return user, nil
}

// ListUsers returns the public views of every active account.
func (s *Service) ListUsers(ctx context.Context) ([]UserView, error) {
	users, err := s.store.ListActiveUsers(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]UserView, 0, len(users))
	for _, u := range users {
		views = append(views, u.View())
	}
	return views, nil
}

// CreateUser registers a new active account.
func (s *Service) CreateUser(ctx context.Context, req CreateUserRequest, actor *Actor) (UserView, error) {
	if strings.TrimSpace(req.Username) == "" {
		return UserView{}, fmt.Errorf("%w: username", ErrMissingField)
	}
	if req.Password == "" {
		return UserView{}, fmt.Errorf("%w: password", ErrMissingField)
	}
	if !req.Role.Valid() {
		return UserView{}, fmt.Errorf("%w: role %q", ErrMissingField, req.Role)
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return UserView{}, err
	}
	ts := Timestamp(s.now())
	user := User{
		ID:           ids.New(),
		Username:     req.Username,
		FullName:     req.FullName,
		Role:         req.Role,
		PasswordHash: hash,
		Active:       true,
		CreatedAt:    ts,
		UpdatedAt:    ts,
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		return UserView{}, err
	}

	s.recordActor(ctx, actor, "CREATE_USER", "user", user.ID,
		fmt.Sprintf("{\"username\":%q,\"role\":%q}", user.Username, user.Role))
	return user.View(), nil
}

// UpdateUser patches name, role and active flag of an account, stamps the
// update time and returns the resulting view.
func (s *Service) UpdateUser(ctx context.Context, userID string, upd UserUpdate, actor *Actor) (UserView, error) {
	if userID == "" {
		return UserView{}, fmt.Errorf("%w: user_id", ErrMissingField)
	}
	if upd.Role != nil && !upd.Role.Valid() {
		return UserView{}, fmt.Errorf("%w: role %q", ErrMissingField, *upd.Role)
	}
	upd.UpdatedAt = Timestamp(s.now())
	if err := s.store.UpdateUser(ctx, userID, upd); err != nil {
		return UserView{}, err
	}
	user, err := s.store.UserByID(ctx, userID)
	if err != nil {
		return UserView{}, err
	}
	s.recordActor(ctx, actor, "UPDATE_USER", "user", userID, "")
	return user.View(), nil
}

// ChangePassword replaces the credential of an account.
func (s *Service) ChangePassword(ctx context.Context, userID, newPassword string, actor *Actor) error {
	if userID == "" {
		return fmt.Errorf("%w: user_id", ErrMissingField)
	}
	if newPassword == "" {
		return fmt.Errorf("%w: password", ErrMissingField)
	}
	hash, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.store.SetPassword(ctx, userID, hash); err != nil {
		return err
	}
	s.recordActor(ctx, actor, "CHANGE_PASSWORD", "user", userID, "")
	return nil
}

// DeactivateUser soft-deletes an account by clearing its active flag. The
// record itself is kept; inspections are the only hard-deleted entities.
func (s *Service) DeactivateUser(ctx context.Context, userID string, actor *Actor) error {
	if userID == "" {
		return fmt.Errorf("%w: user_id", ErrMissingField)
	}
	if err := s.store.DeactivateUser(ctx, userID); err != nil {
		return err
	}
	s.recordActor(ctx, actor, "DEACTIVATE_USER", "user", userID, "")
	return nil
}

func (s *Service) record(ctx context.Context, user *User, action, entityType, entityID, details string) {
	var actor *Actor
	if user != nil {
		a := user.Actor()
		actor = &a
	}
	s.recordActor(ctx, actor, action, entityType, entityID, details)
}

func (s *Service) recordActor(ctx context.Context, actor *Actor, action, entityType, entityID, details string) {
	if s.trail == nil {
		return
	}
	entry := audit.Entry{
		Timestamp:  Timestamp(s.now()),
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
	_ = audit.Emit(ctx, "auth."+strings.ToLower(action), map[string]any{
		"entity_type": entityType,
		"entity_id":   entityID,
	})
}
