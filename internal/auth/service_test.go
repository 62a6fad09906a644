package auth

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeStore struct {
	users    map[string]User
	sessions map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{users: map[string]User{}, sessions: map[string]string{}}
}

func (f *fakeStore) CreateUser(_ context.Context, u User) error {
	for _, existing := range f.users {
		if existing.Username == u.Username {
			return ErrConflict
		}
	}
	f.users[u.ID] = u
	return nil
}

func (f *fakeStore) UserByID(_ context.Context, id string) (User, error) {
	u, ok := f.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (f *fakeStore) UserByUsername(_ context.Context, username string) (User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return User{}, ErrNotFound
}

func (f *fakeStore) ListActiveUsers(_ context.Context) ([]User, error) {
	var out []User
	for _, u := range f.users {
		if u.Active {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeStore) UpdateUser(_ context.Context, id string, upd UserUpdate) error {
	u, ok := f.users[id]
	if !ok {
		return ErrNotFound
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
	f.users[id] = u
	return nil
}

func (f *fakeStore) SetPassword(_ context.Context, id, hash string) error {
	u, ok := f.users[id]
	if !ok {
		return ErrNotFound
	}
	u.PasswordHash = hash
	f.users[id] = u
	return nil
}

func (f *fakeStore) DeactivateUser(_ context.Context, id string) error {
	u, ok := f.users[id]
	if !ok {
		return ErrNotFound
	}
	u.Active = false
	f.users[id] = u
	for token, userID := range f.sessions {
		if userID == id {
			delete(f.sessions, token)
		}
	}
	return nil
}

func (f *fakeStore) PutSession(_ context.Context, token, userID string) error {
	f.sessions[token] = userID
	return nil
}

func (f *fakeStore) DeleteSession(_ context.Context, token string) error {
	delete(f.sessions, token)
	return nil
}

func (f *fakeStore) SessionUserID(_ context.Context, token string) (string, error) {
	id, ok := f.sessions[token]
	if !ok {
		return "", ErrInvalidSession
	}
	return id, nil
}

func newTestService(t *testing.T) (*Service, *fakeStore) {
	t.Helper()
	store := newFakeStore()
	// Each clock read advances by a minute so timestamp ordering is visible.
	tick := 0
	svc, err := NewService(store, nil, WithClock(func() time.Time {
		tick++
		return time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC).Add(time.Duration(tick) * time.Minute)
	}))
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, store
}

func seedUser(t *testing.T, svc *Service, username, password string, role Role) UserView {
	t.Helper()
	view, err := svc.CreateUser(context.Background(), CreateUserRequest{
		Username: username,
		FullName: "Test User",
		Role:     role,
		Password: password,
	}, nil)
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	return view
}

func TestLoginIssuesSession(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	seedUser(t, svc, "admin", "admin123", RoleAdmin)

	session, err := svc.Login(ctx, "admin", "admin123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if session.Token == "" {
		t.Fatal("empty token")
	}
	if session.User.Username != "admin" || session.User.Role != RoleAdmin {
		t.Fatalf("session user = %+v", session.User)
	}

	view, err := svc.ValidateSession(ctx, session.Token)
	if err != nil {
		t.Fatalf("ValidateSession: %v", err)
	}
	if view.ID != session.User.ID {
		t.Fatalf("validated id = %q, want %q", view.ID, session.User.ID)
	}
}

func TestLoginRejectsBadInput(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	seedUser(t, svc, "admin", "admin123", RoleAdmin)

	if _, err := svc.Login(ctx, "", "admin123"); !errors.Is(err, ErrMissingField) {
		t.Errorf("empty username: err = %v", err)
	}
	if _, err := svc.Login(ctx, "admin", ""); !errors.Is(err, ErrMissingField) {
		t.Errorf("empty password: err = %v", err)
	}
	if _, err := svc.Login(ctx, "admin", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("bad password: err = %v", err)
	}
	if _, err := svc.Login(ctx, "ghost", "admin123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown user: err = %v", err)
	}
}

func TestLogoutInvalidatesToken(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	seedUser(t, svc, "admin", "admin123", RoleAdmin)

	session, err := svc.Login(ctx, "admin", "admin123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := svc.Logout(ctx, session.Token); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := svc.ValidateSession(ctx, session.Token); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("validate after logout: err = %v", err)
	}
	// Logging out an already-removed token is not an error.
	if err := svc.Logout(ctx, session.Token); err != nil {
		t.Fatalf("second logout: %v", err)
	}
}

func TestDeactivatedUserCannotLoginAndLosesSessions(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	view := seedUser(t, svc, "moussa", "secret1", RoleInspector)

	session, err := svc.Login(ctx, "moussa", "secret1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if err := svc.DeactivateUser(ctx, view.ID, nil); err != nil {
		t.Fatalf("DeactivateUser: %v", err)
	}
	if _, err := svc.ValidateSession(ctx, session.Token); !errors.Is(err, ErrInvalidSession) {
		t.Fatalf("session survived deactivation: err = %v", err)
	}
	if _, err := svc.Login(ctx, "moussa", "secret1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("deactivated login: err = %v", err)
	}
}

func TestChangePasswordTakesEffect(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	view := seedUser(t, svc, "awa", "oldpass1", RoleViewer)

	if err := svc.ChangePassword(ctx, view.ID, "newpass1", nil); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
	if _, err := svc.Login(ctx, "awa", "oldpass1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("old password still valid: err = %v", err)
	}
	if _, err := svc.Login(ctx, "awa", "newpass1"); err != nil {
		t.Fatalf("new password: %v", err)
	}
}

func TestCreateUserRejectsDuplicateUsername(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	seedUser(t, svc, "fatou", "secret1", RoleInspector)

	_, err := svc.CreateUser(ctx, CreateUserRequest{
		Username: "fatou", FullName: "Other", Role: RoleViewer, Password: "secret2",
	}, nil)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("duplicate username: err = %v", err)
	}
}

func TestListUsersSkipsDeactivated(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	seedUser(t, svc, "fatou", "secret1", RoleInspector)
	gone := seedUser(t, svc, "moussa", "secret1", RoleViewer)

	if err := svc.DeactivateUser(ctx, gone.ID, nil); err != nil {
		t.Fatalf("DeactivateUser: %v", err)
	}
	views, err := svc.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers: %v", err)
	}
	if len(views) != 1 || views[0].Username != "fatou" {
		t.Fatalf("views = %+v", views)
	}
}

func TestUpdateUserPatchesFieldsAndReturnsView(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	view := seedUser(t, svc, "sidi", "secret1", RoleInspector)

	role := RoleLeadInspector
	name := "Sidi Kane"
	updated, err := svc.UpdateUser(ctx, view.ID, UserUpdate{FullName: &name, Role: &role}, nil)
	if err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}
	if updated.FullName != "Sidi Kane" || updated.Role != RoleLeadInspector || !updated.Active {
		t.Fatalf("returned view = %+v", updated)
	}
	u := store.users[view.ID]
	if u.FullName != "Sidi Kane" || u.Role != RoleLeadInspector || !u.Active {
		t.Fatalf("user after update = %+v", u)
	}
	if u.UpdatedAt <= u.CreatedAt {
		t.Fatalf("UpdatedAt %q not advanced past CreatedAt %q", u.UpdatedAt, u.CreatedAt)
	}
	if updated.UpdatedAt != u.UpdatedAt {
		t.Fatalf("view UpdatedAt = %q, stored %q", updated.UpdatedAt, u.UpdatedAt)
	}
}
