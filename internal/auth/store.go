package auth

import "context"

// Store describes the persistence operations required by the auth subsystem.
// Implementations must return ErrNotFound for absent entities and ErrConflict
// for duplicate usernames.
type Store interface {
	CreateUser(ctx context.Context, u User) error
	UserByID(ctx context.Context, id string) (User, error)
	UserByUsername(ctx context.Context, username string) (User, error)
	// ListActiveUsers returns active accounts only; soft-deleted accounts
	// stay in storage but are never listed.
	ListActiveUsers(ctx context.Context) ([]User, error)
	UpdateUser(ctx context.Context, id string, upd UserUpdate) error
	SetPassword(ctx context.Context, id, passwordHash string) error
	DeactivateUser(ctx context.Context, id string) error

	PutSession(ctx context.Context, token, userID string) error
	// DeleteSession is a no-op for tokens that do not exist.
	DeleteSession(ctx context.Context, token string) error
	SessionUserID(ctx context.Context, token string) (string, error)
}
