// Package credstore persists the auth token and user id. Absence of the
// token means "logged out"; there is no caching and no invalidation policy
// beyond explicit removal. Writes are full-key overwrites, so concurrent
// writers cannot corrupt a value, only last-write-wins it.
package credstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a credential key has no value.
var ErrNotFound = errors.New("credential not found")

// Store is the key-value credential persistence contract.
type Store interface {
	Token(ctx context.Context) (string, error)
	SetToken(ctx context.Context, token string) error
	RemoveToken(ctx context.Context) error

	UserID(ctx context.Context) (string, error)
	SetUserID(ctx context.Context, id string) error
	RemoveUserID(ctx context.Context) error
}
