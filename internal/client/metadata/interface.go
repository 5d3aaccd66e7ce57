// Package metadata stores small client-side key/value state, most notably
// the cached session token, in a local SQLite database.
package metadata

import (
	"context"
)

// Keys the client stores.
const (
	KeyAuthToken = "auth_token"
	KeyUserEmail = "user_email"
)

type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
