package ports

import (
	"context"
	"time"
)

// TokenStore tracks issued session tokens so logout revokes immediately.
// Tokens are keyed by their jti claim.
type TokenStore interface {
	Save(ctx context.Context, tokenID string, userID int64, expiresAt time.Time) error
	Exists(ctx context.Context, tokenID string) (bool, error)
	Delete(ctx context.Context, tokenID string) error
	DeleteForUser(ctx context.Context, userID int64) error
}

// NoopTokenStore accepts every token; useful when revocation is not needed.
var NoopTokenStore TokenStore = noopTokenStore{}

type noopTokenStore struct{}

func (noopTokenStore) Save(context.Context, string, int64, time.Time) error { return nil }
func (noopTokenStore) Exists(context.Context, string) (bool, error) { return true, nil }
func (noopTokenStore) Delete(context.Context, string) error { return nil }
func (noopTokenStore) DeleteForUser(context.Context, int64) error { return nil }
