package repository

import (
	"context"
	"encoding/json"

	"github.com/rpggio/pmdash/internal/domain/session"
)

// KVStore is a flat key-value store holding JSON documents.
// Implementations must make Get, Set and Delete atomic per key.
type KVStore interface {
	Get(ctx context.Context, key string) (json.RawMessage, error)
	Set(ctx context.Context, key string, value json.RawMessage) error
	Delete(ctx context.Context, key string) error
	GetByPrefix(ctx context.Context, prefix string) ([]json.RawMessage, error)
}

// UserRepository manages identity accounts
type UserRepository interface {
	Create(ctx context.Context, acct *session.Account) error
	Get(ctx context.Context, id string) (*session.Account, error)
	GetByEmail(ctx context.Context, email string) (*session.Account, error)
	Update(ctx context.Context, acct *session.Account) error
	TouchLastLogin(ctx context.Context, id string) error
}
