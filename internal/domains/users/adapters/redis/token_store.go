// Package redis provides a Redis-backed token store. Expiry is handled by
// key TTLs, so no purge job is needed when this adapter is selected.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/orderdesk/inventory-api/internal/domains/users/ports"
)

var _ ports.TokenStore = (*TokenStore)(nil)

const keyPrefix = "auth:token:"

// TokenStore tracks live session tokens in Redis.
type TokenStore struct {
	client *redis.Client
}

// NewTokenStore wires a Redis-backed token store. Caller owns client lifecycle.
func NewTokenStore(client *redis.Client) *TokenStore {
	return &TokenStore{client: client}
}

// Save stores the token with a TTL matching its expiry.
func (s *TokenStore) Save(ctx context.Context, tokenID string, userID int64, expiresAt time.Time) error {
	if err := s.ensureClient(); err != nil {
		return err
	}
	tokenID = strings.TrimSpace(tokenID)
	if tokenID == "" {
		return errors.New("token id is required")
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return errors.New("token already expired")
	}
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, keyPrefix+tokenID, userID, ttl)
	pipe.SAdd(ctx, userTokensKey(userID), tokenID)
	pipe.ExpireAt(ctx, userTokensKey(userID), expiresAt)
	_, err := pipe.Exec(ctx)
	return err
}

// Exists reports whether the token is live.
func (s *TokenStore) Exists(ctx context.Context, tokenID string) (bool, error) {
	if err := s.ensureClient(); err != nil {
		return false, err
	}
	n, err := s.client.Exists(ctx, keyPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Delete revokes a single token.
func (s *TokenStore) Delete(ctx context.Context, tokenID string) error {
	if err := s.ensureClient(); err != nil {
		return err
	}
	userID, err := s.client.Get(ctx, keyPrefix+tokenID).Int64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, keyPrefix+tokenID)
	if err == nil {
		pipe.SRem(ctx, userTokensKey(userID), tokenID)
	}
	_, err = pipe.Exec(ctx)
	return err
}

// DeleteForUser revokes every token issued to the user.
func (s *TokenStore) DeleteForUser(ctx context.Context, userID int64) error {
	if err := s.ensureClient(); err != nil {
		return err
	}
	tokenIDs, err := s.client.SMembers(ctx, userTokensKey(userID)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	pipe := s.client.TxPipeline()
	for _, id := range tokenIDs {
		pipe.Del(ctx, keyPrefix+id)
	}
	pipe.Del(ctx, userTokensKey(userID))
	_, err = pipe.Exec(ctx)
	return err
}

func (s *TokenStore) ensureClient() error {
	if s == nil || s.client == nil {
		return errors.New("redis token store not configured")
	}
	return nil
}

func userTokensKey(userID int64) string {
	return fmt.Sprintf("auth:user:%d:tokens", userID)
}
