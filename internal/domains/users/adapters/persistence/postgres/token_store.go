package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/orderdesk/inventory-api/internal/domains/users/ports"
)

var _ ports.TokenStore = (*TokenStore)(nil)

// TokenStore persists live session tokens in PostgreSQL.
type TokenStore struct {
	db *gorm.DB
}

// NewTokenStore wires a PostgreSQL-backed token store. Caller owns DB lifecycle.
func NewTokenStore(db *gorm.DB) *TokenStore {
	return &TokenStore{db: db}
}

type tokenRecord struct {
	TokenID   string     `gorm:"primaryKey;column:token_id;size:64"`
	UserID    int64      `gorm:"column:user_id;index"`
	ExpiresAt *time.Time `gorm:"column:expires_at;index"`
	CreatedAt time.Time  `gorm:"column:created_at"`
	UpdatedAt time.Time  `gorm:"column:updated_at"`
}

func (tokenRecord) TableName() string { return "auth_tokens" }

// Save upserts a token keyed by jti.
func (s *TokenStore) Save(ctx context.Context, tokenID string, userID int64, expiresAt time.Time) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	tokenID = strings.TrimSpace(tokenID)
	if tokenID == "" {
		return errors.New("token id is required")
	}
	rec := tokenRecord{TokenID: tokenID, UserID: userID, ExpiresAt: &expiresAt}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "token_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"user_id", "expires_at", "updated_at"}),
		}).
		Create(&rec).Error
}

// Exists reports whether the token is live (present and unexpired).
func (s *TokenStore) Exists(ctx context.Context, tokenID string) (bool, error) {
	if err := s.ensureDB(); err != nil {
		return false, err
	}
	var record tokenRecord
	err := s.db.WithContext(ctx).First(&record, "token_id = ?", tokenID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if record.ExpiresAt != nil && record.ExpiresAt.Before(time.Now()) {
		return false, nil
	}
	return true, nil
}

// Delete revokes a single token.
func (s *TokenStore) Delete(ctx context.Context, tokenID string) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(&tokenRecord{}, "token_id = ?", tokenID).Error
}

// DeleteForUser revokes every token issued to the user.
func (s *TokenStore) DeleteForUser(ctx context.Context, userID int64) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Delete(&tokenRecord{}, "user_id = ?", userID).Error
}

// PurgeExpired removes all expired tokens. Use for housekeeping or cron.
func (s *TokenStore) PurgeExpired(ctx context.Context) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	return s.db.WithContext(ctx).
		Where("expires_at IS NOT NULL AND expires_at <= ?", time.Now()).
		Delete(&tokenRecord{}).Error
}

func (s *TokenStore) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres token store not configured")
	}
	return nil
}
