package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// APIKeyPrefix starts every generated token.
const APIKeyPrefix = "vtx-"

const (
	apiKeyRandomLen     = 8
	apiKeyCreateRetries = 3
)

// APIKey is a bearer token for the public catalog API, owned by one user.
// Keys of a banned user are not removed with the account.
type APIKey struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID uint `gorm:"index;not null" json:"user_id"`

	KeyLabel string `gorm:"size:128" json:"key_label"`

	// Key is the token clients send in the x-api-key header.
	Key string `gorm:"column:api_key;uniqueIndex;size:64;not null" json:"api_key"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (APIKey) TableName() string { return "api_keys" }

// NewAPIKeyToken returns a fresh token: the prefix followed by the first
// eight characters of a random UUID.
func NewAPIKeyToken() string {
	return APIKeyPrefix + uuid.NewString()[:apiKeyRandomLen]
}

// ListAPIKeys returns the keys owned by userID, newest first.
func (s *Store) ListAPIKeys(ctx context.Context, userID uint) ([]APIKey, error) {
	keys := []APIKey{}
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&keys).Error
	if err != nil {
		return nil, fmt.Errorf("list api keys: %w", err)
	}
	return keys, nil
}

// CreateAPIKey generates and stores a new key for userID. The short token
// can collide with an existing one; the unique index rejects that and a
// new token is drawn.
func (s *Store) CreateAPIKey(ctx context.Context, userID uint, label string) (*APIKey, error) {
	var lastErr error
	for attempt := 0; attempt < apiKeyCreateRetries; attempt++ {
		key := &APIKey{
			UserID:   userID,
			KeyLabel: label,
			Key:      NewAPIKeyToken(),
		}
		err := s.db.WithContext(ctx).Create(key).Error
		if err == nil {
			return key, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("create api key: %w", err)
		}
		lastErr = err
	}
	return nil, fmt.Errorf("create api key: %w", lastErr)
}

// RevokeAPIKey deletes key id only when it belongs to userID and reports
// how many rows went away.
func (s *Store) RevokeAPIKey(ctx context.Context, id, userID uint) (int64, error) {
	res := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&APIKey{})
	if res.Error != nil {
		return 0, fmt.Errorf("revoke api key %d: %w", id, res.Error)
	}
	return res.RowsAffected, nil
}

// FindAPIKey looks up a key by its token, returning ErrNotFound when absent.
func (s *Store) FindAPIKey(ctx context.Context, token string) (*APIKey, error) {
	var key APIKey
	err := s.db.WithContext(ctx).Where("api_key = ?", token).First(&key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find api key: %w", err)
	}
	return &key, nil
}
