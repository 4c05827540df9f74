package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Roles a user can hold.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is an account that can sign in to the console. Accounts are created
// out-of-band (CLI or bootstrap admin); there is no signup endpoint.
type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Username string `gorm:"uniqueIndex;size:64;not null" json:"username"`

	// Password is stored and compared as plain text so existing rows stay
	// usable. It never leaves the server.
	Password string `gorm:"size:255;not null" json:"-"`

	Role string `gorm:"size:16;not null;default:user" json:"role"`

	CreatedAt time.Time `json:"created_at"`
}

func (User) TableName() string { return "users" }

// IsAdmin reports whether the user may pass the admin gate.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// FindUserByCredentials returns the first user whose username and password
// both match exactly, or ErrNotFound.
func (s *Store) FindUserByCredentials(ctx context.Context, username, password string) (*User, error) {
	var user User
	err := s.db.WithContext(ctx).
		Where("username = ? AND password = ?", username, password).
		Order("id").
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user by credentials: %w", err)
	}
	return &user, nil
}

// CreateUser inserts a new account. A taken username yields ErrDuplicate.
func (s *Store) CreateUser(ctx context.Context, user *User) error {
	if user.Role == "" {
		user.Role = RoleUser
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// ListUsersByRole returns the accounts holding role, without passwords.
func (s *Store) ListUsersByRole(ctx context.Context, role string) ([]User, error) {
	users := []User{}
	err := s.db.WithContext(ctx).
		Select("id", "username", "role", "created_at").
		Where("role = ?", role).
		Order("id").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// DeleteUser removes the account by id. Keys owned by the user are left in
// place. Deleting a missing id is not an error.
func (s *Store) DeleteUser(ctx context.Context, id uint) error {
	if err := s.db.WithContext(ctx).Delete(&User{}, id).Error; err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	return nil
}

// EnsureBootstrapAdmin makes sure an admin account with the given
// credentials exists. An existing user with that username is left as-is.
func (s *Store) EnsureBootstrapAdmin(ctx context.Context, username, password string) (bool, error) {
	if username == "" || password == "" {
		return false, nil
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check bootstrap admin: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	admin := &User{Username: username, Password: password, Role: RoleAdmin}
	if err := s.CreateUser(ctx, admin); err != nil {
		return false, err
	}
	return true, nil
}
