package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrEmptyName     = errors.New("name is required")
	ErrEmptyPassword = errors.New("password is required")
	ErrInvalidEmail  = errors.New("email must contain '@'")
	ErrWeakPassword  = errors.New("password must be at least 6 characters")
)

// User is the account aggregate. PasswordHash holds the bcrypt digest; the
// plaintext never reaches the repository.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	Phone        string
	Bio          string
	PhotoURL     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewUser builds a user ensuring required invariants. The hash is attached
// later by the application service's encode-on-write step.
func NewUser(name, email string, role Role) (*User, error) {
	user := &User{}
	if err := user.SetName(name); err != nil {
		return nil, err
	}
	if err := user.SetEmail(email); err != nil {
		return nil, err
	}
	parsed, err := ParseRole(string(role))
	if err != nil {
		return nil, err
	}
	user.Role = parsed
	return user, nil
}

// SetName trims and validates the display name.
func (u *User) SetName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	u.Name = name
	return nil
}

// SetEmail normalizes and validates the email address.
func (u *User) SetEmail(email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return ErrInvalidEmail
	}
	u.Email = email
	return nil
}

// UpdateProfile applies optional profile fields, keeping existing values for
// blanks where that is the less surprising behavior.
func (u *User) UpdateProfile(name, phone, bio, photoURL string) error {
	if strings.TrimSpace(name) != "" {
		if err := u.SetName(name); err != nil {
			return err
		}
	}
	u.Phone = strings.TrimSpace(phone)
	u.Bio = strings.TrimSpace(bio)
	if strings.TrimSpace(photoURL) != "" {
		u.PhotoURL = strings.TrimSpace(photoURL)
	}
	return nil
}

// ValidatePassword enforces basic strength rules on a plaintext candidate.
func ValidatePassword(password string) error {
	if strings.TrimSpace(password) == "" {
		return ErrEmptyPassword
	}
	if len(password) < 6 {
		return ErrWeakPassword
	}
	return nil
}
