package ports

import (
	"context"

	"github.com/orderdesk/inventory-api/internal/domains/users/domain"
)

// RegisterInput carries the fields accepted at signup.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// ProfileUpdate carries optional profile fields.
type ProfileUpdate struct {
	Name     string
	Phone    string
	Bio      string
	PhotoURL string
}

// Session is the result of a successful login: the user plus a signed token
// the transport layer sets as an HTTP-only cookie.
type Session struct {
	User      *domain.User
	Token     string
	TokenID   string
	ExpiresAt int64
}

// Service exposes the users bounded context use cases.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*Session, error)
	// CreateUser provisions an account with an explicit role; admin only.
	CreateUser(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*Session, error)
	Logout(ctx context.Context, tokenID string) error
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	UpdateProfile(ctx context.Context, id int64, update ProfileUpdate) (*domain.User, error)
	ChangePassword(ctx context.Context, id int64, oldPassword, newPassword string) error
}
