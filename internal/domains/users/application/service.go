package application

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/orderdesk/inventory-api/internal/domains/users/domain"
	"github.com/orderdesk/inventory-api/internal/domains/users/ports"
	"github.com/orderdesk/inventory-api/internal/shared/apperrors"
	"github.com/orderdesk/inventory-api/internal/shared/auth"
)

// Service exposes users bounded context use cases.
type Service struct {
	repo   ports.Repository
	tokens ports.TokenStore
	issuer *auth.Issuer
}

func NewService(repo ports.Repository, tokens ports.TokenStore, issuer *auth.Issuer) *Service {
	if tokens == nil {
		tokens = ports.NoopTokenStore
	}
	return &Service{repo: repo, tokens: tokens, issuer: issuer}
}

// Register creates a customer account and logs it in. Self-registration never
// honors a requested role; anything above customer comes through CreateUser.
// Hashing the password here is the single encode-on-write step; no persistence
// hook re-hashes.
func (s *Service) Register(ctx context.Context, input ports.RegisterInput) (*ports.Session, error) {
	if raw := strings.TrimSpace(input.Role); raw != "" {
		parsed, err := domain.ParseRole(raw)
		if err != nil {
			return nil, apperrors.Validation(err.Error())
		}
		if parsed != domain.RoleCustomer {
			return nil, apperrors.Forbidden("role assignment requires an administrator")
		}
	}
	saved, err := s.createAccount(ctx, input, domain.RoleCustomer)
	if err != nil {
		return nil, err
	}
	return s.startSession(ctx, saved)
}

// CreateUser provisions an account with an explicit role and no session.
// The transport layer restricts this operation to administrators.
func (s *Service) CreateUser(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	role := domain.RoleCustomer
	if strings.TrimSpace(input.Role) != "" {
		parsed, err := domain.ParseRole(input.Role)
		if err != nil {
			return nil, apperrors.Validation(err.Error())
		}
		role = parsed
	}
	return s.createAccount(ctx, input, role)
}

func (s *Service) createAccount(ctx context.Context, input ports.RegisterInput, role domain.Role) (*domain.User, error) {
	user, err := domain.NewUser(input.Name, input.Email, role)
	if err != nil {
		return nil, mapError(err)
	}
	if err := domain.ValidatePassword(input.Password); err != nil {
		return nil, mapError(err)
	}
	if _, err := s.repo.GetByEmail(ctx, user.Email); err == nil {
		return nil, mapError(ports.ErrEmailTaken)
	} else if !errors.Is(err, ports.ErrNotFound) {
		return nil, mapError(err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, mapError(err)
	}
	user.PasswordHash = string(hash)
	saved, err := s.repo.Save(ctx, user)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// Login verifies credentials and issues a session token.
func (s *Service) Login(ctx context.Context, email, password string) (*ports.Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || strings.TrimSpace(password) == "" {
		return nil, mapError(ports.ErrInvalidCredentials)
	}
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return nil, mapError(ports.ErrInvalidCredentials)
		}
		return nil, mapError(err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, mapError(ports.ErrInvalidCredentials)
	}
	return s.startSession(ctx, user)
}

// Logout revokes the token backing the current session.
func (s *Service) Logout(ctx context.Context, tokenID string) error {
	if strings.TrimSpace(tokenID) == "" {
		return nil
	}
	return s.tokens.Delete(ctx, tokenID)
}

func (s *Service) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return user, nil
}

// UpdateProfile applies optional profile fields to the account.
func (s *Service) UpdateProfile(ctx context.Context, id int64, update ports.ProfileUpdate) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	if err := user.UpdateProfile(update.Name, update.Phone, update.Bio, update.PhotoURL); err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Save(ctx, user)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// ChangePassword verifies the old password, re-hashes the new one, and
// revokes every other session for the user.
func (s *Service) ChangePassword(ctx context.Context, id int64, oldPassword, newPassword string) error {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return mapError(err)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)) != nil {
		return mapError(ports.ErrInvalidCredentials)
	}
	if err := domain.ValidatePassword(newPassword); err != nil {
		return mapError(err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return mapError(err)
	}
	user.PasswordHash = string(hash)
	if _, err := s.repo.Save(ctx, user); err != nil {
		return mapError(err)
	}
	return mapError(s.tokens.DeleteForUser(ctx, id))
}

func (s *Service) startSession(ctx context.Context, user *domain.User) (*ports.Session, error) {
	token, tokenID, expiresAt, err := s.issuer.Issue(user.ID, user.Role)
	if err != nil {
		return nil, mapError(err)
	}
	if err := s.tokens.Save(ctx, tokenID, user.ID, expiresAt); err != nil {
		return nil, mapError(err)
	}
	return &ports.Session{User: user, Token: token, TokenID: tokenID, ExpiresAt: expiresAt.Unix()}, nil
}

var _ ports.Service = (*Service)(nil)
