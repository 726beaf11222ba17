package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	usersmemory "github.com/orderdesk/inventory-api/internal/domains/users/adapters/memory"
	"github.com/orderdesk/inventory-api/internal/domains/users/domain"
	"github.com/orderdesk/inventory-api/internal/domains/users/ports"
	"github.com/orderdesk/inventory-api/internal/shared/apperrors"
	"github.com/orderdesk/inventory-api/internal/shared/auth"
)

func newTestService(t *testing.T) (*Service, *usersmemory.TokenStore, *auth.Issuer) {
	t.Helper()
	issuer := auth.NewIssuer([]byte("test-secret"), time.Hour)
	tokens := usersmemory.NewTokenStore()
	return NewService(usersmemory.NewRepository(), tokens, issuer), tokens, issuer
}

func TestRegister_DefaultsToCustomerAndLogsIn(t *testing.T) {
	svc, tokens, issuer := newTestService(t)

	session, err := svc.Register(context.Background(), ports.RegisterInput{
		Name:     "Ada",
		Email:    "Ada@Example.com",
		Password: "secret1",
	})
	require.NoError(t, err)
	require.Equal(t, domain.RoleCustomer, session.User.Role)
	require.Equal(t, "ada@example.com", session.User.Email)
	require.NotEqual(t, "secret1", session.User.PasswordHash)
	require.NotEmpty(t, session.Token)

	claims, err := issuer.Verify(session.Token)
	require.NoError(t, err)
	require.Equal(t, session.User.ID, claims.UserID)
	require.Equal(t, domain.RoleCustomer, claims.Role)

	live, err := tokens.Exists(context.Background(), session.TokenID)
	require.NoError(t, err)
	require.True(t, live)
}

func TestRegister_Validation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, ports.RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "short"})
	require.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	_, err = svc.Register(ctx, ports.RegisterInput{Name: "Ada", Email: "not-an-email", Password: "secret1"})
	require.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	_, err = svc.Register(ctx, ports.RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "secret1", Role: "overlord"})
	require.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestRegister_NeverAssignsPrivilegedRoles(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	for _, role := range []string{"admin", "manager", "employee"} {
		_, err := svc.Register(ctx, ports.RegisterInput{
			Name:     "Mallory",
			Email:    "mallory@example.com",
			Password: "secret1",
			Role:     role,
		})
		require.True(t, apperrors.IsKind(err, apperrors.KindForbidden), "role %q", role)
	}

	// The rejected registrations must not have created the account.
	_, err := svc.Login(ctx, "mallory@example.com", "secret1")
	require.True(t, apperrors.IsKind(err, apperrors.KindUnauthenticated))

	// Asking for customer explicitly is the same as asking for nothing.
	session, err := svc.Register(ctx, ports.RegisterInput{
		Name:     "Ada",
		Email:    "ada@example.com",
		Password: "secret1",
		Role:     "customer",
	})
	require.NoError(t, err)
	require.Equal(t, domain.RoleCustomer, session.User.Role)
}

func TestCreateUser_AssignsExplicitRole(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	user, err := svc.CreateUser(ctx, ports.RegisterInput{
		Name:     "Grace",
		Email:    "grace@example.com",
		Password: "secret1",
		Role:     "manager",
	})
	require.NoError(t, err)
	require.Equal(t, domain.RoleManager, user.Role)

	// Provisioning does not start a session; the new manager logs in themselves.
	session, err := svc.Login(ctx, "grace@example.com", "secret1")
	require.NoError(t, err)
	require.Equal(t, domain.RoleManager, session.User.Role)

	_, err = svc.CreateUser(ctx, ports.RegisterInput{
		Name:     "Grace Again",
		Email:    "grace@example.com",
		Password: "secret1",
	})
	require.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	_, err = svc.CreateUser(ctx, ports.RegisterInput{
		Name:     "Eve",
		Email:    "eve@example.com",
		Password: "secret1",
		Role:     "overlord",
	})
	require.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	input := ports.RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "secret1"}
	_, err := svc.Register(ctx, input)
	require.NoError(t, err)

	_, err = svc.Register(ctx, input)
	require.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestLogin_WrongPasswordAndUnknownEmailLookAlike(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, ports.RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "secret1"})
	require.NoError(t, err)

	_, wrongPassword := svc.Login(ctx, "ada@example.com", "wrong")
	_, unknownEmail := svc.Login(ctx, "nobody@example.com", "secret1")

	require.True(t, apperrors.IsKind(wrongPassword, apperrors.KindUnauthenticated))
	require.True(t, apperrors.IsKind(unknownEmail, apperrors.KindUnauthenticated))
	require.Equal(t, apperrors.MessageOf(wrongPassword), apperrors.MessageOf(unknownEmail),
		"credential failures must be indistinguishable")
}

func TestLogout_RevokesToken(t *testing.T) {
	svc, tokens, _ := newTestService(t)
	ctx := context.Background()

	session, err := svc.Register(ctx, ports.RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "secret1"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, session.TokenID))
	live, err := tokens.Exists(ctx, session.TokenID)
	require.NoError(t, err)
	require.False(t, live)
}

func TestChangePassword_RevokesAllSessions(t *testing.T) {
	svc, tokens, _ := newTestService(t)
	ctx := context.Background()

	session, err := svc.Register(ctx, ports.RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "secret1"})
	require.NoError(t, err)
	second, err := svc.Login(ctx, "ada@example.com", "secret1")
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, session.User.ID, "wrong", "newsecret")
	require.True(t, apperrors.IsKind(err, apperrors.KindUnauthenticated))

	require.NoError(t, svc.ChangePassword(ctx, session.User.ID, "secret1", "newsecret"))

	for _, tokenID := range []string{session.TokenID, second.TokenID} {
		live, err := tokens.Exists(ctx, tokenID)
		require.NoError(t, err)
		require.False(t, live)
	}

	_, err = svc.Login(ctx, "ada@example.com", "secret1")
	require.True(t, apperrors.IsKind(err, apperrors.KindUnauthenticated))
	_, err = svc.Login(ctx, "ada@example.com", "newsecret")
	require.NoError(t, err)
}

func TestUpdateProfile(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	session, err := svc.Register(ctx, ports.RegisterInput{Name: "Ada", Email: "ada@example.com", Password: "secret1"})
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(ctx, session.User.ID, ports.ProfileUpdate{
		Name:  "Ada L.",
		Phone: "+1-555-0100",
		Bio:   "ops",
	})
	require.NoError(t, err)
	require.Equal(t, "Ada L.", updated.Name)
	require.Equal(t, "+1-555-0100", updated.Phone)

	_, err = svc.UpdateProfile(ctx, 9999, ports.ProfileUpdate{Name: "ghost"})
	require.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}
