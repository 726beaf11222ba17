package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/orderdesk/inventory-api/internal/domains/users/domain"
)

func TestIssueAndVerify(t *testing.T) {
	issuer := NewIssuer([]byte("secret"), time.Hour)

	token, tokenID, expiresAt, err := issuer.Issue(42, domain.RoleManager)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.NotEmpty(t, tokenID)
	require.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := issuer.Verify(token)
	require.NoError(t, err)
	require.Equal(t, int64(42), claims.UserID)
	require.Equal(t, domain.RoleManager, claims.Role)
	require.Equal(t, tokenID, claims.TokenID)
}

func TestVerify_WrongSecret(t *testing.T) {
	issuer := NewIssuer([]byte("secret"), time.Hour)
	other := NewIssuer([]byte("different"), time.Hour)

	token, _, _, err := issuer.Issue(1, domain.RoleCustomer)
	require.NoError(t, err)

	_, err = other.Verify(token)
	require.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerify_Expired(t *testing.T) {
	issuer := NewIssuer([]byte("secret"), time.Nanosecond)

	token, _, _, err := issuer.Issue(1, domain.RoleCustomer)
	require.NoError(t, err)

	time.Sleep(10 * time.Millisecond)
	_, err = issuer.Verify(token)
	require.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerify_Garbage(t *testing.T) {
	issuer := NewIssuer([]byte("secret"), time.Hour)
	_, err := issuer.Verify("not-a-token")
	require.ErrorIs(t, err, ErrTokenInvalid)
}
