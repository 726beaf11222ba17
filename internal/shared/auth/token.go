// Package auth issues and verifies the signed session tokens carried in the
// HTTP-only cookie, and provides the gin middleware gating protected routes.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/orderdesk/inventory-api/internal/domains/users/domain"
)

// CookieName is the session cookie carrying the signed token.
const CookieName = "session_token"

// DefaultTokenTTL applies when no TTL is configured.
const DefaultTokenTTL = 24 * time.Hour

var (
	ErrTokenInvalid = errors.New("token is invalid")
	ErrTokenExpired = errors.New("token is expired")
)

// Claims is the verified content of a session token.
type Claims struct {
	UserID    int64
	Role      domain.Role
	TokenID   string
	ExpiresAt time.Time
}

// Issuer signs and verifies session tokens.
type Issuer struct {
	secret []byte
	ttl    time.Duration
}

// NewIssuer builds an issuer from the shared signing secret.
func NewIssuer(secret []byte, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &Issuer{secret: secret, ttl: ttl}
}

// Issue signs a token for the user. The jti identifies the token in the
// revocation store.
func (i *Issuer) Issue(userID int64, role domain.Role) (token string, tokenID string, expiresAt time.Time, err error) {
	tokenID = uuid.NewString()
	expiresAt = time.Now().Add(i.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		ID:        tokenID,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		RegisteredClaims: claims,
		Role:             string(role),
	})
	token, err = t.SignedString(i.secret)
	return token, tokenID, expiresAt, err
}

// Verify checks signature and expiry and returns the decoded claims.
func (i *Issuer) Verify(token string) (*Claims, error) {
	var claims sessionClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return i.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !parsed.Valid {
		return nil, ErrTokenInvalid
	}
	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return nil, ErrTokenInvalid
	}
	role, err := domain.ParseRole(claims.Role)
	if err != nil {
		return nil, ErrTokenInvalid
	}
	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	return &Claims{UserID: userID, Role: role, TokenID: claims.ID, ExpiresAt: expiresAt}, nil
}

type sessionClaims struct {
	jwt.RegisteredClaims
	Role string `json:"role"`
}
