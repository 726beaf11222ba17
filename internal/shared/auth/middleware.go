package auth

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/orderdesk/inventory-api/internal/domains/users/domain"
	userports "github.com/orderdesk/inventory-api/internal/domains/users/ports"
	"github.com/orderdesk/inventory-api/internal/shared/apperrors"
	"github.com/orderdesk/inventory-api/internal/shared/httpx"
)

const actorKey = "auth.actor"

// Actor is the authenticated principal attached to the request context.
type Actor struct {
	UserID  int64
	Role    domain.Role
	TokenID string
}

// Gate authenticates requests and enforces role membership.
type Gate struct {
	issuer *Issuer
	users  userports.Repository
	tokens userports.TokenStore
}

// NewGate wires the authorization gate.
func NewGate(issuer *Issuer, users userports.Repository, tokens userports.TokenStore) *Gate {
	if tokens == nil {
		tokens = userports.NoopTokenStore
	}
	return &Gate{issuer: issuer, users: users, tokens: tokens}
}

// Authenticate resolves the session cookie to an Actor or rejects with 401.
// All failure modes return the same message so callers cannot distinguish a
// missing user from a bad token.
func (g *Gate) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, err := g.resolve(c)
		if err != nil {
			httpx.Error(c, err)
			return
		}
		c.Set(actorKey, actor)
		c.Next()
	}
}

func (g *Gate) resolve(c *gin.Context) (*Actor, error) {
	raw, err := c.Cookie(CookieName)
	if err != nil || raw == "" {
		return nil, apperrors.Unauthenticated("not authenticated, please login")
	}
	claims, err := g.issuer.Verify(raw)
	if err != nil {
		return nil, apperrors.Unauthenticated("not authenticated, please login")
	}
	live, err := g.tokens.Exists(c.Request.Context(), claims.TokenID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if !live {
		return nil, apperrors.Unauthenticated("not authenticated, please login")
	}
	user, err := g.users.GetByID(c.Request.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, userports.ErrNotFound) {
			return nil, apperrors.Unauthenticated("not authenticated, please login")
		}
		return nil, apperrors.Internal(err)
	}
	// The persisted role wins over the claim so demotions apply immediately.
	return &Actor{UserID: user.ID, Role: user.Role, TokenID: claims.TokenID}, nil
}

// RequireRoles rejects actors whose role is outside the allowed set.
func RequireRoles(roles ...domain.Role) gin.HandlerFunc {
	allowed := make(map[domain.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		actor, ok := ActorFrom(c)
		if !ok {
			httpx.Error(c, apperrors.Unauthenticated("not authenticated, please login"))
			return
		}
		if _, ok := allowed[actor.Role]; !ok {
			httpx.Error(c, apperrors.Forbidden("insufficient permissions"))
			return
		}
		c.Next()
	}
}

// ActorFrom extracts the authenticated actor set by Authenticate.
func ActorFrom(c *gin.Context) (*Actor, bool) {
	value, ok := c.Get(actorKey)
	if !ok {
		return nil, false
	}
	actor, ok := value.(*Actor)
	return actor, ok
}

// OwnerResolver maps a request to the owning user id. ok=false skips the
// ownership check (resource has no owner yet, or lookup is inapplicable).
type OwnerResolver func(ctx context.Context, c *gin.Context) (ownerID int64, ok bool, err error)

// Policy is a per-route authorization capability: a role set plus an optional
// ownership resolver applied to non-privileged actors.
type Policy struct {
	AllowedRoles []domain.Role
	ResolveOwner OwnerResolver
}

// Middleware evaluates the policy after Authenticate has run. Role membership
// is checked first; ownership only applies when the actor is not privileged.
func (p Policy) Middleware() gin.HandlerFunc {
	allowed := make(map[domain.Role]struct{}, len(p.AllowedRoles))
	for _, r := range p.AllowedRoles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		actor, ok := ActorFrom(c)
		if !ok {
			httpx.Error(c, apperrors.Unauthenticated("not authenticated, please login"))
			return
		}
		if len(allowed) > 0 {
			if _, ok := allowed[actor.Role]; !ok {
				httpx.Error(c, apperrors.Forbidden("insufficient permissions"))
				return
			}
		}
		if p.ResolveOwner != nil && !actor.Role.Privileged() {
			ownerID, found, err := p.ResolveOwner(c.Request.Context(), c)
			if err != nil {
				httpx.Error(c, err)
				return
			}
			if found && ownerID != actor.UserID {
				httpx.Error(c, apperrors.Forbidden("insufficient permissions"))
				return
			}
		}
		c.Next()
	}
}
