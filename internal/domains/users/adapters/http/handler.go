// Package http exposes the users bounded context over gin routes.
package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/orderdesk/inventory-api/internal/domains/users/domain"
	"github.com/orderdesk/inventory-api/internal/domains/users/ports"
	"github.com/orderdesk/inventory-api/internal/shared/apperrors"
	"github.com/orderdesk/inventory-api/internal/shared/auth"
	"github.com/orderdesk/inventory-api/internal/shared/httpx"
)

// Handler serves the /api/users routes.
type Handler struct {
	service      ports.Service
	issuer       *auth.Issuer
	cookieSecure bool
}

// NewHandler wires dependencies. cookieSecure should be true behind TLS.
func NewHandler(service ports.Service, issuer *auth.Issuer, cookieSecure bool) *Handler {
	return &Handler{service: service, issuer: issuer, cookieSecure: cookieSecure}
}

// Register mounts the route group. gate may partially protect the group.
func (h *Handler) Register(rg *gin.RouterGroup, gate *auth.Gate) {
	rg.POST("/register", h.RegisterUser)
	rg.POST("/login", h.Login)
	rg.GET("/logout", h.Logout)
	rg.GET("/loggedin", h.LoggedIn)

	protected := rg.Group("", gate.Authenticate())
	protected.GET("/getuser", h.GetUser)
	protected.PATCH("/updateuser", h.UpdateUser)
	protected.PATCH("/changepassword", h.ChangePassword)

	// Staff accounts are provisioned by an administrator, never self-registered.
	protected.POST("", auth.RequireRoles(domain.RoleAdmin), h.CreateUser)
}

// POST /api/users/register
func (h *Handler) RegisterUser(c *gin.Context) {
	var payload registerRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		httpx.Error(c, apperrors.Validation(err.Error()))
		return
	}
	session, err := h.service.Register(c.Request.Context(), ports.RegisterInput{
		Name:     payload.Name,
		Email:    payload.Email,
		Password: payload.Password,
		Role:     payload.Role,
	})
	if err != nil {
		httpx.Error(c, err)
		return
	}
	h.setSessionCookie(c, session)
	httpx.Created(c, toResponse(session.User))
}

// POST /api/users (admin provisioning with an explicit role)
func (h *Handler) CreateUser(c *gin.Context) {
	var payload registerRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		httpx.Error(c, apperrors.Validation(err.Error()))
		return
	}
	user, err := h.service.CreateUser(c.Request.Context(), ports.RegisterInput{
		Name:     payload.Name,
		Email:    payload.Email,
		Password: payload.Password,
		Role:     payload.Role,
	})
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.Created(c, toResponse(user))
}

// POST /api/users/login
func (h *Handler) Login(c *gin.Context) {
	var payload loginRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		httpx.Error(c, apperrors.Validation(err.Error()))
		return
	}
	session, err := h.service.Login(c.Request.Context(), payload.Email, payload.Password)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	h.setSessionCookie(c, session)
	httpx.OK(c, toResponse(session.User))
}

// GET /api/users/logout
func (h *Handler) Logout(c *gin.Context) {
	if raw, err := c.Cookie(auth.CookieName); err == nil && raw != "" {
		// Best effort revocation; an unreadable token still gets its cookie cleared.
		if claims, err := h.issuer.Verify(raw); err == nil {
			_ = h.service.Logout(c.Request.Context(), claims.TokenID)
		}
	}
	c.SetCookie(auth.CookieName, "", -1, "/", "", h.cookieSecure, true)
	httpx.Message(c, "successfully logged out")
}

// GET /api/users/loggedin reports session liveness without failing the request.
func (h *Handler) LoggedIn(c *gin.Context) {
	raw, err := c.Cookie(auth.CookieName)
	loggedIn := err == nil && raw != ""
	if loggedIn {
		if _, err := h.issuer.Verify(raw); err != nil {
			loggedIn = false
		}
	}
	httpx.OK(c, loggedIn)
}

// GET /api/users/getuser
func (h *Handler) GetUser(c *gin.Context) {
	actor, ok := auth.ActorFrom(c)
	if !ok {
		httpx.Error(c, apperrors.Unauthenticated("not authenticated, please login"))
		return
	}
	user, err := h.service.GetUser(c.Request.Context(), actor.UserID)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, toResponse(user))
}

// PATCH /api/users/updateuser
func (h *Handler) UpdateUser(c *gin.Context) {
	actor, ok := auth.ActorFrom(c)
	if !ok {
		httpx.Error(c, apperrors.Unauthenticated("not authenticated, please login"))
		return
	}
	var payload updateProfileRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		httpx.Error(c, apperrors.Validation(err.Error()))
		return
	}
	user, err := h.service.UpdateProfile(c.Request.Context(), actor.UserID, ports.ProfileUpdate{
		Name:     payload.Name,
		Phone:    payload.Phone,
		Bio:      payload.Bio,
		PhotoURL: payload.PhotoURL,
	})
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, toResponse(user))
}

// PATCH /api/users/changepassword
func (h *Handler) ChangePassword(c *gin.Context) {
	actor, ok := auth.ActorFrom(c)
	if !ok {
		httpx.Error(c, apperrors.Unauthenticated("not authenticated, please login"))
		return
	}
	var payload changePasswordRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		httpx.Error(c, apperrors.Validation(err.Error()))
		return
	}
	if err := h.service.ChangePassword(c.Request.Context(), actor.UserID, payload.OldPassword, payload.Password); err != nil {
		httpx.Error(c, err)
		return
	}
	// Changing the password revokes every session, including this one.
	c.SetCookie(auth.CookieName, "", -1, "/", "", h.cookieSecure, true)
	httpx.Message(c, "password changed, please login again")
}

func (h *Handler) setSessionCookie(c *gin.Context, session *ports.Session) {
	maxAge := int(time.Until(time.Unix(session.ExpiresAt, 0)).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.CookieName, session.Token, maxAge, "/", "", h.cookieSecure, true)
}
