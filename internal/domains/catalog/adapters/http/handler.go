// Package http exposes the catalog bounded context over gin routes.
package http

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/orderdesk/inventory-api/internal/domains/catalog/ports"
	usersdomain "github.com/orderdesk/inventory-api/internal/domains/users/domain"
	"github.com/orderdesk/inventory-api/internal/shared/apperrors"
	"github.com/orderdesk/inventory-api/internal/shared/auth"
	"github.com/orderdesk/inventory-api/internal/shared/httpx"
)

// Handler serves the /api/products routes.
type Handler struct {
	service   ports.Service
	uploadDir string
}

// NewHandler wires dependencies. uploadDir receives product images; when
// empty, image uploads are rejected.
func NewHandler(service ports.Service, uploadDir string) *Handler {
	return &Handler{service: service, uploadDir: uploadDir}
}

// Register mounts the route group behind authentication. Reads are open to
// any authenticated user; writes require admin or manager.
func (h *Handler) Register(rg *gin.RouterGroup, gate *auth.Gate) {
	rg.Use(gate.Authenticate())

	rg.GET("", h.List)
	rg.GET("/:id", h.GetByID)

	write := auth.RequireRoles(usersdomain.RoleAdmin, usersdomain.RoleManager)
	rg.POST("", write, h.Create)
	rg.PATCH("/:id", write, h.Update)
	rg.DELETE("/:id", write, h.Delete)
	rg.POST("/:id/adjust-stock", write, h.AdjustStock)
	rg.GET("/:id/history", write, h.History)
}

// POST /api/products
func (h *Handler) Create(c *gin.Context) {
	actor, ok := auth.ActorFrom(c)
	if !ok {
		httpx.Error(c, apperrors.Unauthenticated("not authenticated, please login"))
		return
	}
	payload, err := h.bindProduct(c)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	product, err := h.service.Create(c.Request.Context(), payload.toInput(), actor.UserID)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.Created(c, toResponse(product))
}

// GET /api/products
func (h *Handler) List(c *gin.Context) {
	products, err := h.service.List(c.Request.Context())
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, toResponseList(products))
}

// GET /api/products/:id
func (h *Handler) GetByID(c *gin.Context) {
	id, err := productID(c)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	product, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, toResponse(product))
}

// PATCH /api/products/:id
func (h *Handler) Update(c *gin.Context) {
	actor, ok := auth.ActorFrom(c)
	if !ok {
		httpx.Error(c, apperrors.Unauthenticated("not authenticated, please login"))
		return
	}
	id, err := productID(c)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	payload, err := h.bindProduct(c)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	product, err := h.service.Update(c.Request.Context(), id, payload.toInput(), actor.UserID)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, toResponse(product))
}

// DELETE /api/products/:id
func (h *Handler) Delete(c *gin.Context) {
	id, err := productID(c)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.Message(c, "product deleted")
}

// POST /api/products/:id/adjust-stock
func (h *Handler) AdjustStock(c *gin.Context) {
	actor, ok := auth.ActorFrom(c)
	if !ok {
		httpx.Error(c, apperrors.Unauthenticated("not authenticated, please login"))
		return
	}
	id, err := productID(c)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	var payload adjustStockRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		httpx.Error(c, apperrors.Validation(err.Error()))
		return
	}
	if err := h.service.AdjustStock(c.Request.Context(), id, payload.Delta, actor.UserID); err != nil {
		httpx.Error(c, err)
		return
	}
	product, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, toResponse(product))
}

// GET /api/products/:id/history
func (h *Handler) History(c *gin.Context) {
	id, err := productID(c)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	changes, err := h.service.History(c.Request.Context(), id)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, toChangeList(changes))
}

// bindProduct accepts either a JSON body or a multipart form with an
// optional image file.
func (h *Handler) bindProduct(c *gin.Context) (productRequest, error) {
	var payload productRequest
	contentType := c.ContentType()
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := c.ShouldBind(&payload); err != nil {
			return payload, apperrors.Validation(err.Error())
		}
		url, err := h.storeImage(c)
		if err != nil {
			return payload, err
		}
		if url != "" {
			payload.ImageURL = url
		}
		return payload, nil
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		return payload, apperrors.Validation(err.Error())
	}
	return payload, nil
}

// storeImage writes the uploaded "image" part to the upload directory and
// returns its public URL. No file part is not an error.
func (h *Handler) storeImage(c *gin.Context) (string, error) {
	file, err := c.FormFile("image")
	if err != nil {
		return "", nil
	}
	if h.uploadDir == "" {
		return "", apperrors.Validation("image uploads are not enabled")
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp":
	default:
		return "", apperrors.Validation(fmt.Sprintf("unsupported image type %q", ext))
	}
	name := uuid.NewString() + ext
	if err := c.SaveUploadedFile(file, filepath.Join(h.uploadDir, name)); err != nil {
		return "", apperrors.Wrap(apperrors.KindInternal, "failed to store image", err)
	}
	return "/uploads/" + name, nil
}

func productID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.Validation("product id must be a positive integer")
	}
	return id, nil
}
