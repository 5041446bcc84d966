package handler

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"saarthi_backend/internal/schemes/service"
	"saarthi_backend/internal/schemes/transport"
	"saarthi_backend/platform/httpkit"
	"saarthi_backend/platform/validator"
)

// Handler handles HTTP requests for the scheme catalog.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgSchemeIDRequired = "schemeId is required"
)

// New creates a new schemes handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// List retrieves the catalog.
// GET /api/v1/schemes
func (h *Handler) List(c *gin.Context) {
	var req transport.ListSchemesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.List(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// GetBySchemeID retrieves a single scheme.
// GET /api/v1/schemes/:schemeId
func (h *Handler) GetBySchemeID(c *gin.Context) {
	schemeID, ok := schemeIDParam(c)
	if !ok {
		return
	}

	result, err := h.svc.GetBySchemeID(c.Request.Context(), schemeID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ListByCategory retrieves the active schemes of a category.
// GET /api/v1/schemes/category/:category
func (h *Handler) ListByCategory(c *gin.Context) {
	category := strings.TrimSpace(c.Param("category"))
	if category == "" {
		httpkit.Error(c, http.StatusBadRequest, "category is required", nil)
		return
	}

	result, err := h.svc.ListByCategory(c.Request.Context(), category)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Search returns the schemes a citizen profile is eligible for.
// POST /api/v1/schemes/search
func (h *Handler) Search(c *gin.Context) {
	var req transport.SearchSchemesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.Search(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Create adds a scheme.
// POST /api/v1/admin/schemes
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateSchemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.Create(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}

// Update modifies a scheme.
// PUT /api/v1/admin/schemes/:schemeId
func (h *Handler) Update(c *gin.Context) {
	schemeID, ok := schemeIDParam(c)
	if !ok {
		return
	}

	var req transport.UpdateSchemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.Update(c.Request.Context(), schemeID, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Delete removes a scheme.
// DELETE /api/v1/admin/schemes/:schemeId
func (h *Handler) Delete(c *gin.Context) {
	schemeID, ok := schemeIDParam(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), schemeID); httpkit.HandleError(c, err) {
		return
	}
	c.Status(http.StatusNoContent)
}

func schemeIDParam(c *gin.Context) (string, bool) {
	schemeID := strings.TrimSpace(c.Param("schemeId"))
	if schemeID == "" {
		httpkit.Error(c, http.StatusBadRequest, msgSchemeIDRequired, nil)
		return "", false
	}
	return schemeID, true
}

const maxCatalogBytes = 1 << 20

// Import upserts a YAML scheme catalog sent as the request body.
// POST /api/v1/admin/schemes/import
func (h *Handler) Import(c *gin.Context) {
	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxCatalogBytes+1))
	if err != nil || len(data) == 0 || len(data) > maxCatalogBytes {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	entries, err := service.ParseCatalog(data)
	if httpkit.HandleError(c, err) {
		return
	}

	result, err := h.svc.Import(c.Request.Context(), entries, h.val)
	if err != nil && result.Upserted == 0 {
		httpkit.Error(c, http.StatusBadRequest, "catalog import failed", err.Error())
		return
	}

	failed := result.Failed
	if failed == nil {
		failed = []string{}
	}
	httpkit.OK(c, transport.ImportCatalogResponse{Upserted: result.Upserted, Failed: failed})
}
