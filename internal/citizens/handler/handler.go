package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"saarthi_backend/internal/citizens/service"
	"saarthi_backend/internal/citizens/transport"
	"saarthi_backend/platform/httpkit"
	"saarthi_backend/platform/validator"
)

// Handler handles HTTP requests for citizen profiles.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgPhoneRequired    = "phone is required"
)

// New creates a new citizens handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// List retrieves a page of citizens.
// GET /api/v1/admin/citizens
func (h *Handler) List(c *gin.Context) {
	var req transport.ListCitizensRequest
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

// Upsert creates or updates a citizen by phone.
// POST /api/v1/admin/citizens
func (h *Handler) Upsert(c *gin.Context) {
	var req transport.UpsertCitizenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.Upsert(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// GetByPhone retrieves a citizen.
// GET /api/v1/admin/citizens/:phone
func (h *Handler) GetByPhone(c *gin.Context) {
	phone := strings.TrimSpace(c.Param("phone"))
	if phone == "" {
		httpkit.Error(c, http.StatusBadRequest, msgPhoneRequired, nil)
		return
	}

	result, err := h.svc.GetByPhone(c.Request.Context(), phone)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// EligibleSchemes lists the schemes the stored profile qualifies for.
// GET /api/v1/admin/citizens/:phone/eligible-schemes
func (h *Handler) EligibleSchemes(c *gin.Context) {
	phone := strings.TrimSpace(c.Param("phone"))
	if phone == "" {
		httpkit.Error(c, http.StatusBadRequest, msgPhoneRequired, nil)
		return
	}

	result, err := h.svc.EligibleSchemes(c.Request.Context(), phone)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Delete removes a citizen.
// DELETE /api/v1/admin/citizens/:phone
func (h *Handler) Delete(c *gin.Context) {
	phone := strings.TrimSpace(c.Param("phone"))
	if phone == "" {
		httpkit.Error(c, http.StatusBadRequest, msgPhoneRequired, nil)
		return
	}

	if err := h.svc.Delete(c.Request.Context(), phone); httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"message": "citizen deleted"})
}
