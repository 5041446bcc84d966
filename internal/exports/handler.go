package exports

import (
	"net/http"

	"saarthi_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Handler handles export requests.
type Handler struct {
	svc *Service
}

// NewHandler creates a new export handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// ExportCSV streams an entity table as CSV.
// GET /api/v1/admin/exports/:entity
func (h *Handler) ExportCSV(c *gin.Context) {
	entity, err := Entity(c.Param("entity"))
	if httpkit.HandleError(c, err) {
		return
	}

	c.Header("Content-Type", csvContentType)
	c.Header("Content-Disposition", "attachment; filename="+h.svc.FileName(entity))
	c.Status(http.StatusOK)

	// Headers are already sent once rows stream, so failures can only be logged.
	if _, err := h.svc.WriteCSV(c.Request.Context(), entity, c.Writer); err != nil {
		h.svc.log.Error("csv export failed", "entity", entity, "error", err)
	}
}

// Archive uploads an entity CSV to object storage.
// POST /api/v1/admin/exports/:entity/archive
func (h *Handler) Archive(c *gin.Context) {
	entity, err := Entity(c.Param("entity"))
	if httpkit.HandleError(c, err) {
		return
	}

	result, err := h.svc.Archive(c.Request.Context(), entity)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}

// List returns the exportable entities.
// GET /api/v1/admin/exports
func (h *Handler) List(c *gin.Context) {
	httpkit.OK(c, gin.H{"entities": Entities()})
}
