package templates

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"contract-scanner/internal/shared/metrics"
	"contract-scanner/internal/shared/server/middleware"
	"contract-scanner/internal/shared/server/respond"
	"contract-scanner/internal/shared/storage/object"
	"contract-scanner/internal/shared/telemetry"
	"contract-scanner/internal/shared/util"
)

type Handler struct {
	Catalog *Catalog
	Store   object.ObjectStore
}

func NewHandler(cat *Catalog, store object.ObjectStore) *Handler {
	return &Handler{Catalog: cat, Store: store}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.list)
	rg.GET("/categories", h.categories)
	rg.GET("/:id", h.get)
	rg.GET("/:id/download", h.download)
}

func (h *Handler) list(c *gin.Context) {
	items := h.Catalog.Search(c.Query("q"), c.Query("category"))
	respond.OK(c, gin.H{"templates": items, "count": len(items)})
}

func (h *Handler) categories(c *gin.Context) {
	respond.OK(c, gin.H{"categories": Categories})
}

func (h *Handler) get(c *gin.Context) {
	entry, err := h.Catalog.Get(c.Param("id"))
	if err != nil {
		respond.Error(c, http.StatusNotFound, "not_found", "template not found", nil)
		return
	}
	respond.OK(c, gin.H{"template": entry})
}

func (h *Handler) download(c *gin.Context) {
	entry, err := h.Catalog.Get(c.Param("id"))
	if err != nil {
		respond.Error(c, http.StatusNotFound, "not_found", "template not found", nil)
		return
	}
	name, err := util.SanitizeFileName(entry.FileName)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "invalid template file name", nil)
		return
	}

	reader, err := h.Store.Open(c.Request.Context(), entry.FilePath)
	if err != nil {
		if errors.Is(err, object.ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "template file not available", nil)
			return
		}
		telemetry.Error("templates.open_failed", map[string]any{
			"request_id": middleware.RequestIDFromContext(c),
			"id":         entry.ID,
			"error":      err,
		})
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load template", nil)
		return
	}
	defer reader.Close()

	h.Catalog.RecordDownload(entry.ID)
	metrics.IncTemplateDownload()

	if err := respond.Attachment(c, name, ContentType(entry.FileType), reader); err != nil {
		telemetry.Warn("templates.download_interrupted", map[string]any{
			"request_id": middleware.RequestIDFromContext(c),
			"id":         entry.ID,
			"error":      err.Error(),
		})
	}
}
