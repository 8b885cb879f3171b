// Package api exposes the reconciliation operations as a JSON API.
package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MalinOfficer/Gsheet-NEW-sub000/internal/config"
	"github.com/MalinOfficer/Gsheet-NEW-sub000/internal/importer"
	"github.com/MalinOfficer/Gsheet-NEW-sub000/internal/store"
	"github.com/MalinOfficer/Gsheet-NEW-sub000/internal/workbook"
)

// Handler wires the API routes to the core packages.
type Handler struct {
	store       *store.Store
	sheets      *workbook.Store
	coordinator *importer.Coordinator
	cfg         *config.AppConfig
}

// NewHandler creates the API handler.
func NewHandler(st *store.Store, sheets *workbook.Store, cfg *config.AppConfig) *Handler {
	return &Handler{
		store:       st,
		sheets:      sheets,
		coordinator: importer.NewCoordinator(sheets, st),
		cfg:         cfg,
	}
}

// RegisterRoutes registers the API routes.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// System status
	router.GET("/status", h.GetStatus)

	// Duplicate / empty-field scan over uploaded files
	router.POST("/scan", h.Scan)

	// Dataset merge
	router.POST("/merge", h.Merge)
	router.POST("/merge/recommend", h.Recommend)
	router.POST("/merge/confirm", h.Confirm)

	// Sheet sync
	router.POST("/sheet/preview", h.PreviewUpdate)
	router.POST("/sheet/update", h.ApplyUpdate)
	router.POST("/sheet/import", h.ImportRows)
	router.POST("/sheet/undo", h.Undo)
	router.GET("/sheet/log", h.SyncLog)
}

// fail writes the {error} result shape shared by every endpoint.
func fail(c *gin.Context, code int, err error) {
	c.JSON(code, gin.H{"error": err.Error()})
}

// failStatus maps known error kinds to HTTP codes.
func failStatus(c *gin.Context, err error) {
	switch {
	case errors.Is(err, store.ErrNoPayload) || errors.Is(err, workbook.ErrUnknownCollection):
		fail(c, http.StatusNotFound, err)
	case errors.Is(err, store.ErrPayloadConsumed):
		fail(c, http.StatusConflict, err)
	case errors.Is(err, workbook.ErrBadCollectionID) || errors.Is(err, importer.ErrEmptyDataset):
		fail(c, http.StatusBadRequest, err)
	default:
		fail(c, http.StatusBadGateway, err)
	}
}
