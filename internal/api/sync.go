package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/MalinOfficer/Gsheet-NEW-sub000/internal/sheet"
	"github.com/MalinOfficer/Gsheet-NEW-sub000/internal/table"
)

// SyncRequest carries candidate rows and the target sheet reference.
type SyncRequest struct {
	Dataset table.Dataset `json:"dataset"`
	Ref     sheet.Ref     `json:"ref"`
}

func (h *Handler) resolveRef(ref sheet.Ref) sheet.Ref {
	if ref.CollectionID == "" {
		ref.CollectionID = h.cfg.Sheets.DefaultCollection
	}
	if ref.SheetName == "" {
		ref.SheetName = h.cfg.Sheets.DefaultSheet
	}
	return ref
}

// PreviewUpdate computes the change set without mutating the sheet.
// POST /api/sheet/preview
func (h *Handler) PreviewUpdate(c *gin.Context) {
	var req SyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	result, err := h.coordinator.PreviewUpdate(c.Request.Context(), req.Dataset, h.resolveRef(req.Ref))
	if err != nil {
		failStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ApplyUpdate applies the change set as one batched mutation.
// POST /api/sheet/update
func (h *Handler) ApplyUpdate(c *gin.Context) {
	var req SyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	result, err := h.coordinator.ApplyUpdate(c.Request.Context(), req.Dataset, h.resolveRef(req.Ref))
	if err != nil {
		failStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// ImportRows appends new ticket rows to the sheet.
// POST /api/sheet/import
func (h *Handler) ImportRows(c *gin.Context) {
	var req SyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	result, err := h.coordinator.ImportRows(c.Request.Context(), req.Dataset, h.resolveRef(req.Ref))
	if err != nil {
		failStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// UndoRequest names the payload to consume.
type UndoRequest struct {
	UndoID string    `json:"undoId"`
	Ref    sheet.Ref `json:"ref"`
}

// Undo reverses one recorded operation, exactly once.
// POST /api/sheet/undo
func (h *Handler) Undo(c *gin.Context) {
	var req UndoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if req.UndoID == "" {
		fail(c, http.StatusBadRequest, fmt.Errorf("missing undoId"))
		return
	}

	if err := h.coordinator.Undo(c.Request.Context(), req.UndoID, h.resolveRef(req.Ref)); err != nil {
		failStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// SyncLog returns the most recent audit entries.
// GET /api/sheet/log?limit=50
func (h *Handler) SyncLog(c *gin.Context) {
	limit := 50
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	entries, err := h.store.RecentLog(limit)
	if err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}
