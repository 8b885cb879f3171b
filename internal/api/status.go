package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// StatusResponse is the system status payload.
type StatusResponse struct {
	Collections  []string `json:"collections"`
	PendingUndos int      `json:"pendingUndos"`
	DefaultRef   struct {
		CollectionID string `json:"collectionId"`
		SheetName    string `json:"sheetName"`
	} `json:"defaultRef"`
}

// GetStatus reports the known collections and pending undo payloads.
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	resp := StatusResponse{Collections: []string{}}

	if ids, err := h.sheets.List(); err == nil && ids != nil {
		resp.Collections = ids
	}
	if n, err := h.store.CountPending(); err == nil {
		resp.PendingUndos = n
	}
	resp.DefaultRef.CollectionID = h.cfg.Sheets.DefaultCollection
	resp.DefaultRef.SheetName = h.cfg.Sheets.DefaultSheet

	c.JSON(http.StatusOK, resp)
}
