package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MalinOfficer/Gsheet-NEW-sub000/internal/match"
	"github.com/MalinOfficer/Gsheet-NEW-sub000/internal/merge"
	"github.com/MalinOfficer/Gsheet-NEW-sub000/internal/table"
)

// MergeRequest carries the two datasets and the elimination mode.
type MergeRequest struct {
	Source table.Dataset `json:"source"`
	Target table.Dataset `json:"target"`
	Mode   string        `json:"mode"`
}

// Merge joins the source dataset into the target by normalized name.
// POST /api/merge
func (h *Handler) Merge(c *gin.Context) {
	var req MergeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	result, err := merge.Merge(req.Source, req.Target, req.Mode)
	if err != nil {
		fail(c, http.StatusBadRequest, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// RecommendRequest carries the leftover pools and their name columns.
type RecommendRequest struct {
	Source           []table.Row `json:"source"`
	Target           []table.Row `json:"target"`
	SourceNameHeader string      `json:"sourceNameHeader"`
	TargetNameHeader string      `json:"targetNameHeader"`
}

// Recommend ranks candidate pairings between the leftover pools.
// POST /api/merge/recommend
func (h *Handler) Recommend(c *gin.Context) {
	var req RecommendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	pairs := match.Recommend(req.Source, req.Target, req.SourceNameHeader, req.TargetNameHeader)
	c.JSON(http.StatusOK, gin.H{"pairs": pairs})
}

// ConfirmRequest selects one row from each pool by index.
type ConfirmRequest struct {
	Source    []table.Row `json:"source"`
	Target    []table.Row `json:"target"`
	SourceIdx int         `json:"sourceIdx"`
	TargetIdx int         `json:"targetIdx"`
}

// Confirm applies one manual or recommended pairing, draining both pools.
// POST /api/merge/confirm
func (h *Handler) Confirm(c *gin.Context) {
	var req ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	merged, source, target, ok := match.Confirm(req.Source, req.Target, req.SourceIdx, req.TargetIdx)
	if !ok {
		fail(c, http.StatusBadRequest, fmt.Errorf("selection out of range"))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"merged": merged,
		"source": source,
		"target": target,
	})
}
