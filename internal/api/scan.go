package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MalinOfficer/Gsheet-NEW-sub000/internal/parser"
	"github.com/MalinOfficer/Gsheet-NEW-sub000/internal/scan"
)

// Scan parses the uploaded roster files and runs the duplicate /
// empty-field scan across all of them.
// POST /api/scan  (multipart, field "files")
func (h *Handler) Scan(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		fail(c, http.StatusBadRequest, fmt.Errorf("invalid form data: %w", err))
		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		files = form.File["file"]
	}
	if len(files) == 0 {
		fail(c, http.StatusBadRequest, fmt.Errorf("no uploaded files"))
		return
	}

	inputs := make([]scan.Input, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			fail(c, http.StatusBadRequest, fmt.Errorf("open upload %q: %w", fh.Filename, err))
			return
		}
		parsed, err := parser.Parse(f, fh.Filename)
		f.Close()
		if err != nil {
			fail(c, http.StatusBadRequest, fmt.Errorf("parse %q: %w", fh.Filename, err))
			return
		}
		inputs = append(inputs, parsed.Input)
	}

	c.JSON(http.StatusOK, scan.Scan(inputs))
}
