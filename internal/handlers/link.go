package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/maktaba-search-api/internal/models"
	"github.com/maktaba-search-api/internal/references"
)

// LinkHandler rewrites verse and catalog citations in footnote text
type LinkHandler struct {
	linker *references.Linker
}

// NewLinkHandler creates a new link handler
func NewLinkHandler(linker *references.Linker) *LinkHandler {
	return &LinkHandler{linker: linker}
}

// Link handles POST /link
func (h *LinkHandler) Link(c echo.Context) error {
	var req models.LinkRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	html, refs := h.linker.LinkAll(req.Text)
	linked := make([]models.LinkedReference, 0, len(refs))
	for _, r := range refs {
		linked = append(linked, models.LinkedReference{
			Kind:        r.Kind,
			UnitID:      r.UnitID,
			SubUnit:     r.SubUnit,
			Unit:        r.Unit,
			UnitEnd:     r.UnitEnd,
			DisplayText: r.DisplayText,
			TargetURL:   r.TargetURL,
		})
	}

	return c.JSON(http.StatusOK, models.LinkResponse{HTML: html, References: linked})
}

// RegisterRoutes registers link routes
func (h *LinkHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/link", h.Link)
}
