package v1

import (
	"net/http"

	"github.com/erikmagkekse/dshare/exports"

	"github.com/labstack/echo/v5"
)

type Handler struct {
	Server *exports.Server
}

func (h *Handler) ListExports(c *echo.Context) error {
	entries, err := h.Server.Entries()
	if err != nil {
		return ShareError(c, err)
	}
	return c.JSON(http.StatusOK, ExportListResponse{Exports: entries, Total: len(entries)})
}

func (h *Handler) ListActive(c *echo.Context) error {
	active, err := h.Server.Exportfs().Active(c.Request().Context())
	if err != nil {
		return ShareError(c, err)
	}
	if active == nil {
		active = []ActiveExport{}
	}
	return c.JSON(http.StatusOK, ActiveListResponse{Exports: active, Total: len(active)})
}

func (h *Handler) CreateExport(c *echo.Context) error {
	var req ExportRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body", Code: "BAD_REQUEST"})
	}

	if err := h.Server.AddExport(c.Request().Context(), req.Path, req.Client, req.Options); err != nil {
		return ShareError(c, err)
	}

	return h.ListExports(c)
}

func (h *Handler) DeleteExport(c *echo.Context) error {
	var req UnexportRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body", Code: "BAD_REQUEST"})
	}

	if err := h.Server.RemoveExport(c.Request().Context(), req.Path, req.Client); err != nil {
		return ShareError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
