package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/chooseyourcart/storefront/internal/store"
)

type AnnouncementHTTP struct {
	Announcement *store.Announcement
}

func (h *AnnouncementHTTP) Get(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]bool{
		"show": h.Announcement.ShouldShow(c.Request().Context()),
	})
}

func (h *AnnouncementHTTP) MarkSeen(c echo.Context) error {
	if err := h.Announcement.MarkSeen(c.Request().Context()); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "internal error"})
	}
	return c.NoContent(http.StatusNoContent)
}
