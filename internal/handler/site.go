package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Coco120903/batinos-garden-resort/internal/model"
	"github.com/Coco120903/batinos-garden-resort/internal/repository"
	"github.com/Coco120903/batinos-garden-resort/internal/settings"
)

// SiteHandler serves the public site settings and the admin settings
// editor.
type SiteHandler struct {
	Settings *repository.SettingsRepo
	Gate     *settings.Gate
}

func NewSiteHandler(s *repository.SettingsRepo, g *settings.Gate) *SiteHandler {
	return &SiteHandler{Settings: s, Gate: g}
}

type sitePart struct {
	System model.SystemSettings `json:"system"`
	Brand  model.BrandSettings  `json:"brand"`
	Home   model.HomeSettings   `json:"home"`
}

// updateSiteReq carries a partial update; absent sections are left
// untouched.
type updateSiteReq struct {
	System *model.SystemSettings `json:"system"`
	Brand  *model.BrandSettings  `json:"brand"`
	Home   *model.HomeSettings   `json:"home"`
}

// Get returns the site settings, creating the default row on first
// read.  Public; the frontend uses it for branding and the
// maintenance banner.
func (h *SiteHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	s, err := h.Settings.GetOrCreate(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"site": sitePart{System: s.System, Brand: s.Brand, Home: s.Home}})
}

// Update applies a partial settings update and invalidates the cached
// booking flag so maintenance mode flips immediately.
func (h *SiteHandler) Update(c echo.Context) error {
	var req updateSiteReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	s, err := h.Settings.GetOrCreate(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if req.System != nil {
		s.System = *req.System
	}
	if req.Brand != nil {
		s.Brand = *req.Brand
	}
	if req.Home != nil {
		s.Home = *req.Home
	}
	if err := h.Settings.Update(ctx, &s); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	h.Gate.Invalidate(ctx)
	return c.JSON(http.StatusOK, echo.Map{"site": sitePart{System: s.System, Brand: s.Brand, Home: s.Home}})
}
