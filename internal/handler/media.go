package handler

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Coco120903/batinos-garden-resort/internal/middleware"
	"github.com/Coco120903/batinos-garden-resort/internal/model"
	"github.com/Coco120903/batinos-garden-resort/internal/repository"
)

// MediaHandler manages the admin image library.  Records reference
// externally hosted files; nothing is uploaded through this API.
type MediaHandler struct {
	Media *repository.MediaRepo
}

func NewMediaHandler(m *repository.MediaRepo) *MediaHandler {
	return &MediaHandler{Media: m}
}

type createMediaReq struct {
	URL   string   `json:"url"`
	Title string   `json:"title"`
	Tags  []string `json:"tags"`
}

type mediaPart struct {
	ID        uint64    `json:"id"`
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"created_at"`
}

// List returns all registered assets.
func (h *MediaHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Media.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]mediaPart, 0, len(list))
	for _, a := range list {
		out = append(out, mediaPart{ID: a.ID, URL: a.URL, Title: a.Title, Tags: a.Tags, CreatedAt: a.CreatedAt})
	}
	return c.JSON(http.StatusOK, echo.Map{"media": out})
}

// Create registers an asset URL.
func (h *MediaHandler) Create(c echo.Context) error {
	var req createMediaReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.URL = strings.TrimSpace(req.URL)
	if u, err := url.Parse(req.URL); err != nil || u.Scheme == "" || u.Host == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "valid absolute url required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	a := model.MediaAsset{URL: req.URL, Title: strings.TrimSpace(req.Title),
		Tags: req.Tags, CreatedBy: middleware.UserID(c)}
	if _, err := h.Media.Create(ctx, &a); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "url already registered"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"media": mediaPart{ID: a.ID, URL: a.URL, Title: a.Title, Tags: a.Tags, CreatedAt: a.CreatedAt}})
}

// Delete removes an asset reference.
func (h *MediaHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid media id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Media.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "media not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "media deleted"})
}
