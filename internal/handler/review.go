package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Coco120903/batinos-garden-resort/internal/middleware"
	"github.com/Coco120903/batinos-garden-resort/internal/model"
	"github.com/Coco120903/batinos-garden-resort/internal/repository"
)

// ReviewHandler serves public review listing, submission and admin
// moderation.
type ReviewHandler struct {
	Reviews *repository.ReviewRepo
	Users   *repository.UserRepo
}

func NewReviewHandler(r *repository.ReviewRepo, u *repository.UserRepo) *ReviewHandler {
	return &ReviewHandler{Reviews: r, Users: u}
}

type createReviewReq struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

type reviewPart struct {
	ID        uint64    `json:"id"`
	Name      string    `json:"name"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`

	// Moderation fields, admin listing only.
	IsApproved *bool  `json:"is_approved,omitempty"`
	UserEmail  string `json:"user_email,omitempty"`
}

// ListApproved returns publicly visible reviews, capped at 30.
func (h *ReviewHandler) ListApproved(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Reviews.ListApproved(ctx, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]reviewPart, 0, len(list))
	for _, rv := range list {
		out = append(out, reviewPart{ID: rv.ID, Name: rv.Name, Rating: rv.Rating,
			Comment: rv.Comment, CreatedAt: rv.CreatedAt})
	}
	return c.JSON(http.StatusOK, echo.Map{"reviews": out})
}

// Create submits a review.  It lands unapproved and only shows after
// moderation.
func (h *ReviewHandler) Create(c echo.Context) error {
	var req createReviewReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Rating < 1 || req.Rating > 5 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rating must be 1..5"})
	}
	req.Comment = strings.TrimSpace(req.Comment)
	if req.Comment == "" || len(req.Comment) > model.MaxReviewComment {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "comment required, at most 1200 characters"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, middleware.UserID(c))
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	rv := model.Review{UserID: u.ID, Name: u.Name, Rating: req.Rating, Comment: req.Comment}
	if _, err := h.Reviews.Create(ctx, &rv); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create review failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"review":  reviewPart{ID: rv.ID, Name: rv.Name, Rating: rv.Rating, Comment: rv.Comment, CreatedAt: rv.CreatedAt},
		"message": "review submitted for moderation",
	})
}

// ListAll returns every review for the admin moderation page.
func (h *ReviewHandler) ListAll(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Reviews.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]reviewPart, 0, len(list))
	for _, rv := range list {
		approved := rv.IsApproved
		out = append(out, reviewPart{ID: rv.ID, Name: rv.Name, Rating: rv.Rating,
			Comment: rv.Comment, CreatedAt: rv.CreatedAt,
			IsApproved: &approved, UserEmail: rv.UserEmail})
	}
	return c.JSON(http.StatusOK, echo.Map{"reviews": out})
}

// Approve makes a review publicly visible.
func (h *ReviewHandler) Approve(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid review id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Reviews.Approve(ctx, id, middleware.UserID(c)); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "review not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "approve failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "review approved"})
}

// Reject deletes a review.
func (h *ReviewHandler) Reject(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid review id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Reviews.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "review not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "reject failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "review rejected"})
}
