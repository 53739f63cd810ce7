package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Coco120903/batinos-garden-resort/internal/booking"
	"github.com/Coco120903/batinos-garden-resort/internal/model"
	"github.com/Coco120903/batinos-garden-resort/internal/repository"
)

// ServiceHandler serves the public catalog and the admin service CRUD.
type ServiceHandler struct {
	Services *repository.ServiceRepo
}

func NewServiceHandler(s *repository.ServiceRepo) *ServiceHandler {
	return &ServiceHandler{Services: s}
}

// ----- DTOs -----

type optionPart struct {
	ID             uint64 `json:"id"`
	Code           string `json:"code"`
	Name           string `json:"name"`
	DurationHours  int    `json:"duration_hours"`
	StartTimeLabel string `json:"start_time_label"`
	BasePrice      int64  `json:"base_price"`
	IncludedPax    int    `json:"included_pax"`
	ExcessPaxFee   int64  `json:"excess_pax_fee"`
	IsActive       bool   `json:"is_active"`
}

type extraPricePart struct {
	Key   string `json:"key"`
	Price int64  `json:"price"`
}

type extraPart struct {
	ID      uint64           `json:"id"`
	Code    string           `json:"code"`
	Name    string           `json:"name"`
	Pricing []extraPricePart `json:"pricing"`
}

type servicePart struct {
	ID              uint64       `json:"id"`
	Name            string       `json:"name"`
	Category        string       `json:"category"`
	Description     string       `json:"description"`
	DurationMinutes int          `json:"duration_minutes"`
	Price           int64        `json:"price"`
	Images          []string     `json:"images"`
	Options         []optionPart `json:"options"`
	Extras          []extraPart  `json:"extras"`
	IsActive        bool         `json:"is_active"`
}

func toServicePart(s *model.Service) servicePart {
	opts := make([]optionPart, 0, len(s.Options))
	for _, o := range s.Options {
		opts = append(opts, optionPart{
			ID: o.ID, Code: o.Code, Name: o.Name,
			DurationHours: o.DurationHours, StartTimeLabel: o.StartTimeLabel,
			BasePrice: o.BasePrice, IncludedPax: o.IncludedPax,
			ExcessPaxFee: o.ExcessPaxFee, IsActive: o.IsActive,
		})
	}
	extras := make([]extraPart, 0, len(s.Extras))
	for _, e := range s.Extras {
		prices := make([]extraPricePart, 0, len(e.Pricing))
		for _, p := range e.Pricing {
			prices = append(prices, extraPricePart{Key: p.Key, Price: p.Price})
		}
		extras = append(extras, extraPart{ID: e.ID, Code: e.Code, Name: e.Name, Pricing: prices})
	}
	return servicePart{
		ID: s.ID, Name: s.Name, Category: s.Category,
		Description: s.Description, DurationMinutes: s.DurationMinutes,
		Price: s.Price, Images: s.Images,
		Options: opts, Extras: extras, IsActive: s.IsActive,
	}
}

type serviceReq struct {
	Name            string   `json:"name"`
	Category        string   `json:"category"`
	Description     string   `json:"description"`
	DurationMinutes int      `json:"duration_minutes"`
	Price           int64    `json:"price"`
	Images          []string `json:"images"`
	IsActive        *bool    `json:"is_active"`
}

// List returns the active catalog, optionally filtered by category.
func (h *ServiceHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Services.ListActive(ctx, c.QueryParam("category"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]servicePart, 0, len(list))
	for i := range list {
		out = append(out, toServicePart(&list[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"services": out})
}

// Get returns one service with options and extras.
func (h *ServiceHandler) Get(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid service id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	s, err := h.Services.ServiceByID(ctx, id)
	if err != nil {
		if errors.Is(err, booking.ErrServiceNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "service not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"service": toServicePart(s)})
}

// Create adds a service to the catalog (admin only).
func (h *ServiceHandler) Create(c echo.Context) error {
	var req serviceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" || req.Category == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name/category required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	s := model.Service{
		Name: req.Name, Category: req.Category,
		Description: req.Description, DurationMinutes: req.DurationMinutes,
		Price: req.Price, Images: req.Images,
		IsActive: true,
	}
	if req.IsActive != nil {
		s.IsActive = *req.IsActive
	}
	if _, err := h.Services.Create(ctx, &s); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "service already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create service failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"service": toServicePart(&s)})
}

// Update patches the mutable fields of a service (admin only).
func (h *ServiceHandler) Update(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid service id"})
	}
	var req serviceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	s, err := h.Services.ServiceByID(ctx, id)
	if err != nil {
		if errors.Is(err, booking.ErrServiceNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "service not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if req.Name != "" {
		s.Name = strings.TrimSpace(req.Name)
	}
	if req.Category != "" {
		s.Category = req.Category
	}
	if req.Description != "" {
		s.Description = req.Description
	}
	if req.DurationMinutes != 0 {
		s.DurationMinutes = req.DurationMinutes
	}
	if req.Price != 0 {
		s.Price = req.Price
	}
	if req.Images != nil {
		s.Images = req.Images
	}
	if req.IsActive != nil {
		s.IsActive = *req.IsActive
	}
	if err := h.Services.Update(ctx, s); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "service already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update service failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"service": toServicePart(s)})
}
