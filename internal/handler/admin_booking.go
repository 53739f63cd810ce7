package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Coco120903/batinos-garden-resort/internal/booking"
	"github.com/Coco120903/batinos-garden-resort/internal/middleware"
	"github.com/Coco120903/batinos-garden-resort/internal/queue"
	"github.com/Coco120903/batinos-garden-resort/internal/repository"
	"github.com/Coco120903/batinos-garden-resort/internal/service"
)

// AdminBookingHandler serves the admin booking console: listing,
// approving, rescheduling, cancelling and completing bookings.
type AdminBookingHandler struct {
	Lifecycle *booking.Lifecycle
	Bookings  *repository.BookingRepo
	Events    *service.EventPublisher
}

func NewAdminBookingHandler(l *booking.Lifecycle, b *repository.BookingRepo, ev *service.EventPublisher) *AdminBookingHandler {
	return &AdminBookingHandler{Lifecycle: l, Bookings: b, Events: ev}
}

type rescheduleReq struct {
	StartAt time.Time `json:"start_at"`
	EndAt   time.Time `json:"end_at"`
	Notes   string    `json:"notes"`
}

type cancelReq struct {
	Reason string `json:"reason"`
}

func bookingIDParam(c echo.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	return id, err == nil && id != 0
}

// List returns a filtered, paginated page of bookings.
func (h *AdminBookingHandler) List(c echo.Context) error {
	f := repository.ListFilter{Status: c.QueryParam("status")}
	if v := c.QueryParam("service_id"); v != "" {
		f.ServiceID, _ = strconv.ParseUint(v, 10, 64)
	}
	if v := c.QueryParam("from"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			f.From = t
		}
	}
	if v := c.QueryParam("to"); v != "" {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			f.To = t
		}
	}
	f.Page, _ = strconv.Atoi(c.QueryParam("page"))
	f.PerPage, _ = strconv.Atoi(c.QueryParam("per_page"))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, total, err := h.Bookings.List(ctx, f)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]bookingPart, 0, len(list))
	for i := range list {
		out = append(out, toBookingPart(&list[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": out, "total": total})
}

// Get returns one booking by id.
func (h *AdminBookingHandler) Get(c echo.Context) error {
	id, ok := bookingIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.Bookings.GetByID(ctx, id)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"booking": toBookingPart(b)})
}

// Approve moves a pending booking to Approved.
func (h *AdminBookingHandler) Approve(c echo.Context) error {
	id, ok := bookingIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	b, err := h.Lifecycle.Approve(ctx, id, middleware.UserID(c))
	if err != nil {
		return bookingError(c, err)
	}
	publishBookingEvent(h.Events, queue.KindApproved, b)
	return c.JSON(http.StatusOK, echo.Map{"booking": toBookingPart(b)})
}

// Reschedule moves a booking to a new window after re-running the
// conflict check against all other active bookings.
func (h *AdminBookingHandler) Reschedule(c echo.Context) error {
	id, ok := bookingIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req rescheduleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	b, err := h.Lifecycle.Reschedule(ctx, id, req.StartAt, req.EndAt, req.Notes)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"booking": toBookingPart(b)})
}

// Cancel cancels a pending or approved booking with a reason.
func (h *AdminBookingHandler) Cancel(c echo.Context) error {
	id, ok := bookingIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req cancelReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	b, err := h.Lifecycle.Cancel(ctx, id, middleware.UserID(c), req.Reason)
	if err != nil {
		return bookingError(c, err)
	}
	publishBookingEvent(h.Events, queue.KindCancelled, b)
	return c.JSON(http.StatusOK, echo.Map{"booking": toBookingPart(b)})
}

// Complete marks an approved booking as completed.
func (h *AdminBookingHandler) Complete(c echo.Context) error {
	id, ok := bookingIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	b, err := h.Lifecycle.Complete(ctx, id)
	if err != nil {
		return bookingError(c, err)
	}
	publishBookingEvent(h.Events, queue.KindCompleted, b)
	return c.JSON(http.StatusOK, echo.Map{"booking": toBookingPart(b)})
}
