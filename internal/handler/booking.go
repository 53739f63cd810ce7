package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Coco120903/batinos-garden-resort/internal/booking"
	"github.com/Coco120903/batinos-garden-resort/internal/middleware"
	"github.com/Coco120903/batinos-garden-resort/internal/model"
	"github.com/Coco120903/batinos-garden-resort/internal/queue"
	"github.com/Coco120903/batinos-garden-resort/internal/repository"
	"github.com/Coco120903/batinos-garden-resort/internal/service"
)

// BookingHandler serves the guest-facing booking endpoints.
type BookingHandler struct {
	Engine   *booking.Engine
	Bookings *repository.BookingRepo
	Events   *service.EventPublisher
}

func NewBookingHandler(e *booking.Engine, b *repository.BookingRepo, ev *service.EventPublisher) *BookingHandler {
	return &BookingHandler{Engine: e, Bookings: b, Events: ev}
}

// ----- DTOs -----

type extraSelectionReq struct {
	Code     string `json:"code"`
	Key      string `json:"key"`
	Quantity int64  `json:"quantity"`
}

type createBookingReq struct {
	ServiceID      uint64              `json:"service_id"`
	OptionID       uint64              `json:"option_id"`
	StartAt        time.Time           `json:"start_at"`
	EndAt          time.Time           `json:"end_at"`
	PaxCount       int                 `json:"pax_count"`
	EventType      string              `json:"event_type"`
	EventTypeOther string              `json:"event_type_other"`
	Notes          string              `json:"notes"`
	Extras         []extraSelectionReq `json:"extras"`
}

type bookingExtraPart struct {
	Code      string `json:"code"`
	Key       string `json:"key"`
	Quantity  int64  `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
	LineTotal int64  `json:"line_total"`
}

type bookingPart struct {
	ID                 uint64             `json:"id"`
	UserID             uint64             `json:"user_id"`
	UserName           string             `json:"user_name,omitempty"`
	UserEmail          string             `json:"user_email,omitempty"`
	ServiceID          uint64             `json:"service_id"`
	ServiceName        string             `json:"service_name,omitempty"`
	OptionID           uint64             `json:"option_id,omitempty"`
	StartAt            time.Time          `json:"start_at"`
	EndAt              time.Time          `json:"end_at"`
	PaxCount           int                `json:"pax_count"`
	EventType          string             `json:"event_type"`
	EventTypeOther     string             `json:"event_type_other,omitempty"`
	Notes              string             `json:"notes"`
	Status             string             `json:"status"`
	Pricing            model.Pricing      `json:"pricing"`
	Extras             []bookingExtraPart `json:"extras"`
	ApprovedBy         uint64             `json:"approved_by,omitempty"`
	CancelledBy        uint64             `json:"cancelled_by,omitempty"`
	CancellationReason string             `json:"cancellation_reason,omitempty"`
	CreatedAt          time.Time          `json:"created_at"`
}

func toBookingPart(b *model.Booking) bookingPart {
	extras := make([]bookingExtraPart, 0, len(b.Extras))
	for _, e := range b.Extras {
		extras = append(extras, bookingExtraPart{
			Code: e.ExtraCode, Key: e.PricingKey, Quantity: e.Quantity,
			UnitPrice: e.UnitPrice, LineTotal: e.LineTotal,
		})
	}
	return bookingPart{
		ID: b.ID, UserID: b.UserID, UserName: b.UserName, UserEmail: b.UserEmail,
		ServiceID: b.ServiceID, ServiceName: b.ServiceName, OptionID: b.OptionID,
		StartAt: b.StartAt, EndAt: b.EndAt, PaxCount: b.PaxCount,
		EventType: b.EventType, EventTypeOther: b.EventTypeOther, Notes: b.Notes,
		Status: b.Status, Pricing: b.Pricing, Extras: extras,
		ApprovedBy: b.ApprovedBy, CancelledBy: b.CancelledBy,
		CancellationReason: b.CancellationReason, CreatedAt: b.CreatedAt,
	}
}

// bookingError maps admission and lifecycle errors onto HTTP responses.
func bookingError(c echo.Context, err error) error {
	var conflict *booking.ConflictError
	var maint *booking.MaintenanceError
	var state *booking.InvalidStateError
	switch {
	case errors.As(err, &conflict):
		return c.JSON(http.StatusConflict, echo.Map{
			"error":    "time slot unavailable",
			"conflict": conflict,
		})
	case errors.As(err, &maint):
		return c.JSON(http.StatusServiceUnavailable, echo.Map{
			"code":    "MAINTENANCE_MODE",
			"message": maint.Message,
		})
	case errors.As(err, &state):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": state.Error()})
	case errors.Is(err, booking.ErrValidation):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, booking.ErrServiceNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "service not found"})
	case errors.Is(err, booking.ErrOptionNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "option not found"})
	case errors.Is(err, booking.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "booking operation failed"})
}

// publishBookingEvent sends a booking event without blocking the
// response.  Publish failures are logged and otherwise ignored.
func publishBookingEvent(events *service.EventPublisher, kind string, b *model.Booking) {
	ev := service.NewBookingEvent(kind, b)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := events.Publish(ctx, ev); err != nil {
			log.Printf("booking: publish %s event for %d failed: %v", kind, b.ID, err)
		}
	}()
}

// Create submits a new booking request through the admission engine.
func (h *BookingHandler) Create(c echo.Context) error {
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	extras := make([]booking.ExtraSelection, 0, len(req.Extras))
	for _, e := range req.Extras {
		extras = append(extras, booking.ExtraSelection{
			ExtraCode: e.Code, PricingKey: e.Key, Quantity: e.Quantity,
		})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	b, err := h.Engine.Submit(ctx, booking.SubmitInput{
		UserID:         middleware.UserID(c),
		ServiceID:      req.ServiceID,
		OptionID:       req.OptionID,
		StartAt:        req.StartAt,
		EndAt:          req.EndAt,
		PaxCount:       req.PaxCount,
		EventType:      req.EventType,
		EventTypeOther: req.EventTypeOther,
		Notes:          req.Notes,
		Extras:         extras,
	})
	if err != nil {
		return bookingError(c, err)
	}
	publishBookingEvent(h.Events, queue.KindCreated, b)
	return c.JSON(http.StatusCreated, echo.Map{"booking": toBookingPart(b)})
}

// Mine lists the authenticated user's bookings, newest first.
func (h *BookingHandler) Mine(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Bookings.ListByUser(ctx, middleware.UserID(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]bookingPart, 0, len(list))
	for i := range list {
		out = append(out, toBookingPart(&list[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": out})
}
