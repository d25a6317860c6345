package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dkarpov/event-booking/internal/model"
	"github.com/dkarpov/event-booking/internal/queue"
	"github.com/dkarpov/event-booking/internal/repository"
	"github.com/dkarpov/event-booking/internal/service"
)

// BookingHandler exposes the booking lifecycle over HTTP.  All state
// transitions go through the BookingService so the seat ledger and the
// booking rows always move together; the handler only translates
// errors and publishes broker events after commit.
type BookingHandler struct {
	Svc      *service.BookingService
	Bookings *repository.BookingRepo
	Events   *repository.EventRepo
}

func NewBookingHandler(svc *service.BookingService, bookings *repository.BookingRepo, events *repository.EventRepo) *BookingHandler {
	if svc == nil {
		panic("nil service passed to NewBookingHandler")
	}
	return &BookingHandler{Svc: svc, Bookings: bookings, Events: events}
}

type createBookingReq struct {
	EventID      uint64 `json:"event_id"`
	TicketsCount int64  `json:"tickets_count"`
}

type updateBookingReq struct {
	TicketsCount int64  `json:"tickets_count"`
	Status       string `json:"status"`
}

// bookingErrStatus maps service and repository errors onto HTTP
// statuses.  Capacity and validation failures are the client's fault;
// scoped lookups that miss read as not found whether the row is absent
// or owned by someone else.
func bookingErrStatus(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, repository.ErrInsufficientSeats):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrPermission):
		return http.StatusForbidden, "admin role required"
	case errors.Is(err, repository.ErrEventNotFound):
		return http.StatusNotFound, "event not found"
	case errors.Is(err, repository.ErrBookingNotFound):
		return http.StatusNotFound, "booking not found"
	}
	return http.StatusInternalServerError, "internal error"
}

// Create handles POST /api/bookings.
func (h *BookingHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.EventID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "event_id is required"})
	}

	booking, err := h.Svc.CreateBooking(c.Request().Context(), userID, req.EventID, req.TicketsCount)
	if err != nil {
		status, msg := bookingErrStatus(err)
		return c.JSON(status, echo.Map{"error": msg})
	}

	// Fire-and-forget: a broker outage must not fail a committed
	// booking.
	go func(b model.Booking) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := queue.PublishBookingCreated(ctx, queue.BookingCreatedEvent{
			BookingID:       b.ID,
			UserID:          b.UserID,
			EventID:         b.EventID,
			EventTitle:      b.EventTitle,
			TicketsCount:    b.TicketsCount,
			TotalPriceCents: b.TotalPriceCents,
			CreatedAt:       b.BookingDate.UTC().Format(time.RFC3339),
		}); err != nil {
			log.Printf("booking-handler: publish booking.created failed: %v", err)
		}
	}(*booking)

	return c.JSON(http.StatusCreated, booking)
}

// List handles GET /api/bookings.  Clients see their own bookings;
// admins see everything.
func (h *BookingHandler) List(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Svc.ListBookings(c.Request().Context(), userID, currentRole(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load bookings failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Get handles GET /api/bookings/:id.
func (h *BookingHandler) Get(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	booking, err := h.Svc.GetBooking(c.Request().Context(), userID, currentRole(c), id)
	if err != nil {
		status, msg := bookingErrStatus(err)
		return c.JSON(status, echo.Map{"error": msg})
	}
	return c.JSON(http.StatusOK, booking)
}

// Update handles PUT /api/bookings/:id.  Admin only; the role check
// lives in the service so it holds even if the route is wired without
// the role middleware.
func (h *BookingHandler) Update(c echo.Context) error {
	if _, err := getUserID(c); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	var req updateBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	booking, err := h.Svc.UpdateBooking(c.Request().Context(), currentRole(c), id, req.TicketsCount, req.Status)
	if err != nil {
		status, msg := bookingErrStatus(err)
		return c.JSON(status, echo.Map{"error": msg})
	}
	return c.JSON(http.StatusOK, booking)
}

// Cancel handles DELETE /api/bookings/:id.  The booking row is removed
// and its seats return to the event in the same transaction.
func (h *BookingHandler) Cancel(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	cancelled, err := h.Svc.CancelBooking(c.Request().Context(), userID, currentRole(c), id)
	if err != nil {
		status, msg := bookingErrStatus(err)
		return c.JSON(status, echo.Map{"error": msg})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message":        "booking cancelled",
		"seats_released": cancelled.TicketsCount,
	})
}

// SendTicket handles POST /api/bookings/:id/send-ticket.  It marks the
// booking's ticket as dispatched and hands the email off to the
// broker; the consumer records it since real delivery is out of scope.
// Re-sending an already-sent ticket is allowed.
func (h *BookingHandler) SendTicket(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	ctx := c.Request().Context()
	booking, err := h.Svc.GetBooking(ctx, userID, currentRole(c), id)
	if err != nil {
		status, msg := bookingErrStatus(err)
		return c.JSON(status, echo.Map{"error": msg})
	}
	if err := h.Bookings.MarkTicketSent(ctx, booking.ID, booking.UserID); err != nil {
		status, msg := bookingErrStatus(err)
		return c.JSON(status, echo.Map{"error": msg})
	}

	eventDate := ""
	if ev, err := h.Events.GetByID(ctx, booking.EventID); err == nil {
		eventDate = ev.StartsAt.UTC().Format(time.RFC3339)
	}

	go func(b model.Booking, email, eventDate string) {
		pctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := queue.PublishTicketEmail(pctx, queue.TicketEmailEvent{
			BookingID:    b.ID,
			UserID:       b.UserID,
			Email:        email,
			EventTitle:   b.EventTitle,
			EventDate:    eventDate,
			TicketsCount: b.TicketsCount,
			RequestedAt:  time.Now().UTC().Format(time.RFC3339),
		}); err != nil {
			log.Printf("booking-handler: publish ticket.email failed: %v", err)
		}
	}(*booking, currentEmail(c), eventDate)

	return c.JSON(http.StatusOK, echo.Map{"message": "ticket queued for delivery"})
}
