package handler

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dkarpov/event-booking/internal/model"
	"github.com/dkarpov/event-booking/internal/repository"
)

// EventCatalog is the slice of the event repository the catalog
// handlers need.
type EventCatalog interface {
	Create(ctx context.Context, e *model.Event) error
	GetByID(ctx context.Context, id uint64) (*model.Event, error)
	List(ctx context.Context) ([]model.Event, error)
	Update(ctx context.Context, e *model.Event) error
	Delete(ctx context.Context, id uint64) error
}

// StatsSource supplies the admin dashboard counters.
type StatsSource interface {
	Collect(ctx context.Context) (repository.Stats, error)
}

// EventHandler serves the public event catalog and the admin CRUD
// endpoints for it.
type EventHandler struct {
	Events EventCatalog
	Stats  StatsSource
}

func NewEventHandler(events EventCatalog, stats StatsSource) *EventHandler {
	return &EventHandler{Events: events, Stats: stats}
}

type eventReq struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartsAt    time.Time `json:"starts_at"`
	Location    string    `json:"location"`
	TotalSeats  int64     `json:"total_seats"`
	PriceCents  int64     `json:"price_cents"`
	ImageURL    *string   `json:"image_url"`
}

// validate bounds the numeric fields to the storage range before they
// are narrowed to uint32; without the upper checks an oversized JSON
// number would wrap around silently.
func (r *eventReq) validate() string {
	r.Title = strings.TrimSpace(r.Title)
	r.Location = strings.TrimSpace(r.Location)
	switch {
	case r.Title == "":
		return "title is required"
	case r.Location == "":
		return "location is required"
	case r.StartsAt.IsZero():
		return "starts_at is required"
	case r.TotalSeats < 1:
		return "total_seats must be a positive integer"
	case r.TotalSeats > math.MaxUint32:
		return "total_seats is out of range"
	case r.PriceCents < 0:
		return "price_cents must not be negative"
	case r.PriceCents > math.MaxUint32:
		return "price_cents is out of range"
	}
	return ""
}

// List handles GET /api/events.  Public; sits behind the Redis
// response cache in the router.
func (h *EventHandler) List(c echo.Context) error {
	events, err := h.Events.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load events failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"items": events})
}

// Get handles GET /api/events/:id.  Public.
func (h *EventHandler) Get(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	ev, err := h.Events.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load event failed"})
	}
	return c.JSON(http.StatusOK, ev)
}

// Create handles POST /api/events.  Admin only; available_seats starts
// equal to total_seats.
func (h *EventHandler) Create(c echo.Context) error {
	var req eventReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	ev := &model.Event{
		Title:       req.Title,
		Description: req.Description,
		StartsAt:    req.StartsAt,
		Location:    req.Location,
		TotalSeats:  uint32(req.TotalSeats),
		PriceCents:  uint32(req.PriceCents),
		ImageURL:    req.ImageURL,
	}
	if err := h.Events.Create(c.Request().Context(), ev); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create event failed"})
	}
	return c.JSON(http.StatusCreated, ev)
}

// Update handles PUT /api/events/:id.  Admin only.  The handler never
// touches available_seats itself: the repository derives the new
// counter from the row's booked count in a single atomic statement, so
// bookings committed while the admin was editing keep their seats.
func (h *EventHandler) Update(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	var req eventReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ev := &model.Event{
		ID:          id,
		Title:       req.Title,
		Description: req.Description,
		StartsAt:    req.StartsAt,
		Location:    req.Location,
		TotalSeats:  uint32(req.TotalSeats),
		PriceCents:  uint32(req.PriceCents),
		ImageURL:    req.ImageURL,
	}
	if err := h.Events.Update(c.Request().Context(), ev); err != nil {
		switch {
		case errors.Is(err, repository.ErrEventNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		case errors.Is(err, repository.ErrInsufficientSeats):
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error": "total_seats cannot drop below the number of booked seats",
			})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update event failed"})
	}
	return c.JSON(http.StatusOK, ev)
}

// Delete handles DELETE /api/events/:id.  Admin only.  Events with
// live bookings cannot be removed; the FK constraint surfaces as a
// conflict.
func (h *EventHandler) Delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}
	if err := h.Events.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		if strings.Contains(strings.ToLower(err.Error()), "1451") {
			return c.JSON(http.StatusConflict, echo.Map{"error": "event has active bookings"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete event failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// AdminStats handles GET /api/stats.  Admin only.
func (h *EventHandler) AdminStats(c echo.Context) error {
	stats, err := h.Stats.Collect(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "load stats failed"})
	}
	return c.JSON(http.StatusOK, stats)
}
