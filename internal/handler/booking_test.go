package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkarpov/event-booking/internal/model"
	"github.com/dkarpov/event-booking/internal/repository"
	"github.com/dkarpov/event-booking/internal/service"
)

// Minimal in-memory stores so the handler can be driven through a real
// BookingService without MySQL.

type memTx struct{}

func (memTx) RunTx(ctx context.Context, fn func(tx *sql.Tx) error) error { return fn(nil) }

type memEvents struct{ events map[uint64]*model.Event }

func (s *memEvents) GetByID(ctx context.Context, id uint64) (*model.Event, error) {
	ev, ok := s.events[id]
	if !ok {
		return nil, repository.ErrEventNotFound
	}
	cp := *ev
	return &cp, nil
}

func (s *memEvents) GetForUpdateTx(ctx context.Context, tx *sql.Tx, id uint64) (*model.Event, error) {
	return s.GetByID(ctx, id)
}

func (s *memEvents) ReserveSeatsTx(ctx context.Context, tx *sql.Tx, eventID uint64, count uint32) error {
	ev, ok := s.events[eventID]
	if !ok || ev.AvailableSeats < count {
		return repository.ErrInsufficientSeats
	}
	ev.AvailableSeats -= count
	return nil
}

func (s *memEvents) ReleaseSeatsTx(ctx context.Context, tx *sql.Tx, eventID uint64, count uint32) error {
	ev, ok := s.events[eventID]
	if !ok || ev.AvailableSeats+count > ev.TotalSeats {
		return repository.ErrInsufficientSeats
	}
	ev.AvailableSeats += count
	return nil
}

type memBookings struct {
	bookings map[uint64]*model.Booking
	nextID   uint64
}

func (s *memBookings) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	b.ID = s.nextID
	s.nextID++
	cp := *b
	s.bookings[b.ID] = &cp
	return nil
}

func (s *memBookings) GetScoped(ctx context.Context, id, requesterID uint64, admin bool) (*model.Booking, error) {
	b, ok := s.bookings[id]
	if !ok || (!admin && b.UserID != requesterID) {
		return nil, repository.ErrBookingNotFound
	}
	cp := *b
	return &cp, nil
}

func (s *memBookings) GetScopedTx(ctx context.Context, tx *sql.Tx, id, requesterID uint64, admin bool) (*model.Booking, error) {
	return s.GetScoped(ctx, id, requesterID, admin)
}

func (s *memBookings) ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
	out := []model.Booking{}
	for _, b := range s.bookings {
		if b.UserID == userID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (s *memBookings) ListAll(ctx context.Context) ([]model.Booking, error) {
	out := []model.Booking{}
	for _, b := range s.bookings {
		out = append(out, *b)
	}
	return out, nil
}

func (s *memBookings) UpdateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	if _, ok := s.bookings[b.ID]; !ok {
		return repository.ErrBookingNotFound
	}
	cp := *b
	s.bookings[b.ID] = &cp
	return nil
}

func (s *memBookings) DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	if _, ok := s.bookings[id]; !ok {
		return repository.ErrBookingNotFound
	}
	delete(s.bookings, id)
	return nil
}

func newTestHandler(t *testing.T) (*BookingHandler, *memEvents) {
	t.Helper()
	es := &memEvents{events: map[uint64]*model.Event{
		1: {ID: 1, Title: "Jazz Night", TotalSeats: 10, AvailableSeats: 10, PriceCents: 100},
	}}
	bs := &memBookings{bookings: map[uint64]*model.Booking{}, nextID: 1}
	svc := service.NewBookingService(memTx{}, es, bs)
	return NewBookingHandler(svc, nil, nil), es
}

// request builds an echo context carrying the identity claims the JWT
// middleware would have set.  Numeric claims come out of the token as
// float64, so the test mimics that.
func request(e *echo.Echo, method, target, body string, userID float64, role string) (echo.Context, *httptest.ResponseRecorder) {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("user_id", userID)
	c.Set("email", "user@example.com")
	c.Set("role", role)
	return c, rec
}

func TestBookingHandlerCreate(t *testing.T) {
	e := echo.New()

	t.Run("201 on success", func(t *testing.T) {
		h, es := newTestHandler(t)
		c, rec := request(e, http.MethodPost, "/api/bookings", `{"event_id":1,"tickets_count":3}`, 42, "client")

		require.NoError(t, h.Create(c))
		require.Equal(t, http.StatusCreated, rec.Code)

		var got model.Booking
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, uint32(3), got.TicketsCount)
		assert.Equal(t, uint32(300), got.TotalPriceCents)
		assert.Equal(t, uint32(7), es.events[1].AvailableSeats)
	})

	t.Run("400 when capacity is exceeded", func(t *testing.T) {
		h, es := newTestHandler(t)
		c, rec := request(e, http.MethodPost, "/api/bookings", `{"event_id":1,"tickets_count":11}`, 42, "client")

		require.NoError(t, h.Create(c))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "only 10 seats available")
		assert.Equal(t, uint32(10), es.events[1].AvailableSeats)
	})

	t.Run("400 on non-positive tickets", func(t *testing.T) {
		h, _ := newTestHandler(t)
		c, rec := request(e, http.MethodPost, "/api/bookings", `{"event_id":1,"tickets_count":0}`, 42, "client")

		require.NoError(t, h.Create(c))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("404 on unknown event", func(t *testing.T) {
		h, _ := newTestHandler(t)
		c, rec := request(e, http.MethodPost, "/api/bookings", `{"event_id":99,"tickets_count":1}`, 42, "client")

		require.NoError(t, h.Create(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestBookingHandlerGet(t *testing.T) {
	e := echo.New()
	h, _ := newTestHandler(t)

	c, _ := request(e, http.MethodPost, "/api/bookings", `{"event_id":1,"tickets_count":2}`, 42, "client")
	require.NoError(t, h.Create(c))

	t.Run("owner sees the booking", func(t *testing.T) {
		c, rec := request(e, http.MethodGet, "/api/bookings/1", "", 42, "client")
		c.SetParamNames("id")
		c.SetParamValues("1")

		require.NoError(t, h.Get(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("404 for another client", func(t *testing.T) {
		c, rec := request(e, http.MethodGet, "/api/bookings/1", "", 7, "client")
		c.SetParamNames("id")
		c.SetParamValues("1")

		require.NoError(t, h.Get(c))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("admin sees any booking", func(t *testing.T) {
		c, rec := request(e, http.MethodGet, "/api/bookings/1", "", 7, "admin")
		c.SetParamNames("id")
		c.SetParamValues("1")

		require.NoError(t, h.Get(c))
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestBookingHandlerUpdate(t *testing.T) {
	e := echo.New()

	t.Run("403 for non-admin", func(t *testing.T) {
		h, _ := newTestHandler(t)
		c, _ := request(e, http.MethodPost, "/api/bookings", `{"event_id":1,"tickets_count":2}`, 42, "client")
		require.NoError(t, h.Create(c))

		c, rec := request(e, http.MethodPut, "/api/bookings/1", `{"tickets_count":5}`, 42, "client")
		c.SetParamNames("id")
		c.SetParamValues("1")

		require.NoError(t, h.Update(c))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("200 for admin resize", func(t *testing.T) {
		h, es := newTestHandler(t)
		c, _ := request(e, http.MethodPost, "/api/bookings", `{"event_id":1,"tickets_count":2}`, 42, "client")
		require.NoError(t, h.Create(c))

		c, rec := request(e, http.MethodPut, "/api/bookings/1", `{"tickets_count":5,"status":"completed"}`, 7, "admin")
		c.SetParamNames("id")
		c.SetParamValues("1")

		require.NoError(t, h.Update(c))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, uint32(5), es.events[1].AvailableSeats)
	})
}

func TestBookingHandlerCancel(t *testing.T) {
	e := echo.New()
	h, es := newTestHandler(t)

	c, _ := request(e, http.MethodPost, "/api/bookings", `{"event_id":1,"tickets_count":4}`, 42, "client")
	require.NoError(t, h.Create(c))
	require.Equal(t, uint32(6), es.events[1].AvailableSeats)

	c, rec := request(e, http.MethodDelete, "/api/bookings/1", "", 42, "client")
	c.SetParamNames("id")
	c.SetParamValues("1")

	require.NoError(t, h.Cancel(c))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint32(10), es.events[1].AvailableSeats)

	// cancelling again reads as gone
	c, rec = request(e, http.MethodDelete, "/api/bookings/1", "", 42, "client")
	c.SetParamNames("id")
	c.SetParamValues("1")
	require.NoError(t, h.Cancel(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
