package handler

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkarpov/event-booking/internal/model"
	"github.com/dkarpov/event-booking/internal/repository"
)

// fakeCatalog mirrors EventRepo's semantics in memory.  Update derives
// available_seats from its own current booked count, exactly like the
// repository's atomic statement, and ignores whatever the caller put in
// e.AvailableSeats.
type fakeCatalog struct {
	events map[uint64]*model.Event
	nextID uint64
}

func newFakeCatalog(events ...*model.Event) *fakeCatalog {
	f := &fakeCatalog{events: map[uint64]*model.Event{}, nextID: 1}
	for _, ev := range events {
		f.events[ev.ID] = ev
		if ev.ID >= f.nextID {
			f.nextID = ev.ID + 1
		}
	}
	return f
}

func (f *fakeCatalog) Create(ctx context.Context, e *model.Event) error {
	e.ID = f.nextID
	f.nextID++
	e.AvailableSeats = e.TotalSeats
	cp := *e
	f.events[e.ID] = &cp
	return nil
}

func (f *fakeCatalog) GetByID(ctx context.Context, id uint64) (*model.Event, error) {
	ev, ok := f.events[id]
	if !ok {
		return nil, repository.ErrEventNotFound
	}
	cp := *ev
	return &cp, nil
}

func (f *fakeCatalog) List(ctx context.Context) ([]model.Event, error) {
	out := []model.Event{}
	for _, ev := range f.events {
		out = append(out, *ev)
	}
	return out, nil
}

func (f *fakeCatalog) Update(ctx context.Context, e *model.Event) error {
	cur, ok := f.events[e.ID]
	if !ok {
		return repository.ErrEventNotFound
	}
	booked := cur.TotalSeats - cur.AvailableSeats
	if e.TotalSeats < booked {
		return repository.ErrInsufficientSeats
	}
	cur.Title = e.Title
	cur.Description = e.Description
	cur.StartsAt = e.StartsAt
	cur.Location = e.Location
	cur.AvailableSeats = e.TotalSeats - booked
	cur.TotalSeats = e.TotalSeats
	cur.PriceCents = e.PriceCents
	cur.ImageURL = e.ImageURL
	*e = *cur
	return nil
}

func (f *fakeCatalog) Delete(ctx context.Context, id uint64) error {
	if _, ok := f.events[id]; !ok {
		return repository.ErrEventNotFound
	}
	delete(f.events, id)
	return nil
}

func adminRequest(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	return request(e, method, target, body, 1, "admin")
}

func TestEventHandlerCreate(t *testing.T) {
	e := echo.New()

	t.Run("201 and full capacity available", func(t *testing.T) {
		cat := newFakeCatalog()
		h := NewEventHandler(cat, nil)
		c, rec := adminRequest(e, http.MethodPost, "/api/events",
			`{"title":"Jazz Night","location":"Blue Hall","starts_at":"2026-10-01T20:00:00Z","total_seats":50,"price_cents":2500}`)

		require.NoError(t, h.Create(c))
		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, uint32(50), cat.events[1].AvailableSeats)
	})

	t.Run("rejects counts that would not survive narrowing", func(t *testing.T) {
		cat := newFakeCatalog()
		h := NewEventHandler(cat, nil)

		// 2^32+10 would wrap to 10 seats if it reached the conversion
		body := fmt.Sprintf(
			`{"title":"Jazz Night","location":"Blue Hall","starts_at":"2026-10-01T20:00:00Z","total_seats":%d,"price_cents":100}`,
			int64(1)<<32+10)
		c, rec := adminRequest(e, http.MethodPost, "/api/events", body)

		require.NoError(t, h.Create(c))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "total_seats is out of range")
		assert.Empty(t, cat.events)
	})

	t.Run("rejects prices that would not survive narrowing", func(t *testing.T) {
		cat := newFakeCatalog()
		h := NewEventHandler(cat, nil)

		body := fmt.Sprintf(
			`{"title":"Jazz Night","location":"Blue Hall","starts_at":"2026-10-01T20:00:00Z","total_seats":10,"price_cents":%d}`,
			int64(1)<<32+50)
		c, rec := adminRequest(e, http.MethodPost, "/api/events", body)

		require.NoError(t, h.Create(c))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "price_cents is out of range")
		assert.Empty(t, cat.events)
	})
}

func TestEventHandlerUpdate(t *testing.T) {
	e := echo.New()

	edit := func(t *testing.T, h *EventHandler, id string, body string) *httptest.ResponseRecorder {
		t.Helper()
		c, rec := adminRequest(e, http.MethodPut, "/api/events/"+id, body)
		c.SetParamNames("id")
		c.SetParamValues(id)
		require.NoError(t, h.Update(c))
		return rec
	}

	t.Run("booked seats survive a metadata edit", func(t *testing.T) {
		// Six seats already booked; an edit that keeps capacity at 10
		// must leave available_seats at 4, not reset it.
		cat := newFakeCatalog(&model.Event{
			ID: 1, Title: "Jazz Night", Location: "Blue Hall",
			TotalSeats: 10, AvailableSeats: 4, PriceCents: 100,
		})
		h := NewEventHandler(cat, nil)

		rec := edit(t, h, "1",
			`{"title":"Jazz Night (rescheduled)","location":"Blue Hall","starts_at":"2026-11-01T20:00:00Z","total_seats":10,"price_cents":100}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, uint32(4), cat.events[1].AvailableSeats)
		assert.Equal(t, "Jazz Night (rescheduled)", cat.events[1].Title)
	})

	t.Run("growing capacity adds only the new seats", func(t *testing.T) {
		cat := newFakeCatalog(&model.Event{
			ID: 1, Title: "Jazz Night", Location: "Blue Hall",
			TotalSeats: 10, AvailableSeats: 4, PriceCents: 100,
		})
		h := NewEventHandler(cat, nil)

		rec := edit(t, h, "1",
			`{"title":"Jazz Night","location":"Blue Hall","starts_at":"2026-11-01T20:00:00Z","total_seats":12,"price_cents":100}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, uint32(12), cat.events[1].TotalSeats)
		assert.Equal(t, uint32(6), cat.events[1].AvailableSeats)
	})

	t.Run("cannot shrink below the booked count", func(t *testing.T) {
		cat := newFakeCatalog(&model.Event{
			ID: 1, Title: "Jazz Night", Location: "Blue Hall",
			TotalSeats: 10, AvailableSeats: 4, PriceCents: 100,
		})
		h := NewEventHandler(cat, nil)

		rec := edit(t, h, "1",
			`{"title":"Jazz Night","location":"Blue Hall","starts_at":"2026-11-01T20:00:00Z","total_seats":5,"price_cents":100}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, uint32(10), cat.events[1].TotalSeats)
		assert.Equal(t, uint32(4), cat.events[1].AvailableSeats)
	})

	t.Run("404 on unknown event", func(t *testing.T) {
		h := NewEventHandler(newFakeCatalog(), nil)
		rec := edit(t, h, "9",
			`{"title":"Jazz Night","location":"Blue Hall","starts_at":"2026-11-01T20:00:00Z","total_seats":5,"price_cents":100}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
