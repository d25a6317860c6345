package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBookingStatus(t *testing.T) {
	t.Run("accepts the four states, any case", func(t *testing.T) {
		for in, want := range map[string]BookingStatus{
			"pending":    StatusPending,
			"confirmed":  StatusConfirmed,
			"CANCELLED":  StatusCancelled,
			" Completed": StatusCompleted,
		} {
			got, err := ParseBookingStatus(in)
			require.NoError(t, err, in)
			assert.Equal(t, want, got)
		}
	})

	t.Run("rejects anything else", func(t *testing.T) {
		for _, in := range []string{"", "shipped", "done", "confirmed!"} {
			_, err := ParseBookingStatus(in)
			assert.ErrorIs(t, err, ErrUnknownStatus, in)
		}
	})
}
