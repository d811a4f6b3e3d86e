package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"flybooker/internal/flight"
)

func TestComputeQuote(t *testing.T) {
	q := ComputeQuote(100, 2, []float64{10, 20}, 0.12)

	assert.Equal(t, 230.0, q.Subtotal)
	assert.Equal(t, 27.6, q.Tax)
	assert.Equal(t, 257.6, q.Total)
}

func TestComputeQuote_ZeroWithoutSeatsOrPrice(t *testing.T) {
	assert.Equal(t, Quote{}, ComputeQuote(100, 0, nil, 0.12))
	assert.Equal(t, Quote{}, ComputeQuote(0, 2, nil, 0.12))
	assert.Equal(t, Quote{}, ComputeQuote(-50, 2, nil, 0.12))
}

func TestComputeQuote_RoundsHalfUp(t *testing.T) {
	// 33.33 * 0.12 = 3.9996 -> 4.00
	q := ComputeQuote(33.33, 1, nil, 0.12)
	assert.Equal(t, 33.33, q.Subtotal)
	assert.Equal(t, 4.0, q.Tax)
	assert.Equal(t, 37.33, q.Total)

	// Exact midpoint rounds up, not to even.
	assert.Equal(t, 0.13, round2(0.125))
}

func TestQuoteSession(t *testing.T) {
	s := NewSession("s1")
	s.SelectedFlight = &flight.Flight{ID: "FL-1", Price: 4200}
	s.SelectedSeatIDs = []string{"seat-1", "seat-2"}

	seats := []flight.Seat{
		{ID: "seat-1", AdditionalFee: 500},
		{ID: "seat-2", AdditionalFee: 0},
		{ID: "seat-3", AdditionalFee: 1500},
	}

	q := QuoteSession(s, seats)
	assert.Equal(t, 8900.0, q.Subtotal)
	assert.Equal(t, 1068.0, q.Tax)
	assert.Equal(t, 9968.0, q.Total)
}

func TestQuoteSession_ZeroWithoutFlight(t *testing.T) {
	s := NewSession("s1")
	s.SelectedSeatIDs = []string{"seat-1"}
	assert.Equal(t, Quote{}, QuoteSession(s, nil))
}
