package booking

import (
	"math"

	"flybooker/internal/flight"
)

// TaxRate is the fixed tax applied to every booking subtotal.
const TaxRate = 0.12

// Quote is the derived price view. It is recomputed from the session on
// demand and never stored, so it cannot go stale against the seat selection.
type Quote struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// ComputeQuote derives subtotal, tax and total from the flight base price,
// the number of selected seats and the per-seat additional fees. A session
// with no flight or no seats quotes zero, not an error.
//
// Amounts are decimal currency units; every derived figure is rounded
// half-up to 2 decimals.
func ComputeQuote(basePrice float64, seatCount int, perSeatFees []float64, taxRate float64) Quote {
	if basePrice <= 0 || seatCount <= 0 {
		return Quote{}
	}

	subtotal := basePrice * float64(seatCount)
	for _, fee := range perSeatFees {
		subtotal += fee
	}
	subtotal = round2(subtotal)

	tax := round2(subtotal * taxRate)
	total := round2(subtotal + tax)

	return Quote{Subtotal: subtotal, Tax: tax, Total: total}
}

// QuoteSession computes the quote for the session's current flight and seat
// selection, pulling per-seat fees from the given seat map.
func QuoteSession(s Session, seats []flight.Seat) Quote {
	if s.SelectedFlight == nil || len(s.SelectedSeatIDs) == 0 {
		return Quote{}
	}

	feeByID := make(map[string]float64, len(seats))
	for _, seat := range seats {
		feeByID[seat.ID] = seat.AdditionalFee
	}

	fees := make([]float64, 0, len(s.SelectedSeatIDs))
	for _, id := range s.SelectedSeatIDs {
		fees = append(fees, feeByID[id])
	}

	return ComputeQuote(s.SelectedFlight.Price, len(s.SelectedSeatIDs), fees, TaxRate)
}

// round2 rounds half-up to 2 decimal places.
func round2(v float64) float64 {
	return math.Floor(v*100+0.5) / 100
}
