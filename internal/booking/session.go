package booking

import (
	"errors"
	"fmt"
	"net/http"

	"flybooker/internal/flight"
)

// ErrUnknownAction is returned by Reduce for action types outside the closed
// set. The dispatch layer logs it as a warning and keeps the state unchanged.
var ErrUnknownAction = errors.New("unknown booking action")

// Session is the only piece of mutable shared state in the service. It is
// owned by the session store and advanced exclusively through Reduce.
type Session struct {
	ID                  string                `json:"id"`
	SearchCriteria      flight.SearchCriteria `json:"searchCriteria"`
	SelectedFlight      *flight.Flight        `json:"selectedFlight,omitempty"`
	SelectedSeatIDs     []string              `json:"selectedSeatIds"`
	SelectedTravelClass flight.TravelClass    `json:"selectedTravelClass,omitempty"`
	PassengerDetails    PassengerDetails      `json:"passengerDetails"`
	FinalizedBooking    *Booking              `json:"finalizedBooking,omitempty"`
	Phase               Phase                 `json:"phase"`
}

// NewSession returns the initial session state.
func NewSession(id string) Session {
	return Session{
		ID:             id,
		SearchCriteria: defaultCriteria(),
		PassengerDetails: PassengerDetails{
			PaymentMethod: PaymentCreditCard,
		},
		Phase: PhaseSearching,
	}
}

// HasSeat reports whether the seat ID is currently selected.
func (s Session) HasSeat(seatID string) bool {
	for _, id := range s.SelectedSeatIDs {
		if id == seatID {
			return true
		}
	}
	return false
}

// Action is one named transition of the booking state machine.
type Action interface {
	name() string
}

type SetSearchCriteria struct{ Criteria flight.SearchCriteria }
type SelectFlight struct{ Flight flight.Flight }
type ToggleSeat struct{ Seat flight.Seat }
type UpdatePassengerDetails struct{ Details PassengerDetails }
type SetBooking struct{ Booking Booking }
type ResetSelectedSeats struct{}
type ClearBookingDetails struct{}
type SetSelectedTravelClass struct{ Class flight.TravelClass }
type ResetBooking struct{}

// setPhase moves the lifecycle position; it is dispatched only by the
// orchestrator, never by handlers.
type setPhase struct{ Phase Phase }

func (SetSearchCriteria) name() string      { return "SET_SEARCH_CRITERIA" }
func (SelectFlight) name() string           { return "SELECT_FLIGHT" }
func (ToggleSeat) name() string             { return "TOGGLE_SEAT" }
func (UpdatePassengerDetails) name() string { return "UPDATE_PASSENGER_DETAILS" }
func (SetBooking) name() string             { return "SET_BOOKING" }
func (ResetSelectedSeats) name() string     { return "RESET_SELECTED_SEATS" }
func (ClearBookingDetails) name() string    { return "CLEAR_BOOKING_DETAILS" }
func (SetSelectedTravelClass) name() string { return "SET_SELECTED_TRAVEL_CLASS" }
func (ResetBooking) name() string           { return "RESET_BOOKING" }
func (setPhase) name() string               { return "SET_PHASE" }

// Reduce applies one action to a session and returns the next state. It is
// pure: no I/O, no mutation of the input. Rejections return the input state
// unchanged alongside the error.
func Reduce(s Session, action Action) (Session, error) {
	switch a := action.(type) {
	case SetSearchCriteria:
		return reduceSetSearchCriteria(s, a.Criteria), nil

	case SelectFlight:
		f := a.Flight
		s.SelectedFlight = &f
		return s, nil

	case ToggleSeat:
		return reduceToggleSeat(s, a.Seat)

	case UpdatePassengerDetails:
		s.PassengerDetails = mergeDetails(s.PassengerDetails, a.Details)
		return s, nil

	case SetBooking:
		b := a.Booking
		s.FinalizedBooking = &b
		return s, nil

	case ResetSelectedSeats:
		s.SelectedSeatIDs = nil
		return s, nil

	case ClearBookingDetails:
		s.PassengerDetails = PassengerDetails{PaymentMethod: PaymentCreditCard}
		s.FinalizedBooking = nil
		return s, nil

	case SetSelectedTravelClass:
		return reduceSetTravelClass(s, a.Class), nil

	case ResetBooking:
		return NewSession(s.ID), nil

	case setPhase:
		s.Phase = a.Phase
		return s, nil

	default:
		return s, fmt.Errorf("%w: %T", ErrUnknownAction, action)
	}
}

// reduceSetSearchCriteria replaces the criteria wholesale. The selected
// travel class is a cache-invalidation signal derived from the criteria:
// when the class or the passenger count changes, previously chosen seats are
// stale and cleared in the same transition.
func reduceSetSearchCriteria(s Session, criteria flight.SearchCriteria) Session {
	classChanged := s.SelectedTravelClass != "" && s.SelectedTravelClass != criteria.TravelClass
	passengersChanged := s.SearchCriteria.Passengers != criteria.Passengers

	s.SearchCriteria = criteria
	s.SelectedTravelClass = criteria.TravelClass

	if (classChanged || passengersChanged) && len(s.SelectedSeatIDs) > 0 {
		s.SelectedSeatIDs = nil
	}
	return s
}

func reduceSetTravelClass(s Session, class flight.TravelClass) Session {
	changed := s.SelectedTravelClass != "" && s.SelectedTravelClass != class
	s.SelectedTravelClass = class
	if changed && len(s.SelectedSeatIDs) > 0 {
		s.SelectedSeatIDs = nil
	}
	return s
}

// reduceToggleSeat flips membership of the seat in the selection. A seat
// already selected is removed unconditionally; adding one is rejected when
// the seat is not available or its class does not match the selected travel
// class.
func reduceToggleSeat(s Session, seat flight.Seat) (Session, error) {
	if s.HasSeat(seat.ID) {
		next := make([]string, 0, len(s.SelectedSeatIDs)-1)
		for _, id := range s.SelectedSeatIDs {
			if id != seat.ID {
				next = append(next, id)
			}
		}
		if len(next) == 0 {
			next = nil
		}
		s.SelectedSeatIDs = next
		return s, nil
	}

	if !seat.Selectable() {
		return s, &AppError{
			Status:  http.StatusUnprocessableEntity,
			Code:    ErrorCodeSeatUnavailable,
			Message: fmt.Sprintf("seat %s is %s", seat.SeatNumber, seat.Status),
		}
	}

	if s.SelectedTravelClass != "" && seat.SeatClass != s.SelectedTravelClass {
		return s, &AppError{
			Status: http.StatusUnprocessableEntity,
			Code:   ErrorCodeSeatClassMismatch,
			Message: fmt.Sprintf("seat %s is %s, booking is for %s",
				seat.SeatNumber, seat.SeatClass, s.SelectedTravelClass),
		}
	}

	next := make([]string, len(s.SelectedSeatIDs), len(s.SelectedSeatIDs)+1)
	copy(next, s.SelectedSeatIDs)
	s.SelectedSeatIDs = append(next, seat.ID)
	return s, nil
}

// mergeDetails shallow-merges non-zero fields into the existing details.
func mergeDetails(current, update PassengerDetails) PassengerDetails {
	if update.PassengerName != "" {
		current.PassengerName = update.PassengerName
	}
	if update.PassengerEmail != "" {
		current.PassengerEmail = update.PassengerEmail
	}
	if update.PassengerPhone != "" {
		current.PassengerPhone = update.PassengerPhone
	}
	if update.PaymentMethod != "" {
		current.PaymentMethod = update.PaymentMethod
	}
	return current
}
