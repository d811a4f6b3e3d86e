package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"flybooker/internal/flight"
	"flybooker/pkg/logger"
)

// BackendClient is the slice of the FlyBooker backend contract the
// orchestrator needs. All business authority (seat locking, pricing source
// of truth, payment settlement) lives behind it.
type BackendClient interface {
	GetFlight(ctx context.Context, id string) (*flight.Flight, error)
	GetSeats(ctx context.Context, flightID string) ([]flight.Seat, error)
	CreateBooking(ctx context.Context, req CreateBookingRequest) (*Booking, error)
	GetBooking(ctx context.Context, reference string) (*Booking, error)
	CancelBooking(ctx context.Context, reference string) error
	GetBookingsByEmail(ctx context.Context, email string) ([]Booking, error)
}

// FlightSearcher runs flight searches (with caching) for the search step.
type FlightSearcher interface {
	Search(ctx context.Context, req flight.SearchRequest) (*flight.SearchResponse, error)
}

// statusError is implemented by backend API errors that carry the upstream
// HTTP status; anything else is a transport-level failure.
type statusError interface {
	error
	HTTPStatus() int
}

// Orchestrator drives a session through the booking flow and enforces the
// preconditions between steps. It is the only component that dispatches
// phase changes.
type Orchestrator struct {
	store    *Store
	backend  BackendClient
	searcher FlightSearcher
	logger   logger.Client

	pollInterval time.Duration
	pollBudget   int

	mu      sync.Mutex
	pollers map[string]context.CancelFunc
}

func NewOrchestrator(store *Store, backend BackendClient, searcher FlightSearcher,
	logger logger.Client, pollInterval time.Duration, pollBudget int) *Orchestrator {
	return &Orchestrator{
		store:        store,
		backend:      backend,
		searcher:     searcher,
		logger:       logger,
		pollInterval: pollInterval,
		pollBudget:   pollBudget,
		pollers:      make(map[string]context.CancelFunc),
	}
}

// Search replaces the session's criteria and runs the search. A search on a
// session that already finished a booking resets it to initial state first.
func (o *Orchestrator) Search(ctx context.Context, sessionID string, req flight.SearchRequest) (*flight.SearchResponse, error) {
	s, err := o.store.Get(sessionID)
	if err != nil {
		return nil, err
	}

	if err := ValidateSearchCriteria(req.Origin, req.Destination, req.DepartureDate, req.Passengers); err != nil {
		return nil, err
	}
	if req.TravelClass != "" && !req.TravelClass.Valid() {
		return nil, NewValidationError("travel class must be one of ECONOMY, PREMIUM_ECONOMY, BUSINESS, FIRST")
	}
	if req.TravelClass == "" {
		req.TravelClass = flight.ClassEconomy
	}

	if s.FinalizedBooking != nil {
		o.StopPolling(sessionID)
		if _, err := o.store.Dispatch(sessionID, ResetBooking{}); err != nil {
			return nil, err
		}
	}

	resp, err := o.searcher.Search(ctx, req)
	if err != nil {
		return nil, o.asTransport("flight search failed", err)
	}

	// Seat IDs belong to a flight; any selection predating this search is
	// stale regardless of whether class or passenger count changed.
	if _, err := o.store.Dispatch(sessionID,
		SetSearchCriteria{Criteria: req.SearchCriteria},
		ResetSelectedSeats{},
		setPhase{Phase: PhaseResults},
	); err != nil {
		return nil, err
	}

	return resp, nil
}

// SelectFlight fetches the flight from the backend and stores it in the
// session. The backend copy wins over anything the caller may have cached.
func (o *Orchestrator) SelectFlight(ctx context.Context, sessionID, flightID string) (Session, error) {
	if _, err := o.store.Get(sessionID); err != nil {
		return Session{}, err
	}

	f, err := o.backend.GetFlight(ctx, flightID)
	if err != nil {
		return Session{}, o.asTransport("failed to fetch flight "+flightID, err)
	}

	return o.store.Dispatch(sessionID,
		SelectFlight{Flight: *f},
		setPhase{Phase: PhaseSelectingSeats},
	)
}

// Seats re-fetches the seat map for the selected flight. Seats are never
// cached: availability is only as fresh as the last fetch.
func (o *Orchestrator) Seats(ctx context.Context, sessionID string) ([]flight.Seat, error) {
	s, err := o.store.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if s.SelectedFlight == nil {
		return nil, NewPhaseError("no flight selected")
	}

	seats, err := o.backend.GetSeats(ctx, s.SelectedFlight.ID)
	if err != nil {
		return nil, o.asTransport("failed to fetch seats", err)
	}
	return seats, nil
}

// ToggleSeat flips the selection state of one seat, looked up from the live
// seat map so class and availability checks run against backend truth.
func (o *Orchestrator) ToggleSeat(ctx context.Context, sessionID, seatID string) (Session, error) {
	seats, err := o.Seats(ctx, sessionID)
	if err != nil {
		return Session{}, err
	}

	for _, seat := range seats {
		if seat.ID == seatID {
			return o.store.Dispatch(sessionID, ToggleSeat{Seat: seat})
		}
	}
	return Session{}, NewValidationError("seat not found on this flight: " + seatID)
}

// ProceedToDetails enforces the exact-seat-count precondition before the
// passenger details step.
func (o *Orchestrator) ProceedToDetails(sessionID string) (Session, error) {
	s, err := o.store.Get(sessionID)
	if err != nil {
		return Session{}, err
	}
	if s.SelectedFlight == nil {
		return Session{}, NewPhaseError("no flight selected")
	}
	if err := checkSeatCount(len(s.SelectedSeatIDs), s.SearchCriteria.Passengers); err != nil {
		return Session{}, err
	}

	return o.store.Dispatch(sessionID, setPhase{Phase: PhaseEnteringDetails})
}

// UpdateDetails shallow-merges passenger details into the session.
func (o *Orchestrator) UpdateDetails(sessionID string, details PassengerDetails) (Session, error) {
	if details.PaymentMethod != "" && !details.PaymentMethod.Valid() {
		return Session{}, NewValidationError("payment method must be one of CREDIT_CARD, DEBIT_CARD, UPI, BANK_TRANSFER")
	}
	return o.store.Dispatch(sessionID, UpdatePassengerDetails{Details: details})
}

// Submit validates the session, creates the booking on the backend and
// starts payment polling. A transport failure returns the user to the
// details step with entered data intact; a backend rejection is terminal.
func (o *Orchestrator) Submit(ctx context.Context, sessionID string) (Session, error) {
	s, err := o.store.Get(sessionID)
	if err != nil {
		return Session{}, err
	}

	if s.SelectedFlight == nil {
		return Session{}, NewPhaseError("no flight selected")
	}
	if s.FinalizedBooking != nil {
		return Session{}, NewPhaseError("this session already has a booking; start a new search")
	}
	if err := checkSeatCount(len(s.SelectedSeatIDs), s.SearchCriteria.Passengers); err != nil {
		return Session{}, err
	}
	if err := ValidatePassengerDetails(s.PassengerDetails); err != nil {
		return Session{}, err
	}

	if _, err := o.store.Dispatch(sessionID, setPhase{Phase: PhaseSubmitting}); err != nil {
		return Session{}, err
	}

	req := CreateBookingRequest{
		FlightID:       s.SelectedFlight.ID,
		PassengerName:  s.PassengerDetails.PassengerName,
		PassengerEmail: s.PassengerDetails.PassengerEmail,
		PassengerPhone: s.PassengerDetails.PassengerPhone,
		SeatIDs:        s.SelectedSeatIDs,
		PaymentMethod:  s.PassengerDetails.PaymentMethod,
	}

	created, err := o.backend.CreateBooking(ctx, req)
	if err != nil {
		var se statusError
		if errors.As(err, &se) {
			// The backend answered and said no: terminal failure.
			if _, derr := o.store.Dispatch(sessionID, setPhase{Phase: PhaseFailed}); derr != nil {
				o.logger.Error("failed to mark session failed", logger.Err(derr))
			}
			return Session{}, NewBookingRejectedError(se.Error())
		}
		// Transport failure: back to the form, nothing entered is lost.
		if _, derr := o.store.Dispatch(sessionID, setPhase{Phase: PhaseEnteringDetails}); derr != nil {
			o.logger.Error("failed to restore details phase", logger.Err(derr))
		}
		return Session{}, o.asTransport("booking submission failed", err)
	}

	next, err := o.store.Dispatch(sessionID,
		SetBooking{Booking: *created},
		setPhase{Phase: phaseForBooking(*created)},
	)
	if err != nil {
		return Session{}, err
	}

	if created.PaymentStatus == PaymentPending {
		o.StartPolling(sessionID, created.BookingReference)
	}

	return next, nil
}

// Refresh re-fetches the booking once and updates the session; used for the
// manual status check after the poll budget ran out.
func (o *Orchestrator) Refresh(ctx context.Context, sessionID string) (Session, error) {
	s, err := o.store.Get(sessionID)
	if err != nil {
		return Session{}, err
	}
	if s.FinalizedBooking == nil {
		return s, nil
	}

	b, err := o.backend.GetBooking(ctx, s.FinalizedBooking.BookingReference)
	if err != nil {
		return Session{}, o.asTransport("failed to refresh booking", err)
	}

	actions := []Action{SetBooking{Booking: *b}}
	if b.PaymentStatus != PaymentPending {
		actions = append(actions, setPhase{Phase: phaseForBooking(*b)})
	}
	return o.store.Dispatch(sessionID, actions...)
}

// Cancel cancels a finalized booking. Only a confirmed booking with
// completed payment is cancellable; anything else is rejected locally
// without contacting the backend. On success the local record flips to
// CANCELLED optimistically; a later refresh may still disagree and the
// server copy wins.
func (o *Orchestrator) Cancel(ctx context.Context, sessionID string) (Session, error) {
	s, err := o.store.Get(sessionID)
	if err != nil {
		return Session{}, err
	}
	if s.FinalizedBooking == nil {
		return Session{}, NewCancelNotAllowedError("no booking to cancel")
	}
	if s.FinalizedBooking.Status != BookingConfirmed || s.FinalizedBooking.PaymentStatus != PaymentCompleted {
		return Session{}, NewCancelNotAllowedError(fmt.Sprintf(
			"booking %s cannot be cancelled in status %s/%s",
			s.FinalizedBooking.BookingReference, s.FinalizedBooking.Status, s.FinalizedBooking.PaymentStatus))
	}

	o.StopPolling(sessionID)

	if err := o.backend.CancelBooking(ctx, s.FinalizedBooking.BookingReference); err != nil {
		return Session{}, o.asTransport("cancellation failed", err)
	}

	cancelled := *s.FinalizedBooking
	cancelled.Status = BookingCancelled

	return o.store.Dispatch(sessionID,
		SetBooking{Booking: cancelled},
		setPhase{Phase: PhaseCancelled},
	)
}

// BookAnother keeps the search criteria but clears passenger details, the
// finalized booking and the seat selection for a follow-up booking.
func (o *Orchestrator) BookAnother(sessionID string) (Session, error) {
	o.StopPolling(sessionID)
	return o.store.Dispatch(sessionID,
		ClearBookingDetails{},
		ResetSelectedSeats{},
		setPhase{Phase: PhaseSearching},
	)
}

// Reset returns the session to its initial state.
func (o *Orchestrator) Reset(sessionID string) (Session, error) {
	o.StopPolling(sessionID)
	return o.store.Dispatch(sessionID, ResetBooking{})
}

// Quote recomputes the derived price view for the session's current flight
// and seat selection against the live seat fees.
func (o *Orchestrator) Quote(ctx context.Context, sessionID string) (Quote, error) {
	s, err := o.store.Get(sessionID)
	if err != nil {
		return Quote{}, err
	}
	if s.SelectedFlight == nil || len(s.SelectedSeatIDs) == 0 {
		return Quote{}, nil
	}

	seats, err := o.backend.GetSeats(ctx, s.SelectedFlight.ID)
	if err != nil {
		return Quote{}, o.asTransport("failed to fetch seats", err)
	}
	return QuoteSession(s, seats), nil
}

// BookingsByEmail is a passthrough lookup for the bookings history view.
func (o *Orchestrator) BookingsByEmail(ctx context.Context, email string) ([]Booking, error) {
	bookings, err := o.backend.GetBookingsByEmail(ctx, email)
	if err != nil {
		return nil, o.asTransport("failed to fetch bookings", err)
	}
	return bookings, nil
}

// Close stops all active pollers.
func (o *Orchestrator) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()
	for id, cancel := range o.pollers {
		cancel()
		delete(o.pollers, id)
	}
}

func (o *Orchestrator) asTransport(msg string, err error) error {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	o.logger.Error(msg, logger.Err(err))
	return NewTransportError(msg + ": " + err.Error())
}

func checkSeatCount(selected, passengers int) error {
	switch {
	case selected == 0:
		return NewSeatCountError("no seats selected: please select at least one seat")
	case selected < passengers:
		return NewSeatCountError(fmt.Sprintf("too few seats selected: %d of %d required", selected, passengers))
	case selected > passengers:
		return NewSeatCountError(fmt.Sprintf("too many seats selected: %d selected for %d passengers", selected, passengers))
	}
	return nil
}

func phaseForBooking(b Booking) Phase {
	switch b.PaymentStatus {
	case PaymentCompleted:
		if b.Status == BookingCancelled {
			return PhaseCancelled
		}
		return PhaseConfirmed
	case PaymentFailed:
		return PhaseFailed
	default:
		return PhaseAwaitingPayment
	}
}
