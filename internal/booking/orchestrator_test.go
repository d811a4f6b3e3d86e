package booking

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flybooker/internal/flight"
	"flybooker/pkg/logger"
)

func testLogger() logger.Client {
	return logger.NewWithWriter("production", io.Discard)
}

type seqGen struct {
	mu sync.Mutex
	n  int64
}

func (g *seqGen) GenerateID() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return g.n
}

func (g *seqGen) GenerateStringID() string {
	return fmt.Sprintf("session-%d", g.GenerateID())
}

// apiError mimics the backend client's status-carrying error.
type apiError struct {
	status  int
	message string
}

func (e *apiError) Error() string   { return e.message }
func (e *apiError) HTTPStatus() int { return e.status }

type fakeBackend struct {
	mu sync.Mutex

	flights map[string]flight.Flight
	seats   map[string][]flight.Seat

	booking    *Booking
	bookingErr error
	getBooking func(attempt int) (*Booking, error)

	createCalls     int
	getBookingCalls int
	cancelCalls     int
	cancelErr       error
}

func (b *fakeBackend) GetFlight(_ context.Context, id string) (*flight.Flight, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	f, ok := b.flights[id]
	if !ok {
		return nil, &apiError{status: 404, message: "flight not found"}
	}
	return &f, nil
}

func (b *fakeBackend) GetSeats(_ context.Context, flightID string) ([]flight.Seat, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.seats[flightID], nil
}

func (b *fakeBackend) CreateBooking(_ context.Context, _ CreateBookingRequest) (*Booking, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.createCalls++
	if b.bookingErr != nil {
		return nil, b.bookingErr
	}
	copied := *b.booking
	return &copied, nil
}

func (b *fakeBackend) GetBooking(_ context.Context, _ string) (*Booking, error) {
	b.mu.Lock()
	b.getBookingCalls++
	attempt := b.getBookingCalls
	hook := b.getBooking
	var copied Booking
	if b.booking != nil {
		copied = *b.booking
	}
	b.mu.Unlock()

	// Hooks run outside the lock so they may block.
	if hook != nil {
		return hook(attempt)
	}
	return &copied, nil
}

func (b *fakeBackend) CancelBooking(_ context.Context, _ string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cancelCalls++
	return b.cancelErr
}

func (b *fakeBackend) GetBookingsByEmail(_ context.Context, _ string) ([]Booking, error) {
	return nil, nil
}

func (b *fakeBackend) pollCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.getBookingCalls
}

type fakeSearcher struct {
	flights []flight.Flight
	err     error
	calls   int
}

func (s *fakeSearcher) Search(_ context.Context, req flight.SearchRequest) (*flight.SearchResponse, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &flight.SearchResponse{
		SearchCriteria: req.SearchCriteria,
		Flights:        s.flights,
	}, nil
}

func economySeatMap() []flight.Seat {
	return []flight.Seat{
		{ID: "seat-1", SeatNumber: "12A", SeatClass: flight.ClassEconomy, Status: flight.SeatAvailable, AdditionalFee: 500},
		{ID: "seat-2", SeatNumber: "12B", SeatClass: flight.ClassEconomy, Status: flight.SeatAvailable},
		{ID: "seat-3", SeatNumber: "12C", SeatClass: flight.ClassEconomy, Status: flight.SeatOccupied},
		{ID: "seat-4", SeatNumber: "1A", SeatClass: flight.ClassBusiness, Status: flight.SeatAvailable, AdditionalFee: 2000},
	}
}

func newTestOrchestrator(t *testing.T, backend *fakeBackend, searcher *fakeSearcher,
	pollInterval time.Duration, pollBudget int) (*Orchestrator, *Store) {
	t.Helper()

	if backend.flights == nil {
		backend.flights = map[string]flight.Flight{
			"FL-1": {ID: "FL-1", Airline: "IndiGo", FlightNumber: "6E-201", Price: 4200},
		}
	}
	if backend.seats == nil {
		backend.seats = map[string][]flight.Seat{"FL-1": economySeatMap()}
	}

	store := NewStore(&seqGen{}, testLogger())
	o := NewOrchestrator(store, backend, searcher, testLogger(), pollInterval, pollBudget)
	t.Cleanup(o.Close)
	return o, store
}

func searchRequest(passengers int) flight.SearchRequest {
	return flight.SearchRequest{
		SearchCriteria: flight.SearchCriteria{
			Origin:        "DEL",
			Destination:   "BOM",
			DepartureDate: "2026-10-01",
			Passengers:    passengers,
			TravelClass:   flight.ClassEconomy,
		},
	}
}

// advanceToDetails walks a fresh session up to the details step with one
// seat selected per passenger.
func advanceToDetails(t *testing.T, o *Orchestrator, store *Store, seatIDs ...string) string {
	t.Helper()
	ctx := context.Background()

	s := store.Create()
	_, err := o.Search(ctx, s.ID, searchRequest(len(seatIDs)))
	require.NoError(t, err)

	_, err = o.SelectFlight(ctx, s.ID, "FL-1")
	require.NoError(t, err)

	for _, seatID := range seatIDs {
		_, err = o.ToggleSeat(ctx, s.ID, seatID)
		require.NoError(t, err)
	}

	_, err = o.ProceedToDetails(s.ID)
	require.NoError(t, err)

	_, err = o.UpdateDetails(s.ID, validDetails())
	require.NoError(t, err)

	return s.ID
}

func TestSearch_AdvancesToResults(t *testing.T) {
	searcher := &fakeSearcher{flights: []flight.Flight{{ID: "FL-1"}}}
	o, store := newTestOrchestrator(t, &fakeBackend{}, searcher, time.Minute, 24)
	s := store.Create()

	resp, err := o.Search(context.Background(), s.ID, searchRequest(1))
	require.NoError(t, err)
	assert.Len(t, resp.Flights, 1)

	s, err = store.Get(s.ID)
	require.NoError(t, err)
	assert.Equal(t, PhaseResults, s.Phase)
	assert.Equal(t, "DEL", s.SearchCriteria.Origin)
}

func TestSearch_RejectsInvalidCriteria(t *testing.T) {
	searcher := &fakeSearcher{}
	o, store := newTestOrchestrator(t, &fakeBackend{}, searcher, time.Minute, 24)
	s := store.Create()

	req := searchRequest(1)
	req.Origin = ""
	_, err := o.Search(context.Background(), s.ID, req)

	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, ErrorCodeValidation, appErr.Code)
	assert.Zero(t, searcher.calls, "invalid criteria must not reach the searcher")
}

func TestSearch_AfterFinalizedBookingResetsSession(t *testing.T) {
	backend := &fakeBackend{booking: &Booking{
		BookingReference: "FB123",
		Status:           BookingConfirmed,
		PaymentStatus:    PaymentCompleted,
	}}
	searcher := &fakeSearcher{flights: []flight.Flight{{ID: "FL-1"}}}
	o, store := newTestOrchestrator(t, backend, searcher, time.Minute, 24)

	id := advanceToDetails(t, o, store, "seat-1")
	_, err := o.Submit(context.Background(), id)
	require.NoError(t, err)

	_, err = o.Search(context.Background(), id, searchRequest(1))
	require.NoError(t, err)

	s, err := store.Get(id)
	require.NoError(t, err)
	assert.Nil(t, s.FinalizedBooking)
	assert.Empty(t, s.SelectedSeatIDs)
	assert.Equal(t, PhaseResults, s.Phase)
}

func TestSearch_ClearsStaleSeatSelection(t *testing.T) {
	backend := &fakeBackend{
		flights: map[string]flight.Flight{
			"FL-1": {ID: "FL-1", Airline: "IndiGo", FlightNumber: "6E-201", Price: 4200},
			"FL-2": {ID: "FL-2", Airline: "Air India", FlightNumber: "AI-805", Price: 4500},
		},
		seats: map[string][]flight.Seat{
			"FL-1": economySeatMap(),
			"FL-2": {
				{ID: "fl2-seat-1", SeatNumber: "14A", SeatClass: flight.ClassEconomy, Status: flight.SeatAvailable},
			},
		},
	}
	searcher := &fakeSearcher{flights: []flight.Flight{{ID: "FL-1"}, {ID: "FL-2"}}}
	o, store := newTestOrchestrator(t, backend, searcher, time.Minute, 24)
	ctx := context.Background()

	s := store.Create()
	_, err := o.Search(ctx, s.ID, searchRequest(1))
	require.NoError(t, err)
	_, err = o.SelectFlight(ctx, s.ID, "FL-1")
	require.NoError(t, err)
	_, err = o.ToggleSeat(ctx, s.ID, "seat-1")
	require.NoError(t, err)

	// Same class, same passenger count: only the date differs.
	req := searchRequest(1)
	req.DepartureDate = "2026-10-05"
	_, err = o.Search(ctx, s.ID, req)
	require.NoError(t, err)

	next, err := o.SelectFlight(ctx, s.ID, "FL-2")
	require.NoError(t, err)
	assert.Empty(t, next.SelectedSeatIDs, "seats from the previous flight must not survive a new search")

	_, err = o.ProceedToDetails(s.ID)
	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, ErrorCodeSeatCount, appErr.Code)

	q, err := o.Quote(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, Quote{}, q, "no seat may be priced against the newly selected flight")
}

func TestToggleSeat_UnknownSeatRejected(t *testing.T) {
	o, store := newTestOrchestrator(t, &fakeBackend{}, &fakeSearcher{}, time.Minute, 24)
	s := store.Create()

	_, err := o.Search(context.Background(), s.ID, searchRequest(1))
	require.NoError(t, err)
	_, err = o.SelectFlight(context.Background(), s.ID, "FL-1")
	require.NoError(t, err)

	_, err = o.ToggleSeat(context.Background(), s.ID, "seat-99")
	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, ErrorCodeValidation, appErr.Code)
}

func TestProceedToDetails_SeatCountGuard(t *testing.T) {
	o, store := newTestOrchestrator(t, &fakeBackend{}, &fakeSearcher{}, time.Minute, 24)
	s := store.Create()
	ctx := context.Background()

	_, err := o.Search(ctx, s.ID, searchRequest(2))
	require.NoError(t, err)
	_, err = o.SelectFlight(ctx, s.ID, "FL-1")
	require.NoError(t, err)

	_, err = o.ProceedToDetails(s.ID)
	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, ErrorCodeSeatCount, appErr.Code)
	assert.Contains(t, appErr.Message, "no seats selected")

	_, err = o.ToggleSeat(ctx, s.ID, "seat-1")
	require.NoError(t, err)
	_, err = o.ProceedToDetails(s.ID)
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Message, "too few seats")

	_, err = o.ToggleSeat(ctx, s.ID, "seat-2")
	require.NoError(t, err)
	_, err = o.ProceedToDetails(s.ID)
	require.NoError(t, err)
}

func TestSubmit_ConfirmedImmediately(t *testing.T) {
	backend := &fakeBackend{booking: &Booking{
		BookingReference: "FB123",
		Status:           BookingConfirmed,
		PaymentStatus:    PaymentCompleted,
	}}
	o, store := newTestOrchestrator(t, backend, &fakeSearcher{}, time.Minute, 24)

	id := advanceToDetails(t, o, store, "seat-1")
	s, err := o.Submit(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, PhaseConfirmed, s.Phase)
	require.NotNil(t, s.FinalizedBooking)
	assert.Equal(t, "FB123", s.FinalizedBooking.BookingReference)
	assert.Zero(t, backend.pollCount(), "settled payment must not start polling")
}

func TestSubmit_RejectionIsTerminal(t *testing.T) {
	backend := &fakeBackend{bookingErr: &apiError{status: 422, message: "seat already taken"}}
	o, store := newTestOrchestrator(t, backend, &fakeSearcher{}, time.Minute, 24)

	id := advanceToDetails(t, o, store, "seat-1")
	_, err := o.Submit(context.Background(), id)

	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, ErrorCodeBookingRejected, appErr.Code)

	s, err := store.Get(id)
	require.NoError(t, err)
	assert.Equal(t, PhaseFailed, s.Phase)
}

func TestSubmit_TransportFailureReturnsToDetails(t *testing.T) {
	backend := &fakeBackend{bookingErr: errors.New("connection refused")}
	o, store := newTestOrchestrator(t, backend, &fakeSearcher{}, time.Minute, 24)

	id := advanceToDetails(t, o, store, "seat-1")
	_, err := o.Submit(context.Background(), id)

	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, ErrorCodeTransport, appErr.Code)

	s, err := store.Get(id)
	require.NoError(t, err)
	assert.Equal(t, PhaseEnteringDetails, s.Phase)
	assert.Equal(t, "Priya Sharma", s.PassengerDetails.PassengerName, "entered details survive a transport failure")
	assert.Equal(t, []string{"seat-1"}, s.SelectedSeatIDs)
}

func TestSubmit_TwiceRejected(t *testing.T) {
	backend := &fakeBackend{booking: &Booking{
		BookingReference: "FB123",
		Status:           BookingConfirmed,
		PaymentStatus:    PaymentCompleted,
	}}
	o, store := newTestOrchestrator(t, backend, &fakeSearcher{}, time.Minute, 24)

	id := advanceToDetails(t, o, store, "seat-1")
	_, err := o.Submit(context.Background(), id)
	require.NoError(t, err)

	_, err = o.Submit(context.Background(), id)
	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, ErrorCodePhase, appErr.Code)
	assert.Equal(t, 1, backend.createCalls)
}

func TestPolling_SettlesOnCompletedPayment(t *testing.T) {
	backend := &fakeBackend{
		booking: &Booking{
			BookingReference: "FB123",
			Status:           BookingPending,
			PaymentStatus:    PaymentPending,
		},
		getBooking: func(attempt int) (*Booking, error) {
			b := Booking{BookingReference: "FB123", Status: BookingPending, PaymentStatus: PaymentPending}
			if attempt >= 2 {
				b.Status = BookingConfirmed
				b.PaymentStatus = PaymentCompleted
			}
			return &b, nil
		},
	}
	o, store := newTestOrchestrator(t, backend, &fakeSearcher{}, 5*time.Millisecond, 24)

	id := advanceToDetails(t, o, store, "seat-1")
	s, err := o.Submit(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, PhaseAwaitingPayment, s.Phase)

	require.Eventually(t, func() bool {
		s, err := store.Get(id)
		return err == nil && s.Phase == PhaseConfirmed
	}, 2*time.Second, 5*time.Millisecond)

	assert.Equal(t, 2, backend.pollCount())
}

func TestPolling_BudgetExhaustionStopsQuietly(t *testing.T) {
	backend := &fakeBackend{booking: &Booking{
		BookingReference: "FB123",
		Status:           BookingPending,
		PaymentStatus:    PaymentPending,
	}}
	o, store := newTestOrchestrator(t, backend, &fakeSearcher{}, 2*time.Millisecond, 3)

	id := advanceToDetails(t, o, store, "seat-1")
	_, err := o.Submit(context.Background(), id)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		s, err := store.Get(id)
		return err == nil && s.Phase == PhaseStillProcessing
	}, 2*time.Second, 5*time.Millisecond)

	// The budget caps the number of fetches; no 4th attempt after settling.
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 3, backend.pollCount())
}

func TestPolling_CancelDuringLastAttemptKeepsPhase(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	backend := &fakeBackend{
		booking: &Booking{BookingReference: "FB123", Status: BookingPending, PaymentStatus: PaymentPending},
		getBooking: func(_ int) (*Booking, error) {
			close(entered)
			<-release
			return &Booking{BookingReference: "FB123", Status: BookingPending, PaymentStatus: PaymentPending}, nil
		},
	}
	o, store := newTestOrchestrator(t, backend, &fakeSearcher{}, 2*time.Millisecond, 1)

	id := advanceToDetails(t, o, store, "seat-1")
	_, err := o.Submit(context.Background(), id)
	require.NoError(t, err)

	// Stop the cycle and settle the phase while its final fetch is in
	// flight; the stale cycle must not overwrite the settled phase.
	<-entered
	o.StopPolling(id)
	_, err = store.Dispatch(id, setPhase{Phase: PhaseCancelled})
	require.NoError(t, err)
	close(release)

	time.Sleep(30 * time.Millisecond)
	s, err := store.Get(id)
	require.NoError(t, err)
	assert.Equal(t, PhaseCancelled, s.Phase)
}

func TestCancel_PendingPaymentRejectedLocally(t *testing.T) {
	backend := &fakeBackend{booking: &Booking{
		BookingReference: "FB123",
		Status:           BookingPending,
		PaymentStatus:    PaymentPending,
	}}
	o, store := newTestOrchestrator(t, backend, &fakeSearcher{}, time.Minute, 24)

	id := advanceToDetails(t, o, store, "seat-1")
	_, err := o.Submit(context.Background(), id)
	require.NoError(t, err)

	_, err = o.Cancel(context.Background(), id)
	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, ErrorCodeCancelNotAllowed, appErr.Code)
	assert.Zero(t, backend.cancelCalls, "local guard must not reach the backend")
}

func TestCancel_ConfirmedBooking(t *testing.T) {
	backend := &fakeBackend{booking: &Booking{
		BookingReference: "FB123",
		Status:           BookingConfirmed,
		PaymentStatus:    PaymentCompleted,
	}}
	o, store := newTestOrchestrator(t, backend, &fakeSearcher{}, time.Minute, 24)

	id := advanceToDetails(t, o, store, "seat-1")
	_, err := o.Submit(context.Background(), id)
	require.NoError(t, err)

	s, err := o.Cancel(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 1, backend.cancelCalls)
	assert.Equal(t, PhaseCancelled, s.Phase)
	require.NotNil(t, s.FinalizedBooking)
	assert.Equal(t, BookingCancelled, s.FinalizedBooking.Status)
}

func TestCancel_WithoutBookingRejected(t *testing.T) {
	o, store := newTestOrchestrator(t, &fakeBackend{}, &fakeSearcher{}, time.Minute, 24)
	s := store.Create()

	_, err := o.Cancel(context.Background(), s.ID)
	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, ErrorCodeCancelNotAllowed, appErr.Code)
}

func TestBookAnother_KeepsCriteriaDropsBooking(t *testing.T) {
	backend := &fakeBackend{booking: &Booking{
		BookingReference: "FB123",
		Status:           BookingConfirmed,
		PaymentStatus:    PaymentCompleted,
	}}
	o, store := newTestOrchestrator(t, backend, &fakeSearcher{}, time.Minute, 24)

	id := advanceToDetails(t, o, store, "seat-1")
	_, err := o.Submit(context.Background(), id)
	require.NoError(t, err)

	s, err := o.BookAnother(id)
	require.NoError(t, err)
	assert.Equal(t, PhaseSearching, s.Phase)
	assert.Nil(t, s.FinalizedBooking)
	assert.Empty(t, s.SelectedSeatIDs)
	assert.Empty(t, s.PassengerDetails.PassengerName)
	assert.Equal(t, "DEL", s.SearchCriteria.Origin)
}

func TestQuote_ZeroWithoutSelection(t *testing.T) {
	backend := &fakeBackend{}
	o, store := newTestOrchestrator(t, backend, &fakeSearcher{}, time.Minute, 24)
	s := store.Create()

	q, err := o.Quote(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Equal(t, Quote{}, q)
}

func TestQuote_UsesLiveSeatFees(t *testing.T) {
	o, store := newTestOrchestrator(t, &fakeBackend{}, &fakeSearcher{}, time.Minute, 24)
	ctx := context.Background()

	s := store.Create()
	_, err := o.Search(ctx, s.ID, searchRequest(1))
	require.NoError(t, err)
	_, err = o.SelectFlight(ctx, s.ID, "FL-1")
	require.NoError(t, err)
	_, err = o.ToggleSeat(ctx, s.ID, "seat-1")
	require.NoError(t, err)

	q, err := o.Quote(ctx, s.ID)
	require.NoError(t, err)
	// 4200 + 500 fee, 12% tax.
	assert.Equal(t, 4700.0, q.Subtotal)
	assert.Equal(t, 564.0, q.Tax)
	assert.Equal(t, 5264.0, q.Total)
}
