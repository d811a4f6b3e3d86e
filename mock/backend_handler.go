package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"
)

// paymentSettleAfter is how long a booking's payment stays PENDING before
// the mock flips it to COMPLETED.
const paymentSettleAfter = 30 * time.Second

type SearchRequest struct {
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	DepartureDate string `json:"departureDate"` // Format: YYYY-MM-DD
	ReturnDate    string `json:"returnDate"`
	Passengers    int    `json:"passengers"`
	TravelClass   string `json:"travelClass"`
}

type Flight struct {
	ID                 string  `json:"id"`
	Airline            string  `json:"airline"`
	FlightNumber       string  `json:"flightNumber"`
	OriginAirport      string  `json:"originAirport"`
	DestinationAirport string  `json:"destinationAirport"`
	DepartureTime      string  `json:"departureTime"`
	ArrivalTime        string  `json:"arrivalTime"`
	Duration           string  `json:"duration"`
	DurationMinutes    int     `json:"durationMinutes"`
	Price              float64 `json:"price"`
	AvailableSeats     int     `json:"availableSeats"`
}

type Seat struct {
	ID            string  `json:"id"`
	SeatNumber    string  `json:"seatNumber"`
	SeatClass     string  `json:"seatClass"`
	Status        string  `json:"status"`
	AdditionalFee float64 `json:"additionalFee"`
}

type CreateBookingRequest struct {
	FlightID       string   `json:"flightId"`
	PassengerName  string   `json:"passengerName"`
	PassengerEmail string   `json:"passengerEmail"`
	PassengerPhone string   `json:"passengerPhone"`
	SeatIDs        []string `json:"seatIds"`
	PaymentMethod  string   `json:"paymentMethod"`
}

type Booking struct {
	BookingReference   string   `json:"bookingReference"`
	Airline            string   `json:"airline"`
	FlightNumber       string   `json:"flightNumber"`
	OriginAirport      string   `json:"originAirport"`
	DestinationAirport string   `json:"destinationAirport"`
	DepartureTime      string   `json:"departureTime"`
	ArrivalTime        string   `json:"arrivalTime"`
	PassengerName      string   `json:"passengerName"`
	PassengerEmail     string   `json:"passengerEmail"`
	PassengerPhone     string   `json:"passengerPhone"`
	SeatNumbers        []string `json:"seatNumbers"`
	TotalAmount        float64  `json:"totalAmount"`
	Status             string   `json:"status"`
	PaymentStatus      string   `json:"paymentStatus"`
}

type storedBooking struct {
	booking   Booking
	createdAt time.Time
	cancelled bool
}

type Backend struct {
	mu       sync.Mutex
	flights  []Flight
	seats    map[string][]Seat
	bookings map[string]*storedBooking
	seq      int
}

func NewBackend() *Backend {
	flights := defaultFlights()
	seats := make(map[string][]Seat, len(flights))
	for _, f := range flights {
		seats[f.ID] = defaultSeats(f.ID)
	}

	return &Backend{
		flights:  flights,
		seats:    seats,
		bookings: make(map[string]*storedBooking),
	}
}

func (b *Backend) SearchFlightsHandler(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Origin == "" || req.Destination == "" {
		writeError(w, http.StatusBadRequest, "origin and destination are required")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	results := make([]Flight, 0, len(b.flights))
	for _, f := range b.flights {
		if strings.EqualFold(f.OriginAirport, req.Origin) && strings.EqualFold(f.DestinationAirport, req.Destination) {
			results = append(results, f)
		}
	}
	// An unknown route still answers with the whole schedule so the client
	// always has something to render.
	if len(results) == 0 {
		results = b.flights
	}

	writeJSON(w, http.StatusOK, results)
}

func (b *Backend) GetFlightHandler(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := r.PathValue("id")
	for _, f := range b.flights {
		if f.ID == id {
			writeJSON(w, http.StatusOK, f)
			return
		}
	}
	writeError(w, http.StatusNotFound, "flight not found: "+id)
}

func (b *Backend) GetSeatsHandler(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	flightID := r.PathValue("flightId")
	seats, ok := b.seats[flightID]
	if !ok {
		writeError(w, http.StatusNotFound, "flight not found: "+flightID)
		return
	}
	writeJSON(w, http.StatusOK, seats)
}

func (b *Backend) CreateBookingHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	var flight *Flight
	for i := range b.flights {
		if b.flights[i].ID == req.FlightID {
			flight = &b.flights[i]
			break
		}
	}
	if flight == nil {
		writeError(w, http.StatusNotFound, "flight not found: "+req.FlightID)
		return
	}
	if len(req.SeatIDs) == 0 {
		writeError(w, http.StatusUnprocessableEntity, "no seats requested")
		return
	}

	seatNumbers := make([]string, 0, len(req.SeatIDs))
	total := 0.0
	for _, seatID := range req.SeatIDs {
		seat := b.findSeat(req.FlightID, seatID)
		if seat == nil {
			writeError(w, http.StatusUnprocessableEntity, "unknown seat: "+seatID)
			return
		}
		if seat.Status != "AVAILABLE" {
			writeError(w, http.StatusUnprocessableEntity, "seat already taken: "+seat.SeatNumber)
			return
		}
		seatNumbers = append(seatNumbers, seat.SeatNumber)
		total += flight.Price + seat.AdditionalFee
	}
	total = total * 1.12

	for _, seatID := range req.SeatIDs {
		b.findSeat(req.FlightID, seatID).Status = "OCCUPIED"
	}

	b.seq++
	booking := Booking{
		BookingReference:   fmt.Sprintf("FB%06d", b.seq),
		Airline:            flight.Airline,
		FlightNumber:       flight.FlightNumber,
		OriginAirport:      flight.OriginAirport,
		DestinationAirport: flight.DestinationAirport,
		DepartureTime:      flight.DepartureTime,
		ArrivalTime:        flight.ArrivalTime,
		PassengerName:      req.PassengerName,
		PassengerEmail:     req.PassengerEmail,
		PassengerPhone:     req.PassengerPhone,
		SeatNumbers:        seatNumbers,
		TotalAmount:        total,
		Status:             "PENDING",
		PaymentStatus:      "PENDING",
	}
	b.bookings[booking.BookingReference] = &storedBooking{
		booking:   booking,
		createdAt: time.Now(),
	}

	writeJSON(w, http.StatusCreated, booking)
}

func (b *Backend) GetBookingHandler(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ref := r.PathValue("ref")
	stored, ok := b.bookings[ref]
	if !ok {
		writeError(w, http.StatusNotFound, "booking not found: "+ref)
		return
	}
	writeJSON(w, http.StatusOK, stored.current())
}

func (b *Backend) CancelBookingHandler(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ref := r.PathValue("ref")
	stored, ok := b.bookings[ref]
	if !ok {
		writeError(w, http.StatusNotFound, "booking not found: "+ref)
		return
	}
	if stored.current().PaymentStatus == "PENDING" {
		writeError(w, http.StatusConflict, "cannot cancel while payment is pending")
		return
	}

	stored.cancelled = true
	writeJSON(w, http.StatusOK, stored.current())
}

func (b *Backend) GetBookingsByEmailHandler(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()

	email := r.PathValue("email")
	results := make([]Booking, 0)
	for _, stored := range b.bookings {
		if strings.EqualFold(stored.booking.PassengerEmail, email) {
			results = append(results, stored.current())
		}
	}
	writeJSON(w, http.StatusOK, results)
}

func (b *Backend) findSeat(flightID, seatID string) *Seat {
	seats := b.seats[flightID]
	for i := range seats {
		if seats[i].ID == seatID {
			return &seats[i]
		}
	}
	return nil
}

// current derives the booking's live state. Payment settles after a fixed
// delay so the client's polling loop has something to wait for; a passenger
// name containing "fail" simulates a declined payment.
func (sb *storedBooking) current() Booking {
	b := sb.booking

	if sb.cancelled {
		b.Status = "CANCELLED"
		b.PaymentStatus = "COMPLETED"
		return b
	}

	if time.Since(sb.createdAt) >= paymentSettleAfter {
		if strings.Contains(strings.ToLower(b.PassengerName), "fail") {
			b.PaymentStatus = "FAILED"
		} else {
			b.Status = "CONFIRMED"
			b.PaymentStatus = "COMPLETED"
		}
	}
	return b
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
