package booking

import (
	"time"

	"flybooker/internal/flight"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCancelled BookingStatus = "CANCELLED"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentFailed    PaymentStatus = "FAILED"
)

type PaymentMethod string

const (
	PaymentCreditCard   PaymentMethod = "CREDIT_CARD"
	PaymentDebitCard    PaymentMethod = "DEBIT_CARD"
	PaymentUPI          PaymentMethod = "UPI"
	PaymentBankTransfer PaymentMethod = "BANK_TRANSFER"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCreditCard, PaymentDebitCard, PaymentUPI, PaymentBankTransfer:
		return true
	}
	return false
}

// PassengerDetails is free-form until validated at the details guard.
type PassengerDetails struct {
	PassengerName  string        `json:"passengerName"`
	PassengerEmail string        `json:"passengerEmail"`
	PassengerPhone string        `json:"passengerPhone"`
	PaymentMethod  PaymentMethod `json:"paymentMethod"`
}

// Booking is server-issued and read-mostly on the client; the backend is
// authoritative for both statuses.
type Booking struct {
	BookingReference   string        `json:"bookingReference"`
	Airline            string        `json:"airline"`
	FlightNumber       string        `json:"flightNumber"`
	OriginAirport      string        `json:"originAirport"`
	DestinationAirport string        `json:"destinationAirport"`
	DepartureTime      time.Time     `json:"departureTime"`
	ArrivalTime        time.Time     `json:"arrivalTime"`
	PassengerName      string        `json:"passengerName"`
	PassengerEmail     string        `json:"passengerEmail"`
	PassengerPhone     string        `json:"passengerPhone"`
	SeatNumbers        []string      `json:"seatNumbers"`
	TotalAmount        float64       `json:"totalAmount"`
	Status             BookingStatus `json:"status"`
	PaymentStatus      PaymentStatus `json:"paymentStatus"`
}

// CreateBookingRequest is the submission payload for POST /bookings.
type CreateBookingRequest struct {
	FlightID       string        `json:"flightId"`
	PassengerName  string        `json:"passengerName"`
	PassengerEmail string        `json:"passengerEmail"`
	PassengerPhone string        `json:"passengerPhone"`
	SeatIDs        []string      `json:"seatIds"`
	PaymentMethod  PaymentMethod `json:"paymentMethod"`
}

// Phase is the coarse lifecycle position of a session.
type Phase string

const (
	PhaseSearching       Phase = "SEARCHING"
	PhaseResults         Phase = "RESULTS"
	PhaseSelectingSeats  Phase = "SELECTING_SEATS"
	PhaseEnteringDetails Phase = "ENTERING_DETAILS"
	PhaseSubmitting      Phase = "SUBMITTING"
	PhaseAwaitingPayment Phase = "AWAITING_PAYMENT"
	PhaseStillProcessing Phase = "STILL_PROCESSING"
	PhaseConfirmed       Phase = "CONFIRMED"
	PhaseFailed          Phase = "FAILED"
	PhaseCancelled       Phase = "CANCELLED"
)

func defaultCriteria() flight.SearchCriteria {
	return flight.SearchCriteria{
		Passengers:  1,
		TravelClass: flight.ClassEconomy,
	}
}
