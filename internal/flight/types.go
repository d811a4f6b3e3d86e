package flight

import "time"

// TravelClass is the fare tier that constrains which seats are selectable.
type TravelClass string

const (
	ClassEconomy        TravelClass = "ECONOMY"
	ClassPremiumEconomy TravelClass = "PREMIUM_ECONOMY"
	ClassBusiness       TravelClass = "BUSINESS"
	ClassFirst          TravelClass = "FIRST"
)

func (c TravelClass) Valid() bool {
	switch c {
	case ClassEconomy, ClassPremiumEconomy, ClassBusiness, ClassFirst:
		return true
	}
	return false
}

type SeatStatus string

const (
	SeatAvailable SeatStatus = "AVAILABLE"
	SeatOccupied  SeatStatus = "OCCUPIED"
	SeatBlocked   SeatStatus = "BLOCKED"
)

// SearchCriteria is replaced wholesale on every search submission.
type SearchCriteria struct {
	Origin        string      `json:"origin"`
	Destination   string      `json:"destination"`
	DepartureDate string      `json:"departureDate"`
	ReturnDate    string      `json:"returnDate,omitempty"`
	Passengers    int         `json:"passengers"`
	TravelClass   TravelClass `json:"travelClass"`
}

// Flight is immutable once fetched; the backend is authoritative for
// availability and price.
type Flight struct {
	ID                 string    `json:"id"`
	Airline            string    `json:"airline"`
	FlightNumber       string    `json:"flightNumber"`
	OriginAirport      string    `json:"originAirport"`
	DestinationAirport string    `json:"destinationAirport"`
	DepartureTime      time.Time `json:"departureTime"`
	ArrivalTime        time.Time `json:"arrivalTime"`
	Duration           string    `json:"duration"`
	DurationMinutes    int       `json:"durationMinutes"`
	Price              float64   `json:"price"`
	AvailableSeats     int       `json:"availableSeats"`
}

// Seat status and class are authoritative from the backend; the client only
// tracks which seat IDs the user has tentatively chosen.
type Seat struct {
	ID            string      `json:"id"`
	SeatNumber    string      `json:"seatNumber"`
	SeatClass     TravelClass `json:"seatClass"`
	Status        SeatStatus  `json:"status"`
	AdditionalFee float64     `json:"additionalFee"`
}

func (s Seat) Selectable() bool {
	return s.Status == SeatAvailable
}

type SortOptions struct {
	By    string `json:"by"`    // price, duration, departure_time
	Order string `json:"order"` // asc, desc
}

type SearchRequest struct {
	SearchCriteria
	Sort *SortOptions `json:"sort,omitempty"`
}

type Metadata struct {
	TotalResults uint32 `json:"total_results"`
	SearchTimeMs uint32 `json:"search_time_ms"`
	CacheKey     string `json:"cache_key,omitempty"`
	CacheHit     bool   `json:"cache_hit"`
}

type SearchResponse struct {
	SearchCriteria SearchCriteria `json:"search_criteria"`
	Metadata       Metadata       `json:"metadata"`
	Flights        []Flight       `json:"flights"`
}
