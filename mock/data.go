package main

import "fmt"

func defaultFlights() []Flight {
	return []Flight{
		{
			ID:                 "FL-IND-6E201",
			Airline:            "IndiGo",
			FlightNumber:       "6E-201",
			OriginAirport:      "DEL",
			DestinationAirport: "BOM",
			DepartureTime:      "2026-10-01T06:30:00Z",
			ArrivalTime:        "2026-10-01T08:45:00Z",
			Duration:           "2h 15m",
			DurationMinutes:    135,
			Price:              4200,
			AvailableSeats:     42,
		},
		{
			ID:                 "FL-AI-AI805",
			Airline:            "Air India",
			FlightNumber:       "AI-805",
			OriginAirport:      "DEL",
			DestinationAirport: "BOM",
			DepartureTime:      "2026-10-01T09:15:00Z",
			ArrivalTime:        "2026-10-01T11:45:00Z",
			Duration:           "2h 30m",
			DurationMinutes:    150,
			Price:              5400,
			AvailableSeats:     28,
		},
		{
			ID:                 "FL-VST-UK995",
			Airline:            "Vistara",
			FlightNumber:       "UK-995",
			OriginAirport:      "DEL",
			DestinationAirport: "BOM",
			DepartureTime:      "2026-10-01T18:00:00Z",
			ArrivalTime:        "2026-10-01T20:00:00Z",
			Duration:           "2h 0m",
			DurationMinutes:    120,
			Price:              6900,
			AvailableSeats:     15,
		},
		{
			ID:                 "FL-IND-6E555",
			Airline:            "IndiGo",
			FlightNumber:       "6E-555",
			OriginAirport:      "BLR",
			DestinationAirport: "DEL",
			DepartureTime:      "2026-10-02T07:00:00Z",
			ArrivalTime:        "2026-10-02T09:50:00Z",
			Duration:           "2h 50m",
			DurationMinutes:    170,
			Price:              5100,
			AvailableSeats:     33,
		},
	}
}

// defaultSeats lays out 10 rows of 6: rows 1-2 business, 3-4 premium
// economy, the rest economy. A deterministic scatter of seats starts out
// occupied.
func defaultSeats(flightID string) []Seat {
	letters := []string{"A", "B", "C", "D", "E", "F"}
	seats := make([]Seat, 0, 60)

	for row := 1; row <= 10; row++ {
		for col, letter := range letters {
			class := "ECONOMY"
			fee := 0.0
			switch {
			case row <= 2:
				class = "BUSINESS"
				fee = 2000
			case row <= 4:
				class = "PREMIUM_ECONOMY"
				fee = 800
			case row == 5:
				// Exit row legroom surcharge.
				fee = 350
			}

			status := "AVAILABLE"
			if (row*7+col*3)%5 == 0 {
				status = "OCCUPIED"
			}

			seats = append(seats, Seat{
				ID:            fmt.Sprintf("%s-%d%s", flightID, row, letter),
				SeatNumber:    fmt.Sprintf("%d%s", row, letter),
				SeatClass:     class,
				Status:        status,
				AdditionalFee: fee,
			})
		}
	}
	return seats
}
