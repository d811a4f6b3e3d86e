package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
)

func main() {
	// Default port
	port := "8081"

	// Check if port is provided as command line argument
	if len(os.Args) > 1 {
		port = os.Args[1]
	}

	srv := NewBackend()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /fb/api/v1/flights/search", srv.SearchFlightsHandler)
	mux.HandleFunc("GET /fb/api/v1/flights/{id}", srv.GetFlightHandler)
	mux.HandleFunc("GET /fb/api/v1/seats/flight/{flightId}", srv.GetSeatsHandler)
	mux.HandleFunc("POST /fb/api/v1/bookings", srv.CreateBookingHandler)
	mux.HandleFunc("GET /fb/api/v1/bookings/{ref}", srv.GetBookingHandler)
	mux.HandleFunc("DELETE /fb/api/v1/bookings/{ref}", srv.CancelBookingHandler)
	mux.HandleFunc("GET /fb/api/v1/bookings/email/{email}", srv.GetBookingsByEmailHandler)

	addr := fmt.Sprintf(":%s", port)
	fmt.Printf("FlyBooker Mock Backend running on port %s...\n", port)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatal(err)
	}
}
