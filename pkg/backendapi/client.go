package backendapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"flybooker/internal/booking"
	"flybooker/internal/flight"
	"flybooker/pkg/logger"
)

// APIError is a non-2xx answer from the backend, as opposed to a failure to
// reach it at all.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("backend returned %d", e.StatusCode)
}

// HTTPStatus exposes the upstream status so callers can separate business
// rejections from transport failures without importing this package's types.
func (e *APIError) HTTPStatus() int {
	return e.StatusCode
}

// errorEnvelope is the backend's error body shape.
type errorEnvelope struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Client talks to the FlyBooker backend REST API. It is a thin wrapper: no
// retries, no caching, the coarse timeout comes from the injected
// http.Client.
type Client struct {
	httpClient *http.Client
	baseURL    string
	logger     logger.Client
}

func NewClient(httpClient *http.Client, baseURL string, logger logger.Client) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    baseURL,
		logger:     logger,
	}
}

func (c *Client) GetFlight(ctx context.Context, id string) (*flight.Flight, error) {
	var f flight.Flight
	if err := c.doJSON(ctx, http.MethodGet, "/flights/"+url.PathEscape(id), nil, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

func (c *Client) SearchFlights(ctx context.Context, criteria flight.SearchCriteria) ([]flight.Flight, error) {
	var flights []flight.Flight
	if err := c.doJSON(ctx, http.MethodPost, "/flights/search", criteria, &flights); err != nil {
		return nil, err
	}
	return flights, nil
}

func (c *Client) GetSeats(ctx context.Context, flightID string) ([]flight.Seat, error) {
	var seats []flight.Seat
	if err := c.doJSON(ctx, http.MethodGet, "/seats/flight/"+url.PathEscape(flightID), nil, &seats); err != nil {
		return nil, err
	}
	return seats, nil
}

func (c *Client) CreateBooking(ctx context.Context, req booking.CreateBookingRequest) (*booking.Booking, error) {
	var b booking.Booking
	if err := c.doJSON(ctx, http.MethodPost, "/bookings", req, &b); err != nil {
		return nil, err
	}
	if b.BookingReference == "" {
		return nil, fmt.Errorf("backend accepted booking but returned no reference")
	}
	return &b, nil
}

func (c *Client) GetBooking(ctx context.Context, reference string) (*booking.Booking, error) {
	var b booking.Booking
	if err := c.doJSON(ctx, http.MethodGet, "/bookings/"+url.PathEscape(reference), nil, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

func (c *Client) CancelBooking(ctx context.Context, reference string) error {
	return c.doJSON(ctx, http.MethodDelete, "/bookings/"+url.PathEscape(reference), nil, nil)
}

func (c *Client) GetBookingsByEmail(ctx context.Context, email string) ([]booking.Booking, error) {
	var bookings []booking.Booking
	if err := c.doJSON(ctx, http.MethodGet, "/bookings/email/"+url.PathEscape(email), nil, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

// doJSON issues one request and decodes the JSON answer into out (when out
// is non-nil). Non-2xx statuses become *APIError carrying the backend's
// error message when its envelope is decodable.
func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("backend call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}

		var envelope errorEnvelope
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil {
			if envelope.Error != "" {
				apiErr.Message = envelope.Error
			} else {
				apiErr.Message = envelope.Message
			}
		}

		c.logger.Warn("backend request rejected",
			logger.Field{Key: "method", Value: method},
			logger.Field{Key: "path", Value: path},
			logger.Field{Key: "status", Value: resp.StatusCode},
		)
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode backend response: %w", err)
	}
	return nil
}
