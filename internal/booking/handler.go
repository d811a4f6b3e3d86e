package booking

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"flybooker/internal/flight"
)

type Handler struct {
	orchestrator *Orchestrator
	store        *Store
}

func NewHandler(o *Orchestrator, store *Store) *Handler {
	return &Handler{
		orchestrator: o,
		store:        store,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	v1 := router.Group("/fb/v1")

	v1.POST("/sessions", h.CreateSessionHandler)
	v1.GET("/sessions/:id", h.GetSessionHandler)
	v1.POST("/sessions/:id/search", h.SearchHandler)
	v1.POST("/sessions/:id/flights/:flightId/select", h.SelectFlightHandler)
	v1.GET("/sessions/:id/seats", h.SeatsHandler)
	v1.POST("/sessions/:id/seats/:seatId/toggle", h.ToggleSeatHandler)
	v1.POST("/sessions/:id/proceed", h.ProceedHandler)
	v1.PATCH("/sessions/:id/details", h.UpdateDetailsHandler)
	v1.POST("/sessions/:id/submit", h.SubmitHandler)
	v1.POST("/sessions/:id/cancel", h.CancelHandler)
	v1.POST("/sessions/:id/book-another", h.BookAnotherHandler)
	v1.POST("/sessions/:id/reset", h.ResetHandler)
	v1.GET("/bookings/email/:email", h.BookingsByEmailHandler)
}

// SessionResponse pairs the session snapshot with its recomputed quote.
type SessionResponse struct {
	Session Session `json:"session"`
	Quote   Quote   `json:"quote"`
}

func (h *Handler) CreateSessionHandler(c *gin.Context) {
	s := h.store.Create()
	c.JSON(http.StatusCreated, SessionResponse{Session: s})
}

// GetSessionHandler godoc
// @Summary      Session snapshot
// @Description  Returns the booking session with its live price quote. When the booking is awaiting payment the status is re-fetched once on demand.
// @Tags         sessions
// @Produce      json
// @Param        id path string true "Session ID"
// @Success      200 {object} SessionResponse
// @Failure      404 {object} map[string]string
// @Router       /fb/v1/sessions/{id} [get]
func (h *Handler) GetSessionHandler(c *gin.Context) {
	id := c.Param("id")

	s, err := h.store.Get(id)
	if err != nil {
		sendError(c, err)
		return
	}

	// Manual refresh semantics once the automatic poll has stopped.
	if s.Phase == PhaseStillProcessing || s.Phase == PhaseAwaitingPayment {
		if refreshed, err := h.orchestrator.Refresh(c.Request.Context(), id); err == nil {
			s = refreshed
		}
	}

	quote, err := h.orchestrator.Quote(c.Request.Context(), id)
	if err != nil {
		sendError(c, err)
		return
	}

	c.JSON(http.StatusOK, SessionResponse{Session: s, Quote: quote})
}

func (h *Handler) SearchHandler(c *gin.Context) {
	var req flight.SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid JSON body",
			"code":  ErrorCodeValidation,
		})
		return
	}

	response, err := h.orchestrator.Search(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		sendError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *Handler) SelectFlightHandler(c *gin.Context) {
	s, err := h.orchestrator.SelectFlight(c.Request.Context(), c.Param("id"), c.Param("flightId"))
	if err != nil {
		sendError(c, err)
		return
	}
	c.JSON(http.StatusOK, SessionResponse{Session: s})
}

func (h *Handler) SeatsHandler(c *gin.Context) {
	seats, err := h.orchestrator.Seats(c.Request.Context(), c.Param("id"))
	if err != nil {
		sendError(c, err)
		return
	}
	c.JSON(http.StatusOK, seats)
}

func (h *Handler) ToggleSeatHandler(c *gin.Context) {
	id := c.Param("id")

	s, err := h.orchestrator.ToggleSeat(c.Request.Context(), id, c.Param("seatId"))
	if err != nil {
		sendError(c, err)
		return
	}

	quote, err := h.orchestrator.Quote(c.Request.Context(), id)
	if err != nil {
		sendError(c, err)
		return
	}

	c.JSON(http.StatusOK, SessionResponse{Session: s, Quote: quote})
}

// ProceedHandler godoc
// @Summary      Proceed to passenger details
// @Description  Enforces that exactly one seat per passenger is selected before the details step.
// @Tags         sessions
// @Produce      json
// @Param        id path string true "Session ID"
// @Success      200 {object} SessionResponse
// @Failure      422 {object} map[string]string
// @Router       /fb/v1/sessions/{id}/proceed [post]
func (h *Handler) ProceedHandler(c *gin.Context) {
	s, err := h.orchestrator.ProceedToDetails(c.Param("id"))
	if err != nil {
		sendError(c, err)
		return
	}
	c.JSON(http.StatusOK, SessionResponse{Session: s})
}

func (h *Handler) UpdateDetailsHandler(c *gin.Context) {
	var details PassengerDetails
	if err := c.ShouldBindJSON(&details); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid JSON body",
			"code":  ErrorCodeValidation,
		})
		return
	}

	s, err := h.orchestrator.UpdateDetails(c.Param("id"), details)
	if err != nil {
		sendError(c, err)
		return
	}
	c.JSON(http.StatusOK, SessionResponse{Session: s})
}

func (h *Handler) SubmitHandler(c *gin.Context) {
	s, err := h.orchestrator.Submit(c.Request.Context(), c.Param("id"))
	if err != nil {
		sendError(c, err)
		return
	}
	c.JSON(http.StatusCreated, SessionResponse{Session: s})
}

func (h *Handler) CancelHandler(c *gin.Context) {
	s, err := h.orchestrator.Cancel(c.Request.Context(), c.Param("id"))
	if err != nil {
		sendError(c, err)
		return
	}
	c.JSON(http.StatusOK, SessionResponse{Session: s})
}

func (h *Handler) BookAnotherHandler(c *gin.Context) {
	s, err := h.orchestrator.BookAnother(c.Param("id"))
	if err != nil {
		sendError(c, err)
		return
	}
	c.JSON(http.StatusOK, SessionResponse{Session: s})
}

func (h *Handler) ResetHandler(c *gin.Context) {
	s, err := h.orchestrator.Reset(c.Param("id"))
	if err != nil {
		sendError(c, err)
		return
	}
	c.JSON(http.StatusOK, SessionResponse{Session: s})
}

func (h *Handler) BookingsByEmailHandler(c *gin.Context) {
	bookings, err := h.orchestrator.BookingsByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		sendError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookings)
}

func sendError(c *gin.Context, err error) {
	var appErr *AppError

	if errors.As(err, &appErr) {
		c.JSON(appErr.Status, gin.H{
			"error": appErr.Message,
			"code":  appErr.Code,
		})
		return
	}

	// Default to 500 for unknown errors
	c.JSON(http.StatusInternalServerError, gin.H{
		"error":   "Internal Server Error",
		"code":    ErrorCodeInternalFailure,
		"details": err.Error(),
	})
}
