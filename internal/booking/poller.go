package booking

import (
	"context"
	"time"

	"flybooker/pkg/logger"
)

// StartPolling begins the payment confirmation loop for a booking. At most
// one poll cycle runs per session: starting a new one first cancels the
// previous cycle so the same booking reference is never fetched twice
// concurrently.
func (o *Orchestrator) StartPolling(sessionID, reference string) {
	ctx, cancel := context.WithCancel(context.Background())

	o.mu.Lock()
	if prev, ok := o.pollers[sessionID]; ok {
		prev()
	}
	o.pollers[sessionID] = cancel
	o.mu.Unlock()

	go o.pollPayment(ctx, sessionID, reference)
}

// StopPolling cancels the active poll cycle for a session, if any.
func (o *Orchestrator) StopPolling(sessionID string) {
	o.mu.Lock()
	if cancel, ok := o.pollers[sessionID]; ok {
		cancel()
		delete(o.pollers, sessionID)
	}
	o.mu.Unlock()
}

// pollPayment re-fetches the booking on a fixed interval while payment is
// PENDING. It stops when the status settles or the poll budget is spent;
// budget exhaustion is a neutral stop (the session moves to
// STILL_PROCESSING), not an error.
func (o *Orchestrator) pollPayment(ctx context.Context, sessionID, reference string) {
	ticker := time.NewTicker(o.pollInterval)
	defer ticker.Stop()

	for attempts := 0; attempts < o.pollBudget; {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			attempts++

			b, err := o.backend.GetBooking(ctx, reference)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				o.logger.Warn("payment status poll failed",
					logger.Field{Key: "booking_reference", Value: reference},
					logger.Field{Key: "attempt", Value: attempts},
					logger.Err(err),
				)
				continue
			}

			if _, err := o.store.Dispatch(sessionID, SetBooking{Booking: *b}); err != nil {
				// Session gone (reset or deleted): nothing left to poll for.
				o.logger.Warn("stopping poll, session unavailable",
					logger.Field{Key: "session_id", Value: sessionID}, logger.Err(err))
				return
			}

			if b.PaymentStatus != PaymentPending {
				if _, err := o.store.Dispatch(sessionID, setPhase{Phase: phaseForBooking(*b)}); err != nil {
					o.logger.Error("failed to settle session phase", logger.Err(err))
				}
				o.logger.Info("payment status settled",
					logger.Field{Key: "booking_reference", Value: reference},
					logger.Field{Key: "payment_status", Value: string(b.PaymentStatus)},
					logger.Field{Key: "attempts", Value: attempts},
				)
				return
			}
		}
	}

	// A cancel that raced the last attempt wins: the phase it set stands.
	if ctx.Err() != nil {
		return
	}

	// Budget spent with payment still pending: stop quietly and leave the
	// next status check to a manual refresh.
	o.logger.Info("poll budget exhausted, payment still pending",
		logger.Field{Key: "booking_reference", Value: reference},
		logger.Field{Key: "attempts", Value: o.pollBudget},
	)
	if _, err := o.store.Dispatch(sessionID, setPhase{Phase: PhaseStillProcessing}); err != nil {
		o.logger.Warn("failed to mark session still-processing", logger.Err(err))
	}
}
