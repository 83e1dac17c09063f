package eligibility

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/wildanre/Evently-sub001/internal/models"
)

// Client performs the network operations the tracker drives. The REST
// implementation lives in internal/client; tests substitute their own.
type Client interface {
	// JoinStatus fetches the registration state for the event
	JoinStatus(ctx context.Context, eventID string) (models.RegistrationState, error)
	// Register joins the event; the response reports whether organizer
	// approval is still required
	Register(ctx context.Context, eventID string) (requireApproval bool, err error)
	// Unregister leaves or cancels a registration
	Unregister(ctx context.Context, eventID string) error
	// CheckPayment reports whether a successful payment is recorded for
	// the event/user pair
	CheckPayment(ctx context.Context, eventID, email string) (bool, error)
}

// Tracker caches the registration and payment state of one event/user
// pair and applies the workflow rules around it: optimistic transitions
// after successful calls, an in-flight guard against duplicate join or
// leave requests, and the auto-join side effect after payment.
//
// Cached fields are overwritten by whatever server response resolves
// last; concurrent status reads are idempotent and may race.
type Tracker struct {
	client Client
	event  models.Event
	email  string
	authed bool

	mu      sync.Mutex
	state   models.RegistrationState
	hasPaid bool
	busy    bool
}

// NewTracker starts from the fail-safe defaults: not joined, not paid.
// Call Refresh to load the server's view.
func NewTracker(c Client, event models.Event, email string, authenticated bool) *Tracker {
	return &Tracker{
		client: c,
		event:  event,
		email:  email,
		authed: authenticated,
		state:  models.RegistrationNotJoined,
	}
}

// State returns the cached registration state
func (t *Tracker) State() models.RegistrationState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// HasPaid returns the cached payment state
func (t *Tracker) HasPaid() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.hasPaid
}

// Evaluate computes the current call-to-action from the cached state
func (t *Tracker) Evaluate() View {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Evaluate(Input{
		IsAuthenticated: t.authed,
		IsPaidEvent:     t.event.IsPaid(),
		RequireApproval: t.event.RequireApproval,
		DeferredPayment: t.event.DeferredPayment,
		State:           t.state,
		HasPaid:         t.hasPaid,
	})
}

// Refresh reloads registration and payment state from the server. Each
// read that fails leaves its fail-safe default in place rather than
// assuming a positive state.
func (t *Tracker) Refresh(ctx context.Context) {
	if !t.authed {
		return
	}

	state, err := t.client.JoinStatus(ctx, t.event.ID)
	if err != nil {
		log.Printf("[ELIGIBILITY] join-status check failed for event %s: %v", t.event.ID, err)
		state = models.RegistrationNotJoined
	}
	t.mu.Lock()
	t.state = state
	t.mu.Unlock()

	if err := t.CheckPaymentStatus(ctx); err != nil {
		log.Printf("[ELIGIBILITY] payment check failed for event %s: %v", t.event.ID, err)
	}
}

// Join registers the user for the event. On success the cached state
// moves to pending or joined depending on the approval requirement, and
// the returned message includes a payment prompt when a paid ticket is
// still outstanding. Failures leave the state untouched.
func (t *Tracker) Join(ctx context.Context) (string, error) {
	if !t.authed {
		return "", fmt.Errorf("%w: log in to join this event", ErrAuthRequired)
	}

	t.mu.Lock()
	if t.busy {
		t.mu.Unlock()
		return "", ErrOperationInFlight
	}
	t.busy = true
	prior := t.state
	t.mu.Unlock()
	defer t.clearBusy()

	requireApproval, err := t.client.Register(ctx, t.event.ID)
	if err != nil {
		switch {
		case errors.Is(err, ErrAlreadyRegistered):
			if prior == models.RegistrationRejected {
				// The backend rejected a re-registration it is
				// expected to accept after a rejection; surface the
				// conflict instead of silently flipping to joined.
				return "", fmt.Errorf("%w: your previous request was rejected, try again later", ErrAlreadyRegistered)
			}
			t.setState(models.RegistrationJoined)
			return "You are already registered for this event", nil
		case errors.Is(err, ErrEventFull):
			return "", fmt.Errorf("%w: no spots left", ErrEventFull)
		case errors.Is(err, ErrNotFound):
			return "", fmt.Errorf("%w: the event no longer exists", ErrNotFound)
		default:
			return "", fmt.Errorf("could not join the event: %w", err)
		}
	}

	msg := "You joined the event"
	if requireApproval || t.event.RequireApproval {
		t.setState(models.RegistrationPending)
		msg = "Join request sent, waiting for organizer approval"
	} else {
		t.setState(models.RegistrationJoined)
	}

	if t.event.IsPaid() && !t.HasPaid() {
		// Payment prompt rides along with the success notice; it does
		// not block the state transition.
		msg += ". Complete your ticket payment to secure your spot"
	}
	return msg, nil
}

// Leave unregisters the user. Valid only while joined or pending; the
// message distinguishes canceling a pending request from leaving.
func (t *Tracker) Leave(ctx context.Context) (string, error) {
	if !t.authed {
		return "", fmt.Errorf("%w: log in first", ErrAuthRequired)
	}

	t.mu.Lock()
	if t.busy {
		t.mu.Unlock()
		return "", ErrOperationInFlight
	}
	prior := t.state
	if prior != models.RegistrationJoined && prior != models.RegistrationPending {
		t.mu.Unlock()
		return "", fmt.Errorf("not registered for this event")
	}
	t.busy = true
	t.mu.Unlock()
	defer t.clearBusy()

	if err := t.client.Unregister(ctx, t.event.ID); err != nil {
		return "", fmt.Errorf("could not leave the event: %w", err)
	}

	t.setState(models.RegistrationNotJoined)
	if prior == models.RegistrationPending {
		return "Join request canceled", nil
	}
	return "You left the event", nil
}

// CheckPaymentStatus polls the payment state. When payment flips to
// recorded while the user never registered for an approval-free event,
// exactly one join is issued on their behalf. The auto-join never
// re-triggers once the registration state left not_joined, and repeat
// polls with payment already recorded do not issue another join.
func (t *Tracker) CheckPaymentStatus(ctx context.Context) error {
	if !t.authed {
		return nil
	}

	paid, err := t.client.CheckPayment(ctx, t.event.ID, t.email)
	if err != nil {
		// Unreachable payment status is never assumed positive.
		return fmt.Errorf("payment status check failed: %w", err)
	}

	t.mu.Lock()
	wasPaid := t.hasPaid
	t.hasPaid = paid
	state := t.state
	t.mu.Unlock()

	if paid && !wasPaid && state == models.RegistrationNotJoined && !t.event.RequireApproval {
		log.Printf("[ELIGIBILITY] payment detected before registration for event %s, auto-joining", t.event.ID)
		if _, err := t.Join(ctx); err != nil && !errors.Is(err, ErrOperationInFlight) {
			return fmt.Errorf("auto-join after payment failed: %w", err)
		}
	}
	return nil
}

// RefreshPaymentStatus re-runs the payment check, e.g. after the user
// returns from the payment provider
func (t *Tracker) RefreshPaymentStatus(ctx context.Context) error {
	return t.CheckPaymentStatus(ctx)
}

func (t *Tracker) setState(s models.RegistrationState) {
	t.mu.Lock()
	t.state = s
	t.mu.Unlock()
}

func (t *Tracker) clearBusy() {
	t.mu.Lock()
	t.busy = false
	t.mu.Unlock()
}
