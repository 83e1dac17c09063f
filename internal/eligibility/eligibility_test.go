package eligibility

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wildanre/Evently-sub001/internal/models"
)

func TestEvaluateDecisionTable(t *testing.T) {
	tests := []struct {
		name     string
		input    Input
		expected View
	}{
		{
			name:     "unauthenticated always requires login",
			input:    Input{IsAuthenticated: false, IsPaidEvent: true, State: models.RegistrationJoined, HasPaid: true},
			expected: ViewLoginRequired,
		},
		{
			name:     "paid event unpaid not joined",
			input:    Input{IsAuthenticated: true, IsPaidEvent: true, State: models.RegistrationNotJoined},
			expected: ViewBuyTickets,
		},
		{
			name:     "paid event unpaid pending",
			input:    Input{IsAuthenticated: true, IsPaidEvent: true, State: models.RegistrationPending},
			expected: ViewPaymentRequired,
		},
		{
			name:     "paid event unpaid joined",
			input:    Input{IsAuthenticated: true, IsPaidEvent: true, State: models.RegistrationJoined},
			expected: ViewPaymentRequired,
		},
		{
			name:     "free event pending request",
			input:    Input{IsAuthenticated: true, State: models.RegistrationPending},
			expected: ViewRequestPending,
		},
		{
			name:     "paid event pending with payment settled",
			input:    Input{IsAuthenticated: true, IsPaidEvent: true, HasPaid: true, State: models.RegistrationPending},
			expected: ViewRequestPending,
		},
		{
			name:     "rejected offers join again",
			input:    Input{IsAuthenticated: true, State: models.RegistrationRejected},
			expected: ViewJoinAgain,
		},
		{
			name:     "rejected on paid event still offers join again once paid",
			input:    Input{IsAuthenticated: true, IsPaidEvent: true, HasPaid: true, State: models.RegistrationRejected},
			expected: ViewJoinAgain,
		},
		{
			name:     "joined free event",
			input:    Input{IsAuthenticated: true, State: models.RegistrationJoined},
			expected: ViewLeaveEvent,
		},
		{
			name:     "joined paid event with payment settled",
			input:    Input{IsAuthenticated: true, IsPaidEvent: true, HasPaid: true, State: models.RegistrationJoined},
			expected: ViewLeaveEvent,
		},
		{
			name:     "payment recorded before registration steers to leave",
			input:    Input{IsAuthenticated: true, IsPaidEvent: true, HasPaid: true, State: models.RegistrationNotJoined},
			expected: ViewLeaveEvent,
		},
		{
			name:     "free event not joined",
			input:    Input{IsAuthenticated: true, State: models.RegistrationNotJoined},
			expected: ViewJoinEvent,
		},
		{
			name:     "paid event with deferred payment offers join and buy side by side",
			input:    Input{IsAuthenticated: true, IsPaidEvent: true, DeferredPayment: true, State: models.RegistrationNotJoined},
			expected: ViewJoinWithPaymentLater,
		},
		{
			name: "paid event paid up but approval pending decision",
			input: Input{
				IsAuthenticated: true, IsPaidEvent: true, HasPaid: true,
				RequireApproval: true, State: models.RegistrationNotJoined,
			},
			expected: ViewJoinEvent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Evaluate(tt.input))
		})
	}
}

func TestEvaluateLoginRequiredDominates(t *testing.T) {
	// Whatever the rest of the inputs, an unauthenticated user is asked
	// to log in.
	states := []models.RegistrationState{
		models.RegistrationNotJoined, models.RegistrationPending,
		models.RegistrationJoined, models.RegistrationRejected,
	}
	for _, state := range states {
		for _, paid := range []bool{true, false} {
			for _, hasPaid := range []bool{true, false} {
				in := Input{IsAuthenticated: false, IsPaidEvent: paid, HasPaid: hasPaid, State: state}
				assert.Equal(t, ViewLoginRequired, Evaluate(in), "state=%s paid=%v hasPaid=%v", state, paid, hasPaid)
			}
		}
	}
}

func TestEvaluateFreeEventNeverAsksForPayment(t *testing.T) {
	// An event with a zero ticket price must never render a payment
	// call-to-action, regardless of the recorded payment state.
	states := []models.RegistrationState{
		models.RegistrationNotJoined, models.RegistrationPending,
		models.RegistrationJoined, models.RegistrationRejected,
	}
	for _, state := range states {
		for _, hasPaid := range []bool{true, false} {
			view := Evaluate(Input{IsAuthenticated: true, IsPaidEvent: false, HasPaid: hasPaid, State: state})
			assert.NotEqual(t, ViewBuyTickets, view, "state=%s hasPaid=%v", state, hasPaid)
			assert.NotEqual(t, ViewPaymentRequired, view, "state=%s hasPaid=%v", state, hasPaid)
		}
	}
}

func TestEvaluatePendingPrecedence(t *testing.T) {
	// A pending request renders as pending unless a payment is
	// outstanding on a paid event, in which case the payment prompt
	// takes precedence.
	pendingPaidUp := Input{IsAuthenticated: true, IsPaidEvent: true, HasPaid: true, State: models.RegistrationPending}
	assert.Equal(t, ViewRequestPending, Evaluate(pendingPaidUp))

	pendingUnpaid := Input{IsAuthenticated: true, IsPaidEvent: true, HasPaid: false, State: models.RegistrationPending}
	assert.Equal(t, ViewPaymentRequired, Evaluate(pendingUnpaid))

	pendingFree := Input{IsAuthenticated: true, IsPaidEvent: false, State: models.RegistrationPending}
	assert.Equal(t, ViewRequestPending, Evaluate(pendingFree))
}
