// Package eligibility computes the join/payment call-to-action for one
// event/user pair and drives the registration workflow around it.
package eligibility

import (
	"github.com/wildanre/Evently-sub001/internal/models"
)

// View is the call-to-action rendered for one event/user pair
type View string

const (
	// ViewLoginRequired prompts the user to authenticate first
	ViewLoginRequired View = "login_required"
	// ViewBuyTickets requires a ticket purchase before registration
	ViewBuyTickets View = "buy_tickets"
	// ViewPaymentRequired flags an outstanding payment on an existing registration
	ViewPaymentRequired View = "payment_required"
	// ViewRequestPending shows a cancelable join request awaiting approval
	ViewRequestPending View = "request_pending"
	// ViewJoinAgain offers re-registration after a rejection
	ViewJoinAgain View = "join_again"
	// ViewLeaveEvent offers leaving an event the user belongs to
	ViewLeaveEvent View = "leave_event"
	// ViewJoinEvent offers plain registration
	ViewJoinEvent View = "join_event"
	// ViewJoinWithPaymentLater offers registration and ticket purchase side by side
	ViewJoinWithPaymentLater View = "join_with_payment_later"
)

// Input is everything the decision depends on
type Input struct {
	IsAuthenticated bool
	IsPaidEvent     bool
	RequireApproval bool
	DeferredPayment bool
	State           models.RegistrationState
	HasPaid         bool
}

// Evaluate computes the current call-to-action. Pure: no side effects,
// re-run whenever any input changes. Rules are ordered, first match wins.
func Evaluate(in Input) View {
	switch {
	case !in.IsAuthenticated:
		return ViewLoginRequired

	// Payment outstanding on a paid event takes precedence over the
	// registration state rendering below.
	case in.IsPaidEvent && !in.HasPaid && in.State == models.RegistrationNotJoined && !in.DeferredPayment:
		return ViewBuyTickets
	case in.IsPaidEvent && !in.HasPaid &&
		(in.State == models.RegistrationPending || in.State == models.RegistrationJoined):
		return ViewPaymentRequired

	case in.State == models.RegistrationPending:
		return ViewRequestPending
	case in.State == models.RegistrationRejected:
		return ViewJoinAgain
	case in.State == models.RegistrationJoined:
		return ViewLeaveEvent

	// Payment recorded before registration on an approval-free event:
	// auto-join is about to run, render as already joined.
	case in.IsPaidEvent && in.HasPaid && !in.RequireApproval:
		return ViewLeaveEvent

	case !in.IsPaidEvent || in.HasPaid:
		return ViewJoinEvent

	// Paid event with an unpaid balance where registration is allowed
	// before payment.
	default:
		return ViewJoinWithPaymentLater
	}
}
