// Package purchase mirrors the default-purchase transaction process of the
// marketplace API.
//
// Transition strings must match the process definition on the API side bit
// for bit: transaction objects only carry their last transition. The states
// are client-side names used to reason about which transitions follow.
//
//	initial ──inquire──► inquiry ──request-payment-after-inquiry──┐
//	   └──request-payment──► pending-payment ◄────────────────────┘
//	pending-payment ──expire-payment──► payment-expired
//	                └─confirm-payment─► purchased
//	purchased ──accept──► accepted ──submit-service──► service-submitted
//	          ├─decline─► declined
//	          └─expire──► expired
//	service-submitted ──complete──► completed
//	                  └─customer-report-a-problem─► problem-reported
//	problem-reported ──submit-service-after-problem-fix──► service-submitted
//	                 └─complete-after-report-a-problem──► completed
//	completed ──review-1-by-customer / expire-review-period──► reviewed
package purchase

import (
	"txmirror/internal/domain"
	"txmirror/internal/process"
)

// Alias identifies this process on the marketplace API.
const Alias domain.ProcessAlias = "default-purchase/release-1"

// Transitions
const (
	// RequestPayment creates the transaction and a PaymentIntent. The payment
	// itself is then made by the customer directly with Stripe.
	RequestPayment domain.Transition = "transition/request-payment"

	// A customer may start with an inquiry and request payment later.
	Inquire                    domain.Transition = "transition/inquire"
	RequestPaymentAfterInquiry domain.Transition = "transition/request-payment-after-inquiry"

	// ConfirmPayment tells the API that the payment (and any 3D Secure step) went through.
	ConfirmPayment domain.Transition = "transition/confirm-payment"
	// ExpirePayment is taken by the API when payment is not confirmed in time (15 min by default).
	ExpirePayment domain.Transition = "transition/expire-payment"

	Accept  domain.Transition = "transition/accept"
	Decline domain.Transition = "transition/decline"
	// Expire is taken when the provider neither accepts nor declines.
	Expire domain.Transition = "transition/expire"

	SubmitService domain.Transition = "transition/submit-service"

	CustomerReportProblem        domain.Transition = "transition/customer-report-a-problem"
	SubmitServiceAfterProblemFix domain.Transition = "transition/submit-service-after-problem-fix"

	Complete                    domain.Transition = "transition/complete"
	CompleteAfterReportAProblem domain.Transition = "transition/complete-after-report-a-problem"

	Review1ByCustomer  domain.Transition = "transition/review-1-by-customer"
	ExpireReviewPeriod domain.Transition = "transition/expire-review-period"
)

// States
const (
	StateInitial          domain.State = "initial"
	StateInquiry          domain.State = "inquiry"
	StatePendingPayment   domain.State = "pending-payment"
	StatePaymentExpired   domain.State = "payment-expired"
	StatePurchased        domain.State = "purchased"
	StateAccepted         domain.State = "accepted"
	StateDeclined         domain.State = "declined"
	StateExpired          domain.State = "expired"
	StateServiceSubmitted domain.State = "service-submitted"
	StateProblemReported  domain.State = "problem-reported"
	StateCompleted        domain.State = "completed"
	StateReviewed         domain.State = "reviewed"
)

// FulfilledTransitions are the last transitions of orders that were delivered.
var FulfilledTransitions = []domain.Transition{
	Complete,
	CompleteAfterReportAProblem,
	Review1ByCustomer,
	ExpireReviewPeriod,
}

// Definition is the default-purchase process.
var Definition = process.Definition{
	Alias:   Alias,
	Initial: StateInitial,
	States: []domain.State{
		StateInitial,
		StateInquiry,
		StatePendingPayment,
		StatePaymentExpired,
		StatePurchased,
		StateAccepted,
		StateDeclined,
		StateExpired,
		StateServiceSubmitted,
		StateProblemReported,
		StateCompleted,
		StateReviewed,
	},
	Transitions: []domain.Transition{
		RequestPayment,
		Inquire,
		RequestPaymentAfterInquiry,
		ConfirmPayment,
		ExpirePayment,
		Accept,
		Decline,
		Expire,
		SubmitService,
		CustomerReportProblem,
		SubmitServiceAfterProblemFix,
		Complete,
		CompleteAfterReportAProblem,
		Review1ByCustomer,
		ExpireReviewPeriod,
	},
	Edges: []process.Edge{
		{From: StateInitial, Transition: Inquire, To: StateInquiry},
		{From: StateInitial, Transition: RequestPayment, To: StatePendingPayment},

		{From: StateInquiry, Transition: RequestPaymentAfterInquiry, To: StatePendingPayment},

		{From: StatePendingPayment, Transition: ExpirePayment, To: StatePaymentExpired},
		{From: StatePendingPayment, Transition: ConfirmPayment, To: StatePurchased},

		{From: StatePurchased, Transition: Accept, To: StateAccepted},
		{From: StatePurchased, Transition: Decline, To: StateDeclined},
		{From: StatePurchased, Transition: Expire, To: StateExpired},

		{From: StateAccepted, Transition: SubmitService, To: StateServiceSubmitted},

		{From: StateServiceSubmitted, Transition: Complete, To: StateCompleted},
		{From: StateServiceSubmitted, Transition: CustomerReportProblem, To: StateProblemReported},

		{From: StateProblemReported, Transition: SubmitServiceAfterProblemFix, To: StateServiceSubmitted},
		{From: StateProblemReported, Transition: CompleteAfterReportAProblem, To: StateCompleted},

		{From: StateCompleted, Transition: ExpireReviewPeriod, To: StateReviewed},
		{From: StateCompleted, Transition: Review1ByCustomer, To: StateReviewed},
	},
	Final: []domain.State{StateReviewed},

	Relevant: []domain.Transition{
		ConfirmPayment,
		Accept,
		Decline,
		SubmitService,
		Complete,
		CompleteAfterReportAProblem,
		CustomerReportProblem,
		SubmitServiceAfterProblemFix,
		Review1ByCustomer,
	},
	CustomerReview: []domain.Transition{Review1ByCustomer},
	// Reviews are one-sided in this process.
	ProviderReview: nil,
	Privileged:     []domain.Transition{RequestPayment, RequestPaymentAfterInquiry},
	Completed:      FulfilledTransitions,
	// action/stripe-refund-payment runs on the API side in these.
	Refunded:               []domain.Transition{ExpirePayment, Decline, Expire},
	NeedsProviderAttention: []domain.State{StatePurchased},
}

// Process is the validated default-purchase process.
var Process = process.MustNew(Definition)
