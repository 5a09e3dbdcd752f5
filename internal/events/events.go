package events

import (
	"time"

	"github.com/google/uuid"
)

// Kafka topics this service produces to or consumes from.
const (
	TopicBookingEvents = "booking.events"
	TopicPaymentEvents = "payment.events"
)

// Event types on booking.events.
const (
	BookingRequested = "booking.requested"
	BookingVerified  = "booking.verified"
	BookingStarted   = "booking.started"
	BookingCompleted = "booking.completed"
	BookingCancelled = "booking.cancelled"
	BookingExpired   = "booking.expired"
	BookingRated     = "booking.rated"
	BookingPaid      = "booking.paid"
)

// Event types on payment.events, produced by the payment service.
const (
	PaymentConfirmed = "payment.confirmed"
	PaymentRefunded  = "payment.refunded"
)

// BookingRequestedEvent is published when a renter creates a booking and
// the vehicle has been allocated.
type BookingRequestedEvent struct {
	BookingID     uuid.UUID `json:"booking_id"`
	BookingNumber string    `json:"booking_number"`
	RenterID      uuid.UUID `json:"renter_id"`
	VehicleID     uuid.UUID `json:"vehicle_id"`
	RentalPeriod  string    `json:"rental_period"`
	Duration      int       `json:"duration"`
	StartDate     time.Time `json:"start_date"`
	TotalPaise    int64     `json:"total_paise"`
	Currency      string    `json:"currency"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// BookingVerifiedEvent is published when staff confirm a booking's documents.
type BookingVerifiedEvent struct {
	BookingID     uuid.UUID `json:"booking_id"`
	BookingNumber string    `json:"booking_number"`
	VerifiedBy    uuid.UUID `json:"verified_by"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// BookingStartedEvent is published when the rental goes active at pickup.
type BookingStartedEvent struct {
	BookingID     uuid.UUID `json:"booking_id"`
	BookingNumber string    `json:"booking_number"`
	VehicleID     uuid.UUID `json:"vehicle_id"`
	StartedAt     time.Time `json:"started_at"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// BookingCompletedEvent is published when the vehicle is returned.
type BookingCompletedEvent struct {
	BookingID         uuid.UUID `json:"booking_id"`
	BookingNumber     string    `json:"booking_number"`
	RenterID          uuid.UUID `json:"renter_id"`
	VehicleID         uuid.UUID `json:"vehicle_id"`
	ExtraChargesPaise int64     `json:"extra_charges_paise"`
	Currency          string    `json:"currency"`
	OccurredAt        time.Time `json:"occurred_at"`
}

// BookingCancelledEvent is published when a booking is cancelled, whether
// by the renter, staff, or the stale-pending reaper.
type BookingCancelledEvent struct {
	BookingID     uuid.UUID `json:"booking_id"`
	BookingNumber string    `json:"booking_number"`
	CancelledBy   uuid.UUID `json:"cancelled_by"`
	CancelledRole string    `json:"cancelled_role"`
	Reason        string    `json:"reason,omitempty"`
	RefundPaise   int64     `json:"refund_paise"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// BookingRatedEvent is published when a renter rates a completed booking.
type BookingRatedEvent struct {
	BookingID     uuid.UUID `json:"booking_id"`
	VehicleID     uuid.UUID `json:"vehicle_id"`
	VehicleRating float64   `json:"vehicle_rating"`
	ServiceRating float64   `json:"service_rating"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// BookingPaidEvent is published after an external payment confirmation
// has been applied to the booking.
type BookingPaidEvent struct {
	BookingID  uuid.UUID `json:"booking_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// PaymentConfirmedEvent is the payment service's confirmation of capture.
type PaymentConfirmedEvent struct {
	PaymentID   uuid.UUID `json:"payment_id"`
	BookingID   uuid.UUID `json:"booking_id"`
	AmountPaise int64     `json:"amount_paise"`
	Currency    string    `json:"currency"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// PaymentRefundedEvent is the payment service's notification that a
// refund has been executed.
type PaymentRefundedEvent struct {
	PaymentID   uuid.UUID `json:"payment_id"`
	BookingID   uuid.UUID `json:"booking_id"`
	AmountPaise int64     `json:"amount_paise"`
	Currency    string    `json:"currency"`
	OccurredAt  time.Time `json:"occurred_at"`
}
