package booking

import (
	"time"

	"github.com/google/uuid"
)

// ConditionReport captures a staff inspection of the vehicle at handover
// or return: free-text condition, photo URLs, and any damages with the
// extra charge assessed for them.
type ConditionReport struct {
	Condition         string    `json:"condition"`
	Images            []string  `json:"images,omitempty"`
	Notes             string    `json:"notes,omitempty"`
	Damages           string    `json:"damages,omitempty"`
	ExtraChargesPaise int64     `json:"extra_charges_paise"`
	InspectedBy       uuid.UUID `json:"inspected_by"`
	RecordedAt        time.Time `json:"recorded_at"`
}

// VerificationRecord captures staff confirmation of the booking's
// supporting documents.
type VerificationRecord struct {
	DocumentsVerified bool      `json:"documents_verified"`
	VerifiedBy        uuid.UUID `json:"verified_by"`
	VerifiedAt        time.Time `json:"verified_at"`
}

// CancellationRecord is set exactly once, when a booking is cancelled.
type CancellationRecord struct {
	CancelledBy   uuid.UUID `json:"cancelled_by"`
	CancelledRole string    `json:"cancelled_role"`
	Reason        string    `json:"reason,omitempty"`
	RefundPaise   int64     `json:"refund_paise"`
	CancelledAt   time.Time `json:"cancelled_at"`
}

// RatingRecord is set exactly once, after completion. Only the vehicle
// rating feeds the vehicle's running aggregate.
type RatingRecord struct {
	VehicleRating float64   `json:"vehicle_rating"`
	ServiceRating float64   `json:"service_rating"`
	Review        string    `json:"review,omitempty"`
	RatedAt       time.Time `json:"rated_at"`
}
