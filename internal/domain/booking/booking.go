package booking

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/ThisIsSreshtha/CityWheels---Switch-Rides--Not-Plans-sub000/internal/domain"
)

const bookingNumberChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Booking is the aggregate root for one rental transaction. It is never
// deleted: cancelled and completed bookings remain as the audit record.
type Booking struct {
	id            uuid.UUID
	bookingNumber string
	renterID      uuid.UUID
	vehicleID     uuid.UUID
	period        RentalPeriod
	duration      int
	startDate     time.Time
	endDate       time.Time
	pickupPoint   string
	dropoffPoint  string
	travelPurpose string

	quote         Quote
	paymentStatus PaymentStatus
	status        BookingStatus

	verification *VerificationRecord
	beforeRental *ConditionReport
	afterRental  *ConditionReport
	rating       *RatingRecord
	cancellation *CancellationRecord

	actualStartTime *time.Time
	actualEndTime   *time.Time

	version   int64
	createdAt time.Time
	updatedAt time.Time
}

// generateBookingNumber creates a human-readable booking number combining
// the booking date with a random suffix, e.g. "CW-20260829-K7Q2MH".
func generateBookingNumber(now time.Time) (string, error) {
	suffix := make([]byte, 6)
	for i := range suffix {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(bookingNumberChars))))
		if err != nil {
			return "", fmt.Errorf("failed to generate booking number: %w", err)
		}
		suffix[i] = bookingNumberChars[n.Int64()]
	}
	return fmt.Sprintf("CW-%s-%s", now.Format("20060102"), string(suffix)), nil
}

// NewBooking creates a new Booking aggregate with status=pending. The
// quote must already be computed; it is immutable from here on.
func NewBooking(
	renterID, vehicleID uuid.UUID,
	period RentalPeriod,
	duration int,
	startDate time.Time,
	pickupPoint, dropoffPoint, travelPurpose string,
	quote Quote,
	now time.Time,
) (*Booking, error) {
	if renterID == uuid.Nil {
		return nil, domain.NewValidationError("renter ID is required")
	}
	if vehicleID == uuid.Nil {
		return nil, domain.NewValidationError("vehicle ID is required")
	}
	if !period.IsValid() {
		return nil, domain.NewValidationError(fmt.Sprintf("invalid rental period: %s", period))
	}
	if duration < 1 {
		return nil, domain.NewValidationError(fmt.Sprintf("duration must be at least 1, got %d", duration))
	}
	if startDate.IsZero() {
		return nil, domain.NewValidationError("start date is required")
	}
	if pickupPoint == "" {
		return nil, domain.NewValidationError("pickup location is required")
	}
	if dropoffPoint == "" {
		return nil, domain.NewValidationError("dropoff location is required")
	}
	if quote.TotalPaise <= 0 {
		return nil, domain.NewValidationError("quote total must be positive")
	}

	bookingNumber, err := generateBookingNumber(now)
	if err != nil {
		return nil, err
	}

	return &Booking{
		id:            uuid.New(),
		bookingNumber: bookingNumber,
		renterID:      renterID,
		vehicleID:     vehicleID,
		period:        period,
		duration:      duration,
		startDate:     startDate,
		endDate:       period.EndDate(startDate, duration),
		pickupPoint:   pickupPoint,
		dropoffPoint:  dropoffPoint,
		travelPurpose: travelPurpose,
		quote:         quote,
		paymentStatus: PaymentPending,
		status:        StatusPending,
		version:       1,
		createdAt:     now,
		updatedAt:     now,
	}, nil
}

// Reconstruct rebuilds a Booking from persistence data (no validation).
func Reconstruct(
	id uuid.UUID,
	bookingNumber string,
	renterID, vehicleID uuid.UUID,
	period RentalPeriod,
	duration int,
	startDate, endDate time.Time,
	pickupPoint, dropoffPoint, travelPurpose string,
	quote Quote,
	paymentStatus PaymentStatus,
	status BookingStatus,
	verification *VerificationRecord,
	beforeRental, afterRental *ConditionReport,
	rating *RatingRecord,
	cancellation *CancellationRecord,
	actualStartTime, actualEndTime *time.Time,
	version int64,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id:              id,
		bookingNumber:   bookingNumber,
		renterID:        renterID,
		vehicleID:       vehicleID,
		period:          period,
		duration:        duration,
		startDate:       startDate,
		endDate:         endDate,
		pickupPoint:     pickupPoint,
		dropoffPoint:    dropoffPoint,
		travelPurpose:   travelPurpose,
		quote:           quote,
		paymentStatus:   paymentStatus,
		status:          status,
		verification:    verification,
		beforeRental:    beforeRental,
		afterRental:     afterRental,
		rating:          rating,
		cancellation:    cancellation,
		actualStartTime: actualStartTime,
		actualEndTime:   actualEndTime,
		version:         version,
		createdAt:       createdAt,
		updatedAt:       updatedAt,
	}
}

// --- Getters ---

func (b *Booking) ID() uuid.UUID                     { return b.id }
func (b *Booking) BookingNumber() string             { return b.bookingNumber }
func (b *Booking) RenterID() uuid.UUID               { return b.renterID }
func (b *Booking) VehicleID() uuid.UUID              { return b.vehicleID }
func (b *Booking) Period() RentalPeriod              { return b.period }
func (b *Booking) Duration() int                     { return b.duration }
func (b *Booking) StartDate() time.Time              { return b.startDate }
func (b *Booking) EndDate() time.Time                { return b.endDate }
func (b *Booking) PickupPoint() string               { return b.pickupPoint }
func (b *Booking) DropoffPoint() string              { return b.dropoffPoint }
func (b *Booking) TravelPurpose() string             { return b.travelPurpose }
func (b *Booking) Quote() Quote                      { return b.quote }
func (b *Booking) PaymentStatus() PaymentStatus      { return b.paymentStatus }
func (b *Booking) Status() BookingStatus             { return b.status }
func (b *Booking) Verification() *VerificationRecord { return b.verification }
func (b *Booking) BeforeRental() *ConditionReport    { return b.beforeRental }
func (b *Booking) AfterRental() *ConditionReport     { return b.afterRental }
func (b *Booking) RatingRecord() *RatingRecord       { return b.rating }
func (b *Booking) Cancellation() *CancellationRecord { return b.cancellation }
func (b *Booking) ActualStartTime() *time.Time       { return b.actualStartTime }
func (b *Booking) ActualEndTime() *time.Time         { return b.actualEndTime }
func (b *Booking) Version() int64                    { return b.version }
func (b *Booking) CreatedAt() time.Time              { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time              { return b.updatedAt }

// IsOwnedBy checks if the booking belongs to the given renter.
func (b *Booking) IsOwnedBy(renterID uuid.UUID) bool {
	return b.renterID == renterID
}

// --- Behavior ---

// Verify transitions the booking from pending to confirmed, recording
// the verifying staff member and timestamp.
func (b *Booking) Verify(verifiedBy uuid.UUID, now time.Time) error {
	if !b.status.CanTransitionTo(StatusConfirmed) {
		return domain.NewInvalidStateError(string(b.status), string(StatusConfirmed))
	}
	if verifiedBy == uuid.Nil {
		return domain.NewValidationError("verifier ID is required")
	}
	b.verification = &VerificationRecord{
		DocumentsVerified: true,
		VerifiedBy:        verifiedBy,
		VerifiedAt:        now,
	}
	b.status = StatusConfirmed
	b.updatedAt = now
	return nil
}

// Start transitions the booking from confirmed to active, recording the
// pre-rental condition inspection and the actual start time.
func (b *Booking) Start(report ConditionReport, now time.Time) error {
	if !b.status.CanTransitionTo(StatusActive) {
		return domain.NewInvalidStateError(string(b.status), string(StatusActive))
	}
	report.RecordedAt = now
	b.beforeRental = &report
	b.actualStartTime = &now
	b.status = StatusActive
	b.updatedAt = now
	return nil
}

// Complete transitions the booking from active to completed, recording
// the post-rental condition inspection. Extra charges assessed for
// damages downgrade the payment status to partial until settled.
func (b *Booking) Complete(report ConditionReport, now time.Time) error {
	if !b.status.CanTransitionTo(StatusCompleted) {
		return domain.NewInvalidStateError(string(b.status), string(StatusCompleted))
	}
	report.RecordedAt = now
	b.afterRental = &report
	b.actualEndTime = &now
	if report.ExtraChargesPaise > 0 {
		b.paymentStatus = PaymentPartial
	}
	b.status = StatusCompleted
	b.updatedAt = now
	return nil
}

// Cancel transitions the booking to cancelled if it is not in a terminal
// state, recording who cancelled and the refund computed for them.
func (b *Booking) Cancel(cancelledBy uuid.UUID, role, reason string, refundPaise int64, now time.Time) error {
	if !b.status.CanBeCancelled() {
		return domain.NewInvalidStateError(string(b.status), string(StatusCancelled))
	}
	b.cancellation = &CancellationRecord{
		CancelledBy:   cancelledBy,
		CancelledRole: role,
		Reason:        reason,
		RefundPaise:   refundPaise,
		CancelledAt:   now,
	}
	if refundPaise > 0 {
		b.paymentStatus = PaymentRefunded
	}
	b.status = StatusCancelled
	b.updatedAt = now
	return nil
}

// Rate records the renter's one-shot rating of a completed booking.
func (b *Booking) Rate(vehicleRating, serviceRating float64, review string, now time.Time) error {
	if b.status != StatusCompleted {
		return domain.NewInvalidStateError(string(b.status), "rated")
	}
	if b.rating != nil {
		return domain.NewConflictError("booking has already been rated")
	}
	if vehicleRating < 1 || vehicleRating > 5 {
		return domain.NewValidationError("vehicle rating must be between 1 and 5")
	}
	if serviceRating < 1 || serviceRating > 5 {
		return domain.NewValidationError("service rating must be between 1 and 5")
	}
	b.rating = &RatingRecord{
		VehicleRating: vehicleRating,
		ServiceRating: serviceRating,
		Review:        review,
		RatedAt:       now,
	}
	b.updatedAt = now
	return nil
}

// MarkPaid applies an external payment confirmation.
func (b *Booking) MarkPaid(now time.Time) error {
	if b.paymentStatus != PaymentPending && b.paymentStatus != PaymentPartial {
		return domain.NewConflictError(fmt.Sprintf("payment is already %s", b.paymentStatus))
	}
	b.paymentStatus = PaymentPaid
	b.updatedAt = now
	return nil
}

// MarkRefunded applies an external refund notification from the payment
// service. Redeliveries of an already-applied refund conflict.
func (b *Booking) MarkRefunded(now time.Time) error {
	if b.paymentStatus == PaymentRefunded {
		return domain.NewConflictError("payment is already refunded")
	}
	b.paymentStatus = PaymentRefunded
	b.updatedAt = now
	return nil
}

// IncrementVersion bumps the version for optimistic locking.
func (b *Booking) IncrementVersion() {
	b.version++
}
