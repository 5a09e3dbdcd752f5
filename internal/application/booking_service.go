package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ThisIsSreshtha/CityWheels---Switch-Rides--Not-Plans-sub000/internal/auth"
	"github.com/ThisIsSreshtha/CityWheels---Switch-Rides--Not-Plans-sub000/internal/domain"
	bookingDomain "github.com/ThisIsSreshtha/CityWheels---Switch-Rides--Not-Plans-sub000/internal/domain/booking"
	"github.com/ThisIsSreshtha/CityWheels---Switch-Rides--Not-Plans-sub000/internal/domain/renter"
	"github.com/ThisIsSreshtha/CityWheels---Switch-Rides--Not-Plans-sub000/internal/domain/vehicle"
	"github.com/ThisIsSreshtha/CityWheels---Switch-Rides--Not-Plans-sub000/internal/events"
	"github.com/ThisIsSreshtha/CityWheels---Switch-Rides--Not-Plans-sub000/internal/kafka"
)

// Actor identifies the authenticated user performing an operation.
type Actor struct {
	ID   uuid.UUID
	Role auth.Role
}

// EventPublisher abstracts the Kafka producer so tests can substitute a fake.
type EventPublisher interface {
	PublishEvent(ctx context.Context, topic string, event kafka.CloudEvent) error
}

// CreateBookingRequest holds the data needed to create a new booking.
type CreateBookingRequest struct {
	VehicleID     uuid.UUID `json:"vehicle_id" binding:"required"`
	RentalPeriod  string    `json:"rental_period" binding:"required"`
	Duration      int       `json:"duration" binding:"required"`
	StartDate     time.Time `json:"start_date" binding:"required"`
	PickupPoint   string    `json:"pickup_point" binding:"required"`
	DropoffPoint  string    `json:"dropoff_point" binding:"required"`
	TravelPurpose string    `json:"travel_purpose"`
}

// ConditionReportRequest is the staff inspection payload recorded at
// pickup and at return.
type ConditionReportRequest struct {
	Condition         string   `json:"condition" binding:"required"`
	Images            []string `json:"images"`
	Notes             string   `json:"notes"`
	Damages           string   `json:"damages"`
	ExtraChargesPaise int64    `json:"extra_charges_paise"`
}

// CancelBookingRequest carries the cancellation reason.
type CancelBookingRequest struct {
	Reason string `json:"reason"`
}

// RateBookingRequest carries the renter's post-rental ratings.
type RateBookingRequest struct {
	VehicleRating float64 `json:"vehicle_rating" binding:"required"`
	ServiceRating float64 `json:"service_rating" binding:"required"`
	Review        string  `json:"review"`
}

// BookingDTO is the response representation of a booking.
type BookingDTO struct {
	ID              uuid.UUID                         `json:"id"`
	BookingNumber   string                            `json:"booking_number"`
	RenterID        uuid.UUID                         `json:"renter_id"`
	VehicleID       uuid.UUID                         `json:"vehicle_id"`
	RentalPeriod    string                            `json:"rental_period"`
	Duration        int                               `json:"duration"`
	StartDate       time.Time                         `json:"start_date"`
	EndDate         time.Time                         `json:"end_date"`
	PickupPoint     string                            `json:"pickup_point"`
	DropoffPoint    string                            `json:"dropoff_point"`
	TravelPurpose   string                            `json:"travel_purpose,omitempty"`
	Quote           bookingDomain.Quote               `json:"quote"`
	Currency        string                            `json:"currency"`
	PaymentStatus   string                            `json:"payment_status"`
	Status          string                            `json:"status"`
	Verification    *bookingDomain.VerificationRecord `json:"verification,omitempty"`
	BeforeRental    *bookingDomain.ConditionReport    `json:"before_rental,omitempty"`
	AfterRental     *bookingDomain.ConditionReport    `json:"after_rental,omitempty"`
	Rating          *bookingDomain.RatingRecord       `json:"rating,omitempty"`
	Cancellation    *bookingDomain.CancellationRecord `json:"cancellation,omitempty"`
	ActualStartTime *time.Time                        `json:"actual_start_time,omitempty"`
	ActualEndTime   *time.Time                        `json:"actual_end_time,omitempty"`
	Version         int64                             `json:"version"`
	CreatedAt       time.Time                         `json:"created_at"`
	UpdatedAt       time.Time                         `json:"updated_at"`
}

// BookingService is the application service orchestrating booking use cases.
type BookingService struct {
	bookings   bookingDomain.BookingRepository
	vehicles   vehicle.VehicleRepository
	renters    renter.RenterRepository
	pricing    bookingDomain.PricingStrategy
	refunds    bookingDomain.RefundPolicy
	publisher  EventPublisher
	logger     *zap.Logger
	pendingTTL time.Duration
	now        func() time.Time
}

// NewBookingService creates a new BookingService. pendingTTL controls how
// long a booking may sit in pending before the reaper cancels it.
func NewBookingService(
	bookings bookingDomain.BookingRepository,
	vehicles vehicle.VehicleRepository,
	renters renter.RenterRepository,
	pricing bookingDomain.PricingStrategy,
	refunds bookingDomain.RefundPolicy,
	publisher EventPublisher,
	logger *zap.Logger,
	pendingTTL time.Duration,
) *BookingService {
	return &BookingService{
		bookings:   bookings,
		vehicles:   vehicles,
		renters:    renters,
		pricing:    pricing,
		refunds:    refunds,
		publisher:  publisher,
		logger:     logger,
		pendingTTL: pendingTTL,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// CreateBooking creates a new pending booking for the given renter,
// allocating the vehicle atomically.
func (s *BookingService) CreateBooking(ctx context.Context, renterID uuid.UUID, req CreateBookingRequest) (*BookingDTO, error) {
	rtr, err := s.renters.FindByID(ctx, renterID)
	if err != nil {
		return nil, err
	}
	if err := rtr.CanBook(); err != nil {
		return nil, err
	}

	veh, err := s.vehicles.FindByID(ctx, req.VehicleID)
	if err != nil {
		return nil, err
	}
	if !veh.IsBookable() {
		return nil, domain.NewVehicleUnavailableError("vehicle is not available for booking")
	}

	period, err := bookingDomain.ParseRentalPeriod(req.RentalPeriod)
	if err != nil {
		return nil, err
	}

	quote, err := s.pricing.Quote(veh.RateCard(), period, req.Duration)
	if err != nil {
		return nil, err
	}

	bk, err := bookingDomain.NewBooking(
		renterID,
		req.VehicleID,
		period,
		req.Duration,
		req.StartDate.UTC(),
		req.PickupPoint,
		req.DropoffPoint,
		req.TravelPurpose,
		quote,
		s.now(),
	)
	if err != nil {
		return nil, err
	}

	// Create acquires the vehicle and inserts the booking in one
	// transaction. A concurrent winner surfaces here as unavailable.
	if err := s.bookings.Create(ctx, bk); err != nil {
		return nil, err
	}

	evt := events.BookingRequestedEvent{
		BookingID:     bk.ID(),
		BookingNumber: bk.BookingNumber(),
		RenterID:      bk.RenterID(),
		VehicleID:     bk.VehicleID(),
		RentalPeriod:  string(bk.Period()),
		Duration:      bk.Duration(),
		StartDate:     bk.StartDate(),
		TotalPaise:    bk.Quote().TotalPaise,
		Currency:      domain.CurrencyINR,
		OccurredAt:    s.now(),
	}
	s.publishEvent(ctx, events.TopicBookingEvents, events.BookingRequested, evt)

	result := toBookingDTO(bk)
	return &result, nil
}

// VerifyBooking records staff verification of the renter's documents and
// confirms the booking.
func (s *BookingService) VerifyBooking(ctx context.Context, actor Actor, bookingID uuid.UUID) (*BookingDTO, error) {
	if !actor.Role.IsStaff() {
		return nil, domain.NewForbiddenError("only staff can verify bookings")
	}

	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if err := bk.Verify(actor.ID, s.now()); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.bookings.Update(ctx, bk); err != nil {
		return nil, err
	}

	evt := events.BookingVerifiedEvent{
		BookingID:     bk.ID(),
		BookingNumber: bk.BookingNumber(),
		VerifiedBy:    actor.ID,
		OccurredAt:    s.now(),
	}
	s.publishEvent(ctx, events.TopicBookingEvents, events.BookingVerified, evt)

	result := toBookingDTO(bk)
	return &result, nil
}

// StartBooking activates a confirmed booking at pickup, recording the
// vehicle's pre-rental condition.
func (s *BookingService) StartBooking(ctx context.Context, actor Actor, bookingID uuid.UUID, req ConditionReportRequest) (*BookingDTO, error) {
	if !actor.Role.IsStaff() {
		return nil, domain.NewForbiddenError("only staff can start bookings")
	}

	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	report := bookingDomain.ConditionReport{
		Condition:   req.Condition,
		Images:      req.Images,
		Notes:       req.Notes,
		InspectedBy: actor.ID,
	}
	if err := bk.Start(report, s.now()); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.bookings.Update(ctx, bk); err != nil {
		return nil, err
	}

	evt := events.BookingStartedEvent{
		BookingID:     bk.ID(),
		BookingNumber: bk.BookingNumber(),
		VehicleID:     bk.VehicleID(),
		StartedAt:     *bk.ActualStartTime(),
		OccurredAt:    s.now(),
	}
	s.publishEvent(ctx, events.TopicBookingEvents, events.BookingStarted, evt)

	result := toBookingDTO(bk)
	return &result, nil
}

// CompleteBooking finalizes an active booking at return, recording the
// post-rental condition and releasing the vehicle.
func (s *BookingService) CompleteBooking(ctx context.Context, actor Actor, bookingID uuid.UUID, req ConditionReportRequest) (*BookingDTO, error) {
	if !actor.Role.IsStaff() {
		return nil, domain.NewForbiddenError("only staff can complete bookings")
	}

	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	report := bookingDomain.ConditionReport{
		Condition:         req.Condition,
		Images:            req.Images,
		Notes:             req.Notes,
		Damages:           req.Damages,
		ExtraChargesPaise: req.ExtraChargesPaise,
		InspectedBy:       actor.ID,
	}
	if err := bk.Complete(report, s.now()); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.bookings.CompleteAndRelease(ctx, bk); err != nil {
		return nil, err
	}

	evt := events.BookingCompletedEvent{
		BookingID:         bk.ID(),
		BookingNumber:     bk.BookingNumber(),
		RenterID:          bk.RenterID(),
		VehicleID:         bk.VehicleID(),
		ExtraChargesPaise: req.ExtraChargesPaise,
		Currency:          domain.CurrencyINR,
		OccurredAt:        s.now(),
	}
	s.publishEvent(ctx, events.TopicBookingEvents, events.BookingCompleted, evt)

	result := toBookingDTO(bk)
	return &result, nil
}

// CancelBooking cancels a pending or confirmed booking and releases the
// vehicle. The refund is computed from the time remaining until the
// rental start.
func (s *BookingService) CancelBooking(ctx context.Context, actor Actor, bookingID uuid.UUID, req CancelBookingRequest) (*BookingDTO, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if !bk.IsOwnedBy(actor.ID) && !actor.Role.IsStaff() {
		return nil, domain.NewForbiddenError("booking does not belong to this user")
	}

	refund := s.refunds.RefundAmount(bk.Quote().TotalPaise, bk.StartDate(), s.now())
	if err := bk.Cancel(actor.ID, string(actor.Role), req.Reason, refund, s.now()); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.bookings.CancelAndRelease(ctx, bk); err != nil {
		return nil, err
	}

	evt := events.BookingCancelledEvent{
		BookingID:     bk.ID(),
		BookingNumber: bk.BookingNumber(),
		CancelledBy:   actor.ID,
		CancelledRole: string(actor.Role),
		Reason:        req.Reason,
		RefundPaise:   refund,
		OccurredAt:    s.now(),
	}
	s.publishEvent(ctx, events.TopicBookingEvents, events.BookingCancelled, evt)

	result := toBookingDTO(bk)
	return &result, nil
}

// RateBooking records the renter's one-time rating of a completed booking
// and folds the vehicle rating into the vehicle's running average.
func (s *BookingService) RateBooking(ctx context.Context, actor Actor, bookingID uuid.UUID, req RateBookingRequest) (*BookingDTO, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if !bk.IsOwnedBy(actor.ID) {
		return nil, domain.NewForbiddenError("only the renter can rate their booking")
	}

	if err := bk.Rate(req.VehicleRating, req.ServiceRating, req.Review, s.now()); err != nil {
		return nil, err
	}

	bk.IncrementVersion()
	if err := s.bookings.Update(ctx, bk); err != nil {
		return nil, err
	}

	if err := s.applyVehicleRating(ctx, bk.VehicleID(), req.VehicleRating); err != nil {
		// The booking-side rating is already durable at this point.
		s.logger.Error("failed to update vehicle rating",
			zap.String("vehicle_id", bk.VehicleID().String()),
			zap.Error(err),
		)
	}

	evt := events.BookingRatedEvent{
		BookingID:     bk.ID(),
		VehicleID:     bk.VehicleID(),
		VehicleRating: req.VehicleRating,
		ServiceRating: req.ServiceRating,
		OccurredAt:    s.now(),
	}
	s.publishEvent(ctx, events.TopicBookingEvents, events.BookingRated, evt)

	result := toBookingDTO(bk)
	return &result, nil
}

// applyVehicleRating retries the count-guarded rating write a few times
// so two renters rating the same vehicle at once both land.
func (s *BookingService) applyVehicleRating(ctx context.Context, vehicleID uuid.UUID, value float64) error {
	const maxAttempts = 3

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		veh, err := s.vehicles.FindByID(ctx, vehicleID)
		if err != nil {
			return err
		}

		prev := veh.Rating()
		updated := prev.Add(value)
		if err := s.vehicles.AddRating(ctx, vehicleID, updated, prev.Count); err != nil {
			if domain.IsCode(err, domain.CodeConflict) {
				lastErr = err
				continue
			}
			return err
		}
		return nil
	}
	return lastErr
}

// MarkPaymentConfirmed applies an external payment confirmation to the
// booking. It implements the payment consumer's applier contract.
func (s *BookingService) MarkPaymentConfirmed(ctx context.Context, bookingID uuid.UUID) error {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return err
	}

	if err := bk.MarkPaid(s.now()); err != nil {
		return err
	}

	bk.IncrementVersion()
	if err := s.bookings.Update(ctx, bk); err != nil {
		return err
	}

	evt := events.BookingPaidEvent{
		BookingID:  bk.ID(),
		OccurredAt: s.now(),
	}
	s.publishEvent(ctx, events.TopicBookingEvents, events.BookingPaid, evt)
	return nil
}

// MarkPaymentRefunded applies an external refund notification to the
// booking. It implements the payment consumer's applier contract.
func (s *BookingService) MarkPaymentRefunded(ctx context.Context, bookingID uuid.UUID) error {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return err
	}

	if err := bk.MarkRefunded(s.now()); err != nil {
		return err
	}

	bk.IncrementVersion()
	return s.bookings.Update(ctx, bk)
}

// GetBooking retrieves a single booking. Renters can only read their own.
func (s *BookingService) GetBooking(ctx context.Context, actor Actor, bookingID uuid.UUID) (*BookingDTO, error) {
	bk, err := s.bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if !bk.IsOwnedBy(actor.ID) && !actor.Role.IsStaff() {
		return nil, domain.NewForbiddenError("booking does not belong to this user")
	}

	result := toBookingDTO(bk)
	return &result, nil
}

// GetBookingByNumber resolves a booking by the human-readable number
// printed on confirmations. Renters can only read their own.
func (s *BookingService) GetBookingByNumber(ctx context.Context, actor Actor, number string) (*BookingDTO, error) {
	bk, err := s.bookings.FindByNumber(ctx, number)
	if err != nil {
		return nil, err
	}

	if !bk.IsOwnedBy(actor.ID) && !actor.Role.IsStaff() {
		return nil, domain.NewForbiddenError("booking does not belong to this user")
	}

	result := toBookingDTO(bk)
	return &result, nil
}

// GetRenterBookings retrieves paginated bookings for a specific renter.
func (s *BookingService) GetRenterBookings(ctx context.Context, renterID uuid.UUID, page, limit int) (*domain.PaginatedResult[BookingDTO], error) {
	bookings, total, err := s.bookings.FindByRenterID(ctx, renterID, page, limit)
	if err != nil {
		return nil, err
	}

	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk)
	}

	result := domain.NewPaginatedResult(dtos, total, page, limit)
	return &result, nil
}

// ExpireStalePending cancels bookings that have sat in pending longer
// than the configured TTL, refunding per policy and releasing their
// vehicles. It returns the number of bookings expired.
func (s *BookingService) ExpireStalePending(ctx context.Context) (int, error) {
	const batchSize = 100

	cutoff := s.now().Add(-s.pendingTTL)
	stale, err := s.bookings.FindStalePending(ctx, cutoff, batchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to scan stale pending bookings: %w", err)
	}

	expired := 0
	for _, bk := range stale {
		refund := s.refunds.RefundAmount(bk.Quote().TotalPaise, bk.StartDate(), s.now())
		if err := bk.Cancel(uuid.Nil, "system", "pending booking expired", refund, s.now()); err != nil {
			s.logger.Warn("skipping stale booking",
				zap.String("booking_id", bk.ID().String()),
				zap.Error(err),
			)
			continue
		}

		bk.IncrementVersion()
		if err := s.bookings.CancelAndRelease(ctx, bk); err != nil {
			// A concurrent transition won the version race. Leave it.
			s.logger.Warn("failed to expire stale booking",
				zap.String("booking_id", bk.ID().String()),
				zap.Error(err),
			)
			continue
		}

		evt := events.BookingCancelledEvent{
			BookingID:     bk.ID(),
			BookingNumber: bk.BookingNumber(),
			CancelledBy:   uuid.Nil,
			CancelledRole: "system",
			Reason:        "pending booking expired",
			RefundPaise:   refund,
			OccurredAt:    s.now(),
		}
		s.publishEvent(ctx, events.TopicBookingEvents, events.BookingExpired, evt)
		expired++
	}

	return expired, nil
}

// --- Admin methods ---

// BookingStatsDTO holds booking statistics for the admin dashboard.
type BookingStatsDTO struct {
	TotalBookings int64            `json:"total_bookings"`
	ByStatus      map[string]int64 `json:"by_status"`
}

// ListAllBookings returns a paginated list of all bookings (admin).
func (s *BookingService) ListAllBookings(ctx context.Context, page, limit int) ([]BookingDTO, int64, error) {
	bookings, total, err := s.bookings.ListAll(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}

	dtos := make([]BookingDTO, len(bookings))
	for i, bk := range bookings {
		dtos[i] = toBookingDTO(bk)
	}
	return dtos, total, nil
}

// GetBookingStats returns aggregate booking statistics (admin).
func (s *BookingService) GetBookingStats(ctx context.Context) (*BookingStatsDTO, error) {
	counts, err := s.bookings.CountByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking stats: %w", err)
	}

	var total int64
	for _, c := range counts {
		total += c
	}

	return &BookingStatsDTO{
		TotalBookings: total,
		ByStatus:      counts,
	}, nil
}

// --- Helpers ---

func toBookingDTO(bk *bookingDomain.Booking) BookingDTO {
	return BookingDTO{
		ID:              bk.ID(),
		BookingNumber:   bk.BookingNumber(),
		RenterID:        bk.RenterID(),
		VehicleID:       bk.VehicleID(),
		RentalPeriod:    string(bk.Period()),
		Duration:        bk.Duration(),
		StartDate:       bk.StartDate(),
		EndDate:         bk.EndDate(),
		PickupPoint:     bk.PickupPoint(),
		DropoffPoint:    bk.DropoffPoint(),
		TravelPurpose:   bk.TravelPurpose(),
		Quote:           bk.Quote(),
		Currency:        domain.CurrencyINR,
		PaymentStatus:   string(bk.PaymentStatus()),
		Status:          string(bk.Status()),
		Verification:    bk.Verification(),
		BeforeRental:    bk.BeforeRental(),
		AfterRental:     bk.AfterRental(),
		Rating:          bk.RatingRecord(),
		Cancellation:    bk.Cancellation(),
		ActualStartTime: bk.ActualStartTime(),
		ActualEndTime:   bk.ActualEndTime(),
		Version:         bk.Version(),
		CreatedAt:       bk.CreatedAt(),
		UpdatedAt:       bk.UpdatedAt(),
	}
}

func (s *BookingService) publishEvent(ctx context.Context, topic, eventType string, data interface{}) {
	cloudEvent, err := kafka.NewCloudEvent("service-rental", eventType, data)
	if err != nil {
		s.logger.Error("failed to create cloud event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}

	if err := s.publisher.PublishEvent(ctx, topic, cloudEvent); err != nil {
		s.logger.Error("failed to publish event",
			zap.String("topic", topic),
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}
