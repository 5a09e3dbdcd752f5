package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ThisIsSreshtha/CityWheels---Switch-Rides--Not-Plans-sub000/internal/domain"
	bookingDomain "github.com/ThisIsSreshtha/CityWheels---Switch-Rides--Not-Plans-sub000/internal/domain/booking"
)

// BookingModel is the GORM model for the bookings table.
type BookingModel struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	BookingNumber   string          `gorm:"uniqueIndex;not null;size:30"`
	RenterID        uuid.UUID       `gorm:"type:uuid;index;not null"`
	VehicleID       uuid.UUID       `gorm:"type:uuid;index;not null"`
	RentalPeriod    string          `gorm:"not null;size:10"`
	Duration        int             `gorm:"not null"`
	StartDate       time.Time       `gorm:"not null"`
	EndDate         time.Time       `gorm:"not null"`
	PickupPoint     string          `gorm:"not null;size:200"`
	DropoffPoint    string          `gorm:"not null;size:200"`
	TravelPurpose   string          `gorm:"size:200"`
	Quote           json.RawMessage `gorm:"type:jsonb;not null"`
	PaymentStatus   string          `gorm:"not null;size:20;default:'pending'"`
	Status          string          `gorm:"not null;size:20;index"`
	Verification    json.RawMessage `gorm:"type:jsonb"`
	BeforeRental    json.RawMessage `gorm:"type:jsonb"`
	AfterRental     json.RawMessage `gorm:"type:jsonb"`
	Rating          json.RawMessage `gorm:"type:jsonb"`
	Cancellation    json.RawMessage `gorm:"type:jsonb"`
	ActualStartTime *time.Time      `gorm:""`
	ActualEndTime   *time.Time      `gorm:""`
	Version         int64           `gorm:"not null;default:1"`
	CreatedAt       time.Time       `gorm:"not null;index"`
	UpdatedAt       time.Time       `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (BookingModel) TableName() string {
	return "bookings"
}

// GormBookingRepository is the GORM-based implementation of BookingRepository.
type GormBookingRepository struct {
	db *gorm.DB
}

// NewGormBookingRepository creates a new GormBookingRepository.
func NewGormBookingRepository(db *gorm.DB) *GormBookingRepository {
	return &GormBookingRepository{db: db}
}

// FindByID retrieves a booking by its unique identifier.
func (r *GormBookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", id.String())
		}
		return nil, fmt.Errorf("failed to find booking by ID: %w", err)
	}
	return toDomainBooking(&model)
}

// FindByNumber retrieves a booking by its booking number.
func (r *GormBookingRepository) FindByNumber(ctx context.Context, number string) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := r.db.WithContext(ctx).Where("booking_number = ?", number).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", number)
		}
		return nil, fmt.Errorf("failed to find booking by number: %w", err)
	}
	return toDomainBooking(&model)
}

// FindByRenterID retrieves bookings for a specific renter with pagination.
func (r *GormBookingRepository) FindByRenterID(ctx context.Context, renterID uuid.UUID, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).Where("renter_id = ?", renterID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count renter bookings: %w", err)
	}

	var models []BookingModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Where("renter_id = ?", renterID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to find renter bookings: %w", err)
	}

	bookings := make([]*bookingDomain.Booking, len(models))
	for i, m := range models {
		bk, err := toDomainBooking(&m)
		if err != nil {
			return nil, 0, err
		}
		bookings[i] = bk
	}
	return bookings, total, nil
}

// FindStalePending retrieves pending bookings created before the cutoff.
func (r *GormBookingRepository) FindStalePending(ctx context.Context, before time.Time, limit int) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	if err := r.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", string(bookingDomain.StatusPending), before).
		Order("created_at ASC").
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find stale pending bookings: %w", err)
	}

	bookings := make([]*bookingDomain.Booking, len(models))
	for i, m := range models {
		bk, err := toDomainBooking(&m)
		if err != nil {
			return nil, err
		}
		bookings[i] = bk
	}
	return bookings, nil
}

// ListAll retrieves all bookings with pagination (admin).
func (r *GormBookingRepository) ListAll(ctx context.Context, page, limit int) ([]*bookingDomain.Booking, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	var models []BookingModel
	offset := (page - 1) * limit
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}

	bookings := make([]*bookingDomain.Booking, len(models))
	for i, m := range models {
		bk, err := toDomainBooking(&m)
		if err != nil {
			return nil, 0, err
		}
		bookings[i] = bk
	}
	return bookings, total, nil
}

// CountByStatus returns booking counts grouped by status (admin).
func (r *GormBookingRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type statusCount struct {
		Status string
		Count  int64
	}
	var results []statusCount
	if err := r.db.WithContext(ctx).Model(&BookingModel{}).
		Select("status, count(*) as count").
		Group("status").
		Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to count by status: %w", err)
	}

	counts := make(map[string]int64)
	for _, sc := range results {
		counts[sc.Status] = sc.Count
	}
	return counts, nil
}

// Create persists a new pending booking, acquiring its vehicle in the
// same transaction. If the conditional acquire touches no row the
// transaction rolls back and the booking is never visible.
func (r *GormBookingRepository) Create(ctx context.Context, bk *bookingDomain.Booking) error {
	model, err := toBookingModel(bk)
	if err != nil {
		return fmt.Errorf("failed to convert booking to model: %w", err)
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := acquireVehicle(tx, bk.VehicleID()); err != nil {
			return err
		}
		if err := tx.Create(model).Error; err != nil {
			return fmt.Errorf("failed to save booking: %w", err)
		}
		return nil
	})
}

// Update persists changes to an existing booking with optimistic locking.
func (r *GormBookingRepository) Update(ctx context.Context, bk *bookingDomain.Booking) error {
	return r.updateLocked(r.db.WithContext(ctx), bk)
}

// CompleteAndRelease persists a completed booking, releases its vehicle,
// and increments the vehicle's total bookings counter in one transaction.
func (r *GormBookingRepository) CompleteAndRelease(ctx context.Context, bk *bookingDomain.Booking) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.updateLocked(tx, bk); err != nil {
			return err
		}
		if err := releaseVehicle(tx, bk.VehicleID()); err != nil {
			return err
		}
		if err := tx.Model(&VehicleModel{}).
			Where("id = ?", bk.VehicleID()).
			Update("total_bookings", gorm.Expr("total_bookings + 1")).Error; err != nil {
			return fmt.Errorf("failed to increment total bookings: %w", err)
		}
		return nil
	})
}

// CancelAndRelease persists a cancelled booking and releases its vehicle
// in one transaction.
func (r *GormBookingRepository) CancelAndRelease(ctx context.Context, bk *bookingDomain.Booking) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.updateLocked(tx, bk); err != nil {
			return err
		}
		return releaseVehicle(tx, bk.VehicleID())
	})
}

// updateLocked writes the booking guarded by its previous version.
func (r *GormBookingRepository) updateLocked(tx *gorm.DB, bk *bookingDomain.Booking) error {
	model, err := toBookingModel(bk)
	if err != nil {
		return fmt.Errorf("failed to convert booking to model: %w", err)
	}

	// IncrementVersion was called before persisting, so the stored row
	// must still carry version-1.
	expectedVersion := bk.Version() - 1
	result := tx.Model(&BookingModel{}).
		Where("id = ? AND version = ?", model.ID, expectedVersion).
		Updates(map[string]interface{}{
			"payment_status":    model.PaymentStatus,
			"status":            model.Status,
			"verification":      model.Verification,
			"before_rental":     model.BeforeRental,
			"after_rental":      model.AfterRental,
			"rating":            model.Rating,
			"cancellation":      model.Cancellation,
			"actual_start_time": model.ActualStartTime,
			"actual_end_time":   model.ActualEndTime,
			"version":           model.Version,
			"updated_at":        model.UpdatedAt,
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update booking: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("booking was modified by another transaction")
	}
	return nil
}

// --- Conversion helpers ---

func toBookingModel(bk *bookingDomain.Booking) (*BookingModel, error) {
	quoteJSON, err := json.Marshal(bk.Quote())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal quote: %w", err)
	}

	var verification, before, after, rating, cancellation json.RawMessage
	if bk.Verification() != nil {
		if verification, err = json.Marshal(bk.Verification()); err != nil {
			return nil, fmt.Errorf("failed to marshal verification: %w", err)
		}
	}
	if bk.BeforeRental() != nil {
		if before, err = json.Marshal(bk.BeforeRental()); err != nil {
			return nil, fmt.Errorf("failed to marshal before-rental report: %w", err)
		}
	}
	if bk.AfterRental() != nil {
		if after, err = json.Marshal(bk.AfterRental()); err != nil {
			return nil, fmt.Errorf("failed to marshal after-rental report: %w", err)
		}
	}
	if bk.RatingRecord() != nil {
		if rating, err = json.Marshal(bk.RatingRecord()); err != nil {
			return nil, fmt.Errorf("failed to marshal rating: %w", err)
		}
	}
	if bk.Cancellation() != nil {
		if cancellation, err = json.Marshal(bk.Cancellation()); err != nil {
			return nil, fmt.Errorf("failed to marshal cancellation: %w", err)
		}
	}

	return &BookingModel{
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
		Quote:           quoteJSON,
		PaymentStatus:   string(bk.PaymentStatus()),
		Status:          string(bk.Status()),
		Verification:    verification,
		BeforeRental:    before,
		AfterRental:     after,
		Rating:          rating,
		Cancellation:    cancellation,
		ActualStartTime: bk.ActualStartTime(),
		ActualEndTime:   bk.ActualEndTime(),
		Version:         bk.Version(),
		CreatedAt:       bk.CreatedAt(),
		UpdatedAt:       bk.UpdatedAt(),
	}, nil
}

func toDomainBooking(m *BookingModel) (*bookingDomain.Booking, error) {
	var quote bookingDomain.Quote
	if err := json.Unmarshal(m.Quote, &quote); err != nil {
		return nil, fmt.Errorf("failed to unmarshal quote: %w", err)
	}

	var verification *bookingDomain.VerificationRecord
	if len(m.Verification) > 0 {
		var v bookingDomain.VerificationRecord
		if err := json.Unmarshal(m.Verification, &v); err != nil {
			return nil, fmt.Errorf("failed to unmarshal verification: %w", err)
		}
		verification = &v
	}

	var before *bookingDomain.ConditionReport
	if len(m.BeforeRental) > 0 {
		var r bookingDomain.ConditionReport
		if err := json.Unmarshal(m.BeforeRental, &r); err != nil {
			return nil, fmt.Errorf("failed to unmarshal before-rental report: %w", err)
		}
		before = &r
	}

	var after *bookingDomain.ConditionReport
	if len(m.AfterRental) > 0 {
		var r bookingDomain.ConditionReport
		if err := json.Unmarshal(m.AfterRental, &r); err != nil {
			return nil, fmt.Errorf("failed to unmarshal after-rental report: %w", err)
		}
		after = &r
	}

	var rating *bookingDomain.RatingRecord
	if len(m.Rating) > 0 {
		var r bookingDomain.RatingRecord
		if err := json.Unmarshal(m.Rating, &r); err != nil {
			return nil, fmt.Errorf("failed to unmarshal rating: %w", err)
		}
		rating = &r
	}

	var cancellation *bookingDomain.CancellationRecord
	if len(m.Cancellation) > 0 {
		var c bookingDomain.CancellationRecord
		if err := json.Unmarshal(m.Cancellation, &c); err != nil {
			return nil, fmt.Errorf("failed to unmarshal cancellation: %w", err)
		}
		cancellation = &c
	}

	status, err := bookingDomain.ParseBookingStatus(m.Status)
	if err != nil {
		return nil, err
	}
	paymentStatus, err := bookingDomain.ParsePaymentStatus(m.PaymentStatus)
	if err != nil {
		return nil, err
	}

	return bookingDomain.Reconstruct(
		m.ID,
		m.BookingNumber,
		m.RenterID,
		m.VehicleID,
		bookingDomain.RentalPeriod(m.RentalPeriod),
		m.Duration,
		m.StartDate,
		m.EndDate,
		m.PickupPoint,
		m.DropoffPoint,
		m.TravelPurpose,
		quote,
		paymentStatus,
		status,
		verification,
		before,
		after,
		rating,
		cancellation,
		m.ActualStartTime,
		m.ActualEndTime,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}
