package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// BookingRepository defines the persistence contract for booking aggregates.
//
// Transitions that touch both the booking and its vehicle are expressed
// as single repository operations so implementations can make them
// atomic: a booking must never be observed without its vehicle-side
// effect, or vice versa.
type BookingRepository interface {
	// FindByID retrieves a booking by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// FindByNumber retrieves a booking by its human-readable booking number.
	FindByNumber(ctx context.Context, number string) (*Booking, error)

	// FindByRenterID retrieves bookings belonging to a specific renter with pagination.
	FindByRenterID(ctx context.Context, renterID uuid.UUID, page, limit int) ([]*Booking, int64, error)

	// FindStalePending retrieves pending bookings created before the cutoff.
	FindStalePending(ctx context.Context, before time.Time, limit int) ([]*Booking, error)

	// ListAll retrieves all bookings with pagination (admin).
	ListAll(ctx context.Context, page, limit int) ([]*Booking, int64, error)

	// CountByStatus returns booking counts grouped by status (admin).
	CountByStatus(ctx context.Context) (map[string]int64, error)

	// Create persists a new pending booking and acquires its vehicle in
	// the same transaction. If the vehicle cannot be acquired the booking
	// is not persisted and a vehicle-unavailable error is returned.
	Create(ctx context.Context, b *Booking) error

	// Update persists changes to an existing booking with optimistic locking.
	Update(ctx context.Context, b *Booking) error

	// CompleteAndRelease persists a completed booking, releases its
	// vehicle, and increments the vehicle's total bookings counter, all
	// in one transaction.
	CompleteAndRelease(ctx context.Context, b *Booking) error

	// CancelAndRelease persists a cancelled booking and releases its
	// vehicle in one transaction.
	CancelAndRelease(ctx context.Context, b *Booking) error
}
