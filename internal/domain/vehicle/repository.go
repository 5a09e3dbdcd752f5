package vehicle

import (
	"context"

	"github.com/google/uuid"
)

// ListFilter narrows a vehicle catalog listing.
type ListFilter struct {
	Type         VehicleType
	Availability Availability
}

// AvailabilityLedger is the exclusivity primitive for vehicle allocation.
// Acquire must perform the available->rented check-and-set as a single
// atomic operation so that two concurrent callers can never both succeed.
type AvailabilityLedger interface {
	// Acquire atomically flips the vehicle from available to rented.
	// It fails with a vehicle-unavailable error and performs no mutation
	// if the vehicle is in any other state.
	Acquire(ctx context.Context, vehicleID uuid.UUID) error

	// Release sets the vehicle back to available.
	Release(ctx context.Context, vehicleID uuid.UUID) error
}

// VehicleRepository defines the persistence contract for vehicle aggregates.
type VehicleRepository interface {
	AvailabilityLedger

	// FindByID retrieves a vehicle by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Vehicle, error)

	// List retrieves vehicles matching the filter with pagination.
	List(ctx context.Context, filter ListFilter, page, limit int) ([]*Vehicle, int64, error)

	// Save persists a new vehicle.
	Save(ctx context.Context, v *Vehicle) error

	// UpdateAvailability persists an administrative availability change,
	// refusing to touch a vehicle that is currently rented.
	UpdateAvailability(ctx context.Context, v *Vehicle) error

	// AddRating persists an updated rating aggregate. The write is guarded
	// by the previous rating count so a concurrent rating cannot be lost.
	AddRating(ctx context.Context, id uuid.UUID, rating Rating, expectedCount int64) error

	// CountByAvailability returns vehicle counts grouped by availability.
	CountByAvailability(ctx context.Context) (map[string]int64, error)
}
