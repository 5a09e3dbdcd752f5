package renter

import (
	"context"

	"github.com/google/uuid"
)

// RenterRepository is the read-only lookup the booking engine needs for
// eligibility checks. The renters table is owned by the identity service.
type RenterRepository interface {
	// FindByID retrieves a renter by its unique identifier.
	FindByID(ctx context.Context, id uuid.UUID) (*Renter, error)
}
