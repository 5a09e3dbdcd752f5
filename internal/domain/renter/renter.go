package renter

import (
	"time"

	"github.com/google/uuid"

	"github.com/ThisIsSreshtha/CityWheels---Switch-Rides--Not-Plans-sub000/internal/domain"
)

// Renter is a read model of the identity service's user record. The
// booking engine consumes it; registration and document verification
// happen elsewhere.
type Renter struct {
	id         uuid.UUID
	name       string
	email      string
	phone      string
	role       string
	isVerified bool
	verifiedAt *time.Time
	createdAt  time.Time
}

// Reconstruct rebuilds a Renter from persistence data.
func Reconstruct(
	id uuid.UUID,
	name, email, phone, role string,
	isVerified bool,
	verifiedAt *time.Time,
	createdAt time.Time,
) *Renter {
	return &Renter{
		id:         id,
		name:       name,
		email:      email,
		phone:      phone,
		role:       role,
		isVerified: isVerified,
		verifiedAt: verifiedAt,
		createdAt:  createdAt,
	}
}

// --- Getters ---

func (r *Renter) ID() uuid.UUID          { return r.id }
func (r *Renter) Name() string           { return r.name }
func (r *Renter) Email() string          { return r.email }
func (r *Renter) Phone() string          { return r.phone }
func (r *Renter) Role() string           { return r.role }
func (r *Renter) IsVerified() bool       { return r.isVerified }
func (r *Renter) VerifiedAt() *time.Time { return r.verifiedAt }
func (r *Renter) CreatedAt() time.Time   { return r.createdAt }

// CanBook is the eligibility gate for starting a new booking: both
// identity documents must have been verified by staff.
func (r *Renter) CanBook() error {
	if !r.isVerified {
		return domain.NewNotVerifiedError("identity documents are not verified")
	}
	return nil
}
