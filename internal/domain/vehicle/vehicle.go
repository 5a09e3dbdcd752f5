package vehicle

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ThisIsSreshtha/CityWheels---Switch-Rides--Not-Plans-sub000/internal/domain"
)

// VehicleType represents the category of a rentable vehicle.
type VehicleType string

const (
	TypeScooter    VehicleType = "scooter"
	TypeMotorcycle VehicleType = "motorcycle"
	TypeBicycle    VehicleType = "bicycle"
	TypeCar        VehicleType = "car"
)

// IsValid returns true if the vehicle type is recognized.
func (t VehicleType) IsValid() bool {
	switch t {
	case TypeScooter, TypeMotorcycle, TypeBicycle, TypeCar:
		return true
	}
	return false
}

// Availability represents the allocation state of a vehicle.
type Availability string

const (
	AvailabilityAvailable   Availability = "available"
	AvailabilityRented      Availability = "rented"
	AvailabilityMaintenance Availability = "maintenance"
	AvailabilityInactive    Availability = "inactive"
)

// IsValid returns true if the availability value is recognized.
func (a Availability) IsValid() bool {
	switch a {
	case AvailabilityAvailable, AvailabilityRented, AvailabilityMaintenance, AvailabilityInactive:
		return true
	}
	return false
}

// String returns the string representation of the availability.
func (a Availability) String() string {
	return string(a)
}

// ParseAvailability converts a string to an Availability, returning an error if invalid.
func ParseAvailability(s string) (Availability, error) {
	a := Availability(s)
	if !a.IsValid() {
		return "", domain.NewValidationError(fmt.Sprintf("invalid availability: %s", s))
	}
	return a, nil
}

// RateCard holds the per-period rental rates and deposit for a vehicle.
// All amounts are in paise.
type RateCard struct {
	HourlyPaise          int64 `json:"hourly_paise"`
	DailyPaise           int64 `json:"daily_paise"`
	WeeklyPaise          int64 `json:"weekly_paise"`
	SecurityDepositPaise int64 `json:"security_deposit_paise"`
}

// Vehicle is the aggregate root for a rentable vehicle.
type Vehicle struct {
	id             uuid.UUID
	name           string
	vehicleType    VehicleType
	registrationNo string
	location       string
	rateCard       RateCard
	availability   Availability
	rating         Rating
	totalBookings  int64
	version        int64
	createdAt      time.Time
	updatedAt      time.Time
}

// NewVehicle creates a new available vehicle with validated fields.
func NewVehicle(
	name string,
	vehicleType VehicleType,
	registrationNo, location string,
	rateCard RateCard,
) (*Vehicle, error) {
	if name == "" {
		return nil, domain.NewValidationError("vehicle name is required")
	}
	if !vehicleType.IsValid() {
		return nil, domain.NewValidationError(fmt.Sprintf("invalid vehicle type: %s", vehicleType))
	}
	if registrationNo == "" {
		return nil, domain.NewValidationError("registration number is required")
	}
	if rateCard.HourlyPaise <= 0 || rateCard.DailyPaise <= 0 || rateCard.WeeklyPaise <= 0 {
		return nil, domain.NewValidationError("all rental rates must be positive")
	}
	if rateCard.SecurityDepositPaise < 0 {
		return nil, domain.NewValidationError("security deposit cannot be negative")
	}

	now := time.Now().UTC()
	return &Vehicle{
		id:             uuid.New(),
		name:           name,
		vehicleType:    vehicleType,
		registrationNo: registrationNo,
		location:       location,
		rateCard:       rateCard,
		availability:   AvailabilityAvailable,
		version:        1,
		createdAt:      now,
		updatedAt:      now,
	}, nil
}

// Reconstruct rebuilds a Vehicle from persistence data (no validation).
func Reconstruct(
	id uuid.UUID,
	name string,
	vehicleType VehicleType,
	registrationNo, location string,
	rateCard RateCard,
	availability Availability,
	rating Rating,
	totalBookings, version int64,
	createdAt, updatedAt time.Time,
) *Vehicle {
	return &Vehicle{
		id:             id,
		name:           name,
		vehicleType:    vehicleType,
		registrationNo: registrationNo,
		location:       location,
		rateCard:       rateCard,
		availability:   availability,
		rating:         rating,
		totalBookings:  totalBookings,
		version:        version,
		createdAt:      createdAt,
		updatedAt:      updatedAt,
	}
}

// --- Getters ---

func (v *Vehicle) ID() uuid.UUID              { return v.id }
func (v *Vehicle) Name() string               { return v.name }
func (v *Vehicle) Type() VehicleType          { return v.vehicleType }
func (v *Vehicle) RegistrationNo() string     { return v.registrationNo }
func (v *Vehicle) Location() string           { return v.location }
func (v *Vehicle) RateCard() RateCard         { return v.rateCard }
func (v *Vehicle) Availability() Availability { return v.availability }
func (v *Vehicle) Rating() Rating             { return v.rating }
func (v *Vehicle) TotalBookings() int64       { return v.totalBookings }
func (v *Vehicle) Version() int64             { return v.version }
func (v *Vehicle) CreatedAt() time.Time       { return v.createdAt }
func (v *Vehicle) UpdatedAt() time.Time       { return v.updatedAt }

// --- Behavior ---

// IsBookable returns true if the vehicle can currently be allocated.
func (v *Vehicle) IsBookable() bool {
	return v.availability == AvailabilityAvailable
}

// SetAvailability moves the vehicle between administrative availability
// states. The rented state is owned by the booking engine: it can neither
// be entered nor left through this method.
func (v *Vehicle) SetAvailability(target Availability) error {
	if !target.IsValid() {
		return domain.NewValidationError(fmt.Sprintf("invalid availability: %s", target))
	}
	if target == AvailabilityRented {
		return domain.NewValidationError("rented is set only by the booking engine")
	}
	if v.availability == AvailabilityRented {
		return domain.NewInvalidStateError(string(v.availability), string(target))
	}
	v.availability = target
	v.version++
	v.updatedAt = time.Now().UTC()
	return nil
}

// ApplyRating folds a new individual rating into the running aggregate.
func (v *Vehicle) ApplyRating(value float64) {
	v.rating = v.rating.Add(value)
	v.updatedAt = time.Now().UTC()
}
