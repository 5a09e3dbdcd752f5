package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ThisIsSreshtha/CityWheels---Switch-Rides--Not-Plans-sub000/internal/domain"
	vehicleDomain "github.com/ThisIsSreshtha/CityWheels---Switch-Rides--Not-Plans-sub000/internal/domain/vehicle"
)

// VehicleModel is the GORM model for the vehicles table.
type VehicleModel struct {
	ID                   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name                 string    `gorm:"not null;size:100"`
	Type                 string    `gorm:"not null;size:20;index"`
	RegistrationNo       string    `gorm:"uniqueIndex;not null;size:20"`
	Location             string    `gorm:"size:200"`
	HourlyRatePaise      int64     `gorm:"not null"`
	DailyRatePaise       int64     `gorm:"not null"`
	WeeklyRatePaise      int64     `gorm:"not null"`
	SecurityDepositPaise int64     `gorm:"not null;default:0"`
	Availability         string    `gorm:"not null;size:20;index;default:'available'"`
	RatingAverage        float64   `gorm:"not null;default:0"`
	RatingCount          int64     `gorm:"not null;default:0"`
	TotalBookings        int64     `gorm:"not null;default:0"`
	Version              int64     `gorm:"not null;default:1"`
	CreatedAt            time.Time `gorm:"not null"`
	UpdatedAt            time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (VehicleModel) TableName() string {
	return "vehicles"
}

// GormVehicleRepository is the GORM-based implementation of
// VehicleRepository and, through it, the availability ledger.
type GormVehicleRepository struct {
	db *gorm.DB
}

// NewGormVehicleRepository creates a new GormVehicleRepository.
func NewGormVehicleRepository(db *gorm.DB) *GormVehicleRepository {
	return &GormVehicleRepository{db: db}
}

// FindByID retrieves a vehicle by its unique identifier.
func (r *GormVehicleRepository) FindByID(ctx context.Context, id uuid.UUID) (*vehicleDomain.Vehicle, error) {
	var model VehicleModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Vehicle", id.String())
		}
		return nil, fmt.Errorf("failed to find vehicle by ID: %w", err)
	}
	return toDomainVehicle(&model)
}

// List retrieves vehicles matching the filter with pagination.
func (r *GormVehicleRepository) List(ctx context.Context, filter vehicleDomain.ListFilter, page, limit int) ([]*vehicleDomain.Vehicle, int64, error) {
	query := r.db.WithContext(ctx).Model(&VehicleModel{})
	if filter.Type != "" {
		query = query.Where("type = ?", string(filter.Type))
	}
	if filter.Availability != "" {
		query = query.Where("availability = ?", string(filter.Availability))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count vehicles: %w", err)
	}

	var models []VehicleModel
	offset := (page - 1) * limit
	if err := query.
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list vehicles: %w", err)
	}

	vehicles := make([]*vehicleDomain.Vehicle, len(models))
	for i, m := range models {
		v, err := toDomainVehicle(&m)
		if err != nil {
			return nil, 0, err
		}
		vehicles[i] = v
	}
	return vehicles, total, nil
}

// Save persists a new vehicle.
func (r *GormVehicleRepository) Save(ctx context.Context, v *vehicleDomain.Vehicle) error {
	model := toVehicleModel(v)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to save vehicle: %w", err)
	}
	return nil
}

// Acquire atomically flips the vehicle from available to rented. The
// check and the set are a single conditional UPDATE, so concurrent
// callers cannot both observe "available".
func (r *GormVehicleRepository) Acquire(ctx context.Context, vehicleID uuid.UUID) error {
	return acquireVehicle(r.db.WithContext(ctx), vehicleID)
}

// Release sets the vehicle back to available.
func (r *GormVehicleRepository) Release(ctx context.Context, vehicleID uuid.UUID) error {
	return releaseVehicle(r.db.WithContext(ctx), vehicleID)
}

// UpdateAvailability persists an administrative availability change. The
// conditional WHERE refuses to touch a vehicle the booking engine has
// rented out in the meantime.
func (r *GormVehicleRepository) UpdateAvailability(ctx context.Context, v *vehicleDomain.Vehicle) error {
	result := r.db.WithContext(ctx).
		Model(&VehicleModel{}).
		Where("id = ? AND availability <> ? AND version = ?", v.ID(), string(vehicleDomain.AvailabilityRented), v.Version()-1).
		Updates(map[string]interface{}{
			"availability": string(v.Availability()),
			"version":      v.Version(),
			"updated_at":   v.UpdatedAt(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update vehicle availability: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("vehicle was modified by another transaction")
	}
	return nil
}

// AddRating persists an updated rating aggregate, guarded by the previous
// rating count so two concurrent ratings cannot overwrite each other.
func (r *GormVehicleRepository) AddRating(ctx context.Context, id uuid.UUID, rating vehicleDomain.Rating, expectedCount int64) error {
	result := r.db.WithContext(ctx).
		Model(&VehicleModel{}).
		Where("id = ? AND rating_count = ?", id, expectedCount).
		Updates(map[string]interface{}{
			"rating_average": rating.Average,
			"rating_count":   rating.Count,
			"updated_at":     time.Now().UTC(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update vehicle rating: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("vehicle rating was modified by another transaction")
	}
	return nil
}

// CountByAvailability returns vehicle counts grouped by availability.
func (r *GormVehicleRepository) CountByAvailability(ctx context.Context) (map[string]int64, error) {
	type availabilityCount struct {
		Availability string
		Count        int64
	}
	var results []availabilityCount
	if err := r.db.WithContext(ctx).Model(&VehicleModel{}).
		Select("availability, count(*) as count").
		Group("availability").
		Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to count by availability: %w", err)
	}

	counts := make(map[string]int64)
	for _, ac := range results {
		counts[ac.Availability] = ac.Count
	}
	return counts, nil
}

// --- Shared allocation primitives ---
//
// These operate on a *gorm.DB so the booking repository can run them
// inside its own transactions.

func acquireVehicle(tx *gorm.DB, vehicleID uuid.UUID) error {
	result := tx.Model(&VehicleModel{}).
		Where("id = ? AND availability = ?", vehicleID, string(vehicleDomain.AvailabilityAvailable)).
		Updates(map[string]interface{}{
			"availability": string(vehicleDomain.AvailabilityRented),
			"updated_at":   time.Now().UTC(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to acquire vehicle: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		var count int64
		if err := tx.Model(&VehicleModel{}).Where("id = ?", vehicleID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check vehicle existence: %w", err)
		}
		if count == 0 {
			return domain.NewNotFoundError("Vehicle", vehicleID.String())
		}
		return domain.NewVehicleUnavailableError("vehicle is not available for booking")
	}
	return nil
}

func releaseVehicle(tx *gorm.DB, vehicleID uuid.UUID) error {
	result := tx.Model(&VehicleModel{}).
		Where("id = ?", vehicleID).
		Updates(map[string]interface{}{
			"availability": string(vehicleDomain.AvailabilityAvailable),
			"updated_at":   time.Now().UTC(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to release vehicle: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NewNotFoundError("Vehicle", vehicleID.String())
	}
	return nil
}

// --- Conversion helpers ---

func toVehicleModel(v *vehicleDomain.Vehicle) *VehicleModel {
	rates := v.RateCard()
	return &VehicleModel{
		ID:                   v.ID(),
		Name:                 v.Name(),
		Type:                 string(v.Type()),
		RegistrationNo:       v.RegistrationNo(),
		Location:             v.Location(),
		HourlyRatePaise:      rates.HourlyPaise,
		DailyRatePaise:       rates.DailyPaise,
		WeeklyRatePaise:      rates.WeeklyPaise,
		SecurityDepositPaise: rates.SecurityDepositPaise,
		Availability:         string(v.Availability()),
		RatingAverage:        v.Rating().Average,
		RatingCount:          v.Rating().Count,
		TotalBookings:        v.TotalBookings(),
		Version:              v.Version(),
		CreatedAt:            v.CreatedAt(),
		UpdatedAt:            v.UpdatedAt(),
	}
}

func toDomainVehicle(m *VehicleModel) (*vehicleDomain.Vehicle, error) {
	availability, err := vehicleDomain.ParseAvailability(m.Availability)
	if err != nil {
		return nil, err
	}

	return vehicleDomain.Reconstruct(
		m.ID,
		m.Name,
		vehicleDomain.VehicleType(m.Type),
		m.RegistrationNo,
		m.Location,
		vehicleDomain.RateCard{
			HourlyPaise:          m.HourlyRatePaise,
			DailyPaise:           m.DailyRatePaise,
			WeeklyPaise:          m.WeeklyRatePaise,
			SecurityDepositPaise: m.SecurityDepositPaise,
		},
		availability,
		vehicleDomain.Rating{Average: m.RatingAverage, Count: m.RatingCount},
		m.TotalBookings,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	), nil
}
