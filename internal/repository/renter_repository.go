package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ThisIsSreshtha/CityWheels---Switch-Rides--Not-Plans-sub000/internal/domain"
	renterDomain "github.com/ThisIsSreshtha/CityWheels---Switch-Rides--Not-Plans-sub000/internal/domain/renter"
)

// RenterModel is the GORM model for the renters table. The table is
// written by the identity service; this repository only reads it.
type RenterModel struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Name       string     `gorm:"not null;size:100"`
	Email      string     `gorm:"uniqueIndex;not null;size:200"`
	Phone      string     `gorm:"size:20"`
	Role       string     `gorm:"not null;size:20;default:'renter'"`
	IsVerified bool       `gorm:"not null;default:false"`
	VerifiedAt *time.Time `gorm:""`
	CreatedAt  time.Time  `gorm:"not null"`
	UpdatedAt  time.Time  `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (RenterModel) TableName() string {
	return "renters"
}

// GormRenterRepository is the GORM-based implementation of RenterRepository.
type GormRenterRepository struct {
	db *gorm.DB
}

// NewGormRenterRepository creates a new GormRenterRepository.
func NewGormRenterRepository(db *gorm.DB) *GormRenterRepository {
	return &GormRenterRepository{db: db}
}

// FindByID retrieves a renter by its unique identifier.
func (r *GormRenterRepository) FindByID(ctx context.Context, id uuid.UUID) (*renterDomain.Renter, error) {
	var model RenterModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Renter", id.String())
		}
		return nil, fmt.Errorf("failed to find renter by ID: %w", err)
	}
	return renterDomain.Reconstruct(
		model.ID,
		model.Name,
		model.Email,
		model.Phone,
		model.Role,
		model.IsVerified,
		model.VerifiedAt,
		model.CreatedAt,
	), nil
}
