package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ThisIsSreshtha/CityWheels---Switch-Rides--Not-Plans-sub000/internal/domain"
	"github.com/ThisIsSreshtha/CityWheels---Switch-Rides--Not-Plans-sub000/internal/domain/vehicle"
)

// VehicleListQuery narrows the vehicle catalog listing.
type VehicleListQuery struct {
	Type         string
	Availability string
	Page         int
	Limit        int
}

// SetAvailabilityRequest is the admin payload for an availability change.
type SetAvailabilityRequest struct {
	Availability string `json:"availability" binding:"required"`
}

// VehicleDTO is the API response representation of a vehicle.
type VehicleDTO struct {
	ID                   uuid.UUID `json:"id"`
	Name                 string    `json:"name"`
	Type                 string    `json:"type"`
	RegistrationNo       string    `json:"registration_no"`
	Location             string    `json:"location"`
	HourlyPaise          int64     `json:"hourly_paise"`
	DailyPaise           int64     `json:"daily_paise"`
	WeeklyPaise          int64     `json:"weekly_paise"`
	SecurityDepositPaise int64     `json:"security_deposit_paise"`
	Currency             string    `json:"currency"`
	Availability         string    `json:"availability"`
	RatingAverage        float64   `json:"rating_average"`
	RatingCount          int64     `json:"rating_count"`
	TotalBookings        int64     `json:"total_bookings"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// FleetStatsDTO holds vehicle counts for the admin dashboard.
type FleetStatsDTO struct {
	TotalVehicles  int64            `json:"total_vehicles"`
	ByAvailability map[string]int64 `json:"by_availability"`
}

// FleetService implements use cases for the vehicle catalog.
type FleetService struct {
	repo   vehicle.VehicleRepository
	logger *zap.Logger
}

// NewFleetService creates a new FleetService.
func NewFleetService(repo vehicle.VehicleRepository, logger *zap.Logger) *FleetService {
	return &FleetService{repo: repo, logger: logger}
}

// ListVehicles returns a paginated catalog page matching the query.
func (s *FleetService) ListVehicles(ctx context.Context, q VehicleListQuery) (*domain.PaginatedResult[VehicleDTO], error) {
	var filter vehicle.ListFilter

	if q.Type != "" {
		t := vehicle.VehicleType(q.Type)
		if !t.IsValid() {
			return nil, domain.NewValidationError(fmt.Sprintf("invalid vehicle type: %s", q.Type))
		}
		filter.Type = t
	}
	if q.Availability != "" {
		a, err := vehicle.ParseAvailability(q.Availability)
		if err != nil {
			return nil, err
		}
		filter.Availability = a
	}

	vehicles, total, err := s.repo.List(ctx, filter, q.Page, q.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list vehicles: %w", err)
	}

	dtos := make([]VehicleDTO, len(vehicles))
	for i, v := range vehicles {
		dtos[i] = toVehicleDTO(v)
	}

	result := domain.NewPaginatedResult(dtos, total, q.Page, q.Limit)
	return &result, nil
}

// GetVehicle returns a single vehicle by ID.
func (s *FleetService) GetVehicle(ctx context.Context, vehicleID uuid.UUID) (*VehicleDTO, error) {
	veh, err := s.repo.FindByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}
	result := toVehicleDTO(veh)
	return &result, nil
}

// SetVehicleAvailability applies an administrative availability change.
// Rented vehicles are off limits; only a completed or cancelled booking
// releases them.
func (s *FleetService) SetVehicleAvailability(ctx context.Context, vehicleID uuid.UUID, req SetAvailabilityRequest) (*VehicleDTO, error) {
	target, err := vehicle.ParseAvailability(req.Availability)
	if err != nil {
		return nil, err
	}

	veh, err := s.repo.FindByID(ctx, vehicleID)
	if err != nil {
		return nil, err
	}

	if err := veh.SetAvailability(target); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateAvailability(ctx, veh); err != nil {
		return nil, err
	}

	s.logger.Info("vehicle availability changed",
		zap.String("vehicle_id", vehicleID.String()),
		zap.String("availability", string(target)),
	)
	result := toVehicleDTO(veh)
	return &result, nil
}

// GetFleetStats returns vehicle counts grouped by availability (admin).
func (s *FleetService) GetFleetStats(ctx context.Context) (*FleetStatsDTO, error) {
	counts, err := s.repo.CountByAvailability(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get fleet stats: %w", err)
	}

	var total int64
	for _, c := range counts {
		total += c
	}

	return &FleetStatsDTO{
		TotalVehicles:  total,
		ByAvailability: counts,
	}, nil
}

func toVehicleDTO(v *vehicle.Vehicle) VehicleDTO {
	rates := v.RateCard()
	rating := v.Rating()
	return VehicleDTO{
		ID:                   v.ID(),
		Name:                 v.Name(),
		Type:                 string(v.Type()),
		RegistrationNo:       v.RegistrationNo(),
		Location:             v.Location(),
		HourlyPaise:          rates.HourlyPaise,
		DailyPaise:           rates.DailyPaise,
		WeeklyPaise:          rates.WeeklyPaise,
		SecurityDepositPaise: rates.SecurityDepositPaise,
		Currency:             domain.CurrencyINR,
		Availability:         string(v.Availability()),
		RatingAverage:        rating.Average,
		RatingCount:          rating.Count,
		TotalBookings:        v.TotalBookings(),
		CreatedAt:            v.CreatedAt(),
		UpdatedAt:            v.UpdatedAt(),
	}
}
