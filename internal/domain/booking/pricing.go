package booking

import (
	"fmt"

	"github.com/ThisIsSreshtha/CityWheels---Switch-Rides--Not-Plans-sub000/internal/domain"
	"github.com/ThisIsSreshtha/CityWheels---Switch-Rides--Not-Plans-sub000/internal/domain/vehicle"
)

// DefaultTaxBasisPoints is the standard tax rate applied to the base
// price, in basis points (1800 = 18%).
const DefaultTaxBasisPoints = 1800

// Quote is the immutable price breakdown computed at booking creation.
// All amounts are in paise.
type Quote struct {
	BasePricePaise       int64 `json:"base_price_paise"`
	SecurityDepositPaise int64 `json:"security_deposit_paise"`
	TaxesPaise           int64 `json:"taxes_paise"`
	DiscountPaise        int64 `json:"discount_paise"`
	TotalPaise           int64 `json:"total_paise"`
}

// PricingStrategy defines the interface for computing rental quotes.
type PricingStrategy interface {
	// Quote returns the price breakdown for renting at the given rate
	// card for duration units of period.
	Quote(rates vehicle.RateCard, period RentalPeriod, duration int) (Quote, error)
}

// StandardPricingStrategy implements the default CityWheels pricing:
// base price is the period rate times the duration, tax is a flat
// percentage of the base, and the security deposit passes through
// unchanged into the total.
type StandardPricingStrategy struct {
	taxBasisPoints int64
}

// NewStandardPricingStrategy creates a pricing strategy with the given
// tax rate in basis points. Non-positive values fall back to the default.
func NewStandardPricingStrategy(taxBasisPoints int64) *StandardPricingStrategy {
	if taxBasisPoints <= 0 {
		taxBasisPoints = DefaultTaxBasisPoints
	}
	return &StandardPricingStrategy{taxBasisPoints: taxBasisPoints}
}

// Quote computes the price breakdown in paise. It is a pure function of
// its inputs.
func (s *StandardPricingStrategy) Quote(rates vehicle.RateCard, period RentalPeriod, duration int) (Quote, error) {
	if duration < 1 {
		return Quote{}, domain.NewValidationError(fmt.Sprintf("duration must be at least 1, got %d", duration))
	}

	var rate int64
	switch period {
	case PeriodHourly:
		rate = rates.HourlyPaise
	case PeriodDaily:
		rate = rates.DailyPaise
	case PeriodWeekly:
		rate = rates.WeeklyPaise
	default:
		return Quote{}, domain.NewValidationError(fmt.Sprintf("invalid rental period: %s", period))
	}

	base := rate * int64(duration)
	taxes := base * s.taxBasisPoints / 10000
	deposit := rates.SecurityDepositPaise

	return Quote{
		BasePricePaise:       base,
		SecurityDepositPaise: deposit,
		TaxesPaise:           taxes,
		DiscountPaise:        0,
		TotalPaise:           base + taxes + deposit,
	}, nil
}
