package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ThisIsSreshtha/CityWheels---Switch-Rides--Not-Plans-sub000/internal/domain"
	"github.com/ThisIsSreshtha/CityWheels---Switch-Rides--Not-Plans-sub000/internal/domain/vehicle"
)

func standardRates() vehicle.RateCard {
	return vehicle.RateCard{
		HourlyPaise:          20000,
		DailyPaise:           150000,
		WeeklyPaise:          800000,
		SecurityDepositPaise: 15000,
	}
}

func TestStandardPricing_DailyQuote(t *testing.T) {
	strategy := NewStandardPricingStrategy(0)

	q, err := strategy.Quote(standardRates(), PeriodDaily, 3)
	require.NoError(t, err)

	// 1500/day for 3 days, 18% tax, 150 deposit.
	assert.Equal(t, int64(450000), q.BasePricePaise)
	assert.Equal(t, int64(81000), q.TaxesPaise)
	assert.Equal(t, int64(15000), q.SecurityDepositPaise)
	assert.Equal(t, int64(0), q.DiscountPaise)
	assert.Equal(t, int64(546000), q.TotalPaise)
}

func TestStandardPricing_SelectsRateByPeriod(t *testing.T) {
	strategy := NewStandardPricingStrategy(0)
	rates := standardRates()

	tests := []struct {
		period   RentalPeriod
		duration int
		base     int64
	}{
		{PeriodHourly, 5, 100000},
		{PeriodDaily, 1, 150000},
		{PeriodWeekly, 2, 1600000},
	}

	for _, tt := range tests {
		t.Run(string(tt.period), func(t *testing.T) {
			q, err := strategy.Quote(rates, tt.period, tt.duration)
			require.NoError(t, err)
			assert.Equal(t, tt.base, q.BasePricePaise)
			assert.Equal(t, tt.base*18/100, q.TaxesPaise)
			assert.Equal(t, tt.base+tt.base*18/100+rates.SecurityDepositPaise, q.TotalPaise)
		})
	}
}

func TestStandardPricing_Deterministic(t *testing.T) {
	strategy := NewStandardPricingStrategy(0)

	first, err := strategy.Quote(standardRates(), PeriodWeekly, 4)
	require.NoError(t, err)
	second, err := strategy.Quote(standardRates(), PeriodWeekly, 4)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestStandardPricing_CustomTaxRate(t *testing.T) {
	strategy := NewStandardPricingStrategy(500)

	q, err := strategy.Quote(standardRates(), PeriodDaily, 2)
	require.NoError(t, err)

	assert.Equal(t, int64(300000), q.BasePricePaise)
	assert.Equal(t, int64(15000), q.TaxesPaise)
}

func TestStandardPricing_RejectsInvalidDuration(t *testing.T) {
	strategy := NewStandardPricingStrategy(0)

	for _, duration := range []int{0, -1} {
		_, err := strategy.Quote(standardRates(), PeriodDaily, duration)
		require.Error(t, err)
		assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))
	}
}

func TestStandardPricing_RejectsInvalidPeriod(t *testing.T) {
	strategy := NewStandardPricingStrategy(0)

	_, err := strategy.Quote(standardRates(), RentalPeriod("fortnightly"), 1)
	require.Error(t, err)
	assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))
}

func TestStandardPricing_ZeroDeposit(t *testing.T) {
	strategy := NewStandardPricingStrategy(0)
	rates := standardRates()
	rates.SecurityDepositPaise = 0

	q, err := strategy.Quote(rates, PeriodHourly, 1)
	require.NoError(t, err)
	assert.Equal(t, q.BasePricePaise+q.TaxesPaise, q.TotalPaise)
}
