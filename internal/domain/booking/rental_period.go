package booking

import (
	"fmt"
	"time"

	"github.com/ThisIsSreshtha/CityWheels---Switch-Rides--Not-Plans-sub000/internal/domain"
)

// RentalPeriod is the billing unit of a rental: it selects the rate field
// and the duration unit.
type RentalPeriod string

const (
	PeriodHourly RentalPeriod = "hourly"
	PeriodDaily  RentalPeriod = "daily"
	PeriodWeekly RentalPeriod = "weekly"
)

// IsValid returns true if the rental period is recognized.
func (p RentalPeriod) IsValid() bool {
	switch p {
	case PeriodHourly, PeriodDaily, PeriodWeekly:
		return true
	}
	return false
}

// String returns the string representation of the period.
func (p RentalPeriod) String() string {
	return string(p)
}

// ParseRentalPeriod converts a string to a RentalPeriod, returning a
// validation error if it is not one of the three billing units.
func ParseRentalPeriod(s string) (RentalPeriod, error) {
	p := RentalPeriod(s)
	if !p.IsValid() {
		return "", domain.NewValidationError(fmt.Sprintf("invalid rental period: %s", s))
	}
	return p, nil
}

// EndDate adds duration units of this period to start.
func (p RentalPeriod) EndDate(start time.Time, duration int) time.Time {
	switch p {
	case PeriodHourly:
		return start.Add(time.Duration(duration) * time.Hour)
	case PeriodDaily:
		return start.AddDate(0, 0, duration)
	case PeriodWeekly:
		return start.AddDate(0, 0, duration*7)
	}
	return start
}
