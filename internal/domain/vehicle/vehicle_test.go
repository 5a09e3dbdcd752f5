package vehicle

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ThisIsSreshtha/CityWheels---Switch-Rides--Not-Plans-sub000/internal/domain"
)

func newTestVehicle(t *testing.T, availability Availability) *Vehicle {
	t.Helper()
	return Reconstruct(
		uuid.New(), "Honda Activa 6G", TypeScooter, "DL8SAB1234", "Hauz Khas Hub",
		RateCard{HourlyPaise: 20000, DailyPaise: 150000, WeeklyPaise: 800000, SecurityDepositPaise: 15000},
		availability,
		Rating{},
		0, 1,
		time.Now().UTC(), time.Now().UTC(),
	)
}

func TestNewVehicle(t *testing.T) {
	rates := RateCard{HourlyPaise: 20000, DailyPaise: 150000, WeeklyPaise: 800000}

	v, err := NewVehicle("Honda Activa 6G", TypeScooter, "DL8SAB1234", "Hauz Khas Hub", rates)
	require.NoError(t, err)
	assert.Equal(t, AvailabilityAvailable, v.Availability())
	assert.True(t, v.IsBookable())
	assert.Equal(t, int64(0), v.Rating().Count)
}

func TestNewVehicle_Validation(t *testing.T) {
	rates := RateCard{HourlyPaise: 20000, DailyPaise: 150000, WeeklyPaise: 800000}

	tests := []struct {
		name string
		fn   func() (*Vehicle, error)
	}{
		{"empty name", func() (*Vehicle, error) {
			return NewVehicle("", TypeScooter, "DL8SAB1234", "", rates)
		}},
		{"bad type", func() (*Vehicle, error) {
			return NewVehicle("x", VehicleType("hovercraft"), "DL8SAB1234", "", rates)
		}},
		{"empty registration", func() (*Vehicle, error) {
			return NewVehicle("x", TypeScooter, "", "", rates)
		}},
		{"zero rate", func() (*Vehicle, error) {
			return NewVehicle("x", TypeScooter, "DL8SAB1234", "", RateCard{HourlyPaise: 0, DailyPaise: 1, WeeklyPaise: 1})
		}},
		{"negative deposit", func() (*Vehicle, error) {
			return NewVehicle("x", TypeScooter, "DL8SAB1234", "", RateCard{HourlyPaise: 1, DailyPaise: 1, WeeklyPaise: 1, SecurityDepositPaise: -1})
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.fn()
			require.Error(t, err)
			assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))
		})
	}
}

func TestRating_Add(t *testing.T) {
	r := Rating{Average: 4.0, Count: 2}

	updated := r.Add(5)
	assert.InDelta(t, 4.333333, updated.Average, 0.0001)
	assert.Equal(t, int64(3), updated.Count)

	// First rating of a fresh vehicle is the average itself.
	first := Rating{}.Add(3)
	assert.Equal(t, 3.0, first.Average)
	assert.Equal(t, int64(1), first.Count)
}

func TestRating_AddSequence(t *testing.T) {
	r := Rating{}
	for _, v := range []float64{5, 4, 3, 5} {
		r = r.Add(v)
	}
	assert.Equal(t, int64(4), r.Count)
	assert.InDelta(t, 4.25, r.Average, 0.0001)
}

func TestVehicle_SetAvailability(t *testing.T) {
	t.Run("available to maintenance", func(t *testing.T) {
		v := newTestVehicle(t, AvailabilityAvailable)
		require.NoError(t, v.SetAvailability(AvailabilityMaintenance))
		assert.Equal(t, AvailabilityMaintenance, v.Availability())
		assert.False(t, v.IsBookable())
		assert.Equal(t, int64(2), v.Version())
	})

	t.Run("cannot set rented", func(t *testing.T) {
		v := newTestVehicle(t, AvailabilityAvailable)
		err := v.SetAvailability(AvailabilityRented)
		require.Error(t, err)
		assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))
	})

	t.Run("cannot leave rented", func(t *testing.T) {
		v := newTestVehicle(t, AvailabilityRented)
		err := v.SetAvailability(AvailabilityAvailable)
		require.Error(t, err)
		assert.Equal(t, domain.CodeInvalidState, domain.CodeOf(err))
	})

	t.Run("invalid target", func(t *testing.T) {
		v := newTestVehicle(t, AvailabilityAvailable)
		err := v.SetAvailability(Availability("lost"))
		require.Error(t, err)
		assert.Equal(t, domain.CodeValidation, domain.CodeOf(err))
	})
}

func TestParseAvailability(t *testing.T) {
	a, err := ParseAvailability("maintenance")
	require.NoError(t, err)
	assert.Equal(t, AvailabilityMaintenance, a)

	_, err = ParseAvailability("parked")
	require.Error(t, err)
}
