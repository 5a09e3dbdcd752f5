package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingStatus_Transitions(t *testing.T) {
	tests := []struct {
		from    BookingStatus
		to      BookingStatus
		allowed bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusActive, false},
		{StatusPending, StatusCompleted, false},
		{StatusConfirmed, StatusActive, true},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusCompleted, false},
		{StatusConfirmed, StatusPending, false},
		{StatusActive, StatusCompleted, true},
		{StatusActive, StatusCancelled, false},
		{StatusActive, StatusPending, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCompleted, StatusPending, false},
		{StatusCancelled, StatusConfirmed, false},
		{StatusCancelled, StatusPending, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"_to_"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestBookingStatus_Terminal(t *testing.T) {
	assert.True(t, StatusCompleted.IsTerminal())
	assert.True(t, StatusCancelled.IsTerminal())
	assert.False(t, StatusPending.IsTerminal())
	assert.False(t, StatusConfirmed.IsTerminal())
	assert.False(t, StatusActive.IsTerminal())
}

func TestBookingStatus_CanBeCancelled(t *testing.T) {
	assert.True(t, StatusPending.CanBeCancelled())
	assert.True(t, StatusConfirmed.CanBeCancelled())
	assert.False(t, StatusActive.CanBeCancelled())
	assert.False(t, StatusCompleted.CanBeCancelled())
	assert.False(t, StatusCancelled.CanBeCancelled())
}

func TestParseBookingStatus(t *testing.T) {
	status, err := ParseBookingStatus("confirmed")
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, status)

	_, err = ParseBookingStatus("shipped")
	require.Error(t, err)
}

func TestParsePaymentStatus(t *testing.T) {
	status, err := ParsePaymentStatus("partial")
	require.NoError(t, err)
	assert.Equal(t, PaymentPartial, status)

	_, err = ParsePaymentStatus("escrow")
	require.Error(t, err)
}
