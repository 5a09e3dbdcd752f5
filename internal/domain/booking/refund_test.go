package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTieredRefund(t *testing.T) {
	policy := NewTieredRefundPolicy()
	start := time.Date(2026, 9, 10, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		now    time.Time
		total  int64
		refund int64
	}{
		{"more than 24h before start", start.Add(-48 * time.Hour), 100000, 90000},
		{"just over 24h before start", start.Add(-24*time.Hour - time.Minute), 100000, 90000},
		{"exactly 24h before start", start.Add(-24 * time.Hour), 100000, 50000},
		{"between 12h and 24h", start.Add(-18 * time.Hour), 100000, 50000},
		{"exactly 12h before start", start.Add(-12 * time.Hour), 100000, 0},
		{"under 12h before start", start.Add(-2 * time.Hour), 100000, 0},
		{"after start", start.Add(3 * time.Hour), 100000, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.refund, policy.RefundAmount(tt.total, start, tt.now))
		})
	}
}

func TestTieredRefund_IntegerMath(t *testing.T) {
	policy := NewTieredRefundPolicy()
	start := time.Date(2026, 9, 10, 10, 0, 0, 0, time.UTC)

	// 90% of 546000 paise.
	got := policy.RefundAmount(546000, start, start.Add(-72*time.Hour))
	assert.Equal(t, int64(491400), got)

	// Remainders truncate toward zero.
	got = policy.RefundAmount(99, start, start.Add(-15*time.Hour))
	assert.Equal(t, int64(49), got)
}
