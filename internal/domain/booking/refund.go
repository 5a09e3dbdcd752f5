package booking

import "time"

// RefundPolicy computes the amount returned to the renter when a booking
// is cancelled before or after its scheduled start.
type RefundPolicy interface {
	// RefundAmount returns the refund in paise for a booking with the
	// given total, cancelled at now against the scheduled start.
	RefundAmount(totalPaise int64, startDate, now time.Time) int64
}

// TieredRefundPolicy is a step function over the hours remaining until
// the scheduled start: more than 24h earns 90%, more than 12h earns 50%,
// anything later (including after the start) earns nothing.
type TieredRefundPolicy struct {
	earlyWindow   time.Duration
	lateWindow    time.Duration
	earlyPercent  int64
	lateSlabPerct int64
}

// NewTieredRefundPolicy creates the standard two-threshold refund policy.
func NewTieredRefundPolicy() *TieredRefundPolicy {
	return &TieredRefundPolicy{
		earlyWindow:   24 * time.Hour,
		lateWindow:    12 * time.Hour,
		earlyPercent:  90,
		lateSlabPerct: 50,
	}
}

// RefundAmount evaluates the step function once. A negative remaining
// window means the rental was already due to start and refunds nothing.
func (p *TieredRefundPolicy) RefundAmount(totalPaise int64, startDate, now time.Time) int64 {
	untilStart := startDate.Sub(now)
	switch {
	case untilStart > p.earlyWindow:
		return totalPaise * p.earlyPercent / 100
	case untilStart > p.lateWindow:
		return totalPaise * p.lateSlabPerct / 100
	default:
		return 0
	}
}
