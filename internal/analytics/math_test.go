package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPercentChange(t *testing.T) {
	cases := []struct {
		name      string
		cur, prev float64
		want      float64
	}{
		{"growth", 150, 100, 50},
		{"decline", 50, 100, -50},
		{"flat", 100, 100, 0},
		{"zero baseline counts as full increase", 42, 0, 100},
		{"both zero", 0, 0, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, percentChange(tc.cur, tc.prev), 1e-9)
		})
	}
}

func TestEstimateProfit(t *testing.T) {
	assert.InDelta(t, 250, estimateProfit(1000), 1e-9)
	assert.Zero(t, estimateProfit(0))
}

func TestMapPaymentStatus(t *testing.T) {
	assert.Equal(t, "Completed", mapPaymentStatus("paid"))
	assert.Equal(t, "Cancelled", mapPaymentStatus("failed"))
	assert.Equal(t, "In progress", mapPaymentStatus("pending"))
}

func TestPeriodStart(t *testing.T) {
	now := time.Date(2026, time.August, 28, 14, 30, 0, 0, time.UTC)

	day, err := periodStart("day", now)
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.August, 28, 0, 0, 0, 0, time.UTC), day)

	month, err := periodStart("month", now)
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC), month)

	year, err := periodStart("year", now)
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC), year)

	_, err = periodStart("week", now)
	assert.Error(t, err)
}
