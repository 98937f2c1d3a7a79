package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func ts(hour, minute int) time.Time {
	return time.Date(2026, 9, 1, hour, minute, 0, 0, time.UTC)
}

func TestOccupiedInterval_Overlaps(t *testing.T) {
	occupied := OccupiedInterval{Start: ts(10, 0), End: ts(11, 0)}

	tests := []struct {
		name      string
		candidate CandidateInterval
		want      bool
	}{
		{"inside", CandidateInterval{Start: ts(10, 15), End: ts(10, 45)}, true},
		{"covers", CandidateInterval{Start: ts(9, 0), End: ts(12, 0)}, true},
		{"partial left", CandidateInterval{Start: ts(9, 30), End: ts(10, 30)}, true},
		{"partial right", CandidateInterval{Start: ts(10, 30), End: ts(11, 30)}, true},
		{"adjacent before", CandidateInterval{Start: ts(9, 0), End: ts(10, 0)}, false},
		{"adjacent after", CandidateInterval{Start: ts(11, 0), End: ts(12, 0)}, false},
		{"disjoint", CandidateInterval{Start: ts(14, 0), End: ts(15, 0)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, occupied.Overlaps(tt.candidate))
		})
	}
}

func TestResourceContext_OpenEnded(t *testing.T) {
	assert.True(t, (&ResourceContext{OpeningMinutes: 540, ClosingMinutes: 0}).OpenEnded())
	assert.True(t, (&ResourceContext{OpeningMinutes: 540, ClosingMinutes: 1440}).OpenEnded())
	assert.True(t, (&ResourceContext{OpeningMinutes: 540, ClosingMinutes: 540}).OpenEnded())
	assert.False(t, (&ResourceContext{OpeningMinutes: 540, ClosingMinutes: 1020}).OpenEnded())
}

func TestBookingDraft_CloneIsDeep(t *testing.T) {
	coupon := "SAVE10"
	price := 1500.0
	draft := &BookingDraft{
		ID:             "d1",
		ResourceID:     1,
		Interval:       CandidateInterval{Start: ts(10, 0), End: ts(11, 0)},
		Service:        &ServiceDescriptor{ID: 5},
		Extras:         map[string]interface{}{"cleaning": true},
		Coupon:         &coupon,
		Price:          &price,
		PriceBreakdown: []PriceLine{{Label: "base", Amount: 1500}},
	}

	clone := draft.Clone()
	clone.Service.ID = 99
	clone.Extras["cleaning"] = false
	*clone.Coupon = "OTHER"
	*clone.Price = 1
	clone.PriceBreakdown[0].Amount = 0

	assert.Equal(t, int64(5), draft.Service.ID)
	assert.Equal(t, true, draft.Extras["cleaning"])
	assert.Equal(t, "SAVE10", *draft.Coupon)
	assert.Equal(t, 1500.0, *draft.Price)
	assert.Equal(t, 1500.0, draft.PriceBreakdown[0].Amount)
}

func TestBookingDraft_ResetPrice(t *testing.T) {
	price := 1500.0
	draft := &BookingDraft{
		Price:          &price,
		PriceBreakdown: []PriceLine{{Label: "base", Amount: 1500}},
		InfoMessages:   []string{"standard rate"},
	}

	draft.ResetPrice()

	assert.True(t, draft.PriceStale())
	assert.Nil(t, draft.PriceBreakdown)
	assert.Nil(t, draft.InfoMessages)
}
