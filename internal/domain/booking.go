package domain

import "time"

// BookingStatus represents the status of a confirmed booking
type BookingStatus string

const (
	StatusConfirmed BookingStatus = "confirmed"
)

// Booking represents a reservation persisted at checkout.
// Денормализует цену и параметры черновика на момент подтверждения.
type Booking struct {
	ID         int64
	DraftID    string
	ResourceID int64
	UserID     int64
	ServiceID  *int64

	StartAt time.Time
	EndAt   time.Time

	Price          float64
	PriceBreakdown []PriceLine
	Extras         map[string]interface{}
	Coupon         *string

	Status BookingStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OccupiedInterval returns the calendar interval held by this booking
func (b *Booking) OccupiedInterval() OccupiedInterval {
	return OccupiedInterval{Start: b.StartAt, End: b.EndAt, Kind: KindNormal}
}
