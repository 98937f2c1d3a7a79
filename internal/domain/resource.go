package domain

import (
	"time"

	"github.com/m04kA/SMC-SlotEngine/pkg/types"
)

// ResourceContext неизменяемый снимок настроек ресурса, используемый правилами.
// Рабочие часы хранятся в минутах с начала суток.
type ResourceContext struct {
	ResourceID int64

	OpeningMinutes int // начало рабочего дня
	ClosingMinutes int // конец рабочего дня; <=0, >=1440 или <=opening означает "до конца суток"

	StepMinutes        int // минимальная гранулярность бронирования
	MinDurationMinutes int // 0 = без ограничения
	MaxDurationMinutes int // 0 = без ограничения
	SpacingMinutes     int // обязательный отступ до/после соседних бронирований, 0 = без отступа

	Timezone        string // IANA-имя часового пояса ресурса
	FutureLimitDays int    // 0 = без ограничения глубины бронирования

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OpenEnded возвращает true, если конец рабочего дня не задан
// (ресурс открыт до конца суток) и правило времени закрытия не применяется
func (r *ResourceContext) OpenEnded() bool {
	return r.ClosingMinutes <= 0 ||
		r.ClosingMinutes >= types.MinutesPerDay ||
		r.ClosingMinutes <= r.OpeningMinutes
}

// Location возвращает часовой пояс ресурса; пустое значение - UTC
func (r *ResourceContext) Location() (*time.Location, error) {
	if r.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(r.Timezone)
}

// OpeningTime возвращает время открытия как TimeString
func (r *ResourceContext) OpeningTime() types.TimeString {
	ts, err := types.NewTimeStringFromMinutes(r.OpeningMinutes)
	if err != nil {
		return "00:00"
	}
	return ts
}

// ClosingTime возвращает время закрытия как TimeString; для OpenEnded - конец суток
func (r *ResourceContext) ClosingTime() types.TimeString {
	if r.OpenEnded() {
		return "24:00"
	}
	ts, err := types.NewTimeStringFromMinutes(r.ClosingMinutes)
	if err != nil {
		return "24:00"
	}
	return ts
}
