package domain

import (
	"time"

	"github.com/m04kA/SMC-SlotEngine/pkg/types"
)

// AvailabilityMode режим доступности услуги
type AvailabilityMode string

const (
	// AvailabilityDefault услуга доступна в течение всего рабочего дня ресурса
	AvailabilityDefault AvailabilityMode = "default"

	// AvailabilityTimeRange услуга доступна только в окне [From, To]
	AvailabilityTimeRange AvailabilityMode = "time-range"
)

// ServiceAvailability окно доступности услуги внутри дня
type ServiceAvailability struct {
	Mode AvailabilityMode
	From types.TimeString // заполнено только для AvailabilityTimeRange
	To   types.TimeString // заполнено только для AvailabilityTimeRange; From < To
}

// ServiceDescriptor услуга с фиксированной длительностью.
// Длительность задается в шагах ресурса: durationMinutes = DurationSteps * StepMinutes.
type ServiceDescriptor struct {
	ID            int64
	ResourceID    int64
	Title         string
	DurationSteps int
	Availability  ServiceAvailability

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasTimeRange возвращает true, если у услуги задано окно доступности
func (s *ServiceDescriptor) HasTimeRange() bool {
	return s.Availability.Mode == AvailabilityTimeRange
}

// DurationMinutes возвращает длительность услуги в минутах для указанного шага ресурса
func (s *ServiceDescriptor) DurationMinutes(stepMinutes int) int {
	return s.DurationSteps * stepMinutes
}
