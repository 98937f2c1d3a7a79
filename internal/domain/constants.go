package domain

// Default resource configuration values
const (
	DefaultStepMinutes     = 30
	DefaultOpeningMinutes  = 0
	DefaultClosingMinutes  = 0 // открыто до конца суток
	DefaultSpacingMinutes  = 0
	DefaultFutureLimitDays = 0 // без ограничения
)

// Business validation constants
const (
	MinStepMinutes = 5
	MaxStepMinutes = 480 // 8 hours
)

// Time format constants
const (
	TimeFormat     = "15:04"            // HH:MM
	DateFormat     = "2006-01-02"       // YYYY-MM-DD
	DateTimeFormat = "2006-01-02T15:04" // гражданское время без часового пояса
)

// EndOfDayMinute последняя минута суток (23:59).
// Интервал не может легально закончиться в 24:00, поэтому конец,
// попадающий ровно в полночь, обрезается до 23:59; правила длительности
// компенсируют эту минуту (см. internal/rules).
const EndOfDayMinute = 23*60 + 59
