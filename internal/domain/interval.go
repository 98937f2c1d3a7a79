package domain

import "time"

// EventKind вид занятого интервала в календаре ресурса.
// Набор видов открытый: источник событий может присылать новые значения,
// они сохраняются и передаются как есть. Правило интервала между бронями
// игнорирует только KindUnavailable.
type EventKind string

const (
	// KindNormal обычное бронирование
	KindNormal EventKind = "normal"

	// KindUnavailable период недоступности ресурса (перерыв, блокировка).
	// К таким интервалам можно примыкать вплотную, но нельзя пересекаться.
	KindUnavailable EventKind = "unavailable"
)

// ExemptFromSpacing возвращает true, если к интервалу этого вида
// не применяется требование отступа между бронированиями
func (k EventKind) ExemptFromSpacing() bool {
	return k == KindUnavailable
}

// CandidateInterval кандидат на бронирование: пара начало/конец в гражданском
// времени ресурса (без конвертации часовых поясов на этом уровне).
// Инвариант Start < End проверяется первым правилом пайплайна.
// Эфемерный объект: создается на каждую попытку валидации и не хранится.
type CandidateInterval struct {
	Start time.Time
	End   time.Time
}

// DurationMinutes возвращает длительность кандидата в минутах
func (c CandidateInterval) DurationMinutes() int {
	return int(c.End.Sub(c.Start).Minutes())
}

// Equal возвращает true, если кандидаты совпадают по значению
func (c CandidateInterval) Equal(other CandidateInterval) bool {
	return c.Start.Equal(other.Start) && c.End.Equal(other.End)
}

// IsZero возвращает true, если кандидат не задан
func (c CandidateInterval) IsZero() bool {
	return c.Start.IsZero() && c.End.IsZero()
}

// OccupiedInterval занятый интервал в календаре ресурса
type OccupiedInterval struct {
	Start time.Time
	End   time.Time
	Kind  EventKind
}

// Overlaps проверяет пересечение с кандидатом.
// Интервалы полуоткрытые: примыкание границами пересечением не считается.
func (o OccupiedInterval) Overlaps(c CandidateInterval) bool {
	return o.Start.Before(c.End) && o.End.After(c.Start)
}
