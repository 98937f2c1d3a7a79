package rules

import (
	"time"

	"github.com/m04kA/SMC-SlotEngine/internal/domain"
)

// Причины отказа встроенных правил. Показываются пользователю дословно,
// поэтому написаны на том же языке, что и сообщения handlers.
const (
	msgEndBeforeStart  = "время окончания должно быть позже времени начала"
	msgStartInPast     = "выбранное время уже в прошлом"
	msgBeforeOpening   = "бронирование не может начинаться до времени открытия"
	msgAfterClosing    = "бронирование не может заканчиваться после времени закрытия"
	msgCrossesMidnight = "бронирование должно начинаться и заканчиваться в одних сутках"
	msgOverlap         = "выбранное время пересекается с существующим бронированием"
)

// minuteOfDay возвращает минуту суток для момента времени
func minuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// endsAtLastMinute возвращает true, если интервал заканчивается в 23:59.
// Такой конец означает "до конца суток": легально закончиться в 24:00 нельзя,
// поэтому правилам длительности прощается одна минута.
func endsAtLastMinute(c domain.CandidateInterval) bool {
	return minuteOfDay(c.End) == domain.EndOfDayMinute
}

// meetsDuration проверяет, что длительность кандидата не меньше required
// с учетом поблажки в одну минуту для интервалов до конца суток
func meetsDuration(c domain.CandidateInterval, required int) bool {
	d := c.DurationMinutes()
	if d >= required {
		return true
	}
	return endsAtLastMinute(c) && d+1 >= required
}

// Правило 1: конец позже начала
func ruleEndAfterStart(prev domain.ValidationResult, in *Input) domain.ValidationResult {
	if !prev.OK() {
		return prev
	}
	if !in.Candidate.End.After(in.Candidate.Start) {
		return msgEndBeforeStart
	}
	return prev
}

// Правило 2: начало не в прошлом.
// Сравнивается с Now, зафиксированным на момент вызова Evaluate.
func ruleNotInPast(prev domain.ValidationResult, in *Input) domain.ValidationResult {
	if !prev.OK() {
		return prev
	}
	if in.Candidate.Start.Before(in.Now) {
		return msgStartInPast
	}
	return prev
}

// Правило 3: начало не раньше времени открытия
func ruleAfterOpening(prev domain.ValidationResult, in *Input) domain.ValidationResult {
	if !prev.OK() {
		return prev
	}
	if minuteOfDay(in.Candidate.Start) < in.Resource.OpeningMinutes {
		return msgBeforeOpening
	}
	return prev
}

// Правило 4: конец не позже времени закрытия.
// Не применяется, когда закрытие не задано (ресурс открыт до конца суток).
func ruleBeforeClosing(prev domain.ValidationResult, in *Input) domain.ValidationResult {
	if !prev.OK() {
		return prev
	}
	if in.Resource.OpenEnded() {
		return prev
	}
	if minuteOfDay(in.Candidate.End) > in.Resource.ClosingMinutes {
		return msgAfterClosing
	}
	return prev
}

// Правило 5: начало и конец в одних сутках
func ruleSameDay(prev domain.ValidationResult, in *Input) domain.ValidationResult {
	if !prev.OK() {
		return prev
	}
	y1, m1, d1 := in.Candidate.Start.Date()
	y2, m2, d2 := in.Candidate.End.Date()
	if y1 != y2 || m1 != m2 || d1 != d2 {
		return msgCrossesMidnight
	}
	return prev
}

// Правило 6: длительность не меньше шага ресурса
func ruleStepDuration(prev domain.ValidationResult, in *Input) domain.ValidationResult {
	if !prev.OK() {
		return prev
	}
	if !meetsDuration(in.Candidate, in.Resource.StepMinutes) {
		return domain.Rejectf("бронирование не может быть короче %d минут", in.Resource.StepMinutes)
	}
	return prev
}

// Правило 7: минимальная длительность (если задана)
func ruleMinDuration(prev domain.ValidationResult, in *Input) domain.ValidationResult {
	if !prev.OK() {
		return prev
	}
	min := in.Resource.MinDurationMinutes
	if min <= 0 {
		return prev
	}
	if !meetsDuration(in.Candidate, min) {
		return domain.Rejectf("бронирование должно длиться не менее %d минут", min)
	}
	return prev
}

// Правило 8: максимальная длительность (если задана)
func ruleMaxDuration(prev domain.ValidationResult, in *Input) domain.ValidationResult {
	if !prev.OK() {
		return prev
	}
	max := in.Resource.MaxDurationMinutes
	if max <= 0 {
		return prev
	}
	if in.Candidate.DurationMinutes() > max {
		return domain.Rejectf("бронирование не может длиться дольше %d минут", max)
	}
	return prev
}

// Правило 9: кандидат не пересекается с существующими событиями.
// Пересечение полуоткрытое: примыкание границами допустимо для всех видов событий.
func ruleNoOverlap(prev domain.ValidationResult, in *Input) domain.ValidationResult {
	if !prev.OK() {
		return prev
	}
	for _, ev := range in.Events {
		if ev.Overlaps(in.Candidate) {
			return msgOverlap
		}
	}
	return prev
}

// Правило 10: отступ между бронированиями.
// События вида unavailable освобождены от отступа: к ним можно примыкать вплотную.
// Сообщение направленное - подсказывает, с какой стороны не хватает места.
func ruleSpacing(prev domain.ValidationResult, in *Input) domain.ValidationResult {
	if !prev.OK() {
		return prev
	}
	spacing := in.Resource.SpacingMinutes
	if spacing <= 0 {
		return prev
	}
	for _, ev := range in.Events {
		if ev.Kind.ExemptFromSpacing() {
			continue
		}
		// Событие заканчивается до начала кандидата
		if !ev.End.After(in.Candidate.Start) {
			if gap := int(in.Candidate.Start.Sub(ev.End).Minutes()); gap < spacing {
				return domain.Rejectf("оставьте не менее %d минут после предыдущего бронирования", spacing)
			}
		}
		// Событие начинается после конца кандидата
		if !ev.Start.Before(in.Candidate.End) {
			if gap := int(ev.Start.Sub(in.Candidate.End).Minutes()); gap < spacing {
				return domain.Rejectf("оставьте не менее %d минут до следующего бронирования", spacing)
			}
		}
	}
	return prev
}

// Правило 11: окно доступности услуги.
// Для услуг с режимом time-range начало И конец кандидата должны лежать
// внутри окна [From, To] в пределах суток кандидата.
func ruleServiceWindow(prev domain.ValidationResult, in *Input) domain.ValidationResult {
	if !prev.OK() {
		return prev
	}
	svc := in.Service
	if svc == nil || !svc.HasTimeRange() {
		return prev
	}

	from, err := svc.Availability.From.Minutes()
	if err != nil {
		return prev // окно провалидировано до входа в пайплайн
	}
	to, err := svc.Availability.To.Minutes()
	if err != nil {
		return prev
	}

	start := minuteOfDay(in.Candidate.Start)
	end := minuteOfDay(in.Candidate.End)
	if start < from || end > to {
		return domain.Rejectf("эта услуга доступна только с %s до %s",
			svc.Availability.From, svc.Availability.To)
	}
	return prev
}

// builtinRules встроенный набор правил в фиксированном порядке.
// Порядок существенен: он определяет, какую причину отказа увидит пользователь.
func builtinRules() []namedRule {
	return []namedRule{
		{"end_after_start", ruleEndAfterStart},
		{"not_in_past", ruleNotInPast},
		{"after_opening", ruleAfterOpening},
		{"before_closing", ruleBeforeClosing},
		{"same_day", ruleSameDay},
		{"step_duration", ruleStepDuration},
		{"min_duration", ruleMinDuration},
		{"max_duration", ruleMaxDuration},
		{"no_overlap", ruleNoOverlap},
		{"spacing", ruleSpacing},
		{"service_window", ruleServiceWindow},
	}
}
