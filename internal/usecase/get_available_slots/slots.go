package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-SlotEngine/internal/domain"
	"github.com/m04kA/SMC-SlotEngine/pkg/types"
)

// buildCandidates генерирует кандидатов на день: от времени открытия
// до времени закрытия с фиксированным шагом ресурса.
// Конец кандидата = начало + durationSteps * step; конец, попадающий РОВНО
// в полночь, обрезается до 23:59 (интервал не может закончиться в 24:00).
// Конец за полночью не обрезается: кандидат строится как есть и отклоняется
// правилом одних суток - иначе услуга получила бы урезанный слот короче
// своей длительности. Фильтрация кандидатов - целиком забота пайплайна правил.
func buildCandidates(date time.Time, rctx *domain.ResourceContext, svc *domain.ServiceDescriptor) []domain.CandidateInterval {
	durationMinutes := svc.DurationMinutes(rctx.StepMinutes)
	if durationMinutes <= 0 {
		return nil
	}

	closing := rctx.ClosingMinutes
	if rctx.OpenEnded() {
		closing = types.MinutesPerDay
	}

	candidates := make([]domain.CandidateInterval, 0)
	for cursor := rctx.OpeningMinutes; cursor < closing; cursor += rctx.StepMinutes {
		start := civilAt(date, cursor)

		endMinute := cursor + durationMinutes
		if endMinute == types.MinutesPerDay {
			endMinute = domain.EndOfDayMinute
		}
		end := civilAt(date, endMinute)

		candidates = append(candidates, domain.CandidateInterval{Start: start, End: end})
	}

	return candidates
}

// civilAt возвращает гражданский момент времени: minutes минут от начала
// суток date; значение за пределами суток нормализуется в следующий день
func civilAt(date time.Time, minutes int) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), minutes/60, minutes%60, 0, 0, date.Location())
}
