package rules

import (
	"time"

	"github.com/m04kA/SMC-SlotEngine/internal/domain"
)

// Input один прогон кандидата через пайплайн.
// Now фиксируется один раз на вызов Evaluate и приводится к гражданскому
// времени ресурса, чтобы все правила видели одно и то же "сейчас".
type Input struct {
	Candidate domain.CandidateInterval
	Events    []domain.OccupiedInterval
	Resource  *domain.ResourceContext
	Service   *domain.ServiceDescriptor
	Now       time.Time
}

// Func правило пайплайна. Получает текущий результат и либо передает его
// дальше без изменений, либо (только если текущий результат еще валиден)
// заменяет его своим вердиктом. Правило обязано коротко замыкаться на
// невалидном входе и не перепроверять уже отклоненного кандидата:
// так побеждает первый отказ, но все правила все равно вызываются.
type Func func(prev domain.ValidationResult, in *Input) domain.ValidationResult

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
