package rules

import (
	"fmt"
	"sync"
	"time"

	"github.com/m04kA/SMC-SlotEngine/internal/domain"
)

// namedRule правило с именем для регистрации и диагностики
type namedRule struct {
	name string
	fn   Func
}

// Pipeline упорядоченный список правил валидации кандидата.
//
// Чистый и синхронный: никакого разделяемого изменяемого состояния кроме
// списка правил, поэтому Evaluate можно звать из любого количества горутин
// (в том числе на каждое движение курсора при выделении интервала).
// Открыт для расширения: Register добавляет внешние правила в конец,
// после встроенного набора.
type Pipeline struct {
	mu           sync.RWMutex
	rules        []namedRule
	timeProvider TimeProvider
}

// NewPipeline создает пайплайн со встроенным набором правил
func NewPipeline() *Pipeline {
	return &Pipeline{
		rules:        builtinRules(),
		timeProvider: &RealTimeProvider{},
	}
}

// NewPipelineWithTimeProvider создает пайплайн с внешним источником времени (для тестирования)
func NewPipelineWithTimeProvider(tp TimeProvider) *Pipeline {
	return &Pipeline{
		rules:        builtinRules(),
		timeProvider: tp,
	}
}

// Register добавляет внешнее правило в конец пайплайна.
// Внешние правила получают тот же Input и могут наложить вето своей причиной;
// контракт тот же: на невалидном входе результат передается без изменений.
func (p *Pipeline) Register(name string, fn Func) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rules = append(p.rules, namedRule{name: name, fn: fn})
}

// RuleNames возвращает имена правил в порядке применения
func (p *Pipeline) RuleNames() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	names := make([]string, len(p.rules))
	for i, r := range p.rules {
		names[i] = r.name
	}
	return names
}

// Evaluate прогоняет кандидата через все правила.
//
// Возвращает ошибку (ErrInvalidContext) только при некорректной конфигурации -
// до запуска первого правила. Во всех остальных случаях ошибка nil, а вердикт
// в ValidationResult: пустая строка - кандидат бронируем, иначе причина
// первого отказавшего правила.
func (p *Pipeline) Evaluate(
	candidate domain.CandidateInterval,
	events []domain.OccupiedInterval,
	rctx *domain.ResourceContext,
	svc *domain.ServiceDescriptor,
) (domain.ValidationResult, error) {
	if err := validateContext(rctx, svc); err != nil {
		return domain.Valid, err
	}

	// "Сейчас" фиксируется один раз на прогон и приводится к гражданскому
	// времени ресурса в часовой зоне кандидата, чтобы сравнения time.Time
	// не зависели от Location входных значений
	loc, _ := rctx.Location()
	now := p.timeProvider.Now().In(loc)
	civilNow := time.Date(now.Year(), now.Month(), now.Day(),
		now.Hour(), now.Minute(), now.Second(), 0, candidate.Start.Location())

	in := &Input{
		Candidate: candidate,
		Events:    events,
		Resource:  rctx,
		Service:   svc,
		Now:       civilNow,
	}

	p.mu.RLock()
	rules := make([]namedRule, len(p.rules))
	copy(rules, p.rules)
	p.mu.RUnlock()

	result := domain.Valid
	for _, r := range rules {
		result = r.fn(result, in)
	}
	return result, nil
}

// validateContext проверяет конфигурацию до входа в пайплайн.
// Некорректная конфигурация фатальна для операции: правила на ней
// дали бы неопределенный результат.
func validateContext(rctx *domain.ResourceContext, svc *domain.ServiceDescriptor) error {
	if rctx == nil {
		return fmt.Errorf("%w: resource context is nil", ErrInvalidContext)
	}
	if rctx.StepMinutes <= 0 {
		return fmt.Errorf("%w: step must be positive, got %d", ErrInvalidContext, rctx.StepMinutes)
	}
	if _, err := rctx.Location(); err != nil {
		return fmt.Errorf("%w: unknown timezone %q", ErrInvalidContext, rctx.Timezone)
	}

	if svc != nil && svc.HasTimeRange() {
		from, err := svc.Availability.From.Minutes()
		if err != nil {
			return fmt.Errorf("%w: service window 'from': %v", ErrInvalidContext, err)
		}
		to, err := svc.Availability.To.Minutes()
		if err != nil {
			return fmt.Errorf("%w: service window 'to': %v", ErrInvalidContext, err)
		}
		if from >= to {
			return fmt.Errorf("%w: service window must satisfy from < to", ErrInvalidContext)
		}
	}

	return nil
}
