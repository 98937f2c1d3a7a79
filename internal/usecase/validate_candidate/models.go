package validate_candidate

import (
	"github.com/m04kA/SMC-SlotEngine/internal/domain"
)

// Outcome исход интерактивной валидации
type Outcome string

const (
	// OutcomeAccepted кандидат бронируем; вызывающая сторона создает/обновляет черновик
	OutcomeAccepted Outcome = "accepted"

	// OutcomeRejected кандидат отклонен; причина показывается пользователю дословно
	OutcomeRejected Outcome = "rejected"

	// OutcomeUnchanged кандидат совпадает с предыдущим; событие игнорируется,
	// никакие побочные эффекты не срабатывают повторно
	OutcomeUnchanged Outcome = "unchanged"
)

// Request модель запроса интерактивной валидации (выделение интервала мышью)
type Request struct {
	UserID     int64
	ResourceID int64
	ServiceID  *int64 // активная услуга, если пользователь выбирал услугу

	Candidate domain.CandidateInterval
	Prior     *domain.CandidateInterval // предыдущий провалидированный кандидат, если был
}

// Response модель ответа интерактивной валидации
type Response struct {
	Outcome   Outcome
	Reason    string // заполнено только для OutcomeRejected
	Candidate domain.CandidateInterval
}
