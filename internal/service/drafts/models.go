package drafts

import (
	"time"

	"github.com/m04kA/SMC-SlotEngine/internal/domain"
)

// SelectIntervalRequest запрос создания черновика или смены его интервала
type SelectIntervalRequest struct {
	DraftID    string // пустой = создать новый черновик
	UserID     int64
	ResourceID int64
	Start      time.Time
	End        time.Time
	ServiceID  *int64 // активная услуга, если интервал выбран через услугу
}

// Notification уведомление о переходе состояния черновика.
// Draft - глубокая копия на момент перехода: подписчики не видят
// черновик посреди мутации.
type Notification struct {
	State    domain.DraftState
	Draft    domain.BookingDraft
	PriceErr string // текст retryable-ошибки получения цены, если она была
}

// DraftView снимок черновика вместе с его состоянием
type DraftView struct {
	State    domain.DraftState
	Draft    *domain.BookingDraft
	PriceErr string
}

// entry внутреннее состояние одного черновика.
// gen - счетчик поколений запросов цены: результат запроса коммитится только
// если его поколение все еще актуально (последний выигрывает на уровне задач,
// а не отдельных ответов). timer - невыстреливший отложенный запрос.
type entry struct {
	draft   *domain.BookingDraft
	state   domain.DraftState
	gen     uint64
	timer   *time.Timer
	lastErr error
	touched time.Time
}
