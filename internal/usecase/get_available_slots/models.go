package get_available_slots

import (
	"time"
)

// Request модель запроса на получение доступных слотов
type Request struct {
	UserID     int64     // ID пользователя (для логирования, не влияет на результат)
	ResourceID int64     // ID ресурса
	ServiceID  int64     // ID услуги с фиксированной длительностью
	Date       time.Time // Дата для перечисления слотов (без времени)
}

// Response модель ответа со списком доступных слотов.
// Пустой список слотов - валидный и ожидаемый результат, а не ошибка.
type Response struct {
	Date       time.Time // Дата, на которую запрашивались слоты
	ResourceID int64     // ID ресурса
	ServiceID  int64     // ID услуги
	Slots      []Slot    // Хронологический список бронируемых интервалов
}

// Slot бронируемый интервал
type Slot struct {
	Start           time.Time // Начало слота (гражданское время ресурса)
	End             time.Time // Конец слота
	DurationMinutes int       // Длительность слота в минутах
}
