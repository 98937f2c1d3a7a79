package rules

import "errors"

var (
	// ErrInvalidContext возвращается при некорректной конфигурации ресурса
	// (нулевой шаг, нераспознаваемый часовой пояс, кривое окно услуги).
	// Фатально для текущей операции: пайплайн не запускается вовсе,
	// чтобы не получить неопределенный результат. Отличимо от пустого
	// списка слотов и от отказа валидации.
	ErrInvalidContext = errors.New("rules: invalid resource context")
)
