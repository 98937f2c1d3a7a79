package drafts

import "errors"

var (
	// ErrDraftNotFound возвращается, когда черновик не найден или истек
	ErrDraftNotFound = errors.New("draft not found")

	// ErrNotPricable возвращается при попытке запросить цену для черновика
	// без минимально необходимых полей (ресурс + интервал)
	ErrNotPricable = errors.New("draft has no interval to price")

	// ErrPriceNotResolved возвращается при попытке подтвердить черновик
	// с устаревшей или неразрешенной ценой
	ErrPriceNotResolved = errors.New("draft price is not resolved")

	// ErrPriceUpToDate возвращается при попытке повторить запрос цены,
	// когда цена уже актуальна
	ErrPriceUpToDate = errors.New("draft price is already up to date")

	// ErrSlotNotAvailable возвращается при подтверждении, когда интервал
	// уже занят (перепроверка внутри сериализуемой транзакции)
	ErrSlotNotAvailable = errors.New("slot is not available anymore")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("drafts service: internal error")
)
