package pricingservice

import "errors"

var (
	// ErrQuoteNotFound возвращается, когда pricing-сервис не знает ресурс или услугу
	ErrQuoteNotFound = errors.New("pricingservice client: quote not found")

	// ErrUnavailable возвращается при недоступности pricing-сервиса
	// (сетевая ошибка, таймаут, 5xx). Запрос можно повторить с теми же
	// входными данными: сервис идемпотентен.
	ErrUnavailable = errors.New("pricingservice client: service unavailable")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("pricingservice client: invalid response")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("pricingservice client: internal error")
)

// IsRetryable возвращает true, если ошибку имеет смысл повторить.
// Ошибка отличима от нулевой цены: нулевая цена - валидный ответ сервиса.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
