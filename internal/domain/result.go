package domain

import "fmt"

// ValidationResult результат проверки кандидата правилом или пайплайном.
// Пустая строка означает "валидно", непустая - причина отказа, которая
// показывается пользователю дословно. Других форм результата нет;
// отказ валидации - ожидаемый исход, а не ошибка.
type ValidationResult string

// Valid успешный результат валидации
const Valid ValidationResult = ""

// OK возвращает true, если кандидат прошел проверку
func (r ValidationResult) OK() bool {
	return r == Valid
}

// Reason возвращает причину отказа (пустая строка для валидного результата)
func (r ValidationResult) Reason() string {
	return string(r)
}

// Rejectf создает результат-отказ с форматированной причиной
func Rejectf(format string, v ...interface{}) ValidationResult {
	return ValidationResult(fmt.Sprintf(format, v...))
}
