package pricingservice

// QuoteRequest запрос расчета цены.
// Время передается в гражданском формате ресурса (без часового пояса).
type QuoteRequest struct {
	ResourceID int64                  `json:"resourceId"`
	Start      string                 `json:"start"` // "2006-01-02T15:04"
	End        string                 `json:"end"`
	ServiceID  *int64                 `json:"serviceId,omitempty"`
	Extras     map[string]interface{} `json:"extras,omitempty"`
	Coupon     *string                `json:"coupon,omitempty"`
}

// BreakdownLine строка детализации цены
type BreakdownLine struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

// Quote рассчитанная цена
type Quote struct {
	Price        float64         `json:"price"`
	Breakdown    []BreakdownLine `json:"breakdown"`
	InfoMessages []string        `json:"infoMessages"` // например, результат применения купона
}

// ErrorResponse модель ошибки от pricing-сервиса
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
