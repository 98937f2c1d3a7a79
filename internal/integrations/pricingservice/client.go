package pricingservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client клиент для работы с PricingService
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента PricingService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// ResolvePrice запрашивает расчет цены для текущих параметров черновика.
// Сервис идемпотентен: одинаковые входные данные дают одинаковую цену,
// поэтому повтор после ErrUnavailable безопасен.
func (c *Client) ResolvePrice(ctx context.Context, quoteReq *QuoteRequest) (*Quote, error) {
	url := fmt.Sprintf("%s/internal/quotes", c.baseURL)

	body, err := json.Marshal(quoteReq)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to marshal request: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Сетевая ошибка или таймаут - сервис недоступен, можно повторить
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch {
	case resp.StatusCode == http.StatusOK:
		// Продолжаем обработку
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrQuoteNotFound
	case resp.StatusCode == http.StatusBadRequest:
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: bad request: %s", ErrInvalidResponse, string(respBody))
	case resp.StatusCode >= http.StatusInternalServerError:
		return nil, fmt.Errorf("%w: status code %d", ErrUnavailable, resp.StatusCode)
	default:
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(respBody))
	}

	// Парсим ответ
	var quote Quote
	if err := json.NewDecoder(resp.Body).Decode(&quote); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	c.log.Info("PricingService: resolved price %.2f for resource=%d", quote.Price, quoteReq.ResourceID)
	return &quote, nil
}
