// Package drhope реализует HTTP-клиент REST API Dr. Hope.
//
// Клиент ничего не хранит между вызовами: bearer-токен передаётся в каждый
// метод явно, повторов и circuit breaker нет. Любой ответ с key != "success"
// превращается в *APIError, ошибки транспорта оборачиваются в ErrTransport.
package drhope

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var (
	// ErrTransport сеть недоступна или запрос не удалось выполнить.
	ErrTransport = errors.New("upstream transport failure")
	// ErrUnexpectedResponse тело ответа не является ожидаемым JSON.
	ErrUnexpectedResponse = errors.New("unexpected upstream response")
)

const keySuccess = "success"

// APIError бизнес-ошибка, сообщённая API (key != "success").
type APIError struct {
	StatusCode int
	Key        string
	Message    string
	Fields     map[string]any
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("upstream %d %s: %s", e.StatusCode, e.Key, e.Message)
	}
	return fmt.Sprintf("upstream %d %s", e.StatusCode, e.Key)
}

// HasField сообщает, относится ли ошибка к полю формы (email, phone...).
func (e *APIError) HasField(name string) bool {
	_, ok := e.Fields[name]
	return ok
}

type envelope struct {
	Key    string          `json:"key"`
	Msg    string          `json:"msg"`
	Data   json.RawMessage `json:"data"`
	Errors map[string]any  `json:"errors"`
}

// Client клиент REST API с фиксированным базовым адресом.
type Client struct {
	baseURL    string
	httpClient *http.Client
	metrics    *Metrics
}

// NewClient создаёт клиент. metrics может быть nil.
func NewClient(baseURL string, timeout time.Duration, metrics *Metrics) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		metrics:    metrics,
	}
}

func (c *Client) newRequest(ctx context.Context, method, path, token string, body any) (*http.Request, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", "ar")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// call выполняет запрос, разбирает конверт и декодирует data в out (если out != nil).
func (c *Client) call(ctx context.Context, endpoint, method, path, token string, body, out any) (err error) {
	op := "drhope." + endpoint
	start := time.Now()
	defer func() { c.metrics.observe(endpoint, start, err) }()

	req, err := c.newRequest(ctx, method, path, token, body)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w: %w", op, ErrTransport, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: %w: %w", op, ErrTransport, err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return fmt.Errorf("%s: %w", op, &APIError{StatusCode: resp.StatusCode, Key: "http_error", Message: resp.Status})
		}
		return fmt.Errorf("%s: %w: %w", op, ErrUnexpectedResponse, err)
	}

	if env.Key != keySuccess || resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("%s: %w", op, &APIError{
			StatusCode: resp.StatusCode,
			Key:        env.Key,
			Message:    env.Msg,
			Fields:     env.Errors,
		})
	}

	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%s: %w: %w", op, ErrUnexpectedResponse, err)
	}
	return nil
}

// RawDocument поток документа профиля как он пришёл от API.
type RawDocument struct {
	Body        []byte
	ContentType string
}

// fetchRaw скачивает поток (PDF/HTML) без разбора конверта.
func (c *Client) fetchRaw(ctx context.Context, endpoint, path, token string) (doc *RawDocument, err error) {
	op := "drhope." + endpoint
	start := time.Now()
	defer func() { c.metrics.observe(endpoint, start, err) }()

	req, err := c.newRequest(ctx, http.MethodGet, path, token, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Accept", "application/pdf, text/html;q=0.9, */*;q=0.8")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, ErrTransport, err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := &APIError{StatusCode: resp.StatusCode, Key: "http_error", Message: resp.Status}
		var env envelope
		if json.Unmarshal(body, &env) == nil && env.Key != "" {
			apiErr.Key, apiErr.Message = env.Key, env.Msg
		}
		return nil, fmt.Errorf("%s: %w", op, apiErr)
	}

	return &RawDocument{Body: body, ContentType: resp.Header.Get("Content-Type")}, nil
}
