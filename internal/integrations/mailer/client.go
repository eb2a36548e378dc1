package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент API шаблонных email-рассылок
// При пустом apiKey работает в режиме симуляции: отправка логируется,
// сетевой запрос не выполняется, ошибок не возникает
type Client struct {
	baseURL     string
	apiKey      string
	senderEmail string
	senderName  string
	httpClient  *http.Client
	log         Logger
}

// NewClient создает новый экземпляр клиента рассылки
func NewClient(baseURL, apiKey, senderEmail, senderName string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL:     baseURL,
		apiKey:      apiKey,
		senderEmail: senderEmail,
		senderName:  senderName,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// Send отправляет шаблонное письмо с плоским набором параметров
func (c *Client) Send(ctx context.Context, templateID, toEmail, toName string, params map[string]string) error {
	if c.apiKey == "" {
		c.log.Info("Mailer not configured, simulated send: template=%s, to=%s, params=%v",
			templateID, toEmail, params)
		return nil
	}

	body, err := json.Marshal(sendRequest{
		TemplateID: templateID,
		To:         recipient{Email: toEmail, Name: toName},
		Sender:     recipient{Email: c.senderEmail, Name: c.senderName},
		Params:     params,
	})
	if err != nil {
		return fmt.Errorf("%w: failed to marshal request: %v", ErrInternal, err)
	}

	url := c.baseURL + "/v3/smtp/email"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrSendFailed, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		c.log.Info("Mailer: sent template=%s to=%s", templateID, toEmail)
		return nil
	case resp.StatusCode == http.StatusBadRequest:
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: rejected by API: %s", ErrSendFailed, string(respBody))
	default:
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(respBody))
	}
}
