package homeassistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// ============================================================
// Home Assistant Client
// ============================================================

// Entity - состояние сущности Home Assistant. У термостатов целевая
// температура лежит в attributes.temperature.
type Entity struct {
	EntityID   string                 `json:"entity_id"`
	State      string                 `json:"state"`
	Attributes map[string]interface{} `json:"attributes"`
}

// Temperature возвращает целевую температуру термостата.
func (e Entity) Temperature() (float64, bool) {
	v, ok := e.Attributes["temperature"].(float64)
	return v, ok
}

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	maxRetries uint64
}

// NewClient - клиент REST API одного сервера Home Assistant.
// baseURL вида http://10.0.0.5:8123.
func NewClient(baseURL, token string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
		maxRetries: 3,
	}
}

// States возвращает все сущности сервера.
func (c *Client) States(ctx context.Context) ([]Entity, error) {
	var entities []Entity
	err := c.do(ctx, http.MethodGet, "/api/states", nil, func(body []byte) error {
		return json.Unmarshal(body, &entities)
	})
	if err != nil {
		return nil, err
	}
	return entities, nil
}

// Climate отбирает из all термостаты, чей entity_id содержит climate.<room>.
func Climate(all []Entity, room string) []Entity {
	prefix := "climate." + room
	var out []Entity
	for _, e := range all {
		if strings.Contains(e.EntityID, prefix) {
			out = append(out, e)
		}
	}
	return out
}

// SetTemperature выставляет целевую температуру термостата.
func (c *Client) SetTemperature(ctx context.Context, entityID string, temperature float64) error {
	payload, err := json.Marshal(map[string]interface{}{
		"entity_id":   entityID,
		"temperature": temperature,
	})
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, "/api/services/climate/set_temperature", payload, nil)
}

// do выполняет запрос с повторами. Ответы 4xx не повторяются.
func (c *Client) do(ctx context.Context, method, path string, payload []byte, decode func([]byte) error) error {
	url := c.baseURL + path

	op := func() error {
		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, body)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Authorization", "Bearer "+c.token)
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			log.Printf("[HA] %s %s: %v", method, url, err)
			return err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}

		switch {
		case resp.StatusCode >= 500:
			log.Printf("[HA] %s %s: status %d", method, url, resp.StatusCode)
			return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
		case resp.StatusCode >= 400:
			return backoff.Permanent(fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode))
		}

		if decode != nil {
			if err := decode(data); err != nil {
				return backoff.Permanent(fmt.Errorf("decode %s: %w", path, err))
			}
		}
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	return backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(b, c.maxRetries), ctx))
}
