package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Freeeeeet/booking_calendar/internal/model"
)

// APIClient реализация Remote поверх HTTP API сервиса
type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *APIClient) FetchBookings(ctx context.Context) (model.BookingSet, error) {
	var set model.BookingSet
	if err := c.request(ctx, http.MethodGet, "/api/bookings", nil, &set); err != nil {
		return nil, err
	}
	if set == nil {
		set = model.BookingSet{}
	}
	return set, nil
}

func (c *APIClient) FetchConfig(ctx context.Context) (*model.InstanceConfig, error) {
	var cfg model.InstanceConfig
	if err := c.request(ctx, http.MethodGet, "/api/config", nil, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *APIClient) CreateBooking(ctx context.Context, req model.CreateBookingRequest) error {
	return c.request(ctx, http.MethodPost, "/api/bookings", req, nil)
}

func (c *APIClient) UpdateBooking(ctx context.Context, req model.UpdateBookingRequest) (*model.Booking, error) {
	var resp model.BookingResponse
	if err := c.request(ctx, http.MethodPut, "/api/bookings/update", req, &resp); err != nil {
		return nil, err
	}
	return resp.Booking, nil
}

func (c *APIClient) DeleteBooking(ctx context.Context, req model.DeleteBookingRequest) error {
	return c.request(ctx, http.MethodDelete, "/api/bookings/update", req, nil)
}

// request выполняет запрос к API; не-2xx ответ превращается в ошибку
// с текстом из тела ответа сервиса
func (c *APIClient) request(ctx context.Context, method, path string, body, out any) error {
	var reqBody *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = &bytes.Buffer{}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr model.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err != nil || apiErr.Error == "" {
			return fmt.Errorf("request %s %s: HTTP %d", method, path, resp.StatusCode)
		}
		return fmt.Errorf("%s", apiErr.Error)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
