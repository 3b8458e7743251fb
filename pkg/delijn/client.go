package delijn

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

const DateFormat = "2006-01-02"

const subscriptionKeyHeader = "Ocp-Apim-Subscription-Key"

var ErrStopNotFound = errors.New("stop not found")

type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

func NewClient(baseURL string, apiKey string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// GetFinalScheduleRaw returns the undecoded final-schedule body for a stop so
// that it can be cached as-is.
func (c *Client) GetFinalScheduleRaw(ctx context.Context, stopID string, date time.Time, maxArrivals int) ([]byte, error) {
	params := url.Values{}
	params.Add("datum", date.Format(DateFormat))
	if maxArrivals > 0 {
		params.Add("maxAantalDoorkomsten", strconv.Itoa(maxArrivals))
	}

	requestURL := fmt.Sprintf("%s/haltes/%s/final-schedule?%s", c.BaseURL, url.PathEscape(stopID), params.Encode())

	return c.get(ctx, requestURL)
}

func (c *Client) GetFinalSchedule(ctx context.Context, stopID string, date time.Time, maxArrivals int) (*FinalScheduleResponse, error) {
	body, err := c.GetFinalScheduleRaw(ctx, stopID, date, maxArrivals)
	if err != nil {
		return nil, err
	}

	return DecodeFinalSchedule(body)
}

func (c *Client) GetLineDirections(ctx context.Context, stopID string) ([]LineDirection, error) {
	requestURL := fmt.Sprintf("%s/haltes/%s/lijnrichtingen", c.BaseURL, url.PathEscape(stopID))

	body, err := c.get(ctx, requestURL)
	if err != nil {
		return nil, err
	}

	var response LineDirectionsResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("decode line directions: %w", err)
	}

	return response.LijnRichtingen, nil
}

func DecodeFinalSchedule(body []byte) (*FinalScheduleResponse, error) {
	var response FinalScheduleResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("decode final schedule: %w", err)
	}

	return &response, nil
}

func (c *Client) get(ctx context.Context, requestURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.APIKey != "" {
		req.Header.Set(subscriptionKeyHeader, c.APIKey)
	}

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	startTime := time.Now()
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("url", requestURL).
		Int("status", resp.StatusCode).
		Str("latency", time.Since(startTime).String()).
		Msg("Transit API request")

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrStopNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("transit API returned %s", resp.Status)
	}

	return body, nil
}
