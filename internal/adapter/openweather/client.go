// Package openweather implements domain.WeatherProvider against the
// OpenWeatherMap current-weather API, with a TTL cache so one upstream call
// serves a burst of predictions.
package openweather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/limaflow/congestion/internal/observability"
)

// Client fetches the current weather description for a fixed city.
type Client struct {
	apiKey     string
	city       string
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates an OpenWeatherMap client bound to one city, e.g. "Lima,PE".
func NewClient(apiKey, city string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		apiKey: apiKey,
		city:   city,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: "https://api.openweathermap.org/data/2.5/weather",
		metrics: metrics,
		logger:  logger,
	}
}

// CurrentDescription returns the localized free-text weather description for
// the bound city, e.g. "lluvia ligera".
func (c *Client) CurrentDescription(ctx context.Context) (string, error) {
	params := url.Values{
		"q":     {c.city},
		"appid": {c.apiKey},
		"lang":  {"es"},
	}

	start := time.Now()
	description, err := c.doRequest(ctx, c.baseURL+"?"+params.Encode())
	c.metrics.WeatherAPIDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		c.metrics.WeatherRequests.WithLabelValues("error").Inc()
		return "", err
	}
	c.metrics.WeatherRequests.WithLabelValues("success").Inc()
	return description, nil
}

func (c *Client) doRequest(ctx context.Context, fullURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("weather request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("openweathermap API error: status %d: %s", resp.StatusCode, body)
	}

	var owmResp response
	if err := json.NewDecoder(resp.Body).Decode(&owmResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if len(owmResp.Weather) == 0 {
		return "", fmt.Errorf("openweathermap response for %q carried no weather conditions", c.city)
	}
	return owmResp.Weather[0].Description, nil
}

// OpenWeatherMap API response types.

type response struct {
	Weather []condition `json:"weather"`
	Name    string      `json:"name"`
}

type condition struct {
	Main        string `json:"main"`
	Description string `json:"description"`
}
