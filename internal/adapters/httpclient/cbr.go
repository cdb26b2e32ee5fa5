package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// CbrClient fetches the daily quotes published by the Central Bank of Russia
// (daily_json.js). Every quote is expressed in base currency units per one
// unit of the quoted currency.
type CbrClient struct {
	http *http.Client
	url  string
}

type dailyQuote struct {
	Value float64 `json:"Value"`
}

type dailyResponse struct {
	Valute map[string]dailyQuote `json:"Valute"`
}

func (c *CbrClient) GetDailyRates(ctx context.Context) (map[string]float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create daily rates request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute daily rates request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status code %d from rate source: %s", resp.StatusCode, resp.Status)
	}

	var body dailyResponse
	if err = json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode daily rates response: %w", err)
	}

	rates := make(map[string]float64, len(body.Valute))
	for code, quote := range body.Valute {
		rates[code] = quote.Value
	}
	return rates, nil
}

// Close releases idle connections held by the underlying transport.
func (c *CbrClient) Close() {
	c.http.CloseIdleConnections()
}

func NewCbrClient(httpClient *http.Client, url string) *CbrClient {
	return &CbrClient{http: httpClient, url: url}
}
