package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/yanqian/ppgi-advisor/internal/domain/glycemic"
	"github.com/yanqian/ppgi-advisor/internal/domain/prediction"
)

const (
	defaultBaseURL = "http://127.0.0.1:8000"
	predictPath    = "/api/predict"
	maxBodyBytes   = 1 << 20
)

// Client calls the external PPGI prediction service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient builds an API client.
func NewClient(baseURL string, timeout time.Duration) *Client {
	url := strings.TrimSpace(baseURL)
	if url == "" {
		url = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(url, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Predict posts the form payload and decodes the prediction response.
func (c *Client) Predict(ctx context.Context, in prediction.UpstreamRequest) (glycemic.PredictionResult, error) {
	payload, err := json.Marshal(in)
	if err != nil {
		return glycemic.PredictionResult{}, fmt.Errorf("encode predict request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+predictPath, bytes.NewReader(payload))
	if err != nil {
		return glycemic.PredictionResult{}, fmt.Errorf("build predict request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return glycemic.PredictionResult{}, fmt.Errorf("predict request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return glycemic.PredictionResult{}, fmt.Errorf("predict request error: status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return glycemic.PredictionResult{}, fmt.Errorf("read predict response: %w", err)
	}

	result, err := glycemic.DecodePrediction(body)
	if err != nil {
		return glycemic.PredictionResult{}, fmt.Errorf("invalid JSON response from prediction service: %w", err)
	}
	return result, nil
}

var _ prediction.Predictor = (*Client)(nil)
