package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/ppgi-advisor/internal/domain/prediction"
)

func TestClientPredict(t *testing.T) {
	var got prediction.UpstreamRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/predict", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ppgi":81.37,"gl":22.1,"iauc_food":1500,"iauc_glucose_ref":1800,"source":"lightgbm","input_summary":{}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL+"/", time.Second)
	res, err := client.Predict(context.Background(), prediction.UpstreamRequest{FoodItem: "white_bread", Carb: 49, Age: 30})
	require.NoError(t, err)
	require.Equal(t, "white_bread", got.FoodItem)
	require.Equal(t, 49.0, got.Carb)
	require.Equal(t, 81.37, *res.PPGI)
	require.Equal(t, 22.1, *res.GL)
	require.Equal(t, "lightgbm", res.Source)
}

func TestClientPredictServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := NewClient(server.URL, time.Second).Predict(context.Background(), prediction.UpstreamRequest{})
	require.ErrorContains(t, err, "status=503")
	require.ErrorContains(t, err, "model not loaded")
}

func TestClientPredictInvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>oops</html>`))
	}))
	defer server.Close()

	_, err := NewClient(server.URL, time.Second).Predict(context.Background(), prediction.UpstreamRequest{})
	require.ErrorContains(t, err, "invalid JSON response")
}

func TestClientPredictHonoursContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := NewClient(server.URL, 5*time.Second).Predict(ctx, prediction.UpstreamRequest{})
	require.Error(t, err)
}

func TestNewClientDefaults(t *testing.T) {
	c := NewClient("  ", 0)
	require.Equal(t, defaultBaseURL, c.baseURL)
	require.Equal(t, 10*time.Second, c.httpClient.Timeout)
}
