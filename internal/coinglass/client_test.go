package coinglass

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "https" {
		t.Fatalf("scheme = %q, want https", u.Scheme)
	}
	if u.Host != "open-api-v4.coinglass.com" {
		t.Fatalf("host = %q, want open-api-v4.coinglass.com", u.Host)
	}

	u, err = parseBaseURL("http://example.com:1234/path?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}
}

func TestFetch_MissingKeySkipsRequest(t *testing.T) {
	var requests atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	}))
	defer srv.Close()

	client := mustClient(t, srv.URL)
	reading, err := client.Fetch(context.Background(), "   ")

	if !errors.Is(err, ErrMissingKey) {
		t.Fatalf("err = %v, want ErrMissingKey", err)
	}
	if reading.Status != StatusMissingKey {
		t.Errorf("Status = %q, want %q", reading.Status, StatusMissingKey)
	}
	if n := requests.Load(); n != 0 {
		t.Errorf("server saw %d requests, want 0", n)
	}
}

func TestFetch_WellFormedPayload(t *testing.T) {
	t.Parallel()

	var gotKey, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != indicatorPath {
			t.Errorf("path = %q, want %q", r.URL.Path, indicatorPath)
		}
		gotKey = r.Header.Get(apiKeyHeader)
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"code": "200",
			"msg": "success",
			"data": [
				{"name": "Pi Cycle Top", "hit_status": true, "hit_time": 1735725600000},
				{"name": "Puell Multiple", "hit_status": false},
				{"name": "MVRV Z-Score", "hit_status": false},
				{"name": "RHODL Ratio", "hit_status": false}
			]
		}`))
	}))
	defer srv.Close()

	client := mustClient(t, srv.URL)
	reading, err := client.Fetch(context.Background(), "secret-key")
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}

	if gotKey != "secret-key" {
		t.Errorf("api key header = %q, want secret-key", gotKey)
	}
	if gotAccept != "application/json" {
		t.Errorf("accept header = %q, want application/json", gotAccept)
	}
	if reading.Status != StatusOK {
		t.Fatalf("Status = %q, want %q", reading.Status, StatusOK)
	}
	if reading.SellPct != 25 || reading.HoldPct != 75 {
		t.Errorf("SellPct = %v, HoldPct = %v, want 25 and 75", reading.SellPct, reading.HoldPct)
	}
	if reading.Label != "Watchful" {
		t.Errorf("Label = %q, want Watchful", reading.Label)
	}
	if len(reading.Triggered) != 1 || reading.Triggered[0].Name != "Pi Cycle Top" {
		t.Errorf("Triggered = %v, want one Pi Cycle Top entry", reading.Triggered)
	}
}

func TestFetch_NumericCodeAccepted(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code": 200, "data": []}`))
	}))
	defer srv.Close()

	reading, err := mustClient(t, srv.URL).Fetch(context.Background(), "key")
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if reading.Status != StatusOK {
		t.Errorf("Status = %q, want %q", reading.Status, StatusOK)
	}
}

func TestFetch_HTTPStatusMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		httpCode int
		want     Status
	}{
		{"unauthorized", http.StatusUnauthorized, StatusUnauthorized},
		{"forbidden", http.StatusForbidden, StatusUnauthorized},
		{"rate limited", http.StatusTooManyRequests, StatusRateLimited},
		{"server error", http.StatusInternalServerError, StatusUnknown},
		{"bad gateway", http.StatusBadGateway, StatusUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.httpCode)
			}))
			defer srv.Close()

			reading, err := mustClient(t, srv.URL).Fetch(context.Background(), "key")
			if err == nil {
				t.Fatal("Fetch returned nil error")
			}
			if reading.Status != tt.want {
				t.Errorf("Status = %q, want %q", reading.Status, tt.want)
			}
			if reading.Detail == "" {
				t.Error("Detail is empty, want failure description")
			}
		})
	}
}

func TestFetch_APILevelError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code": "400", "msg": "apikey invalid"}`))
	}))
	defer srv.Close()

	reading, err := mustClient(t, srv.URL).Fetch(context.Background(), "key")
	if err == nil {
		t.Fatal("Fetch returned nil error")
	}
	if reading.Status != StatusUnknown {
		t.Errorf("Status = %q, want %q", reading.Status, StatusUnknown)
	}
	if reading.Detail != "apikey invalid" {
		t.Errorf("Detail = %q, want apikey invalid", reading.Detail)
	}
}

func TestFetch_MalformedBody(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<!doctype html><html>not json</html>`))
	}))
	defer srv.Close()

	reading, err := mustClient(t, srv.URL).Fetch(context.Background(), "key")
	if err == nil {
		t.Fatal("Fetch returned nil error")
	}
	if reading.Status != StatusUnknown {
		t.Errorf("Status = %q, want %q", reading.Status, StatusUnknown)
	}
}

func TestFetch_ConnectionRefused(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // nothing is listening anymore

	reading, err := mustClient(t, srv.URL).Fetch(context.Background(), "key")
	if err == nil {
		t.Fatal("Fetch returned nil error")
	}
	if reading.Status != StatusNetworkError {
		t.Errorf("Status = %q, want %q", reading.Status, StatusNetworkError)
	}
}

func mustClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	client, err := NewClient(baseURL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	return client
}
