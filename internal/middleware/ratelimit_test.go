package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimitBlocksAfterLimit(t *testing.T) {
	handler := RateLimit(2, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func(addr string) int {
		r := httptest.NewRequest(http.MethodPost, "/generate", nil)
		r.RemoteAddr = addr
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, r)
		return w.Code
	}

	if code := do("203.0.113.1:1000"); code != http.StatusOK {
		t.Fatalf("first request = %d", code)
	}
	if code := do("203.0.113.1:1001"); code != http.StatusOK {
		t.Fatalf("second request = %d", code)
	}
	if code := do("203.0.113.1:1002"); code != http.StatusTooManyRequests {
		t.Fatalf("third request = %d, want 429", code)
	}
	// A different client stays unaffected.
	if code := do("203.0.113.2:1000"); code != http.StatusOK {
		t.Fatalf("other client = %d", code)
	}
}

func TestClientIPForRateLimit(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		remoteAddr string
		want       string
	}{
		{name: "single ip", header: "203.0.113.1", remoteAddr: "198.51.100.10:1234", want: "203.0.113.1"},
		{name: "multiple ips use first", header: " 203.0.113.1 , 198.51.100.2 ", remoteAddr: "198.51.100.10:1234", want: "203.0.113.1"},
		{name: "invalid forwarded falls back", header: "invalid", remoteAddr: "198.51.100.10:1234", want: "198.51.100.10"},
		{name: "empty forwarded uses remote host", header: "", remoteAddr: "198.51.100.10:1234", want: "198.51.100.10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				r.Header.Set("X-Forwarded-For", tt.header)
			}
			r.RemoteAddr = tt.remoteAddr
			if got := clientIPForRateLimit(r); got != tt.want {
				t.Fatalf("clientIPForRateLimit = %q, want %q", got, tt.want)
			}
		})
	}
}
