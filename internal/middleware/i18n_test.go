package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDetectLocale(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(r *http.Request)
		fallback string
		country  string
		want     string
	}{
		{
			name: "x-locale overrides",
			setup: func(r *http.Request) {
				r.Header.Set("X-Locale", "PT")
			},
			country: "US",
			want:    "pt",
		},
		{
			name: "accept-language used",
			setup: func(r *http.Request) {
				r.Header.Set("Accept-Language", "en-US,en;q=0.9")
			},
			want: "en",
		},
		{
			name: "accept-language pt-br preference",
			setup: func(r *http.Request) {
				r.Header.Set("Accept-Language", "pt-BR,en;q=0.8")
			},
			want: "pt",
		},
		{
			name:    "brazil defaults to portuguese",
			setup:   func(r *http.Request) {},
			country: "BR",
			want:    "pt",
		},
		{
			name:    "other countries default to english",
			setup:   func(r *http.Request) {},
			country: "DE",
			want:    "en",
		},
		{
			name:     "fallback when nothing known",
			setup:    func(r *http.Request) {},
			fallback: "pt",
			want:     "pt",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.setup(r)
			if got := detectLocale(r, tt.fallback, tt.country); got != tt.want {
				t.Fatalf("detectLocale = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestI18NMiddlewareStoresLocaleAndCountry(t *testing.T) {
	var gotLocale, gotCountry string
	handler := I18N("pt", nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLocale = LocaleFromContext(r.Context())
		gotCountry = CountryFromContext(r.Context())
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Locale", "pt-BR")
	handler.ServeHTTP(httptest.NewRecorder(), r)

	if gotLocale != "pt" {
		t.Fatalf("locale = %q, want pt", gotLocale)
	}
	if gotCountry != "BR" {
		t.Fatalf("country = %q, want BR", gotCountry)
	}
}

func TestResolveCountryUsesLookup(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "203.0.113.7:443"
	lookup := func(ip string) (string, error) {
		if ip != "203.0.113.7" {
			t.Fatalf("lookup ip = %q", ip)
		}
		return "br", nil
	}
	if got := ResolveCountry(r, lookup); got != "BR" {
		t.Fatalf("country = %q, want BR", got)
	}
}
