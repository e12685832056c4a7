package stability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bombom/internal/domain"
	"bombom/internal/providers/image"
)

func TestGenerateFailsFastWithoutCredentials(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("upstream must not be called without credentials")
	}))
	defer srv.Close()

	c := NewClient(Options{APIHost: srv.URL})
	_, err := c.Generate(context.Background(), image.Request{Prompt: "bombom"})
	if !errors.Is(err, domain.ErrMissingCredential) {
		t.Fatalf("err = %v, want ErrMissingCredential", err)
	}
}

func TestGenerateEncodesBinaryResponse(t *testing.T) {
	imgBytes := []byte{0x89, 0x50, 0x4e, 0x47, 1, 2, 3, 4, 5, 6, 7, 8}
	var captured struct {
		Prompt         string `json:"prompt"`
		NegativePrompt string `json:"negative_prompt"`
		AspectRatio    string `json:"aspect_ratio"`
		OutputFormat   string `json:"output_format"`
		Model          string `json:"model"`
		Seed           *int   `json:"seed"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("authorization = %q", got)
		}
		if got := r.Header.Get("Accept"); got != "image/*" {
			t.Errorf("accept = %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(imgBytes)
	}))
	defer srv.Close()

	c := NewClient(Options{APIKey: "sk-test", APIHost: srv.URL})
	got, err := c.Generate(context.Background(), image.Request{
		Prompt:         "bombom artesanal",
		NegativePrompt: "texto",
		AspectRatio:    "1:1",
		OutputFormat:   "png",
		Seed:           42,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if captured.Prompt != "bombom artesanal" || captured.NegativePrompt != "texto" {
		t.Fatalf("payload prompt mismatch: %+v", captured)
	}
	if captured.Model != "sd3-medium" {
		t.Fatalf("default model not applied: %q", captured.Model)
	}
	if captured.Seed == nil || *captured.Seed != 42 {
		t.Fatalf("seed not forwarded: %v", captured.Seed)
	}

	if got.MIME != "image/png" {
		t.Fatalf("mime = %q", got.MIME)
	}
	mime, data, err := image.DecodeDataURL(got.DataURL)
	if err != nil {
		t.Fatalf("canonical image is not a valid data url: %v", err)
	}
	if mime != "image/png" || !bytes.Equal(data, imgBytes) {
		t.Fatal("binary response did not round-trip through the data url")
	}
}

func TestGeneratePreservesPlaintextErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream exploded, not json"))
	}))
	defer srv.Close()

	c := NewClient(Options{APIKey: "sk-test", APIHost: srv.URL})
	_, err := c.Generate(context.Background(), image.Request{Prompt: "bombom"})

	var provErr *image.ProviderError
	if !errors.As(err, &provErr) {
		t.Fatalf("err = %v, want *image.ProviderError", err)
	}
	if provErr.Status != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", provErr.Status)
	}
	if provErr.Body != "upstream exploded, not json" {
		t.Fatalf("body not preserved verbatim: %q", provErr.Body)
	}
}

func TestGenerateHonorsRequestTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := NewClient(Options{APIKey: "sk-test", APIHost: srv.URL, RequestTimeout: 20 * time.Millisecond})
	if _, err := c.Generate(context.Background(), image.Request{Prompt: "bombom"}); err == nil {
		t.Fatal("expected timeout error")
	}
}

func TestGenerateRejectsEmptyPrompt(t *testing.T) {
	c := NewClient(Options{APIKey: "sk-test"})
	if _, err := c.Generate(context.Background(), image.Request{Prompt: "   "}); err == nil {
		t.Fatal("expected error for empty prompt")
	}
}
