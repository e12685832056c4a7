package stability

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"bombom/internal/domain"
	"bombom/internal/infra"
	"bombom/internal/providers/image"
)

// ErrMissingAPIKey indicates that the client was configured without credentials.
// The adapter fails fast on it instead of attempting the outbound call.
var ErrMissingAPIKey = fmt.Errorf("stability: api key is required: %w", domain.ErrMissingCredential)

// Options configures the Stability AI stable-image client.
type Options struct {
	APIKey         string
	APIHost        string
	EndpointPath   string
	DefaultModel   string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
}

// Client performs HTTP calls to the Stability stable-image API. The upstream
// negotiates a binary image response via the Accept header; the client reads
// the full byte stream and normalizes it into a canonical data URL itself.
type Client struct {
	apiKey       string
	apiHost      string
	endpointPath string
	defaultModel string
	httpClient   *http.Client
	logger       *infra.Logger
}

type generationRequest struct {
	Prompt         string `json:"prompt"`
	NegativePrompt string `json:"negative_prompt,omitempty"`
	AspectRatio    string `json:"aspect_ratio,omitempty"`
	OutputFormat   string `json:"output_format,omitempty"`
	Model          string `json:"model,omitempty"`
	Seed           *int   `json:"seed,omitempty"`
}

// NewClient constructs a client with sane defaults and injected dependencies.
func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 45 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	apiHost := strings.TrimRight(opts.APIHost, "/")
	if apiHost == "" {
		apiHost = "https://api.stability.ai"
	}
	endpointPath := strings.TrimSpace(opts.EndpointPath)
	if endpointPath == "" {
		endpointPath = "/v2beta/stable-image/generate/sd3"
	}
	defaultModel := strings.TrimSpace(opts.DefaultModel)
	if defaultModel == "" {
		defaultModel = "sd3-medium"
	}
	var logger *infra.Logger
	if opts.Logger != nil {
		logger = opts.Logger
	} else {
		discard := zerolog.New(io.Discard)
		l := infra.Logger(discard)
		logger = &l
	}
	return &Client{
		apiKey:       strings.TrimSpace(opts.APIKey),
		apiHost:      apiHost,
		endpointPath: endpointPath,
		defaultModel: defaultModel,
		httpClient:   httpClient,
		logger:       logger,
	}
}

// Name fulfils the Generator interface.
func (c *Client) Name() string {
	return "stability"
}

// HasCredentials reports whether the client can perform remote calls.
func (c *Client) HasCredentials() bool {
	return c.apiKey != ""
}

// Generate invokes the stable-image endpoint once and returns the canonical image.
func (c *Client) Generate(ctx context.Context, req image.Request) (*image.CanonicalImage, error) {
	if !c.HasCredentials() {
		return nil, ErrMissingAPIKey
	}
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return nil, errors.New("stability: prompt is required")
	}

	payload := generationRequest{
		Prompt:         prompt,
		NegativePrompt: strings.TrimSpace(req.NegativePrompt),
		AspectRatio:    strings.TrimSpace(req.AspectRatio),
		OutputFormat:   strings.TrimSpace(req.OutputFormat),
		Model:          strings.TrimSpace(req.Model),
	}
	if payload.Model == "" {
		payload.Model = c.defaultModel
	}
	if req.Seed > 0 {
		seed := req.Seed
		payload.Seed = &seed
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("stability: encode request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiHost+c.endpointPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("stability: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "image/*")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("stability: http request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("stability: read response: %w", err)
	}

	// The error body may be plain text. Surface it verbatim either way.
	if resp.StatusCode >= 300 {
		return nil, &image.ProviderError{Provider: "stability", Status: resp.StatusCode, Body: string(raw)}
	}

	mime := image.FormatMIME(req.OutputFormat)
	c.logger.Debug().
		Str("model", payload.Model).
		Str("request_id", req.RequestID).
		Int("bytes", len(raw)).
		Msg("stability: generated image")
	return &image.CanonicalImage{DataURL: image.EncodeDataURL(mime, raw), MIME: mime}, nil
}

var _ image.Generator = (*Client)(nil)
