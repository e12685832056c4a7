package fal

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"bombom/internal/domain"
	"bombom/internal/infra"
	"bombom/internal/prompt"
	"bombom/internal/providers/image"
)

// ErrMissingAPIKey indicates that the client was configured without credentials.
var ErrMissingAPIKey = fmt.Errorf("fal: api key is required: %w", domain.ErrMissingCredential)

// Options configures the fal.ai client.
type Options struct {
	APIKey         string
	BaseURL        string
	ModelPath      string
	HTTPClient     *http.Client
	Logger         *infra.Logger
	RequestTimeout time.Duration
}

// Client performs HTTP calls to the fal.ai queue API. The upstream accepts a
// form-encoded request and answers with JSON that embeds either a base64
// image or a hosted URL which must be re-fetched. The model only understands
// English, so the Portuguese domain vocabulary is rewritten before dispatch.
type Client struct {
	apiKey     string
	baseURL    string
	modelPath  string
	httpClient *http.Client
	logger     *infra.Logger
}

type generationResponse struct {
	Images []struct {
		URL     string `json:"url"`
		B64JSON string `json:"b64_json"`
		Width   int    `json:"width"`
		Height  int    `json:"height"`
	} `json:"images"`
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
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://fal.run"
	}
	modelPath := strings.TrimSpace(opts.ModelPath)
	if modelPath == "" {
		modelPath = "/fal-ai/flux/schnell"
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
		apiKey:     strings.TrimSpace(opts.APIKey),
		baseURL:    baseURL,
		modelPath:  modelPath,
		httpClient: httpClient,
		logger:     logger,
	}
}

// Name fulfils the Generator interface.
func (c *Client) Name() string {
	return "fal"
}

// HasCredentials reports whether the client can perform remote calls.
func (c *Client) HasCredentials() bool {
	return c.apiKey != ""
}

// Generate invokes fal.ai once and returns the canonical image.
func (c *Client) Generate(ctx context.Context, req image.Request) (*image.CanonicalImage, error) {
	if !c.HasCredentials() {
		return nil, ErrMissingAPIKey
	}
	text := strings.TrimSpace(req.Prompt)
	if text == "" {
		return nil, errors.New("fal: prompt is required")
	}
	text = prompt.Translate(text)

	body := &bytes.Buffer{}
	form := multipart.NewWriter(body)
	fields := map[string]string{
		"prompt":                text,
		"image_size":            imageSize(req.AspectRatio),
		"num_inference_steps":   "4",
		"num_images":            "1",
		"enable_safety_checker": "true",
	}
	if req.Seed > 0 {
		fields["seed"] = strconv.Itoa(req.Seed)
	}
	for key, value := range fields {
		if err := form.WriteField(key, value); err != nil {
			return nil, fmt.Errorf("fal: encode request: %w", err)
		}
	}
	if err := form.Close(); err != nil {
		return nil, fmt.Errorf("fal: encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+c.modelPath, body)
	if err != nil {
		return nil, fmt.Errorf("fal: build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", form.FormDataContentType())
	httpReq.Header.Set("Authorization", "Key "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("fal: http request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fal: read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, &image.ProviderError{Provider: "fal", Status: resp.StatusCode, Body: string(raw)}
	}

	var decoded generationResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("fal: decode response: %w", err)
	}
	if len(decoded.Images) == 0 {
		return nil, errors.New("fal: no image data in response")
	}

	mime := image.FormatMIME(req.OutputFormat)
	entry := decoded.Images[0]

	// Some model paths inline the payload, others hand back a hosted URL.
	if entry.B64JSON != "" {
		data, err := base64.StdEncoding.DecodeString(entry.B64JSON)
		if err != nil {
			return nil, fmt.Errorf("fal: decode embedded image: %w", err)
		}
		return &image.CanonicalImage{DataURL: image.EncodeDataURL(mime, data), MIME: mime}, nil
	}
	if strings.HasPrefix(entry.URL, "data:") {
		return &image.CanonicalImage{DataURL: entry.URL, MIME: mime}, nil
	}
	if entry.URL == "" {
		return nil, errors.New("fal: empty image url")
	}

	data, err := c.download(ctx, entry.URL)
	if err != nil {
		return nil, err
	}
	c.logger.Debug().
		Str("request_id", req.RequestID).
		Str("url", entry.URL).
		Int("bytes", len(data)).
		Msg("fal: generated image")
	return &image.CanonicalImage{DataURL: image.EncodeDataURL(mime, data), MIME: mime}, nil
}

func (c *Client) download(ctx context.Context, imageURL string) ([]byte, error) {
	parsed, err := url.Parse(strings.TrimSpace(imageURL))
	if err != nil || parsed.Scheme == "" {
		return nil, fmt.Errorf("fal: invalid image url: %s", imageURL)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsed.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("fal: build download request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fal: download image: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, &image.ProviderError{Provider: "fal", Status: resp.StatusCode, Body: "image download failed"}
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("fal: read image: %w", err)
	}
	return data, nil
}

// imageSize maps an aspect ratio to the fal size token.
func imageSize(aspect string) string {
	switch strings.TrimSpace(aspect) {
	case "16:9":
		return "landscape_16_9"
	case "3:2":
		return "landscape_4_3"
	case "4:5", "3:4":
		return "portrait_4_3"
	case "9:16":
		return "portrait_16_9"
	default:
		return "square_hd"
	}
}

var _ image.Generator = (*Client)(nil)
