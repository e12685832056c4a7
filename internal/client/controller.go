package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"bombom/internal/domain"
)

// State is the render phase of the preview panel.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateSuccess State = "success"
	StateError   State = "error"
)

// Snapshot is an immutable view of the controller handed to listeners. Token
// identifies the generation request that produced it.
type Snapshot struct {
	State    State
	Token    uint64
	ImageURL string
	Prompt   string
	ErrMsg   string
}

// GenerateInput mirrors the orchestrator payload: either a prepared prompt or
// the raw selection for server-side prompt synthesis.
type GenerateInput struct {
	Prompt       string            `json:"prompt,omitempty"`
	Selection    *domain.Selection `json:"selection,omitempty"`
	AspectRatio  string            `json:"aspect_ratio,omitempty"`
	OutputFormat string            `json:"output_format,omitempty"`
}

type generateResult struct {
	DataURL string `json:"dataUrl"`
	Prompt  string `json:"prompt"`
}

// Options configures a Controller.
type Options struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     zerolog.Logger
	Timeout    time.Duration
}

// Controller drives the generation preview. Every call to Generate claims a
// new monotonically increasing token; a response only commits if its token is
// still the newest, so a slow early response can never overwrite the result
// of a later request.
type Controller struct {
	baseURL string
	client  *http.Client
	logger  zerolog.Logger

	mu        sync.Mutex
	token     uint64
	snapshot  Snapshot
	listeners map[int]func(Snapshot)
	nextID    int
}

// NewController constructs a Controller in the idle state.
func NewController(opts Options) *Controller {
	if opts.HTTPClient == nil {
		timeout := opts.Timeout
		if timeout == 0 {
			timeout = 60 * time.Second
		}
		opts.HTTPClient = &http.Client{Timeout: timeout}
	}
	return &Controller{
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		client:    opts.HTTPClient,
		logger:    opts.Logger,
		snapshot:  Snapshot{State: StateIdle},
		listeners: map[int]func(Snapshot){},
	}
}

// Subscribe registers a listener that observes every committed snapshot. The
// returned function removes the listener.
func (c *Controller) Subscribe(fn func(Snapshot)) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

// Current returns the latest committed snapshot.
func (c *Controller) Current() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot
}

// Generate posts the input to the orchestrator and commits the outcome. The
// returned snapshot reflects this request only when it was still the newest
// at completion; a superseded request returns the winner's snapshot.
func (c *Controller) Generate(ctx context.Context, input GenerateInput) Snapshot {
	token := c.begin()
	snapshot, err := c.call(ctx, input)
	if err != nil {
		return c.commit(token, Snapshot{State: StateError, ErrMsg: err.Error()})
	}
	return c.commit(token, snapshot)
}

// Reset discards any in-flight result and returns to idle. In-flight requests
// lose the fence and cannot commit afterwards.
func (c *Controller) Reset() {
	c.mu.Lock()
	c.token++
	c.snapshot = Snapshot{State: StateIdle, Token: c.token}
	listeners, snapshot := c.copyListeners(), c.snapshot
	c.mu.Unlock()
	for _, fn := range listeners {
		fn(snapshot)
	}
}

func (c *Controller) begin() uint64 {
	c.mu.Lock()
	c.token++
	token := c.token
	c.snapshot = Snapshot{State: StateLoading, Token: token}
	listeners, snapshot := c.copyListeners(), c.snapshot
	c.mu.Unlock()
	for _, fn := range listeners {
		fn(snapshot)
	}
	return token
}

func (c *Controller) commit(token uint64, next Snapshot) Snapshot {
	c.mu.Lock()
	if token != c.token {
		stale := c.snapshot
		c.mu.Unlock()
		c.logger.Debug().Uint64("token", token).Msg("dropping superseded generation result")
		return stale
	}
	next.Token = token
	c.snapshot = next
	listeners, snapshot := c.copyListeners(), c.snapshot
	c.mu.Unlock()
	for _, fn := range listeners {
		fn(snapshot)
	}
	return snapshot
}

func (c *Controller) copyListeners() []func(Snapshot) {
	out := make([]func(Snapshot), 0, len(c.listeners))
	for _, fn := range c.listeners {
		out = append(out, fn)
	}
	return out
}

func (c *Controller) call(ctx context.Context, input GenerateInput) (Snapshot, error) {
	payload, err := json.Marshal(input)
	if err != nil {
		return Snapshot{}, fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/generate", bytes.NewReader(payload))
	if err != nil {
		return Snapshot{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return Snapshot{}, fmt.Errorf("call generate: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return Snapshot{}, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return Snapshot{}, fmt.Errorf("%s", errorMessage(resp.StatusCode, body))
	}

	var result generateResult
	if err := json.Unmarshal(body, &result); err != nil {
		return Snapshot{}, fmt.Errorf("decode response: %w", err)
	}
	return Snapshot{State: StateSuccess, ImageURL: result.DataURL, Prompt: result.Prompt}, nil
}

const maxRawErrorLen = 300

// errorMessage extracts a displayable message from an error response. The
// body is decoded as the service's error envelope when possible; anything
// else (HTML gateway pages, plain text) is shown raw, truncated.
func errorMessage(status int, body []byte) string {
	var envelope struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		if envelope.Message != "" {
			return envelope.Message
		}
		if envelope.Error != "" {
			return envelope.Error
		}
	}
	raw := strings.TrimSpace(string(body))
	if raw == "" {
		return fmt.Sprintf("request failed with status %d", status)
	}
	if len(raw) > maxRawErrorLen {
		raw = raw[:maxRawErrorLen]
	}
	return raw
}
