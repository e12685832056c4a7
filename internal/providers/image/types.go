package image

import (
	"context"
	"fmt"
	"strings"
)

// Request describes a normalized generation request passed to any provider.
type Request struct {
	Prompt         string
	NegativePrompt string
	AspectRatio    string
	OutputFormat   string
	Model          string
	Seed           int
	Locale         string
	RequestID      string
}

// CanonicalImage is the uniform internal representation of a generated image:
// a data: URL string, regardless of which upstream shape produced it.
type CanonicalImage struct {
	DataURL string
	MIME    string
}

// Generator is the contract implemented by all image providers. Selection of
// the concrete implementation happens once, by configuration, never by
// conditional branching at call sites.
type Generator interface {
	Generate(ctx context.Context, req Request) (*CanonicalImage, error)
	Name() string
}

// ProviderError carries the upstream HTTP status and the verbatim raw error
// body. The body is never assumed to be JSON and never swallowed.
type ProviderError struct {
	Provider string
	Status   int
	Body     string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", e.Provider, e.Status, strings.TrimSpace(e.Body))
}

// DefaultAspectRatio and friends are applied by the orchestrator when the
// client omits options.
const (
	DefaultAspectRatio  = "1:1"
	DefaultOutputFormat = "png"
)

// FormatMIME maps a requested output format to its MIME type. Unknown formats
// fall back to PNG, matching the upstream default.
func FormatMIME(format string) string {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "jpeg", "jpg":
		return "image/jpeg"
	case "webp":
		return "image/webp"
	default:
		return "image/png"
	}
}
