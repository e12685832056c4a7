package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"bombom/internal/domain"
	"bombom/internal/middleware"
	"bombom/internal/prompt"
	"bombom/internal/providers/image"
)

// generateRequest accepts both storefront shapes: the customizer posts a
// selection and lets the server derive the prompt, while the admin preview
// tool posts free text directly.
type generateRequest struct {
	Prompt       string            `json:"prompt,omitempty"`
	Selection    *domain.Selection `json:"selection,omitempty"`
	AspectRatio  string            `json:"aspect_ratio,omitempty"`
	OutputFormat string            `json:"output_format,omitempty"`
	Model        string            `json:"model,omitempty"`
	Seed         int               `json:"seed,omitempty"`

	// Flattened selection fields, as the customizer sends them without a
	// wrapping object.
	Chocolate  *domain.OptionRef `json:"chocolate,omitempty"`
	Base       *domain.OptionRef `json:"base,omitempty"`
	Ganache    *domain.OptionRef `json:"ganache,omitempty"`
	Jam        *domain.OptionRef `json:"geleia,omitempty"`
	ShellColor *domain.ColorRef  `json:"cor,omitempty"`
}

type generateResponse struct {
	DataURL  string `json:"dataUrl"`
	MIME     string `json:"mime"`
	Prompt   string `json:"prompt"`
	Provider string `json:"provider"`
}

// Generate synthesizes the prompt when a selection is posted, dispatches to
// the configured provider, and returns the canonical data: URL. Provider
// failures are relayed with the upstream status and verbatim body so the
// client can render the real cause.
func (a *App) Generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return
	}

	text := strings.TrimSpace(req.Prompt)
	if text == "" {
		sel := req.selection()
		built, err := a.Builder.Build(sel)
		if err != nil {
			var incomplete *prompt.IncompleteError
			if errors.As(err, &incomplete) {
				a.json(w, http.StatusBadRequest, map[string]any{
					"error":   "incomplete_selection",
					"message": "selection is missing required fields",
					"missing": incomplete.Missing,
				})
				return
			}
			a.error(w, http.StatusBadRequest, "bad_request", err.Error())
			return
		}
		text = built.Text
	}

	result, err := a.Generator.Generate(r.Context(), image.Request{
		Prompt:         text,
		NegativePrompt: prompt.NegativePrompt,
		AspectRatio:    defaultString(req.AspectRatio, image.DefaultAspectRatio),
		OutputFormat:   defaultString(req.OutputFormat, image.DefaultOutputFormat),
		Model:          req.Model,
		Seed:           req.Seed,
		Locale:         middleware.LocaleFromContext(r.Context()),
		RequestID:      middleware.RequestIDFromContext(r.Context()),
	})
	if err != nil {
		a.generateError(w, r, err)
		return
	}

	a.json(w, http.StatusOK, generateResponse{
		DataURL:  result.DataURL,
		MIME:     result.MIME,
		Prompt:   text,
		Provider: a.Generator.Name(),
	})
}

// generateError maps provider failures onto the response. Upstream errors
// keep their status and body; credential problems are logged in full but
// reported generically, the key's presence is not observable from outside.
func (a *App) generateError(w http.ResponseWriter, r *http.Request, err error) {
	var provErr *image.ProviderError
	if errors.As(err, &provErr) {
		a.json(w, http.StatusBadGateway, map[string]any{
			"error":           "provider_error",
			"provider":        provErr.Provider,
			"upstream_status": provErr.Status,
			"message":         provErr.Body,
		})
		return
	}
	if errors.Is(err, domain.ErrMissingCredential) {
		a.Logger.Error().Err(err).Str("provider", a.Generator.Name()).Msg("image provider misconfigured")
		a.error(w, http.StatusInternalServerError, "internal", "image generation unavailable")
		return
	}
	a.Logger.Error().Err(err).Str("request_id", middleware.RequestIDFromContext(r.Context())).Msg("image generation failed")
	a.error(w, http.StatusInternalServerError, "internal", "image generation failed")
}

func (r generateRequest) selection() domain.Selection {
	if r.Selection != nil {
		return *r.Selection
	}
	var sel domain.Selection
	if r.Chocolate != nil {
		sel.Chocolate = *r.Chocolate
	}
	if r.Base != nil {
		sel.Base = *r.Base
	}
	if r.Ganache != nil {
		sel.Ganache = *r.Ganache
	}
	if r.Jam != nil {
		sel.Jam = *r.Jam
	}
	if r.ShellColor != nil {
		sel.ShellColor = *r.ShellColor
	}
	return sel
}

func defaultString(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
