package prompt

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"bombom/internal/domain"
)

// Sentinel display names that mean "option not chosen". They are business
// copy, so matching must survive any casing or accent variant an admin types.
const (
	noJamSentinel   = "sem geleia"
	noPaintSentinel = "sem pintura"
)

// NegativePrompt lists the visual artifacts the renders must avoid. It is
// provider-optional; adapters that support a negative prompt pass it along.
const NegativePrompt = "texto, legenda, marca d'água, mãos, pessoas, talheres, pratos, " +
	"migalhas exageradas, deformações, borrado, baixa resolução, múltiplos bombons, colagem"

// Prompt is the derived, immutable value computed from a complete Selection.
type Prompt struct {
	Text         string
	NegativeText string
}

// Layout carries the interior layer proportions used when jam is present.
// The split between the ganache majority and the jam minority is prompt copy,
// not an algorithmic constant: both 70/30 and 80/20 conventions exist.
type Layout struct {
	GanachePercent int
	JamPercent     int
}

// DefaultLayout is the 70/30 convention.
func DefaultLayout() Layout {
	return Layout{GanachePercent: 70, JamPercent: 30}
}

func (l Layout) normalized() Layout {
	if l.GanachePercent <= 0 || l.JamPercent <= 0 || l.GanachePercent+l.JamPercent != 100 {
		return DefaultLayout()
	}
	return l
}

// IncompleteError reports which required selection fields were missing.
type IncompleteError struct {
	Missing []string
}

func (e *IncompleteError) Error() string {
	return fmt.Sprintf("incomplete selection: missing %s", strings.Join(e.Missing, ", "))
}

func (e *IncompleteError) Unwrap() error {
	return domain.ErrIncompleteSelection
}

// Builder converts a complete Selection into a generation prompt. It is pure:
// no I/O, identical input always yields identical output.
type Builder struct {
	layout Layout
}

// NewBuilder constructs a Builder with the given layer layout.
func NewBuilder(layout Layout) *Builder {
	return &Builder{layout: layout.normalized()}
}

// Build renders the prompt for a complete Selection. An incomplete selection
// returns a zero Prompt together with an IncompleteError, never a partially
// substituted template.
func (b *Builder) Build(sel domain.Selection) (Prompt, error) {
	if missing := sel.MissingFields(); len(missing) > 0 {
		return Prompt{}, &IncompleteError{Missing: missing}
	}

	layout := b.layout.normalized()

	paint := fmt.Sprintf("casquinha externa pintada por completo e uniformemente na cor %s", sel.ShellColor.Name)
	if Fold(sel.ShellColor.Name) == noPaintSentinel {
		paint = "sem pintura na casquinha"
	}

	structure := fmt.Sprintf("base até 100%% de altura com %s e %s.", sel.Base.Name, sel.Ganache.Name)
	if HasJam(sel.Jam) {
		structure = fmt.Sprintf("base até %d%% de altura com %s e %s, e nos %d%% do topo %s.",
			layout.GanachePercent, sel.Base.Name, sel.Ganache.Name, layout.JamPercent, sel.Jam.Name)
	}

	text := fmt.Sprintf(
		"Foto de produto hiper-realista, bombom artesanal de %s, %s. "+
			"O bombom está cortado ao meio, mostrando claramente a seção interna. "+
			"A ordem dos recheios é: %s "+
			"Iluminação de estúdio suave, fundo neutro, foco nítido, detalhes de textura do chocolate e recheio. "+
			"Uma mesa branca embaixo e nenhum outro objeto adicional na foto gerada. "+
			"Sem texto, sem logos, sem mãos, sem utensílios, sem objetos extras.",
		sel.Chocolate.Name, paint, structure)

	return Prompt{Text: text, NegativeText: NegativePrompt}, nil
}

// HasJam reports whether a jam option is actually chosen. An unset reference
// and any case/accent variant of the "sem geleia" sentinel both count as
// absent; naive string equality would silently break this branch.
func HasJam(jam domain.OptionRef) bool {
	if jam.IsZero() {
		return false
	}
	return Fold(jam.Name) != noJamSentinel
}

var foldTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Fold lowercases, trims, and strips diacritics so "Sem Geléia" and
// "sem geleia" compare equal.
func Fold(s string) string {
	folded, _, err := transform.String(foldTransformer, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(strings.TrimSpace(folded))
}
