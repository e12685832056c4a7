package domain

import "strings"

// OptionRef references a catalog option the way the client sends it: the row
// id plus the display name used in prompt copy.
type OptionRef struct {
	ID   string `json:"id"`
	Name string `json:"nome"`
}

// IsZero reports whether the reference is unset.
func (r OptionRef) IsZero() bool {
	return strings.TrimSpace(r.ID) == "" && strings.TrimSpace(r.Name) == ""
}

// ColorRef is an OptionRef that additionally carries the shell paint hex code.
type ColorRef struct {
	OptionRef
	Hex string `json:"codigo_hex,omitempty"`
}

// Selection is the user's in-progress bombom configuration. It lives only on
// the client session and is never partially persisted: it is either submitted
// whole once complete, or discarded.
type Selection struct {
	Chocolate  OptionRef `json:"chocolate"`
	Base       OptionRef `json:"base"`
	Ganache    OptionRef `json:"ganache"`
	Jam        OptionRef `json:"geleia"`
	ShellColor ColorRef  `json:"cor"`
}

// MissingFields returns the names of required fields that are still unset.
// Jam is always optional.
func (s Selection) MissingFields() []string {
	var missing []string
	if s.Chocolate.IsZero() {
		missing = append(missing, "chocolate")
	}
	if s.Base.IsZero() {
		missing = append(missing, "base")
	}
	if s.Ganache.IsZero() {
		missing = append(missing, "ganache")
	}
	if s.ShellColor.IsZero() {
		missing = append(missing, "cor")
	}
	return missing
}

// Complete reports whether every required field is present.
func (s Selection) Complete() bool {
	return len(s.MissingFields()) == 0
}
