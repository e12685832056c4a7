package domain

// OptionGroup identifies one of the customization option tables.
type OptionGroup string

const (
	GroupChocolate OptionGroup = "chocolate"
	GroupBase      OptionGroup = "base"
	GroupGanache   OptionGroup = "ganache"
	GroupJam       OptionGroup = "geleia"
	GroupColor     OptionGroup = "cor"
)

// ValidGroup reports whether the group names a known option table.
func ValidGroup(g OptionGroup) bool {
	switch g {
	case GroupChocolate, GroupBase, GroupGanache, GroupJam, GroupColor:
		return true
	}
	return false
}

// CatalogOption is a selectable entry managed by administrators. Hex is only
// populated for the color group.
type CatalogOption struct {
	ID       string `json:"id"`
	Name     string `json:"nome"`
	Hex      string `json:"codigo_hex,omitempty"`
	Active   bool   `json:"ativo"`
	Position int    `json:"ordem"`
}

// CatalogOptions groups the active options the customizer needs to render.
type CatalogOptions struct {
	Chocolates []CatalogOption `json:"chocolates"`
	Bases      []CatalogOption `json:"bases"`
	Ganaches   []CatalogOption `json:"ganaches"`
	Jams       []CatalogOption `json:"geleias"`
	Colors     []CatalogOption `json:"cores"`
}
