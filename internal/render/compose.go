// Package render turns disorder records into cards and renders those cards as
// terminal text, markdown, or HTML. Everything here is a pure function of its
// input.
package render

import (
	"github.com/CongLeSolutionX/Corticogenesis-Disorders/internal/domain"
)

// Card is the presentation unit for one disorder.
type Card struct {
	ID       string    `json:"id"`
	Title    string    `json:"title"`
	Subtitle string    `json:"subtitle"`
	Icon     string    `json:"icon"`
	Glyph    string    `json:"glyph"`
	Cause    string    `json:"cause"`
	Symptoms string    `json:"symptoms"`
	Genes    []GeneRow `json:"genes"`
}

// GeneRow is one gene line within a card. Position is 1-based.
type GeneRow struct {
	ID          string `json:"id"`
	Position    int    `json:"position"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// HasGenes reports whether the card has a gene section.
func (c Card) HasGenes() bool {
	return len(c.Genes) > 0
}

// Compose maps every record to a card, keeping source order for both cards
// and gene rows.
func Compose(records []domain.Disorder) []Card {
	cards := make([]Card, 0, len(records))
	for _, d := range records {
		cards = append(cards, composeCard(d))
	}
	return cards
}

func composeCard(d domain.Disorder) Card {
	rows := make([]GeneRow, 0, len(d.Genes))
	for i, g := range d.Genes {
		rows = append(rows, GeneRow{
			ID:          g.ID,
			Position:    i + 1,
			Name:        g.Name,
			Description: g.Description,
		})
	}

	return Card{
		ID:       d.ID,
		Title:    d.Name,
		Subtitle: d.CommonName,
		Icon:     d.Icon,
		Glyph:    Glyph(d.Icon),
		Cause:    d.Cause,
		Symptoms: d.Symptoms,
		Genes:    rows,
	}
}

// FallbackGlyph is used for icon references without a known glyph.
const FallbackGlyph = "◆"

var glyphs = map[string]string{
	"brain.head.profile": "🧠",
	"brain":              "🧠",
	"circle.dashed":      "◌",
	"circle.grid.cross":  "⊕",
	"waveform.path":      "〰",
}

// Glyph maps an icon reference to a character that terminals and browsers can
// show without an icon font.
func Glyph(icon string) string {
	if g, ok := glyphs[icon]; ok {
		return g
	}
	return FallbackGlyph
}
