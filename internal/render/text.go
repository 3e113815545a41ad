package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette
var (
	accent = lipgloss.Color("#8BC34A")
	border = lipgloss.Color("#2a3850")
	muted  = lipgloss.Color("#8a94a6")
)

// TextOptions controls terminal card layout.
type TextOptions struct {
	// Width is the outer card width in cells. Zero means DefaultWidth.
	Width int
}

// DefaultWidth is the card width used when none is given.
const DefaultWidth = 80

// minWidth keeps borders and padding from swallowing the content.
const minWidth = 24

// textStyles groups the lipgloss styles for one card width.
type textStyles struct {
	card     lipgloss.Style
	title    lipgloss.Style
	subtitle lipgloss.Style
	label    lipgloss.Style
	gene     lipgloss.Style
	geneDesc lipgloss.Style
}

func newTextStyles(width int) textStyles {
	inner := width - 4 // border + horizontal padding
	return textStyles{
		card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(border).
			Padding(0, 1).
			Width(width - 2),
		title:    lipgloss.NewStyle().Bold(true).Foreground(accent),
		subtitle: lipgloss.NewStyle().Italic(true).Foreground(muted),
		label:    lipgloss.NewStyle().Bold(true),
		gene:     lipgloss.NewStyle().Bold(true),
		geneDesc: lipgloss.NewStyle().Foreground(muted).PaddingLeft(2).Width(inner),
	}
}

// Text renders cards as bordered terminal boxes, one per card, separated by a
// blank line.
func Text(cards []Card, opts TextOptions) string {
	width := opts.Width
	if width == 0 {
		width = DefaultWidth
	}
	if width < minWidth {
		width = minWidth
	}
	styles := newTextStyles(width)

	boxes := make([]string, 0, len(cards))
	for _, c := range cards {
		boxes = append(boxes, styles.card.Render(textBody(c, styles)))
	}
	return strings.Join(boxes, "\n\n")
}

func textBody(c Card, s textStyles) string {
	var sb strings.Builder

	sb.WriteString(s.title.Render(fmt.Sprintf("%s %s", c.Glyph, c.Title)))
	if c.Subtitle != "" {
		sb.WriteString("\n")
		sb.WriteString(s.subtitle.Render(c.Subtitle))
	}
	sb.WriteString("\n\n")
	sb.WriteString(s.label.Render("Cause: "))
	sb.WriteString(c.Cause)
	sb.WriteString("\n\n")
	sb.WriteString(s.label.Render("Symptoms: "))
	sb.WriteString(c.Symptoms)

	if c.HasGenes() {
		sb.WriteString("\n\n")
		sb.WriteString(s.label.Render("Genes"))
		for _, g := range c.Genes {
			sb.WriteString("\n")
			sb.WriteString(s.gene.Render("• " + g.Name))
			sb.WriteString("\n")
			sb.WriteString(s.geneDesc.Render(g.Description))
		}
	}

	return sb.String()
}
