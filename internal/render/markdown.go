package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
)

// Markdown renders cards as a markdown document under a level-one title.
// Cards without genes get no "Genes" section.
func Markdown(title string, cards []Card) string {
	var sb strings.Builder

	if title != "" {
		fmt.Fprintf(&sb, "# %s\n\n", title)
	}

	for i, c := range cards {
		if i > 0 {
			sb.WriteString("\n---\n\n")
		}
		fmt.Fprintf(&sb, "## %s %s\n\n", c.Glyph, c.Title)
		if c.Subtitle != "" {
			fmt.Fprintf(&sb, "*%s*\n\n", c.Subtitle)
		}
		fmt.Fprintf(&sb, "**Cause:** %s\n\n", c.Cause)
		fmt.Fprintf(&sb, "**Symptoms:** %s\n", c.Symptoms)

		if c.HasGenes() {
			sb.WriteString("\n### Genes\n\n")
			for _, g := range c.Genes {
				fmt.Fprintf(&sb, "- **%s**: %s\n", g.Name, g.Description)
			}
		}
	}

	return sb.String()
}

// Terminal renders the markdown form of cards for a terminal of the given
// width.
func Terminal(title string, cards []Card, width int) (string, error) {
	if width <= 0 {
		width = DefaultWidth
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("creating markdown renderer: %w", err)
	}

	out, err := r.Render(Markdown(title, cards))
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return out, nil
}
