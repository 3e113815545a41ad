package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"time"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templatesFS, "templates/cards.html.tmpl"))

// Page is the data passed to the HTML card template.
type Page struct {
	Title       string
	Cards       []Card
	GeneratedAt time.Time
}

// HTML writes page as a standalone HTML document.
func HTML(w io.Writer, page Page) error {
	if page.GeneratedAt.IsZero() {
		page.GeneratedAt = time.Now().UTC()
	}
	if err := pageTemplate.ExecuteTemplate(w, "cards.html.tmpl", page); err != nil {
		return fmt.Errorf("rendering html: %w", err)
	}
	return nil
}
