package dashboard

import (
	"embed"
	"fmt"
	"io/fs"

	template "github.com/goliatone/go-template"
)

//go:embed templates/*.html templates/partials/*.html
var embeddedTemplates embed.FS

// NewTemplateRenderer creates a go-template renderer backed by the embedded
// templates. Names resolve relative to the templates directory.
func NewTemplateRenderer() (Renderer, error) {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return nil, fmt.Errorf("dashboard: templates fs: %w", err)
	}
	return template.NewRenderer(
		template.WithFS(sub),
		template.WithExtension(".html"),
	)
}
