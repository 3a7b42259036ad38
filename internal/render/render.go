// Package render regenerates the Markdown plugin listing from the registry.
package render

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/spf13/afero"

	"github.com/muicebot/plugin-index/internal/registry"
)

//go:embed templates/README.md.tmpl
var templates embed.FS

const defaultTemplate = "templates/README.md.tmpl"

// Data is the value templates are executed with
type Data struct {
	// Plugins lists the registry entries in registry order
	Plugins []registry.Item

	// Count is the number of plugins
	Count int
}

var funcs = template.FuncMap{
	// cell makes text safe inside a Markdown table cell
	"cell": func(s string) string {
		s = strings.ReplaceAll(s, "|", `\|`)
		s = strings.ReplaceAll(s, "\r\n", "\n")
		return strings.ReplaceAll(s, "\n", "<br>")
	},
}

// Renderer renders the listing with one parsed template
type Renderer struct {
	fs   afero.Fs
	tmpl *template.Template
}

// New parses the template at templatePath on fs. An empty path selects the
// built-in template.
func New(fs afero.Fs, templatePath string) (*Renderer, error) {
	var (
		name = filepath.Base(defaultTemplate)
		text []byte
		err  error
	)
	if templatePath == "" {
		text, err = templates.ReadFile(defaultTemplate)
	} else {
		name = filepath.Base(templatePath)
		text, err = afero.ReadFile(fs, templatePath)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read template: %w", err)
	}

	tmpl, err := template.New(name).Funcs(funcs).Option("missingkey=error").Parse(string(text))
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	return &Renderer{fs: fs, tmpl: tmpl}, nil
}

// Render writes the listing for reg to w
func (r *Renderer) Render(w io.Writer, reg *registry.Registry) error {
	items := reg.Items()
	if err := r.tmpl.Execute(w, Data{Plugins: items, Count: len(items)}); err != nil {
		return fmt.Errorf("failed to render %s: %w", r.tmpl.Name(), err)
	}
	return nil
}

// WriteFile renders the listing and replaces the file at path with it.
// The file is left untouched when rendering fails.
func (r *Renderer) WriteFile(path string, reg *registry.Registry) error {
	var buf bytes.Buffer
	if err := r.Render(&buf, reg); err != nil {
		return err
	}

	//nolint:gosec // The listing is committed to the repository and must be world readable
	if err := afero.WriteFile(r.fs, path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
