// Package renderer turns ledger snapshots into markdown, terminal output, HTML and PNG images.
package renderer

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/bitbaby"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

//go:embed templates/*.md
var templates embed.FS

var funcs = template.FuncMap{
	"join": func(header []string) string {
		escaped := make([]string, len(header))
		for i, h := range header {
			escaped[i] = escapeCell(h)
		}
		return strings.Join(escaped, " | ")
	},
	"row": func(cells []bitbaby.Cell) string {
		escaped := make([]string, len(cells))
		for i, c := range cells {
			escaped[i] = escapeCell(c.Text)
		}
		return strings.Join(escaped, " | ")
	},
}

// escapeCell makes free text safe inside a markdown table cell.
func escapeCell(s string) string {
	s = strings.ReplaceAll(s, `|`, `\|`)
	s = strings.ReplaceAll(s, "\r\n", " ")
	return strings.ReplaceAll(s, "\n", " ")
}

// RenderSnapshot renders the snapshot to a markdown string.
func RenderSnapshot(s *bitbaby.Snapshot) string {
	partials := map[string]string{
		"snapshot_title":  "templates/snapshot_title.md",
		"snapshot_totals": "templates/snapshot_totals.md",
	}
	return renderTemplate("snapshot", "templates/snapshot.md", partials, s)
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Funcs(funcs).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		content, err := fs.ReadFile(templates, file)
		if err != nil {
			return fmt.Sprintf("error reading partial template %q: %v", file, err)
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}

// Terminal renders markdown for a terminal of the given width, using a
// glamour standard style ("dark", "light", "notty", "ascii").
func Terminal(md string, width int, style string) (string, error) {
	if style == "" {
		style = "dark"
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("could not create terminal renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("could not render markdown: %w", err)
	}
	return out, nil
}

// HTML renders markdown to an HTML fragment, tables included.
func HTML(md string) (string, error) {
	conv := goldmark.New(goldmark.WithExtensions(extension.Table))
	var buf bytes.Buffer
	if err := conv.Convert([]byte(md), &buf); err != nil {
		return "", fmt.Errorf("could not convert markdown to HTML: %w", err)
	}
	return buf.String(), nil
}
