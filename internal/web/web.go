// Package web holds the server-rendered HTML templates, compiled into the
// binary so the app runs from a single file next to its database.
package web

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

func Templates() (*template.Template, error) {
	return template.ParseFS(templateFS, "templates/*.html")
}
