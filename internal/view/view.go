// Package view renders the evaluator page.
package view

import (
	"embed"
	"html/template"
	"io"

	"audio-eval-be/internal/dto"
)

//go:embed templates/index.html
var templates embed.FS

var index = template.Must(template.ParseFS(templates, "templates/index.html"))

func RenderIndex(w io.Writer, page *dto.PageView) error {
	return index.Execute(w, page)
}
