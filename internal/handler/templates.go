package handler

import (
	"embed"
	"html/template"

	"yt-dashboard/internal/domain"
	"yt-dashboard/internal/format"
	"yt-dashboard/internal/logger"
)

//go:embed templates/*.html
var templateFS embed.FS

// TemplateFuncs returns the custom template functions used across all templates
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		// count renders a decimal-string statistic with digit grouping
		"count": format.Count,
		// thumb picks the best available thumbnail URL, preferring medium
		"thumb": func(t domain.Thumbnails) string {
			for _, url := range []string{t.Medium.URL, t.High.URL, t.Default.URL} {
				if url != "" {
					return url
				}
			}
			return ""
		},
	}
}

// LoadTemplates loads all HTML templates with custom functions
func LoadTemplates() *template.Template {
	tmpl, err := template.New("").Funcs(TemplateFuncs()).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		logger.Error("Failed to load templates", map[string]interface{}{"error": err.Error()})
		return template.New("empty").Funcs(TemplateFuncs())
	}
	return tmpl
}
