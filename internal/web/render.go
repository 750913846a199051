package web

import (
	"embed"
	"html/template"
	"strconv"

	"github.com/yourusername/shopadmin/pkg/catalog"
)

//go:embed templates/*.html
var templateFS embed.FS

var templateFuncs = template.FuncMap{
	"price": func(p float64) string {
		return strconv.FormatFloat(p, 'f', -1, 64)
	},
	"sizesText": catalog.FormatSizes,
	"dec":       func(n int) int { return n - 1 },
	"inc":       func(n int) int { return n + 1 },
}

func loadTemplates() (*template.Template, error) {
	return template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
}
