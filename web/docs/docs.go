// Package docs serves the Scalar API reference for the API module's OpenAPI document.
package docs

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/JaimeStill/caregate/pkg/module"
)

//go:embed index.html
var staticFS embed.FS

// NewModule creates a module that serves the API reference UI at basePath.
// specURL is the absolute path of the OpenAPI document, e.g. /api/openapi.json.
func NewModule(basePath, title, specURL string) *module.Module {
	return module.New(basePath, buildRouter(title, specURL))
}

func buildRouter(title, specURL string) http.Handler {
	tmpl := template.Must(template.ParseFS(staticFS, "index.html"))

	var page bytes.Buffer
	tmpl.Execute(&page, map[string]string{
		"Title":   title,
		"SpecURL": specURL,
	})
	body := page.Bytes()

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write(body)
	})

	return mux
}
