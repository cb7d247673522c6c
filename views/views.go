package views

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/sirupsen/logrus"
)

//go:embed templates/*.html
var files embed.FS

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"deref": func(p *int) int {
		if p == nil {
			return 0
		}
		return *p
	},
}).ParseFS(files, "templates/*.html"))

// Render writes the named page. Handlers put the request Identity in the
// data map so templates never reach into the session themselves.
func Render(w http.ResponseWriter, status int, name string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := templates.ExecuteTemplate(w, name, data); err != nil {
		logrus.WithError(err).WithField("template", name).Error("render failed")
	}
}

func RenderError(w http.ResponseWriter, status int, message string) {
	Render(w, status, "error.html", map[string]interface{}{"Message": message})
}
