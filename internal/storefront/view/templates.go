package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strconv"
)

//go:embed templates/*.html
var templateFS embed.FS

const layoutFile = "templates/layout.html"

const (
	PageHome      = "home"
	PageDetails   = "details"
	PageCheckout  = "checkout"
	PageResult    = "result"
	PageNoBooking = "nobooking"
	PageNotFound  = "notfound"
	PageError     = "error"
)

var pages = []string{PageHome, PageDetails, PageCheckout, PageNoBooking, PageResult, PageNotFound, PageError}

// Renderer holds one parsed template set per page, each sharing the layout.
type Renderer struct {
	pages map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	return newRenderer(templateFS)
}

func newRenderer(fsys fs.FS) (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template, len(pages))}

	for _, page := range pages {
		tmpl, err := template.New("layout.html").
			Funcs(funcs()).
			ParseFS(fsys, layoutFile, "templates/"+page+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", page, err)
		}
		r.pages[page] = tmpl
	}

	return r, nil
}

// Render executes page into a buffer first so a template error never
// leaves a half-written response.
func (r *Renderer) Render(w http.ResponseWriter, status int, page string, data any) error {
	tmpl, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout.html", data); err != nil {
		return fmt.Errorf("failed to render %s: %w", page, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

func funcs() template.FuncMap {
	return template.FuncMap{
		"inr": FormatINR,
		"rating": func(r float64) string {
			return strconv.FormatFloat(r, 'f', 1, 64)
		},
	}
}
