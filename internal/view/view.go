// Package view renders the site's HTML pages. Templates and static assets
// are embedded in the binary. Every page is parsed together with base.html,
// and pages receive their handler data wrapped in a Page.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/gorilla/csrf"
	"github.com/labstack/echo/v4"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/iliyamo/restaurant-booking/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// SiteName is shown in titles and the header.
const SiteName = "Little Lemon"

// Page is what every template executes against.
type Page struct {
	Data      any
	Path      string
	CSRFField template.HTML
	CSRFToken string
	Year      int
}

// Renderer implements echo.Renderer.
type Renderer struct {
	pages map[string]*template.Template
}

// New parses every page template.
func New() (*Renderer, error) {
	md := goldmark.New(goldmark.WithExtensions(extension.Linkify, extension.Strikethrough))
	funcs := template.FuncMap{
		"markdown":  markdownFunc(md),
		"slotLabel": func(hour int) string { return model.NewSlot(hour).Label },
		"isoDate":   func(t time.Time) string { return t.Format(model.DateLayout) },
		"longDate":  LongDate,
		"price":     func(p float64) string { return fmt.Sprintf("%.2f", p) },
		"siteName":  func() string { return SiteName },
	}

	names, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	r := &Renderer{pages: map[string]*template.Template{}}
	for _, file := range names {
		name := path.Base(file)
		if name == "base.html" {
			continue
		}
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/base.html", file)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Render executes the named page inside the base layout.
func (r *Renderer) Render(w io.Writer, name string, data any, c echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("view: unknown template %q", name)
	}
	req := c.Request()
	page := Page{
		Data:      data,
		Path:      req.URL.Path,
		CSRFField: csrf.TemplateField(req),
		CSRFToken: csrf.Token(req),
		Year:      time.Now().Year(),
	}
	return t.ExecuteTemplate(w, "base", page)
}

// Has reports whether a page template named name exists.
func (r *Renderer) Has(name string) bool {
	_, ok := r.pages[name]
	return ok
}

// LongDate formats t like "Monday, June 10, 2024".
func LongDate(t time.Time) string {
	return t.Format("Monday, January 02, 2006")
}

// markdownFunc renders menu descriptions. goldmark escapes raw HTML by
// default, so the output is safe to mark as template.HTML.
func markdownFunc(md goldmark.Markdown) func(string) template.HTML {
	return func(src string) template.HTML {
		var buf bytes.Buffer
		if err := md.Convert([]byte(src), &buf); err != nil {
			return template.HTML(template.HTMLEscapeString(src))
		}
		return template.HTML(strings.TrimSpace(buf.String()))
	}
}

// StaticFS holds the stylesheet and page scripts, rooted at static/.
func StaticFS() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err) // the directory is embedded at build time
	}
	return sub
}
