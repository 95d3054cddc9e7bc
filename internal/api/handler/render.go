// internal/api/handler/render.go
package handler

import (
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"time"

	"github.com/shopspring/decimal"
)

// Page names; each is parsed together with templates/layout.html.
const (
	PageDashboard  = "dashboard"
	PageUsers      = "users"
	PageUserDetail = "user_detail"
	PageError      = "error"
)

var pageNames = []string{PageDashboard, PageUsers, PageUserDetail, PageError}

var templateFuncs = template.FuncMap{
	"money": func(d decimal.Decimal) string { return d.StringFixed(2) },
	"date":  func(t time.Time) string { return t.Format(time.DateOnly) },
	"datetime": func(t time.Time) string {
		return t.UTC().Format("2006-01-02 15:04 MST")
	},
	"deref": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
	"add": func(a, b int) int { return a + b },
	"sub": func(a, b int) int { return a - b },
	"max1": func(n int) int {
		if n < 1 {
			return 1
		}
		return n
	},
}

// Renderer executes page templates against the shared layout.
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses every page from fsys, which must contain a templates/ directory.
func NewRenderer(fsys fs.FS) (*Renderer, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := template.New(name).Funcs(templateFuncs).ParseFS(fsys, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", name, err)
		}
		pages[name] = t
	}
	return &Renderer{pages: pages}, nil
}

// Render writes the named page to w.
func (r *Renderer) Render(w io.Writer, page string, data any) error {
	t, ok := r.pages[page]
	if !ok {
		return fmt.Errorf("unknown page %q", page)
	}
	if err := t.ExecuteTemplate(w, "layout", data); err != nil {
		return fmt.Errorf("render %s: %w", page, err)
	}
	return nil
}
