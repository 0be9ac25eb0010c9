package pages

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"storefront/internal/auth"
	"storefront/internal/models"
	"storefront/internal/notify"
	"storefront/internal/session"
)

const siteTitle = "Stock Management System"

//go:embed templates/*.html
var templateFS embed.FS

// view is what every template receives. Page holds the page-specific data.
type view struct {
	Title   string
	Path    string
	Session *models.Session
	Notes   []notify.Notification
	Page    any
}

// Renderer implements echo.Renderer. Each page template is parsed together
// with the layout into its own set, so every page can define "content".
type Renderer struct {
	pages map[string]*template.Template
	notes *notify.Notifier
}

var funcs = template.FuncMap{
	"loggedIn":         auth.IsLoggedIn,
	"isAdmin":          auth.IsAdmin,
	"canEditComment":   auth.CanEditComment,
	"canDeleteComment": auth.CanDeleteComment,
	"markdown":         renderMarkdown,
	"money": func(d decimal.Decimal) string {
		return d.StringFixed(2)
	},
	"selected": func(a, b string) bool { return a == b },
}

func NewRenderer(notes *notify.Notifier) (*Renderer, error) {
	layout, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	names, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	r := &Renderer{pages: make(map[string]*template.Template), notes: notes}
	for _, name := range names {
		base := path.Base(name)
		if base == "layout.html" {
			continue
		}
		t, err := template.Must(layout.Clone()).ParseFS(templateFS, name)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", base, err)
		}
		r.pages[strings.TrimSuffix(base, ".html")] = t
	}
	return r, nil
}

type titled interface {
	title() string
}

func (r *Renderer) Render(w io.Writer, name string, data any, c echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	v := view{
		Title:   siteTitle,
		Path:    c.Request().URL.Path,
		Session: session.From(c),
		Notes:   r.notes.Pop(c),
		Page:    data,
	}
	if tp, ok := data.(titled); ok {
		v.Title = tp.title() + " | " + siteTitle
	}
	return t.ExecuteTemplate(w, "layout.html", v)
}
