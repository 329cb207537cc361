// Package view рендерит HTML консоли: общий каркас (панель навигации, шапка,
// ассистент) и содержимое страниц.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/xela07ax/intellibridge-console/internal/console/nav"
	"github.com/xela07ax/intellibridge-console/internal/domain"
)

//go:embed templates static
var assets embed.FS

// Shell — данные каркаса, общие для всех страниц.
type Shell struct {
	Title     string
	Subtitle  string
	Path      string
	Nav       []nav.Item
	Collapsed bool
	Theme     domain.ThemeView
	User      domain.User
	Assistant domain.AssistantReply
}

// Page — каркас плюс содержимое конкретной страницы.
type Page struct {
	Shell
	Content interface{}
}

// Renderer держит разобранные шаблоны: по одному набору на страницу.
type Renderer struct {
	pages    map[string]*template.Template
	notFound *template.Template
}

func NewRenderer() (*Renderer, error) {
	pageFiles, err := fs.Glob(assets, "templates/pages/*.html")
	if err != nil {
		return nil, err
	}

	r := &Renderer{pages: make(map[string]*template.Template, len(pageFiles))}
	for _, file := range pageFiles {
		name := strings.TrimSuffix(file[strings.LastIndex(file, "/")+1:], ".html")
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(assets, "templates/layout.html", file)
		if err != nil {
			return nil, fmt.Errorf("view: parse %s: %w", file, err)
		}
		r.pages[name] = t
	}

	r.notFound, err = template.New("notfound.html").Funcs(funcs).ParseFS(assets, "templates/notfound.html")
	if err != nil {
		return nil, fmt.Errorf("view: parse notfound: %w", err)
	}
	return r, nil
}

// Has сообщает, есть ли шаблон страницы name.
func (r *Renderer) Has(name string) bool {
	_, ok := r.pages[name]
	return ok
}

// Render пишет страницу целиком. При ошибке шаблона клиент получает 500, а не обрывок HTML.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, p Page) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("view: unknown page %q", name)
	}
	return write(w, status, t, p)
}

// RenderNotFound рисует страницу 404 вне каркаса.
func (r *Renderer) RenderNotFound(w http.ResponseWriter, theme domain.ThemeView, path string) error {
	return write(w, http.StatusNotFound, r.notFound, struct {
		Theme domain.ThemeView
		Path  string
		Home  string
	}{Theme: theme, Path: path, Home: nav.DashboardPath})
}

func write(w http.ResponseWriter, status int, t *template.Template, data interface{}) error {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// StaticHandler раздает app.js и app.css.
func StaticHandler() http.Handler {
	sub, err := fs.Sub(assets, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}

var icons = map[string]string{
	"layout-dashboard": "▦",
	"code":             "</>",
	"package":          "▣",
	"zap":              "⚡",
	"calculator":       "∑",
	"shield":           "⛨",
	"file-text":        "☰",
	"activity":         "∿",
	"trending-up":      "↗",
	"check-circle":     "✓",
}

var funcs = template.FuncMap{
	"icon": func(name string) string {
		if s, ok := icons[name]; ok {
			return s
		}
		return "•"
	},
	"lower": strings.ToLower,
	// slug превращает "In Progress" в "in-progress" для css-классов
	"slug": func(s string) string {
		return strings.ReplaceAll(strings.ToLower(s), " ", "-")
	},
	"money": money,
	"list": func(items ...string) []string {
		return items
	},
	"date": func(t time.Time) string {
		return t.Format("2006-01-02 15:04")
	},
	"lines": func(s string) []string {
		return strings.Split(s, "\n")
	},
	"float": func(f float64) string {
		return strconv.FormatFloat(f, 'f', 1, 64)
	},
}

var numbers = message.NewPrinter(language.English)

// money форматирует число с разделителями разрядов: 485000 -> "485,000".
func money(v int) string {
	return numbers.Sprintf("%d", v)
}
