// Package web embeds the HTML pages and exposes them as an echo.Renderer.
package web

import (
    "embed"
    "fmt"
    "html/template"
    "io"
    "io/fs"
    "path"

    "github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page names accepted by Renderer.Render.
const (
    PageSignIn  = "signin.html"
    PageSignUp  = "signup.html"
    PageBooking = "booking.html"
    PagePayment = "payment.html"
)

// Renderer renders each page inside layout.html.
type Renderer struct {
    pages map[string]*template.Template
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
    names, err := fs.Glob(templateFS, "templates/*.html")
    if err != nil {
        return nil, err
    }
    r := &Renderer{pages: make(map[string]*template.Template)}
    for _, name := range names {
        base := path.Base(name)
        if base == "layout.html" {
            continue
        }
        t, err := template.New("layout.html").ParseFS(templateFS, "templates/layout.html", name)
        if err != nil {
            return nil, fmt.Errorf("parse %s: %w", base, err)
        }
        r.pages[base] = t
    }
    return r, nil
}

// MustRenderer is NewRenderer that panics on a broken template.
func MustRenderer() *Renderer {
    r, err := NewRenderer()
    if err != nil {
        panic(err)
    }
    return r
}

// Render implements echo.Renderer.
func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
    t, ok := r.pages[name]
    if !ok {
        return fmt.Errorf("unknown page %q", name)
    }
    return t.ExecuteTemplate(w, "layout.html", data)
}
