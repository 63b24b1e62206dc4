package site

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/thenoobmlengineer/personal-portfolio/internal/datefmt"
)

const (
	baseLayout   = "base.html" // executed for the home page and as the last fallback
	singleLayout = "single.html"
)

//go:embed defaults
var defaultsFS embed.FS

func layoutFuncs(dates *datefmt.Formatter) template.FuncMap {
	return template.FuncMap{
		"formatDate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return dates.Format(t.Format(time.RFC3339))
		},
	}
}

// loadLayouts parses the layouts in dir, or the embedded defaults when dir
// has no base.html. base.html and partials/ are parsed first so page layouts
// can override their blocks.
func loadLayouts(dir string, funcs template.FuncMap) (*template.Template, error) {
	basePath := filepath.Join(dir, baseLayout)
	if _, err := os.Stat(basePath); errors.Is(err, fs.ErrNotExist) {
		tmpl, err := template.New(baseLayout).Funcs(funcs).ParseFS(defaultsFS, "defaults/layouts/*.html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse default layouts: %w", err)
		}
		return tmpl, nil
	}

	var partials, pages []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".html") || path == basePath {
			return nil
		}
		if strings.HasPrefix(filepath.Dir(path), filepath.Join(dir, "partials")) {
			partials = append(partials, path)
		} else {
			pages = append(pages, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find layout files in '%s': %w", dir, err)
	}

	tmpl, err := template.New(baseLayout).Funcs(funcs).ParseFiles(append([]string{basePath}, partials...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base.html and partials: %w", err)
	}
	if len(pages) > 0 {
		if tmpl, err = tmpl.ParseFiles(pages...); err != nil {
			return nil, fmt.Errorf("failed to parse page layouts: %w", err)
		}
	}
	return tmpl, nil
}

// layoutFor picks the frontmatter layout, then single.html, then base.html.
func layoutFor(tmpl *template.Template, layout string) string {
	if layout != "" && tmpl.Lookup(layout) != nil {
		return layout
	}
	if tmpl.Lookup(singleLayout) != nil {
		return singleLayout
	}
	return baseLayout
}
