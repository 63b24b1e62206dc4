package site

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"github.com/rs/zerolog"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/thenoobmlengineer/personal-portfolio/internal/datefmt"
	"github.com/thenoobmlengineer/personal-portfolio/internal/model"
)

func newMarkdown() goldmark.Markdown {
	return goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(
			gmhtml.WithHardWraps(),
		),
	)
}

// collectContent converts every Markdown file under dir into a ContentItem,
// newest first. A missing dir yields no pages.
func collectContent(dir string, logger zerolog.Logger) ([]*model.ContentItem, error) {
	if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
		logger.Debug().Str("dir", dir).Msg("No content directory, skipping pages")
		return nil, nil
	}

	md := newMarkdown()
	titleCaser := cases.Title(language.English)

	var items []*model.ContentItem
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return fmt.Errorf("error accessing path '%s' during walk: %w", path, walkErr)
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".md") {
			return nil
		}

		fileBytes, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read file '%s': %w", path, err)
		}

		var fm map[string]interface{}
		body, err := frontmatter.Parse(bytes.NewReader(fileBytes), &fm)
		if err != nil {
			logger.Warn().Err(err).Str("path", path).Msg("Could not parse frontmatter, treating as pure markdown")
			body = fileBytes
		}
		if fm == nil {
			fm = make(map[string]interface{})
		}

		var buf bytes.Buffer
		if err := md.Convert(body, &buf); err != nil {
			return fmt.Errorf("failed to convert markdown to HTML for file '%s': %w", path, err)
		}

		title, _ := fm["title"].(string)
		if title == "" {
			base := strings.TrimSuffix(d.Name(), filepath.Ext(d.Name()))
			title = titleCaser.String(strings.NewReplacer("-", " ", "_", " ").Replace(base))
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return fmt.Errorf("failed to get relative path for %s: %w", path, err)
		}

		item := &model.ContentItem{
			Title:       title,
			Date:        frontmatterDate(fm["date"]),
			SourcePath:  path,
			Permalink:   permalink(rel),
			ContentHTML: template.HTML(buf.String()),
			Frontmatter: fm,
		}
		item.Summary, _ = fm["summary"].(string)
		item.Layout, _ = fm["layout"].(string)

		if raw, ok := fm["date"]; ok && item.Date.IsZero() {
			logger.Warn().Str("path", path).Interface("date", raw).Msg("Could not parse date, use YYYY-MM-DD or RFC3339")
		}

		items = append(items, item)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error during content collection walk: %w", err)
	}

	sortByDate(items)
	return items, nil
}

func frontmatterDate(v interface{}) time.Time {
	switch d := v.(type) {
	case time.Time:
		return d.UTC()
	case string:
		t, _ := datefmt.Parse(d)
		return t
	default:
		return time.Time{}
	}
}

// sortByDate orders items newest first with undated items last.
func sortByDate(items []*model.ContentItem) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Date.IsZero() {
			return false
		}
		if items[j].Date.IsZero() {
			return true
		}
		return items[i].Date.After(items[j].Date)
	})
}

// permalink maps "posts/hello.md" to "/posts/hello/".
func permalink(rel string) string {
	p := filepath.ToSlash(strings.TrimSuffix(rel, filepath.Ext(rel)))
	p = "/" + strings.Trim(p, "/") + "/"
	if p == "//" {
		return "/"
	}
	return p
}
