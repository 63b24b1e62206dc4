// Package site builds the portfolio into a directory of static files: the
// home page with its data sections, one page per Markdown file, and assets.
package site

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/net/html"
	"golang.org/x/sync/errgroup"

	"github.com/thenoobmlengineer/personal-portfolio/internal/config"
	"github.com/thenoobmlengineer/personal-portfolio/internal/datefmt"
	"github.com/thenoobmlengineer/personal-portfolio/internal/fetch"
	"github.com/thenoobmlengineer/personal-portfolio/internal/model"
	"github.com/thenoobmlengineer/personal-portfolio/internal/render"
	"github.com/thenoobmlengineer/personal-portfolio/internal/theme"
)

// Section names double as the id of the layout element they render into.
const (
	SectionProjects = "projects"
	SectionSkills   = "skills"
	SectionPhotos   = "photos"
	SectionMedia    = "media"
)

// fillFunc appends a section's rendered data to its container.
type fillFunc func(container *html.Node)

type section struct {
	name string
	path string
	load func(ctx context.Context, f *fetch.Fetcher, path string) (fillFunc, error)
}

func sectionOf[T any](renderFn func(*html.Node, []T)) func(context.Context, *fetch.Fetcher, string) (fillFunc, error) {
	return func(ctx context.Context, f *fetch.Fetcher, path string) (fillFunc, error) {
		items, err := fetch.JSON[[]T](ctx, f, path)
		if err != nil {
			return nil, err
		}
		return func(container *html.Node) { renderFn(container, items) }, nil
	}
}

// Result summarises one build.
type Result struct {
	ID             string
	Pages          int
	Bytes          int64
	FailedSections []string
	Duration       time.Duration
}

// Builder renders the site described by a config. Builds are serialised.
type Builder struct {
	mu       sync.Mutex
	cfg      config.Config
	fetcher  *fetch.Fetcher
	dates    *datefmt.Formatter
	renderer *render.Renderer
	theme    *theme.Controller
	metrics  *Metrics
	logger   zerolog.Logger
	sections []section
}

type Option func(*Builder)

// WithTheme pins the controller's stored theme on generated pages.
func WithTheme(c *theme.Controller) Option {
	return func(b *Builder) { b.theme = c }
}

func WithMetrics(m *Metrics) Option {
	return func(b *Builder) { b.metrics = m }
}

func WithLogger(l zerolog.Logger) Option {
	return func(b *Builder) { b.logger = l }
}

// WithFetcher overrides the fetcher derived from cfg.Data.Source.
func WithFetcher(f *fetch.Fetcher) Option {
	return func(b *Builder) { b.fetcher = f }
}

func NewBuilder(cfg config.Config, opts ...Option) (*Builder, error) {
	dates := datefmt.New(cfg.Language)
	b := &Builder{
		cfg:      cfg,
		dates:    dates,
		renderer: render.New(dates),
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(b)
	}

	if b.fetcher == nil {
		f, err := fetch.NewFromSource(cfg.Data.Source)
		if err != nil {
			return nil, err
		}
		b.fetcher = f
	}

	b.sections = []section{
		{SectionProjects, cfg.Data.Projects, sectionOf(b.renderer.Projects)},
		{SectionSkills, cfg.Data.Skills, sectionOf(b.renderer.Skills)},
		{SectionPhotos, cfg.Data.Photos, sectionOf(b.renderer.Photos)},
		{SectionMedia, cfg.Data.Media, sectionOf(b.renderer.Media)},
	}
	return b, nil
}

// Build regenerates the whole output directory.
func (b *Builder) Build(ctx context.Context) (*Result, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	start := time.Now()
	res := &Result{ID: uuid.New().String()}
	logger := b.logger.With().Str("build_id", res.ID).Logger()
	logger.Info().Str("output", b.cfg.OutputDir).Str("base_url", b.cfg.BaseURL).Msg("Starting build")

	err := b.build(ctx, res, logger)
	res.Duration = time.Since(start)
	b.metrics.observeBuild(res.Duration, err)
	if err != nil {
		return res, err
	}

	logger.Info().
		Int("pages", res.Pages).
		Str("size", humanize.Bytes(uint64(res.Bytes))).
		Strs("failed_sections", res.FailedSections).
		Dur("took", res.Duration).
		Msg("Build completed")
	return res, nil
}

func (b *Builder) build(ctx context.Context, res *Result, logger zerolog.Logger) error {
	out := b.cfg.OutputDir
	if err := os.RemoveAll(out); err != nil {
		return fmt.Errorf("failed to remove output directory '%s': %w", out, err)
	}
	if err := os.MkdirAll(out, os.ModePerm); err != nil {
		return fmt.Errorf("failed to create output directory '%s': %w", out, err)
	}

	assets, err := fs.Sub(defaultsFS, "defaults/static")
	if err != nil {
		return fmt.Errorf("failed to open default assets: %w", err)
	}
	if err := copyFS(assets, out); err != nil {
		return fmt.Errorf("failed to copy default assets: %w", err)
	}
	if _, err := os.Stat(b.cfg.StaticDir); err == nil {
		if err := copyDirContents(b.cfg.StaticDir, out); err != nil {
			return fmt.Errorf("failed to copy static assets: %w", err)
		}
	} else {
		logger.Debug().Str("dir", b.cfg.StaticDir).Msg("Static assets directory not found, skipping copy")
	}

	tmpl, err := loadLayouts(b.cfg.LayoutsDir, layoutFuncs(b.dates))
	if err != nil {
		return err
	}

	pages, err := collectContent(b.cfg.ContentDir, logger)
	if err != nil {
		return err
	}

	site := &model.SiteData{
		Title:    b.cfg.SiteTitle,
		BaseURL:  b.cfg.BaseURL,
		Language: b.cfg.Language,
		Pages:    pages,
	}

	fills := b.loadSections(ctx, res, logger)

	home, err := b.renderPage(tmpl, baseLayout, model.PageData{Site: site}, func(doc *html.Node) {
		for _, s := range b.sections {
			fill, ok := fills[s.name]
			if !ok {
				continue
			}
			container := render.FindByID(doc, s.name)
			if container == nil {
				logger.Debug().Str("section", s.name).Msg("Layout has no container for section")
				continue
			}
			fill(container)
		}
	})
	if err != nil {
		return err
	}
	if err := b.writePage(res, filepath.Join(out, "index.html"), home); err != nil {
		return err
	}

	for _, item := range pages {
		layout := layoutFor(tmpl, item.Layout)
		if item.Layout != "" && layout != item.Layout {
			logger.Warn().Str("layout", item.Layout).Str("page", item.SourcePath).Msgf("Layout not found, using %s", layout)
		}

		data, err := b.renderPage(tmpl, layout, model.PageData{Site: site, Item: item}, nil)
		if err != nil {
			return fmt.Errorf("failed to render '%s': %w", item.SourcePath, err)
		}
		path := filepath.Join(out, filepath.FromSlash(item.Permalink), "index.html")
		if err := b.writePage(res, path, data); err != nil {
			return err
		}
		logger.Debug().Str("page", item.Permalink).Str("layout", layout).Msg("Generated page")
	}
	return nil
}

// loadSections fetches every configured section concurrently. A section that
// fails is logged and left out; the others are unaffected.
func (b *Builder) loadSections(ctx context.Context, res *Result, logger zerolog.Logger) map[string]fillFunc {
	var mu sync.Mutex
	fills := make(map[string]fillFunc, len(b.sections))

	g, gctx := errgroup.WithContext(ctx)
	for _, s := range b.sections {
		if s.path == "" {
			continue
		}
		g.Go(func() error {
			fill, err := s.load(gctx, b.fetcher, s.path)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				var statusErr *fetch.StatusError
				ev := logger.Error().Err(err).Str("section", s.name)
				if errors.As(err, &statusErr) {
					ev = ev.Int("status", statusErr.StatusCode)
				}
				ev.Msg("Section data unavailable, leaving it empty")
				res.FailedSections = append(res.FailedSections, s.name)
				b.metrics.sectionFailed(s.name)
				return nil
			}
			fills[s.name] = fill
			return nil
		})
	}
	_ = g.Wait()
	sort.Strings(res.FailedSections)
	return fills
}

// renderPage executes layout, lets decorate edit the parsed document, pins
// the stored theme and serialises it again.
func (b *Builder) renderPage(tmpl *template.Template, layout string, data model.PageData, decorate func(doc *html.Node)) ([]byte, error) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, layout, data); err != nil {
		return nil, fmt.Errorf("failed to execute template '%s': %w", layout, err)
	}

	doc, err := html.Parse(&buf)
	if err != nil {
		return nil, fmt.Errorf("failed to parse output of '%s': %w", layout, err)
	}
	if decorate != nil {
		decorate(doc)
	}
	// Only a stored choice is written into pages. Without one the browser
	// applies the visitor's own colour scheme.
	if b.theme != nil {
		if pref, ok := b.theme.Stored(); ok {
			render.BodyMarker{Doc: doc}.Pin(pref == theme.Dark)
		}
	}

	var out bytes.Buffer
	if err := html.Render(&out, doc); err != nil {
		return nil, fmt.Errorf("failed to serialise output of '%s': %w", layout, err)
	}
	return out.Bytes(), nil
}

func (b *Builder) writePage(res *Result, path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return fmt.Errorf("failed to create directory '%s': %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write '%s': %w", path, err)
	}
	res.Pages++
	res.Bytes += int64(len(data))
	return nil
}

// WatchDirs lists the local directories whose changes should trigger a
// rebuild.
func (b *Builder) WatchDirs() []string {
	dirs := []string{b.cfg.ContentDir, b.cfg.LayoutsDir, b.cfg.StaticDir}
	if fetch.IsRemote(b.cfg.Data.Source) {
		return dirs
	}

	seen := map[string]bool{}
	for _, s := range b.sections {
		if s.path == "" {
			continue
		}
		dir := filepath.Dir(filepath.Join(b.cfg.Data.Source, filepath.FromSlash(s.path)))
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	return dirs
}
