// cmd/serve.go
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/thenoobmlengineer/personal-portfolio/internal/server"
	"github.com/thenoobmlengineer/personal-portfolio/internal/site"
	"github.com/thenoobmlengineer/personal-portfolio/internal/theme"
)

const (
	debounceDuration = 500 * time.Millisecond
	shutdownTimeout  = 5 * time.Second
)

var serverPort int

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves the site locally and rebuilds it on changes",
	Long: `The serve command performs an initial build of your site, then starts a local
web server for the output directory. Content, layouts, static assets and local
data files are watched and the site is rebuilt when they change.

POST /theme/toggle flips the stored theme and rebuilds; /metrics exposes
build metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

// rebuildOnToggle rebuilds the site after every successful toggle.
type rebuildOnToggle struct {
	theme.Control
	rebuild func(ctx context.Context) error
}

func (c rebuildOnToggle) OnActivate(fn func(ctx context.Context) error) {
	c.Control.OnActivate(func(ctx context.Context) error {
		if err := fn(ctx); err != nil {
			return err
		}
		return c.rebuild(ctx)
	})
}

func runServe(ctx context.Context) error {
	ctrl, closeStore, err := openTheme(ctx)
	defer closeStore()
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	builder, err := site.NewBuilder(appConfig,
		site.WithTheme(ctrl),
		site.WithMetrics(site.NewMetrics(reg)),
		site.WithLogger(log.Logger),
	)
	if err != nil {
		return err
	}

	log.Info().Msg("Performing initial build")
	if _, err := builder.Build(ctx); err != nil {
		return fmt.Errorf("initial build failed: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	for _, dir := range builder.WatchDirs() {
		watchTree(watcher, dir)
	}

	rebuild := func(ctx context.Context) error {
		_, err := builder.Build(ctx)
		return err
	}

	srv := server.New(appConfig.OutputDir, reg, log.Logger)
	srv.SetThemeSource(func() string { return ctrl.Current().String() })
	ctrl.Bind(rebuildOnToggle{Control: srv, rebuild: rebuild})

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", serverPort),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		watchLoop(ctx, watcher, rebuild)
		return nil
	})

	g.Go(func() error {
		log.Info().Str("dir", appConfig.OutputDir).Msgf("Serving site on http://localhost%s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		log.Info().Msg("Shutting down server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// watchTree adds root and every directory below it. fsnotify is not recursive.
func watchTree(watcher *fsnotify.Watcher, root string) {
	if _, err := os.Stat(root); errors.Is(err, fs.ErrNotExist) {
		log.Debug().Str("dir", root).Msg("Directory not found, not watching")
		return
	}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Error walking directory")
			return nil
		}
		if d.IsDir() {
			if err := watcher.Add(path); err != nil {
				log.Warn().Err(err).Str("dir", path).Msg("Failed to watch directory")
			}
		}
		return nil
	})
	if err != nil {
		log.Warn().Err(err).Str("dir", root).Msg("Error setting up watch")
	}
}

// watchLoop rebuilds once changes have been quiet for debounceDuration.
func watchLoop(ctx context.Context, watcher *fsnotify.Watcher, rebuild func(ctx context.Context) error) {
	var buildTimer *time.Timer
	defer func() {
		if buildTimer != nil {
			buildTimer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			log.Debug().Str("path", event.Name).Str("op", event.Op.String()).Msg("Change detected")

			if event.Has(fsnotify.Create) && isDir(event.Name) {
				watchTree(watcher, event.Name)
			}

			if buildTimer != nil {
				buildTimer.Stop()
			}
			buildTimer = time.AfterFunc(debounceDuration, func() {
				log.Info().Msg("Rebuilding site due to changes")
				if err := rebuild(ctx); err != nil {
					log.Error().Err(err).Msg("Rebuild failed")
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Warn().Err(err).Msg("Watcher error")
		}
	}
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

func init() {
	serveCmd.Flags().IntVarP(&serverPort, "port", "p", 1313, "Port to serve the site on")
	rootCmd.AddCommand(serveCmd)
}
