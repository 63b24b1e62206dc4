package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/thenoobmlengineer/personal-portfolio/internal/config"
	"github.com/thenoobmlengineer/personal-portfolio/internal/theme"
)

var cfgFile string
var appConfig config.Config

var rootCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Builds a personal portfolio site from JSON data and Markdown",
	Long: `portfolio renders projects, skills, photos and media from JSON data files
into a static site, alongside Markdown pages from './content/', layouts from
'./layouts/' and assets from './static/'. The light/dark theme preference is
stored locally and applied to every generated page.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initializeConfig()
	},
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("Command failed")
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
}

func initializeConfig() error {
	cfg, used, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	appConfig = cfg
	setupLogger(cfg.Log)

	if used != "" {
		log.Debug().Str("file", used).Msg("Using config file")
	} else {
		log.Debug().Msg("No config file found, using defaults and environment")
	}
	return nil
}

func setupLogger(cfg config.LogConfig) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
		return
	}
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
}

// openTheme initialises the theme controller from the configured store and
// ambient source. The close function is always non-nil.
func openTheme(ctx context.Context) (*theme.Controller, func() error, error) {
	store, closeStore, err := theme.OpenStore(appConfig.Theme.Store, appConfig.Theme.Path)
	if err != nil {
		return nil, closeStore, err
	}
	ambient, err := theme.NewAmbient(appConfig.Theme.Ambient, log.Logger)
	if err != nil {
		return nil, closeStore, err
	}
	return theme.Init(ctx, store, ambient, nil, log.Logger), closeStore, nil
}
