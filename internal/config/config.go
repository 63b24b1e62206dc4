package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/thenoobmlengineer/personal-portfolio/internal/theme"
)

// EnvPrefix prefixes environment overrides, e.g. PORTFOLIO_OUTPUTDIR.
const EnvPrefix = "PORTFOLIO"

type Config struct {
	SiteTitle  string `mapstructure:"siteTitle"`
	OutputDir  string `mapstructure:"outputDir"`
	BaseURL    string `mapstructure:"baseURL"`
	Language   string `mapstructure:"language"`
	ContentDir string `mapstructure:"contentDir"`
	LayoutsDir string `mapstructure:"layoutsDir"`
	StaticDir  string `mapstructure:"staticDir"`

	Data  DataConfig  `mapstructure:"data"`
	Theme ThemeConfig `mapstructure:"theme"`
	Log   LogConfig   `mapstructure:"log"`
}

// DataConfig says where the section JSON files come from. Source is either a
// local directory or an http(s) base URL; the paths are resolved against it.
type DataConfig struct {
	Source   string `mapstructure:"source"`
	Projects string `mapstructure:"projects"`
	Skills   string `mapstructure:"skills"`
	Photos   string `mapstructure:"photos"`
	Media    string `mapstructure:"media"`
}

type ThemeConfig struct {
	Store   string `mapstructure:"store"` // memory, file, sqlite
	Path    string `mapstructure:"path"`
	Ambient string `mapstructure:"ambient"` // auto, portal, terminal, dark, light
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("siteTitle", "My Portfolio")
	v.SetDefault("outputDir", "public")
	v.SetDefault("baseURL", "")
	v.SetDefault("language", "en-US")
	v.SetDefault("contentDir", "content")
	v.SetDefault("layoutsDir", "layouts")
	v.SetDefault("staticDir", "static")

	v.SetDefault("data.source", ".")
	v.SetDefault("data.projects", "/data/projects.json")
	v.SetDefault("data.skills", "/data/skills.json")
	v.SetDefault("data.photos", "/data/photos.json")
	v.SetDefault("data.media", "/data/media.json")

	v.SetDefault("theme.store", theme.DriverFile)
	v.SetDefault("theme.path", ".portfolio/preferences.yaml")
	v.SetDefault("theme.ambient", theme.AmbientAuto)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", true)
}

// Load reads cfgFile (or ./config.yaml when empty), a .env file next to it,
// and PORTFOLIO_* environment variables. A missing default config file is
// not an error; a missing explicit one is.
func Load(cfgFile string) (Config, string, error) {
	var cfg Config

	envDir := "."
	if cfgFile != "" {
		envDir = filepath.Dir(cfgFile)
	}
	if err := godotenv.Load(filepath.Join(envDir, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, "", fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	used := ""
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || cfgFile != "" {
			return cfg, "", fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		used = v.ConfigFileUsed()
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, used, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	// Layouts append absolute paths to baseURL.
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")

	if err := cfg.Validate(); err != nil {
		return cfg, used, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, used, nil
}

func (c *Config) Validate() error {
	if c.OutputDir == "" {
		return fmt.Errorf("outputDir is required")
	}
	if filepath.Clean(c.OutputDir) == "." || filepath.Clean(c.OutputDir) == "/" {
		return fmt.Errorf("outputDir %q would wipe the project", c.OutputDir)
	}
	if c.Data.Source == "" {
		return fmt.Errorf("data.source is required")
	}

	switch c.Theme.Store {
	case theme.DriverMemory:
	case theme.DriverFile, theme.DriverSQLite:
		if c.Theme.Path == "" {
			return fmt.Errorf("theme.path is required for the %s store", c.Theme.Store)
		}
	default:
		return fmt.Errorf("unsupported theme store: %s", c.Theme.Store)
	}

	switch c.Theme.Ambient {
	case theme.AmbientAuto, theme.AmbientPortal, theme.AmbientTerminal, theme.AmbientDark, theme.AmbientLight:
	default:
		return fmt.Errorf("unsupported theme ambient mode: %s", c.Theme.Ambient)
	}

	return nil
}
