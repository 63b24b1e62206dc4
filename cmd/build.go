package cmd

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/thenoobmlengineer/personal-portfolio/internal/site"
)

// buildCmd represents the build command
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Builds the static site from data, content, layouts, and static assets",
	Long: `The build command fetches the projects, skills, photos and media JSON files,
renders them into the home page, converts Markdown files from './content/' into
pages, copies static assets from './static/', and writes the site into the
configured output directory (default './public/').

A section whose data cannot be loaded is logged and left empty; the rest of
the site is still generated.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBuild(cmd.Context())
	},
}

func runBuild(ctx context.Context) error {
	ctrl, closeStore, err := openTheme(ctx)
	defer closeStore()
	if err != nil {
		return err
	}

	b, err := site.NewBuilder(appConfig, site.WithTheme(ctrl), site.WithLogger(log.Logger))
	if err != nil {
		return err
	}
	_, err = b.Build(ctx)
	return err
}

func init() {
	rootCmd.AddCommand(buildCmd)
}
