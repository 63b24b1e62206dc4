package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/thenoobmlengineer/personal-portfolio/internal/theme"
)

var (
	darkBadge = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#e5e7eb")).
			Background(lipgloss.Color("#111827")).
			Padding(0, 1)
	lightBadge = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#1f2937")).
			Background(lipgloss.Color("#f9fafb")).
			Padding(0, 1)
)

func themeBadge(p theme.Preference) string {
	if p == theme.Dark {
		return darkBadge.Render(p.String())
	}
	return lightBadge.Render(p.String())
}

var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "Shows the theme generated pages will use",
	Long: `Shows the effective theme: the stored preference if there is one,
otherwise the desktop or terminal colour scheme.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, closeStore, err := openTheme(cmd.Context())
		defer closeStore()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Theme: %s\n", themeBadge(ctrl.Current()))
		return nil
	},
}

var themeToggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Switches between light and dark and saves the choice",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctrl, closeStore, err := openTheme(cmd.Context())
		defer closeStore()
		if err != nil {
			return err
		}
		next, err := ctrl.Toggle(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to save theme: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Theme: %s\n", themeBadge(next))
		return nil
	},
}

func init() {
	themeCmd.AddCommand(themeToggleCmd)
	rootCmd.AddCommand(themeCmd)
}
