package theme

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/godbus/dbus/v5"
	"github.com/rs/zerolog"
)

// Ambient modes accepted by NewAmbient.
const (
	AmbientAuto     = "auto"
	AmbientPortal   = "portal"
	AmbientTerminal = "terminal"
	AmbientDark     = "dark"
	AmbientLight    = "light"
)

const (
	portalDest      = "org.freedesktop.portal.Desktop"
	portalPath      = "/org/freedesktop/portal/desktop"
	portalRead      = "org.freedesktop.portal.Settings.Read"
	appearanceNS    = "org.freedesktop.appearance"
	colorSchemeKey  = "color-scheme"
	colorSchemeDark = 1
)

// PortalColorScheme asks the XDG desktop portal for the system colour scheme
// and reports whether it prefers dark.
func PortalColorScheme(ctx context.Context) (bool, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return false, fmt.Errorf("failed to connect to session bus: %w", err)
	}

	var v dbus.Variant
	err = conn.Object(portalDest, portalPath).
		CallWithContext(ctx, portalRead, 0, appearanceNS, colorSchemeKey).
		Store(&v)
	if err != nil {
		return false, fmt.Errorf("failed to read %s.%s: %w", appearanceNS, colorSchemeKey, err)
	}

	// Settings.Read wraps the value in a second variant.
	val := v.Value()
	if inner, ok := val.(dbus.Variant); ok {
		val = inner.Value()
	}
	scheme, ok := val.(uint32)
	if !ok {
		return false, fmt.Errorf("unexpected %s value %v", colorSchemeKey, val)
	}
	return scheme == colorSchemeDark, nil
}

// TerminalPrefersDark reports whether the controlling terminal has a dark
// background.
func TerminalPrefersDark(context.Context) bool {
	return lipgloss.HasDarkBackground()
}

// NewAmbient returns the Ambient for mode. "auto" tries the desktop portal
// and falls back to the terminal background.
func NewAmbient(mode string, logger zerolog.Logger) (Ambient, error) {
	switch mode {
	case AmbientAuto, "":
		return AmbientFunc(func(ctx context.Context) bool {
			dark, err := PortalColorScheme(ctx)
			if err != nil {
				logger.Debug().Err(err).Msg("Desktop portal unavailable, using terminal background")
				return TerminalPrefersDark(ctx)
			}
			return dark
		}), nil
	case AmbientPortal:
		return AmbientFunc(func(ctx context.Context) bool {
			dark, err := PortalColorScheme(ctx)
			if err != nil {
				logger.Warn().Err(err).Msg("Could not read desktop colour scheme")
				return false
			}
			return dark
		}), nil
	case AmbientTerminal:
		return AmbientFunc(TerminalPrefersDark), nil
	case AmbientDark:
		return AmbientFunc(func(context.Context) bool { return true }), nil
	case AmbientLight:
		return AmbientFunc(func(context.Context) bool { return false }), nil
	default:
		return nil, fmt.Errorf("unsupported ambient theme mode: %s", mode)
	}
}
