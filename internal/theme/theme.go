// Package theme owns the site's light/dark preference: where it is stored,
// how it is initialised from the environment, and how it is toggled.
package theme

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// PreferenceKey is the store key the preference lives under.
const PreferenceKey = "theme"

// Preference is the persisted theme value.
type Preference string

const (
	Dark  Preference = "dark"
	Light Preference = "light"
)

func (p Preference) String() string {
	return string(p)
}

// Store is a durable key-value store for user preferences.
type Store interface {
	// Get returns the stored value and whether it was present.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Ambient reports the platform's colour-scheme preference.
type Ambient interface {
	PrefersDark(ctx context.Context) bool
}

// AmbientFunc adapts a function to Ambient.
type AmbientFunc func(ctx context.Context) bool

func (f AmbientFunc) PrefersDark(ctx context.Context) bool {
	return f(ctx)
}

// Marker is the visual side of the theme, e.g. a class on <body>.
type Marker interface {
	SetDark(dark bool)
}

// Control is something a user activates to toggle the theme.
type Control interface {
	OnActivate(fn func(ctx context.Context) error)
}

// Controller holds the effective theme for one process.
type Controller struct {
	// persistMu orders Toggle calls so the store sees writes in flip order.
	persistMu sync.Mutex

	mu       sync.Mutex
	dark     bool
	explicit bool
	store    Store
	marker Marker
	logger zerolog.Logger
}

// Init determines the effective theme: the stored preference if there is
// one, otherwise dark when the ambient preference is dark, otherwise light.
// Only dark is applied to marker; light is the unmarked default. marker and
// ambient may be nil.
func Init(ctx context.Context, store Store, ambient Ambient, marker Marker, logger zerolog.Logger) *Controller {
	c := &Controller{store: store, marker: marker, logger: logger}

	stored, ok, err := store.Get(ctx, PreferenceKey)
	if err != nil {
		logger.Warn().Err(err).Msg("Could not read stored theme, treating it as unset")
		ok = false
	}

	switch {
	case ok:
		c.dark = Preference(stored) == Dark
		c.explicit = true
	case ambient != nil:
		c.dark = ambient.PrefersDark(ctx)
	}

	if c.dark && marker != nil {
		marker.SetDark(true)
	}
	logger.Debug().Bool("stored", ok).Str("theme", c.current().String()).Msg("Theme initialised")
	return c
}

func (c *Controller) current() Preference {
	if c.dark {
		return Dark
	}
	return Light
}

// Current returns the effective theme.
func (c *Controller) Current() Preference {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current()
}

// Dark reports whether the dark theme is active.
func (c *Controller) Dark() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dark
}

// Stored returns the theme when it was chosen by the user, either read from
// the store or set by Toggle. It reports false while the theme still comes
// from the ambient preference or the light default.
func (c *Controller) Stored() (Preference, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current(), c.explicit
}

// Apply reflects the current theme onto m with the same rule as Init:
// only dark is marked.
func (c *Controller) Apply(m Marker) {
	if m == nil {
		return
	}
	if c.Dark() {
		m.SetDark(true)
	}
}

// Toggle flips the theme, updates the marker and persists the new value.
// The in-memory state changes even if persisting fails. Concurrent toggles
// are persisted in the order they flipped.
func (c *Controller) Toggle(ctx context.Context) (Preference, error) {
	c.persistMu.Lock()
	defer c.persistMu.Unlock()

	c.mu.Lock()
	c.dark = !c.dark
	c.explicit = true
	next := c.current()
	if c.marker != nil {
		c.marker.SetDark(c.dark)
	}
	c.mu.Unlock()

	if err := c.store.Set(ctx, PreferenceKey, next.String()); err != nil {
		return next, err
	}
	c.logger.Info().Str("theme", next.String()).Msg("Theme toggled")
	return next, nil
}

// Bind makes every activation of control toggle the theme. A nil control is
// ignored.
func (c *Controller) Bind(control Control) {
	if control == nil {
		return
	}
	control.OnActivate(func(ctx context.Context) error {
		_, err := c.Toggle(ctx)
		return err
	})
}
