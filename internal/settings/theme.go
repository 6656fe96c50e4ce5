// Package settings owns process-wide preferences.
package settings

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"myworld/backend/internal/model"
	"myworld/backend/internal/repository"
)

var ErrInvalidTheme = errors.New("theme must be dark or light")

// ApplyFunc is called with the new theme after every change.
type ApplyFunc func(model.Theme)

// Theme is the single owner of the colour theme. Reads go through Current;
// Set is the only mutation point and updates the applied and the persisted
// value together.
type Theme struct {
	mu       sync.RWMutex
	store    repository.Store
	detect   func() model.Theme
	current  model.Theme
	appliers []ApplyFunc
	logger   *slog.Logger
}

type ThemeOption func(*Theme)

// WithDetector sets how the default theme is derived when nothing valid is
// stored.
func WithDetector(detect func() model.Theme) ThemeOption {
	return func(t *Theme) {
		if detect != nil {
			t.detect = detect
		}
	}
}

func WithLogger(logger *slog.Logger) ThemeOption {
	return func(t *Theme) {
		if logger != nil {
			t.logger = logger
		}
	}
}

func NewTheme(store repository.Store, opts ...ThemeOption) *Theme {
	t := &Theme{
		store:  store,
		detect: func() model.Theme { return model.ThemeDark },
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.current = t.detect()
	return t
}

// ParseTheme accepts "dark" or "light" in any case.
func ParseTheme(raw string) (model.Theme, error) {
	theme := model.Theme(strings.ToLower(strings.TrimSpace(raw)))
	if !theme.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidTheme, raw)
	}
	return theme, nil
}

// Load picks up the stored theme, falling back to the detected default, and
// applies it.
func (t *Theme) Load(ctx context.Context) model.Theme {
	theme := t.detect()
	raw, err := t.store.Get(ctx, model.KeyTheme)
	switch {
	case errors.Is(err, repository.ErrNotFound):
	case err != nil:
		t.logger.WarnContext(ctx, "theme unreadable, using default", "error", err)
	default:
		if parsed, parseErr := ParseTheme(string(raw)); parseErr == nil {
			theme = parsed
		} else {
			t.logger.WarnContext(ctx, "stored theme ignored", "value", string(raw))
		}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.current = theme
	t.applyLocked()
	return theme
}

func (t *Theme) Current() model.Theme {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.current
}

// Set applies and persists theme. A failed write is logged and the applied
// theme stays in effect for this process.
func (t *Theme) Set(ctx context.Context, theme model.Theme) error {
	if !theme.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidTheme, theme)
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.current = theme
	if err := t.store.Set(ctx, model.KeyTheme, []byte(theme)); err != nil {
		t.logger.WarnContext(ctx, "theme not saved", "theme", theme, "error", err)
	}
	t.applyLocked()
	return nil
}

// OnApply registers fn to run after every Load and Set. fn runs with the
// theme lock held and must not call back into t.
func (t *Theme) OnApply(fn ApplyFunc) {
	if fn == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.appliers = append(t.appliers, fn)
}

func (t *Theme) applyLocked() {
	for _, fn := range t.appliers {
		fn(t.current)
	}
}
