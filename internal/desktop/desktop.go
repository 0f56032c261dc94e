// Package desktop reads and sets the desktop wallpaper through the tools of
// the running desktop environment.
package desktop

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/jmylchreest/duskpaper/internal/image"
)

// ErrUnknownBackend is returned for backend names that are not supported.
var ErrUnknownBackend = errors.New("unknown desktop backend")

// Backend names.
const (
	BackendAuto      = "auto"
	BackendXfce      = "xfce"
	BackendGnome     = "gnome"
	BackendHyprpaper = "hyprpaper"
	BackendSwww      = "swww"
)

// Backend reads and sets the wallpaper of one desktop environment.
type Backend interface {
	Name() string
	// Current returns the absolute path of the wallpaper being shown.
	Current(ctx context.Context) (string, error)
	Set(ctx context.Context, path string) error
}

// Backends returns the names of all supported backends.
func Backends() []string {
	return []string{BackendXfce, BackendGnome, BackendHyprpaper, BackendSwww}
}

// IsValidBackend reports whether name is a backend name or "auto".
func IsValidBackend(name string) bool {
	return name == BackendAuto || slices.Contains(Backends(), name)
}

// New returns the backend called name, running its commands through runner.
func New(name string, runner Runner) (Backend, error) {
	switch strings.ToLower(name) {
	case BackendXfce:
		return &Xfce{Runner: runner}, nil
	case BackendGnome:
		return &Gnome{Runner: runner}, nil
	case BackendHyprpaper:
		return &Hyprpaper{Runner: runner}, nil
	case BackendSwww:
		return &Swww{Runner: runner}, nil
	default:
		return nil, fmt.Errorf("%w: %q (supported: %s)", ErrUnknownBackend, name, strings.Join(Backends(), ", "))
	}
}

// Resolve returns the named backend, detecting it when name is empty or
// "auto".
func Resolve(name string, runner Runner, detector *Detector) (Backend, error) {
	if name == "" || strings.EqualFold(name, BackendAuto) {
		if detector == nil {
			detector = NewDetector()
		}
		detected, err := detector.Detect()
		if err != nil {
			return nil, err
		}
		name = detected
	}
	return New(name, runner)
}

// Apply shows path on the desktop unless it is already the current
// wallpaper. It reports whether the wallpaper changed.
func Apply(ctx context.Context, b Backend, path string, logger hclog.Logger) (bool, error) {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	if err := image.ValidateImagePath(path); err != nil {
		return false, fmt.Errorf("invalid wallpaper: %w", err)
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false, fmt.Errorf("failed to get absolute path: %w", err)
	}

	current, err := b.Current(ctx)
	if err != nil {
		// An unknown current wallpaper is not fatal, the set decides.
		logger.Warn("failed to read current wallpaper", "backend", b.Name(), "error", err)
	} else if current == absPath {
		logger.Debug("wallpaper already applied", "backend", b.Name(), "path", absPath)
		return false, nil
	}

	if err := b.Set(ctx, absPath); err != nil {
		return false, fmt.Errorf("failed to set wallpaper with %s: %w", b.Name(), err)
	}
	logger.Info("wallpaper applied", "backend", b.Name(), "path", absPath, "previous", current)
	return true, nil
}
