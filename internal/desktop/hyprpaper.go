package desktop

import (
	"context"
	"fmt"
	"strings"
)

// Hyprpaper drives hyprpaper through hyprctl. The wallpaper is set on all
// monitors at once.
type Hyprpaper struct {
	Runner Runner
}

func (h *Hyprpaper) Name() string { return BackendHyprpaper }

// Current returns the wallpaper of the first monitor listed by listactive,
// whose lines look like "DP-1 = /path/to/image".
func (h *Hyprpaper) Current(ctx context.Context) (string, error) {
	out, err := h.Runner.Run(ctx, "hyprctl", "hyprpaper", "listactive")
	if err != nil {
		return "", err
	}
	for _, line := range strings.Split(string(out), "\n") {
		_, path, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		if path = strings.TrimSpace(path); path != "" {
			return path, nil
		}
	}
	return "", nil
}

func (h *Hyprpaper) Set(ctx context.Context, path string) error {
	// hyprpaper caches by path, drop any stale copy first. A failure only
	// means the image was not loaded.
	_, _ = h.Runner.Run(ctx, "hyprctl", "hyprpaper", "unload", path)

	if _, err := h.Runner.Run(ctx, "hyprctl", "hyprpaper", "preload", path); err != nil {
		return fmt.Errorf("failed to preload wallpaper: %w", err)
	}
	if _, err := h.Runner.Run(ctx, "hyprctl", "hyprpaper", "wallpaper", ","+path); err != nil {
		return err
	}
	return nil
}
