package desktop

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

const gnomeSchema = "org.gnome.desktop.background"

// Gnome drives GNOME Shell through gsettings. Both the light and dark
// picture keys are set.
type Gnome struct {
	Runner Runner
}

func (g *Gnome) Name() string { return BackendGnome }

func (g *Gnome) Current(ctx context.Context) (string, error) {
	out, err := g.Runner.Run(ctx, "gsettings", "get", gnomeSchema, "picture-uri")
	if err != nil {
		return "", err
	}
	return parseGnomeURI(string(out))
}

func (g *Gnome) Set(ctx context.Context, path string) error {
	uri := (&url.URL{Scheme: "file", Path: path}).String()
	for _, key := range []string{"picture-uri", "picture-uri-dark"} {
		if _, err := g.Runner.Run(ctx, "gsettings", "set", gnomeSchema, key, uri); err != nil {
			return err
		}
	}
	return nil
}

// parseGnomeURI turns gsettings output such as 'file:///a/b.jpg' into a path.
func parseGnomeURI(out string) (string, error) {
	raw := strings.Trim(strings.TrimSpace(out), `'"`)
	if raw == "" {
		return "", nil
	}
	if !strings.Contains(raw, "://") {
		return raw, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("failed to parse picture-uri %q: %w", raw, err)
	}
	if u.Scheme != "file" {
		return "", fmt.Errorf("unsupported picture-uri scheme %q", u.Scheme)
	}
	return u.Path, nil
}
