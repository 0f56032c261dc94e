package desktop

import (
	"context"
	"strings"
)

const swwwImageMarker = "image: "

// Swww drives the swww daemon.
type Swww struct {
	Runner     Runner
	Transition string
}

func (s *Swww) Name() string { return BackendSwww }

// Current parses the first output of "swww query", whose lines end with
// "currently displaying: image: /path/to/image".
func (s *Swww) Current(ctx context.Context) (string, error) {
	out, err := s.Runner.Run(ctx, "swww", "query")
	if err != nil {
		return "", err
	}
	for _, line := range strings.Split(string(out), "\n") {
		if i := strings.LastIndex(line, swwwImageMarker); i >= 0 {
			return strings.TrimSpace(line[i+len(swwwImageMarker):]), nil
		}
	}
	return "", nil
}

func (s *Swww) Set(ctx context.Context, path string) error {
	transition := s.Transition
	if transition == "" {
		transition = "fade"
	}
	_, err := s.Runner.Run(ctx, "swww", "img", path, "--transition-type", transition)
	return err
}
