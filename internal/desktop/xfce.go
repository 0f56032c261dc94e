package desktop

import (
	"context"
	"strings"
)

const (
	xfceChannel  = "xfce4-desktop"
	xfceProperty = "/backdrop/screen0/monitor0/workspace0/last-image"
)

// Xfce drives xfdesktop through xfconf-query.
type Xfce struct {
	Runner Runner
}

func (x *Xfce) Name() string { return BackendXfce }

func (x *Xfce) Current(ctx context.Context) (string, error) {
	out, err := x.Runner.Run(ctx, "xfconf-query", "--channel", xfceChannel, "--property", xfceProperty)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

func (x *Xfce) Set(ctx context.Context, path string) error {
	_, err := x.Runner.Run(ctx, "xfconf-query", "--channel", xfceChannel, "--property", xfceProperty, "--set", path)
	return err
}
