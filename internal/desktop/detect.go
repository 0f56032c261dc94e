package desktop

import (
	"fmt"
	"os"
	"strings"

	ps "github.com/mitchellh/go-ps"
)

// ProcessLister returns the executable names of running processes.
type ProcessLister func() ([]string, error)

// RunningProcesses lists process names with go-ps.
func RunningProcesses() ([]string, error) {
	processes, err := ps.Processes()
	if err != nil {
		return nil, fmt.Errorf("failed to get process list: %w", err)
	}

	names := make([]string, 0, len(processes))
	for _, p := range processes {
		names = append(names, p.Executable())
	}
	return names, nil
}

// Detector picks a backend for the current session.
type Detector struct {
	Getenv    func(string) string
	Processes ProcessLister
}

// NewDetector creates a Detector reading the real environment.
func NewDetector() *Detector {
	return &Detector{Getenv: os.Getenv, Processes: RunningProcesses}
}

// processBackends maps daemons to backends, in preference order.
var processBackends = []struct {
	process string
	backend string
}{
	{"hyprpaper", BackendHyprpaper},
	{"swww-daemon", BackendSwww},
	{"xfdesktop", BackendXfce},
	{"gnome-shell", BackendGnome},
}

// Detect returns the backend name for the session. XDG_CURRENT_DESKTOP
// decides for XFCE and GNOME; Hyprland sessions and unknown desktops are
// resolved from the process table.
func (d *Detector) Detect() (string, error) {
	getenv := d.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}

	desktops := strings.ToLower(getenv("XDG_CURRENT_DESKTOP"))
	for _, name := range strings.Split(desktops, ":") {
		switch name {
		case "xfce":
			return BackendXfce, nil
		case "gnome", "gnome-classic", "ubuntu":
			return BackendGnome, nil
		}
	}

	list := d.Processes
	if list == nil {
		list = RunningProcesses
	}
	names, err := list()
	if err != nil {
		return "", err
	}
	running := make(map[string]bool, len(names))
	for _, n := range names {
		running[n] = true
	}
	for _, pb := range processBackends {
		if running[pb.process] {
			return pb.backend, nil
		}
	}

	return "", fmt.Errorf("no supported desktop detected (XDG_CURRENT_DESKTOP=%q, tried: %s)",
		getenv("XDG_CURRENT_DESKTOP"), strings.Join(Backends(), ", "))
}
