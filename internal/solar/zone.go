package solar

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ZoneResolver supplies the time zone sunrise and sunset are expressed in.
type ZoneResolver interface {
	Zone() (*time.Location, error)
}

// FixedZone always resolves to the same location.
type FixedZone struct {
	Location *time.Location
}

// Zone implements ZoneResolver.
func (z FixedZone) Zone() (*time.Location, error) {
	if z.Location == nil {
		return time.UTC, nil
	}
	return z.Location, nil
}

// HostZone resolves the zone of the host the tool runs on. This is a stand-in
// for the zone of the configured coordinates.
type HostZone struct {
	// LocaltimePath defaults to /etc/localtime.
	LocaltimePath string
	// Getenv defaults to os.Getenv.
	Getenv func(string) string
}

// Zone implements ZoneResolver. It prefers $TZ, then the zoneinfo name the
// localtime link points at, and finally time.Local.
func (z HostZone) Zone() (*time.Location, error) {
	getenv := z.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}

	if tz := strings.TrimPrefix(getenv("TZ"), ":"); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err == nil {
			return loc, nil
		}
	}

	path := z.LocaltimePath
	if path == "" {
		path = "/etc/localtime"
	}
	if target, err := filepath.EvalSymlinks(path); err == nil {
		if name, ok := zoneNameFromPath(target); ok {
			if loc, err := time.LoadLocation(name); err == nil {
				return loc, nil
			}
		}
	}

	return time.Local, nil
}

// zoneNameFromPath extracts "Europe/London" from ".../zoneinfo/Europe/London".
func zoneNameFromPath(path string) (string, bool) {
	path = filepath.ToSlash(path)
	const marker = "zoneinfo/"
	idx := strings.LastIndex(path, marker)
	if idx < 0 {
		return "", false
	}
	name := path[idx+len(marker):]
	// Some distributions keep posix/ and right/ variants alongside.
	name = strings.TrimPrefix(name, "posix/")
	return name, name != ""
}

// LoadZone resolves a zone name as written by Times.Zone.String().
func LoadZone(name string) (*time.Location, error) {
	switch name {
	case "", "Local":
		return time.Local, nil
	case "UTC":
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("unknown time zone %q: %w", name, err)
	}
	return loc, nil
}
