// Package config loads duskpaper's YAML configuration and applies
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jmylchreest/duskpaper/internal/catalog"
	"github.com/jmylchreest/duskpaper/internal/classify"
	"github.com/jmylchreest/duskpaper/internal/desktop"
)

// ErrConfiguration is matched by every configuration error.
var ErrConfiguration = errors.New("invalid configuration")

// Error describes a missing or invalid setting.
type Error struct {
	Field  string
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrConfiguration, e.Reason)
	}
	return fmt.Sprintf("%s: %s: %s", ErrConfiguration, e.Field, e.Reason)
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches ErrConfiguration.
func (e *Error) Is(target error) bool { return target == ErrConfiguration }

// Environment variables that override file settings.
const (
	EnvConfig           = "DUSKPAPER_CONFIG"
	EnvLatitude         = "DUSKPAPER_LATITUDE"
	EnvLongitude        = "DUSKPAPER_LONGITUDE"
	EnvCSVFile          = "DUSKPAPER_CSV_FILE"
	EnvWallpapersFolder = "DUSKPAPER_WALLPAPERS_FOLDER"
	EnvBackend          = "DUSKPAPER_BACKEND"
)

// Defaults.
const (
	DefaultCacheFile = "dates.yaml"
	MinPrecision     = 3
	MaxPrecision     = 5
	appName          = "duskpaper"
)

// Config is the validated, fully resolved configuration. Every path is
// absolute or relative to the working directory, never "~"-prefixed.
type Config struct {
	Latitude         float64
	Longitude        float64
	CSVFile          string
	WallpapersFolder string
	DataDir          string
	CacheFile        string
	Backend          string
	Precision        int
	Night            classify.Thresholds
	// Source is the file the configuration was read from, if any.
	Source string
}

// file mirrors the YAML layout. Pointers distinguish absent from zero.
type file struct {
	Latitude         *float64            `yaml:"latitude"`
	Longitude        *float64            `yaml:"longitude"`
	CSVFile          string              `yaml:"csvFile"`
	WallpapersFolder string              `yaml:"wallpapersFolder"`
	DataDir          string              `yaml:"dataDir"`
	CacheFile        string              `yaml:"cacheFile"`
	Backend          string              `yaml:"backend"`
	Precision        int                 `yaml:"precision"`
	Night            classify.Thresholds `yaml:"night"`
}

// Loader reads configuration. Zero fields fall back to the process
// environment.
type Loader struct {
	Getenv  func(string) string
	HomeDir func() (string, error)
}

// NewLoader creates a Loader for the real environment.
func NewLoader() *Loader {
	return &Loader{Getenv: os.Getenv, HomeDir: os.UserHomeDir}
}

// Load reads the config file at path, or the default location when path is
// empty, then applies environment overrides and validates the result. A
// missing file is only an error when path was given explicitly.
func Load(path string) (*Config, error) {
	return NewLoader().Load(path)
}

// Load is the Loader form of the package-level Load.
func (l *Loader) Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = l.getenv(EnvConfig)
		explicit = path != ""
	}
	if !explicit {
		var err error
		if path, err = l.DefaultPath(); err != nil {
			return nil, err
		}
	}

	path, err := l.expand(path)
	if err != nil {
		return nil, err
	}

	f := file{Night: classify.DefaultThresholds()}
	data, err := os.ReadFile(path) // #nosec G304 - user config path
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, &Error{Reason: fmt.Sprintf("failed to parse %s: %v", path, err), Err: err}
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
		path = ""
	default:
		return nil, &Error{Reason: fmt.Sprintf("failed to read config file: %v", err), Err: err}
	}

	if err := l.applyEnv(&f); err != nil {
		return nil, err
	}

	cfg, err := l.resolve(f)
	if err != nil {
		return nil, err
	}
	cfg.Source = path
	return cfg, nil
}

// DefaultPath returns $XDG_CONFIG_HOME/duskpaper/config.yaml, falling back to
// ~/.config when XDG_CONFIG_HOME is unset.
func (l *Loader) DefaultPath() (string, error) {
	if dir := l.getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.yaml"), nil
	}
	home, err := l.home()
	if err != nil {
		return "", &Error{Reason: "cannot locate config directory", Err: err}
	}
	return filepath.Join(home, ".config", appName, "config.yaml"), nil
}

// defaultDataDir returns $XDG_DATA_HOME/duskpaper or ~/.local/share/duskpaper.
func (l *Loader) defaultDataDir() (string, error) {
	if dir := l.getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, appName), nil
	}
	home, err := l.home()
	if err != nil {
		return "", &Error{Field: "dataDir", Reason: "cannot locate home directory", Err: err}
	}
	return filepath.Join(home, ".local", "share", appName), nil
}

func (l *Loader) applyEnv(f *file) error {
	for _, v := range []struct {
		env   string
		field string
		dst   **float64
	}{
		{EnvLatitude, "latitude", &f.Latitude},
		{EnvLongitude, "longitude", &f.Longitude},
	} {
		raw := strings.TrimSpace(l.getenv(v.env))
		if raw == "" {
			continue
		}
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return &Error{Field: v.field, Reason: fmt.Sprintf("%s is not a number: %q", v.env, raw), Err: err}
		}
		*v.dst = &n
	}

	if s := l.getenv(EnvCSVFile); s != "" {
		f.CSVFile = s
	}
	if s := l.getenv(EnvWallpapersFolder); s != "" {
		f.WallpapersFolder = s
	}
	if s := l.getenv(EnvBackend); s != "" {
		f.Backend = s
	}
	return nil
}

// resolve validates f and fills in defaults.
func (l *Loader) resolve(f file) (*Config, error) {
	if f.Latitude == nil {
		return nil, &Error{Field: "latitude", Reason: "required"}
	}
	if f.Longitude == nil {
		return nil, &Error{Field: "longitude", Reason: "required"}
	}
	if f.CSVFile == "" {
		return nil, &Error{Field: "csvFile", Reason: "required"}
	}
	if lat := *f.Latitude; lat < -90 || lat > 90 {
		return nil, &Error{Field: "latitude", Reason: fmt.Sprintf("must be within [-90, 90], got %v", lat)}
	}
	if lon := *f.Longitude; lon < -180 || lon > 180 {
		return nil, &Error{Field: "longitude", Reason: fmt.Sprintf("must be within [-180, 180], got %v", lon)}
	}

	cfg := &Config{
		Latitude:  *f.Latitude,
		Longitude: *f.Longitude,
		Backend:   strings.ToLower(f.Backend),
		Precision: f.Precision,
		Night:     f.Night,
	}

	if cfg.Backend == "" {
		cfg.Backend = desktop.BackendAuto
	}
	if !desktop.IsValidBackend(cfg.Backend) {
		return nil, &Error{Field: "backend", Reason: fmt.Sprintf("unsupported backend %q (supported: auto, %s)",
			f.Backend, strings.Join(desktop.Backends(), ", "))}
	}

	if cfg.Precision == 0 {
		cfg.Precision = catalog.DefaultPrecision
	}
	if cfg.Precision < MinPrecision || cfg.Precision > MaxPrecision {
		return nil, &Error{Field: "precision", Reason: fmt.Sprintf("must be within [%d, %d], got %d",
			MinPrecision, MaxPrecision, cfg.Precision)}
	}

	if err := cfg.Night.Validate(); err != nil {
		return nil, &Error{Field: "night", Reason: err.Error(), Err: err}
	}

	var err error
	if f.DataDir != "" {
		cfg.DataDir, err = l.expand(f.DataDir)
	} else {
		cfg.DataDir, err = l.defaultDataDir()
	}
	if err != nil {
		return nil, err
	}

	if cfg.CSVFile, err = l.underDataDir(f.CSVFile, cfg.DataDir); err != nil {
		return nil, err
	}

	cacheFile := f.CacheFile
	if cacheFile == "" {
		cacheFile = DefaultCacheFile
	}
	if cfg.CacheFile, err = l.underDataDir(cacheFile, cfg.DataDir); err != nil {
		return nil, err
	}

	if f.WallpapersFolder != "" {
		if cfg.WallpapersFolder, err = l.expand(f.WallpapersFolder); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// underDataDir expands path and anchors relative paths at dataDir.
func (l *Loader) underDataDir(path, dataDir string) (string, error) {
	path, err := l.expand(path)
	if err != nil {
		return "", err
	}
	if filepath.IsAbs(path) {
		return path, nil
	}
	return filepath.Join(dataDir, path), nil
}

// expand replaces a leading "~" with the home directory.
func (l *Loader) expand(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := l.home()
	if err != nil {
		return "", &Error{Reason: fmt.Sprintf("cannot expand %q", path), Err: err}
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

func (l *Loader) getenv(key string) string {
	if l.Getenv == nil {
		return os.Getenv(key)
	}
	return l.Getenv(key)
}

func (l *Loader) home() (string, error) {
	if l.HomeDir == nil {
		return os.UserHomeDir()
	}
	return l.HomeDir()
}
