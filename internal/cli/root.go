// Package cli provides the command-line interface for duskpaper.
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/jmylchreest/duskpaper/internal/config"
	"github.com/jmylchreest/duskpaper/internal/desktop"
	"github.com/jmylchreest/duskpaper/internal/selector"
	"github.com/jmylchreest/duskpaper/internal/solar"
	"github.com/jmylchreest/duskpaper/internal/version"
)

// env holds the process-level collaborators of the commands. Tests replace
// them to run commands without touching the desktop or the clock.
type env struct {
	now      func() time.Time
	zones    solar.ZoneResolver
	runner   desktop.Runner
	detector *desktop.Detector
	rand     selector.Rand
	loader   *config.Loader
}

func defaultEnv() *env {
	return &env{
		now:      time.Now,
		zones:    solar.HostZone{},
		runner:   desktop.NewExecRunner(),
		detector: desktop.NewDetector(),
		loader:   config.NewLoader(),
	}
}

// app is the state shared by all commands of one invocation.
type app struct {
	env        *env
	configPath string
	verbose    bool
	quiet      bool
	logger     hclog.Logger
}

// NewRootCmd builds the duskpaper command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(defaultEnv())
}

func newRootCmd(e *env) *cobra.Command {
	a := &app{env: e, logger: hclog.NewNullLogger()}

	root := &cobra.Command{
		Use:   "duskpaper",
		Short: "Day and night aware wallpaper changer",
		Long: `duskpaper picks a desktop wallpaper that suits the time of day.

It works out sunrise and sunset for your location, sorts a catalog of your
wallpapers into night and day images by their colours, and sets a random one
from the matching set.`,
		Version:       version.Get().Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if a.verbose && a.quiet {
				return fmt.Errorf("--verbose and --quiet cannot be used together")
			}
			a.logger = newLogger(cmd.ErrOrStderr(), a.verbose, a.quiet)
			return nil
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/duskpaper/config.yaml)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().BoolVarP(&a.quiet, "quiet", "q", false, "only log errors")
	root.SetVersionTemplate(version.String() + "\n")
	root.SetGlobalNormalizationFunc(normalizeFlagName)

	root.AddCommand(
		newUpdateCmd(a),
		newScanCmd(a),
		newSunCmd(a),
		newCatalogCmd(a),
		newAnalyseCmd(a),
		newVersionCmd(),
	)
	return root
}

// Execute runs the root command and prints any error to stderr.
func Execute() int {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintf(root.ErrOrStderr(), "Error: %v\n", err)
		return 1
	}
	return 0
}

// normalizeFlagName accepts underscores in place of dashes, so --dry_run
// works like --dry-run.
func normalizeFlagName(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
}

// newLogger creates the root hclog logger. Colour is only used when w is a
// terminal.
func newLogger(w io.Writer, verbose, quiet bool) hclog.Logger {
	level := hclog.Info
	switch {
	case verbose:
		level = hclog.Debug
	case quiet:
		level = hclog.Error
	}

	color := hclog.ColorOff
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		color = hclog.AutoColor
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:   "duskpaper",
		Level:  level,
		Output: w,
		Color:  color,
	})
}

// loadConfig reads the configuration named by --config.
func (a *app) loadConfig() (*config.Config, error) {
	cfg, err := a.env.loader.Load(a.configPath)
	if err != nil {
		return nil, err
	}
	if cfg.Source != "" {
		a.logger.Debug("loaded configuration", "path", cfg.Source)
	}
	return cfg, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print version information including build date, commit hash and Go version.`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}
