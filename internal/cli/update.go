package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/duskpaper/internal/catalog"
	"github.com/jmylchreest/duskpaper/internal/desktop"
)

func newUpdateCmd(a *app) *cobra.Command {
	var (
		image  string
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Set a wallpaper that suits the time of day",
		Long: `Pick a random wallpaper from the catalog that matches the current time of
day and set it as the desktop background.

Examples:
  # Pick and set a wallpaper
  duskpaper update

  # Set a specific image, skipping the day/night choice
  duskpaper update --image ~/Pictures/aurora.jpg

  # Show what would be chosen without changing the desktop
  duskpaper update --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runUpdate(cmd, image, dryRun)
		},
	}

	cmd.Flags().StringVarP(&image, "image", "i", "", "image to set instead of choosing one")
	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "print the chosen wallpaper without setting it")
	return cmd
}

func (a *app) runUpdate(cmd *cobra.Command, override string, dryRun bool) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}

	var cat *catalog.Catalog
	if override == "" {
		if cat, err = a.catalogStore(cfg).Load(); err != nil {
			return fmt.Errorf("failed to load catalog (run 'duskpaper scan' first?): %w", err)
		}
	}

	path, err := a.selector(cfg).Select(cat, override)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if dryRun {
		fmt.Fprintln(out, path)
		return nil
	}

	backend, err := desktop.Resolve(cfg.Backend, a.env.runner, a.env.detector)
	if err != nil {
		return fmt.Errorf("failed to select desktop backend: %w", err)
	}

	changed, err := desktop.Apply(cmd.Context(), backend, path, a.logger.Named("desktop"))
	if err != nil {
		return err
	}

	if changed {
		color.New(color.FgGreen).Fprint(out, "✓ ")
		fmt.Fprintf(out, "Wallpaper set: %s\n", path)
	} else {
		color.New(color.FgYellow).Fprint(out, "• ")
		fmt.Fprintf(out, "Wallpaper unchanged: %s\n", path)
	}
	return nil
}
