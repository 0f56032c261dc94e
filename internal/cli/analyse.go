package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/duskpaper/internal/classify"
	"github.com/jmylchreest/duskpaper/internal/features"
	"github.com/jmylchreest/duskpaper/internal/image"
)

func newAnalyseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "analyse <image>",
		Aliases: []string{"analyze"},
		Short:   "Show the colour fractions of one image",
		Long: `Show the red, green, blue, light and dark fractions of an image and whether
it would be classed as a night or day wallpaper.

Night thresholds come from the config file when one can be loaded.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runAnalyse(cmd, args[0])
		},
	}
}

func (a *app) runAnalyse(cmd *cobra.Command, path string) error {
	if err := image.ValidateImagePath(path); err != nil {
		return fmt.Errorf("invalid image path: %w", err)
	}

	thresholds := classify.DefaultThresholds()
	if cfg, err := a.loadConfig(); err == nil {
		thresholds = cfg.Night
	} else {
		a.logger.Debug("using default night thresholds", "reason", err)
	}

	extractor := features.NewExtractor()
	extractor.Logger = a.logger.Named("features")
	entry, err := extractor.Extract(path)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	table := NewTable("Feature", "Fraction")
	table.SetAlign(1, AlignRight)
	table.AddRow("red", formatFraction(entry.Red))
	table.AddRow("green", formatFraction(entry.Green))
	table.AddRow("blue", formatFraction(entry.Blue))
	table.AddRow("light", formatFraction(entry.Light))
	table.AddRow("dark", formatFraction(entry.Dark))
	if _, err := table.WriteTo(out); err != nil {
		return err
	}

	fmt.Fprintln(out)
	if thresholds.IsNight(entry) {
		color.New(color.FgBlue, color.Bold).Fprintln(out, "Class: night")
	} else {
		color.New(color.FgYellow, color.Bold).Fprintln(out, "Class: day")
	}
	return nil
}
