package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/duskpaper/internal/features"
	"github.com/jmylchreest/duskpaper/internal/scan"
)

func newScanCmd(a *app) *cobra.Command {
	var (
		folder string
		jobs   int
	)

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Rebuild the wallpaper catalog",
		Long: `Analyse every image below the wallpapers folder and replace the catalog with
the results. Images that cannot be decoded are reported and left out.

Supported image formats: JPEG, PNG, GIF, WebP, BMP, TIFF`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runScan(cmd, folder, jobs)
		},
	}

	cmd.Flags().StringVarP(&folder, "folder", "f", "", "folder to scan (default: wallpapersFolder from config)")
	cmd.Flags().IntVar(&jobs, "jobs", 0, "number of images analysed in parallel (default: number of CPUs)")
	return cmd
}

func (a *app) runScan(cmd *cobra.Command, folder string, jobs int) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	if folder == "" {
		folder = cfg.WallpapersFolder
	}
	if folder == "" {
		return fmt.Errorf("no folder to scan: use --folder or set wallpapersFolder in the config")
	}
	if jobs < 0 {
		return fmt.Errorf("--jobs must not be negative")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	extractor := features.NewExtractor()
	extractor.Logger = a.logger.Named("features")

	s := scan.New(extractor, a.catalogStore(cfg), jobs, a.logger.Named("scan"))
	start := time.Now()
	report, err := s.Run(ctx, folder)
	if err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return fmt.Errorf("scan cancelled, catalog left unchanged")
		}
		return err
	}

	out := cmd.OutOrStdout()
	color.New(color.FgGreen).Fprint(out, "✓ ")
	fmt.Fprintf(out, "Catalogued %d of %d images from %s in %s\n",
		report.Scanned(), report.Found, report.Folder, time.Since(start).Round(time.Millisecond))
	if len(report.Skipped) > 0 {
		warn := color.New(color.FgYellow)
		warn.Fprintf(out, "Skipped %d unreadable images:\n", len(report.Skipped))
		for _, p := range report.Skipped {
			fmt.Fprintf(out, "  %s\n", p)
		}
	}
	fmt.Fprintf(out, "Catalog written to %s\n", cfg.CSVFile)
	return nil
}
