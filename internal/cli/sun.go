package cli

import (
	"fmt"
	"io"

	"cloud.google.com/go/civil"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/duskpaper/internal/solar"
)

func newSunCmd(a *app) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "sun",
		Short: "Show sunrise and sunset for the configured location",
		Long: `Show sunrise and sunset for the configured location. Without --date the
times for today are shown, together with whether it is day or night now.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSun(cmd, date)
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "date to compute, as YYYY-MM-DD (default: today)")
	return cmd
}

func (a *app) runSun(cmd *cobra.Command, date string) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if date != "" {
		d, err := civil.ParseDate(date)
		if err != nil {
			return fmt.Errorf("invalid --date %q: %w", date, err)
		}
		st, err := a.estimator().Estimate(cfg.Latitude, cfg.Longitude, d)
		if err != nil {
			return err
		}
		printTimes(out, st)
		return nil
	}

	now := a.env.now()
	st, err := a.oracle(cfg).Times(now)
	if err != nil {
		return err
	}
	printTimes(out, st)

	if st.IsDay(now) {
		color.New(color.FgYellow, color.Bold).Fprintln(out, "It is day.")
	} else {
		color.New(color.FgBlue, color.Bold).Fprintln(out, "It is night.")
	}
	return nil
}

func printTimes(out io.Writer, st solar.Times) {
	fmt.Fprintf(out, "Date:     %s\n", st.Date)
	fmt.Fprintf(out, "Sunrise:  %s\n", st.Sunrise.Format("15:04 MST"))
	fmt.Fprintf(out, "Sunset:   %s\n", st.Sunset.Format("15:04 MST"))
	fmt.Fprintf(out, "Daylight: %s\n", st.Sunset.Sub(st.Sunrise))
}
