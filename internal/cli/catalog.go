package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newCatalogCmd(a *app) *cobra.Command {
	var class string

	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List catalog entries and their day/night class",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCatalog(cmd, class)
		},
	}

	cmd.Flags().StringVar(&class, "class", "", "only list entries of this class (night, day)")
	return cmd
}

func (a *app) runCatalog(cmd *cobra.Command, class string) error {
	switch class {
	case "", "night", "day":
	default:
		return fmt.Errorf("invalid --class %q (expected night or day)", class)
	}

	cfg, err := a.loadConfig()
	if err != nil {
		return err
	}
	cat, err := a.catalogStore(cfg).Load()
	if err != nil {
		return err
	}

	table := NewTable("Path", "Red", "Green", "Blue", "Light", "Dark", "Class")
	table.SetColumnMaxWidth(0, 60)
	for i := 1; i <= 5; i++ {
		table.SetAlign(i, AlignRight)
	}

	var nights, days int
	for _, e := range cat.Entries() {
		entryClass := "day"
		if cfg.Night.IsNight(e) {
			entryClass = "night"
			nights++
		} else {
			days++
		}
		if class != "" && class != entryClass {
			continue
		}
		table.AddRow(e.Path,
			formatFraction(e.Red), formatFraction(e.Green), formatFraction(e.Blue),
			formatFraction(e.Light), formatFraction(e.Dark), entryClass)
	}

	out := cmd.OutOrStdout()
	if table.Len() > 0 {
		if _, err := table.WriteTo(out); err != nil {
			return err
		}
		fmt.Fprintln(out)
	}
	fmt.Fprintf(out, "%d entries: %d night, %d day\n", cat.Len(), nights, days)
	return nil
}

func formatFraction(f float64) string {
	return strconv.FormatFloat(f, 'f', 3, 64)
}
