package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/p-n-ai/deepblue/internal/app"
	"github.com/p-n-ai/deepblue/internal/divelog"
)

func (c *cli) diveLogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "divelog",
		Short: "Manage the dive log",
	}
	cmd.AddCommand(
		c.diveLogListCmd(),
		c.diveLogAddCmd(),
		c.diveLogRemoveCmd(),
		c.diveLogExportCmd(),
	)
	return cmd
}

// openDiveLog opens the runtime and shows the dive log view.
func (c *cli) openDiveLog(cmd *cobra.Command) (*divelog.Log, error) {
	if err := c.open(cmd, false); err != nil {
		return nil, err
	}
	if _, err := c.ctrl.Dispatch(cmd.Context(), app.Navigate{To: app.ViewDiveLog}); err != nil {
		return nil, err
	}
	return c.ctrl.DiveLog(), nil
}

func (c *cli) diveLogListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List dives, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := c.openDiveLog(cmd)
			if err != nil {
				return err
			}
			printDiveLog(cmd.OutOrStdout(), log.Entries(), log.Stats())
			return nil
		},
	}
}

func (c *cli) diveLogAddCmd() *cobra.Command {
	var form divelog.Form

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a dive",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := c.openDiveLog(cmd)
			if err != nil {
				return err
			}
			entry, err := log.Add(cmd.Context(), form)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged dive %s at %s (%.1fm, %d min)\n",
				entry.ID, entry.Location, entry.Depth, entry.Duration)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&form.Date, "date", "", "Dive date (YYYY-MM-DD)")
	f.StringVar(&form.Location, "location", "", "Dive site")
	f.StringVar(&form.Depth, "depth", "", "Maximum depth in metres")
	f.StringVar(&form.Duration, "duration", "", "Bottom time in minutes")
	f.StringVar(&form.Notes, "notes", "", "Free-form notes")
	cmd.MarkFlagRequired("date")
	cmd.MarkFlagRequired("location")
	return cmd
}

func (c *cli) diveLogRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a dive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := c.openDiveLog(cmd)
			if err != nil {
				return err
			}
			if err := log.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted dive %s\n", args[0])
			return nil
		},
	}
}

func (c *cli) diveLogExportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the dive log as an Excel workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := c.openDiveLog(cmd)
			if err != nil {
				return err
			}
			f, err := os.Create(output)
			if err != nil {
				return err
			}
			if err := divelog.WriteXLSX(f, log.Entries()); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d dives to %s\n", log.Len(), output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "divelog.xlsx", "Output file")
	return cmd
}

func printDiveLog(out io.Writer, entries []divelog.Entry, stats divelog.Stats) {
	if len(entries) == 0 {
		fmt.Fprintln(out, "No dives logged yet.")
		return
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tLOCATION\tDEPTH\tTIME\tID")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%.1fm\t%d min\t%s\n", e.Date, e.Location, e.Depth, e.Duration, e.ID)
	}
	tw.Flush()

	fmt.Fprintf(out, "\n%d dives, deepest %.1fm", stats.Dives, stats.MaxDepth)
	if stats.DeepestSite != "" {
		fmt.Fprintf(out, " at %s", stats.DeepestSite)
	}
	fmt.Fprintf(out, ", %d min underwater\n", stats.TotalMinutes)
}
