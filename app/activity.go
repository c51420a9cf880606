package app

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/adminconsole/admin-console/internal/activity"
	"github.com/adminconsole/admin-console/internal/daemon"
	dbactivity "github.com/adminconsole/admin-console/internal/db/controller/activity"
)

func init() { //nolint: gochecknoinits
	now := time.Now()

	activityExportCmd.Flags().IntVar(&exportYear, "year", now.Year(), "year of the exported entries, 0 for all")
	activityExportCmd.Flags().IntVar(&exportMonth, "month", int(now.Month()), "month of the exported entries")
	activityExportCmd.Flags().StringVar(&exportSearch, "search", "", "only entries matching this text")
	activityExportCmd.Flags().StringVar(&exportAction, "action", activity.ActionAll, "only entries of this action type")
	activityExportCmd.Flags().IntVar(&exportLimit, "limit", activity.DefaultListLimit, "number of newest entries considered")
	activityExportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file, - for stdout (default activity-log-<year>-<month>.csv)")

	activityCmd.AddCommand(activityExportCmd)
	rootCmd.AddCommand(activityCmd)
}

var (
	exportYear   int
	exportMonth  int
	exportSearch string
	exportAction string
	exportLimit  int
	exportOut    string

	activityCmd = &cobra.Command{
		Use:   "activity",
		Short: "Work with the activity log",
	}

	activityExportCmd = &cobra.Command{
		Use:   "export",
		Short: "Export activity log entries as CSV",
		Args:  cobra.NoArgs,
		PreRunE: func(_ *cobra.Command, _ []string) error {
			return loadConfig()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := daemon.OpenDB(&cfg)
			if err != nil {
				return err
			}

			f := activity.Filter{Year: exportYear, Month: exportMonth, Search: exportSearch, ActionType: exportAction}

			entries, err := activity.Browse(cmd.Context(), dbactivity.NewRepository(db), f, exportLimit)
			if err != nil {
				return err
			}

			var w io.Writer = cmd.OutOrStdout()

			if exportOut != "-" {
				name := exportOut
				if name == "" {
					name = activity.FileName(exportYear, exportMonth)
				}

				file, err := os.Create(name) //nolint:gosec // path chosen by the operator
				if err != nil {
					return err
				}
				defer file.Close()

				w = file

				log.Info().Str("file", name).Int("entries", len(entries)).Msg("exporting activity")
			}

			return activity.ExportCSV(w, entries, nil)
		},
	}
)
