package app

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/adminconsole/admin-console/internal/daemon"
	"github.com/adminconsole/admin-console/internal/db/controller/setting"
	"github.com/adminconsole/admin-console/internal/settings"
)

func init() { //nolint: gochecknoinits
	settingsCmd.AddCommand(settingsShowCmd)
	rootCmd.AddCommand(settingsCmd)
}

var (
	settingsCmd = &cobra.Command{
		Use:   "settings",
		Short: "Inspect stored settings",
	}

	settingsShowCmd = &cobra.Command{
		Use:       "show <group>",
		Short:     "Print the effective settings of a group (stored values merged onto the defaults)",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{settings.GroupTheme, settings.GroupDisplay, settings.GroupSystem},
		PreRunE: func(_ *cobra.Command, _ []string) error {
			return loadConfig()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := daemon.Registry(&cfg)
			if err != nil {
				return err
			}

			group, err := registry.LookupGroup(args[0])
			if err != nil {
				return err
			}

			db, err := daemon.OpenDB(&cfg)
			if err != nil {
				return err
			}

			working, _, err := settings.NewReconciler(setting.NewRepository(db), registry).
				LoadState(cmd.Context(), group.Domains...)
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(map[string]any{
				"group":    group.Name,
				"strategy": group.Strategy,
				"settings": working.Plain(),
			}, "", "  ")
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))

			return err
		},
	}
)
