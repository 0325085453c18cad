package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/dkeye/Hearth/internal/store/fs"
	"github.com/spf13/cobra"
)

func newRoomsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rooms",
		Short: "List the rooms persisted in the rooms directory",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			st, err := fs.New(cfg.RoomsDir, cfg.BackgroundFile)
			if err != nil {
				return err
			}
			records, err := st.LoadAll()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			_, _ = fmt.Fprintln(w, "SAFE NAME\tDISPLAY NAME\tBACKGROUND")
			for _, rec := range records {
				_, hasBackground := st.BackgroundAssetPath(rec.SafeName)
				_, _ = fmt.Fprintf(w, "%s\t%s\t%t\n", rec.SafeName, rec.DisplayName, hasBackground)
			}
			return w.Flush()
		},
	}
}
