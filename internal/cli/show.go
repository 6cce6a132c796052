package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/dp-headlines/internal/headline"
	"github.com/pfrederiksen/dp-headlines/internal/storage"
)

func newShowCmd(st *rootState) *cobra.Command {
	var (
		flagFormat string
		flagSort   string
	)

	cmd := &cobra.Command{
		Use:   "show [date]",
		Short: "Print recorded headlines, for every day or for one YYYY-MM-DD date",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format := OutputFormat(strings.ToLower(flagFormat))
			if format != FormatText && format != FormatJSON {
				return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", flagFormat)
			}
			order, err := parseSortOrder(strings.ToLower(flagSort))
			if err != nil {
				return err
			}

			store, err := storage.Load(st.cfg.StorePath())
			if err != nil {
				return fmt.Errorf("loading store: %w", err)
			}

			var snaps []*headline.Snapshot
			if len(args) == 1 {
				snap, ok := store.Get(args[0])
				if !ok {
					return fmt.Errorf("no headlines recorded for %s", args[0])
				}
				snaps = []*headline.Snapshot{snap}
			} else {
				snaps = store.Snapshots()
				sortSnapshots(snaps, order)
			}

			return WriteOutput(st.stdout, NewOutputResult(store.Path(), snaps), format, st.flagVerbose)
		},
	}

	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
	cmd.Flags().StringVar(&flagSort, "sort", "file", "Sort order: file, date, date-desc or count")

	return cmd
}
