package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/dp-headlines/internal/chart"
	"github.com/pfrederiksen/dp-headlines/internal/logger"
	"github.com/pfrederiksen/dp-headlines/internal/storage"
)

func newChartCmd(st *rootState) *cobra.Command {
	var (
		flagOut   string
		flagTitle string
	)

	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Render an HTML bar chart of headlines per day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := storage.Load(st.cfg.StorePath())
			if err != nil {
				return fmt.Errorf("loading store: %w", err)
			}

			if flagOut == "-" {
				return chart.RenderHeadlineCounts(st.stdout, store.Snapshots(), flagTitle)
			}

			f, err := os.Create(flagOut)
			if err != nil {
				return fmt.Errorf("creating chart file: %w", err)
			}
			if err := chart.RenderHeadlineCounts(f, store.Snapshots(), flagTitle); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("writing chart file: %w", err)
			}

			st.log.Info("Chart written", logger.Fields{"path": flagOut, "dates": store.Len()})
			return nil
		},
	}

	cmd.Flags().StringVar(&flagOut, "out", "headlines.html", "Output HTML file, '-' for stdout")
	cmd.Flags().StringVar(&flagTitle, "title", chart.DefaultTitle, "Chart title")

	return cmd
}
