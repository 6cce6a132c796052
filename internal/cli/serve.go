package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/dp-headlines/internal/api"
	"github.com/pfrederiksen/dp-headlines/internal/logger"
)

func newServeCmd(st *rootState) *cobra.Command {
	var flagAddr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the headline history read-only over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			addr := st.cfg.ListenAddr
			if flagAddr != "" {
				addr = flagAddr
			}

			httpServer := &http.Server{
				Addr:              addr,
				Handler:           api.New(st.cfg.StorePath(), st.log).Router(),
				ReadHeaderTimeout: 5 * time.Second,
				ReadTimeout:       10 * time.Second,
				WriteTimeout:      35 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				st.log.Info("API server starting", logger.Fields{"addr": addr, "store": st.cfg.StorePath()})
				if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err, ok := <-errCh:
				if ok {
					return err
				}
				return nil
			case <-ctx.Done():
			}

			st.log.Info("Shutdown signal received", nil)
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return httpServer.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&flagAddr, "addr", "", "Listen address (env DP_LISTEN_ADDR)")

	return cmd
}
