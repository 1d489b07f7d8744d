package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/neurokit/spikelab/internal/visualization"
)

func newViewerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "viewer",
		Short: "Open the interactive trace viewer in a browser",
		Long: `Start a local HTTP server with an interactive voltage trace viewer
and open it in the default browser. The server runs until interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, cfg, caseStore, err := loadEnv(cmd)
			if err != nil {
				return err
			}

			noBrowser, _ := cmd.Flags().GetBool("no-browser")

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
			go func() {
				<-sigChan
				cancel()
			}()

			srv := visualization.NewServer(caseStore, cfg.Simulation.Steps)
			srv.SetLogger(slog.Default())

			go func() {
				// Wait for the listener before announcing the URL.
				for srv.Addr() == "" {
					select {
					case <-ctx.Done():
						return
					case <-time.After(10 * time.Millisecond):
					}
				}
				url := "http://" + srv.Addr()
				fmt.Fprintf(cmd.OutOrStdout(), "Trace viewer running at %s (Ctrl-C to stop)\n", url)
				if !noBrowser {
					visualization.OpenBrowser(url)
				}
			}()

			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().Bool("no-browser", false, "Do not open the browser automatically")

	return cmd
}
