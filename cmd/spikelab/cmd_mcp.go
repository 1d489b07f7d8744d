package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/neurokit/spikelab/internal/mcp"
	"github.com/neurokit/spikelab/internal/store"
)

func newMCPServerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp-server",
		Short: "Run the MCP server over stdio",
		Long: `Expose the simulator and diagnostic evaluator as MCP tools for AI
agents. The server communicates over stdin/stdout and blocks until
the client disconnects.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, cfg, caseStore, err := loadEnv(cmd)
			if err != nil {
				return err
			}

			var runStore store.RunStore
			if cfg.Archive.Enabled {
				rs, err := store.NewSQLiteRunStore(root)
				if err != nil {
					return fmt.Errorf("opening run archive: %w", err)
				}
				runStore = rs
			}

			srv, err := mcp.NewServer(&mcp.Config{
				Name:    "spikelab",
				Version: version,
				Cases:   caseStore,
				Runs:    runStore,
				Steps:   cfg.Simulation.Steps,
			})
			if err != nil {
				return fmt.Errorf("creating MCP server: %w", err)
			}

			return srv.Run(cmd.Context())
		},
	}
}
