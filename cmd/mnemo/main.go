// mnemo: persistent session memory MCP server
//
// mnemo gives AI coding assistants a per-project memory that survives
// between sessions: cross-session decision records and per-session
// problem/approach trails, stored as plain JSON on disk and re-injected
// at session start and before context compaction.
//
// Usage:
//
//	mnemo serve                 # Start MCP server (stdio transport)
//	mnemo hook session-start    # SessionStart hook handler
//	mnemo hook pre-compact      # PreCompact hook handler
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mark3labs/mcp-go/server"

	"github.com/mnemo-mcp/mnemo/internal/config"
	mnemoserver "github.com/mnemo-mcp/mnemo/internal/server"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "mnemo",
		Short:         "Persistent session memory MCP server for AI coding assistants",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newServeCmd())
	root.AddCommand(newHookCmd())
	root.AddCommand(newVersionCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server (stdio transport)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			// Stdout belongs to the MCP transport; diagnostics go to stderr.
			logger := newLogger(cfg.LogLevel)
			logger.Info().
				Str("data_dir", cfg.DataDir).
				Msg("starting mnemo")

			s, err := mnemoserver.New(cfg)
			if err != nil {
				return fmt.Errorf("creating server: %w", err)
			}
			return server.ServeStdio(s)
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the mnemo version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "mnemo v%s\n", mnemoserver.Version)
		},
	}
}

// newLogger builds a stderr logger at the configured level. An
// unparseable level falls back to warn; logging config must never stop
// the program.
func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.WarnLevel
	}
	return zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger()
}
