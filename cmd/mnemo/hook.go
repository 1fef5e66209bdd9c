package main

import (
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mnemo-mcp/mnemo/internal/config"
	"github.com/mnemo-mcp/mnemo/internal/hooks"
	"github.com/mnemo-mcp/mnemo/internal/memory"
)

// newHookCmd creates the hook parent command. Hook handlers are called by
// the host's hook system, not by users, so the whole subtree is hidden
// from help output.
func newHookCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:    "hook",
		Short:  "Lifecycle hook handlers (internal)",
		Hidden: true,
	}

	cmd.AddCommand(newHookRunCmd("session-start",
		"SessionStart hook — registers the session and injects decision history",
		hooks.SessionStart))
	cmd.AddCommand(newHookRunCmd("pre-compact",
		"PreCompact hook — injects a memory digest before history is discarded",
		hooks.PreCompact))
	return cmd
}

// hookFunc is the shared shape of the two hook pipelines.
type hookFunc func(r io.Reader, w io.Writer, cfg memory.Config, log zerolog.Logger) error

// newHookRunCmd wraps one hook pipeline as a cobra command. Hooks always
// exit zero: any trouble is logged to stderr and swallowed so the host
// process is never blocked or failed by its memory.
func newHookRunCmd(use, short string, run hookFunc) *cobra.Command {
	return &cobra.Command{
		Use:           use,
		Short:         short,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				cfg = config.Config{}
			}
			memCfg := memory.Config{DataDir: cfg.DataDir}
			if memCfg.DataDir == "" {
				memCfg = memory.DefaultConfig()
			}

			log := newLogger(cfg.LogLevel)
			_ = run(cmd.InOrStdin(), cmd.OutOrStdout(), memCfg, log)
			return nil
		},
	}
}
