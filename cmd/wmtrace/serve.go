package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tuusuario/wm-trace-snapshots/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server over stdio",
	Long: `serve exposes the trace tooling as MCP tools over stdio so an
agent can capture, inspect and diff traces. All logging goes to stderr;
stdout is reserved for the protocol.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup()
		if err != nil {
			return err
		}
		defer a.close()

		a.log.Info("starting MCP server",
			zap.String("db", a.cfg.DBPath),
			zap.String("collector", a.collector.Name()))

		return server.NewMCPServer(a.manager).Start()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
