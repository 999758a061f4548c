package cli

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ironsheep/shilavakya/internal/logger"
	"github.com/ironsheep/shilavakya/internal/server"
)

func newMCPCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the tools over MCP on stdin/stdout",
		Long: `Runs a Model Context Protocol server that reads JSON-RPC requests from
stdin and writes responses to stdout. Logs go to stderr.

Configure it in your MCP client with the command "shilavakya mcp".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}

			logger.WithFields(logrus.Fields{
				"version":    a.build.Version,
				"build_time": a.build.BuildTime,
				"commit":     a.build.GitCommit,
				"backend":    a.cfg.Backend,
			}).Debug("starting MCP server")

			srv := server.New(svc, server.Options{
				MaxUploadBytes: a.cfg.MaxUploadBytes,
				RequestTimeout: a.cfg.RequestTimeout,
				Version:        a.build.Version,
			})
			return srv.Run(cmd.Context())
		},
	}
}
