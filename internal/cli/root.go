// Package cli defines the shilavakya command tree.
package cli

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ironsheep/shilavakya/internal/config"
	"github.com/ironsheep/shilavakya/internal/imaging"
	"github.com/ironsheep/shilavakya/internal/logger"
	"github.com/ironsheep/shilavakya/internal/scriptorium"
)

// BuildInfo is stamped into the binary by ldflags.
type BuildInfo struct {
	Version   string
	BuildTime string
	GitCommit string
}

// app carries state resolved once in PersistentPreRunE.
type app struct {
	build BuildInfo
	cfg   *config.Config
}

func NewRootCmd(build BuildInfo) *cobra.Command {
	a := &app{build: build}

	cmd := &cobra.Command{
		Use:   "shilavakya",
		Short: "Enhancement and annotation tools for stone inscriptions",
		Long: `Shilavakya turns field photographs of inscribed stones into rubbing-like
line drawings and offers a few annotation helpers: a findspot map marker,
a placeholder dynasty guess for a transcription and an OCR suggestion.

The tools are available to assistants over MCP (stdio), to browsers over
HTTP, and directly from the command line.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			cfg, err := config.LoadFromEnv()
			if err != nil {
				return err
			}
			a.cfg = cfg
			logger.SetLevel(cfg.LogLevel)
			imaging.SetMaxPixels(cfg.MaxPixels)
			return nil
		},
	}

	cmd.AddCommand(
		newMCPCmd(a),
		newServeCmd(a),
		newEnhanceCmd(a),
	)

	return cmd
}

func (a *app) service() (*scriptorium.Service, error) {
	return scriptorium.NewFromConfig(a.cfg)
}
