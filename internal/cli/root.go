// Package cli implements the blockdrop command line.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dshills/blockdrop/internal/config"
	"github.com/dshills/blockdrop/internal/observability"
)

// Version is set at build time.
var Version = "dev"

// globals holds the persistent flags and the configuration they resolve to.
type globals struct {
	configPath string
	logLevel   string
	cfg        *config.Config
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	g := &globals{}
	root := &cobra.Command{
		Use:           "blockdrop",
		Short:         "Structural drag-and-drop engine for page/canvas block documents",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return g.init()
		},
	}
	root.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "config file (.toml, .yaml)")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "override logging.level")
	root.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	root.AddCommand(newReplayCmd(g))
	root.AddCommand(newInspectCmd(g))
	return root
}

// init loads configuration and starts logging.
func (g *globals) init() error {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if g.logLevel != "" {
		cfg.Logging.Level = g.logLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	g.cfg = cfg
	observability.InitializeLogger(cfg.Logging)
	observability.GetLogger().Debug("configuration loaded", zap.String("path", g.configPath))
	return nil
}

// Execute runs the root command and returns the process exit code.
func Execute(ctx context.Context) int {
	defer observability.Sync()
	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		observability.GetLogger().Error("command failed", zap.Error(err))
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}
