// Package cli implements the hardcopy command-line interface.
//
// Commands:
//   - render: convert an HTML file or stdin to PDF or PNG
//   - resolve: print the renderer binary that would be used
//   - serve: serve templates as PDF and PNG over HTTP
//
// Configuration is read from --config (TOML) and then from HARDCOPY_*
// environment variables. --verbose enables debug logging.
package cli

import (
	"context"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-hardcopy/config"
)

var version = "dev"

// SetVersion sets the version reported by --version.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the hardcopy CLI.
func Execute(ctx context.Context) error {
	return newRootCmd(defaultDeps()).ExecuteContext(ctx)
}

// deps are the process-level collaborators the commands use.
type deps struct {
	lookupEnv func(string) (string, bool)
	newEngine engineFactory
}

func defaultDeps() deps {
	return deps{lookupEnv: os.LookupEnv, newEngine: newEngine}
}

func newRootCmd(d deps) *cobra.Command {
	var (
		verbose    bool
		configPath string
	)

	root := &cobra.Command{
		Use:          "hardcopy",
		Short:        "Render HTML to PDF or PNG with headless Chrome",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			logger := newLogger(cmd.ErrOrStderr(), level)

			cfg, err := loadConfig(configPath, d.lookupEnv)
			if err != nil {
				return err
			}
			if configPath != "" {
				logger.Debug("loaded config", "path", configPath)
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(withConfig(withLogger(ctx, logger), cfg))
			return nil
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "TOML config file")

	root.AddCommand(newRenderCmd(d))
	root.AddCommand(newResolveCmd())
	root.AddCommand(newServeCmd(d))

	return root
}

func loadConfig(path string, lookup func(string) (string, bool)) (config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	if err := cfg.ApplyEnv(lookup); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
