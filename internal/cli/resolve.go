package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-hardcopy/hardcopy"
)

func newResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve",
		Short: "Print the renderer binary and default window size",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configFromContext(cmd.Context())
			opts, err := cfg.ResolveOptions()
			if err != nil {
				return err
			}
			rc, err := hardcopy.Resolve(opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "binary: %s\nwindow-size: %s\n", rc.BinaryPath, rc.WindowSize)
			return nil
		},
	}
}
