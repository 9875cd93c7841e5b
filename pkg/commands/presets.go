package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"TopLog/pkg/config"
)

// NewPresetsCmd creates the presets subcommand.
func NewPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets [name]",
		Short: "List process presets",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			names := config.PresetNames()
			if len(args) == 1 {
				names = args
			}
			for _, name := range names {
				procs, ok := config.Preset(name)
				if !ok {
					return fmt.Errorf("unknown preset '%s'", name)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s (%d): %s\n", name, len(procs), strings.Join(procs, " "))
			}
			return nil
		},
	}
}
