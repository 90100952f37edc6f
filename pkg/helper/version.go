package helper

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Prints the version
func (h *Helper) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(h.Stdout, h.Version)
			return nil
		},
	}
}
