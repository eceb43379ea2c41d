package cli

import (
	"github.com/spf13/cobra"
)

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the winner similarity store from persisted metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().Rebuild(cmd.Context())
	},
}
