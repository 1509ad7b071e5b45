package main

import (
	"fmt"

	"github.com/ekisa-team/napcast/internal/voice"
	"github.com/spf13/cobra"
)

func newVoicesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "voices",
		Short: "List voice presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, p := range voice.All() {
				fmt.Fprintf(out, "%d  %-20s  %.1fx  %s\n", p.ID, p.Name, p.Speed, p.Description)
			}
			return nil
		},
	}
}
