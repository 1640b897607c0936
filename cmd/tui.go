package cmd

import (
	"github.com/spf13/cobra"

	"github.com/moyu-x/declutter/internal"
	"github.com/moyu-x/declutter/tui"
)

func newTUICmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tui [root]",
		Short: "Pick the directory and options interactively, then run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, flags, args)
			if err != nil {
				return err
			}
			opts, err := buildOptions(cfg)
			if err != nil {
				return err
			}
			return tui.Run(cmd.Context(), opts)
		},
	}

	addCommonFlags(cmd)
	f := cmd.Flags()
	f.Bool("organize", true, "move top-level files into folders by extension")
	f.IntP("days", "d", internal.DefaultDaysOld, "files not modified for this many days are old")
	return cmd
}
