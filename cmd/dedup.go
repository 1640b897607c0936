package cmd

import (
	"github.com/spf13/cobra"

	"github.com/moyu-x/declutter/internal"
)

func newDedupCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dedup [root]",
		Short: "Only move duplicate files to the trash",
		Long: `Hash every file under the root and move duplicates to the trash.
The first copy found in directory order is kept. With --top-level only the files
directly inside the root are compared.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(cmd, flags, args, []internal.Phase{internal.PhaseRemoveDuplicates})
		},
	}

	addCommonFlags(cmd)
	return cmd
}
