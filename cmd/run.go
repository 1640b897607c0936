package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/moyu-x/declutter/internal"
	"github.com/moyu-x/declutter/internal/app"
	"github.com/moyu-x/declutter/pkg/classifier"
	"github.com/moyu-x/declutter/tui"
)

func newRunCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [root]",
		Short: "Run every cleanup phase on a directory",
		Long: `Run every cleanup phase on a directory:
1. remove empty folders
2. move files older than --days to the trash
3. move duplicate files to the trash, keeping the first copy found
4. move top-level files into folders named by extension (unless --organize=false)`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return execute(cmd, flags, args, nil)
		},
	}

	addCommonFlags(cmd)
	f := cmd.Flags()
	f.Bool("organize", true, "move top-level files into folders by extension")
	f.IntP("days", "d", internal.DefaultDaysOld, "files not modified for this many days are old")
	f.String("on-conflict", string(classifier.ConflictSkip), "when the organized file already exists: skip or rename")
	f.Bool("detect-type", false, "detect the type of extensionless files from their content")

	return cmd
}

// execute 读取配置、运行选择的阶段并打印统计
func execute(cmd *cobra.Command, flags *globalFlags, args []string, phases []internal.Phase) error {
	cfg, err := loadConfig(cmd, flags, args)
	if err != nil {
		return err
	}
	opts, err := buildOptions(cfg)
	if err != nil {
		return err
	}
	opts.Phases = phases
	opts.Console = cmd.OutOrStdout()

	summary, err := app.Run(cmd.Context(), opts)
	if summary != nil {
		fmt.Fprintln(cmd.OutOrStdout(), tui.RenderSummary(summary, opts.LogFile))
	}
	return err
}
