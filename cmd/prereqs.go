package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zhubert/plural-orchestrator/internal/cli"
)

var prereqsCmd = &cobra.Command{
	Use:   "prereqs",
	Short: "Check CLI prerequisites and exit",
	Long: `Checks whether git, gh, and the supported agent CLIs are on PATH
and reports which required tools are missing.`,
	RunE: runPrereqs,
}

func runPrereqs(cmd *cobra.Command, args []string) error {
	results := cli.CheckAll(cli.DefaultPrerequisites())
	fmt.Fprint(cmd.OutOrStdout(), cli.FormatCheckResults(results))
	return nil
}
