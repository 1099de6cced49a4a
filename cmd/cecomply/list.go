package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/cectools/cecomply/internal/app"
)

type listFlags struct {
	tags bool
}

func newListCmd() *cobra.Command {
	flags := &listFlags{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalogued features and subtests",
		Long: `List every feature group in the conformance catalogue with its tag
names and subtests. Subtest names are the ones --expect and the suite
config refer to.`,
		Example: `  cecomply list
  cecomply list --tags`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.tags {
				return app.RunListTags(os.Stdout)
			}
			return app.RunList(os.Stdout)
		},
	}

	cmd.Flags().BoolVar(&flags.tags, "tags", false, "List only the known tag names")

	return cmd
}
