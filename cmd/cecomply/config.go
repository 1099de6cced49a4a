package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cectools/cecomply/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Suite configuration operations",
	}

	cmd.AddCommand(newConfigInitCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	path := "suite.yaml"

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default suite config",
		Long: `Write a default suite configuration file. The defaults drive the
loopback adapter from Playback 1 (address 4) against Recording 1
(address 1), the self-test setup.`,
		Example: `  cecomply config init
  cecomply config init --path mytv.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists", path)
			}
			if err := config.WriteDefaultSuiteConfig(path); err != nil {
				return err
			}
			fmt.Fprintf(os.Stdout, "Wrote %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "path", path, "Where to write the config file")

	return cmd
}
