package main

import (
	"github.com/spf13/cobra"

	"github.com/cectools/cecomply/internal/app"
	"github.com/cectools/cecomply/internal/logging"
)

type testFlags struct {
	configPath  string
	adapter     string
	localLA     int
	remoteLA    int
	tags        string
	expect      []string
	interactive bool
	noColor     bool
	reportPath  string
	logFile     string
	verbose     int
}

func newTestCmd() *cobra.Command {
	flags := &testFlags{localLA: -1, remoteLA: -1}

	cmd := &cobra.Command{
		Use:   "test",
		Short: "Run the conformance suite against a remote device",
		Long: `Run the conformance catalogue against one remote logical address.

The run starts by polling every logical address, then probes the target
device (physical address, CEC version, vendor ID, features) and wakes it
if it is in standby. Every selected subtest then runs in catalogue
order. The command exits nonzero when any subtest fails.

Options come from a YAML suite config, command-line flags, or both;
flags win. Without --config the built-in defaults are used: the loopback
adapter, local address 4 and remote address 1.`,
		Example: `  # Self-test the harness over the loopback adapter
  cecomply test

  # Test the TV from Playback 1 using a real adapter
  cecomply test --adapter cec0 --from 4 --la 0

  # Only the deck control and tuner control groups
  cecomply test --la 0 --tags deck-control,tuner-control

  # Pin an outcome and run interactively
  cecomply test --la 5 --interactive --expect "Give Audio Status=OK,no-warnings"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if handleHelpArg(cmd, args) {
				return nil
			}
			return runTest(flags)
		},
	}

	cmd.Flags().StringVar(&flags.configPath, "config", "", "Suite config YAML file")
	cmd.Flags().StringVar(&flags.adapter, "adapter", "", "Bus adapter, \"name\" or \"name:spec\" (default loopback)")
	cmd.Flags().IntVar(&flags.localLA, "from", -1, "Local logical address 0-14")
	cmd.Flags().IntVar(&flags.remoteLA, "la", -1, "Remote logical address 0-14 to test")
	cmd.Flags().StringVar(&flags.tags, "tags", "", "Comma-separated feature tags to run (default all)")
	cmd.Flags().StringArrayVar(&flags.expect, "expect", nil, "Pin a subtest outcome: \"Name=Outcome[,no-warnings]\" (repeatable)")
	cmd.Flags().BoolVar(&flags.interactive, "interactive", false, "Ask the operator to verify on-device behavior")
	cmd.Flags().BoolVar(&flags.noColor, "no-color", false, "Disable colored outcome output")
	cmd.Flags().StringVar(&flags.reportPath, "report", "", "Write a JSON run report to this path")
	cmd.Flags().StringVar(&flags.logFile, "log-file", "", "Write a bus trace log to this path")
	cmd.Flags().CountVarP(&flags.verbose, "verbose", "v", "Increase log verbosity (-v info, -vv verbose, -vvv debug)")

	return cmd
}

func runTest(flags *testFlags) error {
	level := logging.LogLevelError
	switch {
	case flags.verbose >= 3:
		level = logging.LogLevelDebug
	case flags.verbose == 2:
		level = logging.LogLevelVerbose
	case flags.verbose == 1:
		level = logging.LogLevelInfo
	}

	return app.RunSuite(app.SuiteOptions{
		ConfigPath:  flags.configPath,
		Adapter:     flags.adapter,
		LocalLA:     flags.localLA,
		RemoteLA:    flags.remoteLA,
		Tags:        flags.tags,
		Expect:      flags.expect,
		Interactive: flags.interactive,
		NoColor:     flags.noColor,
		ReportPath:  flags.reportPath,
		LogFile:     flags.logFile,
		LogLevel:    level,
		Version:     version,
	})
}
