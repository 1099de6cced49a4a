package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/cectools/cecomply/internal/cec"
	"github.com/cectools/cecomply/internal/cec/client"
	"github.com/cectools/cecomply/internal/cec/transport"
	"github.com/cectools/cecomply/internal/config"
	"github.com/cectools/cecomply/internal/conformance"
	"github.com/cectools/cecomply/internal/errors"
	"github.com/cectools/cecomply/internal/logging"
	"github.com/cectools/cecomply/internal/report"
	"github.com/cectools/cecomply/internal/ui"
)

type SuiteOptions struct {
	ConfigPath  string
	Adapter     string // overrides the config adapter when set
	LocalLA     int    // -1 means take it from the config
	RemoteLA    int    // -1 means take it from the config
	Tags        string
	Expect      []string // Name=Outcome[,no-warnings]
	Interactive bool
	NoColor     bool
	ReportPath  string // write a JSON run report here when set
	LogFile     string
	LogLevel    logging.LogLevel
	Version     string
}

// RunSuite executes the conformance catalogue against one remote
// logical address. A non-nil error either describes a harness problem
// or, after a completed run, the number of failed subtests.
func RunSuite(opts SuiteOptions) error {
	cfg, err := loadSuiteConfig(opts)
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger(opts.LogLevel, opts.LogFile)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Close()
	logger.LogStartup(cfg.AdapterSpec(), cfg.LocalLA, cfg.RemoteLA,
		strings.Join(cfg.Tags, ","), opts.ConfigPath)

	if cfg.ReplyTimeoutMs > 0 {
		client.DefaultTimeout = time.Duration(cfg.ReplyTimeoutMs) * time.Millisecond
	}

	bus, err := transport.Open(cfg.AdapterSpec())
	if err != nil {
		return errors.WrapAdapterError(err, cfg.AdapterSpec())
	}

	n := conformance.NewNode(transport.NewTrace(bus, logger), os.Stdout, ui.NewOperatorPrompter(os.Stdout))
	if cfg.WakeTimeoutMs > 0 {
		n.Client.WakeTimeout = time.Duration(cfg.WakeTimeoutMs) * time.Millisecond
	}

	me := cec.LogicalAddr(cfg.LocalLA)
	la := cec.LogicalAddr(cfg.RemoteLA)

	if err := n.Discover(me); err != nil {
		return errors.WrapBusError(err, "discover")
	}
	if n.RemoteMask&la.Mask() == 0 {
		return fmt.Errorf("logical address %d did not answer a polling message", la)
	}
	printDevice(n, la)

	ready, err := n.Prepare(me, la, cfg.Interactive)
	if err != nil {
		return errors.WrapBusError(err, "prepare")
	}
	if !ready {
		return fmt.Errorf("logical address %d could not be brought out of standby", la)
	}

	dispOpts, err := dispatcherOptions(cfg, opts)
	if err != nil {
		return err
	}
	disp, err := conformance.NewDispatcher(conformance.Catalogue(), dispOpts)
	if err != nil {
		return err
	}

	results, err := disp.Run(n, me, la)
	if err != nil {
		return errors.WrapBusError(err, "test")
	}

	rep := buildReport(cfg, opts, results)
	report.WriteFailures(os.Stdout, rep)
	report.WriteSummary(os.Stdout, rep)
	if opts.ReportPath != "" {
		if err := report.WriteJSONFile(opts.ReportPath, rep); err != nil {
			return err
		}
	}

	if failed := rep.Totals().Failed; failed > 0 {
		return fmt.Errorf("%d of %d subtests failed", failed, rep.Totals().Run)
	}
	return nil
}

func loadSuiteConfig(opts SuiteOptions) (*config.SuiteConfig, error) {
	var cfg *config.SuiteConfig
	if opts.ConfigPath != "" {
		loaded, err := config.LoadSuiteConfig(opts.ConfigPath, false)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = config.CreateDefaultSuiteConfig()
	}

	if opts.Adapter != "" {
		name, spec, _ := strings.Cut(opts.Adapter, ":")
		cfg.Adapter = config.AdapterConfig{Name: name, Spec: spec}
	}
	if opts.LocalLA >= 0 {
		cfg.LocalLA = opts.LocalLA
	}
	if opts.RemoteLA >= 0 {
		cfg.RemoteLA = opts.RemoteLA
	}
	if opts.Tags != "" {
		cfg.Tags = strings.Split(opts.Tags, ",")
	}
	if opts.Interactive {
		cfg.Interactive = true
	}
	if err := config.ValidateSuiteConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func dispatcherOptions(cfg *config.SuiteConfig, opts SuiteOptions) (conformance.Options, error) {
	tags, err := conformance.ParseTags(strings.Join(cfg.Tags, ","))
	if err != nil {
		return conformance.Options{}, err
	}

	expect := make(map[string]conformance.Expectation)
	for _, e := range cfg.Expectations {
		out, ok := conformance.ParseOutcome(e.Outcome)
		if !ok {
			return conformance.Options{}, fmt.Errorf("expectation for %q: unknown outcome %q", e.Subtest, e.Outcome)
		}
		expect[e.Subtest] = conformance.Expectation{Outcome: out, NoWarnings: e.NoWarnings}
	}
	// Command-line expectations override config ones.
	for _, s := range opts.Expect {
		name, exp, err := conformance.ParseExpectation(s)
		if err != nil {
			return conformance.Options{}, err
		}
		expect[name] = exp
	}

	render := func(o conformance.Outcome) string { return report.Colorize(o.String()) }
	if opts.NoColor {
		render = nil
	}
	return conformance.Options{
		Tags:        tags,
		Expect:      expect,
		Interactive: cfg.Interactive,
		Render:      render,
	}, nil
}

func buildReport(cfg *config.SuiteConfig, opts SuiteOptions, results []conformance.SubtestResult) *report.RunReport {
	rep := &report.RunReport{
		GeneratedAt: report.FormatTimestamp(),
		Version:     opts.Version,
		Adapter:     cfg.AdapterSpec(),
		LocalLA:     cfg.LocalLA,
		RemoteLA:    cfg.RemoteLA,
	}
	for _, r := range results {
		rep.Results = append(rep.Results, report.SubtestResult{
			Feature:  r.Feature,
			Subtest:  r.Name,
			Outcome:  r.Outcome.String(),
			Warnings: r.Warnings,
		})
	}
	return rep
}

func printDevice(n *conformance.Node, la cec.LogicalAddr) {
	dev := n.Dev(la)
	fmt.Fprintf(os.Stdout, "Testing device %d (%s):\n", la, la)
	fmt.Fprintf(os.Stdout, "\tPhysical address: %s\n", dev.PhysAddr)
	fmt.Fprintf(os.Stdout, "\tCEC version: %s\n", dev.CECVersion)
	if dev.OSDName != "" {
		fmt.Fprintf(os.Stdout, "\tOSD name: %s\n", dev.OSDName)
	}
	if dev.VendorID != conformance.VendorIDUnknown {
		fmt.Fprintf(os.Stdout, "\tVendor ID: 0x%06x\n", dev.VendorID)
	}
	fmt.Fprintln(os.Stdout)
}
