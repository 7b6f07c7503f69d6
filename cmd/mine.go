package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/naka-gawa/issue-tenure/internal/config"
	"github.com/naka-gawa/issue-tenure/internal/domain"
	"github.com/naka-gawa/issue-tenure/internal/gateway"
	"github.com/naka-gawa/issue-tenure/internal/logging"
	"github.com/naka-gawa/issue-tenure/internal/projects"
	"github.com/naka-gawa/issue-tenure/internal/report"
	"github.com/naka-gawa/issue-tenure/internal/usecase"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// mineOptions holds the command-line options of the mining run.
type mineOptions struct {
	input      string
	output     string
	maxIssues  int
	maxDate    string
	verbose    bool
	configPath string
	api        string
	baseURL    string
	format     string
	workers    int
	rps        float64
	progress   bool
}

func addMineFlags(cmd *cobra.Command, opts *mineOptions) {
	flags := cmd.Flags()
	flags.StringVarP(&opts.input, "input", "i", "-", "Input filename, '-' or skip for stdin")
	flags.StringVarP(&opts.output, "output", "o", "-", "Output filename, '-' or skip for stdout")
	flags.IntVarP(&opts.maxIssues, "max-issues", "n", 0, "Max number of issues kept per reporter, not limited by default")
	flags.StringVar(&opts.maxDate, "max-date", "", "Ignore issues reported at or after this date (YYYY-MM-DD or RFC 3339)")
	flags.StringVar(&opts.configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/issue-tenure/config.yaml)")
	flags.StringVar(&opts.api, "api", "", "GitHub API to use: rest or graphql (default rest)")
	flags.StringVar(&opts.baseURL, "base-url", "", "GitHub Enterprise base URL")
	flags.StringVar(&opts.format, "format", "", "Output format: csv or xlsx (default csv)")
	flags.IntVar(&opts.workers, "workers", 0, "Number of projects fetched concurrently (default 1)")
	flags.Float64Var(&opts.rps, "rps", 0, "Max GitHub requests per second, unlimited by default")
	flags.BoolVar(&opts.progress, "progress", false, "Show a progress bar when stderr is a terminal")
}

// loadConfig merges the config file with the flags that were set explicitly.
func loadConfig(cmd *cobra.Command, opts *mineOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("api") {
		cfg.API = opts.api
	}
	if flags.Changed("base-url") {
		cfg.BaseURL = opts.baseURL
	}
	if flags.Changed("format") {
		cfg.Format = opts.format
	}
	if flags.Changed("workers") {
		cfg.Workers = opts.workers
	}
	if flags.Changed("rps") {
		cfg.RequestsPerSecond = opts.rps
	}
	return cfg, cfg.Validate()
}

// aggregateOptions validates the selection flags before anything is fetched.
func aggregateOptions(cmd *cobra.Command, opts *mineOptions, cfg *config.Config) (usecase.Options, error) {
	aggOpts := usecase.Options{Workers: cfg.Workers}
	if cmd.Flags().Changed("max-issues") {
		n := opts.maxIssues
		aggOpts.MaxIssues = &n
	}
	if opts.maxDate != "" {
		maxDate, err := usecase.ParseTimestamp(opts.maxDate)
		if err != nil {
			return usecase.Options{}, domain.NewConfigurationError("invalid --max-date %q, expected YYYY-MM-DD or RFC 3339", opts.maxDate)
		}
		aggOpts.MaxDate = &maxDate
	}
	return aggOpts, aggOpts.Validate()
}

func runMine(cmd *cobra.Command, opts *mineOptions) error {
	ctx := cmd.Context()
	stderr := cmd.ErrOrStderr()

	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}
	aggOpts, err := aggregateOptions(cmd, opts, cfg)
	if err != nil {
		return err
	}
	writer, err := report.NewWriter(cfg.Format)
	if err != nil {
		return err
	}

	logger := logging.New(stderr, opts.verbose)
	defer logger.Sync() //nolint:errcheck

	refs, err := readProjects(cmd, opts.input)
	if err != nil {
		return err
	}

	// Inject dependencies and run the main business logic.
	httpClient, err := gateway.NewHTTPClient(cfg.Token, cfg.RequestsPerSecond, logger)
	if err != nil {
		return err
	}
	fetcher, err := gateway.New(cfg.API, httpClient, cfg.BaseURL, logger)
	if err != nil {
		return err
	}
	aggregator := usecase.NewAggregator(fetcher, logger)

	if opts.progress && isTerminal(stderr) {
		bar := progressbar.NewOptions(len(refs),
			progressbar.OptionSetWriter(stderr),
			progressbar.OptionSetDescription("Mining issues"),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionThrottle(100*time.Millisecond),
			progressbar.OptionClearOnFinish(),
		)
		defer bar.Finish() //nolint:errcheck
		aggOpts.OnProjectDone = func(domain.ProjectRef) { _ = bar.Add(1) }
	}

	results, err := aggregator.Aggregate(ctx, refs, aggOpts)
	if err != nil {
		return err
	}

	rows := report.Concat(refs, results)
	return report.WriteDestination(opts.output, cmd.OutOrStdout(), writer, rows)
}

func readProjects(cmd *cobra.Command, input string) ([]domain.ProjectRef, error) {
	if input == "-" {
		return projects.Load(cmd.InOrStdin())
	}
	f, err := os.Open(input)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	defer f.Close()
	return projects.Load(f)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
