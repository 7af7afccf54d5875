package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bananos/webcrawl/internal/config"
	"github.com/bananos/webcrawl/internal/crawler"
	"github.com/bananos/webcrawl/internal/log"
	"github.com/bananos/webcrawl/internal/model"
	"github.com/bananos/webcrawl/internal/report"
	"github.com/bananos/webcrawl/internal/sink"
)

// NewRootCmd creates the root command for webcrawl.
func NewRootCmd() *cobra.Command {
	v, _, _ := buildDetails()

	cmd := &cobra.Command{
		Use:   "webcrawl [url]",
		Short: "Bounded-depth single-domain web crawler",
		Long: `webcrawl crawls a website starting from the given seed URL, following
links up to a configurable depth while staying within the seed's domain.

Every attempted URL is recorded: valid URLs (with their depth) go to one CSV
file, invalid URLs (with the reason: ExternalDomain, DownloadError or
ParseError) go to another, and images whose content is byte-identical across
multiple URLs are listed in a duplicate-image report.

Per-URL failures are data, not errors: the run exits 0 even when individual
URLs fail. Only an initialization failure (unwritable output file, invalid
configuration) exits non-zero.

Examples:
  # Crawl with defaults (depth 2, one worker per CPU)
  webcrawl http://example.test/

  # Deeper crawl with custom output paths
  webcrawl --depth 3 --visited v.csv --invalid i.csv --dupimgs d.csv http://example.test/

  # Machine-readable run summary
  webcrawl --json http://example.test/`,
		Args:          cobra.ExactArgs(1),
		RunE:          runRootCmd,
		Version:       v,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Output files
	cmd.Flags().String("visited", config.DefaultValidFile, "CSV file for valid (visited) URLs")
	cmd.Flags().String("invalid", config.DefaultInvalidFile, "CSV file for invalid URLs")
	cmd.Flags().String("dupimgs", config.DefaultDupImagesFile, "CSV file for duplicate-image report")

	// Crawl behavior
	cmd.Flags().IntP("depth", "d", config.DefaultMaxDepth, "Maximum link depth from the seed URL")
	cmd.Flags().IntP("workers", "w", config.DefaultWorkers(), "Worker pool size")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout, "Per-request fetch timeout")
	cmd.Flags().String("user-agent", config.DefaultUserAgent, "User-Agent header for requests")
	cmd.Flags().Int64("max-body-size", config.DefaultMaxBodySize, "Maximum response body size in bytes")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .webcrawl.yaml in cwd, XDG config dir, or home)")

	// Run summary
	cmd.Flags().BoolP("json", "j", false, "Output the run summary as JSON (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false, "Output the run summary as Markdown (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "", "Write the run summary to a file instead of stdout")

	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runRootCmd executes the crawl.
func runRootCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewRedactLogger(cmd.ErrOrStderr(), cfg.Verbose)
	slog.SetDefault(logger)

	// Interrupts unwind the crawl without corrupting open sinks: in-flight
	// fetches are abandoned, results so far are flushed, exit stays 0.
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal, cancelling...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return runCrawl(ctx, cfg, logger, cmd.OutOrStdout())
}

// buildConfig creates a Config from cobra flags, merged with the optional
// configuration file.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.SeedURL = args[0]

	var err error
	if cfg.ValidFile, err = cmd.Flags().GetString("visited"); err != nil {
		return nil, err
	}
	if cfg.InvalidFile, err = cmd.Flags().GetString("invalid"); err != nil {
		return nil, err
	}
	if cfg.DupImagesFile, err = cmd.Flags().GetString("dupimgs"); err != nil {
		return nil, err
	}
	if cfg.MaxDepth, err = cmd.Flags().GetInt("depth"); err != nil {
		return nil, err
	}
	if cfg.Workers, err = cmd.Flags().GetInt("workers"); err != nil {
		return nil, err
	}
	if cfg.Timeout, err = cmd.Flags().GetDuration("timeout"); err != nil {
		return nil, err
	}
	if cfg.UserAgent, err = cmd.Flags().GetString("user-agent"); err != nil {
		return nil, err
	}
	if cfg.MaxBodySize, err = cmd.Flags().GetInt64("max-body-size"); err != nil {
		return nil, err
	}
	if cfg.ConfigFilePath, err = cmd.Flags().GetString("config"); err != nil {
		return nil, err
	}
	if cfg.JSONReport, err = cmd.Flags().GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = cmd.Flags().GetString("output"); err != nil {
		return nil, err
	}
	cfg.Verbose = getVerboseFlag(cmd)

	// Config file: an explicitly requested file must exist; the default
	// search silently yields no overrides when nothing is found.
	explicit := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	switch {
	case configPath != "":
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		// CLI flags win over file values: only apply overrides for flags
		// the user did not set.
		hc := file.HostConfigFor(cfg.SeedHost())
		applyFileOverrides(cmd, cfg, hc)
	case explicit:
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	return cfg, nil
}

// applyFileOverrides merges host overrides from the config file for every
// setting the user did not pin on the command line.
func applyFileOverrides(cmd *cobra.Command, cfg *config.Config, hc config.HostConfig) {
	if cmd.Flags().Changed("user-agent") {
		hc.UserAgent = ""
	}
	if cmd.Flags().Changed("depth") {
		hc.Depth = nil
	}
	if cmd.Flags().Changed("timeout") {
		hc.Timeout = 0
	}
	hc.Apply(cfg)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// runCrawl opens the sinks, runs the engine, and renders the run summary.
func runCrawl(ctx context.Context, cfg *config.Config, logger *slog.Logger, stdout io.Writer) error {
	out, err := sink.OpenCSV(cfg.ValidFile, cfg.InvalidFile, cfg.DupImagesFile)
	if err != nil {
		return fmt.Errorf("failed to open output sinks: %w", err)
	}
	defer func() {
		if err := out.Close(); err != nil {
			logger.Error("failed to close output sinks", "error", err)
		}
	}()

	fetcher := crawler.NewHTTPFetcher(
		crawler.WithUserAgent(cfg.UserAgent),
		crawler.WithHeaders(cfg.Headers),
		crawler.WithTimeout(cfg.Timeout),
		crawler.WithMaxBodySize(cfg.MaxBodySize),
	)

	engine := crawler.NewEngine(fetcher, out,
		crawler.WithMaxDepth(cfg.MaxDepth),
		crawler.WithWorkers(cfg.Workers),
		crawler.WithLogger(logger),
		crawler.WithShutdownTimeout(config.DefaultShutdownTimeout),
	)

	crawlReport, err := engine.Run(ctx, cfg.SeedURL)
	if err != nil {
		return err
	}

	return outputReport(cfg, crawlReport, stdout)
}

// outputReport renders the run summary in the requested format.
func outputReport(cfg *config.Config, crawlReport *model.CrawlReport, stdout io.Writer) error {
	var output io.Writer = stdout
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}
		f, err := os.Create(cfg.ReportFile)
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		defer f.Close()
		output = f
	}

	if cfg.JSONReport {
		encoder := json.NewEncoder(output)
		encoder.SetIndent("", "  ")
		return encoder.Encode(crawlReport)
	}

	if cfg.MarkdownReport {
		writer := report.NewMarkdownWriter(output)
		_, err := writer.Write(crawlReport)
		return err
	}

	writer := report.NewSimpleWriter(output)
	_, err := writer.Write(crawlReport)
	return err
}
