package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"google.golang.org/api/option"

	"github.com/dvloznov/statement-processor/internal/config"
	infraBQ "github.com/dvloznov/statement-processor/internal/infra/bigquery"
	"github.com/dvloznov/statement-processor/internal/logger"
	"github.com/dvloznov/statement-processor/internal/pipeline"
	"github.com/dvloznov/statement-processor/internal/statement"
	"github.com/dvloznov/statement-processor/internal/storage"
)

type options struct {
	out      string
	testMode bool
	cfgPath  string
	bqTable  string
	logLevel string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "process-statement FILE",
		Short: "Extract, validate and summarize a bank statement with Gemini",
		Long: "Reads a bank statement (PDF or image, local path or gs:// URI), extracts its\n" +
			"fields with Gemini, masks the account number, reconciles balances, adds\n" +
			"insights and writes the result as JSON.",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.out, "out", "o", "output.json", "Output location (local path or gs:// URI)")
	cmd.Flags().BoolVar(&opts.testMode, "test", false, "Use the built-in fixture instead of calling Gemini")
	cmd.Flags().StringVarP(&opts.cfgPath, "config", "c", "", "Path to a config file (yaml, json or toml)")
	cmd.Flags().StringVar(&opts.bqTable, "bq-table", "", "Also store the report in this BigQuery table")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides config")

	return cmd
}

func run(cmd *cobra.Command, opts *options, source string) error {
	cfg, err := config.Load(opts.cfgPath)
	if err != nil {
		return err
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	log := logger.NewWithLevel(level)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logger.WithContext(ctx, log)

	if err := cfg.Validate(opts.testMode); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	var clientOpts []option.ClientOption
	if cfg.CredentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	store := storage.NewDocumentStore(cfg.StorageTimeout, clientOpts...)

	processor, err := newProcessor(ctx, cfg, store, opts.testMode)
	if err != nil {
		return err
	}

	res, err := processor.Process(ctx, source)
	if err != nil {
		return fmt.Errorf("processing %s: %w", source, err)
	}

	data, err := encodeOutput(res.Output)
	if err != nil {
		return err
	}
	if err := store.Write(ctx, opts.out, data, "application/json"); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if opts.bqTable != "" {
		if err := storeReport(ctx, cfg, opts.bqTable, res, clientOpts); err != nil {
			return err
		}
	}

	location := opts.out
	if !storage.IsGCSURI(location) {
		if abs, err := filepath.Abs(location); err == nil {
			location = abs
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", location)
	return nil
}

func newProcessor(ctx context.Context, cfg *config.Config, store storage.Service, testMode bool) (*pipeline.Processor, error) {
	if testMode {
		log := logger.FromContext(ctx)
		log.Info().Msg("Test mode: using fixture statement")
		return pipeline.NewFixtureProcessor(), nil
	}

	gc, err := pipeline.NewGeminiClient(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return pipeline.NewProcessor(store, gc.Extractor(), gc.InsightGenerator()), nil
}

func storeReport(ctx context.Context, cfg *config.Config, table string, res *pipeline.Result, clientOpts []option.ClientOption) error {
	row, err := infraBQ.NewReportRow(res.RunID, res.Source, res.Output)
	if err != nil {
		return err
	}

	repo, err := infraBQ.NewReportRepository(ctx, cfg.GCPProject, cfg.BigQueryDataset, table, clientOpts...)
	if err != nil {
		return err
	}
	defer repo.Close()

	if err := repo.EnsureTable(ctx); err != nil {
		return fmt.Errorf("preparing report table: %w", err)
	}
	if err := repo.InsertReport(ctx, row); err != nil {
		return fmt.Errorf("storing report: %w", err)
	}
	return nil
}

// encodeOutput renders out as indented JSON. HTML escaping is off so
// insights like "> ₹15,000" stay readable.
func encodeOutput(out *statement.Output) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return nil, fmt.Errorf("encoding output: %w", err)
	}
	return buf.Bytes(), nil
}
