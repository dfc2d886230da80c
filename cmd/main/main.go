package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/CTAG07/tinyslm/pkg/corpus"
	"github.com/CTAG07/tinyslm/pkg/ppm"
	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// cliFlags holds the values bound to the root command's flags.
type cliFlags struct {
	configPath string
	logLevel   string
	order      int
	seed       uint64
	dbPath     string
	query      string
	outPath    string
	showStats  bool
}

func newRootCmd() *cobra.Command {
	flags := &cliFlags{}

	cmd := &cobra.Command{
		Use:   "tinyslm [training_file] [prompt]",
		Short: "Character-level adaptive text predictor",
		Long: `tinyslm learns character statistics for every context up to a fixed order
from a training corpus, then continues prompts one character at a time.

With a prompt argument a single continuation is printed. Without one,
prompts are read interactively from stdin until "quit".

The corpus is read from training_file, or from a SQLite database when
--db is given, in which case the only positional argument is the prompt.`,
		Args:          cobra.RangeArgs(0, 2),
		Version:       fmt.Sprintf("%s (commit %s, built %s)", Version, Commit, BuildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, flags, args)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.configPath, "config", "c", "", "path to a JSON or YAML config file (created with defaults if missing)")
	f.StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn or error")
	f.IntVarP(&flags.order, "order", "o", ppm.DefaultMaxOrder, "maximum context order")
	f.Uint64Var(&flags.seed, "seed", 0, "random seed (0 seeds from the clock)")
	f.StringVar(&flags.dbPath, "db", "", "train from a SQLite database instead of a file")
	f.StringVar(&flags.query, "query", "", "query selecting training text when --db is set")
	f.StringVar(&flags.outPath, "out", "", "also write generated text to this file")
	f.BoolVar(&flags.showStats, "stats", false, "log model statistics after training")

	return cmd
}

// applyFlags overrides config values with explicitly set flags.
func applyFlags(cmd *cobra.Command, flags *cliFlags, config *Config) {
	f := cmd.Flags()
	if f.Changed("log-level") {
		config.LogLevel = flags.logLevel
	}
	if f.Changed("order") {
		config.Model.MaxOrder = flags.order
	}
	if f.Changed("seed") {
		config.Model.Seed = flags.seed
	}
	if f.Changed("db") {
		config.Corpus.DatabasePath = flags.dbPath
	}
	if f.Changed("query") {
		config.Corpus.Query = flags.query
	}
}

func run(cmd *cobra.Command, flags *cliFlags, args []string) error {
	ctx := cmd.Context()
	stdout := cmd.OutOrStdout()

	config, err := LoadConfig(flags.configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	applyFlags(cmd, flags, config)

	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: parseLogLevel(config.LogLevel)}))

	opts, err := config.Model.Options()
	if err != nil {
		return fmt.Errorf("invalid model configuration: %w", err)
	}
	model, err := ppm.NewModel(opts...)
	if err != nil {
		return err
	}
	defer model.Close()
	model.SetLogger(logger)

	var prompt string
	var hasPrompt bool
	if config.Corpus.DatabasePath != "" {
		if len(args) > 1 {
			return errors.New("with --db only a prompt may be given")
		}
		if len(args) == 1 {
			prompt, hasPrompt = args[0], true
		}
		err = trainFromDB(ctx, model, config.Corpus, logger)
	} else {
		if len(args) == 0 {
			return errors.New("a training file is required")
		}
		if len(args) == 2 {
			prompt, hasPrompt = args[1], true
		}
		err = trainFromFile(ctx, model, args[0], cmd.ErrOrStderr())
	}
	if err != nil {
		return err
	}

	if flags.showStats {
		stats := model.Stats()
		logger.Info("Model statistics",
			slog.Any("contexts_per_order", stats.ContextsPerOrder),
			slog.Int("continuations", stats.Continuations),
			slog.Uint64("observations", stats.Observations),
		)
	}

	var transcript bytes.Buffer
	out := stdout
	if flags.outPath != "" {
		out = io.MultiWriter(stdout, &transcript)
	}

	genOpts := config.Generate.Options()
	if hasPrompt {
		err = generateResponse(ctx, model, out, prompt, genOpts)
	} else {
		err = interactive(ctx, model, cmd.InOrStdin(), stdout, out, genOpts)
	}
	if err != nil {
		return err
	}

	if flags.outPath != "" {
		if err = atomic.WriteFile(flags.outPath, &transcript); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		logger.Debug("Output written", "path", flags.outPath, "bytes", transcript.Len())
	}

	_, _ = fmt.Fprintln(stdout, "Goodbye!")
	return nil
}

func trainFromFile(ctx context.Context, model *ppm.Model, path string, progress io.Writer) error {
	f, err := corpus.Open(path)
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()

	_, err = model.Train(ctx, f, ppm.WithProgress(f.Size, func(done, total int64) {
		_, _ = fmt.Fprintf(progress, "Progress: %.2f%%\r", 100*float64(done)/float64(total))
	}))
	_, _ = fmt.Fprintln(progress, "\nTraining complete.")
	if err != nil {
		return fmt.Errorf("training failed: %w", err)
	}
	return nil
}

func trainFromDB(ctx context.Context, model *ppm.Model, config *CorpusConfig, logger *slog.Logger) error {
	db, err := openCorpusDB(ctx, config.DatabasePath)
	if err != nil {
		return err
	}
	defer func() {
		_ = db.Close()
	}()

	r, err := corpus.FromSQL(ctx, db, config.Query)
	if err != nil {
		return err
	}
	logger.Info("Training from database", "path", config.DatabasePath, "bytes", r.Len())
	if _, err = model.Train(ctx, r); err != nil {
		return fmt.Errorf("training failed: %w", err)
	}
	return nil
}

// generateResponse prints the prompt followed by its continuation.
func generateResponse(ctx context.Context, model *ppm.Model, w io.Writer, prompt string, opts []ppm.GenerateOption) error {
	if _, err := fmt.Fprintf(w, "\nPrompt: \"%s\"\n%s", prompt, prompt); err != nil {
		return err
	}
	if _, err := model.GenerateTo(ctx, w, prompt, opts...); err != nil {
		return fmt.Errorf("generation failed: %w", err)
	}
	_, err := fmt.Fprintln(w)
	return err
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
