package cli

import (
	goerrors "errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/forgebee/forgebee/internal/config"
	"github.com/forgebee/forgebee/internal/errors"
	"github.com/forgebee/forgebee/internal/history"
	"github.com/forgebee/forgebee/internal/pipeline"
	"github.com/forgebee/forgebee/internal/progress"
	"github.com/forgebee/forgebee/internal/provider"
	"github.com/forgebee/forgebee/internal/scaffold"
)

var generateFlags struct {
	configPath   string
	outputDir    string
	backend      string
	maxAttempts  int
	chunkWorkers int
	gitInit      bool
}

var generateCmd = &cobra.Command{
	Use:   "generate \"<requirement>\"",
	Short: "Generate an application scaffold from a requirement",
	Example: `  forgebee generate "Create a simple blog with posts and comments"
  forgebee generate --backend claude "Track workouts and goals"
  FORGEBEE_PROVIDER__MODEL=gpt-4o forgebee generate "Inventory manager"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&generateFlags.configPath, "config", "", "project config path override")
	generateCmd.Flags().StringVarP(&generateFlags.outputDir, "output", "o", "", "output base directory")
	generateCmd.Flags().StringVar(&generateFlags.backend, "backend", "", "provider backend (openai|claude)")
	generateCmd.Flags().IntVar(&generateFlags.maxAttempts, "attempts", 0, "max attempts per stage")
	generateCmd.Flags().IntVar(&generateFlags.chunkWorkers, "chunk-workers", 0, "concurrent chunk generation")
	generateCmd.Flags().BoolVar(&generateFlags.gitInit, "git-init", false, "initialize a git repository in the run directory")
	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	requirement := strings.TrimSpace(strings.Join(args, " "))
	if requirement == "" {
		return errors.NewArgumentErrorWithUsage(
			"requirement text is required",
			`forgebee generate "<requirement>"`,
			"describe the application you want in plain English")
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	backend, err := buildProvider(cfg)
	if err != nil {
		return err
	}

	coordinator := pipeline.NewCoordinator(backend, pipeline.Options{
		BaseDir:      cfg.OutputDir,
		MaxAttempts:  cfg.MaxAttempts,
		ChunkWorkers: cfg.ChunkWorkers,
		Reporter:     progress.NewStageReporter(cmd.OutOrStdout()),
	})
	analyzer := coordinator.Analyzer()
	analyzer.SimpleCutoff = cfg.Complexity.SimpleCutoff
	analyzer.ModerateCutoff = cfg.Complexity.ModerateCutoff
	analyzer.ChunkThreshold = cfg.Complexity.ChunkThreshold

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	started := time.Now()
	result, runErr := coordinator.Run(ctx, requirement)

	if result.OutputRoot != "" && result.OverallStatus != pipeline.OverallFailed {
		if err := scaffold.Apply(result, cfg.GitInit || generateFlags.gitInit); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: scaffolding failed: %v\n", err)
		}
	}

	history.NewWriter(cfg.StateDir, cfg.MaxHistoryEntries).Log(history.NewEntry(
		requirement, string(result.OverallStatus), result.OutputRoot,
		result.FilesWritten, time.Since(started)))

	printSummary(cmd, result)

	if runErr != nil {
		var fatal *pipeline.FatalDesignError
		if goerrors.As(runErr, &fatal) {
			return errors.Wrap(runErr, errors.Provider,
				"check the provider credentials and model configuration",
				"retry with a shorter, more concrete requirement",
				fmt.Sprintf("inspect the attempt log in %s", result.OutputRoot))
		}
		return errors.Wrap(runErr, errors.Runtime)
	}

	if result.OverallStatus == pipeline.OverallDegraded {
		exitCode = ExitDegraded
	}
	return nil
}

func loadConfig(cmd *cobra.Command) (*config.Configuration, error) {
	cfg, err := config.LoadWithOptions(config.LoadOptions{
		ProjectConfigPath: generateFlags.configPath,
		WarningWriter:     cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.Configuration,
			"run 'forgebee config init' to write a starter config",
			"run 'forgebee config show' to inspect the effective config")
	}

	if generateFlags.outputDir != "" {
		cfg.OutputDir = generateFlags.outputDir
	}
	if generateFlags.backend != "" {
		cfg.Provider.Backend = generateFlags.backend
	}
	if generateFlags.maxAttempts > 0 {
		cfg.MaxAttempts = generateFlags.maxAttempts
	}
	if generateFlags.chunkWorkers > 0 {
		cfg.ChunkWorkers = generateFlags.chunkWorkers
	}

	if err := config.Validate(cfg); err != nil {
		return nil, errors.Wrap(err, errors.Configuration)
	}
	return cfg, nil
}

// buildProvider constructs the configured backend with per-call timeouts.
func buildProvider(cfg *config.Configuration) (provider.Provider, error) {
	var (
		p   provider.Provider
		err error
	)
	switch cfg.Provider.Backend {
	case "claude":
		p = provider.NewClaudeCLI(provider.ClaudeCLIOptions{
			Command: cfg.Provider.ClaudeCmd,
			Args:    cfg.Provider.ClaudeArgs,
		})
	default:
		p, err = provider.NewOpenAI(provider.OpenAIOptions{
			APIKey:  cfg.Provider.APIKey,
			Model:   cfg.Provider.Model,
			BaseURL: cfg.Provider.BaseURL,
		})
		if err != nil {
			return nil, errors.Wrap(err, errors.Configuration,
				"set FORGEBEE_PROVIDER__API_KEY or OPENAI_API_KEY",
				"or switch to the claude backend with --backend claude")
		}
	}
	return provider.WithTimeout(p, time.Duration(cfg.Provider.Timeout)*time.Second), nil
}

func printSummary(cmd *cobra.Command, result pipeline.Result) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "\nRun %s (%s complexity, %s strategy)\n",
		result.OverallStatus, result.Profile.Level, result.Profile.Strategy)
	for _, st := range result.Stages {
		fmt.Fprintf(out, "  %-9s %s", st.Kind, st.Status)
		if n := len(st.Manifest.Files); n > 0 {
			fmt.Fprintf(out, " (%d files)", n)
		}
		fmt.Fprintln(out)
	}
	if result.OutputRoot != "" {
		fmt.Fprintf(out, "Output: %s\n", result.OutputRoot)
	}
}
