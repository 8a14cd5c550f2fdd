package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/forgebee/forgebee/internal/config"
	"github.com/forgebee/forgebee/internal/errors"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage forgebee configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a commented starter config to .forgebee/config.yml",
	Args:  cobra.NoArgs,
	RunE:  runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration after all sources are merged",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file locations",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configInitCmd, configShowCmd, configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	path := config.ProjectConfigPath()
	if _, err := os.Stat(path); err == nil {
		return errors.NewConfigError(
			fmt.Sprintf("config file already exists at %s", path),
			"edit the existing file, or remove it and rerun 'forgebee config init'")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, errors.Runtime, "creating %s", config.ProjectConfigDir())
	}
	if err := os.WriteFile(path, []byte(config.DefaultConfigTemplate()), 0o644); err != nil {
		return errors.Wrapf(err, errors.Runtime, "writing %s", path)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return nil
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	cfg, err := config.LoadWithOptions(config.LoadOptions{WarningWriter: cmd.ErrOrStderr()})
	if err != nil {
		return errors.Wrap(err, errors.Configuration,
			"fix or remove the offending config file, then retry")
	}

	apiKey := "(unset)"
	if cfg.Provider.APIKey != "" {
		apiKey = "(set, redacted)"
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "provider:")
	fmt.Fprintf(out, "  backend: %s\n", cfg.Provider.Backend)
	fmt.Fprintf(out, "  model: %s\n", cfg.Provider.Model)
	fmt.Fprintf(out, "  api_key: %s\n", apiKey)
	if cfg.Provider.BaseURL != "" {
		fmt.Fprintf(out, "  base_url: %s\n", cfg.Provider.BaseURL)
	}
	fmt.Fprintf(out, "  claude_cmd: %s\n", cfg.Provider.ClaudeCmd)
	fmt.Fprintf(out, "  timeout: %d\n", cfg.Provider.Timeout)
	fmt.Fprintf(out, "max_attempts: %d\n", cfg.MaxAttempts)
	fmt.Fprintf(out, "output_dir: %s\n", cfg.OutputDir)
	fmt.Fprintf(out, "state_dir: %s\n", cfg.StateDir)
	fmt.Fprintf(out, "chunk_workers: %d\n", cfg.ChunkWorkers)
	fmt.Fprintf(out, "git_init: %t\n", cfg.GitInit)
	fmt.Fprintf(out, "max_history_entries: %d\n", cfg.MaxHistoryEntries)
	fmt.Fprintln(out, "complexity:")
	fmt.Fprintf(out, "  simple_cutoff: %d\n", cfg.Complexity.SimpleCutoff)
	fmt.Fprintf(out, "  moderate_cutoff: %d\n", cfg.Complexity.ModerateCutoff)
	fmt.Fprintf(out, "  chunk_threshold: %d\n", cfg.Complexity.ChunkThreshold)
	return nil
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	userPath, err := config.UserConfigPath()
	if err != nil {
		userPath = fmt.Sprintf("(unavailable: %v)", err)
	}
	fmt.Fprintf(out, "user:    %s\n", userPath)
	fmt.Fprintf(out, "project: %s\n", config.ProjectConfigPath())
	return nil
}
