// Package config provides hierarchical configuration for forgebee using
// koanf. Values load with priority: environment variables > project config
// (.forgebee/config.yml) > user config (~/.config/forgebee/config.yml) >
// defaults. Legacy JSON project configs are still read with a migration
// warning.
package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// envPrefix namespaces forgebee environment variables. Nested keys use a
// double underscore: FORGEBEE_PROVIDER__API_KEY -> provider.api_key.
const envPrefix = "FORGEBEE_"

// ProviderConfig selects and tunes the generation backend.
type ProviderConfig struct {
	// Backend picks the provider implementation.
	Backend string `koanf:"backend" validate:"oneof=openai claude"`
	// Model is the model name for API backends.
	Model string `koanf:"model"`
	// APIKey authenticates API backends. Usually set via
	// FORGEBEE_PROVIDER__API_KEY or OPENAI_API_KEY.
	APIKey string `koanf:"api_key"`
	// BaseURL overrides the API endpoint for OpenAI-compatible servers.
	BaseURL string `koanf:"base_url"`
	// ClaudeCmd is the CLI binary for the claude backend.
	ClaudeCmd string `koanf:"claude_cmd"`
	// ClaudeArgs are extra arguments inserted before the prompt flag.
	ClaudeArgs []string `koanf:"claude_args"`
	// Timeout bounds each provider call, in seconds. 0 disables it.
	Timeout int `koanf:"timeout" validate:"min=0"`
}

// ComplexityConfig exposes the analyzer cut points.
type ComplexityConfig struct {
	SimpleCutoff   int `koanf:"simple_cutoff" validate:"min=1,max=99"`
	ModerateCutoff int `koanf:"moderate_cutoff" validate:"min=2,max=100"`
	ChunkThreshold int `koanf:"chunk_threshold" validate:"min=1"`
}

// Configuration is the full forgebee configuration.
type Configuration struct {
	Provider ProviderConfig `koanf:"provider"`

	// MaxAttempts bounds generation attempts per stage or chunk.
	MaxAttempts int `koanf:"max_attempts" validate:"min=1,max=10"`
	// OutputDir is where run directories are created.
	OutputDir string `koanf:"output_dir"`
	// StateDir holds the run history file.
	StateDir string `koanf:"state_dir"`
	// ChunkWorkers bounds concurrent chunk generation.
	ChunkWorkers int `koanf:"chunk_workers" validate:"min=1,max=16"`
	// GitInit initializes a git repository in each run directory.
	GitInit bool `koanf:"git_init"`
	// MaxHistoryEntries caps the run history; oldest entries are pruned.
	MaxHistoryEntries int `koanf:"max_history_entries" validate:"min=0"`

	Complexity ComplexityConfig `koanf:"complexity"`
}

// LoadOptions configures how configuration is loaded.
type LoadOptions struct {
	// ProjectConfigPath overrides the project config path.
	ProjectConfigPath string
	// WarningWriter receives migration warnings (default os.Stderr).
	WarningWriter io.Writer
	// SkipWarnings suppresses migration warnings.
	SkipWarnings bool
}

// Load loads configuration from all sources with default options.
func Load() (*Configuration, error) {
	return LoadWithOptions(LoadOptions{})
}

// LoadWithOptions loads configuration from defaults, user config, project
// config, and environment, in rising priority.
func LoadWithOptions(opts LoadOptions) (*Configuration, error) {
	k := koanf.New(".")
	warningWriter := opts.WarningWriter
	if warningWriter == nil {
		warningWriter = os.Stderr
	}

	for key, value := range Defaults() {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("setting default %s: %w", key, err)
		}
	}

	if userPath, err := UserConfigPath(); err == nil && fileExists(userPath) {
		if err := k.Load(file.Provider(userPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading user config %s: %w", userPath, err)
		}
	}

	projectPath := ProjectConfigPath()
	if opts.ProjectConfigPath != "" {
		projectPath = opts.ProjectConfigPath
	}
	switch {
	case fileExists(projectPath):
		if err := k.Load(file.Provider(projectPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading project config %s: %w", projectPath, err)
		}
	case fileExists(LegacyProjectConfigPath()):
		legacy := LegacyProjectConfigPath()
		if err := k.Load(file.Provider(legacy), json.Parser()); err != nil {
			return nil, fmt.Errorf("loading legacy project config %s: %w", legacy, err)
		}
		if !opts.SkipWarnings {
			fmt.Fprintf(warningWriter, "Warning: using deprecated JSON config at %s\n", legacy)
			fmt.Fprintf(warningWriter, "  Rewrite it as %s in YAML format.\n\n", projectPath)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("loading environment config: %w", err)
	}

	var cfg Configuration
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if cfg.Provider.APIKey == "" {
		cfg.Provider.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	cfg.StateDir = expandHomePath(cfg.StateDir)
	cfg.OutputDir = expandHomePath(cfg.OutputDir)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envTransform converts environment variable names to config keys.
// FORGEBEE_MAX_ATTEMPTS -> max_attempts; FORGEBEE_PROVIDER__MODEL -> provider.model.
func envTransform(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

// expandHomePath expands a leading ~ to the user's home directory.
func expandHomePath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(strings.TrimPrefix(path, "~"), "/"))
	}
	return path
}

func fileExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
