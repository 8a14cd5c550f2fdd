package config

// Defaults returns the built-in configuration values.
func Defaults() map[string]interface{} {
	return map[string]interface{}{
		"provider.backend":     "openai",
		"provider.model":       "gpt-4o-mini",
		"provider.api_key":     "",
		"provider.base_url":    "",
		"provider.claude_cmd":  "claude",
		"provider.claude_args": []string{},
		// Per-call timeout in seconds. Chunked route generation is the
		// slowest call and stays well under this.
		"provider.timeout": 300,

		"max_attempts":  3,
		"output_dir":    "./generated",
		"state_dir":     "~/.forgebee",
		"chunk_workers": 1,
		"git_init":      false,

		"max_history_entries": 200,

		"complexity.simple_cutoff":   30,
		"complexity.moderate_cutoff": 60,
		"complexity.chunk_threshold": 4,
	}
}

// DefaultConfigTemplate is a commented starter config written by
// `forgebee config init`.
func DefaultConfigTemplate() string {
	return `# ForgeBee Configuration
# Priority: environment (FORGEBEE_*) > this file > ~/.config/forgebee/config.yml > defaults

provider:
  backend: openai            # openai | claude
  model: gpt-4o-mini         # model name for API backends
  api_key: ""                # or set FORGEBEE_PROVIDER__API_KEY / OPENAI_API_KEY
  base_url: ""               # OpenAI-compatible endpoint override (vLLM, Ollama)
  claude_cmd: claude         # CLI binary for the claude backend
  claude_args: []            # extra args before the prompt flag
  timeout: 300               # per-call timeout in seconds (0 = none)

max_attempts: 3              # generation attempts per stage or chunk (1-10)
output_dir: ./generated      # run directories are created here
state_dir: ~/.forgebee       # run history location
chunk_workers: 1             # concurrent chunk generation (1 = sequential)
git_init: false              # git init + initial commit in each run directory

max_history_entries: 200     # oldest history entries are pruned past this

complexity:
  simple_cutoff: 30          # score below this is simple
  moderate_cutoff: 60        # score below this is moderate, above is complex
  chunk_threshold: 4         # entity count above this forces chunked generation
`
}
