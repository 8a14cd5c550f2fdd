package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/forgebee/forgebee/internal/artifacts"
	"github.com/forgebee/forgebee/internal/complexity"
	"github.com/forgebee/forgebee/internal/prompt"
	"github.com/forgebee/forgebee/internal/provider"
	"github.com/forgebee/forgebee/internal/repair"
)

// Root-level files persisted for every run.
const (
	complexityFileName = "complexity_analysis.json"
	designFileName     = "design_spec.json"
	summaryFileName    = "run_summary.json"
)

// FatalDesignError halts a run: without a design specification no later
// stage can be prompted.
type FatalDesignError struct {
	Execution StageExecution
}

func (e *FatalDesignError) Error() string {
	return fmt.Sprintf("design stage failed after %d attempts", len(e.Execution.Attempts))
}

// Options tunes a Coordinator.
type Options struct {
	// BaseDir is the directory run directories are created under.
	BaseDir string
	// MaxAttempts bounds attempts per stage or chunk. Zero means 3.
	MaxAttempts int
	// ChunkWorkers bounds concurrent chunk generation. Zero means sequential.
	ChunkWorkers int
	// Reporter receives progress callbacks. Nil disables reporting.
	Reporter Reporter
}

// Coordinator runs the full generation pipeline for one requirement.
type Coordinator struct {
	provider  provider.Provider
	analyzer  *complexity.Analyzer
	recoverer *repair.Recoverer
	opts      Options
	now       func() time.Time
}

// NewCoordinator wires a coordinator around a provider backend.
func NewCoordinator(p provider.Provider, opts Options) *Coordinator {
	return &Coordinator{
		provider:  p,
		analyzer:  complexity.NewAnalyzer(),
		recoverer: &repair.Recoverer{},
		opts:      opts,
		now:       time.Now,
	}
}

// Analyzer exposes the coordinator's analyzer so callers can tune cut points
// from configuration before running.
func (c *Coordinator) Analyzer() *complexity.Analyzer { return c.analyzer }

// Run executes all stages in order for the requirement. Stages run strictly
// sequentially; only a design failure aborts the run (returned as
// *FatalDesignError). Other stage failures degrade the result: downstream
// prompts get placeholder context and the test stage is skipped when the
// backend produced nothing. Context cancellation abandons the in-flight
// stage, marks the rest skipped, and returns the accumulated result.
func (c *Coordinator) Run(ctx context.Context, requirement string) (Result, error) {
	started := c.now()
	profile := c.analyzer.Analyze(requirement)

	result := Result{
		Requirement: requirement,
		Profile:     profile,
		StartedAt:   started.UTC().Format(time.RFC3339),
	}

	writer, err := artifacts.NewWriter(c.opts.BaseDir, requirement, started)
	if err != nil {
		result.OverallStatus = OverallFailed
		return result, err
	}
	result.OutputRoot = writer.Dir()

	if data, err := json.MarshalIndent(profile, "", "  "); err == nil {
		if werr := writer.WriteRootFile(complexityFileName, data); werr != nil {
			result.OverallStatus = OverallFailed
			return result, werr
		}
	}

	ex := &Executor{
		MaxAttempts: c.opts.MaxAttempts,
		Simplify:    c.analyzer.Simplify,
		Workers:     c.opts.ChunkWorkers,
		Reporter:    c.opts.Reporter,
	}

	spec, specJSON, designExec := c.runDesign(ctx, ex, requirement)
	c.persistStage(writer, &designExec)
	result.Stages = append(result.Stages, designExec)

	if designExec.Status != StatusSuccess {
		c.finish(&result, started, StatusSkipped, StageBackend, StageFrontend, StageTests)
		result.OverallStatus = OverallFailed
		c.writeSummary(writer, result)
		return result, &FatalDesignError{Execution: designExec}
	}

	result.Design = spec
	if werr := writer.WriteRootFile(designFileName, specJSON); werr != nil {
		result.OverallStatus = OverallFailed
		return result, werr
	}

	backendExec := c.runGeneration(ctx, ex, StageBackend, requirement, profile,
		prompt.Backend(string(specJSON), requirement),
		prompt.BackendChunks(string(specJSON), requirement))
	c.persistStage(writer, &backendExec)
	result.Stages = append(result.Stages, backendExec)

	backendCtx := prompt.BackendContext(setToMap(backendExec.Artifacts))

	frontendExec := c.runGeneration(ctx, ex, StageFrontend, requirement, profile,
		prompt.Frontend(string(specJSON), backendCtx, requirement),
		prompt.FrontendChunks(string(specJSON), backendCtx, requirement))
	c.persistStage(writer, &frontendExec)
	result.Stages = append(result.Stages, frontendExec)

	if backendExec.Status == StatusFailed || backendExec.Status == StatusSkipped {
		// No backend to test against.
		result.Stages = append(result.Stages, StageExecution{Kind: StageTests, Status: StatusSkipped})
	} else {
		testsExec := c.runGeneration(ctx, ex, StageTests, requirement, profile,
			prompt.Tests(string(specJSON), backendCtx, requirement),
			prompt.TestChunks(string(specJSON), backendCtx, requirement))
		c.persistStage(writer, &testsExec)
		result.Stages = append(result.Stages, testsExec)
	}

	result.OverallStatus = overall(result.Stages)
	result.Duration = c.now().Sub(started).String()
	for _, st := range result.Stages {
		result.FilesWritten += len(st.Manifest.Files)
	}
	c.writeSummary(writer, result)
	return result, nil
}

// runDesign executes the design stage and captures the parsed specification
// from the winning attempt.
func (c *Coordinator) runDesign(ctx context.Context, ex *Executor, requirement string) (*DesignSpecification, []byte, StageExecution) {
	var spec *DesignSpecification
	var specJSON []byte

	c.report().StageStarted(StageDesign, complexity.StrategySingle)
	exec := ex.RunSingle(ctx, StageDesign, requirement,
		func(ctx context.Context, input string, level int) (string, error) {
			return c.provider.Generate(ctx, provider.Request{
				Prompt:    prompt.Design(input),
				MaxTokens: prompt.DesignTokens,
			})
		},
		func(raw string) (*artifacts.Set, error) {
			parsed, data, err := ParseDesign(c.recoverer, raw)
			if err != nil {
				return nil, err
			}
			spec, specJSON = parsed, data
			set := artifacts.NewSet()
			set.Add(designFileName, string(data))
			return set, nil
		})
	return spec, specJSON, exec
}

// runGeneration executes a code-producing stage with the strategy the
// complexity profile selected: one multi-file call, or one call per chunk.
func (c *Coordinator) runGeneration(ctx context.Context, ex *Executor, kind StageKind, requirement string, profile complexity.Profile, singlePrompt string, chunks []prompt.Chunk) StageExecution {
	if ctx.Err() != nil {
		return StageExecution{Kind: kind, Status: StatusSkipped}
	}
	c.report().StageStarted(kind, profile.Strategy)

	if profile.Strategy == complexity.StrategyChunked {
		tasks := make([]ChunkTask, 0, len(chunks))
		for _, ch := range chunks {
			tasks = append(tasks, ChunkTask{
				Name:    ch.File,
				Produce: c.producer(ch.Prompt, ch.MaxTokens),
				Parse:   singleFileParser(ch.File),
			})
		}
		return ex.RunChunked(ctx, kind, requirement, tasks)
	}

	return ex.RunSingle(ctx, kind, requirement,
		c.producer(singlePrompt, prompt.SingleStageTokens),
		c.multiFileParser())
}

// producer builds a Producer that swaps the verbatim requirement inside the
// prompt for the simplified one on degraded attempts.
func (c *Coordinator) producer(promptText string, maxTokens int) Producer {
	return func(ctx context.Context, input string, level int) (string, error) {
		p := promptText
		if level > 0 {
			p = fmt.Sprintf("%s\n\nSIMPLIFIED SCOPE FOR THIS ATTEMPT:\n%s", promptText, input)
		}
		return c.provider.Generate(ctx, provider.Request{Prompt: p, MaxTokens: maxTokens})
	}
}

// multiFileParser recovers a JSON object of path -> content into artifacts.
func (c *Coordinator) multiFileParser() ParseFunc {
	return func(raw string) (*artifacts.Set, error) {
		var files map[string]string
		if err := c.recoverer.RecoverInto(raw, &files); err != nil {
			return nil, err
		}

		names := make([]string, 0, len(files))
		for name := range files {
			names = append(names, name)
		}
		sort.Strings(names)

		set := artifacts.NewSet()
		for _, name := range names {
			set.Add(name, files[name])
		}
		return set, nil
	}
}

// singleFileParser treats raw output as the content of one named file.
func singleFileParser(name string) ParseFunc {
	return func(raw string) (*artifacts.Set, error) {
		set := artifacts.NewSet()
		set.Add(name, repair.StripFences(raw))
		return set, nil
	}
}

func (c *Coordinator) persistStage(writer *artifacts.Writer, exec *StageExecution) {
	manifest, err := writer.WriteStage(string(exec.Kind), exec.Artifacts)
	if err != nil {
		// A stage that generated but could not be written counts as failed.
		exec.Status = StatusFailed
		exec.Attempts = append(exec.Attempts, Attempt{
			Index:       len(exec.Attempts) + 1,
			Outcome:     OutcomeProducerError,
			ErrorDetail: err.Error(),
		})
		return
	}
	exec.Manifest = manifest
}

func (c *Coordinator) finish(result *Result, started time.Time, status Status, kinds ...StageKind) {
	for _, kind := range kinds {
		result.Stages = append(result.Stages, StageExecution{Kind: kind, Status: status})
	}
	result.Duration = c.now().Sub(started).String()
}

func (c *Coordinator) writeSummary(writer *artifacts.Writer, result Result) {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return
	}
	_ = writer.WriteRootFile(summaryFileName, data)
}

func (c *Coordinator) report() Reporter {
	if c.opts.Reporter == nil {
		return nopReporter{}
	}
	return c.opts.Reporter
}

// overall folds stage statuses: success only when every stage succeeded,
// degraded otherwise. Design failure never reaches here.
func overall(stages []StageExecution) OverallStatus {
	for _, st := range stages {
		if st.Status != StatusSuccess {
			return OverallDegraded
		}
	}
	return OverallSuccess
}

func setToMap(set *artifacts.Set) map[string]string {
	if set == nil {
		return nil
	}
	out := make(map[string]string, set.Len())
	for _, f := range set.Files() {
		out[f.Path] = f.Content
	}
	return out
}
