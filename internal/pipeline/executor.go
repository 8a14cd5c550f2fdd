package pipeline

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/forgebee/forgebee/internal/artifacts"
)

// maxSimplificationLevel caps requirement degradation; beyond level 2 the
// requirement is already minimal.
const maxSimplificationLevel = 2

// Producer runs one generation call. input is the (possibly simplified)
// requirement for this attempt; level is the simplification level applied.
type Producer func(ctx context.Context, input string, level int) (string, error)

// ParseFunc turns raw producer output into artifacts. An error or an empty
// set marks the attempt failed.
type ParseFunc func(raw string) (*artifacts.Set, error)

// ChunkTask is one sub-artifact of a chunked stage with its own producer and
// independent attempt loop.
type ChunkTask struct {
	Name    string
	Produce Producer
	Parse   ParseFunc
}

// Executor drives the attempt loop for one stage. Producer and parse failures
// are absorbed into the attempt history; Run methods never return an error.
type Executor struct {
	// MaxAttempts bounds attempts per stage (or per chunk).
	MaxAttempts int
	// Simplify degrades the input for retry attempts. Nil keeps it verbatim.
	Simplify func(input string, level int) string
	// Workers bounds concurrent chunk execution. 1 runs chunks sequentially.
	Workers int
	// Reporter receives progress callbacks. Nil disables reporting.
	Reporter Reporter
}

// NewExecutor returns an executor with the default attempt bound and
// sequential chunk execution.
func NewExecutor() *Executor {
	return &Executor{MaxAttempts: 3, Workers: 1}
}

func (e *Executor) reporter() Reporter {
	if e.Reporter == nil {
		return nopReporter{}
	}
	return e.Reporter
}

func (e *Executor) maxAttempts() int {
	if e.MaxAttempts <= 0 {
		return 3
	}
	return e.MaxAttempts
}

func (e *Executor) simplify(input string, level int) string {
	if e.Simplify == nil || level == 0 {
		return input
	}
	return e.Simplify(input, level)
}

// RunSingle executes a single-call stage: up to MaxAttempts producer calls,
// each at simplification level attempt-1 (capped), accepting the first
// attempt that parses into at least one non-empty artifact.
func (e *Executor) RunSingle(ctx context.Context, kind StageKind, input string, produce Producer, parse ParseFunc) StageExecution {
	exec := StageExecution{Kind: kind, Status: StatusFailed}

	set, attempts := e.attemptLoop(ctx, kind, "", input, produce, parse)
	exec.Attempts = attempts
	if set != nil {
		exec.Status = StatusSuccess
		exec.Artifacts = set
	}

	e.reporter().StageCompleted(exec)
	return exec
}

// RunChunked executes a chunked stage: each chunk gets its own attempt loop,
// chunk failures are independent, and chunks run with bounded concurrency.
// Status is success when every chunk produced, partial_success when at least
// one did, failed when none did.
func (e *Executor) RunChunked(ctx context.Context, kind StageKind, input string, chunks []ChunkTask) StageExecution {
	exec := StageExecution{Kind: kind, Status: StatusFailed}

	type chunkResult struct {
		set      *artifacts.Set
		attempts []Attempt
	}
	results := make([]chunkResult, len(chunks))

	workers := e.Workers
	if workers <= 0 {
		workers = 1
	}

	var g errgroup.Group
	g.SetLimit(workers)
	for i, chunk := range chunks {
		g.Go(func() error {
			set, attempts := e.attemptLoop(ctx, kind, chunk.Name, input, chunk.Produce, chunk.Parse)
			results[i] = chunkResult{set: set, attempts: attempts}
			return nil
		})
	}
	_ = g.Wait() // chunk failures are absorbed into attempt history

	merged := artifacts.NewSet()
	produced := 0
	for _, res := range results {
		exec.Attempts = append(exec.Attempts, res.attempts...)
		if res.set == nil {
			continue
		}
		produced++
		for _, f := range res.set.Files() {
			merged.Add(f.Path, f.Content)
		}
	}

	switch {
	case produced == len(chunks):
		exec.Status = StatusSuccess
	case produced > 0:
		exec.Status = StatusPartial
	}
	if produced > 0 {
		exec.Artifacts = merged
	}

	e.reporter().StageCompleted(exec)
	return exec
}

// attemptLoop runs the shared retry loop. It returns the winning artifact set
// (nil on exhaustion) and the full attempt history. Context cancellation
// stops the loop after the in-flight attempt.
func (e *Executor) attemptLoop(ctx context.Context, kind StageKind, chunk, input string, produce Producer, parse ParseFunc) (*artifacts.Set, []Attempt) {
	var attempts []Attempt

	for i := 1; i <= e.maxAttempts(); i++ {
		if ctx.Err() != nil {
			break
		}

		level := i - 1
		if level > maxSimplificationLevel {
			level = maxSimplificationLevel
		}
		e.reporter().StageAttempt(kind, chunk, i, level)

		attempt := Attempt{Index: i, SimplificationLevel: level, Chunk: chunk}

		raw, err := produce(ctx, e.simplify(input, level), level)
		attempt.RawOutputLen = len(raw)
		if err != nil {
			attempt.Outcome = OutcomeProducerError
			attempt.ErrorDetail = err.Error()
			attempts = append(attempts, attempt)
			continue
		}

		set, err := parse(raw)
		if err != nil {
			attempt.Outcome = OutcomeParseError
			attempt.ErrorDetail = err.Error()
			attempts = append(attempts, attempt)
			continue
		}
		if set == nil || set.Len() == 0 {
			attempt.Outcome = OutcomeParseError
			attempt.ErrorDetail = "produced no non-empty artifacts"
			attempts = append(attempts, attempt)
			continue
		}

		attempt.Outcome = OutcomeSuccess
		attempts = append(attempts, attempt)
		return set, attempts
	}

	return nil, attempts
}
