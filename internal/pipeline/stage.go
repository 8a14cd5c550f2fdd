// Package pipeline orchestrates the four-stage generation run: design,
// backend, frontend, and test suite. A generic stage executor drives
// retry-with-simplification attempts; the coordinator sequences stages,
// substitutes placeholders for failed predecessors, and persists artifacts.
package pipeline

import (
	"github.com/forgebee/forgebee/internal/artifacts"
	"github.com/forgebee/forgebee/internal/complexity"
)

// StageKind identifies a pipeline stage. Stages always run in the order
// returned by StageOrder.
type StageKind string

const (
	StageDesign   StageKind = "design"
	StageBackend  StageKind = "backend"
	StageFrontend StageKind = "frontend"
	StageTests    StageKind = "tests"
)

// StageOrder returns the stages in execution order.
func StageOrder() []StageKind {
	return []StageKind{StageDesign, StageBackend, StageFrontend, StageTests}
}

// Status is the terminal state of one stage.
type Status string

const (
	StatusSuccess Status = "success"
	StatusPartial Status = "partial_success"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// Outcome classifies a single attempt.
type Outcome string

const (
	OutcomeSuccess       Outcome = "success"
	OutcomeProducerError Outcome = "producer_error"
	OutcomeParseError    Outcome = "parse_error"
)

// Attempt records one producer call and its result. The full attempt history
// survives into the run summary so degraded runs can be diagnosed.
type Attempt struct {
	Index               int     `json:"index"`
	SimplificationLevel int     `json:"simplification_level"`
	Chunk               string  `json:"chunk,omitempty"`
	RawOutputLen        int     `json:"raw_output_len"`
	Outcome             Outcome `json:"outcome"`
	ErrorDetail         string  `json:"error_detail,omitempty"`
}

// StageExecution is the complete record of one stage.
type StageExecution struct {
	Kind     StageKind          `json:"stage"`
	Status   Status             `json:"status"`
	Attempts []Attempt          `json:"attempts,omitempty"`
	Manifest artifacts.Manifest `json:"manifest"`

	// Artifacts holds the produced files before they are written.
	Artifacts *artifacts.Set `json:"-"`
}

// OverallStatus summarizes a whole run.
type OverallStatus string

const (
	OverallSuccess  OverallStatus = "success"
	OverallDegraded OverallStatus = "degraded"
	OverallFailed   OverallStatus = "failed"
)

// Result is what a run produces regardless of how far it got.
type Result struct {
	Requirement   string               `json:"requirement"`
	Profile       complexity.Profile   `json:"complexity"`
	Stages        []StageExecution     `json:"stages"`
	OverallStatus OverallStatus        `json:"overall_status"`
	OutputRoot    string               `json:"output_root"`
	StartedAt     string               `json:"started_at"`
	Duration      string               `json:"duration"`
	FilesWritten  int                  `json:"files_written"`
	Design        *DesignSpecification `json:"-"`
}

// Stage returns the execution record for kind, or nil if it never ran.
func (r *Result) Stage(kind StageKind) *StageExecution {
	for i := range r.Stages {
		if r.Stages[i].Kind == kind {
			return &r.Stages[i]
		}
	}
	return nil
}

// Reporter receives progress callbacks during a run. Implementations must be
// safe for concurrent use; chunked stages report from worker goroutines.
type Reporter interface {
	StageStarted(kind StageKind, strategy complexity.Strategy)
	StageAttempt(kind StageKind, chunk string, attempt, level int)
	StageCompleted(exec StageExecution)
}

type nopReporter struct{}

func (nopReporter) StageStarted(StageKind, complexity.Strategy) {}
func (nopReporter) StageAttempt(StageKind, string, int, int)    {}
func (nopReporter) StageCompleted(StageExecution)               {}
