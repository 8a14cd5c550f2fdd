package progress

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/forgebee/forgebee/internal/artifacts"
	"github.com/forgebee/forgebee/internal/complexity"
	"github.com/forgebee/forgebee/internal/pipeline"
)

func TestStageReporter_PlainOutput(t *testing.T) {
	var buf bytes.Buffer
	r := NewStageReporter(&buf)
	r.caps.IsTTY = false

	r.StageStarted(pipeline.StageBackend, complexity.StrategyChunked)
	r.StageAttempt(pipeline.StageBackend, "models.py", 1, 0)
	r.StageAttempt(pipeline.StageBackend, "models.py", 2, 1)

	set := artifacts.NewSet()
	set.Add("models.py", "code")
	r.StageCompleted(pipeline.StageExecution{
		Kind:      pipeline.StageBackend,
		Status:    pipeline.StatusSuccess,
		Attempts:  []pipeline.Attempt{{Index: 1}, {Index: 2}},
		Artifacts: set,
	})

	out := buf.String()
	assert.Contains(t, out, "Generating backend (chunked)")
	assert.Contains(t, out, "backend/models.py attempt 2 (simplification level 1)")
	assert.Contains(t, out, "backend: success (1 files, 2 attempts)")
}

func TestStageReporter_SkippedStage(t *testing.T) {
	var buf bytes.Buffer
	r := NewStageReporter(&buf)
	r.caps.IsTTY = false

	r.StageCompleted(pipeline.StageExecution{
		Kind:   pipeline.StageTests,
		Status: pipeline.StatusSkipped,
	})

	assert.Contains(t, buf.String(), "tests skipped")
}

func TestSelectSymbols(t *testing.T) {
	unicode := SelectSymbols(TerminalCapabilities{SupportsUnicode: true})
	assert.Equal(t, "✓", unicode.Checkmark)

	ascii := SelectSymbols(TerminalCapabilities{})
	assert.Equal(t, "[OK]", ascii.Checkmark)
	assert.Equal(t, "[FAIL]", ascii.Failure)
}
