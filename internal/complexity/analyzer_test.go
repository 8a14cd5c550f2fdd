package complexity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyze_Deterministic(t *testing.T) {
	a := NewAnalyzer()
	text := "Create a task tracker with projects, tasks and real-time analytics charts"

	first := a.Analyze(text)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, a.Analyze(text))
	}
}

func TestAnalyze_SimpleBlog(t *testing.T) {
	a := NewAnalyzer()

	profile := a.Analyze("Create a simple blog with posts and comments")

	assert.Equal(t, LevelSimple, profile.Level)
	assert.Equal(t, StrategySingle, profile.Strategy)
	assert.False(t, profile.HasAdvancedFeatures)
	assert.Equal(t, 2, profile.EstimatedUnitCount) // posts, comments
}

func TestAnalyze_ComplexRequirement(t *testing.T) {
	a := NewAnalyzer()

	profile := a.Analyze(
		"Build a comprehensive platform with users, products, orders, invoices, " +
			"customers, reviews and messages. Each order belongs to a customer and has many " +
			"products. Include real-time analytics charts, search, notifications and email.")

	assert.Equal(t, LevelComplex, profile.Level)
	assert.Equal(t, StrategyChunked, profile.Strategy)
	assert.True(t, profile.HasRelationships)
	assert.True(t, profile.HasAdvancedFeatures)
	assert.GreaterOrEqual(t, profile.EstimatedUnitCount, 7)
}

func TestAnalyze_MonotonicScore(t *testing.T) {
	a := NewAnalyzer()

	base := "Create an app with posts and comments"
	withCues := base + " where posts have many comments and include search and analytics charts"

	assert.GreaterOrEqual(t, a.Analyze(withCues).Score, a.Analyze(base).Score)
}

func TestAnalyze_EmptyInput(t *testing.T) {
	a := NewAnalyzer()

	tests := map[string]string{
		"empty":      "",
		"whitespace": "   \n\t ",
	}

	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			profile := a.Analyze(input)
			assert.Equal(t, 0, profile.Score)
			assert.Equal(t, LevelSimple, profile.Level)
			assert.Equal(t, StrategySingle, profile.Strategy)
		})
	}
}

func TestAnalyze_ScoreBounds(t *testing.T) {
	a := NewAnalyzer()

	huge := ""
	for i := 0; i < 50; i++ {
		huge += "multiple various several complex advanced users posts orders products analytics search notification email has many belongs to "
	}

	profile := a.Analyze(huge)
	assert.LessOrEqual(t, profile.Score, 100)
	assert.GreaterOrEqual(t, profile.Score, 0)
}

func TestAnalyze_ChunkThreshold(t *testing.T) {
	tests := map[string]struct {
		threshold    int
		requirement  string
		wantStrategy Strategy
	}{
		"below threshold stays single": {
			threshold:    4,
			requirement:  "Track posts and comments",
			wantStrategy: StrategySingle,
		},
		"above threshold goes chunked": {
			threshold:    2,
			requirement:  "Track users, posts, comments and tags",
			wantStrategy: StrategyChunked,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			a := NewAnalyzer()
			a.ChunkThreshold = tc.threshold
			assert.Equal(t, tc.wantStrategy, a.Analyze(tc.requirement).Strategy)
		})
	}
}

func TestSimplify(t *testing.T) {
	a := NewAnalyzer()
	req := "Create a store with products and orders plus search, analytics charts and email notifications"

	t.Run("level 0 is verbatim", func(t *testing.T) {
		assert.Equal(t, req, a.Simplify(req, 0))
	})

	t.Run("level 1 defers advanced features", func(t *testing.T) {
		out := a.Simplify(req, 1)
		assert.Contains(t, out, req)
		assert.Contains(t, out, "can be added later")
	})

	t.Run("level 1 without advanced features is verbatim", func(t *testing.T) {
		plain := "Create a simple blog with posts"
		assert.Equal(t, plain, a.Simplify(plain, 1))
	})

	t.Run("level 2 reduces to minimal description", func(t *testing.T) {
		out := a.Simplify(req, 2)
		assert.Contains(t, out, "No advanced features")
		assert.NotContains(t, out, "analytics")
	})

	t.Run("levels are non-escalating in content", func(t *testing.T) {
		assert.Less(t, len(a.Simplify(req, 2)), len(a.Simplify(req, 1)))
	})
}
