// Package complexity scores plain-English requirements and selects a
// generation strategy. Scoring is deterministic: the same requirement text
// always produces the same profile, which makes retry planning and tests
// reproducible.
package complexity

import (
	"fmt"
	"regexp"
	"strings"
)

// Level classifies a requirement by its overall complexity score.
type Level string

const (
	LevelSimple   Level = "simple"
	LevelModerate Level = "moderate"
	LevelComplex  Level = "complex"
)

// Strategy selects how a stage's output is generated.
type Strategy string

const (
	// StrategySingle generates a stage's files in one provider call.
	StrategySingle Strategy = "single"
	// StrategyChunked generates each file in its own provider call.
	StrategyChunked Strategy = "chunked"
)

// Profile is the result of analyzing a requirement. It is a pure function of
// the requirement text.
type Profile struct {
	Score               int      `json:"score"`
	Level               Level    `json:"level"`
	EstimatedUnitCount  int      `json:"estimated_unit_count"`
	HasRelationships    bool     `json:"has_relationships"`
	HasAdvancedFeatures bool     `json:"has_advanced_features"`
	Strategy            Strategy `json:"strategy"`
	WordCount           int      `json:"word_count"`
	CoreFeatures        []string `json:"core_features"`
	AdvancedFeatures    []string `json:"advanced_features"`
}

// Keyword classes and their score weights. The weights and cut points are
// empirically chosen; they are exposed on Analyzer rather than hard-coded so
// callers can tune them.
var (
	structuralKeywords = []string{
		"multiple", "many", "various", "several", "complex",
		"advanced", "sophisticated", "comprehensive", "detailed",
	}

	relationalKeywords = []string{
		"relationship", "related", "linked", "connected", "belongs to",
		"has many", "many to many", "one to many", "foreign key",
	}

	featureKeywords = []string{
		"search", "filter", "pagination", "sort", "export",
		"chart", "graph", "analytics", "dashboard", "report",
		"notification", "email", "authentication", "authorization",
		"real-time",
	}

	// entityPattern matches nouns that usually become database tables.
	entityPattern = regexp.MustCompile(`\b(users?|posts?|articles?|comments?|products?|orders?|categor(?:y|ies)|workouts?|exercises?|sessions?|goals?|achievements?|routines?|invoices?|customers?|projects?|tasks?|events?|bookings?|reviews?|messages?|tags?)\b`)
)

const (
	structuralWeight = 10
	relationalWeight = 15
	featureWeight    = 8
	entityWeight     = 12

	advancedFeatureFloor = 2 // more than this many feature cues counts as advanced
)

// Analyzer scores requirements. The zero value is not usable; construct with
// NewAnalyzer and override thresholds as needed.
type Analyzer struct {
	// SimpleCutoff and ModerateCutoff are the score cut points between
	// simple/moderate and moderate/complex.
	SimpleCutoff   int
	ModerateCutoff int
	// ChunkThreshold is the estimated unit count above which chunked
	// generation is selected even for non-complex requirements.
	ChunkThreshold int
}

// NewAnalyzer returns an Analyzer with the default thresholds (30/60 cut
// points, chunk above 4 units).
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		SimpleCutoff:   30,
		ModerateCutoff: 60,
		ChunkThreshold: 4,
	}
}

// Analyze scores the requirement and selects a generation strategy.
// Empty input yields the minimum score and the single strategy.
func (a *Analyzer) Analyze(requirement string) Profile {
	trimmed := strings.TrimSpace(requirement)
	if trimmed == "" {
		return Profile{
			Level:        LevelSimple,
			Strategy:     StrategySingle,
			CoreFeatures: []string{"Full CRUD operations"},
		}
	}

	lower := strings.ToLower(trimmed)
	words := len(strings.Fields(trimmed))

	structural := countKeywords(lower, structuralKeywords)
	relational := countKeywords(lower, relationalKeywords)
	features := countKeywords(lower, featureKeywords)
	units := estimateUnitCount(lower)

	score := structural*structuralWeight +
		relational*relationalWeight +
		features*featureWeight +
		units*entityWeight +
		words/10
	if score > 100 {
		score = 100
	}

	level := LevelComplex
	switch {
	case score < a.SimpleCutoff:
		level = LevelSimple
	case score < a.ModerateCutoff:
		level = LevelModerate
	}

	strategy := StrategySingle
	if units > a.ChunkThreshold || level == LevelComplex {
		strategy = StrategyChunked
	}

	return Profile{
		Score:               score,
		Level:               level,
		EstimatedUnitCount:  units,
		HasRelationships:    relational > 0,
		HasAdvancedFeatures: features > advancedFeatureFloor,
		Strategy:            strategy,
		WordCount:           words,
		CoreFeatures:        coreFeatures(lower),
		AdvancedFeatures:    advancedFeatures(lower),
	}
}

// countKeywords counts how many of the keywords appear in the text.
// Presence, not frequency: each keyword contributes at most once, which keeps
// the score monotonic in the set of cues present.
func countKeywords(lower string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			n++
		}
	}
	return n
}

// estimateUnitCount counts distinct entity nouns as a proxy for the number of
// models/tables the generated application will need.
func estimateUnitCount(lower string) int {
	seen := map[string]bool{}
	for _, m := range entityPattern.FindAllString(lower, -1) {
		seen[singular(m)] = true
	}
	if len(seen) == 0 {
		return 1
	}
	return len(seen)
}

// singular folds trivial plurals so "post" and "posts" count once.
func singular(w string) string {
	if strings.HasSuffix(w, "ies") {
		return strings.TrimSuffix(w, "ies") + "y"
	}
	if strings.HasSuffix(w, "s") && !strings.HasSuffix(w, "ss") {
		return strings.TrimSuffix(w, "s")
	}
	return w
}

func coreFeatures(lower string) []string {
	var core []string
	if strings.Contains(lower, "create") || strings.Contains(lower, "add") {
		core = append(core, "Create operations")
	}
	if strings.Contains(lower, "read") || strings.Contains(lower, "view") || strings.Contains(lower, "list") {
		core = append(core, "Read operations")
	}
	if strings.Contains(lower, "update") || strings.Contains(lower, "edit") || strings.Contains(lower, "modify") {
		core = append(core, "Update operations")
	}
	if strings.Contains(lower, "delete") || strings.Contains(lower, "remove") {
		core = append(core, "Delete operations")
	}
	if len(core) == 0 {
		core = []string{"Full CRUD operations"}
	}
	return core
}

func advancedFeatures(lower string) []string {
	var adv []string
	checks := []struct {
		cues    []string
		feature string
	}{
		{[]string{"search"}, "Search functionality"},
		{[]string{"filter"}, "Filtering"},
		{[]string{"pagination", "page"}, "Pagination"},
		{[]string{"sort"}, "Sorting"},
		{[]string{"chart", "graph", "analytics"}, "Charts and analytics"},
		{[]string{"export"}, "Data export"},
		{[]string{"notification"}, "Notifications"},
		{[]string{"email"}, "Email integration"},
		{[]string{"real-time", "realtime"}, "Real-time updates"},
	}
	for _, c := range checks {
		for _, cue := range c.cues {
			if strings.Contains(lower, cue) {
				adv = append(adv, c.feature)
				break
			}
		}
	}
	return adv
}

// Simplify derives a reduced version of the requirement for a retry attempt.
// Level 0 returns the requirement verbatim. Level 1 keeps the requirement but
// defers advanced features. Level 2 and above reduce it to a minimal
// core-entity description. Pure text transformation, no provider calls.
func (a *Analyzer) Simplify(requirement string, level int) string {
	if level <= 0 {
		return requirement
	}

	profile := a.Analyze(requirement)

	if level == 1 {
		if len(profile.AdvancedFeatures) == 0 {
			return requirement
		}
		deferred := profile.AdvancedFeatures
		if len(deferred) > 2 {
			deferred = deferred[:2]
		}
		return fmt.Sprintf(
			"%s\n\nNOTE: Focus on core CRUD operations. Advanced features (%s) can be added later.",
			requirement, strings.Join(deferred, ", "))
	}

	entities := profile.EstimatedUnitCount - 2
	if entities < 2 {
		entities = 2
	}
	return fmt.Sprintf(
		"Create a simple CRUD application with %d core entities. "+
			"Focus on basic Create, Read, Update, Delete operations only. No advanced features.",
		entities)
}
