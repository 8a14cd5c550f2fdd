package artifacts

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestSet_AddSkipsEmpty(t *testing.T) {
	s := NewSet()

	assert.True(t, s.Add("main.py", "print('hi')"))
	assert.False(t, s.Add("empty.py", ""))
	assert.False(t, s.Add("blank.py", "  \n\t "))

	assert.Equal(t, 1, s.Len())
	assert.Equal(t, "main.py", s.Files()[0].Path)
}

func TestSet_AddReplacesInPlace(t *testing.T) {
	s := NewSet()
	s.Add("a.py", "first")
	s.Add("b.py", "second")
	s.Add("a.py", "replaced")

	files := s.Files()
	require.Len(t, files, 2)
	assert.Equal(t, "a.py", files[0].Path)
	assert.Equal(t, "replaced", files[0].Content)
	assert.Equal(t, "b.py", files[1].Path)
}

func TestSlugify(t *testing.T) {
	tests := map[string]struct {
		requirement string
		want        string
	}{
		"basic":          {"Create a simple blog", "create-a-simple-blog"},
		"truncates":      {"Create a simple blog with posts and comments", "create-a-simple-blog"},
		"punctuation":    {"Build: a TODO app!", "build-a-todo-app"},
		"empty":          {"", "generated-app"},
		"symbols only":   {"!!! ???", "generated-app"},
		"mixed case":     {"Track My Workouts", "track-my-workouts"},
		"internal runs":  {"user's fitness/health tracker", "user-s-fitness-health-tracker"},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, Slugify(tc.requirement))
		})
	}
}

func TestDirName(t *testing.T) {
	now := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)
	assert.Equal(t, "create-a-simple-blog-20260314-150926", DirName("Create a simple blog", now))
}

func TestWriter_WriteStage(t *testing.T) {
	base := t.TempDir()
	now := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

	w, err := NewWriter(base, "Create a simple blog", now)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "create-a-simple-blog-20260314-150926"), w.Dir())

	set := NewSet()
	set.Add("main.py", "print('hi')\n")
	set.Add("app/models.py", "class Post:\n    pass\n")

	manifest, err := w.WriteStage("backend", set)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(w.Dir(), "backend", "main.py"))
	require.NoError(t, err)
	assert.Equal(t, "print('hi')\n", string(data))

	data, err = os.ReadFile(filepath.Join(w.Dir(), "backend", "app", "models.py"))
	require.NoError(t, err)
	assert.Equal(t, "class Post:\n    pass\n", string(data))

	require.Len(t, manifest.Files, 2)
	assert.Equal(t, "main.py", manifest.Files[0].Path)
	assert.Equal(t, 1, manifest.Files[0].Lines)
	assert.Equal(t, 2, manifest.Files[1].Lines)
	assert.Equal(t, manifest.Files[0].Bytes+manifest.Files[1].Bytes, manifest.TotalBytes())

	var onDisk Manifest
	raw, err := os.ReadFile(filepath.Join(w.Dir(), "backend", ManifestName))
	require.NoError(t, err)
	require.NoError(t, yaml.Unmarshal(raw, &onDisk))
	assert.Equal(t, "backend", onDisk.Stage)
	assert.Len(t, onDisk.Files, 2)
}

func TestWriter_EmptyStageWritesNothing(t *testing.T) {
	base := t.TempDir()
	w, err := NewWriter(base, "empty run", time.Now())
	require.NoError(t, err)

	manifest, err := w.WriteStage("frontend", NewSet())
	require.NoError(t, err)
	assert.Empty(t, manifest.Files)

	_, statErr := os.Stat(filepath.Join(w.Dir(), "frontend"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestWriter_CollisionGetsSuffix(t *testing.T) {
	base := t.TempDir()
	now := time.Date(2026, 3, 14, 15, 9, 26, 0, time.UTC)

	first, err := NewWriter(base, "same requirement", now)
	require.NoError(t, err)
	second, err := NewWriter(base, "same requirement", now)
	require.NoError(t, err)

	assert.NotEqual(t, first.Dir(), second.Dir())
	assert.Equal(t, first.Dir()+"-2", second.Dir())
}

func TestWriter_WriteRootFile(t *testing.T) {
	base := t.TempDir()
	w, err := NewWriter(base, "root file run", time.Now())
	require.NoError(t, err)

	require.NoError(t, w.WriteRootFile("complexity_analysis.json", []byte(`{"score": 12}`)))

	data, err := os.ReadFile(filepath.Join(w.Dir(), "complexity_analysis.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"score": 12}`, string(data))

	entries, err := os.ReadDir(w.Dir())
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp")
	}
}
