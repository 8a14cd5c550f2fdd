package history

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileIsEmpty(t *testing.T) {
	h, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, h.Entries)
}

func TestWriter_AppendAndReload(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, 10)

	entry := NewEntry("Create a blog", "success", "/tmp/out/blog-123", 7, 42*time.Second)
	w.Log(entry)

	h, err := Load(dir)
	require.NoError(t, err)
	require.Len(t, h.Entries, 1)
	assert.Equal(t, entry.ID, h.Entries[0].ID)
	assert.Equal(t, "Create a blog", h.Entries[0].Requirement)
	assert.Equal(t, "success", h.Entries[0].Status)
	assert.Equal(t, 7, h.Entries[0].FilesWritten)
	assert.Equal(t, "42s", h.Entries[0].Duration)
}

func TestWriter_PrunesOldest(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, 3)

	for i := 0; i < 5; i++ {
		w.Log(NewEntry(fmt.Sprintf("req %d", i), "success", "", 0, time.Second))
	}

	h, err := Load(dir)
	require.NoError(t, err)
	require.Len(t, h.Entries, 3)
	assert.Equal(t, "req 2", h.Entries[0].Requirement)
	assert.Equal(t, "req 4", h.Entries[2].Requirement)
}

func TestWriter_ZeroMaxDisablesPruning(t *testing.T) {
	dir := t.TempDir()
	w := NewWriter(dir, 0)

	for i := 0; i < 5; i++ {
		w.Log(NewEntry(fmt.Sprintf("req %d", i), "degraded", "", 0, time.Second))
	}

	h, err := Load(dir)
	require.NoError(t, err)
	assert.Len(t, h.Entries, 5)
}

func TestRecent(t *testing.T) {
	h := &History{}
	for i := 0; i < 4; i++ {
		h.Entries = append(h.Entries, Entry{Requirement: fmt.Sprintf("req %d", i)})
	}

	recent := h.Recent(2)
	require.Len(t, recent, 2)
	assert.Equal(t, "req 3", recent[0].Requirement)
	assert.Equal(t, "req 2", recent[1].Requirement)

	assert.Len(t, h.Recent(0), 4)
	assert.Len(t, h.Recent(99), 4)
}

func TestEntryIDsAreUnique(t *testing.T) {
	a := NewEntry("x", "success", "", 0, 0)
	b := NewEntry("x", "success", "", 0, 0)
	assert.NotEqual(t, a.ID, b.ID)
}
