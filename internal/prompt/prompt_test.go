package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDesign(t *testing.T) {
	p := Design("Create a simple blog with posts")

	assert.Contains(t, p, "Create a simple blog with posts")
	assert.Contains(t, p, "database_schema")
	assert.Contains(t, p, "api_endpoints")
	assert.Contains(t, p, "Return ONLY valid JSON")
}

func TestBackendChunks(t *testing.T) {
	chunks := BackendChunks(`{"tables": []}`, "a blog")

	require.Len(t, chunks, 4)
	names := make([]string, 0, len(chunks))
	for _, c := range chunks {
		names = append(names, c.File)
		assert.Positive(t, c.MaxTokens)
		assert.Contains(t, c.Prompt, c.File)
		assert.Contains(t, c.Prompt, "a blog")
		assert.Contains(t, c.Prompt, `{"tables": []}`)
	}
	assert.Equal(t, []string{"models.py", "schemas.py", "routes.py", "main.py"}, names)
}

func TestFrontendChunks(t *testing.T) {
	chunks := FrontendChunks("{}", "backend context", "a blog")

	require.Len(t, chunks, 5)
	assert.Equal(t, "app/layout.tsx", chunks[0].File)
	for _, c := range chunks {
		assert.Contains(t, c.Prompt, "backend context")
	}
}

func TestTestChunks_CoversCategories(t *testing.T) {
	chunks := TestChunks("{}", "ctx", "a blog")

	categories := map[string]bool{}
	for _, c := range chunks {
		categories[strings.SplitN(c.File, "/", 2)[0]] = true
	}
	for _, want := range []string{"backend", "frontend", "e2e", "security", "contract"} {
		assert.True(t, categories[want], "missing category %s", want)
	}
}

func TestBackendContext(t *testing.T) {
	t.Run("lists files deterministically", func(t *testing.T) {
		files := map[string]string{"routes.py": "r", "main.py": "m", "models.py": "x"}
		ctx := BackendContext(files)
		assert.Equal(t, ctx, BackendContext(files))
		assert.Less(t, strings.Index(ctx, "main.py"), strings.Index(ctx, "models.py"))
	})

	t.Run("empty backend falls back to placeholder", func(t *testing.T) {
		assert.Equal(t, PlaceholderBackendContext(), BackendContext(nil))
	})
}
