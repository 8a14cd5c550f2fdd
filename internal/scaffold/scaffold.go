// Package scaffold makes a run directory deploy-ready: a README describing
// the generated application, a .gitignore, and optionally an initialized git
// repository with an initial commit.
package scaffold

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/forgebee/forgebee/internal/pipeline"
)

const gitignore = `__pycache__/
*.pyc
.env
*.db
node_modules/
.next/
dist/
.DS_Store
`

// Apply writes the scaffold files into the run directory. When gitInit is
// set it also initializes a repository and commits everything.
func Apply(result pipeline.Result, gitInit bool) error {
	if result.OutputRoot == "" {
		return fmt.Errorf("result has no output directory")
	}

	if err := os.WriteFile(filepath.Join(result.OutputRoot, "README.md"), []byte(readme(result)), 0o644); err != nil {
		return fmt.Errorf("writing README: %w", err)
	}
	if err := os.WriteFile(filepath.Join(result.OutputRoot, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	if !gitInit {
		return nil
	}
	return initRepo(result.OutputRoot)
}

// initRepo initializes a git repository with a single commit of everything
// in the run directory.
func initRepo(dir string) error {
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		return fmt.Errorf("initializing repository: %w", err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("opening worktree: %w", err)
	}
	if err := worktree.AddGlob("."); err != nil {
		return fmt.Errorf("staging files: %w", err)
	}

	_, err = worktree.Commit("Initial generated application", &git.CommitOptions{
		Author: &object.Signature{
			Name:  "forgebee",
			Email: "forgebee@localhost",
			When:  time.Now(),
		},
	})
	if err != nil {
		return fmt.Errorf("creating initial commit: %w", err)
	}
	return nil
}

// readme summarizes the run for whoever opens the output directory.
func readme(result pipeline.Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Generated Application\n\n")
	fmt.Fprintf(&b, "Generated by forgebee from the requirement:\n\n> %s\n\n", result.Requirement)
	fmt.Fprintf(&b, "- Complexity: %s (score %d)\n", result.Profile.Level, result.Profile.Score)
	fmt.Fprintf(&b, "- Strategy: %s\n", result.Profile.Strategy)
	fmt.Fprintf(&b, "- Overall status: %s\n\n", result.OverallStatus)

	b.WriteString("## Layout\n\n")
	b.WriteString("| Directory | Contents | Status |\n")
	b.WriteString("|-----------|----------|--------|\n")
	rows := map[pipeline.StageKind]string{
		pipeline.StageDesign:   "Architecture specification",
		pipeline.StageBackend:  "FastAPI backend",
		pipeline.StageFrontend: "Next.js frontend",
		pipeline.StageTests:    "Test suite",
	}
	for _, kind := range pipeline.StageOrder() {
		status := "not run"
		if st := result.Stage(kind); st != nil {
			status = string(st.Status)
		}
		fmt.Fprintf(&b, "| %s/ | %s | %s |\n", kind, rows[kind], status)
	}

	b.WriteString("\n## Running the backend\n\n")
	b.WriteString("```sh\ncd backend\npip install fastapi uvicorn sqlalchemy pydantic\nuvicorn main:app --reload\n```\n")
	b.WriteString("\n## Running the frontend\n\n")
	b.WriteString("```sh\ncd frontend\nnpm install\nnpm run dev\n```\n")

	return b.String()
}
