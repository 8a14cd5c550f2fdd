package artifacts

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ManifestName is the per-stage manifest file written next to the artifacts.
const ManifestName = "manifest.yaml"

// FileStat describes one written artifact in a manifest.
type FileStat struct {
	Path  string `yaml:"path" json:"path"`
	Bytes int    `yaml:"bytes" json:"bytes"`
	Lines int    `yaml:"lines" json:"lines"`
}

// Manifest records what a stage produced.
type Manifest struct {
	Stage       string     `yaml:"stage" json:"stage"`
	GeneratedAt time.Time  `yaml:"generated_at" json:"generated_at"`
	Files       []FileStat `yaml:"files" json:"files,omitempty"`
}

// TotalBytes sums the sizes of all files in the manifest.
func (m Manifest) TotalBytes() int {
	n := 0
	for _, f := range m.Files {
		n += f.Bytes
	}
	return n
}

// Writer persists artifacts under a single run directory.
type Writer struct {
	root string
	now  func() time.Time
}

// NewWriter creates the run directory under baseDir, named from the
// requirement slug and timestamp. A name collision within the same second
// gets a numeric suffix.
func NewWriter(baseDir, requirement string, now time.Time) (*Writer, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	name := DirName(requirement, now)
	root := filepath.Join(baseDir, name)
	for i := 2; ; i++ {
		err := os.Mkdir(root, 0o755)
		if err == nil {
			break
		}
		if !os.IsExist(err) {
			return nil, fmt.Errorf("creating run directory: %w", err)
		}
		root = filepath.Join(baseDir, fmt.Sprintf("%s-%d", name, i))
	}

	return &Writer{root: root, now: time.Now}, nil
}

// Dir returns the run directory path.
func (w *Writer) Dir() string { return w.root }

// WriteStage writes every artifact in the set under <run>/<stage>/ and drops
// a manifest alongside them. Stages with no artifacts get neither a directory
// nor a manifest.
func (w *Writer) WriteStage(stage string, set *Set) (Manifest, error) {
	manifest := Manifest{Stage: stage, GeneratedAt: w.now()}
	if set == nil || set.Len() == 0 {
		return manifest, nil
	}

	stageDir := filepath.Join(w.root, stage)
	for _, f := range set.Files() {
		rel := filepath.FromSlash(f.Path)
		if err := atomicWrite(filepath.Join(stageDir, rel), []byte(f.Content)); err != nil {
			return manifest, fmt.Errorf("writing %s/%s: %w", stage, f.Path, err)
		}
		manifest.Files = append(manifest.Files, FileStat{
			Path:  f.Path,
			Bytes: len(f.Content),
			Lines: countLines(f.Content),
		})
	}

	data, err := yaml.Marshal(manifest)
	if err != nil {
		return manifest, fmt.Errorf("encoding manifest: %w", err)
	}
	if err := atomicWrite(filepath.Join(stageDir, ManifestName), data); err != nil {
		return manifest, fmt.Errorf("writing %s manifest: %w", stage, err)
	}
	return manifest, nil
}

// WriteRootFile writes a file directly under the run directory. Used for the
// complexity analysis and run summary documents.
func (w *Writer) WriteRootFile(name string, data []byte) error {
	if err := atomicWrite(filepath.Join(w.root, name), data); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}

// atomicWrite writes data to path using the temp file + rename pattern so a
// crash never leaves a partial artifact behind.
func atomicWrite(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

func countLines(content string) int {
	if content == "" {
		return 0
	}
	n := strings.Count(content, "\n")
	if !strings.HasSuffix(content, "\n") {
		n++
	}
	return n
}
