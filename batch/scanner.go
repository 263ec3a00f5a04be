package batch

import (
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// DarkModeFolderName is the output folder created inside each job folder.
// It is never scanned, so converted output is never reprocessed.
const DarkModeFolderName = "DARK MODE"

// cncMarker excludes machine-operations folders by naming convention.
const cncMarker = "CNC"

// Scanner walks a directory tree and yields one Job per PDF, with the
// destination mirrored under the job folder's DARK MODE subfolder and the
// staleness decision already applied.
type Scanner struct{}

// NewScanner creates a scanner
func NewScanner() *Scanner {
	return &Scanner{}
}

// ExcludedDir reports whether a directory name is never traversed: the
// dark mode output folder itself and CNC-named folders.
func ExcludedDir(name string) bool {
	return name == DarkModeFolderName || strings.Contains(name, cncMarker)
}

// DestinationPath maps a source file to its dark mode output path. A file
// inside an immediate subfolder J of root maps to J/DARK MODE/<path within
// J>; a file directly in root maps to root/DARK MODE/<name>.
func DestinationPath(root, source string) string {
	rel, err := filepath.Rel(root, source)
	if err != nil {
		return filepath.Join(filepath.Dir(source), DarkModeFolderName, filepath.Base(source))
	}

	parts := strings.Split(rel, string(filepath.Separator))
	if len(parts) > 1 {
		jobFolder := parts[0]
		within := filepath.Join(parts[1:]...)
		return filepath.Join(root, jobFolder, DarkModeFolderName, within)
	}
	return filepath.Join(root, DarkModeFolderName, rel)
}

// Scan walks root depth-first in lexical order and returns the jobs plus
// counters. Files that are already up to date are recorded as skipped.
// Unreadable subtrees are noted on the result and the walk continues.
func (s *Scanner) Scan(root string) (*ScanResult, error) {
	root = filepath.Clean(root)
	result := &ScanResult{Root: root}

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable entry: report the subtree and keep going.
			result.SkippedDirs = append(result.SkippedDirs, path)
			return nil
		}

		if d.IsDir() {
			if path != root && ExcludedDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		if !strings.EqualFold(filepath.Ext(d.Name()), ".pdf") {
			return nil
		}

		job := &Job{
			ID:     uuid.New(),
			Source: path,
			Dest:   DestinationPath(root, path),
		}
		result.Jobs = append(result.Jobs, job)

		if !NeedsConversion(job.Source, job.Dest) {
			result.finalize(job, OutcomeSkipped, "already up to date")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
