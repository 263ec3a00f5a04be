package batch

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"darkpdf/converter"
)

func TestWatcher_IgnoresOutputAndNonPDF(t *testing.T) {
	w := NewWatcher(nil, "root")

	cases := []struct {
		name string
		path string
		want bool
	}{
		{"pdf in job folder", filepath.Join("root", "Job1", "a.pdf"), false},
		{"file without extension", filepath.Join("root", "Job1", "README"), false},
		{"converted output", filepath.Join("root", "Job1", "DARK MODE", "a.pdf"), true},
		{"deep under output", filepath.Join("root", "Job1", "DARK MODE", "sub", "b.pdf"), true},
		{"temp office file", filepath.Join("root", "Job1", "~draft.docx"), true},
		{"uppercase extension", filepath.Join("root", "Job1", "B.PDF"), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, w.ignored(tc.path))
		})
	}
}

func TestWatcher_InitialRunAndCancellation(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Job1", "a.pdf"))

	r := newTestRunner(func(src, dst string, opts converter.Options) converter.Result {
		return converter.Result{Status: converter.StatusConverted}
	})

	w := NewWatcher(r, root)
	w.Debounce = 10 * time.Millisecond

	runs := make(chan *ScanResult, 1)
	w.OnRun = func(res *ScanResult) {
		select {
		case runs <- res:
		default:
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Watch(ctx) }()

	select {
	case res := <-runs:
		assert.Equal(t, 1, res.Converted)
	case <-time.After(5 * time.Second):
		t.Fatal("initial run never fired")
	}

	cancel()
	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop on cancel")
	}
}
