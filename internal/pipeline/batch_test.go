package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nao1215/blindcheck/internal/checker"
	"github.com/nao1215/blindcheck/internal/document"
	"github.com/nao1215/blindcheck/internal/model"
)

// TestBatchProcessorNew tests the BatchProcessor constructor.
func TestBatchProcessorNew(t *testing.T) {
	t.Parallel()

	t.Run("creates processor with defaults", func(t *testing.T) {
		t.Parallel()

		bp := NewBatchProcessor(func() *Pipeline { return New() })
		if bp.concurrency != DefaultConcurrency {
			t.Errorf("expected default concurrency %d, got %d", DefaultConcurrency, bp.concurrency)
		}
	})

	t.Run("applies WithConcurrency option", func(t *testing.T) {
		t.Parallel()

		bp := NewBatchProcessor(func() *Pipeline { return New() }, WithConcurrency(2))
		if bp.concurrency != 2 {
			t.Errorf("expected concurrency 2, got %d", bp.concurrency)
		}
	})

	t.Run("ignores non-positive concurrency", func(t *testing.T) {
		t.Parallel()

		bp := NewBatchProcessor(func() *Pipeline { return New() }, WithConcurrency(0))
		if bp.concurrency != DefaultConcurrency {
			t.Errorf("expected concurrency %d, got %d", DefaultConcurrency, bp.concurrency)
		}
	})
}

// batchDocs returns n in-memory documents and their paths; paper i has i pages.
func batchDocs(n int) (map[string]*document.Memory, []string) {
	docs := make(map[string]*document.Memory, n)
	paths := make([]string, 0, n)
	for i := range n {
		name := fmt.Sprintf("conf-paper%d.pdf", i+1)
		pages := make([]string, i+1)
		for p := range pages {
			pages[p] = fmt.Sprintf("Title %d\nPage %d", i+1, p+1)
		}
		docs[name] = document.NewMemory(name, pages)
		paths = append(paths, filepath.Join("submissions", name))
	}
	return docs, paths
}

// TestProcessBatchOrder tests that results keep input order and failures are isolated.
func TestProcessBatchOrder(t *testing.T) {
	t.Parallel()

	docs, paths := batchDocs(6)
	paths = append(paths[:3], append([]string{"submissions/missing-paper7.pdf"}, paths[3:]...)...)

	bp := NewBatchProcessor(func() *Pipeline {
		p := New()
		p.AddSteps(NewOpenStep(memoryOpener(docs)), NewAnalyzeStep(checker.DefaultConfig(), nil))
		return p
	}, WithConcurrency(3))

	results, err := bp.ProcessBatch(context.Background(), paths)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != len(paths) {
		t.Fatalf("got %d results, expected %d", len(results), len(paths))
	}

	for i, result := range results {
		if result.FileName != filepath.Base(paths[i]) {
			t.Errorf("result %d: got %q, expected %q", i, result.FileName, filepath.Base(paths[i]))
		}
		if result.Path != paths[i] {
			t.Errorf("result %d: got path %q, expected %q", i, result.Path, paths[i])
		}
		if result.CheckedAt.IsZero() {
			t.Errorf("result %d: expected check time", i)
		}
	}

	if !results[3].Failed() {
		t.Error("expected missing file to fail")
	}
	for _, i := range []int{0, 1, 2, 4, 5, 6} {
		if results[i].Failed() {
			t.Errorf("result %d: unexpected error %q", i, results[i].Error)
		}
	}
	if results[4].Pages != 4 {
		t.Errorf("got %d pages, expected 4", results[4].Pages)
	}
}

// TestProcessBatchConcurrencyLimit tests that no more than the limit run at once.
func TestProcessBatchConcurrencyLimit(t *testing.T) {
	t.Parallel()

	var running, peak atomic.Int32
	slow := func(context.Context, *Job, *model.PaperResult) error {
		n := running.Add(1)
		for {
			old := peak.Load()
			if n <= old || peak.CompareAndSwap(old, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		running.Add(-1)
		return nil
	}

	bp := NewBatchProcessor(func() *Pipeline {
		p := New()
		p.AddStep(&mockStep{name: "slow", doFunc: slow})
		return p
	}, WithConcurrency(2))

	paths := make([]string, 8)
	for i := range paths {
		paths[i] = fmt.Sprintf("p%d.pdf", i)
	}
	if _, err := bp.ProcessBatch(context.Background(), paths); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := peak.Load(); got > 2 {
		t.Errorf("peak concurrency %d exceeds limit 2", got)
	}
}

// TestProcessBatchCancelled tests that a cancelled batch still returns one result per file.
func TestProcessBatchCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	bp := NewBatchProcessor(func() *Pipeline { return New() })
	results, err := bp.ProcessBatch(ctx, []string{"a.pdf", "b.pdf"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, expected 2", len(results))
	}
	for _, result := range results {
		if result == nil || !result.Failed() {
			t.Errorf("expected failed result, got %+v", result)
		}
	}
}

// TestProcessBatchWithCallback tests streaming of results.
func TestProcessBatchWithCallback(t *testing.T) {
	t.Parallel()

	docs, paths := batchDocs(5)
	bp := NewBatchProcessor(func() *Pipeline {
		p := New()
		p.AddSteps(NewOpenStep(memoryOpener(docs)), NewFingerprintStep())
		return p
	})

	var mu sync.Mutex
	seen := make(map[int]string)
	err := bp.ProcessBatchWithCallback(context.Background(), paths, func(result *model.PaperResult, index int) {
		mu.Lock()
		defer mu.Unlock()
		seen[index] = result.FileName
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(seen) != len(paths) {
		t.Fatalf("got %d callbacks, expected %d", len(seen), len(paths))
	}
	for i, path := range paths {
		if seen[i] != filepath.Base(path) {
			t.Errorf("index %d: got %q, expected %q", i, seen[i], filepath.Base(path))
		}
	}
}

// TestFillCancelled tests that only missing results are filled in.
func TestFillCancelled(t *testing.T) {
	t.Parallel()

	paths := []string{"papers/icse-paper1.pdf", "papers/icse-paper13.pdf", "papers/icse-paper42.pdf"}

	testCases := []struct {
		name     string
		batchErr error
		expected string
	}{
		{"deadline", context.DeadlineExceeded, context.DeadlineExceeded.Error()},
		{"no batch error", nil, context.Canceled.Error()},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			done := model.NewPaperResult("icse-paper13.pdf")
			results := []*model.PaperResult{nil, done, nil}
			FillCancelled(paths, results, tc.batchErr)

			if results[1] != done {
				t.Error("expected the finished result to be kept")
			}
			for _, i := range []int{0, 2} {
				result := results[i]
				if result == nil {
					t.Fatalf("expected result %d to be filled in", i)
				}
				if result.Path != paths[i] || result.FileName != filepath.Base(paths[i]) {
					t.Errorf("got path %q name %q for %q", result.Path, result.FileName, paths[i])
				}
				if result.Error != tc.expected {
					t.Errorf("got error %q, expected %q", result.Error, tc.expected)
				}
			}
		})
	}
}

// TestCollectFiles tests expansion of files and directories.
func TestCollectFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	pdf := []byte("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n")
	for _, name := range []string{"b-paper2.pdf", "a-paper1.PDF", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), pdf, 0o600); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "nested.pdf"), 0o700); err != nil {
		t.Fatalf("failed to create directory: %v", err)
	}
	text := filepath.Join(dir, "fake.pdf")
	if err := os.WriteFile(text, []byte("not a pdf"), 0o600); err != nil {
		t.Fatalf("failed to write fake.pdf: %v", err)
	}

	t.Run("directory expands to sorted PDFs", func(t *testing.T) {
		t.Parallel()

		files, err := CollectFiles([]string{dir})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		expected := []string{
			filepath.Join(dir, "a-paper1.PDF"),
			filepath.Join(dir, "b-paper2.pdf"),
			filepath.Join(dir, "fake.pdf"),
		}
		if fmt.Sprint(files) != fmt.Sprint(expected) {
			t.Errorf("got %v, expected %v", files, expected)
		}
	})

	t.Run("explicit file is kept once", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(dir, "b-paper2.pdf")
		files, err := CollectFiles([]string{path, path})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(files) != 1 || files[0] != path {
			t.Errorf("got %v, expected [%s]", files, path)
		}
	})

	t.Run("explicit non-PDF returns ErrNotPDF", func(t *testing.T) {
		t.Parallel()

		if _, err := CollectFiles([]string{text}); !errors.Is(err, document.ErrNotPDF) {
			t.Errorf("expected ErrNotPDF, got %v", err)
		}
	})

	t.Run("missing target returns error", func(t *testing.T) {
		t.Parallel()

		if _, err := CollectFiles([]string{filepath.Join(dir, "missing.pdf")}); err == nil {
			t.Error("expected error for missing target")
		}
	})
}
