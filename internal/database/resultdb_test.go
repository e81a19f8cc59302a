package database

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/nao1215/blindcheck/internal/model"
)

// setupTestDB creates a temporary database for testing.
func setupTestDB(t *testing.T) *ResultDB {
	t.Helper()

	rdb, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() {
		if err := rdb.Close(); err != nil {
			t.Errorf("failed to close database: %v", err)
		}
	})
	return rdb
}

// runWith builds a run holding one result per issue list, all for the same file.
func runWith(fileName, fingerprint string, issues ...model.Issue) *model.CheckRun {
	run := model.NewCheckRun(model.RunSettings{PageLimit: 10, ReferenceLimit: 2, Style: model.StyleIEEE})
	result := model.NewPaperResult(fileName)
	result.Title = "Test Infected"
	result.Pages = 12
	result.Fingerprint = fingerprint
	result.CheckedAt = time.Now()
	result.Issues = append(result.Issues, issues...)
	run.AddResult(result)
	return run
}

// TestOpen tests database creation and reopening.
func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database file", func(t *testing.T) {
		t.Parallel()

		dir := filepath.Join(t.TempDir(), "nested", "data")
		rdb, err := Open(dir, DefaultOptions())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer rdb.Close()

		if rdb.Path() != filepath.Join(dir, FileName) {
			t.Errorf("got path %q", rdb.Path())
		}
		if _, err := os.Stat(rdb.Path()); err != nil {
			t.Errorf("expected database file: %v", err)
		}
	})

	t.Run("returns ErrNotFound without create", func(t *testing.T) {
		t.Parallel()

		_, err := Open(t.TempDir(), Options{CreateIfNotExists: false})
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("reopens existing database", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		rdb, err := Open(dir, DefaultOptions())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := rdb.SaveRun(context.Background(), runWith("paper1.pdf", "abc")); err != nil {
			t.Fatalf("failed to save run: %v", err)
		}
		if err := rdb.Close(); err != nil {
			t.Fatalf("failed to close: %v", err)
		}

		reopened, err := Open(dir, Options{CreateIfNotExists: false, EnableWAL: true})
		if err != nil {
			t.Fatalf("failed to reopen: %v", err)
		}
		defer reopened.Close()

		files, err := reopened.ListFiles(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !reflect.DeepEqual(files, []string{"paper1.pdf"}) {
			t.Errorf("got %v", files)
		}
	})
}

// TestSaveRunAndLatestResults tests that results come back newest first.
func TestSaveRunAndLatestResults(t *testing.T) {
	t.Parallel()

	rdb := setupTestDB(t)
	ctx := context.Background()

	first := runWith("icse-paper13.pdf", "v1",
		model.NewCountIssue(model.TagOversize, 12),
		model.NewIssue(model.TagRevealingEmail, "kent@beck.com"))
	second := runWith("icse-paper13.pdf", "v2", model.NewCountIssue(model.TagOversize, 11))

	for _, run := range []*model.CheckRun{first, second} {
		if err := rdb.SaveRun(ctx, run); err != nil {
			t.Fatalf("failed to save run: %v", err)
		}
	}

	results, err := rdb.LatestResults(ctx, "icse-paper13.pdf", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, expected 2", len(results))
	}
	if results[0].RunID != second.ID || results[1].RunID != first.ID {
		t.Errorf("expected newest first, got %s then %s", results[0].RunID, results[1].RunID)
	}
	if results[0].ID <= results[1].ID {
		t.Errorf("expected descending ids, got %d then %d", results[0].ID, results[1].ID)
	}

	older := results[1].Result
	if older.Fingerprint != "v1" || older.Title != "Test Infected" || older.Pages != 12 {
		t.Errorf("unexpected stored result %+v", older)
	}
	if !reflect.DeepEqual(older.Tags(), []string{model.TagOversize, model.TagRevealingEmail}) {
		t.Errorf("got tags %v", older.Tags())
	}
	if older.Issues[1].Evidence != "kent@beck.com" {
		t.Errorf("got evidence %q", older.Issues[1].Evidence)
	}
}

// TestLatestResultsLimit tests the limit handling.
func TestLatestResultsLimit(t *testing.T) {
	t.Parallel()

	rdb := setupTestDB(t)
	ctx := context.Background()
	for range 3 {
		if err := rdb.SaveRun(ctx, runWith("paper.pdf", "x")); err != nil {
			t.Fatalf("failed to save run: %v", err)
		}
	}

	testCases := []struct {
		name     string
		limit    int
		expected int
	}{
		{"limited", 2, 2},
		{"whole history", 0, 3},
		{"negative limit", -1, 3},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			results, err := rdb.LatestResults(ctx, "paper.pdf", tc.limit)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(results) != tc.expected {
				t.Errorf("got %d results, expected %d", len(results), tc.expected)
			}
		})
	}

	t.Run("unknown file", func(t *testing.T) {
		t.Parallel()

		results, err := rdb.LatestResults(ctx, "missing.pdf", 2)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(results) != 0 {
			t.Errorf("expected no results, got %d", len(results))
		}
	})
}

// TestSaveRunFailedResult tests that failed checks are stored too.
func TestSaveRunFailedResult(t *testing.T) {
	t.Parallel()

	rdb := setupTestDB(t)
	ctx := context.Background()

	run := model.NewCheckRun(model.RunSettings{PageLimit: 10})
	failed := model.NewPaperResult("broken.pdf")
	failed.Error = "file is not a PDF document"
	run.AddResult(failed)

	if err := rdb.SaveRun(ctx, run); err != nil {
		t.Fatalf("failed to save run: %v", err)
	}

	results, err := rdb.LatestResults(ctx, "broken.pdf", 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 || !results[0].Result.Failed() {
		t.Errorf("expected stored failure, got %+v", results)
	}
}

// TestSaveRunDuplicateID tests that a failed save leaves nothing behind.
func TestSaveRunDuplicateID(t *testing.T) {
	t.Parallel()

	rdb := setupTestDB(t)
	ctx := context.Background()

	run := runWith("paper.pdf", "x")
	if err := rdb.SaveRun(ctx, run); err != nil {
		t.Fatalf("failed to save run: %v", err)
	}

	duplicate := runWith("other.pdf", "y")
	duplicate.ID = run.ID
	if err := rdb.SaveRun(ctx, duplicate); err == nil {
		t.Fatal("expected error for duplicate run id")
	}

	files, err := rdb.ListFiles(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(files, []string{"paper.pdf"}) {
		t.Errorf("expected rolled back save, got %v", files)
	}
}

// TestListFilesAndFingerprint tests the listing queries.
func TestListFilesAndFingerprint(t *testing.T) {
	t.Parallel()

	rdb := setupTestDB(t)
	ctx := context.Background()

	for _, run := range []*model.CheckRun{
		runWith("b-paper2.pdf", "same"),
		runWith("a-paper1.pdf", "same"),
		runWith("b-paper2.pdf", "other"),
	} {
		if err := rdb.SaveRun(ctx, run); err != nil {
			t.Fatalf("failed to save run: %v", err)
		}
	}

	files, err := rdb.ListFiles(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(files, []string{"a-paper1.pdf", "b-paper2.pdf"}) {
		t.Errorf("got %v", files)
	}

	matches, err := rdb.FindByFingerprint(ctx, "same")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(matches, []string{"a-paper1.pdf", "b-paper2.pdf"}) {
		t.Errorf("got %v", matches)
	}

	none, err := rdb.FindByFingerprint(ctx, "unknown")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(none) != 0 {
		t.Errorf("expected no matches, got %v", none)
	}
}
