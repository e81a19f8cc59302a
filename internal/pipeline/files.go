package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nao1215/blindcheck/internal/document"
)

// CollectFiles expands the command line targets into the files to check.
// Directories contribute their *.pdf entries in name order, without
// descending into subdirectories. Files named explicitly must be PDFs by
// content, whatever their extension.
func CollectFiles(targets []string) ([]string, error) {
	files := make([]string, 0, len(targets))
	seen := make(map[string]bool)

	add := func(path string) {
		clean := filepath.Clean(path)
		if !seen[clean] {
			seen[clean] = true
			files = append(files, path)
		}
	}

	for _, target := range targets {
		info, err := os.Stat(target)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", target, err)
		}

		if !info.IsDir() {
			ok, err := document.IsPDF(target)
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, fmt.Errorf("%w: %s", document.ErrNotPDF, target)
			}
			add(target)
			continue
		}

		entries, err := os.ReadDir(target)
		if err != nil {
			return nil, fmt.Errorf("cannot read directory %s: %w", target, err)
		}
		// os.ReadDir returns entries sorted by file name.
		for _, entry := range entries {
			if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".pdf") {
				continue
			}
			add(filepath.Join(target, entry.Name()))
		}
	}

	return files, nil
}
