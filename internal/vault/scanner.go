package vault

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"time"

	"journal-ai/internal/storage"
)

var datePrefix = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})`)

// ScannedFile is a daily note found under the vault root.
type ScannedFile struct {
	RelPath    string // Relative path from vault root (e.g., "2025/2025-03-10.md")
	AbsPath    string // Absolute file path
	RecordDate string // Date taken from the file name, YYYY-MM-DD
}

// Scan walks root and returns every markdown file whose name starts with a
// valid date, oldest first. Files sharing a date keep path order.
func Scan(ctx context.Context, root string) ([]ScannedFile, error) {
	var files []ScannedFile

	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return fmt.Errorf("failed to access path %s: %w", path, err)
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		if info.IsDir() {
			// Skip .obsidian directory (Obsidian configuration)
			if info.Name() == ".obsidian" {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".md" {
			return nil
		}

		date, ok := noteDate(info.Name())
		if !ok {
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return fmt.Errorf("failed to compute relative path for %s: %w", path, err)
		}
		files = append(files, ScannedFile{
			RelPath:    filepath.ToSlash(relPath),
			AbsPath:    path,
			RecordDate: date,
		})
		return nil
	})
	if err != nil {
		return files, fmt.Errorf("failed to scan %s: %w", root, err)
	}

	sort.SliceStable(files, func(i, j int) bool {
		return files[i].RecordDate < files[j].RecordDate
	})
	return files, nil
}

// noteDate extracts the leading date of a file name such as "2025-03-10 周一.md".
func noteDate(name string) (string, bool) {
	m := datePrefix.FindStringSubmatch(name)
	if m == nil {
		return "", false
	}
	if _, err := time.Parse(storage.DateLayout, m[1]); err != nil {
		return "", false
	}
	return m[1], true
}
