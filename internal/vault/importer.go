package vault

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"journal-ai/internal/contextutil"
	"journal-ai/internal/service"
	"journal-ai/internal/storage"
)

// sameDayLimit bounds the duplicate lookup for a single date.
const sameDayLimit = 200

// RecordWriter is the part of the journal service the importer needs.
type RecordWriter interface {
	AddRecord(ctx context.Context, ownerID int64, in service.RecordInput) (*storage.Record, error)
	ListRecords(ctx context.Context, ownerID int64, w storage.Window, limit int) ([]storage.Record, error)
}

// ImportStats summarizes an import run.
type ImportStats struct {
	OwnerID      int64         `json:"owner_id"`
	FilesScanned int           `json:"files_scanned"`
	Imported     int           `json:"imported"`
	Indexed      int           `json:"indexed"`
	Duplicates   int           `json:"duplicates"`
	Empty        int           `json:"empty"`
	Failed       int           `json:"failed"`
	FailedPaths  []string      `json:"failed_paths,omitempty"`
	Duration     time.Duration `json:"duration_ns"`
}

// Importer turns a directory of daily notes into journal records.
type Importer struct {
	writer RecordWriter
	parser *NoteParser
}

// NewImporter creates a new Importer.
func NewImporter(writer RecordWriter) *Importer {
	return &Importer{writer: writer, parser: NewNoteParser()}
}

// ImportDir scans root and adds one record per daily note. Notes whose content
// already exists for the same date are skipped, so re-running is safe.
// Per-file failures are counted; an unknown owner or cancellation stops the run.
func (im *Importer) ImportDir(ctx context.Context, ownerID int64, root string) (*ImportStats, error) {
	logger := contextutil.LoggerFromContext(ctx)
	started := time.Now()

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to open vault: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("vault path %s is not a directory", root)
	}

	files, err := Scan(ctx, root)
	if err != nil {
		return nil, err
	}
	logger.InfoContext(ctx, "starting import", "owner_id", ownerID, "root", root, "files", len(files))

	stats := &ImportStats{OwnerID: ownerID, FilesScanned: len(files)}
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		err := im.importFile(ctx, ownerID, f, stats)
		switch {
		case err == nil:
		case errors.Is(err, service.ErrNotFound), errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return stats, err
		default:
			stats.Failed++
			stats.FailedPaths = append(stats.FailedPaths, f.RelPath)
			logger.WarnContext(ctx, "failed to import note", "path", f.RelPath, "error", err)
		}
	}

	stats.Duration = time.Since(started)
	logger.InfoContext(ctx, "import completed",
		"owner_id", ownerID,
		"imported", stats.Imported,
		"indexed", stats.Indexed,
		"duplicates", stats.Duplicates,
		"empty", stats.Empty,
		"failed", stats.Failed,
		"duration_ms", stats.Duration.Milliseconds(),
	)
	return stats, nil
}

func (im *Importer) importFile(ctx context.Context, ownerID int64, f ScannedFile, stats *ImportStats) error {
	logger := contextutil.LoggerFromContext(ctx)

	raw, err := os.ReadFile(f.AbsPath)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", f.RelPath, err)
	}
	note := im.parser.Parse(f.RecordDate, raw)
	if note.MoodInvalid {
		logger.WarnContext(ctx, "ignoring mood outside 1-10", "path", f.RelPath)
	}
	if note.Content == "" {
		// Reflections alone still make a record.
		if note.Reflections == "" {
			stats.Empty++
			return nil
		}
		note.Content = note.Reflections
	}

	existing, err := im.writer.ListRecords(ctx, ownerID, storage.Window{Start: note.RecordDate, End: note.RecordDate}, sameDayLimit)
	if err != nil {
		return err
	}
	for _, rec := range existing {
		if strings.TrimSpace(rec.Content) == note.Content {
			stats.Duplicates++
			return nil
		}
	}

	rec, err := im.writer.AddRecord(ctx, ownerID, service.RecordInput{
		RecordDate:  note.RecordDate,
		Content:     note.Content,
		MoodScore:   note.MoodScore,
		Reflections: note.Reflections,
	})
	if err != nil {
		return err
	}
	stats.Imported++
	if rec.Embedded {
		stats.Indexed++
	}
	logger.DebugContext(ctx, "imported note", "path", f.RelPath, "record_id", rec.ID)
	return nil
}
