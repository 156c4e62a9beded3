package vault

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, rel)
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		t.Fatalf("Failed to create dir: %v", err)
	}
	if err := os.WriteFile(full, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}
}

func TestScan(t *testing.T) {
	root := t.TempDir()
	for _, rel := range []string{
		"2025/03/2025-03-10.md",
		"2025-03-02 周日.md",
		"2025/2025-01-15-standup.md",
		"notes/readme.md",
		"2025-02-30.md",
		"2025-03-11.txt",
		".obsidian/2025-03-01.md",
	} {
		writeFile(t, root, rel, "# Test")
	}

	files, err := Scan(context.Background(), root)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	want := []struct{ rel, date string }{
		{"2025/2025-01-15-standup.md", "2025-01-15"},
		{"2025-03-02 周日.md", "2025-03-02"},
		{"2025/03/2025-03-10.md", "2025-03-10"},
	}
	if len(files) != len(want) {
		t.Fatalf("Scan() returned %d files, want %d: %+v", len(files), len(want), files)
	}
	for i, w := range want {
		if files[i].RelPath != w.rel || files[i].RecordDate != w.date {
			t.Errorf("Scan()[%d] = %+v, want %s (%s)", i, files[i], w.rel, w.date)
		}
		if files[i].AbsPath != filepath.Join(root, filepath.FromSlash(w.rel)) {
			t.Errorf("Scan()[%d] AbsPath = %q", i, files[i].AbsPath)
		}
	}
}

func TestScan_MissingRoot(t *testing.T) {
	if _, err := Scan(context.Background(), filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("Scan() expected error for missing root")
	}
}

func TestScan_Cancelled(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "2025-03-10.md", "x")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := Scan(ctx, root); err == nil {
		t.Error("Scan() expected error for cancelled context")
	}
}

func TestNoteDate(t *testing.T) {
	tests := []struct {
		name   string
		want   string
		wantOK bool
	}{
		{"2025-03-10.md", "2025-03-10", true},
		{"2025-03-10 morning.md", "2025-03-10", true},
		{"2025-13-01.md", "", false},
		{"notes-2025-03-10.md", "", false},
		{"20250310.md", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := noteDate(tt.name)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("noteDate(%q) = %q, %v; want %q, %v", tt.name, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
