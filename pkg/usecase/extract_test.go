package usecase_test

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/cpimport/cpimport/pkg/domain/model"
	"github.com/cpimport/cpimport/pkg/usecase"
)

type zipEntry struct {
	name string
	body string
}

// writeTestZip creates a zip archive at path with the given entries in
// order. Entries with a trailing slash become directory entries.
func writeTestZip(t *testing.T, path string, entries []zipEntry) {
	t.Helper()

	f, err := os.Create(path)
	gt.NoError(t, err)
	defer f.Close()

	w := zip.NewWriter(f)
	for _, e := range entries {
		ew, err := w.Create(e.name)
		gt.NoError(t, err)
		if e.body != "" {
			_, err = ew.Write([]byte(e.body))
			gt.NoError(t, err)
		}
	}
	gt.NoError(t, w.Close())
}

func TestExtractArchive_AllEntries(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.zip")
	dest := filepath.Join(dir, "out")
	gt.NoError(t, os.MkdirAll(dest, 0o755))

	writeTestZip(t, src, []zipEntry{
		{name: "docs/"},
		{name: "docs/readme.txt", body: "hello"},
		{name: "docs/nested/deep.txt", body: "deep"},
		{name: "top.txt", body: "top"},
	})

	result, err := usecase.ExtractArchive(src, dest, nil)
	gt.NoError(t, err)
	gt.Equal(t, result.EntryCount, 4)

	content, err := os.ReadFile(filepath.Join(dest, "docs", "readme.txt"))
	gt.NoError(t, err)
	gt.Equal(t, string(content), "hello")

	content, err = os.ReadFile(filepath.Join(dest, "docs", "nested", "deep.txt"))
	gt.NoError(t, err)
	gt.Equal(t, string(content), "deep")

	info, err := os.Stat(filepath.Join(dest, "docs"))
	gt.NoError(t, err)
	gt.True(t, info.IsDir())
}

func TestExtractArchive_NestedPackageHeuristic(t *testing.T) {
	tests := []struct {
		name     string
		entries  []zipEntry
		expected string
	}{
		{
			name: "zip within first three entries",
			entries: []zipEntry{
				{name: "readme.txt", body: "x"},
				{name: "package.zip", body: "x"},
				{name: "other.txt", body: "x"},
			},
			expected: "package.zip",
		},
		{
			name: "zip as fourth entry is not a candidate",
			entries: []zipEntry{
				{name: "a.txt", body: "x"},
				{name: "b.txt", body: "x"},
				{name: "c.txt", body: "x"},
				{name: "late.zip", body: "x"},
			},
			expected: "",
		},
		{
			name: "only the first qualifying entry is recorded",
			entries: []zipEntry{
				{name: "first.zip", body: "x"},
				{name: "second.zip", body: "x"},
			},
			expected: "first.zip",
		},
		{
			name: "suffix match is case-insensitive",
			entries: []zipEntry{
				{name: "PACKAGE.ZIP", body: "x"},
			},
			expected: "PACKAGE.ZIP",
		},
		{
			name: "no zip entries at all",
			entries: []zipEntry{
				{name: "a.txt", body: "x"},
				{name: "b.txt", body: "x"},
			},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			src := filepath.Join(dir, "src.zip")
			writeTestZip(t, src, tt.entries)

			result, err := usecase.ExtractArchive(src, filepath.Join(dir, "out"), nil)
			gt.NoError(t, err)
			gt.Equal(t, result.PackagePath, tt.expected)
		})
	}
}

func TestExtractArchive_Progress(t *testing.T) {
	tests := []struct {
		name     string
		count    int
		percents []int
	}{
		{
			name:     "ten entries cross every multiple",
			count:    10,
			percents: []int{20, 40, 60, 80, 100},
		},
		{
			name:     "two entries",
			count:    2,
			percents: []int{50, 100},
		},
		{
			name:     "single entry",
			count:    1,
			percents: []int{100},
		},
		{
			name:     "three entries",
			count:    3,
			percents: []int{33, 66, 100},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			src := filepath.Join(dir, "src.zip")

			entries := make([]zipEntry, tt.count)
			for i := range entries {
				entries[i] = zipEntry{name: "file-" + string(rune('a'+i)) + ".txt", body: "x"}
			}
			writeTestZip(t, src, entries)

			var got []int
			_, err := usecase.ExtractArchive(src, filepath.Join(dir, "out"), func(p model.Progress) {
				got = append(got, p.Percent)
				gt.Equal(t, p.Total, tt.count)
			})
			gt.NoError(t, err)
			gt.Equal(t, got, tt.percents)
			gt.True(t, len(got) <= 5)
		})
	}
}

func TestExtractArchive_RerunOverwrites(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "out")

	first := filepath.Join(dir, "first.zip")
	writeTestZip(t, first, []zipEntry{
		{name: "shared/"},
		{name: "shared/file.txt", body: "old"},
	})
	second := filepath.Join(dir, "second.zip")
	writeTestZip(t, second, []zipEntry{
		{name: "shared/"},
		{name: "shared/file.txt", body: "new"},
	})

	_, err := usecase.ExtractArchive(first, dest, nil)
	gt.NoError(t, err)

	// Directory entries must not fail on re-extraction, files are replaced
	_, err = usecase.ExtractArchive(second, dest, nil)
	gt.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(dest, "shared", "file.txt"))
	gt.NoError(t, err)
	gt.Equal(t, string(content), "new")
}

func TestExtractArchive_RejectsTraversal(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.zip")
	writeTestZip(t, src, []zipEntry{
		{name: "../escape.txt", body: "x"},
	})

	_, err := usecase.ExtractArchive(src, filepath.Join(dir, "out"), nil)
	gt.Error(t, err)

	_, statErr := os.Stat(filepath.Join(dir, "escape.txt"))
	gt.True(t, os.IsNotExist(statErr))
}

func TestExtractArchive_MissingArchive(t *testing.T) {
	dir := t.TempDir()
	_, err := usecase.ExtractArchive(filepath.Join(dir, "nope.zip"), filepath.Join(dir, "out"), nil)
	gt.Error(t, err)
}
