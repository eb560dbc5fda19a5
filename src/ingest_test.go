package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func writeWorkbook(t *testing.T, name string, rows [][]interface{}) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cellRef, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return writeFile(t, name, buf.String())
}

func TestSource_Format(t *testing.T) {
	tests := []struct {
		name     string
		src      Source
		expected fileFormat
	}{
		{"xlsx mime", Source{Name: "deck", MIME: mimeXLSX}, formatSpreadsheet},
		{"xls mime", Source{Name: "deck", MIME: mimeXLS}, formatSpreadsheet},
		{"xlsx name", Source{Name: "deck.xlsx"}, formatSpreadsheet},
		{"xls name", Source{Name: "deck.xls", MIME: "application/octet-stream"}, formatSpreadsheet},
		{"csv mime", Source{Name: "deck.txt", MIME: mimeCSV}, formatCSV},
		{"csv name", Source{Name: "deck.csv", MIME: "text/plain"}, formatCSV},
		{"spreadsheet wins over csv", Source{Name: "deck.csv", MIME: mimeXLSX}, formatSpreadsheet},
		{"upper-case suffix without a sniffed type", Source{Name: "DECK.CSV"}, formatUnknown},
		{"plain text", Source{Name: "notes.txt", MIME: "text/plain"}, formatUnknown},
		{"no name no mime", Source{}, formatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.src.format())
		})
	}
}

func TestSource_Legacy(t *testing.T) {
	assert.True(t, Source{Name: "deck.xls"}.legacy())
	assert.True(t, Source{Name: "deck", MIME: mimeXLS}.legacy())
	assert.False(t, Source{Name: "deck.xlsx", MIME: mimeXLS}.legacy())
	assert.False(t, Source{Name: "deck", MIME: mimeXLSX}.legacy())
	assert.False(t, Source{Name: "deck.xls", MIME: mimeXLSX}.legacy())
}

func TestIngest_CSV(t *testing.T) {
	path := writeFile(t, "words.csv", "kanji,phonetic,meaning,example\n日,にち,sun,日曜日\n,,,\n")

	records, err := Ingest(sourceFromPath(path))

	require.NoError(t, err)
	assert.Equal(t, []Record{
		{ID: 0, Kanji: "日", Phonetic: "にち", Meaning: "sun", Example: "日曜日"},
	}, records)
}

func TestIngest_Spreadsheet(t *testing.T) {
	path := writeWorkbook(t, "words.xlsx", [][]interface{}{
		{"kanji", "phonetic", "meaning", "example"},
		{"月", "つき", "moon", "月曜日"},
	})

	records, err := Ingest(sourceFromPath(path))

	require.NoError(t, err)
	assert.Equal(t, []Record{
		{ID: 0, Kanji: "月", Phonetic: "つき", Meaning: "moon", Example: "月曜日"},
	}, records)
}

func TestIngest_XLSXNamedAsXLS(t *testing.T) {
	path := writeWorkbook(t, "words.xls", [][]interface{}{
		{"kanji", "phonetic", "meaning", "example"},
		{"月", "つき", "moon", "月曜日"},
	})

	src := sourceFromPath(path)
	records, err := Ingest(src)

	require.NoError(t, err)
	assert.Equal(t, mimeXLSX, src.MIME)
	assert.Equal(t, []Record{
		{ID: 0, Kanji: "月", Phonetic: "つき", Meaning: "moon", Example: "月曜日"},
	}, records)
}

func TestIngest_LegacySpreadsheet(t *testing.T) {
	records, err := Ingest(sourceFromPath(filepath.Join("testdata", "words.xls")))

	require.NoError(t, err)
	assert.Equal(t, []Record{
		{ID: 0, Kanji: "日", Phonetic: "にち", Meaning: "sun", Example: "日曜日"},
		{ID: 2, Kanji: "人", Phonetic: "ひと", Meaning: "person"},
	}, records)
}

// Content sniffing accepts CSV data whatever the file is called.
func TestIngest_SniffedCSV(t *testing.T) {
	content := "kanji,phonetic,meaning,example\n日,にち,sun,日曜日\n月,つき,moon,月曜日\n"

	for _, name := range []string{"WORDS.CSV", "words.txt"} {
		t.Run(name, func(t *testing.T) {
			src := sourceFromPath(writeFile(t, name, content))
			require.Equal(t, mimeCSV, src.MIME)

			records, err := Ingest(src)

			require.NoError(t, err)
			assert.Len(t, records, 2)
		})
	}
}

func TestIngest_SpreadsheetByMIME(t *testing.T) {
	path := writeWorkbook(t, "download", [][]interface{}{
		{"kanji", "phonetic", "meaning", "example"},
		{"火", "ひ", "fire"},
	})

	records, err := Ingest(Source{Path: path, Name: "download", MIME: mimeXLSX})

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "fire", records[0].Meaning)
}

func TestIngest_Errors(t *testing.T) {
	tests := []struct {
		name     string
		src      func(t *testing.T) Source
		expected error
	}{
		{
			name: "unsupported format",
			src: func(t *testing.T) Source {
				return sourceFromPath(writeFile(t, "notes.txt", "just some notes"))
			},
			expected: ErrUnsupportedFormat,
		},
		{
			name: "missing file",
			src: func(t *testing.T) Source {
				return sourceFromPath(filepath.Join(t.TempDir(), "gone.csv"))
			},
			expected: ErrUnreadable,
		},
		{
			name: "corrupt xlsx",
			src: func(t *testing.T) Source {
				return sourceFromPath(writeFile(t, "broken.xlsx", "not a zip archive"))
			},
			expected: ErrUnreadable,
		},
		{
			name: "corrupt xls",
			src: func(t *testing.T) Source {
				return sourceFromPath(writeFile(t, "broken.xls", "not a compound document"))
			},
			expected: ErrUnreadable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := Ingest(tt.src(t))

			assert.Nil(t, records)
			assert.True(t, errors.Is(err, tt.expected), "got %v", err)
		})
	}
}

func TestNormalizeDroppedPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{"plain", "/tmp/words.csv", "/tmp/words.csv"},
		{"surrounding whitespace", "  /tmp/words.csv \n", "/tmp/words.csv"},
		{"single quoted", "'/tmp/my words.csv'", "/tmp/my words.csv"},
		{"double quoted", `"/tmp/my words.csv"`, "/tmp/my words.csv"},
		{"escaped spaces", `/tmp/my\ words.csv`, "/tmp/my words.csv"},
		{"file url", "file:///tmp/words.csv", "/tmp/words.csv"},
		{"home", "~/words.csv", filepath.Join(home, "words.csv")},
		{"empty", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, normalizeDroppedPath(tt.raw))
		})
	}
}
