package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrUnreadable        = errors.New("file could not be read")
)

const (
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	mimeXLS  = "application/vnd.ms-excel"
	mimeCSV  = "text/csv"
)

type fileFormat int

const (
	formatUnknown fileFormat = iota
	formatSpreadsheet
	formatCSV
)

// Source is a file handed to the importer: where to read it, the name used
// for extension checks and the detected MIME type.
type Source struct {
	Path string
	Name string
	MIME string
}

// sourceFromPath sniffs the MIME type from content. A file that cannot be
// sniffed still gets a Source; the read itself reports the failure.
func sourceFromPath(path string) Source {
	src := Source{Path: path, Name: filepath.Base(path)}
	if mt, err := mimetype.DetectFile(path); err == nil {
		src.MIME = mt.String()
		// mimetype appends parameters such as "; charset=utf-8".
		if i := strings.IndexByte(src.MIME, ';'); i >= 0 {
			src.MIME = strings.TrimSpace(src.MIME[:i])
		}
	}
	return src
}

func (s Source) format() fileFormat {
	switch {
	case s.MIME == mimeXLSX || s.MIME == mimeXLS ||
		strings.HasSuffix(s.Name, ".xlsx") || strings.HasSuffix(s.Name, ".xls"):
		return formatSpreadsheet
	case s.MIME == mimeCSV || strings.HasSuffix(s.Name, ".csv"):
		return formatCSV
	default:
		return formatUnknown
	}
}

// legacy reports whether the BIFF reader is needed. Sniffed content wins
// over the file name.
func (s Source) legacy() bool {
	if s.MIME == mimeXLSX || strings.HasSuffix(s.Name, ".xlsx") {
		return false
	}
	return strings.HasSuffix(s.Name, ".xls") || s.MIME == mimeXLS
}

// Ingest classifies src, reads it and parses it into records. The returned
// error wraps ErrUnsupportedFormat or ErrUnreadable.
func Ingest(src Source) ([]Record, error) {
	format := src.format()
	if format == formatUnknown {
		return nil, fmt.Errorf("%s: %w", src.Name, ErrUnsupportedFormat)
	}

	content, err := os.ReadFile(src.Path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", src.Name, ErrUnreadable, err)
	}

	if format == formatCSV {
		return parseDelimited(content), nil
	}

	var records []Record
	if src.legacy() {
		records, err = parseLegacySpreadsheet(content)
	} else {
		records, err = parseSpreadsheet(content)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %v", src.Name, ErrUnreadable, err)
	}
	return records, nil
}

// normalizeDroppedPath undoes the quoting terminals apply when a file is
// dragged onto them.
func normalizeDroppedPath(raw string) string {
	p := strings.TrimSpace(raw)
	if len(p) >= 2 {
		if (p[0] == '\'' && p[len(p)-1] == '\'') || (p[0] == '"' && p[len(p)-1] == '"') {
			p = p[1 : len(p)-1]
		}
	}
	p = strings.TrimPrefix(p, "file://")
	p = strings.ReplaceAll(p, `\ `, " ")

	if strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, p[2:])
		}
	}
	return p
}
