package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Known source column names. The CORD-19 metadata export names the source
// column "source_x"; a plain "source" header is accepted as well.
const (
	colCordUID     = "cord_uid"
	colTitle       = "title"
	colAbstract    = "abstract"
	colAuthors     = "authors"
	colJournal     = "journal"
	colPublishTime = "publish_time"
	colSourceX     = "source_x"
	colSource      = "source"
	colDOI         = "doi"
	colURL         = "url"
)

// header maps source file columns onto record fields. Unrecognized columns
// are retained by name and index so their values survive as opaque metadata.
type header struct {
	cordUID     int
	title       int
	abstract    int
	authors     int
	journal     int
	source      int
	publishTime int
	doi         int
	url         int

	extraNames   []string
	extraIndexes []int
}

func parseHeader(names []string) header {
	h := header{
		cordUID: -1, title: -1, abstract: -1, authors: -1, journal: -1,
		source: -1, publishTime: -1, doi: -1, url: -1,
	}
	for i, name := range names {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case colCordUID:
			h.cordUID = i
		case colTitle:
			h.title = i
		case colAbstract:
			h.abstract = i
		case colAuthors:
			h.authors = i
		case colJournal:
			h.journal = i
		case colSourceX, colSource:
			h.source = i
		case colPublishTime:
			h.publishTime = i
		case colDOI:
			h.doi = i
		case colURL:
			h.url = i
		default:
			h.extraNames = append(h.extraNames, strings.TrimSpace(name))
			h.extraIndexes = append(h.extraIndexes, i)
		}
	}
	return h
}

// field returns the row value at idx, or "" when the column is absent or the
// row is too short. Short rows are tolerated: the missing fields become null.
func field(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// Load parses a delimited source file into a RecordSet, mapping columns by
// the file's header row.
//
// A missing path surfaces as an fs.ErrNotExist-wrapping error so callers can
// fall back to sample generation. An existing file that cannot be parsed as
// tabular data returns a *LoadError instead: corruption is never silently
// replaced by sample data.
func Load(path string, logger zerolog.Logger) (*RecordSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open source file: %w", err)
	}
	defer f.Close()

	rs, err := readRecords(f)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	logger.Info().
		Str("path", path).
		Int("records", rs.Len()).
		Int("extra_columns", len(rs.ExtraColumns)).
		Msg("source file loaded")
	return rs, nil
}

func readRecords(r io.Reader) (*RecordSet, error) {
	cr := csv.NewReader(r)
	// Ragged rows are a row-level issue, not a file-level one.
	cr.FieldsPerRecord = -1

	names, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyFile
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	h := parseHeader(names)

	rs := &RecordSet{ExtraColumns: append([]string(nil), h.extraNames...)}
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		rec := Record{
			CordUID:        field(row, h.cordUID),
			Title:          field(row, h.title),
			Abstract:       field(row, h.abstract),
			Authors:        field(row, h.authors),
			Journal:        field(row, h.journal),
			Source:         field(row, h.source),
			PublishTimeRaw: field(row, h.publishTime),
			DOI:            field(row, h.doi),
			URL:            field(row, h.url),
		}
		if len(h.extraNames) > 0 {
			rec.Extra = make(map[string]string, len(h.extraNames))
			for i, name := range h.extraNames {
				rec.Extra[name] = field(row, h.extraIndexes[i])
			}
		}
		rs.Records = append(rs.Records, rec)
	}
	return rs, nil
}
