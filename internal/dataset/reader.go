package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"
)

// ReadCleanedCSV loads a previously exported cleaned record set, derived
// columns included. This is the dashboard's sole data source: the dashboard
// path never re-runs the loader or the cleaner.
//
// A missing file returns an error wrapping ErrCleanedDataMissing so callers
// can direct the user to run the analysis step first.
func ReadCleanedCSV(path string) (*RecordSet, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrCleanedDataMissing, path)
		}
		return nil, fmt.Errorf("open cleaned file: %w", err)
	}
	defer f.Close()

	rs, err := readCleaned(f)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return rs, nil
}

func readCleaned(r io.Reader) (*RecordSet, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	names, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyFile
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	known := map[string]bool{
		colCordUID: true, colTitle: true, colAbstract: true, colAuthors: true,
		colJournal: true, colPublishTime: true, colSourceX: true, colSource: true,
		colDOI: true, colURL: true,
		colPublicationYear: true, colPublicationMonth: true,
		colTitleLength: true, colTitleWordCount: true,
		colAbstractLength: true, colAbstractWordCount: true,
		colHasAbstract: true, colHasJournal: true,
	}

	idx := make(map[string]int, len(names))
	var extras []string
	for i, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		idx[name] = i
		if !known[name] {
			extras = append(extras, name)
		}
	}
	col := func(row []string, name string) string {
		i, ok := idx[name]
		if !ok {
			return ""
		}
		return field(row, i)
	}

	rs := &RecordSet{ExtraColumns: extras}
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		src := col(row, colSourceX)
		if src == "" {
			src = col(row, colSource)
		}
		rec := Record{
			CordUID:           col(row, colCordUID),
			Title:             col(row, colTitle),
			Abstract:          col(row, colAbstract),
			Authors:           col(row, colAuthors),
			Journal:           col(row, colJournal),
			Source:            src,
			PublishTimeRaw:    col(row, colPublishTime),
			DOI:               col(row, colDOI),
			URL:               col(row, colURL),
			PublicationYear:   atoiOrZero(col(row, colPublicationYear)),
			PublicationMonth:  time.Month(atoiOrZero(col(row, colPublicationMonth))),
			TitleLength:       atoiOrZero(col(row, colTitleLength)),
			TitleWordCount:    atoiOrZero(col(row, colTitleWordCount)),
			AbstractLength:    atoiOrZero(col(row, colAbstractLength)),
			AbstractWordCount: atoiOrZero(col(row, colAbstractWordCount)),
			HasAbstract:       col(row, colHasAbstract) == "true",
			HasJournal:        col(row, colHasJournal) == "true",
		}
		if ts := col(row, colPublishTime); ts != "" {
			if t, err := time.Parse("2006-01-02", ts); err == nil {
				rec.PublishedAt = &t
			}
		}
		if len(extras) > 0 {
			rec.Extra = make(map[string]string, len(extras))
			for _, name := range extras {
				rec.Extra[name] = col(row, name)
			}
		}
		rs.Records = append(rs.Records, rec)
	}
	return rs, nil
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
