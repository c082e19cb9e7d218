package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// Derived column names in the cleaned export.
const (
	colPublicationYear   = "publication_year"
	colPublicationMonth  = "publication_month"
	colTitleLength       = "title_length"
	colTitleWordCount    = "title_word_count"
	colAbstractLength    = "abstract_length"
	colAbstractWordCount = "abstract_word_count"
	colHasAbstract       = "has_abstract"
	colHasJournal        = "has_journal"
)

// Cleaned export layout: raw columns first, derived columns second, then any
// extra source columns in first-seen order. The source column is written as
// "source_x" to stay compatible with the CORD-19 metadata naming.
var (
	rawColumns = []string{
		colCordUID, colTitle, colAbstract, colAuthors, colJournal,
		colPublishTime, colSourceX, colDOI, colURL,
	}
	derivedColumns = []string{
		colPublicationYear, colPublicationMonth,
		colTitleLength, colTitleWordCount,
		colAbstractLength, colAbstractWordCount,
		colHasAbstract, colHasJournal,
	}
)

// WriteCleanedCSV writes a cleaned record set to w with a stable column
// order. Missing dates and zero year/month values are written as empty
// fields, matching the null representation of the rest of the pipeline.
func WriteCleanedCSV(rs *RecordSet, w io.Writer) error {
	cw := csv.NewWriter(w)

	header := make([]string, 0, len(rawColumns)+len(derivedColumns)+len(rs.ExtraColumns))
	header = append(header, rawColumns...)
	header = append(header, derivedColumns...)
	header = append(header, rs.ExtraColumns...)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	row := make([]string, 0, len(header))
	for i := range rs.Records {
		rec := &rs.Records[i]
		row = row[:0]

		publishTime := ""
		if rec.PublishedAt != nil {
			publishTime = rec.PublishedAt.Format("2006-01-02")
		}
		row = append(row,
			rec.CordUID, rec.Title, rec.Abstract, rec.Authors, rec.Journal,
			publishTime, rec.Source, rec.DOI, rec.URL,
			intOrEmpty(rec.PublicationYear), intOrEmpty(int(rec.PublicationMonth)),
			strconv.Itoa(rec.TitleLength), strconv.Itoa(rec.TitleWordCount),
			strconv.Itoa(rec.AbstractLength), strconv.Itoa(rec.AbstractWordCount),
			strconv.FormatBool(rec.HasAbstract), strconv.FormatBool(rec.HasJournal),
		)
		for _, name := range rs.ExtraColumns {
			row = append(row, rec.Extra[name])
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteCleanedFile writes the cleaned record set to the given path.
func WriteCleanedFile(rs *RecordSet, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create cleaned file: %w", err)
	}
	if err := WriteCleanedCSV(rs, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func intOrEmpty(v int) string {
	if v == 0 {
		return ""
	}
	return strconv.Itoa(v)
}
