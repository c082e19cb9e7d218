// Package cleaning implements the data cleaning and derived-feature pipeline
// shared by the analysis run and the dashboard export. Cleaning is a pure,
// idempotent transformation: running it over already-clean input changes
// nothing and removes nothing.
package cleaning

import (
	"strings"
	"unicode/utf8"

	"github.com/helixir/cord19-explorer/internal/dataset"
)

// Result summarizes what a cleaning run did, for reporting.
type Result struct {
	InputRecords      int
	OutputRecords     int
	DuplicatesRemoved int
	DatesParsed       int
	DatesUnparseable  int
}

// Clean normalizes raw records, derives computed fields, and removes
// duplicate titles. The input set is not modified. Steps, in order:
//
//  1. trim whitespace on categorical text fields (journal, source); empty
//     after trim becomes the null representation,
//  2. best-effort publish date parsing; failure yields a null date, never an
//     error and never a dropped row,
//  3. publication year and month derived from a parsed date only, both set
//     or both absent,
//  4. length and word-count fields from title and abstract; null or empty
//     text counts as zero,
//  5. has_abstract / has_journal presence flags,
//  6. deduplication by normalized title, first occurrence in input order
//     wins.
func Clean(raw *dataset.RecordSet) (*dataset.RecordSet, Result) {
	res := Result{InputRecords: raw.Len()}
	out := &dataset.RecordSet{}
	if raw == nil {
		return out, res
	}
	out.ExtraColumns = append([]string(nil), raw.ExtraColumns...)
	out.Records = make([]dataset.Record, 0, len(raw.Records))

	seen := make(map[string]struct{}, raw.Len())
	for i := range raw.Records {
		rec := transform(raw.Records[i], &res)

		key := NormalizeTitle(rec.Title)
		if _, dup := seen[key]; dup {
			res.DuplicatesRemoved++
			continue
		}
		seen[key] = struct{}{}
		out.Records = append(out.Records, rec)
	}

	res.OutputRecords = len(out.Records)
	return out, res
}

// transform applies the per-record cleaning steps. The record is passed and
// returned by value; the caller's copy is untouched.
func transform(rec dataset.Record, res *Result) dataset.Record {
	// Categorical text fields: trim, empty-after-trim is null.
	rec.Journal = strings.TrimSpace(rec.Journal)
	rec.Source = strings.TrimSpace(rec.Source)

	// Dates: best effort. A bad date nulls the field, it never aborts the
	// batch or drops the row.
	rec.PublishedAt = ParseDate(rec.PublishTimeRaw)
	if rec.PublishedAt != nil {
		rec.PublicationYear = rec.PublishedAt.Year()
		rec.PublicationMonth = rec.PublishedAt.Month()
		res.DatesParsed++
	} else {
		rec.PublicationYear = 0
		rec.PublicationMonth = 0
		if strings.TrimSpace(rec.PublishTimeRaw) != "" {
			res.DatesUnparseable++
		}
	}

	rec.TitleLength = utf8.RuneCountInString(rec.Title)
	rec.TitleWordCount = dataset.WordCount(rec.Title)
	rec.AbstractLength = utf8.RuneCountInString(rec.Abstract)
	rec.AbstractWordCount = dataset.WordCount(rec.Abstract)

	rec.HasAbstract = strings.TrimSpace(rec.Abstract) != ""
	rec.HasJournal = rec.Journal != ""

	return rec
}

// NormalizeTitle produces the case-insensitive, whitespace-collapsed
// comparison key used for deduplication.
func NormalizeTitle(title string) string {
	return strings.Join(strings.Fields(strings.ToLower(title)), " ")
}
