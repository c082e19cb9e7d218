// Package dataset provides the record model for COVID-19 research paper
// metadata along with loading, sample generation, and CSV persistence.
package dataset

import (
	"strings"
	"time"
)

// Record represents one research paper's metadata.
//
// Raw fields come straight from the source file (or the sample generator).
// Derived fields are computed by the cleaning pipeline and are zero-valued on
// raw records. The empty string is the null representation for categorical
// text fields; a nil PublishedAt means the publish date is missing or could
// not be parsed.
type Record struct {
	CordUID        string
	Title          string
	Abstract       string
	Authors        string
	Journal        string
	Source         string
	PublishTimeRaw string
	DOI            string
	URL            string

	// Extra preserves unrecognized source columns as opaque metadata.
	// It is carried through cleaning and export untouched.
	Extra map[string]string

	// Derived fields, written only by the cleaner.
	PublishedAt       *time.Time
	PublicationYear   int
	PublicationMonth  time.Month
	TitleLength       int
	TitleWordCount    int
	AbstractLength    int
	AbstractWordCount int
	HasAbstract       bool
	HasJournal        bool
}

// HasDate returns true if the record has a parsed publication date.
func (r *Record) HasDate() bool {
	return r.PublishedAt != nil
}

// RecordSet is an ordered collection of records. Insertion order is
// significant: deduplication keeps the first occurrence and sample generation
// is reproducible only because order is stable.
type RecordSet struct {
	Records []Record

	// ExtraColumns lists the unrecognized source columns in first-seen
	// order, so exports can reproduce a stable column layout.
	ExtraColumns []string
}

// Len returns the number of records in the set.
func (rs *RecordSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.Records)
}

// Clone returns a deep copy of the record set. Extra maps are copied so the
// clone shares no mutable state with the original.
func (rs *RecordSet) Clone() *RecordSet {
	if rs == nil {
		return nil
	}
	out := &RecordSet{
		Records:      make([]Record, len(rs.Records)),
		ExtraColumns: append([]string(nil), rs.ExtraColumns...),
	}
	copy(out.Records, rs.Records)
	for i := range out.Records {
		if rs.Records[i].Extra != nil {
			ex := make(map[string]string, len(rs.Records[i].Extra))
			for k, v := range rs.Records[i].Extra {
				ex[k] = v
			}
			out.Records[i].Extra = ex
		}
		if rs.Records[i].PublishedAt != nil {
			t := *rs.Records[i].PublishedAt
			out.Records[i].PublishedAt = &t
		}
	}
	return out
}

// WordCount returns the number of whitespace-delimited tokens in s.
func WordCount(s string) int {
	return len(strings.Fields(s))
}
