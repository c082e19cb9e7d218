package analysis

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/helixir/cord19-explorer/internal/dataset"
)

var validate = validator.New()

// FilterSpec describes a dashboard filter over a cleaned record set. The
// zero value matches everything.
type FilterSpec struct {
	// YearFrom and YearTo bound the publication year inclusively. When
	// either bound is set, records without a parsed date are excluded.
	YearFrom int `json:"year_from" validate:"omitempty,gte=1900,lte=2100"`
	YearTo   int `json:"year_to" validate:"omitempty,gte=1900,lte=2100,gtefield=YearFrom"`

	// Journal and Source match exactly when non-empty.
	Journal string `json:"journal"`
	Source  string `json:"source"`

	// HasAbstract keeps only papers with an abstract when true.
	HasAbstract bool `json:"has_abstract"`

	// TitleContains is a case-insensitive substring match on the title.
	TitleContains string `json:"title_contains"`
}

// Validate checks spec bounds.
func (f FilterSpec) Validate() error {
	return validate.Struct(f)
}

// IsZero reports whether the spec matches everything.
func (f FilterSpec) IsZero() bool {
	return f == FilterSpec{}
}

// Matches reports whether a cleaned record satisfies the spec.
func (f FilterSpec) Matches(rec *dataset.Record) bool {
	if f.YearFrom != 0 && (rec.PublicationYear == 0 || rec.PublicationYear < f.YearFrom) {
		return false
	}
	if f.YearTo != 0 && (rec.PublicationYear == 0 || rec.PublicationYear > f.YearTo) {
		return false
	}
	if f.Journal != "" && rec.Journal != f.Journal {
		return false
	}
	if f.Source != "" && rec.Source != f.Source {
		return false
	}
	if f.HasAbstract && !rec.HasAbstract {
		return false
	}
	if f.TitleContains != "" &&
		!strings.Contains(strings.ToLower(rec.Title), strings.ToLower(f.TitleContains)) {
		return false
	}
	return true
}

// ApplyFilter returns a new record set holding the records that satisfy the
// spec, in their original order. The input set is not modified; a zero spec
// returns the input unchanged.
func ApplyFilter(rs *dataset.RecordSet, spec FilterSpec) *dataset.RecordSet {
	if spec.IsZero() {
		return rs
	}
	out := &dataset.RecordSet{
		ExtraColumns: rs.ExtraColumns,
	}
	for i := range rs.Records {
		if spec.Matches(&rs.Records[i]) {
			out.Records = append(out.Records, rs.Records[i])
		}
	}
	return out
}
