// Package analysis provides the read-only aggregation queries and filtering
// used by both the batch analysis run and the dashboard. Every function is a
// pure query over a cleaned record set: inputs are never mutated and empty
// input yields empty results rather than an error.
package analysis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/helixir/cord19-explorer/internal/dataset"
)

// YearCount is one entry of a publications-by-year aggregate.
type YearCount struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}

// CategoryCount is one entry of a categorical aggregate (journal, source).
type CategoryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// MonthCount is one entry of a monthly publication trend, keyed "2006-01".
type MonthCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// YearStats holds per-year descriptive statistics.
type YearStats struct {
	Year               int     `json:"year"`
	Papers             int     `json:"papers"`
	WithAbstract       int     `json:"with_abstract"`
	MeanAbstractLength float64 `json:"mean_abstract_length"`
}

// FieldMissing reports missing values for one field.
type FieldMissing struct {
	Field   string  `json:"field"`
	Missing int     `json:"missing"`
	Percent float64 `json:"percent"`
}

// Summary describes overall dataset dimensions.
type Summary struct {
	TotalPapers    int     `json:"total_papers"`
	UniqueJournals int     `json:"unique_journals"`
	UniqueSources  int     `json:"unique_sources"`
	WithAbstract   int     `json:"with_abstract"`
	AbstractShare  float64 `json:"abstract_share_percent"`
	YearMin        int     `json:"year_min"`
	YearMax        int     `json:"year_max"`
}

// CountByYear counts papers per publication year in ascending year order.
// Records without a parsed date are omitted, as are zero-count years.
func CountByYear(rs *dataset.RecordSet) []YearCount {
	counts := make(map[int]int)
	for i := range rs.Records {
		if y := rs.Records[i].PublicationYear; y != 0 {
			counts[y]++
		}
	}
	out := make([]YearCount, 0, len(counts))
	for y, c := range counts {
		out = append(out, YearCount{Year: y, Count: c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

// TopJournals returns the n most frequent journals, descending by count with
// ties broken by ascending journal name. Records without a journal are
// excluded.
func TopJournals(rs *dataset.RecordSet, n int) []CategoryCount {
	return topCategories(rs, n, func(r *dataset.Record) string { return r.Journal })
}

// CountBySource counts papers per source, descending by count with ties
// broken by ascending source name. Records without a source are excluded.
func CountBySource(rs *dataset.RecordSet) []CategoryCount {
	return topCategories(rs, 0, func(r *dataset.Record) string { return r.Source })
}

func topCategories(rs *dataset.RecordSet, n int, key func(*dataset.Record) string) []CategoryCount {
	counts := make(map[string]int)
	for i := range rs.Records {
		if k := key(&rs.Records[i]); k != "" {
			counts[k]++
		}
	}
	out := make([]CategoryCount, 0, len(counts))
	for name, c := range counts {
		out = append(out, CategoryCount{Name: name, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// MonthlyTrend counts papers per year-month in ascending chronological
// order. Records without a parsed date are omitted.
func MonthlyTrend(rs *dataset.RecordSet) []MonthCount {
	counts := make(map[string]int)
	for i := range rs.Records {
		rec := &rs.Records[i]
		if rec.PublishedAt == nil {
			continue
		}
		counts[fmt.Sprintf("%04d-%02d", rec.PublicationYear, int(rec.PublicationMonth))]++
	}
	out := make([]MonthCount, 0, len(counts))
	for m, c := range counts {
		out = append(out, MonthCount{Month: m, Count: c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// YearlyStats computes per-year paper counts, abstract coverage, and mean
// abstract length, in ascending year order.
func YearlyStats(rs *dataset.RecordSet) []YearStats {
	type acc struct {
		papers, withAbstract, lengthSum int
	}
	byYear := make(map[int]*acc)
	for i := range rs.Records {
		rec := &rs.Records[i]
		if rec.PublicationYear == 0 {
			continue
		}
		a := byYear[rec.PublicationYear]
		if a == nil {
			a = &acc{}
			byYear[rec.PublicationYear] = a
		}
		a.papers++
		if rec.HasAbstract {
			a.withAbstract++
			a.lengthSum += rec.AbstractLength
		}
	}
	out := make([]YearStats, 0, len(byYear))
	for year, a := range byYear {
		st := YearStats{Year: year, Papers: a.papers, WithAbstract: a.withAbstract}
		if a.withAbstract > 0 {
			st.MeanAbstractLength = float64(a.lengthSum) / float64(a.withAbstract)
		}
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

// MissingValues reports missing counts and percentages per field, sorted by
// descending missing count. Fields with no missing values are omitted.
func MissingValues(rs *dataset.RecordSet) []FieldMissing {
	total := rs.Len()
	if total == 0 {
		return nil
	}
	missing := map[string]int{}
	for i := range rs.Records {
		rec := &rs.Records[i]
		countMissing(missing, "title", rec.Title)
		countMissing(missing, "abstract", rec.Abstract)
		countMissing(missing, "authors", rec.Authors)
		countMissing(missing, "journal", rec.Journal)
		countMissing(missing, "source_x", rec.Source)
		countMissing(missing, "doi", rec.DOI)
		countMissing(missing, "url", rec.URL)
		if rec.PublishedAt == nil {
			missing["publish_time"]++
		}
	}
	out := make([]FieldMissing, 0, len(missing))
	for field, count := range missing {
		out = append(out, FieldMissing{
			Field:   field,
			Missing: count,
			Percent: 100 * float64(count) / float64(total),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Missing != out[j].Missing {
			return out[i].Missing > out[j].Missing
		}
		return out[i].Field < out[j].Field
	})
	return out
}

func countMissing(m map[string]int, field, value string) {
	if strings.TrimSpace(value) == "" {
		m[field]++
	}
}

// Overview computes the headline summary of a cleaned record set.
func Overview(rs *dataset.RecordSet) Summary {
	s := Summary{TotalPapers: rs.Len()}
	journals := make(map[string]struct{})
	sources := make(map[string]struct{})
	for i := range rs.Records {
		rec := &rs.Records[i]
		if rec.Journal != "" {
			journals[rec.Journal] = struct{}{}
		}
		if rec.Source != "" {
			sources[rec.Source] = struct{}{}
		}
		if rec.HasAbstract {
			s.WithAbstract++
		}
		if y := rec.PublicationYear; y != 0 {
			if s.YearMin == 0 || y < s.YearMin {
				s.YearMin = y
			}
			if y > s.YearMax {
				s.YearMax = y
			}
		}
	}
	s.UniqueJournals = len(journals)
	s.UniqueSources = len(sources)
	if s.TotalPapers > 0 {
		s.AbstractShare = 100 * float64(s.WithAbstract) / float64(s.TotalPapers)
	}
	return s
}
