// Package report renders the human-readable console summary of an analysis
// run. The output is for people, not machines: nothing downstream parses it.
package report

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/helixir/cord19-explorer/internal/analysis"
	"github.com/helixir/cord19-explorer/internal/cleaning"
	"github.com/helixir/cord19-explorer/internal/dataset"
)

// Options controls how much of each aggregate the report prints.
type Options struct {
	TopJournals int
	TopWords    int
}

// Write renders the full analysis summary for a cleaned record set.
func Write(w io.Writer, rs *dataset.RecordSet, res cleaning.Result, opts Options) error {
	if opts.TopJournals <= 0 {
		opts.TopJournals = 10
	}
	if opts.TopWords <= 0 {
		opts.TopWords = 20
	}

	fmt.Fprintln(w, "CORD-19 RESEARCH DATASET ANALYSIS")
	fmt.Fprintln(w, "=================================")
	fmt.Fprintln(w)

	writeOverview(w, rs, res)
	writeMissing(w, rs)
	writeYears(w, rs)
	writeJournals(w, rs, opts.TopJournals)
	writeSources(w, rs)
	writeAbstracts(w, rs)
	writeWords(w, rs, opts.TopWords)
	writeYearlyStats(w, rs)

	return nil
}

func writeOverview(w io.Writer, rs *dataset.RecordSet, res cleaning.Result) {
	s := analysis.Overview(rs)

	fmt.Fprintln(w, "Dataset overview")
	fmt.Fprintln(w, "----------------")
	fmt.Fprintf(w, "  papers: %d (from %d raw rows, %d duplicate titles removed)\n",
		s.TotalPapers, res.InputRecords, res.DuplicatesRemoved)
	fmt.Fprintf(w, "  unique journals: %d  unique sources: %d\n", s.UniqueJournals, s.UniqueSources)
	fmt.Fprintf(w, "  with abstracts: %d (%.1f%%)\n", s.WithAbstract, s.AbstractShare)
	if s.YearMin != 0 {
		fmt.Fprintf(w, "  publication years: %d-%d\n", s.YearMin, s.YearMax)
	}
	if res.DatesUnparseable > 0 {
		fmt.Fprintf(w, "  unparseable dates: %d (kept with null date)\n", res.DatesUnparseable)
	}
	fmt.Fprintln(w)
}

func writeMissing(w io.Writer, rs *dataset.RecordSet) {
	missing := analysis.MissingValues(rs)
	if len(missing) == 0 {
		fmt.Fprintln(w, "No missing values.")
		fmt.Fprintln(w)
		return
	}

	fmt.Fprintln(w, "Missing values")
	fmt.Fprintln(w, "--------------")
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  field\tmissing\tpercent")
	for _, m := range missing {
		fmt.Fprintf(tw, "  %s\t%d\t%.1f%%\n", m.Field, m.Missing, m.Percent)
	}
	tw.Flush()
	fmt.Fprintln(w)
}

func writeYears(w io.Writer, rs *dataset.RecordSet) {
	years := analysis.CountByYear(rs)
	if len(years) == 0 {
		return
	}
	fmt.Fprintln(w, "Publications by year")
	fmt.Fprintln(w, "--------------------")
	for _, y := range years {
		fmt.Fprintf(w, "  %d: %d\n", y.Year, y.Count)
	}
	fmt.Fprintln(w)
}

func writeJournals(w io.Writer, rs *dataset.RecordSet, n int) {
	journals := analysis.TopJournals(rs, n)
	if len(journals) == 0 {
		return
	}
	fmt.Fprintf(w, "Top %d journals\n", len(journals))
	fmt.Fprintln(w, "---------------")
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	for _, j := range journals {
		fmt.Fprintf(tw, "  %s\t%d\n", j.Name, j.Count)
	}
	tw.Flush()
	fmt.Fprintln(w)
}

func writeSources(w io.Writer, rs *dataset.RecordSet) {
	sources := analysis.CountBySource(rs)
	if len(sources) == 0 {
		return
	}
	fmt.Fprintln(w, "Sources")
	fmt.Fprintln(w, "-------")
	total := rs.Len()
	for _, s := range sources {
		fmt.Fprintf(w, "  %s: %d (%.1f%%)\n", s.Name, s.Count, 100*float64(s.Count)/float64(total))
	}
	fmt.Fprintln(w)
}

func writeAbstracts(w io.Writer, rs *dataset.RecordSet) {
	st := analysis.AbstractLengthStats(rs)
	if st.Count == 0 {
		return
	}
	fmt.Fprintln(w, "Abstract lengths (characters)")
	fmt.Fprintln(w, "-----------------------------")
	fmt.Fprintf(w, "  mean %.0f  median %.0f  stddev %.0f  range %d-%d  (n=%d)\n",
		st.Mean, st.Median, st.StdDev, st.Min, st.Max, st.Count)
	fmt.Fprintln(w)
}

func writeWords(w io.Writer, rs *dataset.RecordSet, n int) {
	words := analysis.WordFrequency(rs, analysis.FieldTitle, n, analysis.DefaultStopwords())
	if len(words) == 0 {
		return
	}
	fmt.Fprintln(w, "Most frequent title words")
	fmt.Fprintln(w, "-------------------------")
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	for _, wc := range words {
		fmt.Fprintf(tw, "  %s\t%d\n", wc.Word, wc.Count)
	}
	tw.Flush()
	fmt.Fprintln(w)
}

func writeYearlyStats(w io.Writer, rs *dataset.RecordSet) {
	stats := analysis.YearlyStats(rs)
	if len(stats) == 0 {
		return
	}
	fmt.Fprintln(w, "Yearly detail")
	fmt.Fprintln(w, "-------------")
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "  year\tpapers\twith abstract\tmean abstract length")
	for _, s := range stats {
		fmt.Fprintf(tw, "  %d\t%d\t%d\t%.0f\n", s.Year, s.Papers, s.WithAbstract, s.MeanAbstractLength)
	}
	tw.Flush()
	fmt.Fprintln(w)
}
