package analysis

import (
	"math"
	"sort"

	"github.com/helixir/cord19-explorer/internal/dataset"
)

// LengthStats holds descriptive statistics over abstract lengths.
type LengthStats struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"stddev"`
	Min    int     `json:"min"`
	Max    int     `json:"max"`
}

// AbstractLengthStats computes mean, median, and population standard
// deviation of abstract lengths over records that have an abstract. An empty
// input (or one with no abstracts) returns zeroed statistics.
func AbstractLengthStats(rs *dataset.RecordSet) LengthStats {
	var lengths []int
	for i := range rs.Records {
		if rs.Records[i].HasAbstract {
			lengths = append(lengths, rs.Records[i].AbstractLength)
		}
	}
	if len(lengths) == 0 {
		return LengthStats{}
	}

	sort.Ints(lengths)
	st := LengthStats{
		Count: len(lengths),
		Min:   lengths[0],
		Max:   lengths[len(lengths)-1],
	}

	sum := 0
	for _, l := range lengths {
		sum += l
	}
	st.Mean = float64(sum) / float64(len(lengths))

	mid := len(lengths) / 2
	if len(lengths)%2 == 1 {
		st.Median = float64(lengths[mid])
	} else {
		st.Median = float64(lengths[mid-1]+lengths[mid]) / 2
	}

	var sq float64
	for _, l := range lengths {
		d := float64(l) - st.Mean
		sq += d * d
	}
	st.StdDev = math.Sqrt(sq / float64(len(lengths)))

	return st
}
