package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helixir/cord19-explorer/internal/dataset"
)

func titleSet(titles ...string) *dataset.RecordSet {
	rs := &dataset.RecordSet{}
	for _, title := range titles {
		rs.Records = append(rs.Records, dataset.Record{Title: title})
	}
	return rs
}

func TestWordFrequency(t *testing.T) {
	t.Parallel()

	rs := titleSet(
		"COVID-19 vaccine efficacy",
		"Vaccine hesitancy and the pandemic",
		"Pandemic vaccine rollout",
	)

	got := WordFrequency(rs, FieldTitle, 0, DefaultStopwords())

	byWord := make(map[string]int, len(got))
	for _, wc := range got {
		byWord[wc.Word] = wc.Count
	}
	assert.Equal(t, 3, byWord["vaccine"])
	assert.Equal(t, 2, byWord["pandemic"])
	assert.Equal(t, 1, byWord["efficacy"])
	// Stopwords excluded even though they appear ("and", "the").
	assert.NotContains(t, byWord, "and")
	assert.NotContains(t, byWord, "the")
	// Punctuation splits words: "COVID-19" becomes "covid" and "19".
	assert.Equal(t, 1, byWord["covid"])
	assert.Equal(t, 1, byWord["19"])
}

func TestWordFrequency_OrderAndLimit(t *testing.T) {
	t.Parallel()

	rs := titleSet("delta delta delta beta beta alpha gamma")

	got := WordFrequency(rs, FieldTitle, 3, nil)

	require.Len(t, got, 3)
	assert.Equal(t, WordCount{Word: "delta", Count: 3}, got[0])
	assert.Equal(t, WordCount{Word: "beta", Count: 2}, got[1])
	// Ties broken alphabetically: alpha before gamma.
	assert.Equal(t, WordCount{Word: "alpha", Count: 1}, got[2])
}

func TestWordFrequency_ShortWordsExcluded(t *testing.T) {
	t.Parallel()

	got := WordFrequency(titleSet("a b immunity x yz"), FieldTitle, 0, nil)

	byWord := make(map[string]int, len(got))
	for _, wc := range got {
		byWord[wc.Word] = wc.Count
	}
	assert.Contains(t, byWord, "immunity")
	assert.Contains(t, byWord, "yz")
	assert.NotContains(t, byWord, "a")
	assert.NotContains(t, byWord, "x")
}

func TestWordFrequency_AbstractField(t *testing.T) {
	t.Parallel()

	rs := &dataset.RecordSet{Records: []dataset.Record{
		{Title: "title words", Abstract: "abstract tokens here"},
	}}

	got := WordFrequency(rs, FieldAbstract, 0, nil)

	byWord := make(map[string]int, len(got))
	for _, wc := range got {
		byWord[wc.Word] = wc.Count
	}
	assert.Contains(t, byWord, "tokens")
	assert.NotContains(t, byWord, "title")
}

func TestWordFrequency_Empty(t *testing.T) {
	t.Parallel()
	assert.Empty(t, WordFrequency(&dataset.RecordSet{}, FieldTitle, 10, DefaultStopwords()))
}
