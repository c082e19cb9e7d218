package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cleanedFixture() *RecordSet {
	published := time.Date(2020, time.March, 15, 0, 0, 0, 0, time.UTC)
	return &RecordSet{
		ExtraColumns: []string{"license"},
		Records: []Record{
			{
				CordUID:           "u1",
				Title:             "A paper",
				Abstract:          "Some abstract",
				Authors:           "Doe J",
				Journal:           "Nature",
				Source:            "PMC",
				DOI:               "10.1/x",
				URL:               "http://example.com",
				Extra:             map[string]string{"license": "cc-by"},
				PublishedAt:       &published,
				PublicationYear:   2020,
				PublicationMonth:  time.March,
				TitleLength:       7,
				TitleWordCount:    2,
				AbstractLength:    13,
				AbstractWordCount: 2,
				HasAbstract:       true,
				HasJournal:        true,
			},
			{
				CordUID:        "u2",
				Title:          "Undated paper",
				TitleLength:    13,
				TitleWordCount: 2,
				Extra:          map[string]string{"license": ""},
			},
		},
	}
}

func TestWriteCleanedCSV_Layout(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteCleanedCSV(cleanedFixture(), &buf))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	header := rows[0]
	assert.Equal(t, "cord_uid", header[0])
	assert.Equal(t, "source_x", header[6])
	assert.Equal(t, "publication_year", header[9])
	assert.Equal(t, "license", header[len(header)-1])

	// Parsed dates are exported in canonical form.
	assert.Equal(t, "2020-03-15", rows[1][5])
	assert.Equal(t, "2020", rows[1][9])
	assert.Equal(t, "true", rows[1][15])
	assert.Equal(t, "cc-by", rows[1][len(header)-1])

	// Missing date stays an empty field, not a zero.
	assert.Equal(t, "", rows[2][5])
	assert.Equal(t, "", rows[2][9])
	assert.Equal(t, "", rows[2][10])
	assert.Equal(t, "false", rows[2][15])
}

func TestCleanedRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "cleaned.csv")
	original := cleanedFixture()
	require.NoError(t, WriteCleanedFile(original, path))

	got, err := ReadCleanedCSV(path)
	require.NoError(t, err)
	require.Equal(t, original.Len(), got.Len())
	assert.Equal(t, original.ExtraColumns, got.ExtraColumns)

	for i := range original.Records {
		want, have := original.Records[i], got.Records[i]
		assert.Equal(t, want.CordUID, have.CordUID)
		assert.Equal(t, want.Title, have.Title)
		assert.Equal(t, want.Journal, have.Journal)
		assert.Equal(t, want.Source, have.Source)
		assert.Equal(t, want.PublicationYear, have.PublicationYear)
		assert.Equal(t, want.PublicationMonth, have.PublicationMonth)
		assert.Equal(t, want.TitleLength, have.TitleLength)
		assert.Equal(t, want.AbstractWordCount, have.AbstractWordCount)
		assert.Equal(t, want.HasAbstract, have.HasAbstract)
		assert.Equal(t, want.HasJournal, have.HasJournal)
		assert.Equal(t, want.Extra, have.Extra)
		if want.PublishedAt != nil {
			require.NotNil(t, have.PublishedAt)
			assert.True(t, have.PublishedAt.Equal(*want.PublishedAt))
		} else {
			assert.Nil(t, have.PublishedAt)
		}
	}
}

func TestReadCleanedCSV_Missing(t *testing.T) {
	t.Parallel()

	_, err := ReadCleanedCSV(filepath.Join(t.TempDir(), "absent.csv"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCleanedDataMissing))
}

func TestReadCleanedCSV_Corrupt(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "cleaned.csv")
	require.NoError(t, os.WriteFile(path, []byte("title\n\"broken\n"), 0o644))

	_, err := ReadCleanedCSV(path)
	require.Error(t, err)

	var loadErr *LoadError
	assert.True(t, errors.As(err, &loadErr))
}
