package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helixir/cord19-explorer/internal/dataset"
)

func testSnapshot() *dataset.RecordSet {
	rs := &dataset.RecordSet{}
	add := func(uid, title, journal, source string, year int, month time.Month, hasAbstract bool) {
		rec := dataset.Record{
			CordUID:     uid,
			Title:       title,
			Journal:     journal,
			Source:      source,
			HasAbstract: hasAbstract,
		}
		if year != 0 {
			t := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
			rec.PublishedAt = &t
			rec.PublicationYear = year
			rec.PublicationMonth = month
		}
		if hasAbstract {
			rec.Abstract = "An abstract."
			rec.AbstractLength = len(rec.Abstract)
		}
		rs.Records = append(rs.Records, rec)
	}

	add("u1", "Vaccine efficacy trial", "Nature", "PMC", 2020, time.March, true)
	add("u2", "Transmission modelling", "Science", "medRxiv", 2021, time.June, false)
	add("u3", "Vaccine hesitancy survey", "Nature", "PMC", 2021, time.July, true)
	add("u4", "Undated case report", "Lancet", "WHO", 0, 0, false)
	return rs
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return NewServer(Config{
		Address:     "127.0.0.1:0",
		MetricsPath: "/metrics",
	}, testSnapshot(), zerolog.Nop(), nil)
}

func doGet(t *testing.T, srv *Server, url string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func TestHealthEndpoints(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	rec := doGet(t, srv, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doGet(t, srv, "/readyz")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadiness_EmptySnapshot(t *testing.T) {
	t.Parallel()
	srv := NewServer(Config{Address: "127.0.0.1:0"}, &dataset.RecordSet{}, zerolog.Nop(), nil)

	rec := doGet(t, srv, "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestIndexPage(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	rec := doGet(t, srv, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "CORD-19 Explorer")
}

func TestSummaryEndpoint(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	rec := doGet(t, srv, "/api/v1/summary")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	var resp summaryResponse
	decode(t, rec, &resp)
	assert.Equal(t, 4, resp.Summary.TotalPapers)
	assert.Equal(t, 4, resp.TotalPapers)
	assert.Equal(t, 3, resp.Summary.UniqueJournals)
	assert.Equal(t, 2020, resp.Summary.YearMin)
	assert.Equal(t, 2021, resp.Summary.YearMax)
}

func TestSummaryEndpoint_Filtered(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	rec := doGet(t, srv, "/api/v1/summary?journal=Nature&year_from=2021")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp summaryResponse
	decode(t, rec, &resp)
	assert.Equal(t, 1, resp.Summary.TotalPapers)
	// The unfiltered total is unaffected by the filter.
	assert.Equal(t, 4, resp.TotalPapers)
}

func TestSummaryEndpoint_InvalidFilter(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	tests := []struct {
		name string
		url  string
	}{
		{name: "non-integer year", url: "/api/v1/summary?year_from=soon"},
		{name: "year below range", url: "/api/v1/summary?year_from=1800"},
		{name: "inverted year range", url: "/api/v1/summary?year_from=2022&year_to=2020"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := doGet(t, srv, tt.url)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var resp map[string]string
			decode(t, rec, &resp)
			assert.NotEmpty(t, resp["error"])
		})
	}
}

func TestPapersEndpoint_Pagination(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	rec := doGet(t, srv, "/api/v1/papers?limit=2&offset=1")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp listPapersResponse
	decode(t, rec, &resp)
	assert.Equal(t, 4, resp.TotalCount)
	assert.Equal(t, 2, resp.Limit)
	assert.Equal(t, 1, resp.Offset)
	require.Len(t, resp.Papers, 2)
	assert.Equal(t, "u2", resp.Papers[0].CordUID)
	assert.Equal(t, "u3", resp.Papers[1].CordUID)
}

func TestPapersEndpoint_OffsetPastEnd(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	rec := doGet(t, srv, "/api/v1/papers?offset=100")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp listPapersResponse
	decode(t, rec, &resp)
	assert.Empty(t, resp.Papers)
	assert.Equal(t, 4, resp.TotalCount)
}

func TestPapersEndpoint_Filtered(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	rec := doGet(t, srv, "/api/v1/papers?q=vaccine&has_abstract=true")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp listPapersResponse
	decode(t, rec, &resp)
	require.Equal(t, 2, resp.TotalCount)
	assert.Equal(t, "u1", resp.Papers[0].CordUID)
	assert.Equal(t, "u3", resp.Papers[1].CordUID)
}

func TestFilterOptionsEndpoint(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	rec := doGet(t, srv, "/api/v1/filters")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp filterOptionsResponse
	decode(t, rec, &resp)
	require.Len(t, resp.Journals, 3)
	assert.Equal(t, "Nature", resp.Journals[0].Name)
	assert.Equal(t, 2, resp.Journals[0].Count)
	require.Len(t, resp.Sources, 3)
	assert.Equal(t, 2020, resp.YearMin)
	assert.Equal(t, 2021, resp.YearMax)
}

func TestChartEndpoints(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	t.Run("publications by year", func(t *testing.T) {
		t.Parallel()
		rec := doGet(t, srv, "/api/v1/charts/publications-by-year")
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Items []struct {
				Year  int `json:"year"`
				Count int `json:"count"`
			} `json:"items"`
		}
		decode(t, rec, &resp)
		require.Len(t, resp.Items, 2)
		assert.Equal(t, 2020, resp.Items[0].Year)
		assert.Equal(t, 1, resp.Items[0].Count)
		assert.Equal(t, 2021, resp.Items[1].Year)
		assert.Equal(t, 2, resp.Items[1].Count)
	})

	t.Run("top journals with limit", func(t *testing.T) {
		t.Parallel()
		rec := doGet(t, srv, "/api/v1/charts/top-journals?limit=1")
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Items []struct {
				Name  string `json:"name"`
				Count int    `json:"count"`
			} `json:"items"`
		}
		decode(t, rec, &resp)
		require.Len(t, resp.Items, 1)
		assert.Equal(t, "Nature", resp.Items[0].Name)
	})

	t.Run("sources", func(t *testing.T) {
		t.Parallel()
		rec := doGet(t, srv, "/api/v1/charts/sources")
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Items []struct {
				Name  string `json:"name"`
				Count int    `json:"count"`
			} `json:"items"`
		}
		decode(t, rec, &resp)
		require.Len(t, resp.Items, 3)
		assert.Equal(t, "PMC", resp.Items[0].Name)
	})

	t.Run("monthly trend", func(t *testing.T) {
		t.Parallel()
		rec := doGet(t, srv, "/api/v1/charts/monthly-trend")
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Items []struct {
				Month string `json:"month"`
				Count int    `json:"count"`
			} `json:"items"`
		}
		decode(t, rec, &resp)
		require.Len(t, resp.Items, 3)
		assert.Equal(t, "2020-03", resp.Items[0].Month)
	})

	t.Run("title words", func(t *testing.T) {
		t.Parallel()
		rec := doGet(t, srv, "/api/v1/charts/title-words")
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Items []struct {
				Word  string `json:"word"`
				Count int    `json:"count"`
			} `json:"items"`
		}
		decode(t, rec, &resp)
		require.NotEmpty(t, resp.Items)
		assert.Equal(t, "vaccine", resp.Items[0].Word)
		assert.Equal(t, 2, resp.Items[0].Count)
	})

	t.Run("abstract lengths", func(t *testing.T) {
		t.Parallel()
		rec := doGet(t, srv, "/api/v1/charts/abstract-lengths")
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Count int     `json:"count"`
			Mean  float64 `json:"mean"`
		}
		decode(t, rec, &resp)
		assert.Equal(t, 2, resp.Count)
		assert.Greater(t, resp.Mean, 0.0)
	})

	t.Run("chart respects filter", func(t *testing.T) {
		t.Parallel()
		rec := doGet(t, srv, "/api/v1/charts/publications-by-year?source=medRxiv")
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Items []struct {
				Year  int `json:"year"`
				Count int `json:"count"`
			} `json:"items"`
		}
		decode(t, rec, &resp)
		require.Len(t, resp.Items, 1)
		assert.Equal(t, 2021, resp.Items[0].Year)
	})
}

func TestCorrelationIDHeader(t *testing.T) {
	t.Parallel()
	srv := newTestServer(t)

	rec := doGet(t, srv, "/api/v1/summary")
	assert.NotEmpty(t, rec.Header().Get("X-Correlation-ID"))
}

func TestThrottling(t *testing.T) {
	t.Parallel()

	srv := NewServer(Config{
		Address:          "127.0.0.1:0",
		RateLimitEnabled: true,
		RateLimitRPS:     1,
		RateLimitBurst:   2,
	}, testSnapshot(), zerolog.Nop(), nil)

	codes := make(map[int]int)
	for i := 0; i < 5; i++ {
		rec := doGet(t, srv, "/api/v1/summary")
		codes[rec.Code]++
	}
	assert.Equal(t, 2, codes[http.StatusOK])
	assert.Equal(t, 3, codes[http.StatusTooManyRequests])
}
