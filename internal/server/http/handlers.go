package httpserver

import (
	"net/http"
	"strconv"

	"github.com/helixir/cord19-explorer/internal/analysis"
	"github.com/helixir/cord19-explorer/internal/dataset"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100

	defaultTopJournals = 10
	defaultTopWords    = 20
	maxTopN            = 100
)

// parseFilterSpec builds a FilterSpec from query parameters. On invalid
// input it writes a 400 response and returns ok=false.
func (s *Server) parseFilterSpec(w http.ResponseWriter, r *http.Request) (analysis.FilterSpec, bool) {
	q := r.URL.Query()
	var spec analysis.FilterSpec

	if v := q.Get("year_from"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "year_from must be an integer")
			return spec, false
		}
		spec.YearFrom = n
	}
	if v := q.Get("year_to"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "year_to must be an integer")
			return spec, false
		}
		spec.YearTo = n
	}
	spec.Journal = q.Get("journal")
	spec.Source = q.Get("source")
	spec.TitleContains = q.Get("q")
	if v := q.Get("has_abstract"); v == "true" || v == "1" {
		spec.HasAbstract = true
	}

	if err := spec.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid filter: "+err.Error())
		return spec, false
	}
	return spec, true
}

// filtered applies the spec to the snapshot and records the filter metric.
func (s *Server) filtered(spec analysis.FilterSpec) *dataset.RecordSet {
	if s.metrics != nil {
		kind := "all"
		if !spec.IsZero() {
			kind = "filtered"
		}
		s.metrics.FilterOperations.WithLabelValues(kind).Inc()
	}
	return analysis.ApplyFilter(s.snapshot, spec)
}

// parsePaginationParams extracts limit and offset query parameters.
func parsePaginationParams(r *http.Request) (limit, offset int) {
	limit = defaultPageSize
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}
	return limit, offset
}

// parseTopN extracts a bounded limit parameter for chart endpoints.
func parseTopN(r *http.Request, def int) int {
	n := def
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			n = parsed
		}
	}
	if n > maxTopN {
		n = maxTopN
	}
	return n
}

type summaryResponse struct {
	Summary       analysis.Summary        `json:"summary"`
	MissingValues []analysis.FieldMissing `json:"missing_values"`
	TotalPapers   int                     `json:"total_papers_unfiltered"`
}

// summaryHandler handles GET /api/v1/summary.
func (s *Server) summaryHandler(w http.ResponseWriter, r *http.Request) {
	spec, ok := s.parseFilterSpec(w, r)
	if !ok {
		return
	}
	rs := s.filtered(spec)

	writeJSON(w, http.StatusOK, summaryResponse{
		Summary:       analysis.Overview(rs),
		MissingValues: analysis.MissingValues(rs),
		TotalPapers:   s.snapshot.Len(),
	})
}

type paperResponse struct {
	CordUID     string `json:"cord_uid,omitempty"`
	Title       string `json:"title"`
	Journal     string `json:"journal,omitempty"`
	Source      string `json:"source,omitempty"`
	Year        int    `json:"year,omitempty"`
	HasAbstract bool   `json:"has_abstract"`
}

type listPapersResponse struct {
	Papers     []paperResponse `json:"papers"`
	TotalCount int             `json:"total_count"`
	Limit      int             `json:"limit"`
	Offset     int             `json:"offset"`
}

// papersHandler handles GET /api/v1/papers with limit/offset pagination.
func (s *Server) papersHandler(w http.ResponseWriter, r *http.Request) {
	spec, ok := s.parseFilterSpec(w, r)
	if !ok {
		return
	}
	rs := s.filtered(spec)
	limit, offset := parsePaginationParams(r)

	papers := make([]paperResponse, 0, limit)
	for i := offset; i < rs.Len() && len(papers) < limit; i++ {
		rec := &rs.Records[i]
		papers = append(papers, paperResponse{
			CordUID:     rec.CordUID,
			Title:       rec.Title,
			Journal:     rec.Journal,
			Source:      rec.Source,
			Year:        rec.PublicationYear,
			HasAbstract: rec.HasAbstract,
		})
	}

	writeJSON(w, http.StatusOK, listPapersResponse{
		Papers:     papers,
		TotalCount: rs.Len(),
		Limit:      limit,
		Offset:     offset,
	})
}

type filterOptionsResponse struct {
	Journals []analysis.CategoryCount `json:"journals"`
	Sources  []analysis.CategoryCount `json:"sources"`
	YearMin  int                      `json:"year_min"`
	YearMax  int                      `json:"year_max"`
}

// filterOptionsHandler handles GET /api/v1/filters. It lists the values the
// dashboard offers in its filter controls, computed over the full snapshot.
func (s *Server) filterOptionsHandler(w http.ResponseWriter, r *http.Request) {
	overview := analysis.Overview(s.snapshot)
	writeJSON(w, http.StatusOK, filterOptionsResponse{
		Journals: analysis.TopJournals(s.snapshot, 0),
		Sources:  analysis.CountBySource(s.snapshot),
		YearMin:  overview.YearMin,
		YearMax:  overview.YearMax,
	})
}

type chartResponse struct {
	Items interface{} `json:"items"`
}

// publicationsByYearHandler handles GET /api/v1/charts/publications-by-year.
func (s *Server) publicationsByYearHandler(w http.ResponseWriter, r *http.Request) {
	spec, ok := s.parseFilterSpec(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, chartResponse{Items: analysis.CountByYear(s.filtered(spec))})
}

// topJournalsHandler handles GET /api/v1/charts/top-journals.
func (s *Server) topJournalsHandler(w http.ResponseWriter, r *http.Request) {
	spec, ok := s.parseFilterSpec(w, r)
	if !ok {
		return
	}
	n := parseTopN(r, defaultTopJournals)
	writeJSON(w, http.StatusOK, chartResponse{Items: analysis.TopJournals(s.filtered(spec), n)})
}

// sourcesHandler handles GET /api/v1/charts/sources.
func (s *Server) sourcesHandler(w http.ResponseWriter, r *http.Request) {
	spec, ok := s.parseFilterSpec(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, chartResponse{Items: analysis.CountBySource(s.filtered(spec))})
}

// monthlyTrendHandler handles GET /api/v1/charts/monthly-trend.
func (s *Server) monthlyTrendHandler(w http.ResponseWriter, r *http.Request) {
	spec, ok := s.parseFilterSpec(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, chartResponse{Items: analysis.MonthlyTrend(s.filtered(spec))})
}

// titleWordsHandler handles GET /api/v1/charts/title-words.
func (s *Server) titleWordsHandler(w http.ResponseWriter, r *http.Request) {
	spec, ok := s.parseFilterSpec(w, r)
	if !ok {
		return
	}
	n := parseTopN(r, defaultTopWords)
	words := analysis.WordFrequency(s.filtered(spec), analysis.FieldTitle, n, analysis.DefaultStopwords())
	writeJSON(w, http.StatusOK, chartResponse{Items: words})
}

// abstractLengthsHandler handles GET /api/v1/charts/abstract-lengths.
func (s *Server) abstractLengthsHandler(w http.ResponseWriter, r *http.Request) {
	spec, ok := s.parseFilterSpec(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, analysis.AbstractLengthStats(s.filtered(spec)))
}
