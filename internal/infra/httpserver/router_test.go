package httpserver_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aydinworks/content-advisor/internal/application"
	appadvisory "github.com/aydinworks/content-advisor/internal/application/advisory"
	appfeed "github.com/aydinworks/content-advisor/internal/application/feed"
	appsession "github.com/aydinworks/content-advisor/internal/application/session"
	domadvisory "github.com/aydinworks/content-advisor/internal/domain/advisory"
	"github.com/aydinworks/content-advisor/internal/domain/faults"
	"github.com/aydinworks/content-advisor/internal/domain/records"
	"github.com/aydinworks/content-advisor/internal/infra/httpserver"
)

const validResponse = `{
  "title": "X",
  "summary": "özet",
  "overall_risk_score": 45,
  "risk_level": "Orta",
  "categories": [
    {"name": "physical violence", "score": 40, "reason": "r1"},
    {"name": "psychological pressure", "score": 50, "reason": "r2"},
    {"name": "cultural pressure", "score": 30, "reason": "r3"},
    {"name": "language/slang", "score": 55, "reason": "r4"}
  ],
  "analysis_details": "detay",
  "age_recommendation": "13+",
  "positive_traits": []
}`

type stubAI struct {
	response string
	err      error
}

func (s *stubAI) Analyze(ctx context.Context, query string, contentType domadvisory.ContentType) (string, error) {
	return s.response, s.err
}

// memRecordRepo pages an in-memory slice the way the SQL repositories do,
// totals included.
type memRecordRepo struct {
	recs []*records.SearchRecord
}

func (m *memRecordRepo) Save(ctx context.Context, r *records.SearchRecord) error {
	m.recs = append(m.recs, r)
	return nil
}

func (m *memRecordRepo) Latest(ctx context.Context, limit int) ([]*records.SearchRecord, error) {
	if limit > len(m.recs) {
		limit = len(m.recs)
	}
	return m.recs[:limit], nil
}

func (m *memRecordRepo) Paginate(ctx context.Context, page, pageSize int) (records.PaginatedResult, error) {
	start := (page - 1) * pageSize
	if start > len(m.recs) {
		start = len(m.recs)
	}
	end := start + pageSize
	if end > len(m.recs) {
		end = len(m.recs)
	}
	return records.NewPaginatedResult(m.recs[start:end], page, pageSize, int64(len(m.recs))), nil
}

type memFaultRepo struct {
	entries []*faults.Fault
}

func (m *memFaultRepo) Save(ctx context.Context, f *faults.Fault) error {
	m.entries = append(m.entries, f)
	return nil
}

func (m *memFaultRepo) Latest(ctx context.Context, limit int) ([]*faults.Fault, error) {
	if limit > len(m.entries) {
		limit = len(m.entries)
	}
	return m.entries[:limit], nil
}

func newTestServer(ai *stubAI) *httptest.Server {
	return newTestServerWithRepos(ai, nil, nil)
}

func newTestServerWithRepos(ai *stubAI, recordsRepo records.Repository, faultsRepo faults.Repository) *httptest.Server {
	analyzerSvc := &appadvisory.Service{Clock: application.SystemClock{}}
	if ai != nil {
		analyzerSvc.AI = ai
	}
	feedSvc := appfeed.NewService(nil)                                  // demo feed
	sessionSvc := &appsession.Service{Clock: application.SystemClock{}} // demo sessions
	return httptest.NewServer(httpserver.NewRouter(analyzerSvc, feedSvc, sessionSvc, recordsRepo, faultsRepo))
}

func postAnalyze(t *testing.T, srv *httptest.Server, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(srv.URL+"/v1/analyze", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	var sb strings.Builder
	buf := make([]byte, 4096)
	for {
		n, err := resp.Body.Read(buf)
		sb.Write(buf[:n])
		if err != nil {
			break
		}
	}
	return sb.String()
}

func TestAnalyze_EmptyQueryRejected(t *testing.T) {
	srv := newTestServer(&stubAI{response: validResponse})
	defer srv.Close()

	resp := postAnalyze(t, srv, `{"query":"   ","content_type":"movie"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "query is required")
}

func TestAnalyze_MissingCredentialRejected(t *testing.T) {
	srv := newTestServer(nil) // no AI client configured
	defer srv.Close()

	resp := postAnalyze(t, srv, `{"query":"X","content_type":"movie"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "api key")
}

func TestAnalyze_CollaboratorFailureIsGeneric(t *testing.T) {
	srv := newTestServer(&stubAI{err: errors.New("upstream exploded: secret detail")})
	defer srv.Close()

	resp := postAnalyze(t, srv, `{"query":"X","content_type":"movie"}`)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, "analysis failed")
	assert.NotContains(t, body, "secret detail", "the cause must stay in the logs")
}

func TestAnalyze_MalformedResponseIsGenericToo(t *testing.T) {
	srv := newTestServer(&stubAI{response: "{broken"})
	defer srv.Close()

	resp := postAnalyze(t, srv, `{"query":"X","content_type":"movie"}`)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "analysis failed")
}

func TestAnalyze_Success(t *testing.T) {
	srv := newTestServer(&stubAI{response: validResponse})
	defer srv.Close()

	resp := postAnalyze(t, srv, `{"query":"X","content_type":"movie"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Analysis  *domadvisory.AnalysisResult `json:"analysis"`
		Persisted bool                        `json:"persisted"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	resp.Body.Close()

	require.NotNil(t, out.Analysis)
	assert.Equal(t, "X", out.Analysis.Title)
	assert.Equal(t, 45, out.Analysis.OverallRiskScore)
	assert.Equal(t, "Orta", out.Analysis.RiskLevel)
	assert.Len(t, out.Analysis.Categories, 4)
	assert.False(t, out.Persisted, "no backend means no append")
}

func TestFeed_DemoFallback(t *testing.T) {
	srv := newTestServer(nil)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/v1/feed")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Items []appfeed.Item `json:"items"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	resp.Body.Close()

	require.Len(t, out.Items, 2)
	for _, it := range out.Items {
		assert.NotEmpty(t, it.Band.Key)
		assert.NotEmpty(t, it.Band.Color)
	}
}

func TestSession_DemoModeAnswersNoContent(t *testing.T) {
	srv := newTestServer(nil)
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/v1/session", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestRecords_DemoModeEmptyPage(t *testing.T) {
	srv := newTestServer(nil)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/v1/records?page=1&page_size=10")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Data []any `json:"data"`
		Page int   `json:"page"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	resp.Body.Close()
	assert.Empty(t, out.Data)
	assert.Equal(t, 1, out.Page)
}

func TestRecords_PaginationReportsTotals(t *testing.T) {
	repo := &memRecordRepo{recs: []*records.SearchRecord{
		{ID: "r1", Title: "A", RiskScore: 10, RiskLevel: "Düşük", ContentType: "movie"},
		{ID: "r2", Title: "B", RiskScore: 45, RiskLevel: "Orta", ContentType: "book"},
		{ID: "r3", Title: "C", RiskScore: 70, RiskLevel: "Yüksek", ContentType: "song"},
	}}
	srv := newTestServerWithRepos(nil, repo, nil)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/v1/records?page=1&page_size=2")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out records.PaginatedResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	resp.Body.Close()

	assert.Len(t, out.Data, 2)
	assert.Equal(t, int64(3), out.Total)
	assert.Equal(t, 2, out.TotalPages)
	assert.Equal(t, 1, out.Page)
	assert.Equal(t, 2, out.PageSize)
}

func TestFaults_ListsRecentEntries(t *testing.T) {
	fr := &memFaultRepo{entries: []*faults.Fault{
		{ID: 1, Query: "X", Kind: faults.KindParse, Message: "unexpected token"},
	}}
	srv := newTestServerWithRepos(nil, nil, fr)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/v1/faults")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out struct {
		Faults []*faults.Fault `json:"faults"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	resp.Body.Close()

	require.Len(t, out.Faults, 1)
	assert.Equal(t, faults.KindParse, out.Faults[0].Kind)
}

func TestFaults_DemoModeEmptyList(t *testing.T) {
	srv := newTestServer(nil)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/v1/faults")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), `"faults":[]`)
}

func TestFeedStream_SendsInitialSnapshot(t *testing.T) {
	srv := newTestServer(nil)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/v1/feed/stream", nil)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	buf := make([]byte, 4096)
	n, err := resp.Body.Read(buf)
	require.NoError(t, err)
	chunk := string(buf[:n])
	assert.Contains(t, chunk, "event: feed")
	assert.Contains(t, chunk, "data: ")
}
