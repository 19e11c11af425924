package advisory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appadvisory "github.com/aydinworks/content-advisor/internal/application/advisory"
	domadvisory "github.com/aydinworks/content-advisor/internal/domain/advisory"
	domai "github.com/aydinworks/content-advisor/internal/domain/ai"
	"github.com/aydinworks/content-advisor/internal/domain/faults"
	"github.com/aydinworks/content-advisor/internal/domain/records"
	domsession "github.com/aydinworks/content-advisor/internal/domain/session"
)

const validResponse = `{
  "title": "X",
  "summary": "kısa özet",
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

type fakeAI struct {
	calls    int
	response string
	err      error
}

func (f *fakeAI) Analyze(ctx context.Context, query string, contentType domadvisory.ContentType) (string, error) {
	f.calls++
	return f.response, f.err
}

type fakeRepo struct {
	saved   []*records.SearchRecord
	saveErr error
}

func (f *fakeRepo) Save(ctx context.Context, r *records.SearchRecord) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, r)
	return nil
}

func (f *fakeRepo) Latest(ctx context.Context, limit int) ([]*records.SearchRecord, error) {
	return f.saved, nil
}

func (f *fakeRepo) Paginate(ctx context.Context, page, pageSize int) (records.PaginatedResult, error) {
	return records.NewPaginatedResult(f.saved, page, pageSize, int64(len(f.saved))), nil
}

type fakeFaults struct {
	entries []*faults.Fault
}

func (f *fakeFaults) Save(ctx context.Context, e *faults.Fault) error {
	f.entries = append(f.entries, e)
	return nil
}

func (f *fakeFaults) Latest(ctx context.Context, limit int) ([]*faults.Fault, error) {
	return f.entries, nil
}

type fakeBus struct {
	events []*records.Event
}

func (f *fakeBus) PublishRecordCreated(ev *records.Event) error {
	f.events = append(f.events, ev)
	return nil
}

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func testSession() *domsession.Session {
	return &domsession.Session{Token: "tok-1", CreatedAt: time.Now()}
}

func newService(ai *fakeAI, repo *fakeRepo) (*appadvisory.Service, *fakeFaults, *fakeBus) {
	fb := &fakeBus{}
	ff := &fakeFaults{}
	svc := &appadvisory.Service{
		Faults: ff,
		Bus:    fb,
		Clock:  fixedClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)},
	}
	if ai != nil {
		svc.AI = ai
	}
	if repo != nil {
		svc.Repo = repo
	}
	return svc, ff, fb
}

func TestAnalyze_EmptyQueryNoNetworkCall(t *testing.T) {
	ai := &fakeAI{response: validResponse}
	svc, _, _ := newService(ai, &fakeRepo{})

	for _, q := range []string{"", "   ", "\t\n"} {
		_, err := svc.Analyze(context.Background(), appadvisory.AnalyzeCommand{Query: q, ContentType: "movie"})
		assert.ErrorIs(t, err, domadvisory.ErrEmptyQuery)
	}
	assert.Zero(t, ai.calls, "empty query must not reach the AI collaborator")
}

func TestAnalyze_EmptyQueryTakesPrecedenceOverMissingCredential(t *testing.T) {
	svc, _, _ := newService(nil, &fakeRepo{}) // no AI client at all

	_, err := svc.Analyze(context.Background(), appadvisory.AnalyzeCommand{Query: " ", ContentType: "movie"})
	assert.ErrorIs(t, err, domadvisory.ErrEmptyQuery)
}

func TestAnalyze_MissingCredential(t *testing.T) {
	svc, _, _ := newService(nil, &fakeRepo{})

	_, err := svc.Analyze(context.Background(), appadvisory.AnalyzeCommand{Query: "X", ContentType: "movie"})
	assert.ErrorIs(t, err, domai.ErrNotConfigured)
}

func TestAnalyze_InvalidContentType(t *testing.T) {
	ai := &fakeAI{response: validResponse}
	svc, _, _ := newService(ai, &fakeRepo{})

	_, err := svc.Analyze(context.Background(), appadvisory.AnalyzeCommand{Query: "X", ContentType: "podcast"})
	assert.ErrorIs(t, err, domadvisory.ErrInvalidContentType)
	assert.Zero(t, ai.calls)
}

func TestAnalyze_EmptyResponse(t *testing.T) {
	svc, ff, _ := newService(&fakeAI{response: "  "}, &fakeRepo{})

	_, err := svc.Analyze(context.Background(), appadvisory.AnalyzeCommand{Query: "X", ContentType: "movie"})
	assert.ErrorIs(t, err, domai.ErrEmptyResponse)
	require.Len(t, ff.entries, 1)
	assert.Equal(t, faults.KindEmptyReply, ff.entries[0].Kind)
}

func TestAnalyze_MalformedJSON(t *testing.T) {
	svc, ff, _ := newService(&fakeAI{response: "not json at all"}, &fakeRepo{})

	_, err := svc.Analyze(context.Background(), appadvisory.AnalyzeCommand{Query: "X", ContentType: "movie"})
	assert.Error(t, err)
	require.Len(t, ff.entries, 1)
	assert.Equal(t, faults.KindParse, ff.entries[0].Kind)
}

func TestAnalyze_SuccessPersistsProjection(t *testing.T) {
	repo := &fakeRepo{}
	svc, _, bus := newService(&fakeAI{response: validResponse}, repo)

	res, err := svc.Analyze(context.Background(), appadvisory.AnalyzeCommand{
		Query:       "X",
		ContentType: "movie",
		Session:     testSession(),
	})
	require.NoError(t, err)
	require.NotNil(t, res.Analysis)

	// displayed state equals the parsed object
	assert.Equal(t, "X", res.Analysis.Title)
	assert.Equal(t, 45, res.Analysis.OverallRiskScore)
	assert.Equal(t, "Orta", res.Analysis.RiskLevel)
	assert.Len(t, res.Analysis.Categories, 4)
	assert.Equal(t, []string{}, res.Analysis.PositiveTraits)

	// persisted record carries the narrowed projection
	require.Len(t, repo.saved, 1)
	rec := repo.saved[0]
	assert.Equal(t, "X", rec.Title)
	assert.Equal(t, 45, rec.RiskScore)
	assert.Equal(t, "Orta", rec.RiskLevel)
	assert.Equal(t, "movie", rec.ContentType)
	assert.Equal(t, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC), rec.CreatedAt)
	assert.True(t, res.Persisted)
	assert.Equal(t, string(rec.ID), res.RecordID)

	// and the feed was notified
	require.Len(t, bus.events, 1)
	assert.Equal(t, string(rec.ID), bus.events[0].RecordID)
}

func TestAnalyze_NoSessionSkipsPersistence(t *testing.T) {
	repo := &fakeRepo{}
	svc, _, bus := newService(&fakeAI{response: validResponse}, repo)

	res, err := svc.Analyze(context.Background(), appadvisory.AnalyzeCommand{Query: "X", ContentType: "book"})
	require.NoError(t, err)
	assert.False(t, res.Persisted)
	assert.Empty(t, repo.saved)
	assert.Empty(t, bus.events)
}

func TestAnalyze_DemoModeSkipsPersistence(t *testing.T) {
	svc, _, bus := newService(&fakeAI{response: validResponse}, nil) // no repo

	res, err := svc.Analyze(context.Background(), appadvisory.AnalyzeCommand{
		Query:       "X",
		ContentType: "song",
		Session:     testSession(),
	})
	require.NoError(t, err)
	assert.False(t, res.Persisted)
	assert.Empty(t, bus.events)
}

func TestAnalyze_PersistenceFailureDoesNotFailAnalysis(t *testing.T) {
	repo := &fakeRepo{saveErr: errors.New("db down")}
	svc, ff, bus := newService(&fakeAI{response: validResponse}, repo)

	res, err := svc.Analyze(context.Background(), appadvisory.AnalyzeCommand{
		Query:       "X",
		ContentType: "movie",
		Session:     testSession(),
	})
	require.NoError(t, err, "a persistence failure must not overwrite a successful analysis")
	require.NotNil(t, res.Analysis)
	assert.Equal(t, "X", res.Analysis.Title)
	assert.False(t, res.Persisted)
	assert.Empty(t, bus.events)

	require.Len(t, ff.entries, 1)
	assert.Equal(t, faults.KindPersistence, ff.entries[0].Kind)
}

func TestAnalyze_QuotaErrorPassedThrough(t *testing.T) {
	svc, ff, _ := newService(&fakeAI{err: domai.ErrQuotaExceeded}, &fakeRepo{})

	_, err := svc.Analyze(context.Background(), appadvisory.AnalyzeCommand{Query: "X", ContentType: "movie"})
	assert.ErrorIs(t, err, domai.ErrQuotaExceeded)
	require.Len(t, ff.entries, 1)
	assert.Equal(t, faults.KindAICall, ff.entries[0].Kind)
}
