package httpserver

import (
    "encoding/json"
    "errors"
    "net/http"
    "strconv"

    "github.com/go-chi/chi/v5"
    "github.com/go-chi/cors"

    appadvisory "github.com/aydinworks/content-advisor/internal/application/advisory"
    appfeed "github.com/aydinworks/content-advisor/internal/application/feed"
    appsession "github.com/aydinworks/content-advisor/internal/application/session"
    domadvisory "github.com/aydinworks/content-advisor/internal/domain/advisory"
    domai "github.com/aydinworks/content-advisor/internal/domain/ai"
    "github.com/aydinworks/content-advisor/internal/domain/faults"
    "github.com/aydinworks/content-advisor/internal/domain/records"
    "github.com/aydinworks/content-advisor/internal/middleware"
)

// genericAnalysisError is the single user-facing message for every
// collaborator failure; the real cause is only logged.
const genericAnalysisError = "analysis failed, please try again"

type Router struct {
    analyzerSvc *appadvisory.Service
    feedSvc     *appfeed.Service
    sessionSvc  *appsession.Service
    recordsRepo records.Repository
    faultsRepo  faults.Repository
}

func NewRouter(analyzerSvc *appadvisory.Service, feedSvc *appfeed.Service, sessionSvc *appsession.Service, recordsRepo records.Repository, faultsRepo faults.Repository) http.Handler {
    r := &Router{
        analyzerSvc: analyzerSvc,
        feedSvc:     feedSvc,
        sessionSvc:  sessionSvc,
        recordsRepo: recordsRepo,
        faultsRepo:  faultsRepo,
    }
    mux := chi.NewRouter()
    mux.Use(cors.Handler(cors.Options{
        AllowedOrigins: []string{"*"},
        AllowedMethods: []string{"GET", "POST", "OPTIONS"},
        AllowedHeaders: []string{"Accept", "Content-Type", "Authorization", "X-Session-Token"},
    }))

    mux.Route("/v1", func(rt chi.Router) {
        rt.Use(middleware.SessionMiddleware(sessionSvc))
        rt.Post("/session", r.wrap(r.handleCreateSession))
        rt.Post("/analyze", r.wrap(r.handleAnalyze))
        rt.Get("/feed", r.wrap(r.handleFeed))
        rt.Get("/feed/stream", r.handleFeedStream)
        rt.Get("/records", r.wrap(r.handleRecords))
        rt.Get("/faults", r.wrap(r.handleFaults))
    })

    return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
    return func(w http.ResponseWriter, req *http.Request) {
        if err := h(w, req); err != nil {
            switch {
            case errors.Is(err, domadvisory.ErrEmptyQuery),
                errors.Is(err, domadvisory.ErrInvalidContentType),
                errors.Is(err, domai.ErrNotConfigured):
                http.Error(w, err.Error(), http.StatusBadRequest)
            case errors.Is(err, domai.ErrQuotaExceeded):
                http.Error(w, "ai quota exceeded", http.StatusTooManyRequests)
            default:
                http.Error(w, "internal error", http.StatusInternalServerError)
            }
        }
    }
}

// POST /v1/session
// Mints an anonymous session. In demo mode (no session store) this answers
// with an empty body and 204; the client simply runs without a session.
func (r *Router) handleCreateSession(w http.ResponseWriter, req *http.Request) error {
    sess, err := r.sessionSvc.Create(req.Context())
    if err != nil {
        // non-fatal by contract: the client continues sessionless
        http.Error(w, "session unavailable", http.StatusServiceUnavailable)
        return nil
    }
    if sess == nil {
        w.WriteHeader(http.StatusNoContent)
        return nil
    }
    w.Header().Set("Content-Type", "application/json")
    return json.NewEncoder(w).Encode(sess)
}

// POST /v1/analyze
// Body: {"query": "...", "content_type": "movie|book|song"}
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
    var body struct {
        Query       string `json:"query"`
        ContentType string `json:"content_type"`
    }
    if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
        http.Error(w, "invalid request body", http.StatusBadRequest)
        return nil
    }
    if err := middleware.ValidateQuery(body.Query); err != nil {
        middleware.CountAnalysis("rejected")
        http.Error(w, err.Error(), http.StatusBadRequest)
        return nil
    }

    cmd := appadvisory.AnalyzeCommand{
        Query:       middleware.SanitizeQuery(body.Query),
        ContentType: body.ContentType,
        Session:     middleware.GetSessionFromContext(req.Context()),
    }
    result, err := r.analyzerSvc.Analyze(req.Context(), cmd)
    if err != nil {
        switch {
        case errors.Is(err, domadvisory.ErrEmptyQuery),
            errors.Is(err, domadvisory.ErrInvalidContentType),
            errors.Is(err, domai.ErrNotConfigured):
            middleware.CountAnalysis("rejected")
            return err
        case errors.Is(err, domai.ErrQuotaExceeded):
            middleware.CountAnalysis("failed")
            return err
        default:
            // one generic message for AI, parse and validation failures alike
            middleware.CountAnalysis("failed")
            http.Error(w, genericAnalysisError, http.StatusBadGateway)
            return nil
        }
    }

    middleware.CountAnalysis("ok")
    w.Header().Set("Content-Type", "application/json")
    return json.NewEncoder(w).Encode(result)
}

// GET /v1/feed
func (r *Router) handleFeed(w http.ResponseWriter, req *http.Request) error {
    items := r.feedSvc.Snapshot()
    w.Header().Set("Content-Type", "application/json")
    return json.NewEncoder(w).Encode(map[string]any{"items": items})
}

// GET /v1/records?page=&page_size=
func (r *Router) handleRecords(w http.ResponseWriter, req *http.Request) error {
    w.Header().Set("Content-Type", "application/json")

    page, _ := strconv.Atoi(req.URL.Query().Get("page"))
    size, _ := strconv.Atoi(req.URL.Query().Get("page_size"))
    if page <= 0 {
        page = 1
    }
    if size <= 0 {
        size = 20
    }

    if r.recordsRepo == nil {
        // demo mode: no store, nothing recorded
        return json.NewEncoder(w).Encode(records.NewPaginatedResult(nil, page, size, 0))
    }
    result, err := r.recordsRepo.Paginate(req.Context(), page, size)
    if err != nil {
        return err
    }
    if result.Data == nil {
        result.Data = []*records.SearchRecord{}
    }
    return json.NewEncoder(w).Encode(result)
}

// GET /v1/faults?limit=
// Operational view over recent analyzer failures.
func (r *Router) handleFaults(w http.ResponseWriter, req *http.Request) error {
    w.Header().Set("Content-Type", "application/json")

    limit, _ := strconv.Atoi(req.URL.Query().Get("limit"))
    if limit <= 0 || limit > 100 {
        limit = 20
    }

    list := []*faults.Fault{}
    if r.faultsRepo != nil {
        got, err := r.faultsRepo.Latest(req.Context(), limit)
        if err != nil {
            return err
        }
        if got != nil {
            list = got
        }
    }
    return json.NewEncoder(w).Encode(map[string]any{"faults": list})
}
