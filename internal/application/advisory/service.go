package advisory

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aydinworks/content-advisor/internal/application"
	domadvisory "github.com/aydinworks/content-advisor/internal/domain/advisory"
	domai "github.com/aydinworks/content-advisor/internal/domain/ai"
	"github.com/aydinworks/content-advisor/internal/domain/faults"
	"github.com/aydinworks/content-advisor/internal/domain/records"
	"github.com/aydinworks/content-advisor/internal/domain/session"
)

// ReportArchive port for storing the full analysis JSON
type ReportArchive interface {
	ArchiveReport(ctx context.Context, key string, report []byte) (string, error)
}

// Service implements the analyze-and-persist use case. Any of AI, Repo,
// Faults, Bus and Archive may be nil; a nil collaborator disables that step.
type Service struct {
	AI      domai.Client
	Repo    records.Repository
	Faults  faults.Repository
	Bus     records.Publisher
	Archive ReportArchive
	Clock   application.Clock
}

// AnalyzeCommand carries the user's request plus the resolved session (nil when absent)
type AnalyzeCommand struct {
	Query       string
	ContentType string
	Session     *session.Session
}

// AnalyzeResult is what the caller renders. Persisted stays false when no
// backend/session is available or when the append failed after a successful
// analysis; the analysis itself is never lost to a persistence problem.
type AnalyzeResult struct {
	Analysis  *domadvisory.AnalysisResult `json:"analysis"`
	RecordID  string                      `json:"record_id,omitempty"`
	ReportURL string                      `json:"report_url,omitempty"`
	Persisted bool                        `json:"persisted"`
}

// Analyze validates input, calls the AI collaborator once (no retry, no
// timeout of its own) and parses the reply. Failure kinds are distinguished
// internally for logging and the fault log, but callers surface one generic
// message for every collaborator failure.
func (s *Service) Analyze(ctx context.Context, cmd AnalyzeCommand) (*AnalyzeResult, error) {
	query := strings.TrimSpace(cmd.Query)
	if query == "" {
		return nil, domadvisory.ErrEmptyQuery
	}
	contentType, err := domadvisory.ParseContentType(cmd.ContentType)
	if err != nil {
		return nil, err
	}
	if s.AI == nil {
		return nil, domai.ErrNotConfigured
	}

	raw, err := s.AI.Analyze(ctx, query, contentType)
	if err != nil {
		s.recordFault(query, contentType, faults.KindAICall, err)
		return nil, fmt.Errorf("ai call failed: %w", err)
	}
	if strings.TrimSpace(raw) == "" {
		s.recordFault(query, contentType, faults.KindEmptyReply, domai.ErrEmptyResponse)
		return nil, domai.ErrEmptyResponse
	}

	var analysis domadvisory.AnalysisResult
	if err := json.Unmarshal([]byte(raw), &analysis); err != nil {
		s.recordFault(query, contentType, faults.KindParse, err)
		return nil, fmt.Errorf("failed to parse ai response: %w", err)
	}
	if err := analysis.Validate(); err != nil {
		s.recordFault(query, contentType, faults.KindValidation, err)
		return nil, fmt.Errorf("invalid ai response: %w", err)
	}

	out := &AnalyzeResult{Analysis: &analysis}

	// Append the derived record only when both a backend and a session exist.
	// A failure here is a warning, not an error: the analysis already succeeded.
	if s.Repo != nil && cmd.Session != nil {
		rec := s.deriveRecord(&analysis, contentType, raw)
		if err := s.Repo.Save(ctx, rec); err != nil {
			log.Printf("warn: failed to persist search record for %q: %v", analysis.Title, err)
			s.recordFault(query, contentType, faults.KindPersistence, err)
			return out, nil
		}
		out.RecordID = string(rec.ID)
		out.ReportURL = rec.ReportURL
		out.Persisted = true

		if s.Bus != nil {
			ev := &records.Event{
				RecordID:  string(rec.ID),
				Title:     rec.Title,
				RiskScore: rec.RiskScore,
				CreatedAt: rec.CreatedAt,
			}
			if err := s.Bus.PublishRecordCreated(ev); err != nil {
				log.Printf("warn: failed to publish record event: %v", err)
			}
		}
	}
	return out, nil
}

func (s *Service) deriveRecord(a *domadvisory.AnalysisResult, contentType domadvisory.ContentType, raw string) *records.SearchRecord {
	id := uuid.New().String()
	rec := &records.SearchRecord{
		ID:          records.RecordID(id),
		Title:       a.Title,
		RiskScore:   a.OverallRiskScore,
		RiskLevel:   a.RiskLevel,
		ContentType: string(contentType),
		Summary:     a.Summary,
		CreatedAt:   s.Clock.Now(),
	}
	if s.Archive != nil {
		key := fmt.Sprintf("reports/%s.json", id)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		url, err := s.Archive.ArchiveReport(ctx, key, []byte(raw))
		if err != nil {
			log.Printf("warn: failed to archive report %s: %v", key, err)
		} else {
			rec.ReportURL = url
		}
	}
	return rec
}

// recordFault appends to the fault log, best-effort. The fault log feeds
// telemetry only; losing an entry must never affect the user-visible outcome.
func (s *Service) recordFault(query string, contentType domadvisory.ContentType, kind faults.FailureKind, cause error) {
	log.Printf("analyze failed: kind=%s query=%q type=%s err=%v", kind, query, contentType, cause)
	if s.Faults == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	f := &faults.Fault{
		Query:       query,
		ContentType: string(contentType),
		Kind:        kind,
		Message:     cause.Error(),
		CreatedAt:   s.Clock.Now(),
	}
	if err := s.Faults.Save(ctx, f); err != nil {
		log.Printf("warn: failed to save fault entry: %v", err)
	}
}
