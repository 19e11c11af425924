package feed

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/aydinworks/content-advisor/internal/domain/advisory"
	"github.com/aydinworks/content-advisor/internal/domain/records"
)

// Size is how many recent records the live feed shows
const Size = 5

// Item is the feed view model for one record. Band is derived from the score
// through the shared banding rule so every rendering agrees on the color.
type Item struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	RiskScore   int           `json:"riskScore"`
	RiskLevel   string        `json:"riskLevel"`
	Band        advisory.Band `json:"band"`
	ContentType string        `json:"type"`
	Summary     string        `json:"summary,omitempty"`
	CreatedAt   *time.Time    `json:"createdAt,omitempty"`
}

// Service keeps the live-feed view model. With a nil repository it serves a
// fixed local fallback and performs no backend activity (demo mode).
type Service struct {
	repo records.Repository

	mu    sync.RWMutex
	items []Item
	subs  map[chan []Item]struct{}
}

func NewService(repo records.Repository) *Service {
	s := &Service{
		repo: repo,
		subs: make(map[chan []Item]struct{}),
	}
	if repo == nil {
		s.items = fallbackItems()
	}
	return s
}

// fallbackItems is the demo-mode feed; it never changes, regardless of
// analyzer activity.
func fallbackItems() []Item {
	return []Item{
		buildItem(&records.SearchRecord{
			ID:          "demo-1",
			Title:       "Kırmızı Başlıklı Kız",
			RiskScore:   22,
			RiskLevel:   advisory.BandLow.Label,
			ContentType: string(advisory.ContentBook),
			Summary:     "Klasik bir masal; hafif korku ögeleri içerir.",
		}),
		buildItem(&records.SearchRecord{
			ID:          "demo-2",
			Title:       "Tom ve Jerry",
			RiskScore:   38,
			RiskLevel:   advisory.BandMedium.Label,
			ContentType: string(advisory.ContentMovie),
			Summary:     "Slapstick şiddet içeren çizgi film.",
		}),
	}
}

func buildItem(rec *records.SearchRecord) Item {
	it := Item{
		ID:          string(rec.ID),
		Title:       rec.Title,
		RiskScore:   rec.RiskScore,
		RiskLevel:   rec.RiskLevel,
		Band:        advisory.BandFor(rec.RiskScore),
		ContentType: rec.ContentType,
		Summary:     rec.Summary,
	}
	if !rec.CreatedAt.IsZero() {
		t := rec.CreatedAt
		it.CreatedAt = &t
	}
	return it
}

// BuildView sorts records by creation time descending (records without a
// timestamp sort as earliest) and truncates to the feed size.
func BuildView(recs []*records.SearchRecord) []Item {
	sorted := make([]*records.SearchRecord, len(recs))
	copy(sorted, recs)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].CreatedAt, sorted[j].CreatedAt
		if a.IsZero() {
			return false
		}
		if b.IsZero() {
			return true
		}
		return a.After(b)
	})
	if len(sorted) > Size {
		sorted = sorted[:Size]
	}
	items := make([]Item, 0, len(sorted))
	for _, rec := range sorted {
		items = append(items, buildItem(rec))
	}
	return items
}

// Refresh reloads the view model from the repository. On error the prior
// view model is retained.
func (s *Service) Refresh(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}
	recs, err := s.repo.Latest(ctx, Size)
	if err != nil {
		return err
	}
	items := BuildView(recs)

	s.mu.Lock()
	s.items = items
	subs := make([]chan []Item, 0, len(s.subs))
	for ch := range s.subs {
		subs = append(subs, ch)
	}
	s.mu.Unlock()

	// Fan out the fresh snapshot without blocking. A subscriber that has not
	// read yet still holds the previous snapshot in its buffer; drop it first
	// so the channel always carries the newest one.
	for _, ch := range subs {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- items:
		default:
		}
	}
	return nil
}

// OnRecordCreated is the bus callback. Errors are logged and the prior view
// model is retained; the subscription stays up.
func (s *Service) OnRecordCreated(ev *records.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Refresh(ctx); err != nil {
		log.Printf("feed refresh failed after record %s: %v", ev.RecordID, err)
	}
}

// Snapshot returns a copy of the current view model
func (s *Service) Snapshot() []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// Subscribe registers a listener for snapshot updates. The returned cancel
// function must be called on teardown.
func (s *Service) Subscribe() (<-chan []Item, func()) {
	ch := make(chan []Item, 1)
	s.mu.Lock()
	s.subs[ch] = struct{}{}
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		delete(s.subs, ch)
		s.mu.Unlock()
	}
	return ch, cancel
}
