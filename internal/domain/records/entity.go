package records

import "time"

// RecordID identifier type
type RecordID string

// SearchRecord is the persisted, append-only projection of one completed
// analysis. Rows are never mutated or deleted by this service.
type SearchRecord struct {
	ID          RecordID  `json:"id"`
	Title       string    `json:"title"`
	RiskScore   int       `json:"riskScore"`
	RiskLevel   string    `json:"riskLevel"`
	ContentType string    `json:"type"`
	Summary     string    `json:"summary,omitempty"`
	ReportURL   string    `json:"report_url,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Event is the bus payload published after a record is appended
type Event struct {
	RecordID  string    `json:"record_id"`
	Title     string    `json:"title"`
	RiskScore int       `json:"risk_score"`
	CreatedAt time.Time `json:"created_at"`
}
