package faults

import "time"

// FailureKind distinguishes analyzer failure causes internally. The user only
// ever sees one generic message; this taxonomy exists for logging and telemetry.
type FailureKind string

const (
	KindAICall      FailureKind = "ai_call"
	KindEmptyReply  FailureKind = "empty_reply"
	KindParse       FailureKind = "parse"
	KindValidation  FailureKind = "validation"
	KindPersistence FailureKind = "persistence"
)

// Fault represents a persisted analyzer failure entry
type Fault struct {
	ID          int64       `json:"id"`
	Query       string      `json:"query"`
	ContentType string      `json:"content_type,omitempty"`
	Kind        FailureKind `json:"kind"`
	Message     string      `json:"message"`
	CreatedAt   time.Time   `json:"created_at"`
}
