package ai

import (
	"context"

	"github.com/aydinworks/content-advisor/internal/domain/advisory"
)

// Client is the port to the generative-AI collaborator. Implementations must
// return the raw response text; parsing belongs to the caller.
type Client interface {
	Analyze(ctx context.Context, query string, contentType advisory.ContentType) (string, error)
}
