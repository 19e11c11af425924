package ai

import "errors"

// ErrQuotaExceeded indicates the AI provider returned a quota/limit error (HTTP 429 or similar).
var ErrQuotaExceeded = errors.New("ai quota exceeded")

// ErrEmptyResponse indicates the provider answered with no content at all.
var ErrEmptyResponse = errors.New("empty ai response")

// ErrNotConfigured indicates no API credential was configured; no call was attempted.
var ErrNotConfigured = errors.New("ai api key is not configured")
