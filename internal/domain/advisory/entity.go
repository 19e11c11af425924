package advisory

import (
	"fmt"
	"strings"
)

// ContentType enum
type ContentType string

const (
	ContentMovie ContentType = "movie"
	ContentBook  ContentType = "book"
	ContentSong  ContentType = "song"
)

// ParseContentType validates and normalizes a content type value
func ParseContentType(s string) (ContentType, error) {
	switch ContentType(strings.ToLower(strings.TrimSpace(s))) {
	case ContentMovie:
		return ContentMovie, nil
	case ContentBook:
		return ContentBook, nil
	case ContentSong:
		return ContentSong, nil
	}
	return "", fmt.Errorf("%w: %q (allowed: movie, book, song)", ErrInvalidContentType, s)
}

// Canonical category names, in prompt/schema order
const (
	CategoryPhysicalViolence      = "physical violence"
	CategoryPsychologicalPressure = "psychological pressure"
	CategoryCulturalPressure      = "cultural pressure"
	CategoryLanguageSlang         = "language/slang"
)

// CategoryNames returns the four fixed category names in schema order
func CategoryNames() []string {
	return []string{
		CategoryPhysicalViolence,
		CategoryPsychologicalPressure,
		CategoryCulturalPressure,
		CategoryLanguageSlang,
	}
}

// Category value object
type Category struct {
	Name   string `json:"name"`
	Score  int    `json:"score"`
	Reason string `json:"reason"`
}

// AnalysisResult is the parsed verdict for one query. It has no identity;
// it lives only in the caller's hands until a SearchRecord is derived from it.
type AnalysisResult struct {
	Title             string     `json:"title"`
	Summary           string     `json:"summary"`
	OverallRiskScore  int        `json:"overall_risk_score"`
	RiskLevel         string     `json:"risk_level"`
	Categories        []Category `json:"categories"`
	AnalysisDetails   string     `json:"analysis_details"`
	AgeRecommendation string     `json:"age_recommendation"`
	PositiveTraits    []string   `json:"positive_traits"`
}

// Validate checks score bounds and normalizes RiskLevel to the banding label
// when the model supplied an inconsistent or unknown one.
func (a *AnalysisResult) Validate() error {
	if a.OverallRiskScore < 0 || a.OverallRiskScore > 100 {
		return fmt.Errorf("%w: overall_risk_score=%d", ErrScoreOutOfRange, a.OverallRiskScore)
	}
	for _, c := range a.Categories {
		if c.Score < 0 || c.Score > 100 {
			return fmt.Errorf("%w: category %q score=%d", ErrScoreOutOfRange, c.Name, c.Score)
		}
	}
	band := BandFor(a.OverallRiskScore)
	if a.RiskLevel != band.Label {
		a.RiskLevel = band.Label
	}
	if a.PositiveTraits == nil {
		a.PositiveTraits = []string{}
	}
	return nil
}
