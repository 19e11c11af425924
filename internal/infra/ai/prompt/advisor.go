package prompt

import (
    "fmt"

    "github.com/aydinworks/content-advisor/internal/domain/advisory"
)

// GetSystemPrompt provides strict directions and schema for JSON output.
func GetSystemPrompt() string {
    return `You are a content advisory analyst helping parents judge whether a movie, book or song is suitable for children. You must produce one valid JSON object only (no markdown, no commentary) that follows the schema below. Do not include code fences.

Requirements:
- Output must be a single JSON object.
- overall_risk_score and every category score are integers between 0 and 100.
- risk_level must be exactly one of: Düşük, Orta, Yüksek. It must match overall_risk_score: below 30 is Düşük, 30 to 59 is Orta, 60 and above is Yüksek.
- categories must contain exactly four items, in this order and with these exact names: physical violence, psychological pressure, cultural pressure, language/slang.
- positive_traits is an array of strings; use an empty array when there is nothing positive to note.
- Keep summary and reasons concise. Write free text fields in Turkish.

Schema (example with empty values):
{
  "title": "<string>",
  "summary": "<string>",
  "overall_risk_score": 0,
  "risk_level": "<Düşük|Orta|Yüksek>",
  "categories": [
    {"name": "physical violence", "score": 0, "reason": "<string>"},
    {"name": "psychological pressure", "score": 0, "reason": "<string>"},
    {"name": "cultural pressure", "score": 0, "reason": "<string>"},
    {"name": "language/slang", "score": 0, "reason": "<string>"}
  ],
  "analysis_details": "<string>",
  "age_recommendation": "<string>",
  "positive_traits": ["<string>"]
}`
}

// GetUserPrompt builds a compact user message around the query. It is
// deterministic: the same query and content type always yield the same text.
func GetUserPrompt(query string, contentType advisory.ContentType) string {
    return fmt.Sprintf("Assess the %s titled %q and respond with the JSON per schema. Consider bullying, psychological pressure, cultural conformity pressure, and language/violence risks for children.", contentType, query)
}
