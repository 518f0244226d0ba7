package domain

import "time"

type FeatureID string

const (
	FeatureExecutiveSummary     FeatureID = "executive-summary"
	FeatureKeyTakeaways         FeatureID = "key-takeaways"
	FeatureQAAnswer             FeatureID = "qa-answer"
	FeatureClauseExplanation    FeatureID = "clause-explanation"
	FeatureEntityExtraction     FeatureID = "entity-extraction"
	FeatureObligationsRights    FeatureID = "obligations-rights"
	FeatureGlossary             FeatureID = "glossary"
	FeatureOutline              FeatureID = "outline"
	FeatureRiskOpportunity      FeatureID = "risk-opportunity"
	FeatureDocumentComparison   FeatureID = "document-comparison"
	FeatureJurisdictionAnalysis FeatureID = "jurisdiction-analysis"
	FeatureSentimentAnalysis    FeatureID = "sentiment-analysis"
)

type FeatureStatus string

const (
	FeatureEmpty FeatureStatus = "empty"
	FeatureReady FeatureStatus = "ready"
	FeatureError FeatureStatus = "error"
)

// FeatureResult is the cached outcome of the most recent run of one feature
// against the current document. Content is only ever derived from the document
// text, persona, and input captured at run start; a failed run clears any
// previous content rather than leaving stale text that looks current.
type FeatureResult struct {
	Status      FeatureStatus `json:"status"`
	Content     string        `json:"content,omitempty"`
	ErrorDetail string        `json:"error_detail,omitempty"`
	GeneratedAt time.Time     `json:"generated_at"`
}

// EngineParams are the per-feature generation parameters passed to the
// insight engine.
type EngineParams struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"max_output_tokens"`
}
