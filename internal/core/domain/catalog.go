package domain

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// PromptBuilder renders the engine prompt for one feature. Builders are pure:
// document text, persona, and input in, prompt string out.
type PromptBuilder func(documentText, persona, input string) string

// FeatureDescriptor declares one analysis feature. The session state machine
// never branches per feature; everything feature-specific lives here.
type FeatureDescriptor struct {
	ID            FeatureID     `json:"id"`
	Title         string        `json:"title"`
	ExportBase    string        `json:"export_base"`
	RequiresInput bool          `json:"requires_input"`
	InputLabel    string        `json:"input_label,omitempty"`
	Params        EngineParams  `json:"params"`
	Prompt        PromptBuilder `json:"-"`
}

const qaAnswerTemplate = `%s
Your task is to answer questions about a legal document.
Read the entire document provided below, and then answer the user's question concisely and accurately based *only* on the information present in the document.
If the information is not in the document, state that clearly.

Legal Document:
---
%s
---

User's Question: "%s"

Answer:`

const clauseExplanationTemplate = `%s
Read the following legal clause and explain it in plain English:

Clause:
---
%s
---

Explanation:`

const entityExtractionTemplate = `%s
From the following legal document, identify and list key entities such as:
- Parties involved (e.g., company names, individual names, roles like "Lessor", "Lessee")
- Dates (e.g., "Effective Date", specific dates)
- Monetary Values
- Addresses
- Defined Terms (terms explicitly defined within the document, often capitalized)
Present them as a clear, categorized list.

Legal Document:
---
%s
---

Extracted Entities:`

const obligationsRightsTemplate = `%s
From the following legal document, identify and list the specific obligations (what each party MUST do) and rights (what each party CAN do).
Organize them clearly, preferably by party if applicable, or as a general list if not party-specific.

Legal Document:
---
%s
---

Obligations and Rights:`

const glossaryTemplate = `%s
From the following legal document, identify key legal terms or jargon. For each term, provide a concise, plain-English definition.
If the term is explicitly defined in the document, use that definition. Otherwise, provide a general legal definition.
Present as a list of "Term: Definition".

Legal Document:
---
%s
---

Legal Glossary:`

const outlineTemplate = `%s
Generate a structured outline or table of contents for the following legal document based on its headings, subheadings, and logical sections.
Use clear indentation to show hierarchy. Do not include page numbers.

Legal Document:
---
%s
---

Document Outline:`

const executiveSummaryTemplate = `%s
Read the entire document provided below and summarize its core purpose, key parties, main agreements, and critical outcomes.
The summary should be no more than 200 words and written in plain, professional English.

Legal Document:
---
%s
---

Executive Summary:`

const keyTakeawaysTemplate = `%s
Read the following legal document and identify the most important points, obligations, rights, and responsibilities.
Present these as a concise bulleted list of key takeaways. Each takeaway should be a single, clear sentence. Aim for 5-10 key points.

Legal Document:
---
%s
---

Key Takeaways:`

const riskOpportunityTemplate = `%s
Read the following legal document and identify potential risks, liabilities, or unfavorable clauses, as well as any advantageous clauses or opportunities for the parties involved.
Present these as two separate lists (Risks and Opportunities).

Legal Document:
---
%s
---

Analysis:`

const documentComparisonTemplate = `%s
Compare the following two legal documents. Identify the key similarities and differences in their parties, terms, obligations, and overall intent.
Present the comparison as organized sections (Similarities, Differences, Notable Omissions).

Document A:
---
%s
---

Document B:
---
%s
---

Comparison:`

const jurisdictionAnalysisTemplate = `%s
From the following legal document, identify the governing law, jurisdiction, and venue provisions.
State which jurisdiction's law applies and which courts or arbitration bodies are named, quoting the relevant clauses.
If no governing-law provision is present, state that clearly.

Legal Document:
---
%s
---

Jurisdiction & Governing Law:`

const sentimentAnalysisTemplate = `%s
Read the following legal document and assess its overall tone: is the drafting neutral, balanced, or noticeably favorable or aggressive toward one party?
Support the assessment with brief examples from the text.

Legal Document:
---
%s
---

Tone & Sentiment:`

var catalog = []FeatureDescriptor{
	{
		ID:         FeatureExecutiveSummary,
		Title:      "Executive Summary",
		ExportBase: "executive_summary",
		Params:     EngineParams{Temperature: 0.7, MaxOutputTokens: 250},
		Prompt: func(documentText, persona, _ string) string {
			return fmt.Sprintf(executiveSummaryTemplate, persona, documentText)
		},
	},
	{
		ID:         FeatureKeyTakeaways,
		Title:      "Key Takeaways",
		ExportBase: "key_takeaways",
		Params:     EngineParams{Temperature: 0.7, MaxOutputTokens: 400},
		Prompt: func(documentText, persona, _ string) string {
			return fmt.Sprintf(keyTakeawaysTemplate, persona, documentText)
		},
	},
	{
		ID:            FeatureQAAnswer,
		Title:         "Q&A Answer",
		ExportBase:    "qa_answer",
		RequiresInput: true,
		InputLabel:    "question",
		Params:        EngineParams{Temperature: 0.5, MaxOutputTokens: 300},
		Prompt: func(documentText, persona, input string) string {
			return fmt.Sprintf(qaAnswerTemplate, persona, documentText, input)
		},
	},
	{
		ID:            FeatureClauseExplanation,
		Title:         "Clause Explanation",
		ExportBase:    "clause_explanation",
		RequiresInput: true,
		InputLabel:    "clause",
		Params:        EngineParams{Temperature: 0.7, MaxOutputTokens: 500},
		Prompt: func(_, persona, input string) string {
			return fmt.Sprintf(clauseExplanationTemplate, persona, input)
		},
	},
	{
		ID:         FeatureEntityExtraction,
		Title:      "Extracted Entities",
		ExportBase: "extracted_entities",
		Params:     EngineParams{Temperature: 0.3, MaxOutputTokens: 700},
		Prompt: func(documentText, persona, _ string) string {
			return fmt.Sprintf(entityExtractionTemplate, persona, documentText)
		},
	},
	{
		ID:         FeatureObligationsRights,
		Title:      "Obligations & Rights",
		ExportBase: "obligations_rights",
		Params:     EngineParams{Temperature: 0.5, MaxOutputTokens: 800},
		Prompt: func(documentText, persona, _ string) string {
			return fmt.Sprintf(obligationsRightsTemplate, persona, documentText)
		},
	},
	{
		ID:         FeatureGlossary,
		Title:      "Legal Glossary",
		ExportBase: "legal_glossary",
		Params:     EngineParams{Temperature: 0.3, MaxOutputTokens: 800},
		Prompt: func(documentText, persona, _ string) string {
			return fmt.Sprintf(glossaryTemplate, persona, documentText)
		},
	},
	{
		ID:         FeatureOutline,
		Title:      "Document Outline",
		ExportBase: "document_outline",
		Params:     EngineParams{Temperature: 0.3, MaxOutputTokens: 700},
		Prompt: func(documentText, persona, _ string) string {
			return fmt.Sprintf(outlineTemplate, persona, documentText)
		},
	},
	{
		ID:         FeatureRiskOpportunity,
		Title:      "Risk & Opportunity Analysis",
		ExportBase: "risk_opportunity",
		Params:     EngineParams{Temperature: 0.7, MaxOutputTokens: 700},
		Prompt: func(documentText, persona, _ string) string {
			return fmt.Sprintf(riskOpportunityTemplate, persona, documentText)
		},
	},
	{
		ID:            FeatureDocumentComparison,
		Title:         "Document Comparison",
		ExportBase:    "document_comparison",
		RequiresInput: true,
		InputLabel:    "comparison document text",
		Params:        EngineParams{Temperature: 0.5, MaxOutputTokens: 800},
		Prompt: func(documentText, persona, input string) string {
			return fmt.Sprintf(documentComparisonTemplate, persona, documentText, input)
		},
	},
	{
		ID:         FeatureJurisdictionAnalysis,
		Title:      "Jurisdiction & Governing Law",
		ExportBase: "jurisdiction_analysis",
		Params:     EngineParams{Temperature: 0.3, MaxOutputTokens: 400},
		Prompt: func(documentText, persona, _ string) string {
			return fmt.Sprintf(jurisdictionAnalysisTemplate, persona, documentText)
		},
	},
	{
		ID:         FeatureSentimentAnalysis,
		Title:      "Tone & Sentiment",
		ExportBase: "sentiment_analysis",
		Params:     EngineParams{Temperature: 0.5, MaxOutputTokens: 300},
		Prompt: func(documentText, persona, _ string) string {
			return fmt.Sprintf(sentimentAnalysisTemplate, persona, documentText)
		},
	},
}

var catalogByID = indexCatalog(catalog)

func indexCatalog(list []FeatureDescriptor) map[FeatureID]FeatureDescriptor {
	index := make(map[FeatureID]FeatureDescriptor, len(list))
	for _, descriptor := range list {
		index[descriptor.ID] = descriptor
	}
	return index
}

// Catalog returns all feature descriptors in stable display order.
func Catalog() []FeatureDescriptor {
	out := make([]FeatureDescriptor, len(catalog))
	copy(out, catalog)
	return out
}

func DescriptorFor(id FeatureID) (FeatureDescriptor, error) {
	descriptor, ok := catalogByID[id]
	if !ok {
		return FeatureDescriptor{}, WrapError(ErrFeatureNotFound, "lookup feature", fmt.Errorf("unknown feature id %q", id))
	}
	return descriptor, nil
}

// ClauseCandidates lists the substantial lines of a document, in order, for
// clause selection. A line qualifies when its trimmed form is longer than 50
// characters.
func ClauseCandidates(documentText string) []string {
	candidates := []string{}
	for _, line := range strings.Split(documentText, "\n") {
		line = strings.TrimSpace(line)
		if utf8.RuneCountInString(line) > 50 {
			candidates = append(candidates, line)
		}
	}
	return candidates
}
