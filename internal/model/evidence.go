package model

import "strings"

// EvidenceRecord is a single retrieved literature excerpt
type EvidenceRecord struct {
	ID        string `json:"id"`         // Source identifier (first 8 chars of a PubMed ID)
	Title     string `json:"title"`      // Article title
	Text      string `json:"text"`       // Conclusion, or abstract when no conclusion exists
	SourceURL string `json:"source_url"` // Link back to the article
}

// NewEvidenceRecord builds a record with normalized title and text.
// Square brackets are rewritten to parentheses so downstream scorers
// cannot misread the string as a list.
func NewEvidenceRecord(id, title, text, sourceURL string) EvidenceRecord {
	return EvidenceRecord{
		ID:        id,
		Title:     NormalizeBrackets(title),
		Text:      NormalizeBrackets(text),
		SourceURL: sourceURL,
	}
}

// NormalizeBrackets replaces square brackets with parentheses
func NormalizeBrackets(s string) string {
	s = strings.ReplaceAll(s, "[", "(")
	return strings.ReplaceAll(s, "]", ")")
}

// ScoredEvidence is an evidence record with its relevance score
type ScoredEvidence struct {
	EvidenceRecord
	Score float64 `json:"score"` // Cross-encoder relevance, ordering is descending
}

// ClassifiedEvidence is scored evidence with the stance the completion
// service assigned to it
type ClassifiedEvidence struct {
	ScoredEvidence
	Stance Stance `json:"stance"`
}
