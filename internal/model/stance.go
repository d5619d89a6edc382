package model

import "strings"

// Stance is the relationship of a piece of evidence to a claim
type Stance string

const (
	StanceEntails      Stance = "Entails"
	StanceContradicts  Stance = "Contradicts"
	StanceUndetermined Stance = "Undetermined"

	// StanceInvalid marks a completion response outside the three known
	// labels. It is a data-quality signal, never counted in a verdict.
	StanceInvalid Stance = "Invalid"
)

// ParseStance maps a raw completion response to a stance. The response is
// trimmed and trailing punctuation is stripped first, so "Entails." parses
// as Entails. Anything unrecognized maps to StanceInvalid.
func ParseStance(raw string) Stance {
	s := strings.TrimSpace(raw)
	s = strings.TrimRight(s, ".,;:!?")

	switch s {
	case "Entails":
		return StanceEntails
	case "Contradicts":
		return StanceContradicts
	case "Undetermined":
		return StanceUndetermined
	default:
		return StanceInvalid
	}
}
