// Package validate checks user-supplied claims before they reach the
// verification pipeline. The pipeline itself only defends against empty
// input; everything else is rejected here with a message the CLI can show.
package validate

import (
	"errors"
	"fmt"
	"unicode"
)

// MaxClaimLength bounds the claim so the reformulated query stays focused
const MaxClaimLength = 75

var (
	ErrEmptyClaim = errors.New("claim is empty")
	ErrNotEnglish = errors.New("claim does not look like English text")
)

// TooLongError reports a claim over the length limit
type TooLongError struct {
	Length int
}

func (e *TooLongError) Error() string {
	return fmt.Sprintf("claim is %d characters, limit is %d", e.Length, MaxClaimLength)
}

// Claim validates a claim string: non-empty, under the length limit, and
// plausibly English. Language detection is a heuristic; for borderline
// short inputs making the claim more verbose helps.
func Claim(s string) error {
	if s == "" {
		return ErrEmptyClaim
	}
	if len(s) >= MaxClaimLength {
		return &TooLongError{Length: len(s)}
	}
	if !isLikelyEnglish(s) {
		return ErrNotEnglish
	}
	return nil
}

// isLikelyEnglish accepts text whose letters are predominantly ASCII.
// A proper language detector is overkill for short single-sentence input.
func isLikelyEnglish(s string) bool {
	letters := 0
	ascii := 0
	for _, r := range s {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if r < 128 {
			ascii++
		}
	}
	if letters == 0 {
		return false
	}
	return float64(ascii)/float64(letters) >= 0.8
}
