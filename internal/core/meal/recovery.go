package meal

import (
	"fmt"
	"strings"

	"mealflow/internal/pkg/common"
)

// RecoveryReason classifies why no structured meal could be extracted.
type RecoveryReason string

const (
	// NoOpeningBrace means the completion contains no object at all.
	NoOpeningBrace RecoveryReason = "NO_OPENING_BRACE"
	// NoValidStructureFound means an opening brace exists but no
	// candidate window parses.
	NoValidStructureFound RecoveryReason = "NO_VALID_STRUCTURE"
)

// rawSampleLimit bounds the completion prefix kept for diagnostics.
const rawSampleLimit = 200

// RecoveryError reports a completion that succeeded upstream but holds
// no parseable structured document.
type RecoveryError struct {
	Reason    RecoveryReason
	RawSample string
}

func (e *RecoveryError) Error() string {
	return fmt.Sprintf("failed to recover a structured meal from the completion: %s", e.Reason)
}

// Recover extracts a GeneratedMeal from raw completion text. The text
// may carry leading or trailing commentary, markdown fences, or
// truncation; extraction is best-effort and the result is not validated
// beyond parsing.
func Recover(raw string) (*GeneratedMeal, error) {
	text := strings.TrimSpace(raw)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	start := strings.Index(text, "{")
	if start == -1 {
		return nil, &RecoveryError{Reason: NoOpeningBrace, RawSample: sample(raw)}
	}
	text = text[start:]

	// Fast path: take the first balanced top-level object. The scan is
	// string-aware, so braces inside string values do not end it early.
	if candidate, ok := balancedObject(text); ok {
		if meal, err := parseMeal(candidate); err == nil {
			return meal, nil
		}
		// repair pass for bare object keys, then retry
		if meal, err := parseMeal(common.QuoteJSONKeys(candidate)); err == nil {
			return meal, nil
		}
	}

	// Fallback: the window-shrinking loop. Longest candidate first,
	// shrinking one character from the end until a strict parse
	// succeeds. Quadratic in the worst case, but completions are a few
	// KB at most.
	for end := len(text); end > 1; end-- {
		if meal, err := parseMeal(text[:end]); err == nil {
			return meal, nil
		}
	}

	return nil, &RecoveryError{Reason: NoValidStructureFound, RawSample: sample(raw)}
}

// parseMeal is the strict parse applied to each candidate window.
func parseMeal(candidate string) (*GeneratedMeal, error) {
	var meal GeneratedMeal
	if err := common.ParseJSON(candidate, &meal); err != nil {
		return nil, err
	}
	return &meal, nil
}

// balancedObject returns the prefix of text covering the first balanced
// top-level object. text must start at an opening brace.
func balancedObject(text string) (string, bool) {
	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(text); i++ {
		c := text[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[:i+1], true
			}
		}
	}
	return "", false
}

func sample(raw string) string {
	if len(raw) > rawSampleLimit {
		return raw[:rawSampleLimit]
	}
	return raw
}
