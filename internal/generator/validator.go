package generator

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/pavelanni/testprep/internal/model"
)

// Floor is the minimum number of valid questions for a usable test. Below it
// a generation attempt is a failure rather than a degraded success.
const Floor = 5

// InsufficientError reports that too few records survived validation.
type InsufficientError struct {
	Got int
}

func (e *InsufficientError) Error() string {
	return fmt.Sprintf("AI generated only %d valid questions, need at least %d", e.Got, Floor)
}

// skipReason explains why a raw record was rejected. Per-record failures are
// filtered out, never propagated as errors.
type skipReason string

const (
	skipNone           skipReason = ""
	skipNotObject      skipReason = "not a JSON object"
	skipMissingFields  skipReason = "missing required fields"
	skipBadOptions     skipReason = "options is not a 4-element string array"
	skipBadAnswer      skipReason = "correct_answer is not a string"
	skipAnswerNotInSet skipReason = "correct_answer not among options"
	skipEmptyQuestion  skipReason = "empty question text"
)

// checkRecord validates one raw record, returning either a typed Question or
// the reason it was skipped. Checks run in a fixed order: required keys,
// option count, answer membership, field coercion.
func checkRecord(rec any) (model.Question, skipReason) {
	obj, ok := rec.(map[string]any)
	if !ok {
		return model.Question{}, skipNotObject
	}

	qv, hasQ := obj["question"]
	ov, hasO := obj["options"]
	av, hasA := obj["correct_answer"]
	if !hasQ || !hasO || !hasA {
		return model.Question{}, skipMissingFields
	}

	rawOpts, ok := ov.([]any)
	if !ok || len(rawOpts) != 4 {
		return model.Question{}, skipBadOptions
	}
	options := make([]string, 4)
	for i, o := range rawOpts {
		s, ok := o.(string)
		if !ok {
			return model.Question{}, skipBadOptions
		}
		options[i] = s
	}

	answer, ok := av.(string)
	if !ok {
		return model.Question{}, skipBadAnswer
	}
	inSet := false
	for _, o := range options {
		if o == answer {
			inSet = true
			break
		}
	}
	if !inSet {
		return model.Question{}, skipAnswerNotInSet
	}

	text, ok := qv.(string)
	if !ok || strings.TrimSpace(text) == "" {
		return model.Question{}, skipEmptyQuestion
	}

	return model.Question{Question: text, Options: options, CorrectAnswer: answer}, skipNone
}

// ValidateRecords filters raw records into a guaranteed-valid question list.
// Order is preserved and earlier survivors win: at most requested questions
// are returned. When fewer than requested but at least Floor records survive,
// the shorter list is returned and the caller sees the degraded count. Below
// Floor the whole operation fails with *InsufficientError.
func ValidateRecords(records []any, requested int) ([]model.Question, error) {
	var survivors []model.Question
	for i, rec := range records {
		q, reason := checkRecord(rec)
		if reason != skipNone {
			slog.Warn("skipping invalid question record", "index", i, "reason", string(reason))
			continue
		}
		survivors = append(survivors, q)
	}

	if len(survivors) >= requested {
		return survivors[:requested], nil
	}
	if len(survivors) >= Floor {
		return survivors, nil
	}
	return nil, &InsufficientError{Got: len(survivors)}
}
