package core

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	KindCategoryNotFound   ErrorKind = "category_not_found"
	KindDisplayNameMissing ErrorKind = "category_display_name_missing"
	KindNormalization      ErrorKind = "normalization_error"
	KindInvalidPeriod      ErrorKind = "invalid_period"
	KindInvalidArgument    ErrorKind = "invalid_argument"
)

// Error is the structured failure every aggregation returns. Presentation layers
// render it instead of aborting; Input echoes the offending argument.
type Error struct {
	Kind     ErrorKind
	Category string
	Input    string
	Detail   string
	Err      error
}

// Sentinels for errors.Is; matching compares Kind only.
var (
	ErrCategoryNotFound   = &Error{Kind: KindCategoryNotFound}
	ErrDisplayNameMissing = &Error{Kind: KindDisplayNameMissing}
	ErrNormalization      = &Error{Kind: KindNormalization}
	ErrInvalidPeriod      = &Error{Kind: KindInvalidPeriod}
	ErrInvalidArgument    = &Error{Kind: KindInvalidArgument}
)

func (e *Error) Error() string {
	var msg string
	switch e.Kind {
	case KindCategoryNotFound:
		msg = fmt.Sprintf("category %q not found in data", e.Category)
	case KindDisplayNameMissing:
		msg = fmt.Sprintf("category %q not found in metadata", e.Category)
	case KindNormalization:
		msg = fmt.Sprintf("annual energy for %s deviates by more than %.0f%% from %.0f kWh", e.Category, NormalizationTolerance*100, ReferenceAnnualEnergy)
	case KindInvalidPeriod:
		msg = fmt.Sprintf("invalid period %q", e.Input)
	case KindInvalidArgument:
		msg = fmt.Sprintf("invalid argument %q", e.Input)
	default:
		msg = string(e.Kind)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func CategoryNotFound(category string) *Error {
	return &Error{Kind: KindCategoryNotFound, Category: category, Input: category}
}

func DisplayNameMissing(category string) *Error {
	return &Error{Kind: KindDisplayNameMissing, Category: category, Input: category}
}

func NormalizationFailed(category string, sum float64) *Error {
	return &Error{
		Kind:     KindNormalization,
		Category: category,
		Input:    category,
		Detail:   fmt.Sprintf("computed sum: %g kWh", sum),
	}
}

func InvalidPeriod(input, detail string, err error) *Error {
	return &Error{Kind: KindInvalidPeriod, Input: input, Detail: detail, Err: err}
}

func InvalidArgument(input, detail string) *Error {
	return &Error{Kind: KindInvalidArgument, Input: input, Detail: detail}
}

// KindOf reports the ErrorKind of err, or "" when err is not a *Error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// ErrorResult is the JSON shape of a failed call.
type ErrorResult struct {
	Error string    `json:"error"`
	Kind  ErrorKind `json:"kind,omitempty"`
	Input string    `json:"input,omitempty"`
}

func NewErrorResult(err error) ErrorResult {
	out := ErrorResult{Error: err.Error()}
	var e *Error
	if errors.As(err, &e) {
		out.Kind = e.Kind
		out.Input = e.Input
	}
	return out
}
