package validation

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type ruleKind int

const (
	ruleMinLength ruleKind = iota + 1
	ruleURL
	ruleUUID
	ruleDateTime
)

// Rule is a single check applied to a string value.
type Rule struct {
	kind ruleKind
	min  int
}

// MinLength requires at least n characters.
func MinLength(n int) Rule {
	return Rule{kind: ruleMinLength, min: n}
}

// URL requires an absolute URL.
func URL() Rule {
	return Rule{kind: ruleURL}
}

// UUID requires a hyphenated UUID of any version.
func UUID() Rule {
	return Rule{kind: ruleUUID}
}

// DateTime requires an RFC 3339 timestamp.
func DateTime() Rule {
	return Rule{kind: ruleDateTime}
}

// Format returns the OpenAPI string format the rule enforces, or "" for
// rules that do not constrain the format.
func (r Rule) Format() string {
	switch r.kind {
	case ruleURL:
		return "uri"
	case ruleUUID:
		return "uuid"
	case ruleDateTime:
		return "date-time"
	default:
		return ""
	}
}

// MinLength returns the minimum length the rule enforces, if any.
func (r Rule) MinLength() (int, bool) {
	if r.kind != ruleMinLength {
		return 0, false
	}
	return r.min, true
}

func (r Rule) check(path []string, value string) (Violation, bool) {
	switch r.kind {
	case ruleMinLength:
		if utf8.RuneCountInString(value) >= r.min {
			return Violation{}, true
		}
		return Violation{
			Path:    path,
			Keyword: KeywordTooSmall,
			Message: fmt.Sprintf("String must contain at least %d character(s)", r.min),
			Params: map[string]any{
				"minimum":   r.min,
				"type":      "string",
				"inclusive": true,
				"exact":     false,
			},
		}, false
	case ruleURL:
		return formatCheck(path, value, "url", "url")
	case ruleUUID:
		// validator's uuid pattern is lowercase only.
		return formatCheck(path, strings.ToLower(value), "uuid", "uuid")
	case ruleDateTime:
		return formatCheck(path, value, "datetime="+time.RFC3339, "datetime")
	default:
		return Violation{}, true
	}
}

func formatCheck(path []string, value, tag, name string) (Violation, bool) {
	if validate.Var(value, tag) == nil {
		return Violation{}, true
	}
	return Violation{
		Path:    path,
		Keyword: KeywordInvalidString,
		Message: "Invalid " + name,
		Params:  map[string]any{"validation": name},
	}, false
}
