package validation

import "strings"

// Keywords identify the rule a Violation comes from.
const (
	KeywordInvalidType   = "invalid_type"
	KeywordInvalidString = "invalid_string"
	KeywordTooSmall      = "too_small"
	KeywordTooBig        = "too_big"
	KeywordCustom        = "custom"
	KeywordInvalidJSON   = "invalid_json"
)

// Violation is a single failed rule.
type Violation struct {
	// Path locates the offending value; empty for object-level rules.
	Path    []string
	Keyword string
	Message string
	// Params holds rule-specific context such as the expected type or the
	// minimum length.
	Params map[string]any
}

// Detail is the wire form of a Violation.
type Detail struct {
	InstancePath string       `json:"instancePath"`
	Keyword      string       `json:"keyword"`
	Message      string       `json:"message"`
	Params       DetailParams `json:"params"`
	SchemaPath   string       `json:"schemaPath"`
}

// DetailParams wraps the issue that produced a Detail.
type DetailParams struct {
	Issue map[string]any `json:"issue"`
}

// Detail converts v to its wire form.
func (v Violation) Detail() Detail {
	joined := strings.Join(v.Path, "/")

	path := make([]string, len(v.Path))
	copy(path, v.Path)

	issue := make(map[string]any, len(v.Params)+3)
	for k, val := range v.Params {
		issue[k] = val
	}
	issue["code"] = v.Keyword
	issue["message"] = v.Message
	issue["path"] = path

	return Detail{
		InstancePath: "/" + joined,
		Keyword:      v.Keyword,
		Message:      v.Message,
		Params:       DetailParams{Issue: issue},
		SchemaPath:   "#/" + joined + "/" + v.Keyword,
	}
}

// String returns "path: message", or just the message for root violations.
func (v Violation) String() string {
	if len(v.Path) == 0 {
		return v.Message
	}
	return strings.Join(v.Path, ".") + ": " + v.Message
}

// Errors is an ordered collection of violations. A non-empty Errors is
// returned wherever input fails validation.
type Errors []Violation

// Error implements the error interface.
func (e Errors) Error() string {
	if len(e) == 0 {
		return "validation failed"
	}

	parts := make([]string, len(e))
	for i, v := range e {
		parts[i] = v.String()
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Details converts every violation to its wire form, preserving order.
func (e Errors) Details() []Detail {
	details := make([]Detail, len(e))
	for i, v := range e {
		details[i] = v.Detail()
	}
	return details
}

// Err returns e as an error, or nil when there are no violations.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

func required(path []string) Violation {
	return Violation{
		Path:    path,
		Keyword: KeywordInvalidType,
		Message: "Required",
		Params: map[string]any{
			"expected": "string",
			"received": "undefined",
		},
	}
}

func wrongType(path []string, expected, received string) Violation {
	return Violation{
		Path:    path,
		Keyword: KeywordInvalidType,
		Message: "Expected " + expected + ", received " + received,
		Params: map[string]any{
			"expected": expected,
			"received": received,
		},
	}
}
