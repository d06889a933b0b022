package validation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// MaxBodyBytes is the largest request body DecodeObject will read.
const MaxBodyBytes int64 = 1 << 20

const (
	kindString  = "string"
	kindNumber  = "number"
	kindBoolean = "boolean"
	kindObject  = "object"
	kindArray   = "array"
	kindNull    = "null"
)

// RawObject is a JSON object whose values have not been interpreted yet.
type RawObject map[string]json.RawMessage

// ReadObject reads at most MaxBodyBytes from r and decodes them with
// DecodeObject.
func ReadObject(r io.Reader) (RawObject, error) {
	if r == nil {
		return DecodeObject(nil)
	}

	body, err := io.ReadAll(io.LimitReader(r, MaxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	if int64(len(body)) > MaxBodyBytes {
		return nil, Errors{{
			Keyword: KeywordTooBig,
			Message: fmt.Sprintf("Body must contain at most %d byte(s)", MaxBodyBytes),
			Params: map[string]any{
				"maximum":   MaxBodyBytes,
				"type":      "body",
				"inclusive": true,
				"exact":     false,
			},
		}}
	}

	return DecodeObject(body)
}

// DecodeObject parses body as a JSON object. An empty body is treated as
// null. Anything other than an object yields a single root violation.
func DecodeObject(body []byte) (RawObject, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, Errors{wrongType(nil, kindObject, kindNull)}
	}

	if !json.Valid(trimmed) {
		return nil, Errors{invalidJSON()}
	}

	if kind := jsonKind(trimmed); kind != kindObject {
		return nil, Errors{wrongType(nil, kindObject, kind)}
	}

	var obj RawObject
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return nil, Errors{invalidJSON()}
	}
	return obj, nil
}

func invalidJSON() Violation {
	return Violation{Keyword: KeywordInvalidJSON, Message: "Body is not valid JSON"}
}

func decodeString(raw json.RawMessage) (string, string) {
	trimmed := bytes.TrimSpace(raw)
	kind := jsonKind(trimmed)
	if kind != kindString {
		return "", kind
	}

	var s string
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return "", kindNull
	}
	return s, kindString
}

// jsonKind names the JSON type of a valid, trimmed value.
func jsonKind(value []byte) string {
	if len(value) == 0 {
		return kindNull
	}

	switch value[0] {
	case '"':
		return kindString
	case '{':
		return kindObject
	case '[':
		return kindArray
	case 't', 'f':
		return kindBoolean
	case 'n':
		return kindNull
	default:
		return kindNumber
	}
}
