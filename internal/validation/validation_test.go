package validation

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var authorInput = Schema("AuthorInput",
	String("name", MinLength(1)),
	String("avatar_url", URL()),
)

func parse(t *testing.T, schema ObjectSchema, body string) (Values, Errors) {
	t.Helper()

	obj, err := DecodeObject([]byte(body))
	require.NoError(t, err)

	values, err := schema.Parse(obj)
	if err == nil {
		return values, nil
	}

	var errs Errors
	require.ErrorAs(t, err, &errs)
	return nil, errs
}

func TestDecodeObject(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		body        string
		wantKeyword string
		wantMessage string
	}{
		{"empty body", "", KeywordInvalidType, "Expected object, received null"},
		{"whitespace body", "  \n", KeywordInvalidType, "Expected object, received null"},
		{"null", "null", KeywordInvalidType, "Expected object, received null"},
		{"array", "[1,2]", KeywordInvalidType, "Expected object, received array"},
		{"string", `"x"`, KeywordInvalidType, "Expected object, received string"},
		{"number", "42", KeywordInvalidType, "Expected object, received number"},
		{"malformed", `{"name":`, KeywordInvalidJSON, "Body is not valid JSON"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeObject([]byte(tc.body))

			var errs Errors
			require.ErrorAs(t, err, &errs)
			require.Len(t, errs, 1)
			assert.Equal(t, tc.wantKeyword, errs[0].Keyword)
			assert.Equal(t, tc.wantMessage, errs[0].Message)
			assert.Empty(t, errs[0].Path)
		})
	}

	obj, err := DecodeObject([]byte(`{"name":"x"}`))
	require.NoError(t, err)
	assert.Contains(t, obj, "name")
}

func TestReadObject_TooBig(t *testing.T) {
	t.Parallel()

	body := `{"name":"` + strings.Repeat("a", int(MaxBodyBytes)) + `"}`
	_, err := ReadObject(strings.NewReader(body))

	var errs Errors
	require.ErrorAs(t, err, &errs)
	assert.Equal(t, KeywordTooBig, errs[0].Keyword)
}

func TestObjectSchemaParse_Valid(t *testing.T) {
	t.Parallel()

	values, errs := parse(t, authorInput, `{"name":"Ana","avatar_url":"https://example.com/a.png","extra":1}`)
	require.Nil(t, errs)

	name, ok := values.Get("name")
	assert.True(t, ok)
	assert.Equal(t, "Ana", name)
	assert.NotContains(t, values, "extra")
}

func TestObjectSchemaParse_Violations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want []string
	}{
		{
			name: "missing fields in declaration order",
			body: `{}`,
			want: []string{"name: Required", "avatar_url: Required"},
		},
		{
			name: "empty name",
			body: `{"name":"","avatar_url":"https://example.com/a.png"}`,
			want: []string{"name: String must contain at least 1 character(s)"},
		},
		{
			name: "bad url",
			body: `{"name":"Ana","avatar_url":"not a url"}`,
			want: []string{"avatar_url: Invalid url"},
		},
		{
			name: "wrong types",
			body: `{"name":7,"avatar_url":null}`,
			want: []string{"name: Expected string, received number", "avatar_url: Expected string, received null"},
		},
		{
			name: "multiple problems keep field order",
			body: `{"avatar_url":"nope","name":""}`,
			want: []string{"name: String must contain at least 1 character(s)", "avatar_url: Invalid url"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, errs := parse(t, authorInput, tc.body)
			require.NotNil(t, errs)

			got := make([]string, len(errs))
			for i, v := range errs {
				got[i] = v.String()
			}
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestObjectSchemaPartial(t *testing.T) {
	t.Parallel()

	partial := authorInput.Partial("AuthorPatch", `Send "name" or "avatar_url"`)
	assert.Empty(t, partial.Required())
	assert.Equal(t, []string{"name", "avatar_url"}, authorInput.Required())

	_, errs := parse(t, partial, `{}`)
	require.Len(t, errs, 1)
	assert.Equal(t, KeywordCustom, errs[0].Keyword)
	assert.Equal(t, `Send "name" or "avatar_url"`, errs[0].Message)
	assert.Empty(t, errs[0].Path)

	_, errs = parse(t, partial, `{"unknown":"x"}`)
	require.Len(t, errs, 1)
	assert.Equal(t, KeywordCustom, errs[0].Keyword)

	values, errs := parse(t, partial, `{"avatar_url":"https://example.com/b.png"}`)
	require.Nil(t, errs)
	assert.Nil(t, values.Ptr("name"))
	require.NotNil(t, values.Ptr("avatar_url"))
	assert.Equal(t, "https://example.com/b.png", *values.Ptr("avatar_url"))

	_, errs = parse(t, partial, `{"name":""}`)
	require.Len(t, errs, 1)
	assert.Equal(t, KeywordTooSmall, errs[0].Keyword)
}

func TestObjectSchemaCheck(t *testing.T) {
	t.Parallel()

	params := Schema("Params", String("id", UUID()))

	assert.NoError(t, params.Check(Values{"id": "0b8e2b8e-6a53-4a3f-9d35-5a8e0c3f2f10"}))
	assert.NoError(t, params.Check(Values{"id": "0B8E2B8E-6A53-4A3F-9D35-5A8E0C3F2F10"}))

	err := params.Check(Values{"id": "abc"})
	var errs Errors
	require.ErrorAs(t, err, &errs)
	assert.Equal(t, "id: Invalid uuid", errs[0].String())

	timestamps := Schema("Stamp", String("at", DateTime()))
	assert.NoError(t, timestamps.Check(Values{"at": "2024-01-02T03:04:05.678Z"}))
	assert.Error(t, timestamps.Check(Values{"at": "yesterday"}))
	assert.Error(t, timestamps.Check(Values{}))
}

func TestRuleIntrospection(t *testing.T) {
	t.Parallel()

	n, ok := MinLength(3).MinLength()
	assert.True(t, ok)
	assert.Equal(t, 3, n)

	_, ok = URL().MinLength()
	assert.False(t, ok)

	assert.Equal(t, "uri", URL().Format())
	assert.Equal(t, "uuid", UUID().Format())
	assert.Equal(t, "date-time", DateTime().Format())
	assert.Equal(t, "", MinLength(1).Format())
	assert.Equal(t, "uuid", String("id", MinLength(1), UUID()).Format())
}

func TestDetailWireFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		v    Violation
		want string
	}{
		{
			name: "root invalid type",
			v:    wrongType(nil, "object", "null"),
			want: `{
				"instancePath": "/",
				"keyword": "invalid_type",
				"message": "Expected object, received null",
				"params": {"issue": {
					"code": "invalid_type",
					"expected": "object",
					"message": "Expected object, received null",
					"path": [],
					"received": "null"
				}},
				"schemaPath": "#//invalid_type"
			}`,
		},
		{
			name: "too small",
			v:    mustViolation(t, MinLength(1), "name", ""),
			want: `{
				"instancePath": "/name",
				"keyword": "too_small",
				"message": "String must contain at least 1 character(s)",
				"params": {"issue": {
					"code": "too_small",
					"exact": false,
					"inclusive": true,
					"message": "String must contain at least 1 character(s)",
					"minimum": 1,
					"path": ["name"],
					"type": "string"
				}},
				"schemaPath": "#/name/too_small"
			}`,
		},
		{
			name: "invalid uuid",
			v:    mustViolation(t, UUID(), "id", "xyz"),
			want: `{
				"instancePath": "/id",
				"keyword": "invalid_string",
				"message": "Invalid uuid",
				"params": {"issue": {
					"code": "invalid_string",
					"message": "Invalid uuid",
					"path": ["id"],
					"validation": "uuid"
				}},
				"schemaPath": "#/id/invalid_string"
			}`,
		},
		{
			name: "custom object rule",
			v:    Violation{Keyword: KeywordCustom, Message: `Send "name" or "avatar_url"`},
			want: `{
				"instancePath": "/",
				"keyword": "custom",
				"message": "Send \"name\" or \"avatar_url\"",
				"params": {"issue": {
					"code": "custom",
					"message": "Send \"name\" or \"avatar_url\"",
					"path": []
				}},
				"schemaPath": "#//custom"
			}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := json.Marshal(tc.v.Detail())
			require.NoError(t, err)
			assert.JSONEq(t, tc.want, string(got))
		})
	}
}

func TestErrors(t *testing.T) {
	t.Parallel()

	var empty Errors
	assert.NoError(t, empty.Err())

	errs := Errors{required([]string{"name"}), Violation{Keyword: KeywordCustom, Message: "pick one"}}
	assert.Equal(t, "validation failed: name: Required; pick one", errs.Error())
	assert.Len(t, errs.Details(), 2)
	assert.Equal(t, "/name", errs.Details()[0].InstancePath)
}

func mustViolation(t *testing.T, r Rule, field, value string) Violation {
	t.Helper()

	v, ok := r.check([]string{field}, value)
	require.False(t, ok)
	return v
}
