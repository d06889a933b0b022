package validation

// Field describes one string property of an object schema.
type Field struct {
	Name        string
	Description string
	Optional    bool
	Rules       []Rule
}

// String declares a required string field.
func String(name string, rules ...Rule) Field {
	return Field{Name: name, Rules: rules}
}

// Describe returns a copy of f with a human-readable description.
func (f Field) Describe(text string) Field {
	f.Description = text
	return f
}

// Format returns the first format constraint among the field's rules.
func (f Field) Format() string {
	for _, r := range f.Rules {
		if format := r.Format(); format != "" {
			return format
		}
	}
	return ""
}

// ObjectSchema is an ordered set of fields plus optional object-level rules.
// Fields are checked in declaration order, which fixes the order of reported
// violations.
type ObjectSchema struct {
	Name   string
	Fields []Field
	// AtLeastOne, when non-empty, is the message reported if none of the
	// fields is present.
	AtLeastOne string
}

// Schema declares an object schema.
func Schema(name string, fields ...Field) ObjectSchema {
	return ObjectSchema{Name: name, Fields: fields}
}

// Partial derives a schema whose fields are all optional but of which at
// least one must be supplied.
func (s ObjectSchema) Partial(name, message string) ObjectSchema {
	fields := make([]Field, len(s.Fields))
	for i, f := range s.Fields {
		f.Optional = true
		fields[i] = f
	}
	return ObjectSchema{Name: name, Fields: fields, AtLeastOne: message}
}

// Required lists the names of mandatory fields in declaration order.
func (s ObjectSchema) Required() []string {
	var names []string
	for _, f := range s.Fields {
		if !f.Optional {
			names = append(names, f.Name)
		}
	}
	return names
}

// Parse validates a decoded JSON object and returns the string values of the
// fields it supplies. Keys not declared by the schema are ignored.
func (s ObjectSchema) Parse(obj RawObject) (Values, error) {
	var errs Errors
	values := make(Values, len(s.Fields))
	present := 0

	for _, f := range s.Fields {
		path := []string{f.Name}

		raw, ok := obj[f.Name]
		if !ok {
			if !f.Optional {
				errs = append(errs, required(path))
			}
			continue
		}
		present++

		value, kind := decodeString(raw)
		if kind != kindString {
			errs = append(errs, wrongType(path, kindString, kind))
			continue
		}

		values[f.Name] = value
		errs = append(errs, checkRules(path, value, f.Rules)...)
	}

	if s.AtLeastOne != "" && present == 0 {
		errs = append(errs, Violation{Keyword: KeywordCustom, Message: s.AtLeastOne})
	}

	if err := errs.Err(); err != nil {
		return nil, err
	}
	return values, nil
}

// Check validates values that are already strings, such as path parameters
// or outgoing response fields.
func (s ObjectSchema) Check(values Values) error {
	var errs Errors
	present := 0

	for _, f := range s.Fields {
		path := []string{f.Name}

		value, ok := values[f.Name]
		if !ok {
			if !f.Optional {
				errs = append(errs, required(path))
			}
			continue
		}
		present++
		errs = append(errs, checkRules(path, value, f.Rules)...)
	}

	if s.AtLeastOne != "" && present == 0 {
		errs = append(errs, Violation{Keyword: KeywordCustom, Message: s.AtLeastOne})
	}

	return errs.Err()
}

func checkRules(path []string, value string, rules []Rule) Errors {
	var errs Errors
	for _, r := range rules {
		if v, ok := r.check(path, value); !ok {
			errs = append(errs, v)
		}
	}
	return errs
}

// Values maps field names to the string values supplied for them.
type Values map[string]string

// Get returns the value of name and whether it was supplied.
func (v Values) Get(name string) (string, bool) {
	value, ok := v[name]
	return value, ok
}

// Ptr returns a pointer to the value of name, or nil if it was not supplied.
func (v Values) Ptr(name string) *string {
	value, ok := v[name]
	if !ok {
		return nil
	}
	return &value
}
