// Package validation checks decoded request input against declarative object
// schemas and reports every problem it finds as an ordered list of
// violations.
//
// Violations render to the same detail format clients of the service already
// parse: each detail carries an instancePath, a keyword, a message, the
// underlying issue and a schemaPath. Schemas are plain values, so the same
// definitions drive request parsing, response checks and API documentation.
package validation
