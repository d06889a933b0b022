package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/phrazzld/bookshelf-api/internal/apperr"
	"github.com/phrazzld/bookshelf-api/internal/validation"
)

// pathID validates the {id} path parameter against ParamsSchema.
func pathID(r *http.Request) (uuid.UUID, error) {
	values := validation.Values{"id": chi.URLParam(r, "id")}
	if err := ParamsSchema.Check(values); err != nil {
		return uuid.Nil, err
	}

	id, err := uuid.Parse(values["id"])
	if err != nil {
		return uuid.Nil, fmt.Errorf("parse validated id: %w", err)
	}
	return id, nil
}

// decodeBody reads the request body as a JSON object and validates it
// against schema.
func decodeBody(r *http.Request, schema validation.ObjectSchema) (validation.Values, error) {
	obj, err := validation.ReadObject(r.Body)
	if err != nil {
		return nil, err
	}
	return schema.Parse(obj)
}

// optionalUUID parses a field that has already passed a UUID rule.
func optionalUUID(values validation.Values, name string) (*uuid.UUID, error) {
	raw, ok := values.Get(name)
	if !ok {
		return nil, nil
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse validated %s: %w", name, err)
	}
	return &id, nil
}

// checkResponse verifies an outgoing payload. A mismatch is a server defect,
// so it is reported as an internal error rather than a validation error.
func checkResponse(schema validation.ObjectSchema, values validation.Values) error {
	if err := schema.Check(values); err != nil {
		return apperr.Internal(fmt.Errorf("%s response does not match its schema: %w", schema.Name, err))
	}
	return nil
}
