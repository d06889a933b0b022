// Package docs generates the Swagger 2.0 document of the API from the route
// table and its validation schemas, and serves it with Swagger UI.
package docs

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/go-openapi/spec"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"github.com/swaggo/swag"

	"github.com/phrazzld/bookshelf-api/internal/api"
	"github.com/phrazzld/bookshelf-api/internal/apperr"
	"github.com/phrazzld/bookshelf-api/internal/validation"
)

// DocPath is where the raw document is served once the UI handler is
// mounted at /docs/*.
const DocPath = "/docs/doc.json"

// Info describes the API in the document header.
type Info struct {
	Title       string
	Version     string
	Description string
}

// Build walks routes and returns the Swagger document describing them.
func Build(routes []api.Route, info Info) *spec.Swagger {
	doc := &spec.Swagger{
		SwaggerProps: spec.SwaggerProps{
			Swagger:  "2.0",
			Consumes: []string{"application/json"},
			Produces: []string{"application/json"},
			Info: &spec.Info{InfoProps: spec.InfoProps{
				Title:       info.Title,
				Version:     info.Version,
				Description: info.Description,
			}},
			Paths:       &spec.Paths{Paths: map[string]spec.PathItem{}},
			Definitions: spec.Definitions{},
		},
	}

	for _, kind := range apperr.Kinds() {
		doc.Definitions[kind.String()] = errorSchema(kind)
	}

	tags := map[string]bool{}
	for _, route := range routes {
		addSchema(doc, route.Params)
		addSchema(doc, route.Body)
		addSchema(doc, route.Response.Schema)

		item := doc.Paths.Paths[route.Pattern]
		setOperation(&item, route.Method, operation(route))
		doc.Paths.Paths[route.Pattern] = item

		if route.Tag != "" {
			tags[route.Tag] = true
		}
	}

	names := make([]string, 0, len(tags))
	for name := range tags {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		doc.Tags = append(doc.Tags, spec.NewTag(name, "", nil))
	}

	return doc
}

func operation(route api.Route) *spec.Operation {
	op := spec.NewOperation(operationID(route)).
		WithSummary(route.Summary)
	if route.Tag != "" {
		op.WithTags(route.Tag)
	}

	if route.Params != nil {
		for _, f := range route.Params.Fields {
			param := spec.PathParam(f.Name).Typed("string", f.Format())
			param.Description = f.Description
			op.AddParam(param)
		}
	}
	if route.Body != nil {
		op.AddParam(spec.BodyParam("body", ref(route.Body.Name)).AsRequired())
	}

	op.RespondsWith(route.Response.Status, successResponse(route.Response))
	for _, kind := range route.Failures {
		op.RespondsWith(kind.StatusCode(), spec.NewResponse().
			WithDescription(kind.String()).
			WithSchema(ref(kind.String())))
	}

	return op
}

func successResponse(r api.Response) *spec.Response {
	resp := spec.NewResponse().WithDescription(http.StatusText(r.Status))
	if r.Schema == nil {
		return resp
	}

	item := ref(r.Schema.Name)
	if r.List {
		item = spec.ArrayProperty(item)
	}

	envelope := new(spec.Schema).
		Typed("object", "").
		SetProperty(r.Envelope, *item).
		WithRequired(r.Envelope)
	return resp.WithSchema(envelope)
}

func setOperation(item *spec.PathItem, method string, op *spec.Operation) {
	switch method {
	case http.MethodGet:
		item.Get = op
	case http.MethodPost:
		item.Post = op
	case http.MethodPut:
		item.Put = op
	case http.MethodPatch:
		item.Patch = op
	case http.MethodDelete:
		item.Delete = op
	}
}

// operationID turns "PATCH /books/{id}" into "patchBooksById".
func operationID(route api.Route) string {
	var b strings.Builder
	b.WriteString(strings.ToLower(route.Method))
	for _, part := range strings.Split(route.Pattern, "/") {
		if part == "" {
			continue
		}
		if strings.HasPrefix(part, "{") {
			b.WriteString("By")
			part = strings.Trim(part, "{}")
		}
		b.WriteString(strings.ToUpper(part[:1]) + part[1:])
	}
	return b.String()
}

func ref(name string) *spec.Schema {
	return spec.RefSchema("#/definitions/" + name)
}

func addSchema(doc *spec.Swagger, s *validation.ObjectSchema) {
	if s == nil {
		return
	}
	if _, ok := doc.Definitions[s.Name]; ok {
		return
	}
	doc.Definitions[s.Name] = objectSchema(*s)
}

// objectSchema converts a validation schema. Required fields, formats and
// minimum lengths carry over; an at-least-one rule becomes minProperties.
func objectSchema(s validation.ObjectSchema) spec.Schema {
	out := new(spec.Schema).Typed("object", "")

	for _, f := range s.Fields {
		prop := spec.StringProperty()
		if format := f.Format(); format != "" {
			prop.WithFormat(format)
		}
		for _, r := range f.Rules {
			if n, ok := r.MinLength(); ok {
				prop.WithMinLength(int64(n))
			}
		}
		if f.Description != "" {
			prop.WithDescription(f.Description)
		}
		out.SetProperty(f.Name, *prop)
	}

	if required := s.Required(); len(required) > 0 {
		out.WithRequired(required...)
	}
	if s.AtLeastOne != "" {
		out.WithMinProperties(1).WithDescription(s.AtLeastOne)
	}

	return *out
}

func errorSchema(kind apperr.Kind) spec.Schema {
	out := new(spec.Schema).
		Typed("object", "").
		SetProperty("name", *spec.StringProperty().WithEnum(kind.String())).
		SetProperty("message", *spec.StringProperty()).
		SetProperty("status_code", *spec.Int64Property().WithEnum(kind.StatusCode()))
	required := []string{"name", "message", "status_code"}

	if kind == apperr.KindValidation {
		detail := new(spec.Schema).
			Typed("object", "").
			SetProperty("instancePath", *spec.StringProperty()).
			SetProperty("keyword", *spec.StringProperty()).
			SetProperty("message", *spec.StringProperty()).
			SetProperty("params", *new(spec.Schema).Typed("object", "")).
			SetProperty("schemaPath", *spec.StringProperty()).
			WithRequired("instancePath", "keyword", "message", "params", "schemaPath")
		out.SetProperty("details", *spec.ArrayProperty(detail))
	}

	return *out.WithRequired(required...)
}

// Document holds the marshaled document handed to swag. The registry is
// process-wide, so the document is registered once and later calls swap
// its content.
type Document struct {
	content atomic.Pointer[string]
}

// ReadDoc implements swag.Swagger.
func (d *Document) ReadDoc() string {
	if s := d.content.Load(); s != nil {
		return *s
	}
	return "{}"
}

var (
	registered   Document
	registerOnce sync.Once
)

// Register publishes doc under swag.Name, where the Swagger UI handler
// looks it up.
func Register(doc *spec.Swagger) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal swagger document: %w", err)
	}

	content := string(raw)
	registered.content.Store(&content)
	registerOnce.Do(func() {
		swag.Register(swag.Name, &registered)
	})
	return nil
}

// Handler serves Swagger UI and the registered document. Mount it at
// /docs/*.
func Handler() http.Handler {
	return httpSwagger.Handler(httpSwagger.URL(DocPath))
}
