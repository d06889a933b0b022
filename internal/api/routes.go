package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/phrazzld/bookshelf-api/internal/apperr"
	"github.com/phrazzld/bookshelf-api/internal/validation"
)

// Response describes the success payload of a route. A nil Schema means the
// route answers without a body.
type Response struct {
	Status   int
	Envelope string
	List     bool
	Schema   *validation.ObjectSchema
}

// Route is one entry of the HTTP surface. The documentation generator reads
// the same table the router is built from.
type Route struct {
	Method      string
	Pattern     string
	Tag         string
	Summary     string
	Params      *validation.ObjectSchema
	Body        *validation.ObjectSchema
	Response    Response
	Failures    []apperr.Kind
	RateLimited bool
	Handler     HandlerFunc
}

// Routes returns the route table for authors and books.
func Routes(authors *AuthorHandler, books *BookHandler) []Route {
	var (
		notFound = []apperr.Kind{apperr.KindValidation, apperr.KindNotFound, apperr.KindInternal}
		invalid  = []apperr.Kind{apperr.KindValidation, apperr.KindInternal}
		internal = []apperr.Kind{apperr.KindInternal}
		limited  = func(kinds []apperr.Kind) []apperr.Kind {
			out := append([]apperr.Kind{}, kinds...)
			return append(out, apperr.KindTooManyRequests)
		}
	)

	author := Response{Status: http.StatusOK, Envelope: "author", Schema: &AuthorSchema}
	book := Response{Status: http.StatusOK, Envelope: "book", Schema: &BookSchema}
	created := func(r Response) Response {
		r.Status = http.StatusCreated
		return r
	}
	noContent := Response{Status: http.StatusNoContent}

	return []Route{
		{
			Method:   http.MethodGet,
			Pattern:  "/authors",
			Tag:      "Authors",
			Summary:  "List authors, newest first",
			Response: Response{Status: http.StatusOK, Envelope: "authors", List: true, Schema: &AuthorSchema},
			Failures: internal,
			Handler:  authors.List,
		},
		{
			Method:   http.MethodGet,
			Pattern:  "/authors/{id}",
			Tag:      "Authors",
			Summary:  "Get an author",
			Params:   &ParamsSchema,
			Response: author,
			Failures: notFound,
			Handler:  authors.Get,
		},
		{
			Method:   http.MethodPost,
			Pattern:  "/authors",
			Tag:      "Authors",
			Summary:  "Create an author",
			Body:     &AuthorInputSchema,
			Response: created(author),
			Failures: invalid,
			Handler:  authors.Create,
		},
		{
			Method:   http.MethodPatch,
			Pattern:  "/authors/{id}",
			Tag:      "Authors",
			Summary:  "Update an author",
			Params:   &ParamsSchema,
			Body:     &AuthorPatchSchema,
			Response: author,
			Failures: notFound,
			Handler:  authors.Update,
		},
		{
			Method:   http.MethodDelete,
			Pattern:  "/authors/{id}",
			Tag:      "Authors",
			Summary:  "Delete an author and its books",
			Params:   &ParamsSchema,
			Response: noContent,
			Failures: notFound,
			Handler:  authors.Delete,
		},
		{
			Method:      http.MethodGet,
			Pattern:     "/books",
			Tag:         "Books",
			Summary:     "List books, newest first",
			Response:    Response{Status: http.StatusOK, Envelope: "books", List: true, Schema: &BookSchema},
			Failures:    limited(internal),
			RateLimited: true,
			Handler:     books.List,
		},
		{
			Method:      http.MethodGet,
			Pattern:     "/books/{id}",
			Tag:         "Books",
			Summary:     "Get a book",
			Params:      &ParamsSchema,
			Response:    book,
			Failures:    limited(notFound),
			RateLimited: true,
			Handler:     books.Get,
		},
		{
			Method:      http.MethodPost,
			Pattern:     "/books",
			Tag:         "Books",
			Summary:     "Create a book for an existing author",
			Body:        &BookInputSchema,
			Response:    created(book),
			Failures:    limited(notFound),
			RateLimited: true,
			Handler:     books.Create,
		},
		{
			Method:      http.MethodPatch,
			Pattern:     "/books/{id}",
			Tag:         "Books",
			Summary:     "Update a book",
			Params:      &ParamsSchema,
			Body:        &BookPatchSchema,
			Response:    book,
			Failures:    limited(notFound),
			RateLimited: true,
			Handler:     books.Update,
		},
		{
			Method:      http.MethodDelete,
			Pattern:     "/books/{id}",
			Tag:         "Books",
			Summary:     "Delete a book",
			Params:      &ParamsSchema,
			Response:    noContent,
			Failures:    limited(notFound),
			RateLimited: true,
			Handler:     books.Delete,
		},
	}
}

// Mount registers routes on r. Routes marked RateLimited are wrapped with
// limit when it is non-nil.
func Mount(r chi.Router, routes []Route, limit func(http.Handler) http.Handler) {
	for _, route := range routes {
		var h http.Handler = Handle(route.Handler)
		if route.RateLimited && limit != nil {
			h = limit(h)
		}
		r.Method(route.Method, route.Pattern, h)
	}
}
