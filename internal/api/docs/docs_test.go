package docs_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-openapi/spec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/bookshelf-api/internal/api"
	"github.com/phrazzld/bookshelf-api/internal/api/docs"
	"github.com/phrazzld/bookshelf-api/internal/platform/sqlstore"
	"github.com/phrazzld/bookshelf-api/internal/testdb"
)

func buildDoc(t *testing.T) *spec.Swagger {
	t.Helper()

	db := testdb.OpenSQLite(t)
	authors := sqlstore.NewAuthorStore(db, sqlstore.SQLite, nil)
	books := sqlstore.NewBookStore(db, sqlstore.SQLite, nil)
	routes := api.Routes(api.NewAuthorHandler(authors, nil), api.NewBookHandler(books, authors, nil))

	return docs.Build(routes, docs.Info{Title: "Bookshelf API", Version: "1.0.0"})
}

func TestBuild_Paths(t *testing.T) {
	doc := buildDoc(t)

	assert.Equal(t, "2.0", doc.Swagger)
	assert.Equal(t, "Bookshelf API", doc.Info.Title)
	require.Len(t, doc.Paths.Paths, 4)

	authors := doc.Paths.Paths["/authors"]
	require.NotNil(t, authors.Get)
	require.NotNil(t, authors.Post)
	assert.Equal(t, "getAuthors", authors.Get.ID)
	assert.Equal(t, []string{"Authors"}, authors.Get.Tags)

	book := doc.Paths.Paths["/books/{id}"]
	require.NotNil(t, book.Patch)
	assert.Equal(t, "patchBooksById", book.Patch.ID)

	require.Len(t, book.Patch.Parameters, 2)
	assert.Equal(t, "path", book.Patch.Parameters[0].In)
	assert.Equal(t, "uuid", book.Patch.Parameters[0].Format)
	assert.Equal(t, "body", book.Patch.Parameters[1].In)
	assert.Equal(t, "#/definitions/BookPatch", book.Patch.Parameters[1].Schema.Ref.String())

	codes := book.Patch.Responses.StatusCodeResponses
	for _, code := range []int{200, 400, 404, 429, 500} {
		assert.Contains(t, codes, code)
	}
	assert.NotContains(t, doc.Paths.Paths["/authors"].Get.Responses.StatusCodeResponses, 429)

	del := doc.Paths.Paths["/authors/{id}"].Delete
	require.NotNil(t, del)
	assert.Nil(t, del.Responses.StatusCodeResponses[204].Schema)
}

func TestBuild_Definitions(t *testing.T) {
	doc := buildDoc(t)

	for _, name := range []string{
		"Params", "AuthorInput", "AuthorPatch", "BookInput", "BookPatch", "Author", "Book",
		"ValidationError", "NotFoundError", "TooManyRequestsError", "InternalServerError",
	} {
		assert.Contains(t, doc.Definitions, name)
	}

	input := doc.Definitions["BookInput"]
	assert.Equal(t, []string{"cover_url", "name", "author_id"}, input.Required)
	assert.Equal(t, "uri", input.Properties["cover_url"].Format)
	assert.Equal(t, "uuid", input.Properties["author_id"].Format)
	require.NotNil(t, input.Properties["name"].MinLength)
	assert.EqualValues(t, 1, *input.Properties["name"].MinLength)

	patch := doc.Definitions["AuthorPatch"]
	assert.Empty(t, patch.Required)
	require.NotNil(t, patch.MinProperties)
	assert.EqualValues(t, 1, *patch.MinProperties)
	assert.Equal(t, `Send "name" or "avatar_url"`, patch.Description)

	author := doc.Definitions["Author"]
	assert.Equal(t, "date-time", author.Properties["created_at"].Format)

	validationErr := doc.Definitions["ValidationError"]
	assert.Contains(t, validationErr.Properties, "details")
	assert.NotContains(t, doc.Definitions["NotFoundError"].Properties, "details")
}

func TestRegisterAndServe(t *testing.T) {
	doc := buildDoc(t)
	require.NoError(t, docs.Register(doc))
	// A second registration replaces the document instead of panicking.
	require.NoError(t, docs.Register(doc))

	r := chi.NewRouter()
	r.Get("/docs/*", docs.Handler().ServeHTTP)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, docs.DocPath, nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var served map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &served))
	assert.Equal(t, "2.0", served["swagger"])
	assert.Contains(t, served["paths"], "/books/{id}")

	rr = httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/docs/index.html", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "swagger-ui")
}
