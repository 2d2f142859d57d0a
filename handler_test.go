package jsonapidoc

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccbrown/jsonapi-doc/mediatype"
)

func testHandler(t *testing.T) *Handler {
	return NewHandler(HandlerConfig{
		Serve: func(r *http.Request) *Document {
			doc, err := NewDocument(Document{Data: articleWithAuthor(t)})
			require.NoError(t, err)
			return doc
		},
	})
}

func TestHandler(t *testing.T) {
	t.Run("Okay", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/articles/1", nil)
		req.Header.Set("Accept", mediatype.MediaType)
		w := httptest.NewRecorder()
		testHandler(t).ServeHTTP(w, req)

		resp := w.Result()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, mediatype.MediaType, resp.Header.Get("Content-Type"))
		assert.Equal(t, "Accept", resp.Header.Get("Vary"))

		doc, err := ParseDocument(w.Body.Bytes())
		require.NoError(t, err)
		require.NotNil(t, doc.JSONAPI)
		assert.Equal(t, Version, doc.JSONAPI.Ver)
		resource, ok := doc.Data.(*Resource)
		require.True(t, ok)
		assert.Equal(t, "articles", resource.Type)
	})

	t.Run("NoAcceptHeader", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/articles/1", nil)
		w := httptest.NewRecorder()
		testHandler(t).ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Result().StatusCode)
	})

	t.Run("NotAcceptable", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/articles/1", nil)
		req.Header.Set("Accept", "application/vnd.api+json; charset=utf-8")
		w := httptest.NewRecorder()
		testHandler(t).ServeHTTP(w, req)

		resp := w.Result()
		assert.Equal(t, http.StatusNotAcceptable, resp.StatusCode)
		doc, err := ParseDocument(w.Body.Bytes())
		require.NoError(t, err)
		require.Len(t, doc.Errors, 1)
		assert.Equal(t, "406", doc.Errors[0].Status)
	})

	t.Run("UnsupportedMediaType", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/articles", strings.NewReader(`{"data": {"type": "articles", "lid": "local-1"}}`))
		req.Header.Set("Accept", mediatype.MediaType)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		testHandler(t).ServeHTTP(w, req)

		resp := w.Result()
		assert.Equal(t, http.StatusUnsupportedMediaType, resp.StatusCode)
		doc, err := ParseDocument(w.Body.Bytes())
		require.NoError(t, err)
		require.Len(t, doc.Errors, 1)
		assert.Equal(t, "415", doc.Errors[0].Status)
	})

	t.Run("BodyWithJSONAPIContentType", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/articles", strings.NewReader(`{"data": {"type": "articles", "lid": "local-1"}}`))
		req.Header.Set("Content-Type", mediatype.MediaType)
		w := httptest.NewRecorder()
		testHandler(t).ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Result().StatusCode)
	})

	t.Run("ErrorStatusFromDocument", func(t *testing.T) {
		h := NewHandler(HandlerConfig{
			Serve: func(r *http.Request) *Document {
				return errorDocument(ErrorObject{Status: "403", Title: "Forbidden"})
			},
		})
		req := httptest.NewRequest(http.MethodGet, "/articles/1", nil)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Result().StatusCode)
	})

	t.Run("NonNumericErrorStatus", func(t *testing.T) {
		h := NewHandler(HandlerConfig{
			Serve: func(r *http.Request) *Document {
				return errorDocument(ErrorObject{Status: "teapot", Title: "I'm a teapot"})
			},
		})
		req := httptest.NewRequest(http.MethodGet, "/articles/1", nil)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		assert.Equal(t, http.StatusInternalServerError, w.Result().StatusCode)
	})

	t.Run("NilServe", func(t *testing.T) {
		h := NewHandler(HandlerConfig{})
		req := httptest.NewRequest(http.MethodGet, "/nothing", nil)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Result().StatusCode)
	})

	t.Run("NilResponse", func(t *testing.T) {
		h := NewHandler(HandlerConfig{
			Serve: func(r *http.Request) *Document { return nil },
		})
		req := httptest.NewRequest(http.MethodGet, "/nothing", nil)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Result().StatusCode)
	})

	t.Run("InvalidDocumentFromServe", func(t *testing.T) {
		h := NewHandler(HandlerConfig{
			Serve: func(r *http.Request) *Document {
				// Bypasses NewDocument, so serialization is the last line of
				// defense.
				return &Document{
					Meta:  map[string]any{"count": 1},
					Links: Links{"edit": "/articles/edit"},
				}
			},
		})
		req := httptest.NewRequest(http.MethodGet, "/articles", nil)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		resp := w.Result()
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		var body map[string]any
		require.NoError(t, jsoniter.Unmarshal(w.Body.Bytes(), &body))
		assert.Contains(t, body, "errors")
	})

	t.Run("SupportedExtension", func(t *testing.T) {
		h := NewHandler(HandlerConfig{
			Negotiator: &mediatype.Negotiator{SupportedExtensions: []string{"https://example.com/ext/version"}},
			Serve: func(r *http.Request) *Document {
				doc, err := NewDocument(Document{Meta: map[string]any{"count": 1}})
				require.NoError(t, err)
				return doc
			},
		})
		req := httptest.NewRequest(http.MethodGet, "/articles", nil)
		req.Header.Set("Accept", `application/vnd.api+json; ext="https://example.com/ext/version"`)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Result().StatusCode)
	})
}
