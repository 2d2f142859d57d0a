package jsonapidoc

import (
	"testing"

	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentMarshalJSON(t *testing.T) {
	t.Run("Okay", func(t *testing.T) {
		doc, err := NewDocument(Document{
			Data:     articleWithAuthor(t),
			Included: []*Resource{person(t, "9", "Dan")},
			Links:    Links{"self": "/articles/1"},
		})
		require.NoError(t, err)

		buf, err := jsoniter.Marshal(doc)
		require.NoError(t, err)
		assert.JSONEq(t, `{
			"data": {
				"type": "articles",
				"id": "1",
				"attributes": {"title": "T"},
				"relationships": {
					"author": {"data": {"type": "people", "id": "9"}}
				}
			},
			"included": [
				{"type": "people", "id": "9", "attributes": {"name": "Dan"}}
			],
			"links": {"self": "/articles/1"}
		}`, string(buf))
	})

	t.Run("EmptyToOneIsExplicitNull", func(t *testing.T) {
		rel, err := ToOne(nil)
		require.NoError(t, err)
		article, err := NewResource(Resource{
			Type:          "articles",
			Id:            "1",
			Relationships: map[string]*Relationship{"author": rel},
		})
		require.NoError(t, err)
		doc, err := NewDocument(Document{Data: article})
		require.NoError(t, err)

		buf, err := jsoniter.Marshal(doc)
		require.NoError(t, err)
		assert.JSONEq(t, `{
			"data": {
				"type": "articles",
				"id": "1",
				"relationships": {"author": {"data": null}}
			}
		}`, string(buf))
	})

	t.Run("EmptyToMany", func(t *testing.T) {
		rel, err := ToMany()
		require.NoError(t, err)
		article, err := NewResource(Resource{
			Type:          "articles",
			Id:            "1",
			Relationships: map[string]*Relationship{"comments": rel},
		})
		require.NoError(t, err)
		doc, err := NewDocument(Document{Data: article})
		require.NoError(t, err)

		buf, err := jsoniter.Marshal(doc)
		require.NoError(t, err)
		assert.JSONEq(t, `{
			"data": {
				"type": "articles",
				"id": "1",
				"relationships": {"comments": {"data": []}}
			}
		}`, string(buf))
	})

	t.Run("ExtensionMembers", func(t *testing.T) {
		doc, err := NewDocument(Document{
			Meta:       map[string]any{"count": 1},
			Extensions: map[string]any{"version:id": "42"},
		})
		require.NoError(t, err)

		buf, err := jsoniter.Marshal(doc)
		require.NoError(t, err)
		assert.JSONEq(t, `{"meta": {"count": 1}, "version:id": "42"}`, string(buf))
	})

	t.Run("RevalidatesOnMarshal", func(t *testing.T) {
		doc, err := NewDocument(Document{Meta: map[string]any{"count": 1}})
		require.NoError(t, err)

		// Mutating a valid document after construction must not allow an
		// invalid serialization through.
		doc.Meta = nil
		_, err = jsoniter.Marshal(doc)
		require.Error(t, err)
	})

	t.Run("NullData", func(t *testing.T) {
		doc, err := NewDocument(Document{Meta: map[string]any{"count": 0}})
		require.NoError(t, err)
		buf, err := jsoniter.Marshal(doc)
		require.NoError(t, err)
		assert.NotContains(t, string(buf), "data")
	})
}

func TestParseDocument(t *testing.T) {
	t.Run("Okay", func(t *testing.T) {
		in := []byte(`{
			"data": {
				"type": "articles",
				"id": "1",
				"attributes": {"title": "T"},
				"relationships": {
					"author": {"data": {"type": "people", "id": "9"}}
				}
			},
			"included": [
				{"type": "people", "id": "9", "attributes": {"name": "Dan"}}
			],
			"links": {"self": "/articles/1"},
			"jsonapi": {"version": "1.1"}
		}`)
		doc, err := ParseDocument(in)
		require.NoError(t, err)

		resource, ok := doc.Data.(*Resource)
		require.True(t, ok)
		assert.Equal(t, "articles", resource.Type)
		assert.Equal(t, map[string]any{"title": "T"}, resource.Attributes)
		require.Contains(t, resource.Relationships, "author")
		require.Len(t, doc.Included, 1)
		assert.Equal(t, Identity{Type: "people", Key: "9"}, doc.Included[0].Identity())
		require.NotNil(t, doc.JSONAPI)
		assert.Equal(t, "1.1", doc.JSONAPI.Ver)

		out, err := jsoniter.Marshal(doc)
		require.NoError(t, err)
		assert.JSONEq(t, string(in), string(out))
	})

	t.Run("IdentifierData", func(t *testing.T) {
		doc, err := ParseDocument([]byte(`{"data": {"type": "people", "id": "9"}}`))
		require.NoError(t, err)
		_, ok := doc.Data.(*ResourceIdentifier)
		assert.True(t, ok)
	})

	t.Run("IdentifierWithMeta", func(t *testing.T) {
		doc, err := ParseDocument([]byte(`{"data": {"type": "people", "id": "9", "meta": {"n": 1}}}`))
		require.NoError(t, err)
		_, ok := doc.Data.(*ResourceIdentifier)
		assert.True(t, ok)
	})

	t.Run("ResourceCollection", func(t *testing.T) {
		doc, err := ParseDocument([]byte(`{"data": [
			{"type": "articles", "id": "1", "attributes": {"title": "A"}},
			{"type": "articles", "id": "2", "attributes": {"title": "B"}}
		]}`))
		require.NoError(t, err)
		resources, ok := doc.Data.([]*Resource)
		require.True(t, ok)
		assert.Len(t, resources, 2)
	})

	t.Run("EmptyCollection", func(t *testing.T) {
		doc, err := ParseDocument([]byte(`{"data": []}`))
		require.NoError(t, err)
		assert.NotNil(t, doc.Data)
	})

	t.Run("NullDataWithMeta", func(t *testing.T) {
		doc, err := ParseDocument([]byte(`{"data": null, "meta": {"count": 0}}`))
		require.NoError(t, err)
		assert.Nil(t, doc.Data)
	})

	t.Run("MalformedJSON", func(t *testing.T) {
		_, err := ParseDocument([]byte(`{"data":`))
		assert.Error(t, err)
	})

	t.Run("UnrecognizedResourceMember", func(t *testing.T) {
		_, err := ParseDocument([]byte(`{"data": {"type": "articles", "id": "1", "extra": 1}}`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unrecognized resource object member")
	})

	t.Run("UnrecognizedIdentifierMember", func(t *testing.T) {
		_, err := ParseDocument([]byte(`{"data": {"type": "articles", "id": "1", "relationships": {
			"author": {"data": {"type": "people", "id": "9", "attributes": {}}}
		}}}`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unrecognized resource identifier member")
	})

	t.Run("ValidationFailure", func(t *testing.T) {
		_, err := ParseDocument([]byte(`{
			"data": {"type": "articles", "id": "1"},
			"errors": [{"status": "400"}]
		}`))
		require.Error(t, err)
		rule, _ := RuleOf(err)
		assert.Equal(t, RuleDataErrorsConflict, rule)
	})

	t.Run("UnreachableIncluded", func(t *testing.T) {
		_, err := ParseDocument([]byte(`{
			"data": {"type": "articles", "id": "1"},
			"included": [{"type": "people", "id": "99", "attributes": {"name": "X"}}]
		}`))
		require.Error(t, err)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, RuleUnreachableIncludedResource, verr.Rule)
		assert.ElementsMatch(t, []Identity{{Type: "people", Key: "99"}}, verr.Unreachable)
	})

	t.Run("ExtensionMember", func(t *testing.T) {
		doc, err := ParseDocument([]byte(`{"meta": {"count": 1}, "version:id": "42"}`))
		require.NoError(t, err)
		assert.Equal(t, map[string]any{"version:id": "42"}, doc.Extensions)
	})

	t.Run("InvalidExtensionMemberName", func(t *testing.T) {
		_, err := ParseDocument([]byte(`{"meta": {"count": 1}, "not/valid": 1}`))
		require.Error(t, err)
		rule, _ := RuleOf(err)
		assert.Equal(t, RuleInvalidMemberName, rule)
	})
}

func TestRelationshipSerialization(t *testing.T) {
	t.Run("ToManyRoundTrip", func(t *testing.T) {
		var rel Relationship
		require.NoError(t, jsoniter.Unmarshal([]byte(`{
			"links": {"self": "/articles/1/relationships/comments"},
			"data": [
				{"type": "comments", "id": "5"},
				{"type": "comments", "id": "12"}
			],
			"meta": {"count": 2}
		}`), &rel))
		require.NoError(t, rel.Validate())
		assert.Len(t, rel.identifiers(), 2)

		buf, err := jsoniter.Marshal(&rel)
		require.NoError(t, err)
		assert.JSONEq(t, `{
			"links": {"self": "/articles/1/relationships/comments"},
			"data": [
				{"type": "comments", "id": "5"},
				{"type": "comments", "id": "12"}
			],
			"meta": {"count": 2}
		}`, string(buf))
	})

	t.Run("NullDataRoundTrip", func(t *testing.T) {
		var rel Relationship
		require.NoError(t, jsoniter.Unmarshal([]byte(`{"data": null}`), &rel))
		require.NotNil(t, rel.Data)
		assert.Nil(t, *rel.Data)

		buf, err := jsoniter.Marshal(&rel)
		require.NoError(t, err)
		assert.JSONEq(t, `{"data": null}`, string(buf))
	})

	t.Run("ExtensionRoundTrip", func(t *testing.T) {
		var rel Relationship
		require.NoError(t, jsoniter.Unmarshal([]byte(`{"meta": {"n": 1}, "version:id": "42"}`), &rel))
		require.NoError(t, rel.Validate())
		assert.Equal(t, map[string]any{"version:id": "42"}, rel.Extensions)

		buf, err := jsoniter.Marshal(&rel)
		require.NoError(t, err)
		assert.JSONEq(t, `{"meta": {"n": 1}, "version:id": "42"}`, string(buf))
	})
}

func TestLinksUnmarshalJSON(t *testing.T) {
	t.Run("Shapes", func(t *testing.T) {
		var links Links
		require.NoError(t, jsoniter.Unmarshal([]byte(`{
			"self": "/articles/1",
			"related": {"href": "/articles/1/author", "title": "Author"},
			"describedby": null
		}`), &links))
		assert.Equal(t, "/articles/1", links["self"])
		related, ok := links["related"].(*Link)
		require.True(t, ok)
		assert.Equal(t, "/articles/1/author", related.HREF)
		assert.Equal(t, "Author", related.Title)
		assert.Nil(t, links["describedby"])
	})

	t.Run("Pagination", func(t *testing.T) {
		var links Links
		require.NoError(t, jsoniter.Unmarshal([]byte(`{
			"pagination": {"first": "/articles?page=1", "next": "/articles?page=3"}
		}`), &links))
		pagination, ok := links["pagination"].(*PaginationLinks)
		require.True(t, ok)
		assert.Equal(t, "/articles?page=1", pagination.First)
		assert.Equal(t, "/articles?page=3", pagination.Next)
	})

	t.Run("InvalidValueType", func(t *testing.T) {
		var links Links
		err := jsoniter.Unmarshal([]byte(`{"self": 7}`), &links)
		require.Error(t, err)
	})

	t.Run("UnrecognizedLinkObjectMember", func(t *testing.T) {
		var links Links
		err := jsoniter.Unmarshal([]byte(`{"self": {"href": "/articles", "extra": 1}}`), &links)
		require.Error(t, err)
	})
}
