package jsonapidoc

import (
	"encoding/base64"
	"net/url"

	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack"
)

// SerializeCursor encodes an opaque page cursor for use in pagination link
// URLs. The cursor must be able to be marshaled to and from binary.
func SerializeCursor(cursor any) (string, error) {
	b, err := msgpack.Marshal(cursor)
	if err != nil {
		return "", errors.Wrap(err, "unable to serialize cursor")
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// DeserializeCursor decodes a cursor produced by SerializeCursor into the
// value pointed to by cursor.
func DeserializeCursor(s string, cursor any) error {
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return errors.Wrap(err, "unable to decode cursor")
	}
	if err := msgpack.Unmarshal(b, cursor); err != nil {
		return errors.Wrap(err, "unable to deserialize cursor")
	}
	return nil
}

// PageCursors holds the cursors for the pages adjacent to the current one.
// Nil entries produce no corresponding link.
type PageCursors struct {
	First any
	Last  any
	Prev  any
	Next  any
}

// NewPaginationLinks builds pagination links by attaching serialized
// cursors to baseURL under the given query parameter.
func NewPaginationLinks(baseURL, param string, cursors PageCursors) (*PaginationLinks, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrap(err, "invalid pagination base url")
	}

	pageURL := func(cursor any) (string, error) {
		if cursor == nil {
			return "", nil
		}
		serialized, err := SerializeCursor(cursor)
		if err != nil {
			return "", err
		}
		u := *base
		q := u.Query()
		q.Set(param, serialized)
		u.RawQuery = q.Encode()
		return u.String(), nil
	}

	var links PaginationLinks
	if links.First, err = pageURL(cursors.First); err != nil {
		return nil, err
	}
	if links.Last, err = pageURL(cursors.Last); err != nil {
		return nil, err
	}
	if links.Prev, err = pageURL(cursors.Prev); err != nil {
		return nil, err
	}
	if links.Next, err = pageURL(cursors.Next); err != nil {
		return nil, err
	}
	return &links, nil
}
