// Package mediatype implements JSON:API content negotiation: parsing and
// validation of the application/vnd.api+json media type with its ext and
// profile parameters, for both Content-Type and Accept headers.
package mediatype

import (
	"mime"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// MediaType is the JSON:API media type.
const MediaType = "application/vnd.api+json"

var (
	// ErrUnsupportedMediaType indicates a Content-Type that a server must
	// reject with 415 Unsupported Media Type.
	ErrUnsupportedMediaType = errors.New("unsupported media type")

	// ErrNotAcceptable indicates an Accept header with no acceptable
	// instance of the JSON:API media type, a 406 Not Acceptable condition.
	ErrNotAcceptable = errors.New("not acceptable")
)

// ContentType is a parsed and validated JSON:API media type with its
// extension and profile parameters.
type ContentType struct {
	// URIs of the applied extensions.
	Ext []string

	// URIs of the applied profiles.
	Profile []string
}

// Media type parameter URIs must be absolute.
func isValidParameterURI(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.Scheme != "" && u.Host != ""
}

func parseParameterURIs(name, value string) ([]string, error) {
	uris := strings.Fields(value)
	for _, uri := range uris {
		if !isValidParameterURI(uri) {
			return nil, errors.Wrapf(ErrUnsupportedMediaType, "invalid uri in %s parameter: %q", name, uri)
		}
	}
	return uris, nil
}

// Parse parses a Content-Type header value. Any media type other than
// application/vnd.api+json, any parameter other than ext and profile, and
// any non-URI parameter value is an error.
func Parse(contentType string) (*ContentType, error) {
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil, errors.Wrap(ErrUnsupportedMediaType, err.Error())
	}
	if mediaType != MediaType {
		return nil, errors.Wrapf(ErrUnsupportedMediaType, "media type must be %s, got %q", MediaType, mediaType)
	}

	ret := &ContentType{}
	for name, value := range params {
		switch name {
		case "ext":
			if ret.Ext, err = parseParameterURIs(name, value); err != nil {
				return nil, err
			}
		case "profile":
			if ret.Profile, err = parseParameterURIs(name, value); err != nil {
				return nil, err
			}
		default:
			return nil, errors.Wrapf(ErrUnsupportedMediaType, "invalid media type parameter %q (only ext and profile are allowed)", name)
		}
	}
	return ret, nil
}

// String serializes the content type back to a header value.
func (c *ContentType) String() string {
	params := map[string]string{}
	if len(c.Ext) > 0 {
		params["ext"] = strings.Join(c.Ext, " ")
	}
	if len(c.Profile) > 0 {
		params["profile"] = strings.Join(c.Profile, " ")
	}
	return mime.FormatMediaType(MediaType, params)
}

// A Negotiator validates request headers against the set of extensions the
// server supports.
type Negotiator struct {
	// URIs of the extensions the server supports.
	SupportedExtensions []string
}

func (n *Negotiator) supportsExtensions(uris []string) bool {
	for _, uri := range uris {
		supported := false
		for _, s := range n.SupportedExtensions {
			if uri == s {
				supported = true
				break
			}
		}
		if !supported {
			return false
		}
	}
	return true
}

// ValidateContentType validates a request's Content-Type header. A
// non-conforming header or an unsupported extension yields an error
// wrapping ErrUnsupportedMediaType.
func (n *Negotiator) ValidateContentType(header string) error {
	contentType, err := Parse(header)
	if err != nil {
		return err
	}
	if !n.supportsExtensions(contentType.Ext) {
		return errors.Wrap(ErrUnsupportedMediaType, "unsupported extension in Content-Type header")
	}
	return nil
}

type mediaRange struct {
	contentType *ContentType
	q           float64
}

// NegotiateAccept validates a request's Accept header and returns the
// negotiated content type. Instances of the JSON:API media type modified by
// parameters other than ext and profile are ignored; if every instance is
// ignored or requests an unsupported extension, the result is an error
// wrapping ErrNotAcceptable.
func (n *Negotiator) NegotiateAccept(header string) (*ContentType, error) {
	var ranges []mediaRange
	for _, part := range strings.Split(header, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		mediaType, params, err := mime.ParseMediaType(part)
		if err != nil || mediaType != MediaType {
			continue
		}

		q := 1.0
		okay := true
		contentType := &ContentType{}
		for name, value := range params {
			switch name {
			case "q":
				if parsed, err := strconv.ParseFloat(value, 64); err == nil {
					q = parsed
				}
			case "ext":
				if contentType.Ext, err = parseParameterURIs(name, value); err != nil {
					okay = false
				}
			case "profile":
				if contentType.Profile, err = parseParameterURIs(name, value); err != nil {
					okay = false
				}
			default:
				// Servers must ignore instances of the media type modified
				// by any other parameter.
				okay = false
			}
		}
		if okay {
			ranges = append(ranges, mediaRange{contentType: contentType, q: q})
		}
	}

	if len(ranges) == 0 {
		return nil, errors.Wrap(ErrNotAcceptable, "no acceptable instance of "+MediaType)
	}

	sort.SliceStable(ranges, func(i, j int) bool {
		return ranges[i].q > ranges[j].q
	})

	for _, r := range ranges {
		if n.supportsExtensions(r.contentType.Ext) {
			return r.contentType, nil
		}
	}
	return nil, errors.Wrap(ErrNotAcceptable, "no acceptable instance without unsupported extensions")
}

// VaryHeader is the Vary header value servers should send alongside
// negotiated responses.
func (n *Negotiator) VaryHeader() string {
	return "Accept"
}
