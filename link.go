package jsonapidoc

import (
	"net/url"
	"regexp"
	"strings"
)

// ValidURIReference reports whether s can serve as a link target. Absolute
// URIs, scheme-plus-path URIs, and bare relative references are all
// accepted, per RFC 3986 section 4.1.
func ValidURIReference(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	if u.Scheme != "" {
		return u.Host != "" || u.Path != "" || u.Opaque != ""
	}
	return u.Host != "" || u.Path != ""
}

// A simplified acceptable subset of the RFC 5646 language tag grammar:
// primary language, optional script, optional region, optional variants.
var languageTagRegex = regexp.MustCompile(`^[a-zA-Z]{2,3}(-[a-zA-Z]{4})?(-([a-zA-Z]{2}|[0-9]{3}))?(-[a-zA-Z0-9]{5,8})*$`)

// ValidLanguageTag reports whether tag is a valid RFC 5646 language tag.
func ValidLanguageTag(tag string) bool {
	return languageTagRegex.MatchString(tag)
}

// A "link object" is an object that represents a web link.
type Link struct {
	// A string whose value is a URI-reference [RFC3986 Section 4.1] pointing to the link's target.
	HREF string `json:"href"`

	// A string indicating the link's relation type. The string MUST be a valid link relation type.
	RelationType string `json:"rel,omitempty"`

	// A link to a description document (e.g. OpenAPI or JSON Schema) for the link target.
	DescribedBy string `json:"describedBy,omitempty"`

	// A string which serves as a label for the destination of a link such that it can be used as a
	// human-readable identifier (e.g., a menu entry).
	Title string `json:"title,omitempty"`

	// A string indicating the media type of the link's target.
	Type string `json:"type,omitempty"`

	// A string or an array of strings indicating the language(s) of the link's target. An array of
	// strings indicates that the link's target is available in multiple languages. Each string MUST
	// be a valid language tag [RFC5646].
	HREFLanguage any `json:"hreflang,omitempty"`

	// A meta object containing non-standard meta-information about the link.
	Meta map[string]any `json:"meta,omitempty"`
}

// Validate checks the link object's fields. href is required and must be a
// valid URI-reference.
func (l *Link) Validate() error {
	if l.HREF == "" || !ValidURIReference(l.HREF) {
		return validationError(RuleInvalidLinkValue, "link href must be a valid URI-reference: %q", l.HREF)
	}
	if l.DescribedBy != "" && !ValidURIReference(l.DescribedBy) {
		return validationError(RuleInvalidLinkValue, "link describedBy must be a valid URI-reference: %q", l.DescribedBy)
	}
	if l.RelationType != "" {
		if strings.IndexFunc(l.RelationType, func(r rune) bool {
			return !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'))
		}) >= 0 {
			return validationError(RuleInvalidLinkValue, "link rel must be a valid link relation type: %q", l.RelationType)
		}
	}
	return validateHREFLanguage(l.HREFLanguage)
}

func validateHREFLanguage(v any) error {
	switch tags := v.(type) {
	case nil:
		return nil
	case string:
		if tags == "" || !ValidLanguageTag(tags) {
			return validationError(RuleInvalidLinkValue, "link hreflang must be a valid language tag: %q", tags)
		}
	case []string:
		if len(tags) == 0 {
			return validationError(RuleInvalidLinkValue, "link hreflang must be a non-empty list of language tags")
		}
		for _, tag := range tags {
			if tag == "" || !ValidLanguageTag(tag) {
				return validationError(RuleInvalidLinkValue, "link hreflang must be a valid language tag: %q", tag)
			}
		}
	case []any:
		if len(tags) == 0 {
			return validationError(RuleInvalidLinkValue, "link hreflang must be a non-empty list of language tags")
		}
		for _, tag := range tags {
			s, ok := tag.(string)
			if !ok || s == "" || !ValidLanguageTag(s) {
				return validationError(RuleInvalidLinkValue, "link hreflang must be a valid language tag: %v", tag)
			}
		}
	default:
		return validationError(RuleInvalidLinkValue, "link hreflang must be a string or a list of strings")
	}
	return nil
}

// An object used to represent links.
//
// Within this object, a link value MUST be represented as either:
//
// - a string whose value is a URI-reference [RFC3986 Section 4.1] pointing to the link's target,
// - a *Link,
// - a *PaginationLinks (for the document-level "pagination" member only) or
// - nil if the link does not exist.
type Links map[string]any

func validateLinkValue(value any) error {
	switch v := value.(type) {
	case nil:
		return nil
	case string:
		if !ValidURIReference(v) {
			return validationError(RuleInvalidLinkValue, "link must be a valid URI-reference: %q", v)
		}
		return nil
	case *Link:
		return v.Validate()
	default:
		return validationError(RuleInvalidLinkValue, "link must be a URI-reference string, a link object, or null")
	}
}

// validateLinks checks every entry of links against an allow-list of keys.
// keyRule attributes bad keys; valueRule attributes bad values.
func validateLinks(links Links, allowedKeys []string, keyRule, valueRule Rule) error {
	for _, key := range sortedKeys(links) {
		allowed := false
		for _, k := range allowedKeys {
			if key == k {
				allowed = true
				break
			}
		}
		if !allowed {
			return validationError(keyRule, "invalid link key %q (allowed: %s)", key, strings.Join(allowedKeys, ", "))
		}
		if err := validateLinkValue(links[key]); err != nil {
			verr := err.(*ValidationError)
			return validationError(valueRule, "link %q: %s", key, verr.Message)
		}
	}
	return nil
}

// PaginationLinks holds the pagination links for a collection. Keys that
// are absent indicate that the corresponding page does not exist.
type PaginationLinks struct {
	// The first page of data.
	First string `json:"first,omitempty"`

	// The last page of data.
	Last string `json:"last,omitempty"`

	// The previous page of data.
	Prev string `json:"prev,omitempty"`

	// The next page of data.
	Next string `json:"next,omitempty"`
}

// Validate checks that every present pagination link is a valid
// URI-reference.
func (p *PaginationLinks) Validate() error {
	for _, link := range []string{p.First, p.Last, p.Prev, p.Next} {
		if link != "" && !ValidURIReference(link) {
			return validationError(RuleInvalidLinkValue, "pagination links must be valid URI-references: %q", link)
		}
	}
	return nil
}
