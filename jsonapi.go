package jsonapidoc

// Version is the highest JSON:API version supported by this library.
const Version = "1.1"

var allowedVersions = []string{"1.0", "1.1"}

// JSONAPI is the document's "jsonapi" member: an object describing the
// server's implementation.
type JSONAPI struct {
	// A string indicating the highest JSON:API version supported.
	Ver string `json:"version,omitempty"`

	// An array of URIs for all applied extensions.
	Ext []string `json:"ext,omitempty"`

	// An array of URIs for all applied profiles.
	Profile []string `json:"profile,omitempty"`

	// A meta object containing non-standard meta-information.
	Meta map[string]any `json:"meta,omitempty"`
}

// Validate checks the version against the known JSON:API versions and every
// ext and profile entry for URI validity. An absent version is allowed and
// interpreted as "1.0" by consumers, per JSON:API 1.1.
func (j *JSONAPI) Validate() error {
	if j.Ver != "" {
		okay := false
		for _, v := range allowedVersions {
			if j.Ver == v {
				okay = true
				break
			}
		}
		if !okay {
			return validationError(RuleInvalidJSONAPI, "jsonapi version must be one of %v", allowedVersions)
		}
	}
	for _, uri := range j.Ext {
		if !ValidURIReference(uri) {
			return validationError(RuleInvalidJSONAPI, "jsonapi ext entries must be valid URIs: %q", uri)
		}
	}
	for _, uri := range j.Profile {
		if !ValidURIReference(uri) {
			return validationError(RuleInvalidJSONAPI, "jsonapi profile entries must be valid URIs: %q", uri)
		}
	}
	return nil
}
