package jsonapidoc

import (
	goerrors "errors"
	"fmt"
)

// Rule identifies the structural rule that a ValidationError is attributed
// to.
type Rule string

const (
	RuleInvalidMemberName             Rule = "invalid_member_name"
	RuleInvalidType                   Rule = "invalid_type"
	RuleMissingIdentity               Rule = "missing_identity"
	RuleIdentityConflict              Rule = "identity_conflict"
	RuleReservedKeyCollision          Rule = "reserved_key_collision"
	RuleAttributeRelationshipConflict Rule = "attribute_relationship_conflict"
	RuleReservedAttributeKey          Rule = "reserved_attribute_key"
	RuleForeignKeyInAttributes        Rule = "foreign_key_in_attributes"
	RuleReservedRelationshipKey       Rule = "reserved_relationship_key"
	RuleInvalidLink                   Rule = "invalid_link"
	RuleInvalidLinkKey                Rule = "invalid_link_key"
	RuleInvalidLinkValue              Rule = "invalid_link_value"
	RuleInvalidLinkage                Rule = "invalid_linkage"
	RuleEmptyRelationship             Rule = "empty_relationship"
	RuleMissingResourceType           Rule = "missing_resource_type"
	RuleInvalidPrimaryData            Rule = "invalid_primary_data"
	RuleInvalidIncludedType           Rule = "invalid_included_type"
	RuleDuplicateIncludedResource     Rule = "duplicate_included_resource"
	RuleUnreachableIncludedResource   Rule = "unreachable_included_resource"
	RuleDataErrorsConflict            Rule = "data_errors_conflict"
	RuleEmptyDocument                 Rule = "empty_document"
	RuleIncludedWithoutData           Rule = "included_without_data"
	RuleInvalidJSONAPI                Rule = "invalid_jsonapi_object"
)

// ValidationError is returned when a document, resource, relationship, or
// identifier violates a structural rule. Construction of the enclosing
// entity is aborted entirely; there is no partially valid result.
type ValidationError struct {
	Rule    Rule
	Message string

	// For unreachable-included errors, the identity keys of every included
	// resource that cannot be reached from the primary data.
	Unreachable []Identity
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationError(rule Rule, format string, args ...any) *ValidationError {
	return &ValidationError{
		Rule:    rule,
		Message: fmt.Sprintf(format, args...),
	}
}

// RuleOf returns the rule that err is attributed to, if err is or wraps a
// ValidationError.
func RuleOf(err error) (Rule, bool) {
	var verr *ValidationError
	if goerrors.As(err, &verr) {
		return verr.Rule, true
	}
	return "", false
}

// ErrorObject provides additional information about a problem encountered
// while performing an operation, for use in a document's errors array.
type ErrorObject struct {
	// A unique identifier for this particular occurrence of the problem.
	Id string `json:"id,omitempty"`

	Links Links `json:"links,omitempty"`

	// The HTTP status code applicable to this problem, expressed as a string value.
	Status string `json:"status,omitempty"`

	// An application-specific error code, expressed as a string value.
	Code string `json:"code,omitempty"`

	// A short, human-readable summary of the problem that SHOULD NOT change from occurrence to
	// occurrence of the problem, except for purposes of localization.
	Title string `json:"title,omitempty"`

	// A human-readable explanation specific to this occurrence of the problem. Like title, this
	// field's value can be localized.
	Detail string `json:"detail,omitempty"`

	// An object containing references to the primary source of the error.
	Source *ErrorSource `json:"source,omitempty"`

	// A meta object containing non-standard meta-information about the error.
	Meta map[string]any `json:"meta,omitempty"`
}

// An object containing references to the primary source of the error.
type ErrorSource struct {
	// A JSON Pointer [RFC6901] to the value in the request document that caused the error [e.g.
	// "/data" for a primary data object, or "/data/attributes/title" for a specific attribute].
	Pointer string `json:"pointer,omitempty"`

	// A string indicating which URI query parameter caused the error.
	Parameter string `json:"parameter,omitempty"`

	// A string indicating the name of a single request header which caused the error.
	Header string `json:"header,omitempty"`
}
