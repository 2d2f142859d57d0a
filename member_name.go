package jsonapidoc

import (
	"strings"
)

func isGloballyAllowedCharacter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r >= 0x80
}

func isInternallyAllowedCharacter(r rune) bool {
	return isGloballyAllowedCharacter(r) || r == '-' || r == '_' || r == ' '
}

// https://jsonapi.org/format/#document-member-names-reserved-characters
func containsReservedCharacter(name string) bool {
	return strings.IndexFunc(name, func(r rune) bool {
		switch r {
		case '+', ',', '.', '[', ']', '!', '"', '#', '$', '%', '&', '\'', '(', ')',
			'*', '/', ':', ';', '<', '=', '>', '?', '\\', '^', '`', '{', '|', '}', '~':
			return true
		}
		return r < 0x20 || r == 0x7f
	}) >= 0
}

// The core member name shape: begins and ends with a globally allowed
// character, with hyphens, underscores, and spaces permitted internally.
func validateCoreMemberName(name string) error {
	runes := []rune(name)
	if len(runes) < 1 {
		return validationError(RuleInvalidMemberName, "member names must have at least one character")
	}
	if !isGloballyAllowedCharacter(runes[0]) || !isGloballyAllowedCharacter(runes[len(runes)-1]) {
		return validationError(RuleInvalidMemberName, "member names must begin and end with a number, letter, or non-ASCII character")
	}
	for _, r := range runes[1 : len(runes)-1] {
		if !isInternallyAllowedCharacter(r) {
			return validationError(RuleInvalidMemberName, "member names may only contain numbers, letters, hyphens, underscores, and spaces")
		}
	}
	return nil
}

// An extension member namespace is alphanumeric only, with non-ASCII
// characters also permitted.
//
// https://jsonapi.org/format/#extension-rules
func validateNamespace(namespace string) error {
	if namespace == "" {
		return validationError(RuleInvalidMemberName, "extension member names must have a namespace before the colon")
	}
	if strings.IndexFunc(namespace, func(r rune) bool {
		return !isGloballyAllowedCharacter(r)
	}) >= 0 {
		return validationError(RuleInvalidMemberName, "extension member namespaces may only contain numbers and letters")
	}
	return nil
}

// ValidateMemberName checks a document member name against the JSON:API
// member name rules. Three shapes are accepted: plain member names,
// @-members, and namespaced extension members ("namespace:member"). All
// three additionally forbid the reserved character set.
//
// https://jsonapi.org/format/#document-member-names
func ValidateMemberName(name string) error {
	if len(name) < 1 {
		return validationError(RuleInvalidMemberName, "member names must have at least one character")
	}

	switch strings.Count(name, ":") {
	case 0:
	case 1:
		// Extension member: both sides of the colon validate independently.
		namespace, member, _ := strings.Cut(name, ":")
		if err := validateNamespace(namespace); err != nil {
			return err
		}
		if containsReservedCharacter(member) {
			return validationError(RuleInvalidMemberName, "member name %q contains a reserved character", name)
		}
		return validateCoreMemberName(member)
	default:
		return validationError(RuleInvalidMemberName, "member names may contain at most one colon")
	}

	if containsReservedCharacter(name) {
		return validationError(RuleInvalidMemberName, "member name %q contains a reserved character", name)
	}

	if strings.HasPrefix(name, "@") {
		// @-members: the leading @ is followed by a core member name.
		//
		// https://jsonapi.org/format/#document-member-names-at-members
		if strings.Count(name, "@") > 1 {
			return validationError(RuleInvalidMemberName, "member names may only contain a commercial at as the first character")
		}
		return validateCoreMemberName(name[1:])
	}
	if strings.Contains(name, "@") {
		return validationError(RuleInvalidMemberName, "member names may only contain a commercial at as the first character")
	}

	return validateCoreMemberName(name)
}
