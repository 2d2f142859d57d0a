package jsonapidoc

import (
	"sort"
	"strings"
)

// A Resource is a full resource object: a typed, identified entity with
// attributes, relationships, links, and meta.
//
// Attribute names ending in "_id" are rejected as foreign keys. This is a
// policy of this library rather than a JSON:API requirement: such fields
// describe linkage and belong in relationships.
type Resource struct {
	Type string `json:"type"`

	Id string `json:"id,omitempty"`

	// A locally unique identifier, used in place of id for resources that
	// do not have a stable id yet. Exactly one of id and lid must be set.
	Lid string `json:"lid,omitempty"`

	// An attributes object representing some of the resource's data.
	Attributes map[string]any `json:"attributes,omitempty"`

	// A relationships object describing relationships between the resource
	// and other JSON:API resources.
	Relationships map[string]*Relationship `json:"relationships,omitempty"`

	// A links object containing links related to the resource.
	Links Links `json:"links,omitempty"`

	// A meta object containing non-standard meta-information about the
	// resource that can not be represented as an attribute or relationship.
	Meta map[string]any `json:"meta,omitempty"`
}

var resourceLinkKeys = []string{"self", "related", "describedby", "pagination"}

func isReservedFieldName(name string) bool {
	return name == "type" || name == "id" || name == "lid"
}

func sortedKeys[V any](m map[string]V) []string {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// NewResource validates r and returns it.
func NewResource(r Resource) (*Resource, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

// Identity returns the resource's identity key.
func (r *Resource) Identity() Identity {
	key := r.Id
	if key == "" {
		key = r.Lid
	}
	return Identity{Type: r.Type, Key: key}
}

// Validate checks the resource's local invariants. Checks run in a fixed
// order and the first failure wins.
func (r *Resource) Validate() error {
	if r.Type == "" {
		return validationError(RuleInvalidType, "resources must have a type")
	}
	if err := ValidateMemberName(r.Type); err != nil {
		return validationError(RuleInvalidType, "invalid resource type %q: %s", r.Type, err.Error())
	}

	if (r.Id == "") == (r.Lid == "") {
		return validationError(RuleIdentityConflict, "resources must have exactly one of id and lid")
	}

	if len(r.Attributes) > 0 && len(r.Relationships) > 0 {
		var common []string
		for name := range r.Attributes {
			if _, ok := r.Relationships[name]; ok {
				common = append(common, name)
			}
		}
		sort.Strings(common)
		for _, name := range common {
			if isReservedFieldName(name) {
				return validationError(RuleReservedKeyCollision, "field name %q is reserved and cannot be used as an attribute or relationship name", name)
			}
		}
		if len(common) > 0 {
			return validationError(RuleAttributeRelationshipConflict, "attribute and relationship names must not conflict: %s", strings.Join(common, ", "))
		}
	}

	for _, name := range sortedKeys(r.Attributes) {
		if isReservedFieldName(name) {
			return validationError(RuleReservedAttributeKey, "attribute name %q is reserved", name)
		}
		if strings.HasSuffix(name, "_id") {
			return validationError(RuleForeignKeyInAttributes, "attribute name %q looks like a foreign key and belongs in relationships", name)
		}
		if err := ValidateMemberName(name); err != nil {
			return err
		}
	}

	for _, name := range sortedKeys(r.Relationships) {
		if isReservedFieldName(name) {
			return validationError(RuleReservedRelationshipKey, "relationship name %q is reserved", name)
		}
		if err := ValidateMemberName(name); err != nil {
			return err
		}
		rel := r.Relationships[name]
		if rel == nil {
			return validationError(RuleEmptyRelationship, "relationship %q must not be null", name)
		}
		if err := rel.Validate(); err != nil {
			return err
		}
	}

	if err := validateLinks(r.Links, resourceLinkKeys, RuleInvalidLink, RuleInvalidLink); err != nil {
		return err
	}

	return nil
}
