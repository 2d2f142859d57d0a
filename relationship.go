package jsonapidoc

// A Relationship describes a named relation between the resource that
// defines it and other resources.
type Relationship struct {
	// A links object containing at least one of self (a link for the
	// relationship itself) and related (a related resource link), plus an
	// optional describedby link to a description document.
	Links Links

	// The resource linkage.
	//
	// If given, the value must be nil (an empty to-one relationship), a
	// *ResourceIdentifier, or a []*ResourceIdentifier.
	Data *any

	// A meta object containing non-standard meta-information about the relationship.
	Meta map[string]any

	// Extension members keyed by member name, merged into the relationship
	// object at serialization time.
	Extensions map[string]any
}

var relationshipLinkKeys = []string{"self", "related", "describedby"}

// NewRelationship validates rel and returns it.
func NewRelationship(rel Relationship) (*Relationship, error) {
	if err := rel.Validate(); err != nil {
		return nil, err
	}
	return &rel, nil
}

// ToOne returns a relationship whose linkage is a single resource
// identifier. A nil identifier produces an empty to-one relationship,
// serialized as "data": null.
func ToOne(id *ResourceIdentifier) (*Relationship, error) {
	var data any
	if id != nil {
		data = id
	}
	return NewRelationship(Relationship{Data: &data})
}

// ToMany returns a relationship whose linkage is a list of resource
// identifiers.
func ToMany(ids ...*ResourceIdentifier) (*Relationship, error) {
	if ids == nil {
		ids = []*ResourceIdentifier{}
	}
	var data any = ids
	return NewRelationship(Relationship{Data: &data})
}

// Validate checks the relationship's local invariants. At least one of
// links, data, meta, and extension members must be present.
func (rel *Relationship) Validate() error {
	if len(rel.Links) == 0 && rel.Data == nil && len(rel.Meta) == 0 && len(rel.Extensions) == 0 {
		return validationError(RuleEmptyRelationship, "relationships must contain at least one of links, data, or meta")
	}

	if err := validateLinks(rel.Links, relationshipLinkKeys, RuleInvalidLinkKey, RuleInvalidLinkValue); err != nil {
		return err
	}
	if len(rel.Links) > 0 {
		if _, ok := rel.Links["self"]; !ok {
			if _, ok := rel.Links["related"]; !ok {
				return validationError(RuleInvalidLinkKey, "relationship links must contain at least one of self and related")
			}
		}
	}

	if rel.Data != nil {
		switch data := (*rel.Data).(type) {
		case nil:
		case *ResourceIdentifier:
			if err := data.Validate(); err != nil {
				return err
			}
		case []*ResourceIdentifier:
			for _, id := range data {
				if id == nil {
					return validationError(RuleInvalidLinkage, "relationship data must not contain null identifiers")
				}
				if err := id.Validate(); err != nil {
					return err
				}
			}
		default:
			return validationError(RuleInvalidLinkage, "relationship data must be null, a resource identifier, or a list of resource identifiers")
		}
	}

	for _, name := range sortedKeys(rel.Extensions) {
		if err := ValidateMemberName(name); err != nil {
			return err
		}
	}

	return nil
}

// identifiers returns the relationship's linkage as a flat list.
func (rel *Relationship) identifiers() []*ResourceIdentifier {
	if rel == nil || rel.Data == nil {
		return nil
	}
	switch data := (*rel.Data).(type) {
	case *ResourceIdentifier:
		return []*ResourceIdentifier{data}
	case []*ResourceIdentifier:
		return data
	}
	return nil
}
