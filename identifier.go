package jsonapidoc

// A ResourceIdentifier identifies an individual resource by type and id. A
// resource that originates on the client and does not yet have a
// server-assigned id carries a document-local identifier ("lid") instead;
// both may coexist so that a server can resolve a lid to the id it
// assigned.
type ResourceIdentifier struct {
	Type string `json:"type"`

	Id string `json:"id,omitempty"`

	// A locally unique identifier, used in place of id for resources that
	// do not have a stable id yet.
	Lid string `json:"lid,omitempty"`

	// A meta object containing non-standard meta-information about the resource.
	Meta map[string]any `json:"meta,omitempty"`
}

// NewResourceIdentifier validates id and returns it.
func NewResourceIdentifier(id ResourceIdentifier) (*ResourceIdentifier, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	return &id, nil
}

// Validate checks the identifier's local invariants: the type must be a
// valid member name and at least one of id and lid must be present.
func (r *ResourceIdentifier) Validate() error {
	if err := ValidateMemberName(r.Type); err != nil {
		return validationError(RuleInvalidType, "invalid resource type %q: %s", r.Type, err.Error())
	}
	if r.Id == "" && r.Lid == "" {
		return validationError(RuleMissingIdentity, "resource identifiers must have an id or lid")
	}
	return nil
}

// Identity is the (type, id-or-lid) key by which resources are compared for
// uniqueness and reachability. The id takes precedence when both an id and
// a lid are present.
type Identity struct {
	Type string
	Key  string
}

// Identity returns the identifier's identity key.
func (r *ResourceIdentifier) Identity() Identity {
	key := r.Id
	if key == "" {
		key = r.Lid
	}
	return Identity{Type: r.Type, Key: key}
}
