package jsonapidoc

import (
	"fmt"
	"sort"
	"strings"
)

// A Document defines a JSON:API document's "top level".
//
// A document is assembled bottom-up: identifiers, then relationships, then
// resources, each validating its own local invariants at construction.
// NewDocument runs the cross-cutting graph checks over the whole structure;
// serialization re-runs them, so a mutated document is never serialized
// without passing the full validation sequence again.
type Document struct {
	// The document's "primary data": nil, a *Resource, a
	// *ResourceIdentifier, a []*Resource, a []*ResourceIdentifier, or a
	// []any mixing resources and identifiers.
	Data any

	// An array of error objects.
	Errors []ErrorObject

	// A meta object containing non-standard meta-information.
	Meta map[string]any

	// An object describing the server's implementation.
	JSONAPI *JSONAPI

	// A links object related to the primary data. Allowed keys are self,
	// related, and describedby. Pagination links are carried as a
	// *PaginationLinks under the "pagination" key, never as top-level
	// first/last/prev/next keys.
	Links Links

	// Resource objects that are related to the primary data and/or each
	// other. Every included resource must be reachable from the primary
	// data via relationship traversal.
	Included []*Resource

	// Extension members keyed by member name, merged into the top level at
	// serialization time.
	Extensions map[string]any
}

// NewDocument validates d and returns it.
func NewDocument(d Document) (*Document, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// Validate runs the document checks in sequence. The first violated rule
// aborts validation, except that unreachable included resources are
// aggregated into a single error naming every offending identity key.
func (d *Document) Validate() error {
	// 1. data and errors must not coexist.
	if d.Data != nil && len(d.Errors) > 0 {
		return validationError(RuleDataErrorsConflict, "the members data and errors must not coexist in the same document")
	}

	// 2. At least one of data, errors, meta, jsonapi, or extension members.
	if d.Data == nil && len(d.Errors) == 0 && len(d.Meta) == 0 && d.JSONAPI == nil && len(d.Extensions) == 0 {
		return validationError(RuleEmptyDocument, "documents must contain at least one of data, errors, meta, jsonapi, or an extension member")
	}

	// 3. included requires data.
	if d.Data == nil && d.Included != nil {
		return validationError(RuleIncludedWithoutData, "documents without primary data must not have included resources")
	}

	// 4. Extension member names.
	for _, name := range sortedKeys(d.Extensions) {
		if err := ValidateMemberName(name); err != nil {
			return err
		}
	}

	// 5. Primary data shape.
	roots, err := d.primaryData()
	if err != nil {
		return err
	}
	for _, root := range roots {
		switch node := root.(type) {
		case *Resource:
			if err := node.Validate(); err != nil {
				return err
			}
		case *ResourceIdentifier:
			if err := node.Validate(); err != nil {
				return err
			}
		}
	}

	// 6. Included shape.
	for i, resource := range d.Included {
		if resource == nil {
			return validationError(RuleInvalidIncludedType, "included must be a list of resource objects (element %d is null)", i)
		}
		if err := resource.Validate(); err != nil {
			return err
		}
	}

	// 7. Included uniqueness.
	seen := map[Identity]struct{}{}
	for _, resource := range d.Included {
		identity := resource.Identity()
		if _, ok := seen[identity]; ok {
			return validationError(RuleDuplicateIncludedResource, "duplicate included resource: type=%q, id=%q, lid=%q", resource.Type, resource.Id, resource.Lid)
		}
		seen[identity] = struct{}{}
	}

	// 8. Reachability.
	if len(d.Included) > 0 {
		reachable := reachableIdentities(roots)
		var unreachable []Identity
		for _, resource := range d.Included {
			if _, ok := reachable[resource.Identity()]; !ok {
				unreachable = append(unreachable, resource.Identity())
			}
		}
		if len(unreachable) > 0 {
			sort.Slice(unreachable, func(i, j int) bool {
				if unreachable[i].Type != unreachable[j].Type {
					return unreachable[i].Type < unreachable[j].Type
				}
				return unreachable[i].Key < unreachable[j].Key
			})
			keys := make([]string, len(unreachable))
			for i, identity := range unreachable {
				keys[i] = fmt.Sprintf("(%s, %s)", identity.Type, identity.Key)
			}
			return &ValidationError{
				Rule:        RuleUnreachableIncludedResource,
				Message:     fmt.Sprintf("included resources are not reachable from primary data: %s", strings.Join(keys, ", ")),
				Unreachable: unreachable,
			}
		}
	}

	// 9. Top-level links.
	if err := d.validateTopLevelLinks(); err != nil {
		return err
	}

	if d.JSONAPI != nil {
		if err := d.JSONAPI.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// primaryData normalizes the data member into a flat list of roots, each a
// *Resource or a *ResourceIdentifier.
func (d *Document) primaryData() ([]any, error) {
	appendRoot := func(roots []any, node any) ([]any, error) {
		switch n := node.(type) {
		case *Resource:
			if n != nil {
				return append(roots, n), nil
			}
		case *ResourceIdentifier:
			if n != nil {
				return append(roots, n), nil
			}
		}
		return nil, validationError(RuleInvalidPrimaryData, "primary data must be a resource, a resource identifier, or a list of either")
	}

	switch data := d.Data.(type) {
	case nil:
		return nil, nil
	case *Resource, *ResourceIdentifier:
		return appendRoot(nil, data)
	case []*Resource:
		var roots []any
		for _, resource := range data {
			var err error
			if roots, err = appendRoot(roots, resource); err != nil {
				return nil, err
			}
		}
		return roots, nil
	case []*ResourceIdentifier:
		var roots []any
		for _, id := range data {
			var err error
			if roots, err = appendRoot(roots, id); err != nil {
				return nil, err
			}
		}
		return roots, nil
	case []any:
		var roots []any
		for _, node := range data {
			var err error
			if roots, err = appendRoot(roots, node); err != nil {
				return nil, err
			}
		}
		return roots, nil
	default:
		return nil, validationError(RuleInvalidPrimaryData, "primary data must be a resource, a resource identifier, or a list of either")
	}
}

// reachableIdentities performs a depth-first traversal from the primary
// data roots and returns every identity key encountered. The traversal is
// iterative with an explicit stack; a visited set guarantees termination on
// cyclic relationship graphs. Identifiers are leaves: only resources are
// descended into.
func reachableIdentities(roots []any) map[Identity]struct{} {
	reachable := map[Identity]struct{}{}
	visited := map[Identity]struct{}{}

	stack := make([]any, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, roots[i])
	}

	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		var identity Identity
		var relationships map[string]*Relationship
		switch n := node.(type) {
		case *Resource:
			identity = n.Identity()
			relationships = n.Relationships
		case *ResourceIdentifier:
			identity = n.Identity()
		default:
			continue
		}

		reachable[identity] = struct{}{}
		if _, ok := visited[identity]; ok {
			continue
		}
		visited[identity] = struct{}{}

		names := sortedKeys(relationships)
		for i := len(names) - 1; i >= 0; i-- {
			ids := relationships[names[i]].identifiers()
			for j := len(ids) - 1; j >= 0; j-- {
				if ids[j] != nil {
					stack = append(stack, ids[j])
				}
			}
		}
	}

	return reachable
}

var documentLinkKeys = []string{"self", "related", "describedby", "pagination"}

func (d *Document) validateTopLevelLinks() error {
	for _, key := range sortedKeys(d.Links) {
		switch key {
		case "self", "related", "describedby":
			if err := validateLinkValue(d.Links[key]); err != nil {
				verr := err.(*ValidationError)
				return validationError(RuleInvalidLinkValue, "top-level link %q: %s", key, verr.Message)
			}
		case "pagination":
			pagination, ok := d.Links[key].(*PaginationLinks)
			if !ok {
				return validationError(RuleInvalidLinkValue, "top-level pagination must be a pagination links object")
			}
			if err := pagination.Validate(); err != nil {
				return err
			}
		default:
			return validationError(RuleInvalidLinkKey, "invalid top-level link key %q (allowed: %s)", key, strings.Join(documentLinkKeys, ", "))
		}
	}
	return nil
}
