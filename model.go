package jsonapidoc

import (
	"fmt"
	"reflect"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
)

// TypedModel can be implemented by source models to declare the resource
// type they convert to.
type TypedModel interface {
	ResourceType() string
}

// A LidRegistry assigns local ids to source objects that have no stable id,
// keyed by a caller-supplied key. Repeated conversions of the same logical
// object within one document assembly yield the same lid.
//
// A registry is caller-owned and not safe for concurrent use; use one
// registry per document assembly, or synchronize externally.
type LidRegistry struct {
	lids map[any]string
}

func NewLidRegistry() *LidRegistry {
	return &LidRegistry{lids: make(map[any]string)}
}

// For returns the lid registered for key, generating and registering a new
// one on first use.
func (r *LidRegistry) For(key any) string {
	if lid, ok := r.lids[key]; ok {
		return lid
	}
	lid := uuid.New().String()
	r.lids[key] = lid
	return lid
}

// FromModelOptions supplies the pieces of a resource that cannot be derived
// from the source model.
type FromModelOptions struct {
	// The resource type. If empty, the model must implement TypedModel.
	Type string

	// The resource id. If empty, an "id" field of the model is used; if the
	// model has neither, a lid is drawn from the registry.
	Id string

	Relationships map[string]*Relationship
	Links         Links
	Meta          map[string]any

	// Registry provides lids for models without a stable id. If nil, a
	// fresh registry is used for this conversion only.
	Registry *LidRegistry

	// LidKey identifies the source object in the registry. If nil, the
	// model value itself is used; supply a stable key when the model is not
	// comparable or when distinct values represent the same logical object.
	LidKey any
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return (rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface) && rv.IsNil()
}

// FromModel converts an arbitrary source model into a validated resource.
// The model's JSON representation supplies the attributes; "id" and "type"
// fields are lifted out of the attributes rather than copied. When neither
// an id option nor an id field is available, a lid is drawn from the
// registry so that repeated conversions of the same object stay consistent.
func FromModel(model any, opts FromModelOptions) (*Resource, error) {
	if isNil(model) {
		return nil, validationError(RuleMissingResourceType, "cannot convert a nil model to a resource")
	}

	resourceType := opts.Type
	if resourceType == "" {
		if typed, ok := model.(TypedModel); ok {
			resourceType = typed.ResourceType()
		}
	}
	if resourceType == "" {
		return nil, validationError(RuleMissingResourceType, "resource type must be provided as an option or via a ResourceType method on the model")
	}

	buf, err := jsoniter.Marshal(model)
	if err != nil {
		return nil, err
	}
	var attributes map[string]any
	if err := jsoniter.Unmarshal(buf, &attributes); err != nil {
		return nil, err
	}

	id := opts.Id
	if id == "" {
		if v, ok := attributes["id"]; ok && v != nil {
			id = fmt.Sprintf("%v", v)
		}
	}
	delete(attributes, "id")
	delete(attributes, "type")
	if len(attributes) == 0 {
		attributes = nil
	}

	var lid string
	if id == "" {
		registry := opts.Registry
		if registry == nil {
			registry = NewLidRegistry()
		}
		key := opts.LidKey
		if key == nil {
			key = model
		}
		lid = registry.For(key)
	}

	return NewResource(Resource{
		Type:          resourceType,
		Id:            id,
		Lid:           lid,
		Attributes:    attributes,
		Relationships: opts.Relationships,
		Links:         opts.Links,
		Meta:          opts.Meta,
	})
}
