package jsonapidoc

import (
	"bytes"
	"encoding/json"

	jsoniter "github.com/json-iterator/go"
)

// ParseDocument unmarshals buf and runs the full document validation
// sequence over the result.
func ParseDocument(buf []byte) (*Document, error) {
	var d Document
	if err := jsoniter.Unmarshal(buf, &d); err != nil {
		return nil, err
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// MarshalJSON re-validates the document before serializing it. Members that
// are absent are omitted from the output rather than emitted as null; the
// only explicit null this library emits is an empty to-one relationship's
// data member.
func (d *Document) MarshalJSON() ([]byte, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	out := make(map[string]any)
	if d.Data != nil {
		out["data"] = d.Data
	}
	if len(d.Errors) > 0 {
		out["errors"] = d.Errors
	}
	if len(d.Meta) > 0 {
		out["meta"] = d.Meta
	}
	if d.JSONAPI != nil {
		out["jsonapi"] = d.JSONAPI
	}
	if len(d.Links) > 0 {
		out["links"] = d.Links
	}
	if d.Included != nil {
		out["included"] = d.Included
	}
	for name, value := range d.Extensions {
		out[name] = value
	}
	return jsoniter.Marshal(out)
}

func (d *Document) UnmarshalJSON(buf []byte) error {
	var raw map[string]json.RawMessage
	if err := jsoniter.Unmarshal(buf, &raw); err != nil {
		return err
	}

	var out Document
	for key, value := range raw {
		var err error
		switch key {
		case "data":
			out.Data, err = unmarshalPrimaryData(value)
		case "errors":
			err = jsoniter.Unmarshal(value, &out.Errors)
		case "meta":
			err = jsoniter.Unmarshal(value, &out.Meta)
		case "jsonapi":
			err = jsoniter.Unmarshal(value, &out.JSONAPI)
		case "links":
			err = jsoniter.Unmarshal(value, &out.Links)
		case "included":
			err = jsoniter.Unmarshal(value, &out.Included)
		default:
			if out.Extensions == nil {
				out.Extensions = make(map[string]any)
			}
			var v any
			if err = jsoniter.Unmarshal(value, &v); err == nil {
				out.Extensions[key] = v
			}
		}
		if err != nil {
			return err
		}
	}

	*d = out
	return nil
}

// unmarshalPrimaryData decodes a data member into the shapes primaryData
// accepts. Homogeneous lists decode to typed slices; mixed lists decode to
// []any.
func unmarshalPrimaryData(raw json.RawMessage) (any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	if trimmed[0] == '[' {
		var elements []json.RawMessage
		if err := jsoniter.Unmarshal(raw, &elements); err != nil {
			return nil, err
		}
		nodes := make([]any, len(elements))
		resources := 0
		for i, element := range elements {
			node, err := unmarshalPrimaryDatum(element)
			if err != nil {
				return nil, err
			}
			nodes[i] = node
			if _, ok := node.(*Resource); ok {
				resources++
			}
		}
		if resources == len(nodes) {
			out := make([]*Resource, len(nodes))
			for i, node := range nodes {
				out[i] = node.(*Resource)
			}
			return out, nil
		}
		if resources == 0 {
			out := make([]*ResourceIdentifier, len(nodes))
			for i, node := range nodes {
				out[i] = node.(*ResourceIdentifier)
			}
			return out, nil
		}
		return nodes, nil
	}

	return unmarshalPrimaryDatum(raw)
}

// A data member object is a resource if it carries any member beyond the
// resource identifier fields; otherwise it decodes as an identifier.
func unmarshalPrimaryDatum(raw json.RawMessage) (any, error) {
	var fields map[string]json.RawMessage
	if err := jsoniter.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	for key := range fields {
		switch key {
		case "type", "id", "lid", "meta":
		default:
			var resource Resource
			if err := jsoniter.Unmarshal(raw, &resource); err != nil {
				return nil, err
			}
			return &resource, nil
		}
	}
	var id ResourceIdentifier
	if err := jsoniter.Unmarshal(raw, &id); err != nil {
		return nil, err
	}
	return &id, nil
}

func (r *ResourceIdentifier) UnmarshalJSON(buf []byte) error {
	var raw map[string]json.RawMessage
	if err := jsoniter.Unmarshal(buf, &raw); err != nil {
		return err
	}

	var out ResourceIdentifier
	for key, value := range raw {
		var err error
		switch key {
		case "type":
			err = jsoniter.Unmarshal(value, &out.Type)
		case "id":
			err = jsoniter.Unmarshal(value, &out.Id)
		case "lid":
			err = jsoniter.Unmarshal(value, &out.Lid)
		case "meta":
			err = jsoniter.Unmarshal(value, &out.Meta)
		default:
			err = validationError(RuleInvalidLinkage, "unrecognized resource identifier member %q", key)
		}
		if err != nil {
			return err
		}
	}

	*r = out
	return nil
}

func (r *Resource) UnmarshalJSON(buf []byte) error {
	var raw map[string]json.RawMessage
	if err := jsoniter.Unmarshal(buf, &raw); err != nil {
		return err
	}

	var out Resource
	for key, value := range raw {
		var err error
		switch key {
		case "type":
			err = jsoniter.Unmarshal(value, &out.Type)
		case "id":
			err = jsoniter.Unmarshal(value, &out.Id)
		case "lid":
			err = jsoniter.Unmarshal(value, &out.Lid)
		case "attributes":
			err = jsoniter.Unmarshal(value, &out.Attributes)
		case "relationships":
			err = jsoniter.Unmarshal(value, &out.Relationships)
		case "links":
			err = jsoniter.Unmarshal(value, &out.Links)
		case "meta":
			err = jsoniter.Unmarshal(value, &out.Meta)
		default:
			err = validationError(RuleInvalidPrimaryData, "unrecognized resource object member %q", key)
		}
		if err != nil {
			return err
		}
	}

	*r = out
	return nil
}

func (rel *Relationship) MarshalJSON() ([]byte, error) {
	out := make(map[string]any)
	if len(rel.Links) > 0 {
		out["links"] = rel.Links
	}
	if rel.Data != nil {
		out["data"] = *rel.Data
	}
	if len(rel.Meta) > 0 {
		out["meta"] = rel.Meta
	}
	for name, value := range rel.Extensions {
		out[name] = value
	}
	return jsoniter.Marshal(out)
}

func (rel *Relationship) UnmarshalJSON(buf []byte) error {
	var raw map[string]json.RawMessage
	if err := jsoniter.Unmarshal(buf, &raw); err != nil {
		return err
	}

	var out Relationship
	for key, value := range raw {
		var err error
		switch key {
		case "links":
			err = jsoniter.Unmarshal(value, &out.Links)
		case "meta":
			err = jsoniter.Unmarshal(value, &out.Meta)
		case "data":
			var data any
			trimmed := bytes.TrimSpace(value)
			if len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) {
				if trimmed[0] == '[' {
					var ids []*ResourceIdentifier
					err = jsoniter.Unmarshal(value, &ids)
					data = ids
				} else {
					var id ResourceIdentifier
					err = jsoniter.Unmarshal(value, &id)
					data = &id
				}
			}
			out.Data = &data
		default:
			if out.Extensions == nil {
				out.Extensions = make(map[string]any)
			}
			var v any
			if err = jsoniter.Unmarshal(value, &v); err == nil {
				out.Extensions[key] = v
			}
		}
		if err != nil {
			return err
		}
	}

	*rel = out
	return nil
}

func (links *Links) UnmarshalJSON(buf []byte) error {
	var raw map[string]json.RawMessage
	if err := jsoniter.Unmarshal(buf, &raw); err != nil {
		return err
	}

	out := make(Links, len(raw))
	for key, value := range raw {
		v, err := unmarshalLinkValue(key, value)
		if err != nil {
			return err
		}
		out[key] = v
	}

	*links = out
	return nil
}

func unmarshalLinkValue(key string, raw json.RawMessage) (any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	if trimmed[0] == '"' {
		var s string
		if err := jsoniter.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		return s, nil
	}

	if trimmed[0] != '{' {
		return nil, validationError(RuleInvalidLinkValue, "link %q must be a URI-reference string, a link object, or null", key)
	}

	var fields map[string]json.RawMessage
	if err := jsoniter.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}

	if key == "pagination" {
		pagination := true
		for name := range fields {
			switch name {
			case "first", "last", "prev", "next":
			default:
				pagination = false
			}
		}
		if pagination {
			var p PaginationLinks
			if err := jsoniter.Unmarshal(raw, &p); err != nil {
				return nil, err
			}
			return &p, nil
		}
	}

	// Link objects permit no unrecognized fields.
	for name := range fields {
		switch name {
		case "href", "rel", "describedBy", "title", "type", "hreflang", "meta":
		default:
			return nil, validationError(RuleInvalidLinkValue, "unrecognized link object member %q", name)
		}
	}
	var link Link
	if err := jsoniter.Unmarshal(raw, &link); err != nil {
		return nil, err
	}
	return &link, nil
}
