package jsonapidoc

// A DocumentBuilder accumulates the members of a document before a final
// validated construction. Build runs the same validation sequence as
// NewDocument.
type DocumentBuilder struct {
	doc Document
}

func NewDocumentBuilder() *DocumentBuilder {
	return &DocumentBuilder{}
}

// Data sets the document's primary data.
func (b *DocumentBuilder) Data(data any) *DocumentBuilder {
	b.doc.Data = data
	return b
}

// Errors sets the document's error objects.
func (b *DocumentBuilder) Errors(errors ...ErrorObject) *DocumentBuilder {
	b.doc.Errors = errors
	return b
}

// Meta sets the document's meta object.
func (b *DocumentBuilder) Meta(meta map[string]any) *DocumentBuilder {
	b.doc.Meta = meta
	return b
}

// JSONAPI sets the document's jsonapi object.
func (b *DocumentBuilder) JSONAPI(jsonapi *JSONAPI) *DocumentBuilder {
	b.doc.JSONAPI = jsonapi
	return b
}

// Link adds a top-level link.
func (b *DocumentBuilder) Link(name string, value any) *DocumentBuilder {
	if b.doc.Links == nil {
		b.doc.Links = Links{}
	}
	b.doc.Links[name] = value
	return b
}

// Pagination sets the top-level pagination links.
func (b *DocumentBuilder) Pagination(pagination *PaginationLinks) *DocumentBuilder {
	return b.Link("pagination", pagination)
}

// Include appends resources to the document's included member.
func (b *DocumentBuilder) Include(resources ...*Resource) *DocumentBuilder {
	b.doc.Included = append(b.doc.Included, resources...)
	return b
}

// Extension adds a top-level extension member.
func (b *DocumentBuilder) Extension(name string, value any) *DocumentBuilder {
	if b.doc.Extensions == nil {
		b.doc.Extensions = make(map[string]any)
	}
	b.doc.Extensions[name] = value
	return b
}

// Build validates the accumulated document and returns it.
func (b *DocumentBuilder) Build() (*Document, error) {
	return NewDocument(b.doc)
}

// A ResourceBuilder accumulates the members of a resource object before a
// final validated construction.
type ResourceBuilder struct {
	resource Resource
}

func NewResourceBuilder(resourceType string) *ResourceBuilder {
	return &ResourceBuilder{resource: Resource{Type: resourceType}}
}

// Id sets the resource's id.
func (b *ResourceBuilder) Id(id string) *ResourceBuilder {
	b.resource.Id = id
	return b
}

// Lid sets the resource's local id.
func (b *ResourceBuilder) Lid(lid string) *ResourceBuilder {
	b.resource.Lid = lid
	return b
}

// Attribute adds an attribute.
func (b *ResourceBuilder) Attribute(name string, value any) *ResourceBuilder {
	if b.resource.Attributes == nil {
		b.resource.Attributes = make(map[string]any)
	}
	b.resource.Attributes[name] = value
	return b
}

// Relationship adds a relationship.
func (b *ResourceBuilder) Relationship(name string, rel *Relationship) *ResourceBuilder {
	if b.resource.Relationships == nil {
		b.resource.Relationships = make(map[string]*Relationship)
	}
	b.resource.Relationships[name] = rel
	return b
}

// Link adds a link.
func (b *ResourceBuilder) Link(name string, value any) *ResourceBuilder {
	if b.resource.Links == nil {
		b.resource.Links = Links{}
	}
	b.resource.Links[name] = value
	return b
}

// Meta sets the resource's meta object.
func (b *ResourceBuilder) Meta(meta map[string]any) *ResourceBuilder {
	b.resource.Meta = meta
	return b
}

// Build validates the accumulated resource and returns it.
func (b *ResourceBuilder) Build() (*Resource, error) {
	return NewResource(b.resource)
}
