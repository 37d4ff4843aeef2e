// Package metadata describes the wizard forms for the renderer: which
// fields each entity section asks for and how to present them.
package metadata

import "onboarding/internal/domain/catalog"

// FieldType defines the data type of a field.
type FieldType string

const (
	TypeString  FieldType = "string"
	TypeInteger FieldType = "integer"
	TypeNumber  FieldType = "number" // float/decimal
	TypeBoolean FieldType = "boolean"
	TypeDate    FieldType = "date"
	TypeEnum    FieldType = "enum"
	TypeMoney   FieldType = "money"
	TypeText    FieldType = "text" // multi-line narrative
)

// EntityDef describes the forms of one catalog entity.
type EntityDef struct {
	Name     string          `json:"name"`
	Label    string          `json:"label,omitempty"`
	Kind     catalog.Kind    `json:"kind"`
	Subtype  catalog.Subtype `json:"subtype"`
	Sections []SectionDef    `json:"sections"`
}

// Section returns the definition of one section, or nil.
func (d *EntityDef) Section(s catalog.Section) *SectionDef {
	for i := range d.Sections {
		if d.Sections[i].Name == s {
			return &d.Sections[i]
		}
	}
	return nil
}

// SectionDef describes a single form page.
type SectionDef struct {
	Name        catalog.Section `json:"name"`
	Label       string          `json:"label,omitempty"`
	Fields      []FieldDef      `json:"fields"`
	Collections []CollectionDef `json:"collections,omitempty"`
}

// CollectionDef describes a repeatable group of instances keyed by type,
// such as funding instances grouped by method.
type CollectionDef struct {
	Name    string     `json:"name"`
	Label   string     `json:"label,omitempty"`
	Types   []string   `json:"types,omitempty"`
	Columns []FieldDef `json:"columns"`
}

// FieldDef describes a field.
type FieldDef struct {
	Name     string    `json:"name"`
	Label    string    `json:"label,omitempty"`
	Type     FieldType `json:"type"`
	Required bool      `json:"required,omitempty"`
	ReadOnly bool      `json:"readOnly,omitempty"`
	Scale    int       `json:"scale,omitempty"` // For numbers
	Options  []string  `json:"options,omitempty"`
}

// Registry stores entity definitions in catalog order.
type Registry struct {
	entities map[string]EntityDef
	order    []string
}

func NewRegistry() *Registry {
	return &Registry{
		entities: make(map[string]EntityDef),
	}
}

func (r *Registry) Register(def EntityDef) {
	if _, ok := r.entities[def.Name]; !ok {
		r.order = append(r.order, def.Name)
	}
	r.entities[def.Name] = def
}

func (r *Registry) Get(name string) (EntityDef, bool) {
	d, ok := r.entities[name]
	return d, ok
}

func (r *Registry) List() []EntityDef {
	list := make([]EntityDef, 0, len(r.order))
	for _, name := range r.order {
		list = append(list, r.entities[name])
	}
	return list
}
