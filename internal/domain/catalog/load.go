package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"slices"
	"sync"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"onboarding/internal/core/apperror"
)

//go:embed default_catalog.yaml
var defaultCatalogYAML []byte

// document is the YAML layout of a catalog file.
type document struct {
	Members       []Entity       `yaml:"members"`
	Accounts      []Entity       `yaml:"accounts"`
	Registrations []Registration `yaml:"registrations"`
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default returns the built-in catalog. It panics if the embedded file is invalid.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Load(defaultCatalogYAML)
		if err != nil {
			panic(fmt.Sprintf("catalog: embedded default is invalid: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}

// DefaultYAML returns the raw embedded catalog document.
func DefaultYAML() []byte {
	return bytes.Clone(defaultCatalogYAML)
}

// Load parses and validates a YAML catalog document.
func Load(data []byte) (*Catalog, error) {
	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, apperror.NewCatalogInvalid(fmt.Errorf("decode: %w", err))
	}
	return New(doc.Members, doc.Accounts, doc.Registrations)
}

// New validates the descriptors and builds a Catalog.
// Every problem found is reported, not just the first.
func New(members, accounts []Entity, registrations []Registration) (*Catalog, error) {
	c := &Catalog{
		members:       make([]Entity, len(members)),
		accounts:      make([]Entity, len(accounts)),
		registrations: make([]Registration, len(registrations)),
		byID:          make(map[string]*Entity, len(members)+len(accounts)),
		regByID:       make(map[string]*Registration, len(registrations)),
		memberIx:      make(map[string]int, len(members)),
		acctIx:        make(map[string]int, len(accounts)),
	}

	var errs error

	add := func(list []Entity, dst []Entity, kind Kind, index map[string]int) {
		for i, e := range list {
			e.Kind = kind
			e.Sections = slices.Clone(e.Sections)
			dst[i] = e
			errs = multierr.Append(errs, validateEntity(&dst[i]))
			if _, dup := c.byID[e.ID]; dup {
				errs = multierr.Append(errs, fmt.Errorf("duplicate entity id %q", e.ID))
				continue
			}
			c.byID[e.ID] = &dst[i]
			index[e.ID] = i
		}
	}
	add(members, c.members, KindMember, c.memberIx)
	add(accounts, c.accounts, KindAccount, c.acctIx)

	covered := make(map[string]bool, len(c.byID))
	for i, r := range registrations {
		r.Members = slices.Clone(r.Members)
		r.Accounts = slices.Clone(r.Accounts)
		c.registrations[i] = r

		if r.ID == "" {
			errs = multierr.Append(errs, fmt.Errorf("registration #%d has no id", i))
		} else if _, dup := c.regByID[r.ID]; dup {
			errs = multierr.Append(errs, fmt.Errorf("duplicate registration id %q", r.ID))
		} else {
			c.regByID[r.ID] = &c.registrations[i]
		}

		errs = multierr.Append(errs, c.checkRefs(r.ID, r.Members, KindMember, covered))
		errs = multierr.Append(errs, c.checkRefs(r.ID, r.Accounts, KindAccount, covered))
	}

	for _, e := range c.Entities() {
		if !covered[e.ID] {
			errs = multierr.Append(errs, fmt.Errorf("%s %q belongs to no registration", e.Kind, e.ID))
		}
	}

	if errs != nil {
		return nil, apperror.NewCatalogInvalid(errs)
	}
	return c, nil
}

func (c *Catalog) checkRefs(regID string, ids []string, kind Kind, covered map[string]bool) error {
	var errs error
	for _, id := range ids {
		e := c.byID[id]
		switch {
		case e == nil:
			errs = multierr.Append(errs, fmt.Errorf("registration %q references unknown %s %q", regID, kind, id))
		case e.Kind != kind:
			errs = multierr.Append(errs, fmt.Errorf("registration %q lists %s %q as a %s", regID, e.Kind, id, kind))
		default:
			covered[id] = true
		}
	}
	return errs
}

func validateEntity(e *Entity) error {
	var errs error
	if e.ID == "" {
		errs = multierr.Append(errs, fmt.Errorf("%s %q has no id", e.Kind, e.Name))
	}

	subtypes := memberSubtypes
	if e.Kind == KindAccount {
		subtypes = accountSubtypes
	}
	if !slices.Contains(subtypes, e.Subtype) {
		errs = multierr.Append(errs, fmt.Errorf("%s %q has unknown subtype %q", e.Kind, e.ID, e.Subtype))
	}

	if len(e.Sections) == 0 {
		errs = multierr.Append(errs, fmt.Errorf("%s %q has no sections", e.Kind, e.ID))
	}

	canonical := CanonicalSections(e.Kind)
	last := -1
	for _, s := range e.Sections {
		pos := slices.Index(canonical, s)
		if pos < 0 {
			errs = multierr.Append(errs, fmt.Errorf("%s %q lists section %q which does not apply to %ss", e.Kind, e.ID, s, e.Kind))
			continue
		}
		if pos <= last {
			errs = multierr.Append(errs, fmt.Errorf("%s %q lists section %q out of order", e.Kind, e.ID, s))
		}
		last = pos
	}
	return errs
}
