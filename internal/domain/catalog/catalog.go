// Package catalog holds the static descriptors of every member and account
// the wizard tracks, and the registration groups that bundle them.
//
// A Catalog is immutable after construction and safe for concurrent use.
package catalog

import (
	"slices"
	"strings"

	"onboarding/internal/core/fields"
)

// Kind distinguishes members (people, trusts) from accounts.
type Kind string

const (
	KindMember  Kind = "member"
	KindAccount Kind = "account"
)

// Section is one of the fixed data-entry groupings.
type Section string

const (
	SectionOwnerDetails Section = "owner-details"
	SectionFirmDetails  Section = "firm-details"
	SectionAccountSetup Section = "account-setup"
	SectionFunding      Section = "funding"
)

// Subtype parameterizes completion rules.
type Subtype string

const (
	SubtypeIndividual     Subtype = "individual"
	SubtypeTrust          Subtype = "trust"
	SubtypeJointTaxable   Subtype = "joint-taxable"
	SubtypeRothIRA        Subtype = "roth-ira"
	SubtypeTraditionalIRA Subtype = "traditional-ira"
)

// AccountTypeField is the account-setup field that may override an account's subtype.
const AccountTypeField = "accountType"

var (
	memberSections  = []Section{SectionOwnerDetails, SectionFirmDetails}
	accountSections = []Section{SectionAccountSetup, SectionFunding, SectionFirmDetails}

	memberSubtypes  = []Subtype{SubtypeIndividual, SubtypeTrust}
	accountSubtypes = []Subtype{SubtypeJointTaxable, SubtypeTrust, SubtypeRothIRA, SubtypeTraditionalIRA}

	// Free-form values the account type picker has historically stored.
	accountTypeAliases = map[string]Subtype{
		"joint":       SubtypeJointTaxable,
		"individual":  SubtypeJointTaxable,
		"ira":         SubtypeTraditionalIRA,
		"roth":        SubtypeRothIRA,
		"traditional": SubtypeTraditionalIRA,
	}
)

// CanonicalSections returns the section order for a kind.
func CanonicalSections(k Kind) []Section {
	switch k {
	case KindMember:
		return slices.Clone(memberSections)
	case KindAccount:
		return slices.Clone(accountSections)
	}
	return nil
}

// Entity describes a single member or account.
type Entity struct {
	ID       string    `json:"id" yaml:"id"`
	Name     string    `json:"name" yaml:"name"`
	Kind     Kind      `json:"kind" yaml:"-"`
	Subtype  Subtype   `json:"subtype" yaml:"subtype"`
	Sections []Section `json:"sections" yaml:"sections"`
}

// HasSection reports whether s applies to the entity.
func (e *Entity) HasSection(s Section) bool {
	return slices.Contains(e.Sections, s)
}

// SectionIndex returns the position of s in the entity's section list, or -1.
func (e *Entity) SectionIndex(s Section) int {
	return slices.Index(e.Sections, s)
}

func (e *Entity) clone() Entity {
	cp := *e
	cp.Sections = slices.Clone(e.Sections)
	return cp
}

func cloneEntities(in []Entity) []Entity {
	out := make([]Entity, len(in))
	for i := range in {
		out[i] = in[i].clone()
	}
	return out
}

// Registration is a bundle of owners and accounts opened together.
type Registration struct {
	ID       string   `json:"id" yaml:"id"`
	Name     string   `json:"name" yaml:"name"`
	Members  []string `json:"members" yaml:"members"`
	Accounts []string `json:"accounts" yaml:"accounts"`
}

// HasMember reports whether the member id is listed.
func (r *Registration) HasMember(id string) bool {
	return slices.Contains(r.Members, id)
}

// HasAccount reports whether the account id is listed.
func (r *Registration) HasAccount(id string) bool {
	return slices.Contains(r.Accounts, id)
}

// Contains reports whether the entity id is listed as a member or an account.
func (r *Registration) Contains(id string) bool {
	return id != "" && (r.HasMember(id) || r.HasAccount(id))
}

func (r *Registration) clone() Registration {
	cp := *r
	cp.Members = slices.Clone(r.Members)
	cp.Accounts = slices.Clone(r.Accounts)
	return cp
}

// Catalog is the validated, immutable set of entities and registrations.
type Catalog struct {
	members       []Entity
	accounts      []Entity
	registrations []Registration

	byID     map[string]*Entity
	regByID  map[string]*Registration
	memberIx map[string]int
	acctIx   map[string]int
}

// Members returns members in canonical order.
func (c *Catalog) Members() []Entity {
	return cloneEntities(c.members)
}

// Accounts returns accounts in canonical order.
func (c *Catalog) Accounts() []Entity {
	return cloneEntities(c.accounts)
}

// Entities returns members followed by accounts.
func (c *Catalog) Entities() []Entity {
	out := make([]Entity, 0, len(c.members)+len(c.accounts))
	out = append(out, cloneEntities(c.members)...)
	return append(out, cloneEntities(c.accounts)...)
}

// Registrations returns registration groups in declaration order.
func (c *Catalog) Registrations() []Registration {
	out := make([]Registration, len(c.registrations))
	for i := range c.registrations {
		out[i] = c.registrations[i].clone()
	}
	return out
}

// Lookup returns a copy of the entity with id or nil.
func (c *Catalog) Lookup(id string) *Entity {
	e, ok := c.byID[id]
	if !ok {
		return nil
	}
	cp := e.clone()
	return &cp
}

// Registration returns a copy of the registration with id or nil.
func (c *Catalog) Registration(id string) *Registration {
	r, ok := c.regByID[id]
	if !ok {
		return nil
	}
	cp := r.clone()
	return &cp
}

// RegistrationIndex returns the declaration index of a registration, or -1.
func (c *Catalog) RegistrationIndex(id string) int {
	for i := range c.registrations {
		if c.registrations[i].ID == id {
			return i
		}
	}
	return -1
}

// MemberIndex returns the canonical index of a member, or -1.
func (c *Catalog) MemberIndex(id string) int {
	if i, ok := c.memberIx[id]; ok {
		return i
	}
	return -1
}

// AccountIndex returns the canonical index of an account, or -1.
func (c *Catalog) AccountIndex(id string) int {
	if i, ok := c.acctIx[id]; ok {
		return i
	}
	return -1
}

// HasSection reports whether section s applies to the entity with id.
// Unknown ids never have sections.
func (c *Catalog) HasSection(id string, s Section) bool {
	e, ok := c.byID[id]
	return ok && e.HasSection(s)
}

// EffectiveSubtype returns the subtype completion rules should use for e.
//
// For accounts, a recognised accountType field value wins over the catalog
// subtype so that changing the account type in the form re-evaluates the
// subtype-conditioned requirements immediately.
func (c *Catalog) EffectiveSubtype(e *Entity, dict fields.Dictionary) Subtype {
	if e == nil {
		return ""
	}
	if e.Kind != KindAccount {
		return e.Subtype
	}
	if st, ok := ParseAccountSubtype(dict.GetString(AccountTypeField)); ok {
		return st
	}
	return e.Subtype
}

// AccountSubtypes returns the known account subtypes in display order.
func AccountSubtypes() []Subtype {
	return slices.Clone(accountSubtypes)
}

// ParseAccountSubtype maps an accountType field value to a known account subtype.
func ParseAccountSubtype(v string) (Subtype, bool) {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" {
		return "", false
	}
	if slices.Contains(accountSubtypes, Subtype(v)) {
		return Subtype(v), true
	}
	st, ok := accountTypeAliases[v]
	return st, ok
}
