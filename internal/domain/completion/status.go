package completion

import (
	"math"
	"slices"

	"github.com/shopspring/decimal"

	"onboarding/internal/core/fields"
	"onboarding/internal/domain/catalog"
)

// Map is the completion flag of every applicable section, keyed by entity id.
type Map map[string]map[catalog.Section]bool

// Status is an immutable completion snapshot of the whole catalog.
type Status struct {
	catalog *catalog.Catalog
	flags   Map
	missing map[string]map[catalog.Section][]string
	funding map[string]decimal.Decimal
	done    int
	total   int
}

// Compute evaluates every applicable section of every entity against data.
// Entities without a dictionary report every section incomplete.
func Compute(cat *catalog.Catalog, data fields.Dataset, engine *Engine) *Status {
	st := &Status{
		catalog: cat,
		flags:   make(Map),
		missing: make(map[string]map[catalog.Section][]string),
		funding: make(map[string]decimal.Decimal),
	}

	for _, e := range cat.Entities() {
		dict := data.Get(e.ID)
		subject := Subject{Kind: e.Kind, Subtype: cat.EffectiveSubtype(&e, dict)}

		sections := make(map[catalog.Section]bool, len(e.Sections))
		for _, s := range e.Sections {
			complete := engine.IsSectionComplete(dict, subject, s)
			sections[s] = complete
			st.total++
			if complete {
				st.done++
				continue
			}
			if m := engine.Missing(dict, subject, s); len(m) > 0 {
				if st.missing[e.ID] == nil {
					st.missing[e.ID] = make(map[catalog.Section][]string)
				}
				st.missing[e.ID][s] = m
			}
		}
		st.flags[e.ID] = sections

		if e.HasSection(catalog.SectionFunding) {
			st.funding[e.ID] = FundingTotal(dict)
		}
	}

	return st
}

// Map returns a copy of the completion map.
func (s *Status) Map() Map {
	out := make(Map, len(s.flags))
	for id, sections := range s.flags {
		cp := make(map[catalog.Section]bool, len(sections))
		for k, v := range sections {
			cp[k] = v
		}
		out[id] = cp
	}
	return out
}

// IsSectionComplete reports the flag for one section. Non-applicable
// sections and unknown entities are incomplete.
func (s *Status) IsSectionComplete(id string, section catalog.Section) bool {
	return s.flags[id][section]
}

// IsEntityComplete reports whether every section of the entity is complete.
func (s *Status) IsEntityComplete(id string) bool {
	sections, ok := s.flags[id]
	if !ok || len(sections) == 0 {
		return false
	}
	for _, done := range sections {
		if !done {
			return false
		}
	}
	return true
}

// IsRegistrationComplete reports whether every member and account listed in
// the registration is complete. Unknown registrations are incomplete.
func (s *Status) IsRegistrationComplete(regID string) bool {
	r := s.catalog.Registration(regID)
	if r == nil {
		return false
	}
	for _, id := range r.Members {
		if !s.IsEntityComplete(id) {
			return false
		}
	}
	for _, id := range r.Accounts {
		if !s.IsEntityComplete(id) {
			return false
		}
	}
	return true
}

// OverallProgress is the rounded percentage of complete sections, 0..100.
func (s *Status) OverallProgress() int {
	if s.total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(s.done) / float64(s.total)))
}

// CompletedSections is the number of complete sections.
func (s *Status) CompletedSections() int { return s.done }

// TotalSections is the number of applicable sections across the catalog.
func (s *Status) TotalSections() int { return s.total }

// Missing returns the absent required fields of an incomplete section.
func (s *Status) Missing(id string, section catalog.Section) []string {
	return slices.Clone(s.missing[id][section])
}

// MissingAll returns a copy of the absent fields of every incomplete section.
func (s *Status) MissingAll() map[string]map[catalog.Section][]string {
	out := make(map[string]map[catalog.Section][]string, len(s.missing))
	for id, sections := range s.missing {
		cp := make(map[catalog.Section][]string, len(sections))
		for k, v := range sections {
			cp[k] = slices.Clone(v)
		}
		out[id] = cp
	}
	return out
}

// FundingTotal returns the sum of funding instance amounts for an account.
func (s *Status) FundingTotal(accountID string) decimal.Decimal {
	return s.funding[accountID]
}

// FundingTotals returns the funding sum of every account with a funding section.
func (s *Status) FundingTotals() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(s.funding))
	for k, v := range s.funding {
		out[k] = v
	}
	return out
}
