// Package navigation computes next/previous targets across all entity
// sections: every member in catalog order, then every account.
package navigation

import "onboarding/internal/domain/catalog"

// Sequencer walks the canonical traversal order. It is stateless after
// construction and safe for concurrent use.
type Sequencer struct {
	steps []catalog.Target
	index map[catalog.Target]int
}

// NewSequencer builds the traversal for a catalog. Each entity contributes its
// sections in canonical order; members precede accounts.
func NewSequencer(cat *catalog.Catalog) *Sequencer {
	s := &Sequencer{index: make(map[catalog.Target]int)}
	for _, e := range cat.Entities() {
		for _, sec := range catalog.CanonicalSections(e.Kind) {
			if !e.HasSection(sec) {
				continue
			}
			t := catalog.TargetFor(&e, sec)
			s.index[t] = len(s.steps)
			s.steps = append(s.steps, t)
		}
	}
	return s
}

// Position returns the traversal index of t, or -1 when t is not a valid target.
func (s *Sequencer) Position(t catalog.Target) int {
	if i, ok := s.index[t]; ok {
		return i
	}
	return -1
}

// Next returns the target after t.
//
// Within an entity it advances to the next section; past the last section it
// moves to the first section of the next member, and past the last member to
// the first section of the first account. The last section of the last
// account, and any invalid target, yield false.
func (s *Sequencer) Next(t catalog.Target) (catalog.Target, bool) {
	i := s.Position(t)
	if i < 0 || i+1 >= len(s.steps) {
		return catalog.Target{}, false
	}
	return s.steps[i+1], true
}

// Previous mirrors Next. The first section of the first account steps back to
// the last section of the last member.
func (s *Sequencer) Previous(t catalog.Target) (catalog.Target, bool) {
	i := s.Position(t)
	if i <= 0 {
		return catalog.Target{}, false
	}
	return s.steps[i-1], true
}

// CanGoNext reports whether Next yields a target.
func (s *Sequencer) CanGoNext(t catalog.Target) bool {
	_, ok := s.Next(t)
	return ok
}

// CanGoPrevious reports whether Previous yields a target.
func (s *Sequencer) CanGoPrevious(t catalog.Target) bool {
	_, ok := s.Previous(t)
	return ok
}

// First returns the first section of the first member.
func (s *Sequencer) First() (catalog.Target, bool) {
	if len(s.steps) == 0 {
		return catalog.Target{}, false
	}
	return s.steps[0], true
}

// Last returns the last section of the last account.
func (s *Sequencer) Last() (catalog.Target, bool) {
	if len(s.steps) == 0 {
		return catalog.Target{}, false
	}
	return s.steps[len(s.steps)-1], true
}

// Steps returns the full traversal.
func (s *Sequencer) Steps() []catalog.Target {
	out := make([]catalog.Target, len(s.steps))
	copy(out, s.steps)
	return out
}
