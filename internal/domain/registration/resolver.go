// Package registration resolves which registration group the user is
// working in for a given navigation target.
package registration

import "onboarding/internal/domain/catalog"

// FindActive returns the registration the target belongs to.
//
// A sticky registration that contains the target entity wins. Otherwise the
// first registration in declaration order listing the entity is used. No
// selection, or an entity no registration lists, yields nil.
func FindActive(cat *catalog.Catalog, target catalog.Target, stickyID string) *catalog.Registration {
	id := target.EntityID()
	if id == "" {
		return nil
	}

	if stickyID != "" {
		if r := cat.Registration(stickyID); r != nil && contains(r, target) {
			return r
		}
	}

	for _, r := range cat.Registrations() {
		if contains(&r, target) {
			return cat.Registration(r.ID)
		}
	}
	return nil
}

// StickyAfterSelect returns the sticky registration after the user selects
// target from a registration-grouped view.
//
// An explicit registration id from the clicked header wins when it contains
// the entity. Otherwise the resolved registration becomes sticky. When nothing
// resolves, the current sticky value is kept.
func StickyAfterSelect(cat *catalog.Catalog, target catalog.Target, explicitID, current string) string {
	if explicitID != "" {
		if r := cat.Registration(explicitID); r != nil && contains(r, target) {
			return r.ID
		}
	}
	if r := FindActive(cat, target, current); r != nil {
		return r.ID
	}
	return current
}

// contains checks the list matching the target's kind.
func contains(r *catalog.Registration, t catalog.Target) bool {
	switch t.Kind() {
	case catalog.KindMember:
		return r.HasMember(t.MemberID)
	case catalog.KindAccount:
		return r.HasAccount(t.AccountID)
	}
	return false
}
