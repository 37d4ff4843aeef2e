// Package expansion derives which accordion panels are open from the
// navigation target and the display modes.
package expansion

import (
	"slices"

	"onboarding/internal/domain/catalog"
	"onboarding/internal/domain/registration"
)

// Sub-section panels inside a registration.
const (
	SubsectionOwners   = 0
	SubsectionAccounts = 1
)

// Group names a panel group that can be toggled.
type Group string

const (
	GroupMembers              Group = "members"
	GroupAccounts             Group = "accounts"
	GroupRegistrations        Group = "registrations"
	GroupRegistrationSections Group = "registration-sections"
	GroupRegistrationOwners   Group = "registration-owners"
	GroupRegistrationAccounts Group = "registration-accounts"
)

// Valid reports whether g is a known group.
func (g Group) Valid() bool {
	switch g {
	case GroupMembers, GroupAccounts, GroupRegistrations,
		GroupRegistrationSections, GroupRegistrationOwners, GroupRegistrationAccounts:
		return true
	}
	return false
}

// Input is everything expansion depends on.
type Input struct {
	Target             catalog.Target
	Mode               Mode
	RegistrationGroups bool
	StickyRegistration string
}

// State is the open/closed state of every panel group.
type State struct {
	Mode         Mode               `json:"mode"`
	Members      Panels             `json:"members"`
	Accounts     Panels             `json:"accounts"`
	Registration *RegistrationState `json:"registration,omitempty"`
}

// RegistrationState is the cascade shown in registration-group mode.
// Owners and Accounts index into the active registration's lists.
type RegistrationState struct {
	ID            string `json:"id,omitempty"`
	Registrations Panels `json:"registrations"`
	Sections      Panels `json:"sections"`
	Owners        Panels `json:"owners"`
	Accounts      Panels `json:"accounts"`
}

func closedRegistration(mode Mode) *RegistrationState {
	return &RegistrationState{
		Registrations: Closed(mode),
		Sections:      Closed(mode),
		Owners:        Closed(mode),
		Accounts:      Closed(mode),
	}
}

// Derive computes the expansion state. It is a pure function of its inputs.
//
// The selected entity's panel opens and every panel of the other kind closes;
// in multi mode only the latest selection is kept. In registration-group mode
// the active registration opens along with the sub-section and panel holding
// the entity; everything else in the cascade starts closed. An empty or
// invalid target collapses everything.
func Derive(cat *catalog.Catalog, in Input) State {
	mode := in.Mode
	if mode != ModeMulti {
		mode = ModeSingle
	}

	st := State{
		Mode:     mode,
		Members:  Closed(mode),
		Accounts: Closed(mode),
	}
	if in.RegistrationGroups {
		st.Registration = closedRegistration(mode)
	}

	if !cat.ValidTarget(in.Target) {
		return st
	}

	id := in.Target.EntityID()
	kind := in.Target.Kind()
	switch kind {
	case catalog.KindMember:
		st.Members = Only(mode, cat.MemberIndex(id))
	case catalog.KindAccount:
		st.Accounts = Only(mode, cat.AccountIndex(id))
	}

	if !in.RegistrationGroups {
		return st
	}

	r := registration.FindActive(cat, in.Target, in.StickyRegistration)
	if r == nil {
		return st
	}

	rs := st.Registration
	rs.ID = r.ID
	rs.Registrations = Only(mode, cat.RegistrationIndex(r.ID))
	switch kind {
	case catalog.KindMember:
		rs.Sections = Only(mode, SubsectionOwners)
		rs.Owners = Only(mode, slices.Index(r.Members, id))
	case catalog.KindAccount:
		rs.Sections = Only(mode, SubsectionAccounts)
		rs.Accounts = Only(mode, slices.Index(r.Accounts, id))
	}
	return st
}

// PanelCount returns how many panels group holds for st. Registration groups
// hold none outside registration-group mode, and the owner and account groups
// are sized by the active registration's lists.
func PanelCount(cat *catalog.Catalog, st State, group Group) int {
	switch group {
	case GroupMembers:
		return len(cat.Members())
	case GroupAccounts:
		return len(cat.Accounts())
	}

	if st.Registration == nil {
		return 0
	}
	switch group {
	case GroupRegistrations:
		return len(cat.Registrations())
	case GroupRegistrationSections:
		return SubsectionAccounts + 1
	}

	r := cat.Registration(st.Registration.ID)
	if r == nil {
		return 0
	}
	switch group {
	case GroupRegistrationOwners:
		return len(r.Members)
	case GroupRegistrationAccounts:
		return len(r.Accounts)
	}
	return 0
}

// Toggle flips one panel the way an accordion header click does, without
// touching navigation. Multi groups append or remove the index; single
// groups swap to it or close it. Unknown groups and indices outside
// PanelCount leave state unchanged and report false.
func Toggle(cat *catalog.Catalog, st State, group Group, index int) (State, bool) {
	if index < 0 || index >= PanelCount(cat, st, group) {
		return st, false
	}

	out := st
	if st.Registration != nil {
		rs := *st.Registration
		out.Registration = &rs
	}

	switch group {
	case GroupMembers:
		out.Members = flip(out.Members, st.Mode, index)
	case GroupAccounts:
		out.Accounts = flip(out.Accounts, st.Mode, index)
	case GroupRegistrations:
		out.Registration.Registrations = flip(out.Registration.Registrations, st.Mode, index)
	case GroupRegistrationSections:
		out.Registration.Sections = flip(out.Registration.Sections, st.Mode, index)
	case GroupRegistrationOwners:
		out.Registration.Owners = flip(out.Registration.Owners, st.Mode, index)
	case GroupRegistrationAccounts:
		out.Registration.Accounts = flip(out.Registration.Accounts, st.Mode, index)
	default:
		return st, false
	}
	return out, true
}

func flip(p Panels, mode Mode, index int) Panels {
	if p == nil {
		p = Closed(mode)
	}
	return p.toggle(index)
}
