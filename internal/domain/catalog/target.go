package catalog

// Target is where the user currently is: one section of one entity.
// At most one of MemberID and AccountID is set; both empty means no selection.
type Target struct {
	Section   Section `json:"section,omitempty"`
	MemberID  string  `json:"memberId,omitempty"`
	AccountID string  `json:"accountId,omitempty"`
}

// MemberTarget points at a member section.
func MemberTarget(id string, s Section) Target {
	return Target{Section: s, MemberID: id}
}

// AccountTarget points at an account section.
func AccountTarget(id string, s Section) Target {
	return Target{Section: s, AccountID: id}
}

// IsEmpty reports whether the target selects nothing.
func (t Target) IsEmpty() bool {
	return t.MemberID == "" && t.AccountID == ""
}

// EntityID returns the selected entity id. Ambiguous targets return "".
func (t Target) EntityID() string {
	switch {
	case t.MemberID != "" && t.AccountID == "":
		return t.MemberID
	case t.AccountID != "" && t.MemberID == "":
		return t.AccountID
	}
	return ""
}

// Kind returns the kind of the selected entity, or "" for no/ambiguous selection.
func (t Target) Kind() Kind {
	switch {
	case t.MemberID != "" && t.AccountID == "":
		return KindMember
	case t.AccountID != "" && t.MemberID == "":
		return KindAccount
	}
	return ""
}

// ValidTarget reports whether t names a known entity of the right kind and a
// section that applies to it. The empty target is not valid.
func (c *Catalog) ValidTarget(t Target) bool {
	kind := t.Kind()
	if kind == "" {
		return false
	}
	e, ok := c.byID[t.EntityID()]
	return ok && e.Kind == kind && e.HasSection(t.Section)
}

// TargetFor builds the target for section s of entity e.
func TargetFor(e *Entity, s Section) Target {
	if e.Kind == KindMember {
		return MemberTarget(e.ID, s)
	}
	return AccountTarget(e.ID, s)
}
