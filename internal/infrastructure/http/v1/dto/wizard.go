package dto

import (
	"onboarding/internal/core/fields"
	"onboarding/internal/domain/catalog"
	"onboarding/internal/domain/expansion"
	"onboarding/internal/domain/wizard"
)

// NavigateRequest asks to move to a section of one entity.
// An empty request means no selection and leaves the session where it is.
type NavigateRequest struct {
	Section        string `json:"section"`
	MemberID       string `json:"memberId,omitempty"`
	AccountID      string `json:"accountId,omitempty"`
	Source         string `json:"source,omitempty"`
	RegistrationID string `json:"registrationId,omitempty"`
}

// ToRequest converts to domain request.
func (r *NavigateRequest) ToRequest() wizard.Request {
	return wizard.Request{
		Target: catalog.Target{
			Section:   catalog.Section(r.Section),
			MemberID:  r.MemberID,
			AccountID: r.AccountID,
		},
		Source:         wizard.Source(r.Source),
		RegistrationID: r.RegistrationID,
	}
}

// ModesRequest sets the display modes.
type ModesRequest struct {
	ScrollablePages    bool `json:"scrollablePages"`
	RegistrationGroups bool `json:"registrationGroups"`
}

// ToModes converts to domain modes.
func (r *ModesRequest) ToModes() wizard.Modes {
	return wizard.Modes{
		ScrollablePages:    r.ScrollablePages,
		RegistrationGroups: r.RegistrationGroups,
	}
}

// TogglePanelRequest flips one accordion panel.
type TogglePanelRequest struct {
	Group string `json:"group" binding:"required"`
	Index *int   `json:"index" binding:"required,min=0"`
}

// GroupValue returns the typed group.
func (r *TogglePanelRequest) GroupValue() expansion.Group {
	return expansion.Group(r.Group)
}

// FieldsRequest carries a field patch or a full dictionary.
// In a patch a null value removes the field.
type FieldsRequest struct {
	Fields fields.Dictionary `json:"fields" binding:"required"`
}

// FieldsResponse returns one entity's dictionary.
type FieldsResponse struct {
	EntityID string            `json:"entityId"`
	Fields   fields.Dictionary `json:"fields"`
}
