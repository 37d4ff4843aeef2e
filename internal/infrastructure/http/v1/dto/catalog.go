package dto

import "onboarding/internal/domain/catalog"

// EntityResponse describes one member or account.
type EntityResponse struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Kind     catalog.Kind      `json:"kind"`
	Subtype  catalog.Subtype   `json:"subtype"`
	Sections []catalog.Section `json:"sections"`
}

// RegistrationResponse describes one registration group.
type RegistrationResponse struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Members  []string `json:"members"`
	Accounts []string `json:"accounts"`
}

// CatalogResponse is the full entity catalog.
type CatalogResponse struct {
	Members       []EntityResponse       `json:"members"`
	Accounts      []EntityResponse       `json:"accounts"`
	Registrations []RegistrationResponse `json:"registrations"`
}

// FromCatalog creates CatalogResponse from catalog.Catalog.
func FromCatalog(c *catalog.Catalog) CatalogResponse {
	resp := CatalogResponse{
		Members:       make([]EntityResponse, 0),
		Accounts:      make([]EntityResponse, 0),
		Registrations: make([]RegistrationResponse, 0),
	}
	for _, e := range c.Members() {
		resp.Members = append(resp.Members, fromEntity(e))
	}
	for _, e := range c.Accounts() {
		resp.Accounts = append(resp.Accounts, fromEntity(e))
	}
	for _, r := range c.Registrations() {
		resp.Registrations = append(resp.Registrations, RegistrationResponse{
			ID:       r.ID,
			Name:     r.Name,
			Members:  r.Members,
			Accounts: r.Accounts,
		})
	}
	return resp
}

func fromEntity(e catalog.Entity) EntityResponse {
	return EntityResponse{
		ID:       e.ID,
		Name:     e.Name,
		Kind:     e.Kind,
		Subtype:  e.Subtype,
		Sections: e.Sections,
	}
}
