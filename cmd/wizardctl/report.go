package main

import (
	"onboarding/internal/core/fields"
	"onboarding/internal/domain/catalog"
	"onboarding/internal/domain/completion"
)

// report is what inspect prints.
type report struct {
	SessionID string         `yaml:"session"`
	Progress  int            `yaml:"progress"`
	Completed int            `yaml:"completed"`
	Total     int            `yaml:"total"`
	Entities  []entityReport `yaml:"entities"`
	Data      fields.Dataset `yaml:"data,omitempty"`
}

type entityReport struct {
	ID       string          `yaml:"id"`
	Complete bool            `yaml:"complete"`
	Funding  string          `yaml:"funding,omitempty"`
	Sections []sectionReport `yaml:"sections"`
}

type sectionReport struct {
	Name     catalog.Section `yaml:"name"`
	Complete bool            `yaml:"complete"`
	Missing  []string        `yaml:"missing,omitempty"`
}

func buildReport(sid string, cat *catalog.Catalog, st *completion.Status) report {
	r := report{
		SessionID: sid,
		Progress:  st.OverallProgress(),
		Completed: st.CompletedSections(),
		Total:     st.TotalSections(),
	}
	for _, e := range cat.Entities() {
		er := entityReport{
			ID:       e.ID,
			Complete: st.IsEntityComplete(e.ID),
		}
		if e.HasSection(catalog.SectionFunding) {
			er.Funding = st.FundingTotal(e.ID).StringFixed(2)
		}
		for _, s := range e.Sections {
			er.Sections = append(er.Sections, sectionReport{
				Name:     s,
				Complete: st.IsSectionComplete(e.ID, s),
				Missing:  st.Missing(e.ID, s),
			})
		}
		r.Entities = append(r.Entities, er)
	}
	return r
}
