// Package wizard runs account-opening sessions: it validates navigation
// requests, tracks the sticky registration, derives panel expansion and
// recomputes completion whenever field data changes.
package wizard

import (
	"github.com/shopspring/decimal"

	"onboarding/internal/domain/catalog"
	"onboarding/internal/domain/completion"
	"onboarding/internal/domain/expansion"
)

// Source says what triggered a navigation request.
type Source string

const (
	SourceClick    Source = "click"
	SourceNext     Source = "next"
	SourcePrevious Source = "previous"
	SourceScroll   Source = "scroll"
)

// Valid reports whether s is a known source.
func (s Source) Valid() bool {
	switch s {
	case SourceClick, SourceNext, SourcePrevious, SourceScroll:
		return true
	}
	return false
}

// Modes are the display flags chosen by the user.
type Modes struct {
	ScrollablePages    bool `json:"scrollablePages"`
	RegistrationGroups bool `json:"registrationGroups"`
}

// ExpansionMode maps the flags to a panel mode.
func (m Modes) ExpansionMode() expansion.Mode {
	return expansion.ModeFor(m.ScrollablePages)
}

// Request is a navigation request from the rendering layer.
type Request struct {
	Target catalog.Target
	Source Source
	// RegistrationID is the registration whose header was clicked, if any.
	RegistrationID string
}

// State is the snapshot the rendering layer re-renders from.
type State struct {
	SessionID            string                                  `json:"sessionId"`
	Target               catalog.Target                          `json:"target"`
	CanGoNext            bool                                    `json:"canGoNext"`
	CanGoPrevious        bool                                    `json:"canGoPrevious"`
	Completion           completion.Map                          `json:"completion"`
	EntityComplete       map[string]bool                         `json:"entityComplete"`
	RegistrationComplete map[string]bool                         `json:"registrationComplete"`
	OverallProgress      int                                     `json:"overallProgress"`
	CompletedSections    int                                     `json:"completedSections"`
	TotalSections        int                                     `json:"totalSections"`
	Missing              map[string]map[catalog.Section][]string `json:"missing,omitempty"`
	FundingTotals        map[string]decimal.Decimal              `json:"fundingTotals"`
	Expansion            expansion.State                         `json:"expansion"`
	ActiveRegistrationID string                                  `json:"activeRegistrationId,omitempty"`
	StickyRegistrationID string                                  `json:"stickyRegistrationId,omitempty"`
	Modes                Modes                                   `json:"modes"`
	// Changed is false when a request was ignored (invalid or terminal target).
	Changed bool `json:"changed"`
}
