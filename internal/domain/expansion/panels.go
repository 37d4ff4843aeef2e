package expansion

import (
	"encoding/json"
	"slices"
)

// Mode selects the shape of every panel group.
type Mode string

const (
	// ModeSingle keeps at most one panel of a group open.
	ModeSingle Mode = "single"
	// ModeMulti lets several panels of a group stay open.
	ModeMulti Mode = "multi"
)

// ModeFor maps the scrollable-pages flag to a panel mode.
func ModeFor(scrollable bool) Mode {
	if scrollable {
		return ModeMulti
	}
	return ModeSingle
}

// Panels is the open state of one accordion group. It is either Single or
// Multi, fixed by the display mode.
type Panels interface {
	Mode() Mode
	IsOpen(index int) bool
	OpenIndices() []int
	toggle(index int) Panels
}

// Single is a group where at most one panel is open. A nil Index means all closed.
type Single struct {
	Index *int
}

// Multi is a group where any set of panels may be open.
type Multi struct {
	Indices []int
}

// Closed returns an all-closed group for mode.
func Closed(mode Mode) Panels {
	if mode == ModeMulti {
		return Multi{Indices: []int{}}
	}
	return Single{}
}

// Only returns a group for mode with exactly index open.
// A negative index yields a closed group.
func Only(mode Mode, index int) Panels {
	if index < 0 {
		return Closed(mode)
	}
	if mode == ModeMulti {
		return Multi{Indices: []int{index}}
	}
	return Single{Index: &index}
}

func (Single) Mode() Mode { return ModeSingle }

func (s Single) IsOpen(index int) bool {
	return s.Index != nil && *s.Index == index
}

func (s Single) OpenIndices() []int {
	if s.Index == nil {
		return []int{}
	}
	return []int{*s.Index}
}

func (s Single) toggle(index int) Panels {
	if s.IsOpen(index) {
		return Single{}
	}
	return Single{Index: &index}
}

func (s Single) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Mode  Mode `json:"mode"`
		Index *int `json:"index"`
	}{ModeSingle, s.Index})
}

func (Multi) Mode() Mode { return ModeMulti }

func (m Multi) IsOpen(index int) bool {
	return slices.Contains(m.Indices, index)
}

func (m Multi) OpenIndices() []int {
	return append([]int{}, m.Indices...)
}

// toggle removes an open index or appends a closed one.
func (m Multi) toggle(index int) Panels {
	if i := slices.Index(m.Indices, index); i >= 0 {
		return Multi{Indices: slices.Delete(slices.Clone(m.Indices), i, i+1)}
	}
	return Multi{Indices: append(m.OpenIndices(), index)}
}

func (m Multi) MarshalJSON() ([]byte, error) {
	indices := m.Indices
	if indices == nil {
		indices = []int{}
	}
	return json.Marshal(struct {
		Mode    Mode  `json:"mode"`
		Indices []int `json:"indices"`
	}{ModeMulti, indices})
}
