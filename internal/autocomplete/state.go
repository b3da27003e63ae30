package autocomplete

import "slices"

// Index points into State.Matches. NoIndex means no entry.
type Index int

// NoIndex is the null index.
const NoIndex Index = -1

// Valid reports whether i refers to an entry of a list of length n.
func (i Index) Valid(n int) bool {
	return i >= 0 && int(i) < n
}

// IsNone reports whether i is NoIndex.
func (i Index) IsNone() bool {
	return i == NoIndex
}

// Match is one suggestion returned by the lookup endpoint.
type Match struct {
	Name string `json:"name"`
}

// State is the widget's complete interaction state. Transitions are pure:
// each returns a new State and never touches the document.
type State struct {
	Visible        bool
	Matches        []Match
	BestMatchIndex Index
	SelectedIndex  Index

	// PreviousValue is the input value seen by the last debounced change.
	PreviousValue    string
	HasPreviousValue bool
}

// Idle returns the reset state.
func Idle() State {
	return State{
		Visible:        false,
		Matches:        []Match{},
		BestMatchIndex: NoIndex,
		SelectedIndex:  NoIndex,
	}
}

// Reset returns the reset state. The input value is not part of State and is
// left as it is.
func (s State) Reset() State {
	return Idle()
}

// Suggest shows a fresh lookup result with the first entry as best match.
func (s State) Suggest(matches []Match) State {
	if matches == nil {
		matches = []Match{}
	}
	s.Visible = true
	s.Matches = slices.Clone(matches)
	s.SelectedIndex = NoIndex
	s.BestMatchIndex = 0
	return s
}

// Remember records the value seen by a debounced change.
func (s State) Remember(value string) State {
	s.PreviousValue = value
	s.HasPreviousValue = true
	return s
}

// MoveDown selects the next entry, wrapping to the first. With no matches
// it always lands on 0.
func (s State) MoveDown() State {
	if s.SelectedIndex.IsNone() || s.SelectedIndex >= s.last() {
		s.SelectedIndex = 0
	} else {
		s.SelectedIndex++
	}
	s.BestMatchIndex = NoIndex
	return s
}

// MoveUp selects the previous entry, wrapping to the last. With no matches
// the last entry is NoIndex, so MoveUp on an empty list always leaves
// nothing selected, where MoveDown lands on 0. Neither yields a selection
// or a completion.
func (s State) MoveUp() State {
	if s.SelectedIndex.IsNone() || s.SelectedIndex <= 0 {
		s.SelectedIndex = s.last()
	} else {
		s.SelectedIndex--
	}
	s.BestMatchIndex = NoIndex
	return s
}

// last is the index of the final match, NoIndex for an empty list.
func (s State) last() Index {
	return Index(len(s.Matches) - 1)
}

// Completion returns the best match when one can be shown as ghost text or
// committed with Tab.
func (s State) Completion() (Match, bool) {
	if s.BestMatchIndex.IsNone() || len(s.Matches) == 0 {
		return Match{}, false
	}
	if !s.BestMatchIndex.Valid(len(s.Matches)) {
		return Match{}, false
	}
	return s.Matches[s.BestMatchIndex], true
}

// Selected returns the keyboard or pointer selected match.
func (s State) Selected() (Match, bool) {
	if !s.SelectedIndex.Valid(len(s.Matches)) {
		return Match{}, false
	}
	return s.Matches[s.SelectedIndex], true
}

// Choice is one rendered list entry.
type Choice struct {
	Name     string
	Selected bool
}

// Frame is what one render pass writes to the document.
type Frame struct {
	Overlay string
	Choices []Choice
	// Value is the input value after rendering. Rendering a selected entry
	// overwrites the input with its name.
	Value string
}

// Frame computes a render pass for the input value. The returned State
// carries the render pass's own mutation: a hidden widget always ends with
// BestMatchIndex 0.
func (s State) Frame(value string) (State, Frame) {
	f := Frame{Value: value}
	if !s.Visible {
		s.BestMatchIndex = 0
		return s, f
	}

	if m, ok := s.Completion(); ok {
		f.Overlay = OverlayContent(value, m)
	}

	for i, m := range s.Matches {
		c := Choice{Name: m.Name}
		if Index(i) == s.SelectedIndex {
			c.Selected = true
			f.Value = m.Name
		}
		f.Choices = append(f.Choices, c)
	}
	return s, f
}

// OverlayContent is the typed value followed by the part of the match name
// past the typed length. Case differences are not reconciled, so "can" and
// "Canada" give "canada".
func OverlayContent(value string, m Match) string {
	typed := []rune(value)
	name := []rune(m.Name)
	if len(typed) >= len(name) {
		return value
	}
	return value + string(name[len(typed):])
}
