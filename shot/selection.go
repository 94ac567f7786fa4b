package shot

// Selection is the ordered set of files picked from the current listing.
// Files keep the order in which they were selected.
type Selection struct {
	listing  []string
	listed   map[string]bool
	selected []string
	isSel    map[string]bool
}

// NewSelection creates an empty selection over a listing
func NewSelection(listing []string) *Selection {
	s := &Selection{}
	s.Reset(listing)
	return s
}

// Reset swaps in a new listing and drops selected files no longer in it
func (s *Selection) Reset(listing []string) {
	s.listing = append([]string(nil), listing...)
	s.listed = make(map[string]bool, len(listing))
	for _, f := range listing {
		s.listed[f] = true
	}

	kept := s.selected[:0:0]
	for _, f := range s.selected {
		if s.listed[f] {
			kept = append(kept, f)
		}
	}
	s.selected = kept
	s.isSel = make(map[string]bool, len(kept))
	for _, f := range kept {
		s.isSel[f] = true
	}
}

// Listing returns the files the selection draws from
func (s *Selection) Listing() []string {
	return append([]string(nil), s.listing...)
}

// Toggle flips one file. Names outside the listing are ignored.
func (s *Selection) Toggle(name string) {
	if !s.listed[name] {
		return
	}
	if s.isSel[name] {
		delete(s.isSel, name)
		for i, f := range s.selected {
			if f == name {
				s.selected = append(s.selected[:i], s.selected[i+1:]...)
				break
			}
		}
		return
	}
	s.isSel[name] = true
	s.selected = append(s.selected, name)
}

// SelectAll selects every listed file in listing order
func (s *Selection) SelectAll() {
	s.selected = append([]string(nil), s.listing...)
	s.isSel = make(map[string]bool, len(s.listing))
	for _, f := range s.listing {
		s.isSel[f] = true
	}
}

// DeselectAll empties the selection
func (s *Selection) DeselectAll() {
	s.selected = nil
	s.isSel = make(map[string]bool)
}

// Clear is DeselectAll, used after a batch completes
func (s *Selection) Clear() { s.DeselectAll() }

// ToggleAll empties a full selection and fills anything less
func (s *Selection) ToggleAll() {
	if len(s.listing) > 0 && len(s.selected) == len(s.listing) {
		s.DeselectAll()
		return
	}
	s.SelectAll()
}

// IsSelected reports whether name is selected
func (s *Selection) IsSelected(name string) bool { return s.isSel[name] }

// Len returns the number of selected files
func (s *Selection) Len() int { return len(s.selected) }

// Files returns the selected files in selection order
func (s *Selection) Files() []string {
	return append([]string(nil), s.selected...)
}
