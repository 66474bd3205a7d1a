package session

// Selection is the set of discovered collection names together with the
// operator's per-name flags. Names keep discovery order and are not
// de-duplicated; duplicates share one flag.
//
// Counts and aggregates are computed on every call.
type Selection struct {
	names   []string
	checked map[string]bool
}

// NewSelection returns a selection over names with every flag cleared.
func NewSelection(names []string) Selection {
	s := Selection{
		names:   append([]string(nil), names...),
		checked: make(map[string]bool, len(names)),
	}
	for _, n := range s.names {
		s.checked[n] = false
	}
	return s
}

// Toggle flips the flag of name and reports whether name is known.
func (s *Selection) Toggle(name string) bool {
	v, ok := s.checked[name]
	if !ok {
		return false
	}
	s.checked[name] = !v
	return true
}

// SelectAll sets every flag to flag.
func (s *Selection) SelectAll(flag bool) {
	for n := range s.checked {
		s.checked[n] = flag
	}
}

func (s Selection) Len() int { return len(s.names) }

func (s Selection) Checked(name string) bool { return s.checked[name] }

// Names returns the discovered names in discovery order.
func (s Selection) Names() []string {
	return append([]string(nil), s.names...)
}

func (s Selection) SelectedCount() int {
	n := 0
	for _, v := range s.checked {
		if v {
			n++
		}
	}
	return n
}

func (s Selection) AllSelected() bool {
	return len(s.names) > 0 && s.SelectedCount() == len(s.names)
}

func (s Selection) Indeterminate() bool {
	n := s.SelectedCount()
	return n > 0 && n < len(s.names)
}

// Selected returns each checked name once, in order of first discovery.
func (s Selection) Selected() []string {
	out := make([]string, 0, len(s.checked))
	seen := make(map[string]struct{}, len(s.checked))
	for _, n := range s.names {
		if _, dup := seen[n]; dup || !s.checked[n] {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

func (s Selection) clone() Selection {
	c := Selection{
		names:   append([]string(nil), s.names...),
		checked: make(map[string]bool, len(s.checked)),
	}
	for k, v := range s.checked {
		c.checked[k] = v
	}
	return c
}
