package editor

// Selection is a set of element ids that remembers click order for display.
type Selection struct {
	ids []string
}

func (s *Selection) IDs() []string {
	return append([]string(nil), s.ids...)
}

func (s *Selection) Len() int { return len(s.ids) }

func (s *Selection) Has(id string) bool {
	for _, x := range s.ids {
		if x == id {
			return true
		}
	}
	return false
}

// Set replaces the selection.
func (s *Selection) Set(ids ...string) {
	s.ids = s.ids[:0]
	for _, id := range ids {
		if !s.Has(id) {
			s.ids = append(s.ids, id)
		}
	}
}

// Toggle adds id if absent and removes it if present.
func (s *Selection) Toggle(id string) {
	for i, x := range s.ids {
		if x == id {
			s.ids = append(s.ids[:i], s.ids[i+1:]...)
			return
		}
	}
	s.ids = append(s.ids, id)
}

func (s *Selection) Clear() { s.ids = s.ids[:0] }

func (s *Selection) set() map[string]bool {
	m := make(map[string]bool, len(s.ids))
	for _, id := range s.ids {
		m[id] = true
	}
	return m
}
