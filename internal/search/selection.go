package search

import "github.com/briankim1512/SlideSearch/internal/slide"

// Selection is the set of slides the user has checked. It is independent of
// the displayed results and remembers the order slides were checked in.
type Selection struct {
	order []slide.ID
	index map[slide.ID]struct{}
}

func NewSelection() *Selection {
	return &Selection{index: make(map[slide.ID]struct{})}
}

// Toggle inserts id if absent and removes it if present. It returns whether
// id is selected afterwards.
func (s *Selection) Toggle(id slide.ID) bool {
	if _, ok := s.index[id]; ok {
		delete(s.index, id)
		for i, v := range s.order {
			if v == id {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
		return false
	}
	s.index[id] = struct{}{}
	s.order = append(s.order, id)
	return true
}

// Remove unchecks every id in ids that is checked.
func (s *Selection) Remove(ids []slide.ID) {
	for _, id := range ids {
		if s.Contains(id) {
			s.Toggle(id)
		}
	}
}

func (s *Selection) Contains(id slide.ID) bool {
	_, ok := s.index[id]
	return ok
}

func (s *Selection) Clear() {
	s.order = nil
	s.index = make(map[slide.ID]struct{})
}

func (s *Selection) Len() int {
	return len(s.order)
}

// IDs returns the selected ids in the order they were checked.
func (s *Selection) IDs() []slide.ID {
	out := make([]slide.ID, len(s.order))
	copy(out, s.order)
	return out
}
