package graph

import "schemer/internal/domain"

// ShortestLinkPath returns the link ids of a shortest directed path from one
// entity to another, breadth first over links in list order. Any shortest
// path may be returned when several tie. It returns nil when from == to or
// no path exists.
func (s *Store) ShortestLinkPath(fromID, toID int) []string {
	if fromID == toID {
		return nil
	}

	type step struct {
		prev   int
		linkID string
	}
	prev := map[int]*step{fromID: nil}
	queue := []int{fromID}
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		if v == toID {
			break
		}
		for _, l := range s.links {
			if l.From != v {
				continue
			}
			if _, seen := prev[l.To]; seen {
				continue
			}
			prev[l.To] = &step{prev: v, linkID: l.ID}
			queue = append(queue, l.To)
		}
	}

	if _, ok := prev[toID]; !ok {
		return nil
	}
	var ids []string
	for cur := prev[toID]; cur != nil; cur = prev[cur.prev] {
		ids = append(ids, cur.linkID)
	}
	for i, j := 0, len(ids)-1; i < j; i, j = i+1, j-1 {
		ids[i], ids[j] = ids[j], ids[i]
	}
	return ids
}

// FirstLinkTo returns the link that starts the route from an entity to the
// entity titled title: the direct link if there is one, else the first link
// of a shortest path.
func (s *Store) FirstLinkTo(fromID int, title string) (*domain.Link, bool) {
	target, ok := s.FindNodeByTitle(title)
	if !ok {
		return nil, false
	}
	for i := range s.links {
		if s.links[i].From == fromID && s.links[i].To == target.ID {
			return &s.links[i], true
		}
	}
	path := s.ShortestLinkPath(fromID, target.ID)
	if len(path) == 0 {
		return nil, false
	}
	return s.Link(path[0])
}

// PathToTitle resolves title and returns a shortest link path to it.
func (s *Store) PathToTitle(fromID int, title string) []string {
	target, ok := s.FindNodeByTitle(title)
	if !ok {
		return nil
	}
	return s.ShortestLinkPath(fromID, target.ID)
}
