package graph

import "schemer/internal/domain"

// FindNodeByTitle returns the first entity whose title matches after
// trimming and case folding.
func (s *Store) FindNodeByTitle(title string) (*domain.Node, bool) {
	want := domain.NormalizeTitle(title)
	if want == "" {
		return nil, false
	}
	for i := range s.nodes {
		if domain.NormalizeTitle(s.nodes[i].Title) == want {
			return &s.nodes[i], true
		}
	}
	return nil, false
}

// Label renders "From -> To" for a link, or "" when an endpoint is missing.
func (s *Store) Label(l domain.Link) string {
	a, okA := s.Node(l.From)
	b, okB := s.Node(l.To)
	if !okA || !okB {
		return ""
	}
	return domain.LinkLabel(a.Title, b.Title)
}

// FindLinkByTitles returns the first link whose endpoint titles match.
func (s *Store) FindLinkByTitles(fromTitle, toTitle string) (*domain.Link, bool) {
	from := domain.NormalizeTitle(fromTitle)
	to := domain.NormalizeTitle(toTitle)
	if from == "" || to == "" {
		return nil, false
	}
	for i := range s.links {
		a, okA := s.Node(s.links[i].From)
		b, okB := s.Node(s.links[i].To)
		if !okA || !okB {
			continue
		}
		if domain.NormalizeTitle(a.Title) == from && domain.NormalizeTitle(b.Title) == to {
			return &s.links[i], true
		}
	}
	return nil, false
}

// FindLinkByLabel returns the first link whose rendered label matches label
// after normalization.
func (s *Store) FindLinkByLabel(label string) (*domain.Link, bool) {
	want := domain.NormalizeLabel(label)
	if want == "" {
		return nil, false
	}
	for i := range s.links {
		if domain.NormalizeLabel(s.Label(s.links[i])) == want {
			return &s.links[i], true
		}
	}
	return nil, false
}
