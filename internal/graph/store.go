// Package graph owns the in-memory entity/link model and the queries derived
// from it: transitive references, shortest link paths and lookups.
package graph

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"schemer/internal/domain"
	"schemer/internal/geometry"
)

var (
	ErrNodeNotFound = errors.New("entity not found")
	ErrLinkNotFound = errors.New("link not found")
)

// Store holds the diagram's nodes and links plus the persisted counters.
// It is not safe for concurrent use; callers serialize access on one loop.
//
// Pointers handed out by Node and Link stay valid only until the next
// structural mutation.
type Store struct {
	nodes        []domain.Node
	links        []domain.Link
	nextEntityID int
	nextLinkNo   int
	entityWidth  float64
	version      uint64
	newLinkID    func() string
}

// Option configures a Store.
type Option func(*Store)

// WithEntityWidth overrides the width given to new entities.
func WithEntityWidth(w float64) Option {
	return func(s *Store) {
		if w > 0 {
			s.entityWidth = w
		}
	}
}

// WithLinkIDs replaces the link id generator.
func WithLinkIDs(gen func() string) Option {
	return func(s *Store) {
		if gen != nil {
			s.newLinkID = gen
		}
	}
}

// NewStore creates an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		nodes:        []domain.Node{},
		links:        []domain.Link{},
		nextEntityID: domain.FirstEntityID,
		nextLinkNo:   domain.FirstLinkNo,
		entityWidth:  domain.DefaultEntityWidth,
		newLinkID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Version changes whenever nodes, links or titles change.
func (s *Store) Version() uint64 { return s.version }

func (s *Store) touch() { s.version++ }

// Nodes returns the live node slice in draw order. Callers must not retain it
// across mutations.
func (s *Store) Nodes() []domain.Node { return s.nodes }

// Links returns the live link slice in draw order.
func (s *Store) Links() []domain.Link { return s.links }

// Counters returns the next entity id and next link number.
func (s *Store) Counters() (nextEntityID, nextLinkNo int) {
	return s.nextEntityID, s.nextLinkNo
}

// Node resolves an entity by id.
func (s *Store) Node(id int) (*domain.Node, bool) {
	if id == 0 {
		return nil, false
	}
	for i := range s.nodes {
		if s.nodes[i].ID == id {
			return &s.nodes[i], true
		}
	}
	return nil, false
}

// Link resolves a link by id.
func (s *Store) Link(id string) (*domain.Link, bool) {
	if id == "" {
		return nil, false
	}
	for i := range s.links {
		if s.links[i].ID == id {
			return &s.links[i], true
		}
	}
	return nil, false
}

// LinkByNum resolves a link by its display number.
func (s *Store) LinkByNum(num int) (*domain.Link, bool) {
	if num <= 0 {
		return nil, false
	}
	for i := range s.links {
		if s.links[i].Num == num {
			return &s.links[i], true
		}
	}
	return nil, false
}

// AddNode places a new entity with its top-left corner at pos.
func (s *Store) AddNode(pos geometry.Point) domain.Node {
	s.EnsureEntityIDs()
	id := s.nextEntityID
	s.nextEntityID++

	n := domain.Node{
		ID:     id,
		X:      pos.X,
		Y:      pos.Y,
		Width:  s.entityWidth,
		Title:  fmt.Sprintf("Entity %d", id),
		Fields: []domain.Field{domain.DefaultField()},
	}
	s.nodes = append(s.nodes, n)
	s.touch()
	return n
}

// AddLink connects two entities with the default one→many cardinalities.
// Self-loops and parallel links are allowed.
func (s *Store) AddLink(fromID, toID int) (domain.Link, error) {
	if _, ok := s.Node(fromID); !ok {
		return domain.Link{}, fmt.Errorf("from %d: %w", fromID, ErrNodeNotFound)
	}
	if _, ok := s.Node(toID); !ok {
		return domain.Link{}, fmt.Errorf("to %d: %w", toID, ErrNodeNotFound)
	}

	s.EnsureLinkNumbers()
	l := domain.Link{
		ID:              s.newLinkID(),
		From:            fromID,
		To:              toID,
		Num:             s.nextLinkNo,
		FromCardinality: domain.CardinalityOne,
		ToCardinality:   domain.CardinalityMany,
	}
	s.nextLinkNo++
	s.links = append(s.links, l)
	s.touch()
	return l, nil
}

// DeleteLink removes a link. Its number is never handed out again.
func (s *Store) DeleteLink(id string) bool {
	for i := range s.links {
		if s.links[i].ID == id {
			s.links = append(s.links[:i], s.links[i+1:]...)
			s.touch()
			return true
		}
	}
	return false
}

// RenameNode sets an entity's title.
func (s *Store) RenameNode(id int, title string) error {
	n, ok := s.Node(id)
	if !ok {
		return fmt.Errorf("entity %d: %w", id, ErrNodeNotFound)
	}
	if n.Title != title {
		n.Title = title
		s.touch()
	}
	return nil
}

// ReplaceFields swaps an entity's field list. An empty list becomes the
// default primary key field.
func (s *Store) ReplaceFields(id int, fields []domain.Field) error {
	n, ok := s.Node(id)
	if !ok {
		return fmt.Errorf("entity %d: %w", id, ErrNodeNotFound)
	}
	if len(fields) == 0 {
		fields = []domain.Field{domain.DefaultField()}
	}
	n.Fields = append([]domain.Field(nil), fields...)
	s.touch()
	return nil
}

// SetField replaces a single field in place.
func (s *Store) SetField(id, index int, f domain.Field) error {
	n, ok := s.Node(id)
	if !ok {
		return fmt.Errorf("entity %d: %w", id, ErrNodeNotFound)
	}
	if index < 0 || index >= len(n.Fields) {
		return fmt.Errorf("entity %d has no field %d", id, index)
	}
	n.Fields[index] = f
	s.touch()
	return nil
}

// MoveNode sets an entity's top-left corner.
func (s *Store) MoveNode(id int, pos geometry.Point) error {
	n, ok := s.Node(id)
	if !ok {
		return fmt.Errorf("entity %d: %w", id, ErrNodeNotFound)
	}
	n.X, n.Y = pos.X, pos.Y
	return nil
}

// SetCardinality updates both endpoint markers of a link.
func (s *Store) SetCardinality(linkID string, from, to domain.Cardinality) error {
	if !from.Valid() || !to.Valid() {
		return fmt.Errorf("invalid cardinality %q/%q", from, to)
	}
	l, ok := s.Link(linkID)
	if !ok {
		return fmt.Errorf("link %s: %w", linkID, ErrLinkNotFound)
	}
	l.FromCardinality, l.ToCardinality = from, to
	return nil
}

// SetHeight writes back the derived height of an entity.
func (s *Store) SetHeight(id int, h float64) {
	if n, ok := s.Node(id); ok {
		n.Height = h
	}
}

// Replace merges a loaded diagram into the store. The store keeps its
// identity; only its contents are swapped. A nil diagram empties it.
func (s *Store) Replace(d *domain.Diagram) {
	if d == nil {
		d = domain.NewDiagram()
	}
	d = d.Clone()

	s.nodes = s.nodes[:0]
	for _, n := range d.Nodes {
		if n.Width <= 0 {
			n.Width = s.entityWidth
		}
		if n.Fields == nil {
			n.Fields = []domain.Field{}
		}
		s.nodes = append(s.nodes, n)
	}

	s.links = s.links[:0]
	seen := make(map[string]bool, len(d.Links))
	for _, l := range d.Links {
		if l.ID == "" || seen[l.ID] {
			l.ID = s.newLinkID()
		}
		seen[l.ID] = true
		s.links = append(s.links, l)
	}

	s.nextEntityID = max(d.NextEntityID, domain.FirstEntityID)
	s.nextLinkNo = max(d.NextLinkNo, domain.FirstLinkNo)
	s.touch()
}

// Snapshot returns a deep copy in the persisted shape.
func (s *Store) Snapshot() *domain.Diagram {
	d := &domain.Diagram{
		Nodes:        s.nodes,
		Links:        s.links,
		NextEntityID: s.nextEntityID,
		NextLinkNo:   s.nextLinkNo,
	}
	return d.Clone()
}

// EnsureEntityIDs assigns ids to entities that lack one or repeat an
// earlier entity's id; links keep pointing at the first holder. The counter
// ends past both its previous value and the largest id seen.
func (s *Store) EnsureEntityIDs() {
	maxID := 0
	for _, n := range s.nodes {
		maxID = max(maxID, n.ID)
	}
	next := max(s.nextEntityID, maxID+1)
	changed := false
	seen := make(map[int]bool, len(s.nodes))
	for i := range s.nodes {
		if s.nodes[i].ID <= 0 || seen[s.nodes[i].ID] {
			s.nodes[i].ID = next
			next++
			changed = true
		}
		seen[s.nodes[i].ID] = true
	}
	s.nextEntityID = next
	if changed {
		s.touch()
	}
}

// EnsureLinkNumbers numbers links that lack a number. The counter ends past
// both its previous value and the largest number seen, so deleted numbers
// are never reused.
func (s *Store) EnsureLinkNumbers() {
	maxNum := 0
	for _, l := range s.links {
		maxNum = max(maxNum, l.Num)
	}
	next := max(s.nextLinkNo, maxNum+1)
	changed := false
	for i := range s.links {
		if s.links[i].Num <= 0 {
			s.links[i].Num = next
			next++
			changed = true
		}
	}
	s.nextLinkNo = next
	if changed {
		s.touch()
	}
}
