package application

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"schemer/internal/domain"
	"schemer/internal/graph"
	"schemer/internal/ports"
)

// Open loads the stored diagram into a fresh graph store. A store with
// nothing saved yields an empty diagram; a malformed one is an error so that
// batch callers never overwrite data they could not read.
func Open(ctx context.Context, repo ports.DiagramStore, opts ...graph.Option) (*graph.Store, error) {
	d, err := repo.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load diagram: %w", err)
	}
	s := graph.NewStore(opts...)
	s.Replace(d)
	s.EnsureEntityIDs()
	s.EnsureLinkNumbers()
	return s, nil
}

// Commit saves the store's snapshot.
func Commit(ctx context.Context, repo ports.DiagramStore, s *graph.Store) error {
	if err := repo.Save(ctx, s.Snapshot()); err != nil {
		return fmt.Errorf("save diagram: %w", err)
	}
	return nil
}

// ResolveEntity finds an entity by numeric id or, failing that, by title.
func ResolveEntity(s *graph.Store, ref string) (*domain.Node, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, &ValidationError{Field: "entity", Message: "entity is required"}
	}
	if id, err := strconv.Atoi(strings.TrimPrefix(ref, "@")); err == nil {
		if n, ok := s.Node(id); ok {
			return n, nil
		}
	}
	if n, ok := s.FindNodeByTitle(ref); ok {
		return n, nil
	}
	return nil, &NotFoundError{Kind: "entity", Ref: ref}
}

// ResolveLink finds a link by "#N" / "N" display number, by id, or by its
// "A -> B" label.
func ResolveLink(s *graph.Store, ref string) (*domain.Link, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, &ValidationError{Field: "link", Message: "link is required"}
	}
	if num, err := strconv.Atoi(strings.TrimPrefix(ref, "#")); err == nil {
		if l, ok := s.LinkByNum(num); ok {
			return l, nil
		}
	}
	if l, ok := s.Link(ref); ok {
		return l, nil
	}
	if l, ok := s.FindLinkByLabel(ref); ok {
		return l, nil
	}
	return nil, &NotFoundError{Kind: "link", Ref: ref}
}

// IsMalformed reports whether err came from an unreadable stored diagram.
func IsMalformed(err error) bool {
	return errors.Is(err, domain.ErrMalformedDiagram)
}
