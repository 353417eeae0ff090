package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schemer/internal/domain"
	"schemer/internal/geometry"
	"schemer/internal/graph"
)

type memRepo struct {
	d       *domain.Diagram
	loadErr error
}

func (m *memRepo) Load(context.Context) (*domain.Diagram, error) {
	return m.d, m.loadErr
}

func (m *memRepo) Save(_ context.Context, d *domain.Diagram) error {
	m.d = d
	return nil
}

func TestOpen_EmptyAndMalformed(t *testing.T) {
	s, err := Open(context.Background(), &memRepo{})
	require.NoError(t, err)
	assert.Empty(t, s.Nodes())

	_, err = Open(context.Background(), &memRepo{loadErr: domain.ErrMalformedDiagram})
	assert.True(t, IsMalformed(err))
}

func TestOpen_RepairsIdentifiers(t *testing.T) {
	repo := &memRepo{d: &domain.Diagram{
		Nodes:        []domain.Node{{Title: "A"}},
		Links:        []domain.Link{},
		NextEntityID: 1,
		NextLinkNo:   1,
	}}
	s, err := Open(context.Background(), repo)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Nodes()[0].ID)

	require.NoError(t, Commit(context.Background(), repo, s))
	assert.Equal(t, 2, repo.d.NextEntityID)
}

func TestResolve(t *testing.T) {
	s := graph.NewStore()
	a := s.AddNode(geometry.Point{})
	b := s.AddNode(geometry.Point{})
	require.NoError(t, s.RenameNode(a.ID, "Users"))
	require.NoError(t, s.RenameNode(b.ID, "Orders"))
	l, err := s.AddLink(a.ID, b.ID)
	require.NoError(t, err)

	n, err := ResolveEntity(s, "2")
	require.NoError(t, err)
	assert.Equal(t, "Orders", n.Title)

	n, err = ResolveEntity(s, " users ")
	require.NoError(t, err)
	assert.Equal(t, a.ID, n.ID)

	_, err = ResolveEntity(s, "Payments")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.EqualError(t, err, `entity "Payments" not found`)

	for _, ref := range []string{"#1", "1", l.ID, "users -> orders"} {
		got, err := ResolveLink(s, ref)
		require.NoError(t, err, ref)
		assert.Equal(t, l.ID, got.ID)
	}
	_, err = ResolveLink(s, "#9")
	assert.ErrorIs(t, err, ErrNotFound)

	var ve *ValidationError
	_, err = ResolveLink(s, " ")
	assert.ErrorAs(t, err, &ve)
}
