package commands

import (
	"context"
	"image/color"
	"testing"

	"schemer/internal/domain"
	"schemer/internal/geometry"
	"schemer/internal/ports"
)

// memoryRepo is an in-memory DiagramStore that keeps every save.
type memoryRepo struct {
	current *domain.Diagram
	saves   []*domain.Diagram
}

func (m *memoryRepo) Load(context.Context) (*domain.Diagram, error) {
	return m.current.Clone(), nil
}

func (m *memoryRepo) Save(_ context.Context, d *domain.Diagram) error {
	m.current = d.Clone()
	m.saves = append(m.saves, d.Clone())
	return nil
}

func (m *memoryRepo) History(_ context.Context, limit int) ([]domain.SnapshotInfo, error) {
	var out []domain.SnapshotInfo
	for i := len(m.saves) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, domain.SnapshotInfo{
			ID:       int64(i + 1),
			Entities: len(m.saves[i].Nodes),
			Links:    len(m.saves[i].Links),
		})
	}
	return out, nil
}

func (m *memoryRepo) Snapshot(_ context.Context, id int64) (*domain.Diagram, error) {
	if id < 1 || int(id) > len(m.saves) {
		return nil, nil
	}
	return m.saves[id-1].Clone(), nil
}

// seeded returns a repo holding Users -> Orders -> Items.
func seeded(t *testing.T) *memoryRepo {
	t.Helper()
	repo := &memoryRepo{}
	ctx := context.Background()
	for i, title := range []string{"Users", "Orders", "Items"} {
		if _, err := NewCreateEntityCommand(repo, title, float64(i)*400, 0).Execute(ctx); err != nil {
			t.Fatalf("create %s: %v", title, err)
		}
	}
	if _, err := NewCreateLinkCommand(repo, "Users", "Orders").Execute(ctx); err != nil {
		t.Fatalf("link: %v", err)
	}
	if _, err := NewCreateLinkCommand(repo, "Orders", "Items").Execute(ctx); err != nil {
		t.Fatalf("link: %v", err)
	}
	return repo
}

// nullSurface discards drawing but reports a size.
type nullSurface struct {
	w, h  float64
	texts []string
}

func (s *nullSurface) Size() (float64, float64)                                { return s.w, s.h }
func (s *nullSurface) Clear(color.Color)                                       {}
func (s *nullSurface) FillRect(geometry.Rect, color.Color)                     {}
func (s *nullSurface) StrokeRect(geometry.Rect, ports.Stroke)                  {}
func (s *nullSurface) FillRoundRect(geometry.Rect, float64, bool, color.Color) {}
func (s *nullSurface) StrokeRoundRect(geometry.Rect, float64, ports.Stroke)    {}
func (s *nullSurface) Line(geometry.Point, geometry.Point, ports.Stroke)       {}
func (s *nullSurface) FillCircle(geometry.Point, float64, color.Color)         {}
func (s *nullSurface) StrokeCircle(geometry.Point, float64, ports.Stroke)      {}
func (s *nullSurface) MeasureText(text string, _ ports.FontFace, size float64) float64 {
	return float64(len(text)) * size / 2
}
func (s *nullSurface) Text(_ geometry.Point, text string, _ ports.FontFace, _ float64, _ color.Color) {
	s.texts = append(s.texts, text)
}
