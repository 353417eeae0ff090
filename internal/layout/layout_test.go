package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schemer/internal/domain"
)

func node(fields int) domain.Node {
	n := domain.Node{ID: 1, X: 100, Y: 50, Width: 220}
	for i := 0; i < fields; i++ {
		n.Fields = append(n.Fields, domain.DefaultField())
	}
	return n
}

func TestHeight(t *testing.T) {
	tests := []struct {
		name   string
		fields int
		refs   int
		want   float64
	}{
		{name: "one field", fields: 1, refs: 0, want: 54},
		{name: "three fields", fields: 3, refs: 0, want: 82},
		{name: "with references", fields: 2, refs: 2, want: 24 + 16 + 3*14 + 2*28},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Height(tt.fields, tt.refs))
			assert.Equal(t, tt.want, Measure(node(tt.fields), tt.refs).Body.H)
		})
	}
}

func TestMeasure_RowPositions(t *testing.T) {
	b := Measure(node(2), 2)

	require.Len(t, b.Fields, 2)
	assert.Equal(t, 90.0, b.Fields[0].Baseline.Y)
	assert.Equal(t, 104.0, b.Fields[1].Baseline.Y)
	assert.Equal(t, 106.0, b.Title.X)

	assert.Equal(t, 122.0, b.Rule)
	assert.Equal(t, 132.0, b.RefsTitle.Y)

	require.Len(t, b.Refs, 2)
	// refs start at y + 40 + fields*14 + 2*14
	assert.Equal(t, 50.0+40+2*14+2*14, b.Refs[0].Baseline.Y)
	assert.Equal(t, b.Refs[0].Baseline.Y+28, b.Refs[1].Baseline.Y)
	assert.Equal(t, b.Refs[0].Baseline.Y-12, b.Refs[0].Band.Y)
	assert.Equal(t, b.Refs[0].Baseline.Y+2, b.Refs[0].Band.Y+b.Refs[0].Band.H)
}

func TestBox_RefAt(t *testing.T) {
	b := Measure(node(1), 2)
	base := b.Refs[1].Baseline.Y

	assert.Equal(t, 1, b.RefAt(base))
	assert.Equal(t, 1, b.RefAt(base-12))
	assert.Equal(t, -1, b.RefAt(base+3))
	assert.Equal(t, -1, b.RefAt(b.Fields[0].Baseline.Y))
}

func TestFieldAt(t *testing.T) {
	n := node(3)
	assert.Equal(t, 0, FieldAt(n, n.Y+40))
	assert.Equal(t, 2, FieldAt(n, n.Y+40+2*14+1))
	assert.Equal(t, -1, FieldAt(n, n.Y+39))
	assert.Equal(t, -1, FieldAt(n, n.Y+40+3*14))
	assert.True(t, InHeader(n, n.Y+24))
	assert.False(t, InHeader(n, n.Y+25))
}
