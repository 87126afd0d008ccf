package region

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePath_Square(t *testing.T) {
	p, err := ParsePath("M0,0 L10,0 L10,10 L0,10 Z")
	require.NoError(t, err)

	ring := p.LinearRing(0)
	assert.Equal(t, 5, ring.NumCoords(), "ring should be closed")
	assert.InDelta(t, 100.0, p.Area(), 1e-9)
}

func TestParsePath_AlreadyClosed(t *testing.T) {
	p, err := ParsePath("M0,0 L4,0 L4,4 L0,0 Z")
	require.NoError(t, err)
	assert.Equal(t, 4, p.LinearRing(0).NumCoords())
}

func TestParsePath_Errors(t *testing.T) {
	tests := []struct {
		name string
		d    string
	}{
		{"too few points", "M0,0 L1,1 Z"},
		{"not closed", "M0,0 L1,0 L1,1"},
		{"bad number", "M0,0 La,0 L1,1 Z"},
		{"missing comma", "M0 0 L1,0 L1,1 Z"},
		{"two subpaths", "M0,0 L1,0 L1,1 Z M5,5 L6,5 L6,6 Z"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePath(tt.d)
			assert.Error(t, err)
		})
	}
}
