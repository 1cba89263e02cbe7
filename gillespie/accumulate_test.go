package gillespie

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccumulate(t *testing.T) {
	dst := make([]float64, 4)
	a0, err := Accumulate(dst, []float64{0.5, 0, 1.5, 2})
	require.NoError(t, err)
	assert.Equal(t, 4.0, a0)
	assert.Equal(t, []float64{0.5, 0.5, 2, 4}, dst)

	udst := make([]uint64, 3)
	u0, err := Accumulate(udst, []uint64{3, 0, 9})
	require.NoError(t, err)
	assert.Equal(t, uint64(12), u0)
	assert.Equal(t, []uint64{3, 3, 12}, udst)
}

func TestAccumulate_Errors(t *testing.T) {
	_, err := Accumulate([]float64{}, []float64{})
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = Accumulate(make([]float64, 2), []float64{1, 2, 3})
	assert.ErrorIs(t, err, ErrLength)
	assert.EqualError(t, err, "propensity count does not match reaction count: got 3, want 2")

	_, err = Accumulate(make([]uint16, 2), []uint16{math.MaxUint16, 1})
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		props []float64
		want  error
	}{
		{"ok", []float64{1, 0, 2}, nil},
		{"all zero", []float64{0, 0}, nil},
		{"empty", nil, ErrEmpty},
		{"nan", []float64{1, math.NaN()}, ErrNaN},
		{"negative", []float64{-0.5}, ErrNegative},
		{"infinite", []float64{math.Inf(1)}, ErrOverflow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.props)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestValidate_ReportsIndex(t *testing.T) {
	err := Validate([]float32{1, 2, float32(math.NaN())})
	assert.EqualError(t, err, "propensity is NaN at index 2")
}

func TestIsFloat(t *testing.T) {
	assert.True(t, isFloat[float32]())
	assert.True(t, isFloat[float64]())
	assert.False(t, isFloat[uint]())
	assert.False(t, isFloat[uint8]())
	assert.False(t, isFloat[uint64]())
}
