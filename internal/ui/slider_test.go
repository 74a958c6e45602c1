package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestThumbCount(t *testing.T) {
	tests := []struct {
		name         string
		value        []float64
		defaultValue []float64
		want         int
	}{
		{"single value", []float64{10}, nil, 1},
		{"range value", []float64{10, 50}, nil, 2},
		{"neither", nil, nil, 1},
		{"default only", nil, []float64{1, 2, 3}, 3},
		{"value wins over default", []float64{5}, []float64{1, 2}, 1},
		{"empty value", []float64{}, []float64{1, 2}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ThumbCount(tt.value, tt.defaultValue))
		})
	}
}

func TestNewSlider_ThumbsMatchValueShape(t *testing.T) {
	assert.Len(t, NewSlider(SliderProps{Value: []float64{10}}).Thumbs, 1)
	assert.Len(t, NewSlider(SliderProps{Value: []float64{10, 50}}).Thumbs, 2)

	s := NewSlider(SliderProps{})
	assert.Len(t, s.Thumbs, 1)
	assert.Equal(t, 0.0, s.Thumbs[0].Value)
	assert.False(t, s.Multi())
}

func TestNewSlider_RangePositions(t *testing.T) {
	s := NewSlider(SliderProps{Name: "price", Value: []float64{20, 80}, Min: 0, Max: 200})

	assert.True(t, s.Multi())
	assert.Equal(t, "min_price", s.Thumbs[0].Name)
	assert.Equal(t, "max_price", s.Thumbs[1].Name)
	assert.InDelta(t, 10.0, s.RangeStart, 1e-9)
	assert.InDelta(t, 40.0, s.RangeEnd, 1e-9)
}

func TestNewSlider_ClampsAndDefaultsBounds(t *testing.T) {
	s := NewSlider(SliderProps{Value: []float64{-5, 150}})
	assert.Equal(t, 0.0, s.Min)
	assert.Equal(t, 100.0, s.Max)
	assert.Equal(t, 0.0, s.Thumbs[0].Value)
	assert.Equal(t, 100.0, s.Thumbs[1].Value)
}
