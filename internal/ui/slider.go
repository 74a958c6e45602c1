package ui

import "strconv"

// SliderProps configures a range slider. Value is the controlled value and
// DefaultValue the uncontrolled one; Value wins when both are set.
type SliderProps struct {
	Name         string
	Value        []float64
	DefaultValue []float64
	Min          float64
	Max          float64
	Step         float64
	Disabled     bool
}

// Thumb is one draggable handle.
type Thumb struct {
	Index   int
	Name    string
	Value   float64
	Percent float64
}

// Slider is a slider ready to render.
type Slider struct {
	SliderProps
	Thumbs     []Thumb
	RangeStart float64
	RangeEnd   float64
}

// ThumbCount is max(1, len(value ?? defaultValue ?? [0])). The number of
// thumbs follows the shape of the value, not a setting.
func ThumbCount(value, defaultValue []float64) int {
	if n := len(effectiveValue(value, defaultValue)); n > 1 {
		return n
	}
	return 1
}

// NewSlider derives thumbs from props. Min/Max default to 0/100 and thumb
// values are clamped into range.
func NewSlider(p SliderProps) Slider {
	if p.Max <= p.Min {
		p.Min, p.Max = 0, 100
	}
	if p.Step <= 0 {
		p.Step = 1
	}

	values := effectiveValue(p.Value, p.DefaultValue)
	if len(values) == 0 {
		values = []float64{p.Min}
	}

	s := Slider{SliderProps: p, Thumbs: make([]Thumb, 0, len(values))}
	for i, v := range values {
		v = clamp(v, p.Min, p.Max)
		name := p.Name
		if len(values) > 1 && name != "" {
			name = sliderThumbName(p.Name, i, len(values))
		}
		s.Thumbs = append(s.Thumbs, Thumb{
			Index:   i,
			Name:    name,
			Value:   v,
			Percent: (v - p.Min) / (p.Max - p.Min) * 100,
		})
	}

	if len(s.Thumbs) == 1 {
		s.RangeStart, s.RangeEnd = 0, s.Thumbs[0].Percent
	} else {
		s.RangeStart, s.RangeEnd = s.Thumbs[0].Percent, s.Thumbs[len(s.Thumbs)-1].Percent
	}
	return s
}

// Multi reports whether more than one thumb is rendered.
func (s Slider) Multi() bool { return len(s.Thumbs) > 1 }

func effectiveValue(value, defaultValue []float64) []float64 {
	switch {
	case value != nil:
		return value
	case defaultValue != nil:
		return defaultValue
	default:
		return []float64{0}
	}
}

// sliderThumbName names range endpoints min_/max_ and anything else by index.
func sliderThumbName(base string, i, n int) string {
	switch {
	case n == 2 && i == 0:
		return "min_" + base
	case n == 2 && i == 1:
		return "max_" + base
	default:
		return base + "_" + strconv.Itoa(i)
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
