package tree

// Visual carries node rendering attributes. The core stores and copies
// these for round-tripping by serializers; it never interprets them.
type Visual struct {
	FontName     string
	FontStyle    string
	FontSize     int
	FontColor    string
	Shape        string
	FillType     string
	FillColor    string
	BorderColor  string
	Size         float64
	Transparency float64
}

// IsEmpty reports whether no attribute is set.
func (v *Visual) IsEmpty() bool {
	return v.FontName == "" && v.FontStyle == "" && v.FontSize == 0 &&
		v.FontColor == "" && v.Shape == "" && v.FillType == "" &&
		v.FillColor == "" && v.BorderColor == "" && v.Size == 0 &&
		v.Transparency == 0
}

// Copy returns an independent copy.
func (v *Visual) Copy() *Visual {
	c := *v
	return &c
}
