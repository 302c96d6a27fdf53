package geom

import "github.com/jakecoffman/cp"

// Vector is a 2D point or offset in canvas units.
type Vector struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

func V(x, y float64) Vector {
	return Vector{X: x, Y: y}
}

func (v Vector) Add(o Vector) Vector {
	return Vector{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vector) Sub(o Vector) Vector {
	return Vector{X: v.X - o.X, Y: v.Y - o.Y}
}

func (v Vector) Scale(f float64) Vector {
	return Vector{X: v.X * f, Y: v.Y * f}
}

func (v Vector) CP() cp.Vector {
	return cp.Vector{X: v.X, Y: v.Y}
}

// Box is an axis-aligned rectangle described by its top-left and bottom-right corners
// in canvas space (y grows downward).
type Box struct {
	Min Vector
	Max Vector
}

// CenteredBox returns the box of the given dimension centered on origin.
func CenteredBox(origin, dimension Vector) Box {
	half := dimension.Scale(0.5)
	return Box{Min: origin.Sub(half), Max: origin.Add(half)}
}

func (b Box) Width() float64  { return b.Max.X - b.Min.X }
func (b Box) Height() float64 { return b.Max.Y - b.Min.Y }

// BB converts the box to a chipmunk bounding box. Canvas y grows downward, so Min.Y
// maps to the chipmunk bottom edge.
func (b Box) BB() cp.BB {
	return cp.BB{L: b.Min.X, B: b.Min.Y, R: b.Max.X, T: b.Max.Y}
}

// Contains reports whether p lies inside the box, edges included.
func (b Box) Contains(p Vector) bool {
	return b.BB().ContainsVect(p.CP())
}
