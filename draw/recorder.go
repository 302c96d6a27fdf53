package draw

// Recorder is a Surface that keeps the frames it was given. Headless runs and tests
// render into it.
type Recorder struct {
	Frames [][]Primitive
}

func (r *Recorder) Render(prims []Primitive) {
	frame := make([]Primitive, len(prims))
	copy(frame, prims)
	r.Frames = append(r.Frames, frame)
}

// Last returns the most recent frame, or nil.
func (r *Recorder) Last() []Primitive {
	if len(r.Frames) == 0 {
		return nil
	}
	return r.Frames[len(r.Frames)-1]
}

// Of returns the primitives of type T in the most recent frame.
func Of[T Primitive](r *Recorder) []T {
	var out []T
	for _, p := range r.Last() {
		if v, ok := p.(T); ok {
			out = append(out, v)
		}
	}
	return out
}
