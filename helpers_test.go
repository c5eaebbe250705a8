package particlefilter

// fixedNoise returns a constant Gaussian offset and cycles through a list of
// uniform draws.
type fixedNoise struct {
	offset   float64
	uniforms []float64
	next     int
}

func (f *fixedNoise) Gaussian(mean, sigma float64) float64 {
	if sigma == 0 {
		return mean
	}
	return mean + f.offset
}

func (f *fixedNoise) Uniform() float64 {
	if len(f.uniforms) == 0 {
		return 0.5
	}
	u := f.uniforms[f.next%len(f.uniforms)]
	f.next++
	return u
}

// rampBoundary returns a terrain profile whose boundary row rises by one row
// every two columns, so every column has a distinct clearance.
func rampBoundary(width int) []int {
	boundary := make([]int, width)
	for col := range boundary {
		boundary[col] = 200 + col/2
	}
	return boundary
}
