package particlefilter

// Vehicle is the ground truth the filter tries to track. Only X changes;
// the aircraft holds its altitude Y and control velocity V.
type Vehicle struct {
	X     float64
	Y     float64
	V     float64
	Sigma float64
	noise Noise
}

func NewVehicle(x, y, v, sigma float64, noise Noise) *Vehicle {
	return &Vehicle{X: x, Y: y, V: v, Sigma: sigma, noise: noise}
}

// Advance moves the vehicle by V*dt plus a small uncommanded drift.
// dt is not validated; a zero or negative dt is the caller's error.
func (v *Vehicle) Advance(dt float64) {
	v.X += v.V*dt + v.noise.Gaussian(0, v.Sigma)
}
