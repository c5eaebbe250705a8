package particlefilter

import "gonum.org/v1/gonum/stat/distuv"

// CalculateNormDist scores a particle's predicted distance against the
// measured one with a Gaussian kernel of standard deviation sigma:
//
//	exp(-(predicted-measured)^2 / (2*sigma^2)) / sqrt(2*pi*sigma^2)
//
// The density is evaluated in log space, so large discrepancies underflow to
// zero instead of producing NaN.
func CalculateNormDist(predicted, measured, sigma float64) float64 {
	norm := distuv.Normal{Mu: measured, Sigma: sigma}
	return norm.Prob(predicted)
}
