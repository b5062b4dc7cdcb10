package randgen

import "math"

// epsilon compensates the representation error of values like 1.005
// before rounding, so 1.005 rounds up to 1.01 instead of down.
const epsilon = 2.220446049250313e-16

// Round2 rounds a monetary value to two decimals, half up. The exact
// formula (add epsilon, scale by 100, round half up, scale back) is load
// bearing: document totals are running sums of Round2 outputs and must be
// reproducible bit for bit.
func Round2(v float64) float64 {
	return math.Floor((v+epsilon)*100+0.5) / 100
}
