// utils/utils.go
package utils

import "math"

// Round2 rounds to two decimal places. Weights and amounts are stored
// with cent/centigram precision everywhere, matching what the intake
// scale reports.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
