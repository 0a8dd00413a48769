package ops

// addForward computes a + b.
func addForward(a, b float64) float64 {
	return a + b
}

// addBackward routes the output gradient unchanged to both operands,
// since d(a+b)/da = d(a+b)/db = 1.
func addBackward(outputGrad float64) (gradA, gradB float64) {
	return outputGrad, outputGrad
}
