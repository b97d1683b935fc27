package rates

// axisSteps expands one axis range into the ordered offset list
// {0} ∪ [min, max]. Negative bounds are clamped to zero and an inverted
// range degenerates to {min}; zero is prepended when the range starts above
// it so the unperturbed option is always explored.
func axisSteps(r AxisRange) []int {
	min := r.Min
	if min < 0 {
		min = 0
	}
	max := r.Max
	if max < min {
		max = min
	}

	steps := make([]int, 0, max-min+2)
	if min > 0 {
		steps = append(steps, 0)
	}
	for v := min; v <= max; v++ {
		steps = append(steps, v)
	}
	return steps
}

// BuildGrid materializes the full Cartesian product of per-axis deviations
// applied to the base dimensions. Order is deterministic: length outer,
// width middle, height inner. Every effective axis is padded by
// protectionCm and clamped to at least 1cm.
func BuildGrid(base DimensionSet, rng DeviationRange, protectionCm float64) []DimensionVariant {
	lengthSteps := axisSteps(rng.Length)
	widthSteps := axisSteps(rng.Width)
	heightSteps := axisSteps(rng.Height)

	grid := make([]DimensionVariant, 0, len(lengthSteps)*len(widthSteps)*len(heightSteps))
	for _, dL := range lengthSteps {
		for _, dW := range widthSteps {
			for _, dH := range heightSteps {
				grid = append(grid, DimensionVariant{
					Dimensions: DimensionSet{
						Length: clampAxis(base.Length + float64(dL) + protectionCm),
						Width:  clampAxis(base.Width + float64(dW) + protectionCm),
						Height: clampAxis(base.Height + float64(dH) + protectionCm),
					},
					Deviation: Deviation{Length: dL, Width: dW, Height: dH},
				})
			}
		}
	}
	return grid
}

func clampAxis(v float64) float64 {
	if v < 1 {
		return 1
	}
	return v
}
