package rates

import "sort"

// Rank partitions rates into available and unavailable, orders the available
// ones by the pricing business rule, and reassembles the list with the
// unavailable rates trailing in their original relative order.
//
// Ordering rule: ascending price, except that prices within costTolerance of
// each other are treated as tied. Ties prefer the larger total box size;
// equal sizes prefer the deviation spread closer to uniform across axes.
func Rank(rates []Rate, costTolerance float64) []Rate {
	available := make([]Rate, 0, len(rates))
	unavailable := make([]Rate, 0)
	for _, r := range rates {
		if r.Available() {
			available = append(available, r)
		} else {
			unavailable = append(unavailable, r)
		}
	}

	sort.SliceStable(available, func(i, j int) bool {
		a, b := available[i], available[j]
		priceA, priceB := *a.Price, *b.Price

		diff := priceA - priceB
		if diff < 0 {
			diff = -diff
		}
		if diff <= costTolerance {
			if a.TotalSize != b.TotalSize {
				return a.TotalSize > b.TotalSize
			}
			return deviationSpread(a.Deviation) < deviationSpread(b.Deviation)
		}
		return priceA < priceB
	})

	return append(available, unavailable...)
}

// deviationSpread is the sum of squared distances from the mean offset.
// Lower means the three axis offsets are distributed more uniformly.
func deviationSpread(d Deviation) float64 {
	values := [3]float64{float64(d.Length), float64(d.Width), float64(d.Height)}
	mean := (values[0] + values[1] + values[2]) / 3
	var spread float64
	for _, v := range values {
		spread += (v - mean) * (v - mean)
	}
	return spread
}
