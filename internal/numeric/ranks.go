package numeric

import "sort"

// Rank assigns 1-based average ranks to values and reports the size of each
// group of tied values (only groups larger than one).
func Rank(values []float64) (ranks []float64, ties []int) {
	n := len(values)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return values[order[a]] < values[order[b]]
	})

	ranks = make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j+1 < n && values[order[j+1]] == values[order[i]] {
			j++
		}
		avg := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			ranks[order[k]] = avg
		}
		if size := j - i + 1; size > 1 {
			ties = append(ties, size)
		}
		i = j + 1
	}
	return ranks, ties
}

// tieTerm returns sum(t^3 - t) over tie group sizes
func tieTerm(ties []int) float64 {
	total := 0.0
	for _, t := range ties {
		tf := float64(t)
		total += tf*tf*tf - tf
	}
	return total
}
