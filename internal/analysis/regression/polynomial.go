package regression

import (
	"fmt"
	"strings"
)

// monomials lists the feature index multisets of total degree 1..degree,
// lowest degree first and lexicographic within a degree.
func monomials(features, degree int) [][]int {
	var out [][]int
	var walk func(start int, current []int, remaining int)
	walk = func(start int, current []int, remaining int) {
		if remaining == 0 {
			out = append(out, append([]int(nil), current...))
			return
		}
		for f := start; f < features; f++ {
			walk(f, append(current, f), remaining-1)
		}
	}
	for d := 1; d <= degree; d++ {
		walk(0, nil, d)
	}
	return out
}

func expand(X [][]float64, degree int) [][]float64 {
	combos := monomials(len(X[0]), degree)
	out := make([][]float64, len(X))
	for i, row := range X {
		expanded := make([]float64, len(combos))
		for c, combo := range combos {
			v := 1.0
			for _, f := range combo {
				v *= row[f]
			}
			expanded[c] = v
		}
		out[i] = expanded
	}
	return out
}

func monomialName(combo []int, names []string) string {
	parts := make([]string, 0, len(combo))
	for i := 0; i < len(combo); {
		j := i
		for j < len(combo) && combo[j] == combo[i] {
			j++
		}
		if power := j - i; power > 1 {
			parts = append(parts, fmt.Sprintf("%s^%d", names[combo[i]], power))
		} else {
			parts = append(parts, names[combo[i]])
		}
		i = j
	}
	return strings.Join(parts, " ")
}
