package variance

import (
	"fmt"
	"math"
	"slices"
	"strconv"

	"statkit/domain/core"
	"statkit/domain/dataset"
)

// groups holds the values of each group in first-appearance order
type groups struct {
	labels []string
	values [][]float64
}

func (g groups) total() int {
	n := 0
	for _, v := range g.values {
		n += len(v)
	}
	return n
}

func groupLabels(table *dataset.Table, groupCol string) ([]string, error) {
	col, _ := table.Column(groupCol)
	if col.HasMissing() {
		return nil, fmt.Errorf("%w: group column %q", core.ErrMissingValues, groupCol)
	}
	return col.Labels(), nil
}

func splitGroups(table *dataset.Table, groupCol, valueCol string) (groups, error) {
	keys, err := groupLabels(table, groupCol)
	if err != nil {
		return groups{}, err
	}
	values, err := table.Numbers(valueCol)
	if err != nil {
		return groups{}, err
	}

	var g groups
	index := make(map[string]int)
	for row, key := range keys {
		i, ok := index[key]
		if !ok {
			i = len(g.labels)
			index[key] = i
			g.labels = append(g.labels, key)
			g.values = append(g.values, nil)
		}
		g.values[i] = append(g.values[i], values[row])
	}
	return g, nil
}

// design is a complete block design: blocks[b][t] is the observation of
// treatment t in block b.
type design struct {
	treatments []string
	blocks     [][]float64
}

func (d design) column(t int) []float64 {
	out := make([]float64, len(d.blocks))
	for b, block := range d.blocks {
		out[b] = block[t]
	}
	return out
}

// pivotBlocks reshapes a long table into a block design. Treatments are
// sorted (numerically when every label is a number). With a subject column,
// each subject is one block and must have exactly one observation per
// treatment; without one, the n-th observation of every treatment forms
// block n, so all treatments need the same number of observations.
func pivotBlocks(table *dataset.Table, groupCol, valueCol, subjectCol string) (design, error) {
	keys, err := groupLabels(table, groupCol)
	if err != nil {
		return design{}, err
	}
	values, err := table.Numbers(valueCol)
	if err != nil {
		return design{}, err
	}

	treatments := uniqueSorted(keys)
	position := make(map[string]int, len(treatments))
	for i, t := range treatments {
		position[t] = i
	}
	k := len(treatments)

	if subjectCol != "" {
		subjects, err := groupLabels(table, subjectCol)
		if err != nil {
			return design{}, err
		}
		return pivotBySubject(keys, subjects, values, treatments, position)
	}

	columns := make([][]float64, k)
	for row, key := range keys {
		t := position[key]
		columns[t] = append(columns[t], values[row])
	}
	n := len(columns[0])
	for t, c := range columns {
		if len(c) != n {
			return design{}, fmt.Errorf("%w: treatment %q has %d observations, %q has %d",
				core.ErrUnbalancedDesign, treatments[t], len(c), treatments[0], n)
		}
	}

	blocks := make([][]float64, n)
	for b := range blocks {
		blocks[b] = make([]float64, k)
		for t := range columns {
			blocks[b][t] = columns[t][b]
		}
	}
	return design{treatments: treatments, blocks: blocks}, nil
}

func pivotBySubject(keys, subjects []string, values []float64, treatments []string, position map[string]int) (design, error) {
	k := len(treatments)
	var order []string
	cells := make(map[string][]float64)
	for row, subject := range subjects {
		block, ok := cells[subject]
		if !ok {
			block = make([]float64, k)
			for t := range block {
				block[t] = math.NaN()
			}
			cells[subject] = block
			order = append(order, subject)
		}
		t := position[keys[row]]
		if !math.IsNaN(block[t]) {
			return design{}, fmt.Errorf("%w: subject %q has several observations for %q",
				core.ErrUnbalancedDesign, subject, treatments[t])
		}
		block[t] = values[row]
	}

	blocks := make([][]float64, 0, len(order))
	for _, subject := range order {
		block := cells[subject]
		for t, v := range block {
			if math.IsNaN(v) {
				return design{}, fmt.Errorf("%w: subject %q has no observation for %q",
					core.ErrUnbalancedDesign, subject, treatments[t])
			}
		}
		blocks = append(blocks, block)
	}
	return design{treatments: treatments, blocks: blocks}, nil
}

func uniqueSorted(labels []string) []string {
	out := slices.Clone(labels)
	slices.Sort(out)
	out = slices.Compact(out)

	numbers := make(map[string]float64, len(out))
	for _, l := range out {
		v, err := strconv.ParseFloat(l, 64)
		if err != nil {
			return out
		}
		numbers[l] = v
	}
	slices.SortFunc(out, func(a, b string) int {
		switch {
		case numbers[a] < numbers[b]:
			return -1
		case numbers[a] > numbers[b]:
			return 1
		default:
			return 0
		}
	})
	return out
}
