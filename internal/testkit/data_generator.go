package testkit

import (
	"fmt"
	"math"
	"math/rand/v2"

	"statkit/domain/dataset"

	"gonum.org/v1/gonum/stat/distuv"
)

// GeneratorConfig configures the synthetic data generator
type GeneratorConfig struct {
	Seed uint64 `json:"seed"`
}

// DefaultGeneratorConfig returns the seed used across package tests
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{Seed: 42}
}

// DataGenerator produces reproducible samples for analysis tests. The same
// seed always yields the same sequence of draws.
type DataGenerator struct {
	config GeneratorConfig
	src    rand.Source
}

// NewDataGenerator creates a generator from config
func NewDataGenerator(config GeneratorConfig) *DataGenerator {
	return &DataGenerator{
		config: config,
		src:    rand.NewPCG(config.Seed, config.Seed^0x9e3779b97f4a7c15),
	}
}

// Normal draws n values from N(mean, std²)
func (g *DataGenerator) Normal(n int, mean, std float64) []float64 {
	dist := distuv.Normal{Mu: mean, Sigma: std, Src: g.src}
	return draw(n, dist.Rand)
}

// Exponential draws n values with the given rate
func (g *DataGenerator) Exponential(n int, rate float64) []float64 {
	dist := distuv.Exponential{Rate: rate, Src: g.src}
	return draw(n, dist.Rand)
}

// Uniform draws n values from [min, max)
func (g *DataGenerator) Uniform(n int, min, max float64) []float64 {
	dist := distuv.Uniform{Min: min, Max: max, Src: g.src}
	return draw(n, dist.Rand)
}

// Matrix draws an n×p row-major matrix of U[0, 1) features
func (g *DataGenerator) Matrix(n, p int) [][]float64 {
	out := make([][]float64, n)
	for i := range out {
		out[i] = g.Uniform(p, 0, 1)
	}
	return out
}

// LinearTarget returns intercept + X·coef + N(0, noise²) per row
func (g *DataGenerator) LinearTarget(X [][]float64, coef []float64, intercept, noise float64) []float64 {
	eps := g.Normal(len(X), 0, noise)
	y := make([]float64, len(X))
	for i, row := range X {
		v := intercept + eps[i]
		for j, x := range row {
			v += coef[j] * x
		}
		y[i] = v
	}
	return y
}

// Seasonal returns a sine wave of the given period plus a linear trend and
// Gaussian noise.
func (g *DataGenerator) Seasonal(n int, period, slope, noise float64) []float64 {
	eps := g.Normal(n, 0, noise)
	out := make([]float64, n)
	for i := range out {
		t := float64(i)
		out[i] = math.Sin(2*math.Pi*t/period) + slope*t + eps[i]
	}
	return out
}

// GroupedTable builds a long-format table with a text column "groupe" and a
// numeric column "valeur": perGroup observations for each mean, drawn from
// N(mean, std²).
func (g *DataGenerator) GroupedTable(means []float64, perGroup int, std float64) *dataset.Table {
	var labels []string
	var values []float64
	for i, mean := range means {
		label := fmt.Sprintf("G%d", i+1)
		for _, v := range g.Normal(perGroup, mean, std) {
			labels = append(labels, label)
			values = append(values, v)
		}
	}
	table, _ := dataset.NewTable(
		dataset.TextColumn("groupe", labels),
		dataset.NumericColumn("valeur", values),
	)
	return table
}

func draw(n int, next func() float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = next()
	}
	return out
}
