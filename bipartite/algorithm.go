package bipartite

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Deviation is the distance between one of a reviewer's ratings and the
// freshly computed summary of the rated product, together with the
// credibility of that product.
type Deviation struct {
	Value       float64
	Credibility float64
}

// Algorithm defines how an update pass turns deviations into anomalous
// scores. Product summaries are computed the same way by every algorithm;
// Alpha controls how steeply reviewer weights fall as anomalous scores grow.
type Algorithm interface {
	Name() string

	// Alpha is the steepness of the logistic reviewer weight used when
	// summarizing products.
	Alpha() float64

	// MaxPasses returns the number of passes after which Update stops
	// changing scores. Zero means no limit.
	MaxPasses() int

	// AnomalousScore computes a reviewer's next anomalous score from the
	// deviations of its reviews. It is never called with an empty slice.
	AnomalousScore(devs []Deviation) float64

	// Normalize rescales, in place, the anomalous scores computed in a pass
	// before they are committed.
	Normalize(scores []float64)
}

// MRA is the Mutually Reinforcing Analysis: the anomalous score is the
// credibility weighted mean of the reviewer's deviations.
type MRA struct{}

func (MRA) Name() string { return "mra" }

func (MRA) Alpha() float64 { return 1 }

func (MRA) MaxPasses() int { return 0 }

func (MRA) AnomalousScore(devs []Deviation) float64 { return weightedDeviation(devs) }

func (MRA) Normalize([]float64) {}

// RIA is the Repeated Improvement Analysis. It scores reviewers like MRA
// but with a caller supplied alpha.
type RIA struct {
	alpha float64
}

func NewRIA(alpha float64) RIA { return RIA{alpha: alpha} }

func (RIA) Name() string { return "ria" }

func (a RIA) Alpha() float64 { return a.alpha }

func (RIA) MaxPasses() int { return 0 }

func (RIA) AnomalousScore(devs []Deviation) float64 { return weightedDeviation(devs) }

func (RIA) Normalize([]float64) {}

// One scores reviewers with a single pass; later passes change nothing.
type One struct {
	MRA
}

func (One) Name() string { return "one" }

func (One) MaxPasses() int { return 1 }

// OneSum sums the credibility weighted deviations of a reviewer, each offset
// by -0.5, and min-max normalizes the sums across the reviewers scored in
// the pass.
type OneSum struct{}

func (OneSum) Name() string { return "onesum" }

func (OneSum) Alpha() float64 { return 1 }

func (OneSum) MaxPasses() int { return 0 }

func (OneSum) AnomalousScore(devs []Deviation) float64 {
	var sum float64
	for _, d := range devs {
		sum += d.Value*d.Credibility - 0.5
	}
	return sum
}

// Normalize maps scores onto [0, 1]. When every score is the same the
// scores are only clamped.
func (OneSum) Normalize(scores []float64) {
	if len(scores) == 0 {
		return
	}

	low, high := floats.Min(scores), floats.Max(scores)
	width := high - low
	for i, s := range scores {
		if width > 0 {
			scores[i] = (s - low) / width
		} else {
			scores[i] = math.Min(1, math.Max(0, s))
		}
	}
}

// weightedDeviation returns the credibility weighted mean of the deviation
// values, falling back to the plain mean when all credibilities are zero.
func weightedDeviation(devs []Deviation) float64 {
	values := make([]float64, len(devs))
	weights := make([]float64, len(devs))
	for i, d := range devs {
		values[i], weights[i] = d.Value, d.Credibility
	}
	if floats.Sum(weights) == 0 {
		return stat.Mean(values, nil)
	}
	return stat.Mean(values, weights)
}

// reviewerWeight returns the weight function used to summarize products in
// a pass. Reviewers whose anomalous score is above the mean of the previous
// pass get less than half of the weight, those below it get more:
//
//	w(a) = 1 / (1 + exp(alpha * (a - mu) / sigma))
//
// When every reviewer has the same score, all weights are 1.
func reviewerWeight(alpha float64, scores []float64) func(float64) float64 {
	if len(scores) == 0 {
		return func(float64) float64 { return 1 }
	}

	mu, sigma := stat.PopMeanStdDev(scores, nil)
	if sigma == 0 || math.IsNaN(sigma) {
		return func(float64) float64 { return 1 }
	}
	return func(a float64) float64 {
		// exp overflows to +Inf for very anomalous reviewers, which yields
		// a weight of 0.
		return 1 / (1 + math.Exp(alpha*(a-mu)/sigma))
	}
}
