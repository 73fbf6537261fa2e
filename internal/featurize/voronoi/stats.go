package voronoi

import (
	"math"

	"github.com/mofml/ffpgen/pkg/errors"
)

// Recognized summary statistic names.
const (
	StatMean    = "mean"
	StatStdDev  = "std_dev"
	StatMinimum = "minimum"
	StatMaximum = "maximum"
)

// statFuncs maps statistic names to their evaluators.  Every evaluator is
// total over non-empty input; callers guarantee non-emptiness.
var statFuncs = map[string]func([]float64) float64{
	StatMean:    mean,
	StatStdDev:  stdDev,
	StatMinimum: minimum,
	StatMaximum: maximum,
}

// ValidateStats reports an error naming the first unrecognized statistic in
// names, so bad configuration fails at startup rather than mid-request.
func ValidateStats(names []string) error {
	for _, name := range names {
		if _, ok := statFuncs[name]; !ok {
			return errors.Newf(errors.ErrCodeValidation,
				"unrecognized statistic %q", name)
		}
	}
	return nil
}

// evalStats applies each named statistic to values, in order.
func evalStats(names []string, values []float64) ([]float64, error) {
	out := make([]float64, len(names))
	for i, name := range names {
		fn, ok := statFuncs[name]
		if !ok {
			return nil, errors.Newf(errors.ErrCodeValidation,
				"unrecognized statistic %q", name)
		}
		out[i] = fn(values)
	}
	return out, nil
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stdDev is the population standard deviation (no Bessel correction), so a
// single-element list has zero spread.
func stdDev(values []float64) float64 {
	m := mean(values)
	ss := 0.0
	for _, v := range values {
		d := v - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(values)))
}

func minimum(values []float64) float64 {
	min := values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
	}
	return min
}

func maximum(values []float64) float64 {
	max := values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
	}
	return max
}
