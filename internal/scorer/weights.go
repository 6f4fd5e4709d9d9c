package scorer

import (
	"fmt"
	"math"
	"sort"
)

// weightSumTolerance allows small floating-point drift when validating
// that a table's weights sum to 1.0.
const weightSumTolerance = 0.01

// Built-in weight tables. Each maps component names to non-negative
// weights summing to 1.0; tables prefixed "reversal" additionally get the
// volume and ADX-regime multipliers applied to their composite.
var tables = map[string]map[string]float64{
	"bullish": {
		"rsi":        0.20,
		"macd":       0.20,
		"ma_trend":   0.20,
		"stochastic": 0.10,
		"bollinger":  0.10,
		"divergence": 0.10,
		"volume":     0.10,
	},
	"oversold": {
		"rsi":        0.30,
		"stochastic": 0.20,
		"williams_r": 0.15,
		"bollinger":  0.20,
		"divergence": 0.15,
	},
	"reversal_up": {
		"divergence": 0.25,
		"rsi":        0.20,
		"stochastic": 0.15,
		"macd":       0.15,
		"bollinger":  0.15,
		"volume":     0.10,
	},
	"reversal_down": {
		"divergence_down": 0.25,
		"rsi_down":        0.20,
		"stochastic_down": 0.15,
		"macd_down":       0.15,
		"bollinger_down":  0.15,
		"volume":          0.10,
	},
}

// TableNames returns the built-in table names, sorted.
func TableNames() []string {
	names := make([]string, 0, len(tables))
	for n := range tables {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Weights returns the weight table by name.
func Weights(name string) (map[string]float64, error) {
	w, ok := tables[name]
	if !ok {
		return nil, fmt.Errorf("unknown weight table %q", name)
	}
	return w, nil
}

// ValidateWeights checks that a weight table references only known
// components, carries no negative weight, and sums to 1.0 within
// tolerance. A bad table is fatal at load time: it would corrupt every
// symbol's evaluation.
func ValidateWeights(name string, weights map[string]float64) error {
	if len(weights) == 0 {
		return fmt.Errorf("weight table %q: empty", name)
	}
	sum := 0.0
	for comp, w := range weights {
		if _, ok := components[comp]; !ok {
			return fmt.Errorf("weight table %q: unknown component %q", name, comp)
		}
		if w < 0 {
			return fmt.Errorf("weight table %q: negative weight for %q", name, comp)
		}
		sum += w
	}
	if math.Abs(sum-1.0) > weightSumTolerance {
		return fmt.Errorf("weight table %q: weights sum to %.4f, want 1.0", name, sum)
	}
	return nil
}

// ValidateAll validates every built-in table.
func ValidateAll() error {
	for _, name := range TableNames() {
		if err := ValidateWeights(name, tables[name]); err != nil {
			return err
		}
	}
	return nil
}
