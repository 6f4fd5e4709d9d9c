package model

import "fmt"

// Action indicates what a trigger recommends the operator do.
type Action string

const (
	ActionBuy   Action = "BUY"
	ActionSell  Action = "SELL"
	ActionAlert Action = "ALERT"
	ActionWatch Action = "WATCH"
)

// ValidAction reports whether a is one of the known actions.
func ValidAction(a Action) bool {
	switch a {
	case ActionBuy, ActionSell, ActionAlert, ActionWatch:
		return true
	}
	return false
}

// FlagMatrix maps flag names to boolean signals and continuous values for
// one symbol. Unknown keys never match: accessors report presence
// explicitly and condition matching fails closed on a missing key.
type FlagMatrix struct {
	Ticker string
	bools  map[string]bool
	values map[string]float64
}

// NewFlagMatrix creates an empty matrix for a ticker.
func NewFlagMatrix(ticker string) *FlagMatrix {
	return &FlagMatrix{
		Ticker: ticker,
		bools:  make(map[string]bool),
		values: make(map[string]float64),
	}
}

// SetBool records a boolean flag.
func (m *FlagMatrix) SetBool(name string, v bool) { m.bools[name] = v }

// SetValue records a continuous value.
func (m *FlagMatrix) SetValue(name string, v float64) { m.values[name] = v }

// Bool returns a boolean flag and whether it is present.
func (m *FlagMatrix) Bool(name string) (bool, bool) {
	v, ok := m.bools[name]
	return v, ok
}

// Value returns a continuous value and whether it is present.
func (m *FlagMatrix) Value(name string) (float64, bool) {
	v, ok := m.values[name]
	return v, ok
}

// BoolNames returns the names of all boolean flags, unsorted.
func (m *FlagMatrix) BoolNames() []string {
	names := make([]string, 0, len(m.bools))
	for n := range m.bools {
		names = append(names, n)
	}
	return names
}

// ValueNames returns the names of all continuous flags, unsorted.
func (m *FlagMatrix) ValueNames() []string {
	names := make([]string, 0, len(m.values))
	for n := range m.values {
		names = append(names, n)
	}
	return names
}

// ComponentScore is one indicator's contribution to a composite score:
// the raw indicator value mapped through a scoring curve, then weighted.
type ComponentScore struct {
	Name     string
	Raw      float64
	Score    float64
	Weight   float64
	Weighted float64
}

// CompositeScore is the weighted combination of component scores, bounded
// to [0,10]. A Total of 0 with an empty Components slice is the
// "no opinion" sentinel for insufficient history.
type CompositeScore struct {
	Table      string
	Total      float64
	Components []ComponentScore
	VolumeMult float64
	ADXMult    float64
}

// Condition is one compiled trigger condition. Exactly one of Equals or
// the Min/Max pair is set: Equals matches a boolean flag, Min/Max match a
// continuous value with inclusive bounds (either side may be open).
type Condition struct {
	Flag   string
	Equals *bool
	Min    *float64
	Max    *float64
}

// TriggerDefinition is a named rule evaluated against a FlagMatrix.
type TriggerDefinition struct {
	Name         string
	Action       Action
	Description  string
	Conditions   []Condition
	CooldownDays int
}

// TriggerResult is one matched trigger for one symbol.
type TriggerResult struct {
	Ticker       string `json:"ticker"`
	Signal       string `json:"signal"`
	Action       Action `json:"action"`
	Message      string `json:"message"`
	TriggerKey   string `json:"trigger_key"`
	CooldownDays int    `json:"cooldown_days"`
	Suppressed   bool   `json:"suppressed"`
}

// TriggerKey builds the deterministic dedup key for a (ticker, signal)
// pair. Stable across runs with identical inputs.
func TriggerKey(ticker, signal string) string {
	return fmt.Sprintf("%s:%s", ticker, signal)
}
