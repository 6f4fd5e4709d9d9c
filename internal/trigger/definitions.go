package trigger

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"TickerSentry/internal/model"
)

func boolPtr(v bool) *bool        { return &v }
func floatPtr(v float64) *float64 { return &v }

func eq(flag string) model.Condition {
	return model.Condition{Flag: flag, Equals: boolPtr(true)}
}

func minCond(flag string, v float64) model.Condition {
	return model.Condition{Flag: flag, Min: floatPtr(v)}
}

func maxCond(flag string, v float64) model.Condition {
	return model.Condition{Flag: flag, Max: floatPtr(v)}
}

// PortfolioTriggers is the built-in, sell-biased rule set for positions
// the operator already holds.
func PortfolioTriggers() []model.TriggerDefinition {
	return []model.TriggerDefinition{
		{
			Name:         "take_profit_rsi",
			Action:       model.ActionSell,
			Description:  "RSI deep in overbought territory",
			Conditions:   []model.Condition{minCond("_rsi", 80)},
			CooldownDays: 5,
		},
		{
			Name:         "death_cross",
			Action:       model.ActionSell,
			Description:  "SMA50 crossed below SMA200",
			Conditions:   []model.Condition{eq("death_cross")},
			CooldownDays: 30,
		},
		{
			Name:         "trend_break",
			Action:       model.ActionAlert,
			Description:  "price lost the 200-day average",
			Conditions:   []model.Condition{eq("below_sma200")},
			CooldownDays: 10,
		},
		{
			Name:         "bearish_divergence",
			Action:       model.ActionAlert,
			Description:  "price/RSI bearish divergence",
			Conditions:   []model.Condition{eq("divergence_bearish")},
			CooldownDays: 7,
		},
		{
			Name:        "momentum_fade",
			Action:      model.ActionWatch,
			Description: "MACD rolled over while overbought",
			Conditions: []model.Condition{
				eq("macd_bearish_cross"),
				minCond("_rsi", 60),
			},
			CooldownDays: 5,
		},
		{
			Name:         "reversal_risk",
			Action:       model.ActionAlert,
			Description:  "downside reversal setup forming",
			Conditions:   []model.Condition{minCond("_reversal_down_score", 7.5)},
			CooldownDays: 5,
		},
	}
}

// WatchlistTriggers is the built-in, buy-biased rule set for candidates
// the operator is waiting to enter.
func WatchlistTriggers() []model.TriggerDefinition {
	return []model.TriggerDefinition{
		{
			Name:         "golden_cross",
			Action:       model.ActionBuy,
			Description:  "SMA50 crossed above SMA200",
			Conditions:   []model.Condition{eq("golden_cross")},
			CooldownDays: 30,
		},
		{
			Name:        "oversold_bounce",
			Action:      model.ActionBuy,
			Description: "oversold with a constructive composite",
			Conditions: []model.Condition{
				eq("rsi_oversold"),
				minCond("score", 6.5),
			},
			CooldownDays: 5,
		},
		{
			Name:         "bullish_divergence",
			Action:       model.ActionWatch,
			Description:  "price/RSI bullish divergence",
			Conditions:   []model.Condition{eq("divergence_bullish")},
			CooldownDays: 7,
		},
		{
			Name:        "volume_breakout",
			Action:      model.ActionAlert,
			Description: "upper-band breakout on heavy volume",
			Conditions: []model.Condition{
				eq("bollinger_breakout_upper"),
				minCond("_relative_volume", 1.5),
			},
			CooldownDays: 5,
		},
		{
			Name:         "reversal_setup",
			Action:       model.ActionWatch,
			Description:  "upside reversal setup forming",
			Conditions:   []model.Condition{minCond("_reversal_up_score", 7.5)},
			CooldownDays: 5,
		},
		{
			Name:        "pullback_entry",
			Action:      model.ActionWatch,
			Description: "uptrend pullback into the band midline",
			Conditions: []model.Condition{
				eq("above_sma200"),
				maxCond("_stoch_k", 30),
			},
			CooldownDays: 3,
		},
	}
}

// rawTrigger is the YAML wire shape of a user-supplied trigger. Condition
// values are booleans for flag checks; keys ending in _min/_max carry
// numeric range bounds for the underlying continuous flag.
type rawTrigger struct {
	Name         string         `yaml:"name"`
	Action       string         `yaml:"action"`
	Description  string         `yaml:"description"`
	Conditions   map[string]any `yaml:"conditions"`
	CooldownDays int            `yaml:"cooldown_days"`
}

// LoadTriggerFile reads and validates a user-supplied trigger list.
// Malformed definitions are rejected here, never silently skipped at
// evaluation time.
func LoadTriggerFile(path string) ([]model.TriggerDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read triggers file: %w", err)
	}
	var raw []rawTrigger
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse triggers file: %w", err)
	}

	defs := make([]model.TriggerDefinition, 0, len(raw))
	for i, rt := range raw {
		def, err := compileTrigger(rt)
		if err != nil {
			return nil, fmt.Errorf("trigger %d (%q): %w", i, rt.Name, err)
		}
		defs = append(defs, def)
	}
	if err := ValidateDefinitions(defs); err != nil {
		return nil, err
	}
	return defs, nil
}

func compileTrigger(rt rawTrigger) (model.TriggerDefinition, error) {
	def := model.TriggerDefinition{
		Name:         rt.Name,
		Action:       model.Action(strings.ToUpper(rt.Action)),
		Description:  rt.Description,
		CooldownDays: rt.CooldownDays,
	}
	if rt.Conditions == nil {
		return def, fmt.Errorf("missing conditions")
	}

	// Collect range bounds per flag so min and max for the same flag
	// compile into one condition.
	ranges := make(map[string]*model.Condition)
	for key, val := range rt.Conditions {
		switch {
		case strings.HasSuffix(key, "_min"):
			f, err := toFloat(val)
			if err != nil {
				return def, fmt.Errorf("condition %q: %w", key, err)
			}
			flag := strings.TrimSuffix(key, "_min")
			c := rangeCond(ranges, flag)
			c.Min = &f
		case strings.HasSuffix(key, "_max"):
			f, err := toFloat(val)
			if err != nil {
				return def, fmt.Errorf("condition %q: %w", key, err)
			}
			flag := strings.TrimSuffix(key, "_max")
			c := rangeCond(ranges, flag)
			c.Max = &f
		default:
			b, ok := val.(bool)
			if !ok {
				return def, fmt.Errorf("condition %q: want a boolean or a _min/_max bound, got %T", key, val)
			}
			def.Conditions = append(def.Conditions, model.Condition{Flag: key, Equals: &b})
		}
	}
	for _, c := range ranges {
		def.Conditions = append(def.Conditions, *c)
	}
	if def.Conditions == nil {
		// An empty condition set is legal and matches unconditionally.
		def.Conditions = []model.Condition{}
	}
	return def, nil
}

func rangeCond(ranges map[string]*model.Condition, flag string) *model.Condition {
	if c, ok := ranges[flag]; ok {
		return c
	}
	c := &model.Condition{Flag: flag}
	ranges[flag] = c
	return c
}

func toFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	default:
		return 0, fmt.Errorf("want a number, got %T", v)
	}
}

// ValidateDefinitions rejects malformed trigger definitions at load time.
func ValidateDefinitions(defs []model.TriggerDefinition) error {
	seen := make(map[string]bool, len(defs))
	for i, def := range defs {
		if def.Name == "" {
			return fmt.Errorf("trigger %d: missing name", i)
		}
		if seen[def.Name] {
			return fmt.Errorf("trigger %q: duplicate name", def.Name)
		}
		seen[def.Name] = true
		if !model.ValidAction(def.Action) {
			return fmt.Errorf("trigger %q: invalid action %q", def.Name, def.Action)
		}
		if def.Conditions == nil {
			return fmt.Errorf("trigger %q: missing conditions", def.Name)
		}
		if def.CooldownDays < 0 {
			return fmt.Errorf("trigger %q: negative cooldown_days", def.Name)
		}
		for _, c := range def.Conditions {
			if c.Flag == "" {
				return fmt.Errorf("trigger %q: condition with empty flag name", def.Name)
			}
			if c.Equals == nil && c.Min == nil && c.Max == nil {
				return fmt.Errorf("trigger %q: condition %q has no constraint", def.Name, c.Flag)
			}
			if c.Min != nil && c.Max != nil && *c.Min > *c.Max {
				return fmt.Errorf("trigger %q: condition %q has min > max", def.Name, c.Flag)
			}
		}
	}
	return nil
}
