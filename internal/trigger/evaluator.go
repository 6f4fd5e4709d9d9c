package trigger

import (
	"fmt"
	"time"

	"TickerSentry/internal/model"
)

// Archiver reports operator-initiated long-term suppression.
type Archiver interface {
	IsSuppressed(key string, now time.Time) bool
}

// Evaluator matches a symbol's flag matrix against trigger definitions
// and drives the dedup state machine: a candidate is Suppressed when
// archived or cooling down, New when it was absent from the previous
// run's fired set, and Repeat otherwise.
type Evaluator struct {
	defs    []model.TriggerDefinition
	archive Archiver
}

// Result buckets one evaluation's trigger results. FiredKeys lists the
// keys of New and Repeat results in definition order, for the next run's
// dedup set.
type Result struct {
	New        []model.TriggerResult
	Repeat     []model.TriggerResult
	Suppressed []model.TriggerResult
	FiredKeys  []string
}

// NewEvaluator creates an evaluator over a validated definition set.
// Definitions must have passed ValidateDefinitions; archive may be nil.
func NewEvaluator(defs []model.TriggerDefinition, archive Archiver) *Evaluator {
	return &Evaluator{defs: defs, archive: archive}
}

// EvaluateSymbol runs every definition against the matrix, consulting and
// mutating state. Results are deterministic: definitions are evaluated in
// order and produce identical keys in identical order for identical
// inputs. The caller serializes access to state.
func (e *Evaluator) EvaluateSymbol(matrix *model.FlagMatrix, state *model.RunState, prevFired map[string]bool, now time.Time) Result {
	var res Result
	for _, def := range e.defs {
		if !Matches(def, matrix) {
			continue
		}
		key := model.TriggerKey(matrix.Ticker, def.Name)
		tr := model.TriggerResult{
			Ticker:       matrix.Ticker,
			Signal:       def.Name,
			Action:       def.Action,
			Message:      formatMessage(matrix, def),
			TriggerKey:   key,
			CooldownDays: def.CooldownDays,
		}

		suppressed := e.isSuppressed(key, def, state, now)

		// Candidates are always recorded, suppressed or not, so the
		// matrix display and cooldown tracking stay complete.
		seen, ok := state.SeenTriggers[key]
		if !ok {
			seen.FirstSeen = now
		}
		seen.LastSeen = now
		seen.LastMessage = tr.Message
		state.SeenTriggers[key] = seen

		if suppressed {
			tr.Suppressed = true
			res.Suppressed = append(res.Suppressed, tr)
			continue
		}

		if def.CooldownDays > 0 {
			state.Cooldowns[key] = now.AddDate(0, 0, def.CooldownDays)
		}
		res.FiredKeys = append(res.FiredKeys, key)
		if prevFired[key] {
			res.Repeat = append(res.Repeat, tr)
		} else {
			res.New = append(res.New, tr)
		}
	}
	return res
}

// isSuppressed checks archive suppression first (it takes precedence
// regardless of cooldown state), then the cooldown window. A stored
// next-eligible time is authoritative once present; the last-sighting
// fallback only covers state files written before cooldowns were
// tracked separately. Sightings recorded while suppressed must not
// re-arm the cooldown, or a persistent signal would never re-fire.
func (e *Evaluator) isSuppressed(key string, def model.TriggerDefinition, state *model.RunState, now time.Time) bool {
	if e.archive != nil && e.archive.IsSuppressed(key, now) {
		return true
	}
	if next, ok := state.Cooldowns[key]; ok {
		return now.Before(next)
	}
	if def.CooldownDays > 0 {
		if seen, ok := state.SeenTriggers[key]; ok {
			if now.Before(seen.LastSeen.AddDate(0, 0, def.CooldownDays)) {
				return true
			}
		}
	}
	return false
}

// Matches reports whether the matrix satisfies all of the definition's
// conditions. An empty condition set matches unconditionally; a missing
// flag key never matches.
func Matches(def model.TriggerDefinition, matrix *model.FlagMatrix) bool {
	for _, c := range def.Conditions {
		if !matchCondition(c, matrix) {
			return false
		}
	}
	return true
}

func matchCondition(c model.Condition, matrix *model.FlagMatrix) bool {
	if c.Equals != nil {
		v, ok := matrix.Bool(c.Flag)
		return ok && v == *c.Equals
	}
	v, ok := matrix.Value(c.Flag)
	if !ok {
		return false
	}
	if c.Min != nil && v < *c.Min {
		return false
	}
	if c.Max != nil && v > *c.Max {
		return false
	}
	return true
}

func formatMessage(matrix *model.FlagMatrix, def model.TriggerDefinition) string {
	msg := fmt.Sprintf("%s %s: %s", def.Action, matrix.Ticker, def.Description)
	if score, ok := matrix.Value("score"); ok {
		msg += fmt.Sprintf(" (score %.1f)", score)
	}
	if price, ok := matrix.Value("_price"); ok {
		msg += fmt.Sprintf(" @ %.2f", price)
	}
	return msg
}
