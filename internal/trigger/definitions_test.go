package trigger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"TickerSentry/internal/model"
)

func writeTriggers(t *testing.T, yaml string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "triggers.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
	return path
}

func TestLoadTriggerFile(t *testing.T) {
	path := writeTriggers(t, `
- name: cheap_dip
  action: buy
  description: oversold with volume
  cooldown_days: 3
  conditions:
    rsi_oversold: true
    _relative_volume_min: 1.2
    _rsi_max: 28
`)
	defs, err := LoadTriggerFile(path)
	require.NoError(t, err)
	require.Len(t, defs, 1)

	def := defs[0]
	assert.Equal(t, "cheap_dip", def.Name)
	assert.Equal(t, model.ActionBuy, def.Action)
	assert.Equal(t, 3, def.CooldownDays)
	require.Len(t, def.Conditions, 3)

	var flags []string
	for _, c := range def.Conditions {
		flags = append(flags, c.Flag)
	}
	assert.ElementsMatch(t, []string{"rsi_oversold", "_relative_volume", "_rsi"}, flags)
}

func TestLoadTriggerFile_MergedRange(t *testing.T) {
	path := writeTriggers(t, `
- name: band
  action: watch
  conditions:
    _rsi_min: 40
    _rsi_max: 60
`)
	defs, err := LoadTriggerFile(path)
	require.NoError(t, err)
	require.Len(t, defs[0].Conditions, 1, "min and max for one flag merge into a single condition")

	c := defs[0].Conditions[0]
	assert.Equal(t, "_rsi", c.Flag)
	require.NotNil(t, c.Min)
	require.NotNil(t, c.Max)
	assert.InDelta(t, 40.0, *c.Min, 1e-9)
	assert.InDelta(t, 60.0, *c.Max, 1e-9)
}

func TestLoadTriggerFile_EmptyConditions(t *testing.T) {
	path := writeTriggers(t, `
- name: always
  action: alert
  conditions: {}
`)
	defs, err := LoadTriggerFile(path)
	require.NoError(t, err)
	assert.NotNil(t, defs[0].Conditions)
	assert.Empty(t, defs[0].Conditions)
}

func TestLoadTriggerFile_Rejections(t *testing.T) {
	cases := map[string]string{
		"bad action": `
- name: x
  action: yolo
  conditions: {rsi_oversold: true}
`,
		"missing conditions": `
- name: x
  action: buy
`,
		"non-boolean flag value": `
- name: x
  action: buy
  conditions: {rsi_oversold: "yes"}
`,
		"non-numeric bound": `
- name: x
  action: buy
  conditions: {_rsi_min: high}
`,
		"min above max": `
- name: x
  action: buy
  conditions: {_rsi_min: 60, _rsi_max: 40}
`,
		"duplicate names": `
- name: x
  action: buy
  conditions: {rsi_oversold: true}
- name: x
  action: sell
  conditions: {rsi_overbought: true}
`,
		"negative cooldown": `
- name: x
  action: buy
  cooldown_days: -1
  conditions: {rsi_oversold: true}
`,
	}
	for label, yaml := range cases {
		_, err := LoadTriggerFile(writeTriggers(t, yaml))
		assert.Error(t, err, label)
	}
}

func TestLoadTriggerFile_Missing(t *testing.T) {
	_, err := LoadTriggerFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
