package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyDefaultTable(t *testing.T) {
	m := MustMatcher(DefaultRules())

	tests := []struct {
		text string
		want Intent
	}{
		{"check battery", CheckBattery},
		{"Please check battery status now", CheckBattery},
		{"what is my BATTERY STATUS", CheckBattery},
		{"open terminal", OpenTerminal},
		{"could you Open Terminal for me", OpenTerminal},
		{"system load", SystemLoad},
		{"how is the cpu load", SystemLoad},
		{"list files here", ListFiles},
		{"VOLUME UP please", VolumeUp},
		{"tell me a joke", Unrecognized},
		{"", Unrecognized},
		{"   ", Unrecognized},
		{"volume down", Unrecognized},
		{"batterystatus", Unrecognized},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Classify(tt.text))
		})
	}
}

func TestClassifyBatteryStatusAnywhere(t *testing.T) {
	m := MustMatcher(DefaultRules())

	for _, text := range []string{
		"battery status",
		"xxbattery statusxx",
		"Battery Status?",
		"list files and then battery status",
		"open terminal, volume up, BaTtErY sTaTuS",
	} {
		assert.Equal(t, CheckBattery, m.Classify(text), text)
	}
}

func TestClassifyFirstRuleWins(t *testing.T) {
	m := MustMatcher(DefaultRules())

	assert.Equal(t, CheckBattery, m.Classify("volume up then battery status"))
	assert.Equal(t, OpenTerminal, m.Classify("volume up and open terminal"))
	assert.Equal(t, SystemLoad, m.Classify("list files or cpu load"))
}

func TestClassifyIsStable(t *testing.T) {
	m := MustMatcher(DefaultRules())

	first := m.Classify("cpu load please")
	for i := 0; i < 100; i++ {
		require.Equal(t, first, m.Classify("cpu load please"))
	}
}

func TestCustomTableOrder(t *testing.T) {
	m, err := NewMatcher([]Rule{
		{Intent: VolumeUp, Triggers: []string{"Louder", " "}},
		{Intent: CheckBattery, Triggers: []string{"battery"}},
	})
	require.NoError(t, err)

	assert.Equal(t, VolumeUp, m.Classify("battery low, louder"))
	assert.Equal(t, CheckBattery, m.Classify("battery"))
	assert.Equal(t, Unrecognized, m.Classify("volume up"))

	rules := m.table()
	require.Len(t, rules, 2)
	assert.Equal(t, []string{"louder"}, rules[0].Triggers)
}

func TestNewMatcherRejectsBadTables(t *testing.T) {
	_, err := NewMatcher(nil)
	assert.Error(t, err)

	_, err = NewMatcher([]Rule{{Intent: Unrecognized, Triggers: []string{"x"}}})
	assert.Error(t, err)

	_, err = NewMatcher([]Rule{{Intent: Intent(42), Triggers: []string{"x"}}})
	assert.Error(t, err)

	_, err = NewMatcher([]Rule{{Intent: ListFiles, Triggers: []string{"", "  "}}})
	assert.Error(t, err)
}

func TestParseRoundTrip(t *testing.T) {
	for _, i := range append(All(), Unrecognized) {
		got, err := Parse(i.String())
		require.NoError(t, err)
		assert.Equal(t, i, got)
	}

	_, err := Parse("make_coffee")
	assert.Error(t, err)
	assert.Equal(t, "intent(42)", Intent(42).String())
}
