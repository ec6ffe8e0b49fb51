package intent

import (
	"errors"
	"fmt"
	"strings"
)

// Rule selects Intent when any of its triggers is a substring of the
// normalized command text.
type Rule struct {
	Intent   Intent
	Triggers []string
}

// DefaultRules returns the built-in trigger table. Battery checks come
// before the generic system checks.
func DefaultRules() []Rule {
	return []Rule{
		{Intent: CheckBattery, Triggers: []string{"check battery", "battery status"}},
		{Intent: OpenTerminal, Triggers: []string{"open terminal"}},
		{Intent: SystemLoad, Triggers: []string{"system load", "cpu load"}},
		{Intent: ListFiles, Triggers: []string{"list files"}},
		{Intent: VolumeUp, Triggers: []string{"volume up"}},
	}
}

// Matcher classifies command text against an ordered rule table.
// It holds no mutable state and is safe for concurrent use.
type Matcher struct {
	rules []Rule
}

func NewMatcher(rules []Rule) (*Matcher, error) {
	if len(rules) == 0 {
		return nil, errors.New("empty rule table")
	}

	m := &Matcher{rules: make([]Rule, 0, len(rules))}
	for idx, r := range rules {
		if r.Intent == Unrecognized {
			return nil, fmt.Errorf("rule %d: %s cannot be a rule target", idx, Unrecognized)
		}
		if _, ok := names[r.Intent]; !ok {
			return nil, fmt.Errorf("rule %d: unknown intent %d", idx, uint8(r.Intent))
		}

		triggers := make([]string, 0, len(r.Triggers))
		for _, t := range r.Triggers {
			if strings.TrimSpace(t) == "" {
				continue
			}
			triggers = append(triggers, Normalize(t))
		}
		if len(triggers) == 0 {
			return nil, fmt.Errorf("rule %d (%s): no triggers", idx, r.Intent)
		}

		m.rules = append(m.rules, Rule{Intent: r.Intent, Triggers: triggers})
	}

	return m, nil
}

// MustMatcher is NewMatcher for tables known to be valid.
func MustMatcher(rules []Rule) *Matcher {
	m, err := NewMatcher(rules)
	if err != nil {
		panic(err)
	}
	return m
}

// Classify returns the intent of the first rule whose trigger occurs in
// text, or Unrecognized.
func (m *Matcher) Classify(text string) Intent {
	text = Normalize(text)

	for _, r := range m.rules {
		for _, t := range r.Triggers {
			if strings.Contains(text, t) {
				return r.Intent
			}
		}
	}

	return Unrecognized
}

// table returns a copy of the normalized rules.
func (m *Matcher) table() []Rule {
	out := make([]Rule, len(m.rules))
	for i, r := range m.rules {
		out[i] = Rule{Intent: r.Intent, Triggers: append([]string(nil), r.Triggers...)}
	}
	return out
}

// Normalize case-folds command text. No other transformation is applied.
func Normalize(text string) string {
	return strings.ToLower(text)
}
