package dispatch

import (
	"fmt"
	"strings"

	"riyu/internal/action"
	"riyu/internal/intent"
)

// Placeholder is replaced by the action payload in success templates.
const Placeholder = "{value}"

type Templates struct {
	Success  map[intent.Intent]string
	Fallback string
	Apology  string
}

func DefaultTemplates() Templates {
	return Templates{
		Success: map[intent.Intent]string{
			intent.CheckBattery: "battery status is: {value}",
			intent.OpenTerminal: "Terminal is open.",
			intent.SystemLoad:   "System load current level: {value}",
			intent.ListFiles:    "Files are: {value}",
			intent.VolumeUp:     "Volume turned up.",
		},
		Fallback: "Sorry, I didn't get that in offline mode. I'll try my best though.",
		Apology:  "Sorry, I couldn't do that right now.",
	}
}

func (t Templates) Validate() error {
	if strings.TrimSpace(t.Fallback) == "" {
		return fmt.Errorf("empty fallback phrase")
	}
	if strings.TrimSpace(t.Apology) == "" {
		return fmt.Errorf("empty apology phrase")
	}
	for _, in := range intent.All() {
		if strings.TrimSpace(t.Success[in]) == "" {
			return fmt.Errorf("no template for %s", in)
		}
	}
	return nil
}

// Compose turns a result into the phrase to speak. It never returns an
// empty string for a validated set.
func (t Templates) Compose(res action.Result) string {
	if res.Intent == intent.Unrecognized {
		return t.Fallback
	}
	if !res.OK() {
		return t.Apology
	}
	return strings.ReplaceAll(t.Success[res.Intent], Placeholder, res.Payload)
}
