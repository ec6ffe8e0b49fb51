package intent

import (
	"fmt"
	"strings"
)

type Intent uint8

const (
	Unrecognized Intent = iota
	CheckBattery
	OpenTerminal
	SystemLoad
	ListFiles
	VolumeUp
)

var names = map[Intent]string{
	Unrecognized: "unrecognized",
	CheckBattery: "check_battery",
	OpenTerminal: "open_terminal",
	SystemLoad:   "system_load",
	ListFiles:    "list_files",
	VolumeUp:     "volume_up",
}

func (i Intent) String() string {
	if n, ok := names[i]; ok {
		return n
	}
	return fmt.Sprintf("intent(%d)", uint8(i))
}

// Parse maps a snake_case intent name back to its value.
func Parse(name string) (Intent, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range names {
		if n == name {
			return i, nil
		}
	}
	return Unrecognized, fmt.Errorf("unknown intent %q", name)
}

// All lists the actionable intents in rule priority order.
func All() []Intent {
	return []Intent{CheckBattery, OpenTerminal, SystemLoad, ListFiles, VolumeUp}
}
