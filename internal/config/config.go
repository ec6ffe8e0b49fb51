package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"riyu/internal/dispatch"
	"riyu/internal/intent"
)

const DefaultPath = "riyu.toml"

type Config struct {
	Listen         string `toml:"listen"`
	Socket         string `toml:"socket"`
	BusURL         string `toml:"bus_url"`
	Shard          string `toml:"shard"`
	RejectWhenBusy bool   `toml:"reject_when_busy"`

	// Triggers overrides the trigger phrases per intent name. Rule order
	// stays fixed.
	Triggers  map[string][]string `toml:"triggers"`
	Templates Templates           `toml:"templates"`
	Actions   Actions             `toml:"actions"`
	Speech    Speech              `toml:"speech"`
	Journal   Journal             `toml:"journal"`
}

type Templates struct {
	Success  map[string]string `toml:"success"`
	Fallback string            `toml:"fallback"`
	Apology  string            `toml:"apology"`
}

type Actions struct {
	VolumeStep   int      `toml:"volume_step"`
	MixerDevice  string   `toml:"mixer_device"`
	MixerControl string   `toml:"mixer_control"`
	Terminal     string   `toml:"terminal"`
	TerminalArgs []string `toml:"terminal_args"`
	WorkDir      string   `toml:"work_dir"`
}

type Speech struct {
	Engine     string        `toml:"engine"` // espeak | console
	Voice      string        `toml:"voice"`
	Rate       int           `toml:"rate"`
	Chime      string        `toml:"chime"`
	Duck       bool          `toml:"duck"`
	DuckFactor float64       `toml:"duck_factor"`
	DuckMin    int           `toml:"duck_min"`
	DuckFade   time.Duration `toml:"duck_fade"`
	SelfNames  []string      `toml:"self_names"`
}

type Journal struct {
	Path string `toml:"path"` // empty disables the journal
}

func Default() *Config {
	tpl := dispatch.DefaultTemplates()
	success := make(map[string]string, len(tpl.Success))
	for in, s := range tpl.Success {
		success[in.String()] = s
	}

	triggers := make(map[string][]string)
	for _, r := range intent.DefaultRules() {
		triggers[r.Intent.String()] = r.Triggers
	}

	return &Config{
		Listen:   "127.0.0.1:8000",
		Socket:   "/tmp/riyu.sock",
		Shard:    "riyu",
		Triggers: triggers,
		Templates: Templates{
			Success:  success,
			Fallback: tpl.Fallback,
			Apology:  tpl.Apology,
		},
		Actions: Actions{
			VolumeStep:   10,
			MixerDevice:  "pulse",
			MixerControl: "Master",
			Terminal:     "gnome-terminal",
		},
		Speech: Speech{
			Engine:     "espeak",
			Voice:      "en+f3",
			Rate:       160,
			DuckFactor: 0.3,
			DuckMin:    10,
			DuckFade:   200 * time.Millisecond,
			SelfNames:  []string{"espeak-ng", "espeak"},
		},
		Journal: Journal{Path: "riyu.db"},
	}
}

// Load overlays the TOML file at path on the defaults. A missing file at
// the default path is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) && path == DefaultPath {
			return cfg, nil
		}
		return nil, fmt.Errorf("load config %s: %w", path, err)
	}

	return cfg, nil
}

// ApplyEnv lets RIYU_* variables override file values.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if getenv == nil {
		getenv = os.Getenv
	}

	str := map[string]*string{
		"RIYU_LISTEN":   &c.Listen,
		"RIYU_SOCKET":   &c.Socket,
		"RIYU_BUS_URL":  &c.BusURL,
		"RIYU_JOURNAL":  &c.Journal.Path,
		"RIYU_TERMINAL": &c.Actions.Terminal,
		"RIYU_VOICE":    &c.Speech.Voice,
		"RIYU_ENGINE":   &c.Speech.Engine,
		"RIYU_CHIME":    &c.Speech.Chime,
	}
	for key, dst := range str {
		if v, ok := lookup(getenv, key); ok {
			*dst = v
		}
	}

	if v, ok := lookup(getenv, "RIYU_VOLUME_STEP"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("RIYU_VOLUME_STEP: %w", err)
		}
		c.Actions.VolumeStep = n
	}

	return nil
}

func lookup(getenv func(string) string, key string) (string, bool) {
	v := strings.TrimSpace(getenv(key))
	return v, v != ""
}

func (c *Config) Validate() error {
	if c.Actions.VolumeStep < 1 || c.Actions.VolumeStep > 100 {
		return fmt.Errorf("actions.volume_step must be within 1..100, got %d", c.Actions.VolumeStep)
	}
	switch c.Speech.Engine {
	case "espeak", "console":
	default:
		return fmt.Errorf("speech.engine: unknown engine %q", c.Speech.Engine)
	}
	if _, err := c.Rules(); err != nil {
		return err
	}
	tpl, err := c.DispatchTemplates()
	if err != nil {
		return err
	}
	return tpl.Validate()
}

// Rules builds the ordered trigger table. Intents without configured
// triggers keep their built-in ones.
func (c *Config) Rules() ([]intent.Rule, error) {
	for name := range c.Triggers {
		if _, err := intent.Parse(name); err != nil {
			return nil, fmt.Errorf("triggers: %w", err)
		}
	}

	rules := intent.DefaultRules()
	for i, r := range rules {
		if t, ok := c.Triggers[r.Intent.String()]; ok && len(t) > 0 {
			rules[i].Triggers = append([]string(nil), t...)
		}
	}
	return rules, nil
}

func (c *Config) DispatchTemplates() (dispatch.Templates, error) {
	tpl := dispatch.Templates{
		Success:  make(map[intent.Intent]string, len(c.Templates.Success)),
		Fallback: c.Templates.Fallback,
		Apology:  c.Templates.Apology,
	}
	for name, s := range c.Templates.Success {
		in, err := intent.Parse(name)
		if err != nil {
			return dispatch.Templates{}, fmt.Errorf("templates.success: %w", err)
		}
		tpl.Success[in] = s
	}
	return tpl, nil
}
