package pagetags

import (
	"fmt"
	"io"

	"fortio.org/safecast"
	"github.com/BurntSushi/toml"
)

// Config is the TOML form of engine settings.
//
//	id_prefix = "_ctl"
//	id_start = 1
//	unknown_components = "literal"
//
//	[[register]]
//	tag_prefix = "uc1"
//	tag_name = "Greeting"
//	src = "~/Greeting.ascx"
type Config struct {
	IDPrefix          string           `toml:"id_prefix"`
	IDStart           int64            `toml:"id_start"`
	UnknownComponents string           `toml:"unknown_components"`
	Register          []RegisterConfig `toml:"register"`
}

// RegisterConfig mirrors the attributes of a Register directive.
type RegisterConfig struct {
	TagPrefix string `toml:"tag_prefix"`
	TagName   string `toml:"tag_name"`
	Src       string `toml:"src"`
	Namespace string `toml:"namespace"`
	Assembly  string `toml:"assembly"`
}

// LoadConfig decodes a TOML configuration. Unknown keys are an error.
func LoadConfig(r io.Reader) (Config, error) {
	var cfg Config
	meta, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse TOML: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("unknown configuration key %q", undecoded[0].String())
	}
	return cfg, nil
}

// EngineOptions turns the configuration into NewEngine options. The registrations
// go into a fresh shared Registry.
func (c Config) EngineOptions() ([]func(*Engine), error) {
	policy, err := ParseUnknownComponentPolicy(c.UnknownComponents)
	if err != nil {
		return nil, err
	}
	var copts []ClassifierOption
	if c.IDPrefix != "" {
		copts = append(copts, WithIDPrefix(c.IDPrefix))
	}
	if c.IDStart != 0 {
		start, err := safecast.Conv[uint64](c.IDStart)
		if err != nil {
			return nil, fmt.Errorf("id_start %d: %w", c.IDStart, err)
		}
		copts = append(copts, WithIDCounter(NewIDCounter(start)))
	}

	reg := NewRegistry()
	for i, rc := range c.Register {
		if err := rc.apply(reg); err != nil {
			return nil, fmt.Errorf("register[%d]: %w", i, err)
		}
	}
	return []func(*Engine){
		WithUnknownPolicy(policy),
		WithRegistry(reg),
		WithClassifierOptions(copts...),
	}, nil
}

func (rc RegisterConfig) apply(reg *Registry) error {
	attrs := NewAttributes()
	for _, kv := range [][2]string{
		{"TagPrefix", rc.TagPrefix},
		{"TagName", rc.TagName},
		{"Src", rc.Src},
		{"Namespace", rc.Namespace},
		{"Assembly", rc.Assembly},
	} {
		if kv[1] != "" {
			attrs.Set(kv[0], kv[1])
		}
	}
	d, err := NewDirective(DirectiveRegister, attrs)
	if err != nil {
		return err
	}
	if err := DefaultValidators().ValidateDirective(d, Position{}); err != nil {
		return err
	}
	return reg.RegisterDirective(d)
}

// NewEngineFromConfig is NewEngine with the options from cfg, followed by opts.
func NewEngineFromConfig(cfg Config, opts ...func(*Engine)) (*Engine, error) {
	base, err := cfg.EngineOptions()
	if err != nil {
		return nil, err
	}
	return NewEngine(append(base, opts...)...), nil
}
