package ast

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// ProgramConfig carries the options a program was built with.  They tune
// printing and analysis defaults and never change what the tree means.
type ProgramConfig struct {
	// Indent is one level of block indentation when printing.
	Indent string `toml:"indent"`

	// HideTicks prints programs without their tick instructions and tick
	// wrappers.  The output is for display and does not round trip.
	HideTicks bool `toml:"hide_ticks"`

	// EnforceQueryPlacement turns misplaced queries into build errors
	// instead of warnings.
	EnforceQueryPlacement bool `toml:"enforce_query_placement"`

	// InlineConstants makes free variable collection look through constant
	// references to the free variables of their values.
	InlineConstants bool `toml:"inline_constants"`
}

func DefaultConfig() ProgramConfig {
	return ProgramConfig{Indent: DefaultIndent}
}

// ParseConfig decodes a TOML document on top of DefaultConfig.  Keys that
// are not recognised are reported as an error.
func ParseConfig(data []byte) (ProgramConfig, error) {
	cfg := DefaultConfig()
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return cfg, fmt.Errorf("invalid program config: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, fmt.Errorf("invalid program config: unknown keys %s", strings.Join(keys, ", "))
	}
	return cfg, nil
}

// MarshalTOML encodes the config in the form ParseConfig reads back.
func (c ProgramConfig) MarshalTOML() ([]byte, error) {
	// plain drops the method set so the encoder does not call back in here
	type plain ProgramConfig
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(plain(c)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (c ProgramConfig) RenderOptions() RenderOptions {
	return RenderOptions{Indent: c.Indent, HideTicks: c.HideTicks}
}
