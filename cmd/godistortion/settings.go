package main

import (
	"flag"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/justyntemme/godistortion/pkg/effect"
	"github.com/justyntemme/godistortion/pkg/framework/debug"
	"github.com/justyntemme/godistortion/pkg/framework/param"
	"github.com/justyntemme/godistortion/pkg/framework/state"
)

// paramValues collects repeated -set identifier=value flags.
type paramValues []struct{ id, value string }

func (p *paramValues) String() string {
	parts := make([]string, len(*p))
	for i, v := range *p {
		parts[i] = v.id + "=" + v.value
	}
	return strings.Join(parts, ",")
}

func (p *paramValues) Set(s string) error {
	id, value, ok := strings.Cut(s, "=")
	id, value = strings.TrimSpace(id), strings.TrimSpace(value)
	if !ok || id == "" || value == "" {
		return fmt.Errorf("want identifier=value, got %q", s)
	}
	*p = append(*p, struct{ id, value string }{id, value})
	return nil
}

// settings are the flags every processing command shares.
type settings struct {
	preset   string
	params   paramValues
	logLevel string
}

func (s *settings) register(fs *flag.FlagSet) {
	fs.StringVar(&s.preset, "preset", "", "preset name or path to load first")
	fs.Var(&s.params, "set", "set a parameter, identifier=value (repeatable); choices accept names")
	fs.StringVar(&s.logLevel, "log", "info", "log level: debug|info|warn|error|off")
}

func (s *settings) logger() (*debug.Logger, error) {
	level, err := debug.ParseLevel(s.logLevel)
	if err != nil {
		return nil, err
	}
	logger := debug.New(os.Stderr, "godistortion", debug.FlagLevel|debug.FlagPrefix)
	logger.SetLevel(level)
	return logger, nil
}

// presetPath resolves the -preset flag, or returns "" when unset.
func (s *settings) presetPath() (string, error) {
	if s.preset == "" {
		return "", nil
	}
	return state.PresetPath(s.preset)
}

// plainValues converts the -set flags to plain values using params for
// parsing and validation.
func (s *settings) plainValues(params *param.Registry) (map[string]float64, error) {
	values := make(map[string]float64, len(s.params))
	for _, v := range s.params {
		p, err := params.Lookup(v.id)
		if err != nil {
			return nil, err
		}
		if plain, err := strconv.ParseFloat(v.value, 64); err == nil {
			values[v.id] = plain
			continue
		}
		normalized, err := p.ParseValue(v.value)
		if err != nil {
			return nil, fmt.Errorf("-set %s=%s: %w", v.id, v.value, err)
		}
		values[v.id] = p.Denormalize(normalized)
	}
	return values, nil
}

// newProcessor builds a processor with the preset and -set flags applied.
func (s *settings) newProcessor(logger *debug.Logger, opts ...effect.Option) (*effect.Processor, error) {
	proc := effect.New(opts...)

	path, err := s.presetPath()
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := proc.State().LoadFile(path); err != nil {
			return nil, err
		}
		logger.Debug("loaded preset %s", path)
	}

	values, err := s.plainValues(proc.Parameters())
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(values))
	for id := range values {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		if err := proc.SetParamByName(id, values[id]); err != nil {
			return nil, err
		}
	}
	return proc, nil
}
