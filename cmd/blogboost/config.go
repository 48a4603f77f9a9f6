package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"
)

// YAMLLoader reads flag values from a YAML document. Keys are flag names;
// underscores may be used in place of dashes. Values may sit at the top
// level or under a section named after the command, e.g.
//
//	log-level: debug
//	enhance:
//	  store-url: http://localhost:8000/api
//	  references: 3
func YAMLLoader(r io.Reader) (kong.Resolver, error) {
	values := map[string]any{}
	if err := yaml.NewDecoder(r).Decode(&values); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return kong.ResolverFunc(func(kctx *kong.Context, parent *kong.Path, flag *kong.Flag) (any, error) {
		if cmd := commandName(parent); cmd != "" {
			if section, ok := values[cmd].(map[string]any); ok {
				if v, ok := lookup(section, flag.Name); ok {
					return v, nil
				}
			}
		}
		v, _ := lookup(values, flag.Name)
		return v, nil
	}), nil
}

func commandName(path *kong.Path) string {
	if path == nil || path.Command == nil {
		return ""
	}
	return path.Command.Name
}

// lookup finds name in values and converts scalars to their string form so
// kong's mappers handle them uniformly.
func lookup(values map[string]any, name string) (any, bool) {
	for _, key := range []string{name, strings.ReplaceAll(name, "-", "_")} {
		v, ok := values[key]
		if !ok || v == nil {
			continue
		}
		switch v.(type) {
		case map[string]any:
			continue
		case []any:
			return strings.Join(cast.ToStringSlice(v), ","), true
		}
		s, err := cast.ToStringE(v)
		if err != nil {
			continue
		}
		return s, true
	}
	return nil, false
}
