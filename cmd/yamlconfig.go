package rootcmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/alecthomas/kong"
	"gopkg.in/yaml.v3"
)

// YAML is a kong.ConfigurationLoader for YAML files. A flag is looked up
// under its command first (watch: {metrics-port: 9000}), then at the top
// level; names are tried as written and with dashes as underscores.
func YAML(r io.Reader) (kong.Resolver, error) {
	values := map[string]any{}
	if err := yaml.NewDecoder(r).Decode(&values); err != nil && err != io.EOF {
		return nil, fmt.Errorf("invalid YAML configuration: %w", err)
	}

	var f kong.ResolverFunc = func(kctx *kong.Context, parent *kong.Path, flag *kong.Flag) (any, error) {
		var names []string
		if parent != nil {
			if n := parent.Node(); n != nil && n.Type == kong.CommandNode {
				names = append(names, n.Name+"."+flag.Name)
			}
		}
		names = append(names, flag.Name)

		for _, name := range names {
			for _, key := range []string{name, strings.ReplaceAll(name, "-", "_")} {
				if raw, ok := lookup(values, key); ok {
					return scalar(raw)
				}
			}
		}
		return nil, nil
	}
	return f, nil
}

func lookup(values map[string]any, name string) (any, bool) {
	if v, ok := values[name]; ok {
		return v, true
	}

	var cur any = values
	for _, part := range strings.Split(name, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// scalar turns YAML values into strings so kong's mappers parse them the
// same way as command line values.
func scalar(v any) (any, error) {
	switch v := v.(type) {
	case nil:
		return nil, nil
	case string:
		return v, nil
	case bool, int, int64, uint64, float64:
		return fmt.Sprint(v), nil
	case []any:
		parts := make([]string, 0, len(v))
		for _, e := range v {
			parts = append(parts, fmt.Sprint(e))
		}
		return strings.Join(parts, ","), nil
	}
	return nil, fmt.Errorf("unsupported configuration value %v (%T)", v, v)
}
