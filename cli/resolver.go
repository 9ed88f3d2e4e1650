package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/cottle/lang"
)

// ErrConfigFile is returned when the configuration file cannot be decoded.
var ErrConfigFile = lang.NewError("invalid configuration file")

// loadYAML is a [kong.ConfigurationLoader] for YAML configuration files.
//
// Nested mappings are flattened into flag names by joining keys with '-',
// so that the following two files are equivalent:
//
//	log:
//	  level: debug
//	  pretty: false
//	render:
//	  trim: collapse
//
//	log-level: debug
//	log-pretty: false
//	render-trim: collapse
//
// Keys of flags that belong to a command are prefixed with the command name.
// Underscores may be used in place of hyphens. Command-line flags override
// values from the file.
func loadYAML(r io.Reader) (kong.Resolver, error) {
	var doc map[string]any

	err := yaml.NewDecoder(r).Decode(&doc)
	if errors.Is(err, io.EOF) {
		return config{}, nil
	}

	if err != nil {
		return nil, ErrConfigFile.Wrap(err).
			With(slog.String("format", "yaml"))
	}

	cfg := config{}
	cfg.flatten("", doc)

	return cfg, nil
}

// config implements [kong.Resolver] over flattened configuration keys.
type config map[string]any

func (c config) flatten(prefix string, m map[string]any) {
	for k, v := range m {
		key := strings.ReplaceAll(k, "_", "-")
		if prefix != "" {
			key = prefix + "-" + key
		}

		if sub, ok := v.(map[string]any); ok {
			c.flatten(key, sub)

			continue
		}

		c[key] = scalar(v)
	}
}

// scalar converts decoded YAML values into the forms kong's mappers accept.
func scalar(v any) any {
	switch val := v.(type) {
	case int:
		return strconv.Itoa(val)

	case int64:
		return strconv.FormatInt(val, 10)

	case uint64:
		return strconv.FormatUint(val, 10)

	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)

	case []any:
		items := make([]string, len(val))
		for i, item := range val {
			items[i] = fmt.Sprint(scalar(item))
		}

		return strings.Join(items, ",")

	default:
		return val
	}
}

// Validate implements [kong.Resolver].
func (c config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver].
func (c config) Resolve(
	_ *kong.Context,
	parent *kong.Path,
	flag *kong.Flag,
) (any, error) {
	if parent != nil && parent.Command != nil {
		if v, ok := c[parent.Command.Name+"-"+flag.Name]; ok {
			return v, nil
		}
	}

	if v, ok := c[flag.Name]; ok {
		return v, nil
	}

	return nil, nil //nolint:nilnil
}
