package cmd

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/cottle/lang"
)

// loadVarsFile binds the top-level entries of the YAML mapping in the file
// at path in the innermost frame of scope. It returns the number of entries.
func loadVarsFile(path string, scope *lang.Scope) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, ErrLoadVars.Wrap(err).With(slog.String("path", path))
	}
	defer f.Close()

	vars, err := decodeVars(f)
	if err != nil {
		return 0, ErrLoadVars.Wrap(err).With(slog.String("path", path))
	}

	for key, value := range vars.All() {
		scope.Set(key, value, lang.ModeLocal)
	}

	return vars.Len(), nil
}

// decodeVars reads a YAML mapping as a template map. Mappings keep the order
// of the document; sequences become lists. An empty document is an empty
// map.
func decodeVars(r io.Reader) (*lang.Map, error) {
	var doc any

	err := yaml.NewDecoder(r, yaml.UseOrderedMap()).Decode(&doc)
	if errors.Is(err, io.EOF) {
		return lang.NewMap(), nil
	}

	if err != nil {
		return nil, err
	}

	m, ok := doc.(yaml.MapSlice)
	if !ok && doc != nil {
		return nil, ErrVarsNotMap
	}

	return fromYAML(m).Fields(), nil
}

// fromYAML converts a decoded YAML node into a template value.
func fromYAML(node any) lang.Value {
	switch n := node.(type) {
	case yaml.MapSlice:
		pairs := make([]lang.Pair, len(n))
		for i, item := range n {
			pairs[i] = lang.Pair{Key: fromYAML(item.Key), Value: fromYAML(item.Value)}
		}

		return lang.MapOf(lang.NewMap(pairs...))

	case []any:
		values := make([]lang.Value, len(n))
		for i, item := range n {
			values[i] = fromYAML(item)
		}

		return lang.List(values...)

	case time.Time:
		return lang.String(n.Format(time.RFC3339Nano))

	default:
		return lang.FromNative(n)
	}
}
