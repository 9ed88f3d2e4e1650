package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/goccy/go-yaml"

	"github.com/ardnew/cottle/log"
	"github.com/ardnew/cottle/profile"
)

// defaultConfigIndent is the number of spaces to use for indentation
// when generating the default configuration file.
const defaultConfigIndent = 2

// Init generates a default configuration file with current flag values.
type Init struct {
	Force bool `help:"Overwrite existing configuration file" short:"f"`
}

// Run executes the init command.
func (i *Init) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	ktx := kongContextFrom(ctx)
	if ktx == nil {
		return ErrWriteConfig.Wrap(ErrNoContext)
	}

	base, ok := ktx.Model.Vars()[ConfigIdentifier]
	if !ok {
		return ErrWriteConfig.Wrap(ErrNoContext).
			With(slog.String("var", ConfigIdentifier))
	}

	confPath := base + ".yaml"

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !i.Force {
		flags |= os.O_EXCL
	}

	file, err := os.OpenFile(confPath, flags, 0o600)
	if errors.Is(err, fs.ErrExist) {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			With(slog.Bool("exists", true)).
			Wrap(ErrFileExists)
	}

	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}
	defer file.Close()

	out, err := yaml.MarshalWithOptions(configDocument(ktx),
		yaml.Indent(defaultConfigIndent),
		yaml.IndentSequence(true),
	)
	if err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	if _, err := file.Write(out); err != nil {
		return ErrWriteConfig.
			With(slog.String("file", confPath)).
			Wrap(err)
	}

	log.DebugContext(
		ctx,
		"initialized configuration file",
		slog.String("path", confPath),
	)

	return nil
}

// configDocument builds the configuration from current flag values. Global
// flags sharing a prefix, like log-level and log-format, are nested under
// that prefix; the flags of each command are nested under its name.
func configDocument(ktx *kong.Context) yaml.MapSlice {
	var doc yaml.MapSlice

	// section returns the index of the mapping named key, adding it first.
	section := func(key string) int {
		i := slices.IndexFunc(doc, func(item yaml.MapItem) bool { return item.Key == key })
		if i < 0 {
			doc = append(doc, yaml.MapItem{Key: key, Value: yaml.MapSlice{}})
			i = len(doc) - 1
		}

		return i
	}

	add := func(key, name string, value any) {
		i := section(key)
		sub, _ := doc[i].Value.(yaml.MapSlice)
		doc[i].Value = append(sub, yaml.MapItem{Key: name, Value: value})
	}

	for _, flag := range ktx.Model.Flags {
		if ignoreFlag(flag) {
			continue
		}

		if v, ok := flagValue(ktx, flag); ok {
			group, name, nested := strings.Cut(flag.Name, "-")
			if !nested {
				doc = append(doc, yaml.MapItem{Key: flag.Name, Value: v})

				continue
			}

			add(group, name, v)
		}
	}

	for _, child := range ktx.Model.Children {
		if child.Hidden || child == ktx.Selected() {
			continue
		}

		for _, flag := range child.Flags {
			if ignoreFlag(flag) {
				continue
			}

			if v, ok := flagValue(ktx, flag); ok {
				add(child.Name, flag.Name, v)
			}
		}
	}

	return doc
}

func ignoreFlag(flag *kong.Flag) bool {
	if flag.Hidden {
		return true
	}

	return slices.ContainsFunc([]string{"help", "version", profile.Tag}, func(s string) bool {
		return strings.HasPrefix(flag.Name, s)
	})
}

// flagValue returns the YAML value of a flag, or false if it is unset or
// has no place in a configuration file.
func flagValue(ktx *kong.Context, flag *kong.Flag) (any, bool) {
	switch v := ktx.FlagValue(flag).(type) {
	case nil:
		return nil, false

	case bool, int, int64, uint, uint64, float64:
		return v, true

	case string:
		return v, v != ""

	case []string:
		return v, len(v) > 0

	case map[string]string:
		// Definitions only make sense for a single invocation.
		return nil, false

	default:
		s := fmt.Sprint(v)

		return s, s != ""
	}
}
