// Package cmd implements the cottle subcommands.
//
//   - render: render templates to standard output (the default command)
//   - fmt:    print templates in canonical source form
//   - ast:    print the syntax tree of templates, as an outline or YAML
//   - check:  report the first syntax error of each template
//   - repl:   render template lines interactively against one scope
//   - init:   write a configuration file from the current flag values
//
// Template commands read each of their FILE arguments, or standard input
// when there are none, and share the syntax flags --begin, --continue and
// --end.
package cmd

import (
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/cottle/lang"
)

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path of
	// the configuration file, without extension.
	ConfigIdentifier = "config"
)

// Vars returns the kong variables referenced by the command flags.
func Vars() kong.Vars {
	trimmers := make([]string, 0, 4)
	for _, t := range []lang.Trimmer{
		lang.TrimNothing, lang.TrimBlankLines, lang.TrimEnclosing, lang.TrimCollapse,
	} {
		trimmers = append(trimmers, t.String())
	}

	return kong.Vars{
		"trimEnum": strings.Join(trimmers, ","),
		"strategyEnum": strings.Join([]string{
			lang.StrategyInterpret.String(), lang.StrategyCompile.String(),
		}, ","),
		"begin":    lang.DefaultDelimiters.Begin,
		"continue": lang.DefaultDelimiters.Continue,
		"end":      lang.DefaultDelimiters.End,
	}
}
