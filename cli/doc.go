// Package cli contains the command line interface for cottle.
//
// # Usage
//
//	cottle [flags] [FILE...]            render templates (default command)
//	cottle fmt [-w] [FILE...]           print templates in canonical form
//	cottle ast [--yaml] [FILE...]       print the syntax tree
//	cottle check [-q] FILE...           report syntax errors
//	cottle repl [FILE...]               render lines interactively
//	cottle init [-f]                    write the configuration file
//
// Commands read each named file in turn, or standard input when none are
// given. See package [github.com/ardnew/cottle/cli/cmd].
//
// # Configuration File
//
// Flag defaults are read from config.yaml (or config.yml, or config.json)
// in the user configuration directory, for example
// ~/.config/cottle/config.yaml. Nested YAML mappings are flattened into
// flag names, and flags of a command are prefixed with its name:
//
//	log:
//	  level: debug
//	render:
//	  trim: collapse
//	  vars: [site.yaml]
//
// Command-line flags always take precedence. The init command writes a
// config.yaml holding the current value of every flag.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, a Go
//     layout, or none)
//   - --[no-]log-caller: Include caller information in log output
//   - --[no-]log-pretty: Colorize log output
//
// Logging flags take effect before any other flag is parsed, wherever they
// appear on the command line.
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o cottle .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default:
//     ~/.cache/cottle/pprof)
//
// # Examples
//
//	# Render a page with variables from a YAML file
//	cottle -f site.yaml page.tmpl > page.html
//
//	# Render standard input with a custom delimiter set
//	echo 'Hi <<name>>' | cottle --begin '<<' --continue '||' --end '>>' -D name=Ada
//
//	# Debug logging with CPU profiling
//	cottle --log-level=debug --pprof-mode=cpu page.tmpl
package cli
