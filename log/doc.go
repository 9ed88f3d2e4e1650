// Package log provides leveled structured logging based on [log/slog].
//
// A [Logger] is a value configured once with functional options; deriving
// a logger with [Logger.Wrap] or [Logger.With] never affects the original,
// so loggers are safe for concurrent use without locking. The zero Logger
// discards everything, which lets libraries accept a Logger option without
// forcing callers to configure one.
//
// # Basic Usage
//
//	logger := log.Make(os.Stderr)
//	logger.Info("template rendered", slog.Int("bytes", n))
//
// # Configuration
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelTrace),
//		log.WithFormat(log.FormatJSON),
//		log.WithTimeLayout("kitchen"),
//		log.WithCaller(true))
//
// The package-level functions ([Info], [Error], ...) write through a default
// logger that [Config] reconfigures.
//
// # Levels
//
// In addition to the four levels of slog, [LevelTrace] sits below
// [LevelDebug] and is used for step-by-step diagnostics such as the phases
// of template compilation.
//
// # Pretty Output
//
// With [WithPretty] enabled (the default), text records are colorized and
// JSON records are printed as indented blocks. Colors follow the terminal
// capabilities of the output, so redirected output stays plain.
package log
