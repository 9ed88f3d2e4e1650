// Package profile provides optional runtime profiling for cottle.
//
// Profiling uses [github.com/pkg/profile] and is compiled in only with the
// pprof build tag:
//
//	go build -tags pprof .
//
// Without the tag, [Modes] is empty and [Profiler.Start] does nothing.
//
// # Modes
//
//   - allocs:    memory allocations
//   - block:     blocking on synchronization primitives
//   - clock:     wall-clock time
//   - cpu:       CPU time
//   - goroutine: goroutine stacks
//   - heap:      live heap allocations
//   - mem:       memory (sampled)
//   - mutex:     mutex contention
//   - thread:    thread creation
//   - trace:     execution trace
//
// # Usage
//
//	stop := profile.Profiler{Mode: "cpu", Dir: "/tmp/profiles"}.Start()
//	defer stop.Stop()
//
// From the command line:
//
//	cottle --pprof-mode=cpu render page.tmpl
//
// Profiles are written to $XDG_CACHE_HOME/cottle/pprof unless --pprof-dir
// says otherwise. Analyze them with go tool pprof:
//
//	go tool pprof -http=: ~/.cache/cottle/pprof/cpu.pprof
//
// The pprof build also registers the [net/http/pprof] handlers, for hosts
// that serve them.
package profile
