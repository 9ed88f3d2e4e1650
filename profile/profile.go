package profile

// Tag is the build tag required to enable profiling.
const Tag = `pprof`

// Stopper ends a profiling session and flushes its output.
type Stopper interface{ Stop() }

// Profiler describes one profiling session.
type Profiler struct {
	Mode  string // One of [Modes]; empty disables profiling
	Dir   string // Output directory; empty uses the working directory
	Quiet bool   // Suppress the profiler's own log lines
}

// Start begins profiling and returns the handle that stops it.
//
// Start returns a no-op handle when Mode is empty, when Mode is not one of
// [Modes], or when the binary was built without the pprof tag. Stop is
// always safe to call.
func (p Profiler) Start() Stopper {
	if p.Mode == "" {
		return ignore{}
	}

	return start(p)
}

type ignore struct{}

func (ignore) Stop() {}
