package lisp

// Version is the version of the rlisp interpreter.
const Version = "0.1.0"

// Profiler observes function applications.
type Profiler interface {
	// Is the profiler enabled?
	IsEnabled() bool
	// Enable the profiler
	Enable() error
	// End the profiling session and output summary lines
	Complete() error
	// Start marks the application of fun, a name or operator, and returns
	// a function that marks its end.
	Start(fun *Expr) func()
}
