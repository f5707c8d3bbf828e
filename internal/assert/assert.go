// Package assert reports invariant violations: bugs, not expected
// conditions. Per spec.md §7, invariant violations must assert and abort —
// silent recovery is forbidden because subsequent statistics would be
// meaningless. This is deliberately a different path than the ordinary
// [netsim.Logger] used for operational events (packet drops, packets a
// Router cannot forward): it is structured, leveled, and always fatal.
package assert

import "go.uber.org/zap"

// fatalLogger is the process-wide structured logger used for invariant
// violations. Constructed once with zap's production defaults, matching
// the way cppla-moto wires a single package-level zap logger for its own
// fatal-path diagnostics.
var fatalLogger = newFatalLogger()

func newFatalLogger() *zap.Logger {
	logger, err := zap.NewProduction()
	if err != nil {
		// zap itself failed to construct; fall back to a no-op logger
		// rather than panicking during package init.
		return zap.NewNop()
	}
	return logger
}

// Invariant panics with msg, after emitting a structured fatal log entry
// with the given key/value fields, if cond is false.
//
// Call sites name the violated invariant in msg (e.g. "free_bits < 0",
// "window_occupied > cwnd") and pass enough fields to diagnose it without
// re-running the simulation.
func Invariant(cond bool, msg string, fields ...zap.Field) {
	if cond {
		return
	}
	fatalLogger.Error(msg, fields...)
	panic("netsim: invariant violated: " + msg)
}

// Must0 panics if err is non-nil. Used at configuration-build boundaries
// where a caller has already validated inputs and a non-nil error can only
// mean a bug in this package.
func Must0(err error) {
	if err != nil {
		panic(err)
	}
}

// Must1 panics if err is non-nil, otherwise returns value.
func Must1[T any](value T, err error) T {
	Must0(err)
	return value
}
